package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// PlacementHeader is the first line of the placement manifest.
const PlacementHeader = "ModelFile;PositionX;PositionY;PositionZ;RotationW;RotationX;RotationY;RotationZ;ScaleFactor;DoodadSet"

// WritePlacements writes the semicolon separated placement manifest.
func WritePlacements(w io.Writer, placements []Placement) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, PlacementHeader)
	for _, p := range placements {
		fmt.Fprintf(bw, "%s;%.9f;%.9f;%.9f;%.15f;%.15f;%.15f;%.15f;%s;%s\n",
			p.ModelFile,
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Rotation.W, p.Rotation.X, p.Rotation.Y, p.Rotation.Z,
			formatFloat(p.Scale),
			p.DoodadSet,
		)
	}

	return bw.Flush()
}

// WriteMTL writes one material block per material, referenced or not.
func WriteMTL(w io.Writer, materials []Material) error {
	bw := bufio.NewWriter(w)

	for _, m := range materials {
		fmt.Fprintf(bw, "newmtl %s\n", m.Filename)
		fmt.Fprint(bw, "Ns 96.078431\n")
		fmt.Fprint(bw, "Ka 1.000000 1.000000 1.000000\n")
		fmt.Fprint(bw, "Kd 0.640000 0.640000 0.640000\n")
		fmt.Fprint(bw, "Ks 0.000000 0.000000 0.000000\n")
		fmt.Fprint(bw, "Ke 0.000000 0.000000 0.000000\n")
		fmt.Fprint(bw, "Ni 1.000000\n")
		fmt.Fprint(bw, "d 1.000000\n")
		fmt.Fprint(bw, "illum 2\n")
		fmt.Fprintf(bw, "map_Kd %s.png\n", m.Filename)
		if m.Transparent {
			fmt.Fprintf(bw, "map_d %s.png\n", m.Filename)
		}
		fmt.Fprintf(bw, "blend %d\n", m.BlendMode)
		fmt.Fprintf(bw, "shader %d\n", m.ShaderID)
		fmt.Fprintf(bw, "terrain %d\n", m.TerrainType)
	}

	return bw.Flush()
}

// WriteOBJ writes the mesh. Face indices are 1-based and offset by the
// group's VerticeOffset; the same index is used for position, texcoord and
// normal.
func WriteOBJ(w io.Writer, file, mtlName string, groups []Group, materials []Material) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Exported by wmoexport. Original file: %s\n", file)
	fmt.Fprintf(bw, "mtllib %s\n", mtlName)

	for g := range groups {
		group := &groups[g]
		if !group.HasGeometry() {
			continue
		}

		fmt.Fprintf(bw, "g %s\n", group.Name)

		for _, v := range group.Vertices {
			uv := v.TexCoord.FlipV()
			fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(v.Position.X), formatFloat(v.Position.Y), formatFloat(v.Position.Z))
			fmt.Fprintf(bw, "vt %s %s\n", formatFloat(uv.X), formatFloat(uv.Y))
			fmt.Fprintf(bw, "vn %.12f %.12f %.12f\n", v.Normal.X, v.Normal.Y, v.Normal.Z)
		}

		for _, batch := range group.RenderBatches {
			if batch.NumFaces == 0 || int(batch.MaterialID) >= len(materials) {
				continue
			}

			start := uint64(batch.FirstFace)
			end := start + uint64(batch.NumFaces)*3
			if end > uint64(len(group.Indices)) {
				end = uint64(len(group.Indices))
			}
			if start+2 >= end {
				continue
			}

			fmt.Fprintf(bw, "usemtl %s\n", materials[batch.MaterialID].Filename)
			fmt.Fprint(bw, "s 1\n")

			for i := start; i+2 < end; i += 3 {
				a := group.Indices[i] + group.VerticeOffset + 1
				b := group.Indices[i+1] + group.VerticeOffset + 1
				c := group.Indices[i+2] + group.VerticeOffset + 1
				fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
			}
		}
	}

	return bw.Flush()
}

// formatFloat prints the shortest decimal form of a float32 without exponent.
// Negative zero prints as 0.
func formatFloat(f float32) string {
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}
