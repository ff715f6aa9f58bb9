package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Faultbox/wmoexport/pkg/math"
)

func TestWritePlacements(t *testing.T) {
	var buf bytes.Buffer
	err := WritePlacements(&buf, []Placement{{
		ModelFile: "chair.obj",
		Position:  math.Vec3{X: 1, Y: -2.5, Z: 3},
		Rotation:  math.Quat{X: 0, Y: 0, Z: 0.5, W: 1},
		Scale:     1.5,
		DoodadSet: "Default",
	}})
	if err != nil {
		t.Fatalf("WritePlacements failed: %v", err)
	}

	want := PlacementHeader + "\n" +
		"chair.obj;1.000000000;-2.500000000;3.000000000;1.000000000000000;0.000000000000000;0.000000000000000;0.500000000000000;1.5;Default\n"
	if buf.String() != want {
		t.Errorf("manifest =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteMTL(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMTL(&buf, []Material{
		{Filename: "stone", BlendMode: 0, ShaderID: 6, TerrainType: 2},
		{Filename: "glass", Transparent: true, BlendMode: 1},
	})
	if err != nil {
		t.Fatalf("WriteMTL failed: %v", err)
	}

	want := `newmtl stone
Ns 96.078431
Ka 1.000000 1.000000 1.000000
Kd 0.640000 0.640000 0.640000
Ks 0.000000 0.000000 0.000000
Ke 0.000000 0.000000 0.000000
Ni 1.000000
d 1.000000
illum 2
map_Kd stone.png
blend 0
shader 6
terrain 2
newmtl glass
Ns 96.078431
Ka 1.000000 1.000000 1.000000
Kd 0.640000 0.640000 0.640000
Ks 0.000000 0.000000 0.000000
Ke 0.000000 0.000000 0.000000
Ni 1.000000
d 1.000000
illum 2
map_Kd glass.png
map_d glass.png
blend 1
shader 0
terrain 0
`
	if buf.String() != want {
		t.Errorf("mtl =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteOBJ(t *testing.T) {
	groups := []Group{
		{
			Name: "hall",
			Vertices: []Vertex{
				{Position: math.Vec3{X: -1, Y: 0.5, Z: 2}, Normal: math.Vec3{Z: 1}, TexCoord: math.Vec2{X: 0.25, Y: 0.5}},
				{Position: math.Vec3{X: 2}},
				{Position: math.Vec3{Y: 3}},
			},
			Indices:       []uint32{0, 1, 2},
			RenderBatches: []RenderBatch{{FirstFace: 0, NumFaces: 1, MaterialID: 0}},
		},
		{},
		{
			Name:          "tower",
			Vertices:      make([]Vertex, 4),
			Indices:       []uint32{0, 1, 2, 1, 2, 3, 3, 2},
			VerticeOffset: 3,
			RenderBatches: []RenderBatch{
				{FirstFace: 0, NumFaces: 0, MaterialID: 0},
				{FirstFace: 0, NumFaces: 5, MaterialID: 1},
				{FirstFace: 6, NumFaces: 1, MaterialID: 0},
				{FirstFace: 8, NumFaces: 2, MaterialID: 1},
			},
		},
	}
	materials := []Material{{Filename: "stone"}, {Filename: "wood"}}

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, "world/wmo/test.wmo", "test.mtl", groups, materials); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	if lines[0] != "# Exported by wmoexport. Original file: world/wmo/test.wmo" || lines[1] != "mtllib test.mtl" {
		t.Errorf("header = %q", lines[:2])
	}

	wantLines := []string{
		"g hall",
		"v -1 0.5 2",
		"vt 0.25 -0.5",
		"vn 0.000000000000 0.000000000000 1.000000000000",
		"usemtl stone",
		"f 1/1/1 2/2/2 3/3/3",
		"g tower",
		"usemtl wood",
		"f 4/4/4 5/5/5 6/6/6",
		"f 5/5/5 6/6/6 7/7/7",
	}
	for _, want := range wantLines {
		if !containsLine(lines, want) {
			t.Errorf("missing line %q in:\n%s", want, out)
		}
	}

	if n := countPrefix(lines, "g "); n != 2 {
		t.Errorf("g sections = %d, want 2", n)
	}
	if n := countPrefix(lines, "f "); n != 3 {
		t.Errorf("face lines = %d, want 3 (clamped to the index buffer)", n)
	}
	if n := countPrefix(lines, "usemtl "); n != 2 {
		t.Errorf("usemtl lines = %d, want 2 (empty and out-of-range batches skipped)", n)
	}
	if n := countPrefix(lines, "s "); n != 2 {
		t.Errorf("smoothing lines = %d, want 2", n)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0"},
		{float32(negZero()), "0"},
		{1.5, "1.5"},
		{-0.1, "-0.1"},
		{0.00001, "0.00001"},
	}

	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func negZero() float64 {
	zero := 0.0
	return -zero
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}
