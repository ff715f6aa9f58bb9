// Package formats provides parsers for World of Warcraft file formats.
// WMO group file parser.
package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/wmoexport/pkg/math"
)

// mogpHeaderSize is the fixed header at the start of the MOGP payload.
const mogpHeaderSize = 68

// WMOGroupHeader is the fixed part of the MOGP chunk.
type WMOGroupHeader struct {
	NameOffset            uint32 // into the root's MOGN
	DescriptiveNameOffset uint32
	Flags                 uint32
	BoundsMin             math.Vec3
	BoundsMax             math.Vec3
	PortalStart           uint16
	PortalCount           uint16
	TransBatchCount       uint16
	IntBatchCount         uint16
	ExtBatchCount         uint16
	Padding               uint16
	FogIDs                [4]uint8
	LiquidType            uint32
	GroupID               uint32
	Flags2                uint32
	SplitGroupIndex       int16
	NextSplitChild        int16
}

// WMORenderBatch is one MOBA entry.
type WMORenderBatch struct {
	PossibleBox1 [3]int16
	// PossibleBox2[2] holds the material id when Flags == 2.
	PossibleBox2 [3]int16
	StartIndex   uint32 // first index into MOVI
	IndexCount   uint16 // number of MOVI indices, three per triangle
	FirstVertex  uint16
	LastVertex   uint16
	Flags        uint8
	MaterialID   uint8
}

// WMOGroup represents a parsed group file.
// Vertex data slices are nil when the chunk is absent.
type WMOGroup struct {
	Header        WMOGroupHeader
	Vertices      []math.Vec3   // MOVT
	Normals       []math.Vec3   // MONR
	TexCoords     [][]math.Vec2 // one slice per MOTV chunk
	Indices       []uint16      // MOVI
	RenderBatches []WMORenderBatch
}

// ParseWMOGroup parses a WMO group file.
func ParseWMOGroup(data []byte) (*WMOGroup, error) {
	chunks, err := readChunks(data)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 || chunks[0].ID != "MVER" {
		return nil, ErrInvalidWMOMagic
	}

	for _, c := range chunks {
		if c.ID == "MOGP" {
			return parseMOGP(c.Data)
		}
	}
	return nil, ErrMissingMOGP
}

func parseMOGP(data []byte) (*WMOGroup, error) {
	if len(data) < mogpHeaderSize {
		return nil, fmt.Errorf("%w: MOGP header", ErrTruncatedWMOData)
	}

	group := &WMOGroup{}
	if err := binary.Read(bytes.NewReader(data[:mogpHeaderSize]), binary.LittleEndian, &group.Header); err != nil {
		return nil, fmt.Errorf("%w: MOGP header: %v", ErrTruncatedWMOData, err)
	}

	subchunks, err := readChunks(data[mogpHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("reading MOGP sub-chunks: %w", err)
	}

	for _, c := range subchunks {
		switch c.ID {
		case "MOVI":
			if group.Indices, err = readRecords[uint16](c); err != nil {
				return nil, err
			}
		case "MOVT":
			if group.Vertices, err = readRecords[math.Vec3](c); err != nil {
				return nil, err
			}
		case "MONR":
			if group.Normals, err = readRecords[math.Vec3](c); err != nil {
				return nil, err
			}
		case "MOTV":
			uv, err := readRecords[math.Vec2](c)
			if err != nil {
				return nil, err
			}
			group.TexCoords = append(group.TexCoords, uv)
		case "MOBA":
			if group.RenderBatches, err = readRecords[WMORenderBatch](c); err != nil {
				return nil, err
			}
		}
	}

	return group, nil
}


// TriangleCount returns the number of triangles covered by the batch.
func (b WMORenderBatch) TriangleCount() uint32 {
	return uint32(b.IndexCount) / 3
}
