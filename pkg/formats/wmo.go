// Package formats provides parsers for World of Warcraft file formats.
// WMO (World Map Object) root file parser.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Faultbox/wmoexport/pkg/math"
)

// WMO format errors.
var (
	ErrInvalidWMOMagic  = errors.New("invalid WMO: expected MVER chunk")
	ErrTruncatedWMOData = errors.New("truncated WMO data")
	ErrMissingMOGP      = errors.New("WMO group file has no MOGP chunk")
)

// chunkHeaderSize is the size of a chunk id + payload size.
const chunkHeaderSize = 8

// WMOHeader is the MOHD chunk of a root file.
type WMOHeader struct {
	NumTextures    uint32
	NumGroups      uint32
	NumPortals     uint32
	NumLights      uint32
	NumDoodadNames uint32
	NumDoodadDefs  uint32
	NumDoodadSets  uint32
	AmbientColor   uint32 // BGRA
	WMOID          uint32
	BoundsMin      math.Vec3
	BoundsMax      math.Vec3
	Flags          uint16
	NumLOD         uint16
}

// WMOString is one entry of a null-separated string table (MOTX, MOGN, MODN),
// keyed by the byte offset at which it starts.
type WMOString struct {
	Offset uint32
	Name   string
}

// WMOMaterial is one MOMT entry.
type WMOMaterial struct {
	Flags          uint32
	Shader         uint32
	BlendMode      uint32
	Texture1       uint32 // MOTX offset, or a file id when MOTX is absent
	SidnColor      uint32
	FrameSidnColor uint32
	Texture2       uint32
	DiffColor      uint32
	GroundType     uint32
	Texture3       uint32
	Color3         uint32
	Flags3         uint32
	RuntimeData    [4]uint32
}

// WMOGroupInfo is one MOGI entry.
type WMOGroupInfo struct {
	Flags      uint32
	BoundsMin  math.Vec3
	BoundsMax  math.Vec3
	NameOffset int32
}

// WMODoodadSet is one MODS entry.
type WMODoodadSet struct {
	Name               string
	FirstInstanceIndex uint32
	NumDoodads         uint32
}

type wmoDoodadSetRaw struct {
	Name               [20]byte
	FirstInstanceIndex uint32
	NumDoodads         uint32
	Unused             uint32
}

// WMODoodadDefinition is one MODD entry: a placed dependent model.
type WMODoodadDefinition struct {
	// NameOffset is a byte offset into MODN, or an index into MODI
	// when the root file carries file ids.
	NameOffset uint32
	Flags      uint8
	Position   math.Vec3
	Rotation   math.Quat
	Scale      float32
	Color      uint32 // BGRA
}

type wmoDoodadDefinitionRaw struct {
	NameOffsetAndFlags uint32 // low 24 bits offset, high 8 bits flags
	Position           math.Vec3
	Rotation           math.Quat // stored X, Y, Z, W
	Scale              float32
	Color              uint32
}

// WMO represents a parsed root file together with its loaded groups.
// Optional tables are nil when the chunk is absent from the file.
type WMO struct {
	Version           uint32
	Header            WMOHeader
	Textures          []WMOString // MOTX
	Materials         []WMOMaterial
	GroupNames        []WMOString
	GroupInfo         []WMOGroupInfo
	DoodadSets        []WMODoodadSet
	DoodadNames       []WMOString // MODN
	DoodadIDs         []uint32    // MODI
	DoodadDefinitions []WMODoodadDefinition
	GroupFileIDs      []uint32 // GFID
	Groups            []WMOGroup
}

type chunk struct {
	ID   string
	Data []byte
}

// readChunks splits data into IFF-style chunks. Ids are stored reversed on disk.
func readChunks(data []byte) ([]chunk, error) {
	var chunks []chunk
	offset := 0
	for offset+chunkHeaderSize <= len(data) {
		id := []byte{data[offset+3], data[offset+2], data[offset+1], data[offset]}
		size := int(binary.LittleEndian.Uint32(data[offset+4:]))
		offset += chunkHeaderSize

		if size < 0 || offset+size > len(data) {
			return nil, fmt.Errorf("%w: chunk %s wants %d bytes, %d left", ErrTruncatedWMOData, id, size, len(data)-offset)
		}
		chunks = append(chunks, chunk{ID: string(id), Data: data[offset : offset+size]})
		offset += size
	}
	return chunks, nil
}

// readRecords decodes a chunk payload as a packed array of fixed-size records.
func readRecords[T any](c chunk) ([]T, error) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return nil, fmt.Errorf("record type for %s has no fixed size", c.ID)
	}
	if len(c.Data)%size != 0 {
		return nil, fmt.Errorf("%w: %s size %d is not a multiple of %d", ErrTruncatedWMOData, c.ID, len(c.Data), size)
	}

	records := make([]T, len(c.Data)/size)
	if err := binary.Read(bytes.NewReader(c.Data), binary.LittleEndian, records); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrTruncatedWMOData, c.ID, err)
	}
	return records, nil
}

// parseStringTable reads a null-separated, null-padded string block.
// A present but empty chunk yields an empty, non-nil table.
func parseStringTable(data []byte) []WMOString {
	table := make([]WMOString, 0)
	start := 0
	for i, b := range data {
		if b != 0 {
			continue
		}
		if i > start {
			table = append(table, WMOString{Offset: uint32(start), Name: string(data[start:i])})
		}
		start = i + 1
	}
	if start < len(data) {
		table = append(table, WMOString{Offset: uint32(start), Name: string(data[start:])})
	}
	return table
}

// readNullString reads a fixed-size null-terminated string.
func readNullString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return string(data[:i])
	}
	return string(data)
}

// ParseWMORoot parses a WMO root file. Groups are not loaded.
func ParseWMORoot(data []byte) (*WMO, error) {
	if len(data) < chunkHeaderSize+4 {
		return nil, ErrTruncatedWMOData
	}

	chunks, err := readChunks(data)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 || chunks[0].ID != "MVER" {
		return nil, ErrInvalidWMOMagic
	}

	wmo := &WMO{}
	for _, c := range chunks {
		switch c.ID {
		case "MVER":
			if len(c.Data) < 4 {
				return nil, fmt.Errorf("%w: MVER", ErrTruncatedWMOData)
			}
			wmo.Version = binary.LittleEndian.Uint32(c.Data)
		case "MOHD":
			if err := binary.Read(bytes.NewReader(c.Data), binary.LittleEndian, &wmo.Header); err != nil {
				return nil, fmt.Errorf("%w: MOHD", ErrTruncatedWMOData)
			}
		case "MOTX":
			wmo.Textures = parseStringTable(c.Data)
		case "MOMT":
			if wmo.Materials, err = readRecords[WMOMaterial](c); err != nil {
				return nil, err
			}
		case "MOGN":
			wmo.GroupNames = parseStringTable(c.Data)
		case "MOGI":
			if wmo.GroupInfo, err = readRecords[WMOGroupInfo](c); err != nil {
				return nil, err
			}
		case "MODS":
			raw, err := readRecords[wmoDoodadSetRaw](c)
			if err != nil {
				return nil, err
			}
			wmo.DoodadSets = make([]WMODoodadSet, len(raw))
			for i, r := range raw {
				wmo.DoodadSets[i] = WMODoodadSet{
					Name:               readNullString(r.Name[:]),
					FirstInstanceIndex: r.FirstInstanceIndex,
					NumDoodads:         r.NumDoodads,
				}
			}
		case "MODN":
			wmo.DoodadNames = parseStringTable(c.Data)
		case "MODI":
			if wmo.DoodadIDs, err = readRecords[uint32](c); err != nil {
				return nil, err
			}
		case "MODD":
			raw, err := readRecords[wmoDoodadDefinitionRaw](c)
			if err != nil {
				return nil, err
			}
			wmo.DoodadDefinitions = make([]WMODoodadDefinition, len(raw))
			for i, r := range raw {
				wmo.DoodadDefinitions[i] = WMODoodadDefinition{
					NameOffset: r.NameOffsetAndFlags & 0xFFFFFF,
					Flags:      uint8(r.NameOffsetAndFlags >> 24),
					Position:   r.Position,
					Rotation:   r.Rotation,
					Scale:      r.Scale,
					Color:      r.Color,
				}
			}
		case "GFID":
			if wmo.GroupFileIDs, err = readRecords[uint32](c); err != nil {
				return nil, err
			}
		}
	}

	return wmo, nil
}

func lookupString(table []WMOString, offset uint32) (string, bool) {
	for _, s := range table {
		if s.Offset == offset {
			return s.Name, true
		}
	}
	return "", false
}

// GroupName returns the MOGN entry starting at offset.
func (w *WMO) GroupName(offset uint32) (string, bool) {
	return lookupString(w.GroupNames, offset)
}

// TextureName returns the MOTX entry starting at offset.
func (w *WMO) TextureName(offset uint32) (string, bool) {
	return lookupString(w.Textures, offset)
}

// DoodadName returns the MODN entry starting at offset.
func (w *WMO) DoodadName(offset uint32) (string, bool) {
	return lookupString(w.DoodadNames, offset)
}

// GetTotalVertexCount returns the total number of vertices across all groups.
func (w *WMO) GetTotalVertexCount() int {
	total := 0
	for _, g := range w.Groups {
		total += len(g.Vertices)
	}
	return total
}

// GetTotalBatchCount returns the total number of render batches across all groups.
func (w *WMO) GetTotalBatchCount() int {
	total := 0
	for _, g := range w.Groups {
		total += len(g.RenderBatches)
	}
	return total
}

// UsesFileIDs reports whether the root references textures and doodads by file id
// (8.1+ layout) rather than by name tables.
func (w *WMO) UsesFileIDs() bool {
	return w.Textures == nil && w.DoodadIDs != nil
}
