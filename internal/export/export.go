// Package export converts a parsed WMO into an OBJ mesh, an MTL material
// library and a model placement manifest, exporting textures and dependent
// models along the way.
package export

import (
	"errors"
	"fmt"

	"github.com/Faultbox/wmoexport/pkg/formats"
	"github.com/Faultbox/wmoexport/pkg/math"
)

// Export errors.
var (
	ErrNoMaterials = errors.New("WMO has no materials")
)

// AllDoodadSets disables the doodad set filter.
const AllDoodadSets = -1

// antiportalName is the group name of portal-blocking geometry that is never exported.
const antiportalName = "antiportal"

// Vertex is one axis-corrected mesh vertex.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	TexCoord math.Vec2 // V is flipped on write
}

// Group is an assembled sub-mesh. Excluded groups keep a zero Group in their slot.
type Group struct {
	Name          string
	Vertices      []Vertex
	Indices       []uint32
	VerticeOffset uint32 // vertices of all included groups before this one
	RenderBatches []RenderBatch
}

// HasGeometry reports whether the group is written to the mesh.
func (g *Group) HasGeometry() bool {
	return len(g.Vertices) > 0
}

// Material is a resolved material.
type Material struct {
	TextureID   int
	Filename    string // texture base name, also the MTL material name
	Transparent bool
	BlendMode   uint32
	ShaderID    uint32
	TerrainType uint32
}

// RenderBatch is a run of triangles sharing one material.
type RenderBatch struct {
	FirstFace  uint32 // index into the group's index buffer
	NumFaces   uint32 // triangles, covering NumFaces*3 indices
	MaterialID uint32
	GroupID    uint32
	BlendType  uint32
}

// Placement is one row of the model placement manifest.
type Placement struct {
	ModelFile string
	Position  math.Vec3
	Rotation  math.Quat
	Scale     float32
	DoodadSet string
}

// ResolutionMode says how references in a WMO are turned into files.
type ResolutionMode int

const (
	// ResolveByID treats references as file data ids.
	ResolveByID ResolutionMode = iota
	// ResolveByName looks references up in a string table.
	ResolveByName
)

func (m ResolutionMode) String() string {
	switch m {
	case ResolveByID:
		return "by-id"
	case ResolveByName:
		return "by-name"
	default:
		return fmt.Sprintf("ResolutionMode(%d)", int(m))
	}
}

// Modes holds the resolution mode of each reference kind of one asset.
type Modes struct {
	Textures ResolutionMode
	Doodads  ResolutionMode
}

// SelectModes picks resolution modes from the tables present on the asset.
func SelectModes(wmo *formats.WMO) Modes {
	modes := Modes{Textures: ResolveByID, Doodads: ResolveByName}
	if wmo.Textures != nil {
		modes.Textures = ResolveByName
	}
	if wmo.DoodadIDs != nil {
		modes.Doodads = ResolveByID
	}
	return modes
}

// FileRef identifies a texture or model either by file data id or by name.
type FileRef struct {
	FileID uint32
	Name   string
}

// ByID reports whether the reference carries a file data id.
func (r FileRef) ByID() bool {
	return r.Name == ""
}

func (r FileRef) String() string {
	if r.ByID() {
		return fmt.Sprintf("%d", r.FileID)
	}
	return r.Name
}
