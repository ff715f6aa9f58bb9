package export

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/wmoexport/pkg/formats"
	"github.com/Faultbox/wmoexport/pkg/math"
)

// AssembleGroups builds one Group per source group and returns them with the
// total number of vertices. Groups without vertices and antiportal groups are
// left as zero values and consume no vertex offset.
func AssembleGroups(wmo *formats.WMO, log *zap.Logger) ([]Group, uint32) {
	groups := make([]Group, len(wmo.Groups))
	var total uint32

	for g := range wmo.Groups {
		log.Debug("Loading group", zap.Int("group", g))
		group, ok := assembleGroup(wmo, g, total, log)
		if !ok {
			continue
		}
		groups[g] = group
		total += uint32(len(group.Vertices))
	}

	return groups, total
}

func assembleGroup(wmo *formats.WMO, g int, offset uint32, log *zap.Logger) (Group, bool) {
	src := &wmo.Groups[g]
	if len(src.Vertices) == 0 {
		log.Debug("Group has no vertices", zap.Int("group", g))
		return Group{}, false
	}

	name := groupName(wmo, g)
	if name == antiportalName {
		log.Debug("Group is antiportal", zap.Int("group", g))
		return Group{}, false
	}

	var uvs []math.Vec2
	if len(src.TexCoords) > 0 {
		uvs = src.TexCoords[0]
	}

	group := Group{
		Name:          name,
		Vertices:      make([]Vertex, len(src.Vertices)),
		Indices:       make([]uint32, len(src.Indices)),
		VerticeOffset: offset,
	}

	for i, v := range src.Vertices {
		vertex := Vertex{Position: v.PositionToOBJ()}
		if i < len(src.Normals) {
			vertex.Normal = src.Normals[i].NormalToOBJ()
		}
		if i < len(uvs) {
			vertex.TexCoord = uvs[i]
		}
		group.Vertices[i] = vertex
	}

	for i, idx := range src.Indices {
		group.Indices[i] = uint32(idx)
	}

	return group, true
}

// groupName returns the sanitized MOGN name of group g, or a positional name
// when the group has none.
func groupName(wmo *formats.WMO, g int) string {
	if name, ok := wmo.GroupName(wmo.Groups[g].Header.NameOffset); ok {
		return strings.ReplaceAll(name, " ", "_")
	}
	return fmt.Sprintf("group_%d", g)
}
