package export

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/wmoexport/pkg/formats"
	"github.com/Faultbox/wmoexport/pkg/math"
)

func TestAssembleGroups_Offsets(t *testing.T) {
	wmo := &formats.WMO{
		GroupNames: []formats.WMOString{
			{Offset: 0, Name: "first hall"},
			{Offset: 11, Name: "antiportal"},
			{Offset: 22, Name: "last"},
		},
		Groups: []formats.WMOGroup{
			triangleGroup(0, 3, formats.WMORenderBatch{}),
			{Header: formats.WMOGroupHeader{NameOffset: 22}},
			triangleGroup(11, 5, formats.WMORenderBatch{}),
			triangleGroup(22, 4, formats.WMORenderBatch{}),
		},
	}

	groups, total := AssembleGroups(wmo, zaptest.NewLogger(t))

	if len(groups) != 4 {
		t.Fatalf("len(groups) = %d, want 4", len(groups))
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}

	tests := []struct {
		index    int
		included bool
		name     string
		offset   uint32
	}{
		{0, true, "first_hall", 0},
		{1, false, "", 0},
		{2, false, "", 0},
		{3, true, "last", 3},
	}

	for _, tt := range tests {
		g := groups[tt.index]
		if g.HasGeometry() != tt.included {
			t.Errorf("group %d HasGeometry = %v, want %v", tt.index, g.HasGeometry(), tt.included)
			continue
		}
		if g.Name != tt.name || g.VerticeOffset != tt.offset {
			t.Errorf("group %d = (%q, offset %d), want (%q, offset %d)", tt.index, g.Name, g.VerticeOffset, tt.name, tt.offset)
		}
		if !tt.included && (g.Indices != nil || g.RenderBatches != nil) {
			t.Errorf("excluded group %d carries data", tt.index)
		}
	}
}

func TestAssembleGroups_AxisConversion(t *testing.T) {
	wmo := &formats.WMO{
		Groups: []formats.WMOGroup{{
			Vertices:  []math.Vec3{{X: 1, Y: 2, Z: 3}},
			Normals:   []math.Vec3{{X: 0.1, Y: 0.2, Z: 0.3}},
			TexCoords: [][]math.Vec2{{{X: 0.25, Y: 0.75}}, {{X: 9, Y: 9}}},
			Indices:   []uint16{0, 0, 0},
		}},
	}

	groups, _ := AssembleGroups(wmo, zaptest.NewLogger(t))
	v := groups[0].Vertices[0]

	if v.Position != (math.Vec3{X: -1, Y: 3, Z: 2}) {
		t.Errorf("Position = %+v, want (-1, 3, 2)", v.Position)
	}
	if v.Normal != (math.Vec3{X: 0.1, Y: 0.3, Z: 0.2}) {
		t.Errorf("Normal = %+v, want (0.1, 0.3, 0.2)", v.Normal)
	}
	if v.TexCoord != (math.Vec2{X: 0.25, Y: 0.75}) {
		t.Errorf("TexCoord = %+v, want first UV set unflipped", v.TexCoord)
	}
	if len(groups[0].Indices) != 3 {
		t.Errorf("len(Indices) = %d, want 3", len(groups[0].Indices))
	}
}

func TestAssembleGroups_MissingAttributes(t *testing.T) {
	wmo := &formats.WMO{
		Groups: []formats.WMOGroup{{
			Vertices: []math.Vec3{{X: 1}, {X: 2}},
			Normals:  []math.Vec3{{Z: 1}},
		}},
	}

	groups, total := AssembleGroups(wmo, zaptest.NewLogger(t))

	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	g := groups[0]
	if g.Name != "group_0" {
		t.Errorf("Name = %q, want group_0", g.Name)
	}
	if g.Vertices[1].Normal != (math.Vec3{}) {
		t.Errorf("missing normal = %+v, want zero", g.Vertices[1].Normal)
	}
	if g.Vertices[0].TexCoord != (math.Vec2{}) {
		t.Errorf("missing texcoord = %+v, want zero", g.Vertices[0].TexCoord)
	}
}
