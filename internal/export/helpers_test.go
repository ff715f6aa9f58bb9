package export

import (
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Faultbox/wmoexport/pkg/formats"
	"github.com/Faultbox/wmoexport/pkg/math"
)

// fakeTextures records texture exports and optionally writes the destination.
// With both write and err set, the destination is written before the error
// is returned, as when another export created the same texture first.
type fakeTextures struct {
	calls []FileRef
	dests []string
	write bool
	err   error
}

func (f *fakeTextures) ExportTexture(ref FileRef, dest string) error {
	f.calls = append(f.calls, ref)
	f.dests = append(f.dests, dest)
	if f.write {
		if err := os.WriteFile(dest, []byte("png"), 0644); err != nil {
			return err
		}
	}
	return f.err
}

// fakeModels records model exports and optionally writes <name>.obj.
type fakeModels struct {
	calls []FileRef
	dirs  []string
	write bool
	err   error
}

func (f *fakeModels) ExportModel(ref FileRef, outDir string) error {
	f.calls = append(f.calls, ref)
	f.dirs = append(f.dirs, outDir)
	if f.err != nil {
		return f.err
	}
	if !f.write {
		return nil
	}
	return os.WriteFile(filepath.Join(outDir, objNameOf(ref)), []byte("obj"), 0644)
}

// objNameOf returns the file name a real model exporter would produce.
func objNameOf(ref FileRef) string {
	if ref.ByID() {
		return strconv.FormatUint(uint64(ref.FileID), 10) + ".obj"
	}
	base := path.Base(strings.ReplaceAll(ref.Name, "\\", "/"))
	return strings.ToLower(strings.TrimSuffix(base, path.Ext(base))) + ".obj"
}

// triangleGroup returns a group with n vertices, one triangle and one batch.
func triangleGroup(nameOffset uint32, n int, batch formats.WMORenderBatch) formats.WMOGroup {
	g := formats.WMOGroup{
		Header:        formats.WMOGroupHeader{NameOffset: nameOffset},
		Indices:       []uint16{0, 1, 2},
		RenderBatches: []formats.WMORenderBatch{batch},
	}
	for i := 0; i < n; i++ {
		g.Vertices = append(g.Vertices, math.Vec3{X: float32(i), Y: float32(i + 1), Z: float32(i + 2)})
		g.Normals = append(g.Normals, math.Vec3{X: 0, Y: 0, Z: 1})
	}
	g.TexCoords = [][]math.Vec2{make([]math.Vec2, n)}
	for i := 0; i < n; i++ {
		g.TexCoords[0][i] = math.Vec2{X: 0.5, Y: float32(i) * 0.25}
	}
	return g
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
