package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/wmoexport/pkg/formats"
)

// Progress receives coarse percentage checkpoints of an export.
type Progress interface {
	Report(percent int, stage string)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(percent int, stage string)

// Report calls f.
func (f ProgressFunc) Report(percent int, stage string) {
	f(percent, stage)
}

// Config contains the collaborators of an Exporter. Every field is optional.
type Config struct {
	Logger   *zap.Logger
	Progress Progress
	Models   ModelExporter
	Textures TextureExporter
}

// Result describes what one export produced.
type Result struct {
	Layout     Layout
	Modes      Modes
	Groups     int // groups written to the mesh
	Vertices   uint32
	Materials  int
	Batches    int
	Placements int
}

// Exporter converts WMOs into OBJ/MTL/CSV triads.
type Exporter struct {
	log      *zap.Logger
	progress Progress
	models   ModelExporter
	textures TextureExporter
}

// New creates an exporter with the given collaborators.
func New(cfg Config) *Exporter {
	e := &Exporter{
		log:      cfg.Logger,
		progress: cfg.Progress,
		models:   cfg.Models,
		textures: cfg.Textures,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.progress == nil {
		e.progress = ProgressFunc(func(int, string) {})
	}
	return e
}

// ExportWMO exports a loaded WMO. file is the client path of the root file and
// decides the output names. The manifest is written before materials are
// resolved, so it stays on disk when the export aborts with ErrNoMaterials.
func (e *Exporter) ExportWMO(file string, wmo *formats.WMO, o Options) (*Result, error) {
	log := e.log.With(zap.String("file", file))
	layout := NewLayout(file, o)
	modes := SelectModes(wmo)
	res := &Result{Layout: layout, Modes: modes}

	e.progress.Report(5, "Reading WMO..")
	log.Info("Exporting WMO",
		zap.Int("groups", len(wmo.Groups)),
		zap.Stringer("textures", modes.Textures),
		zap.Stringer("doodads", modes.Doodads))

	e.progress.Report(30, "Reading WMO..")
	groups, total := AssembleGroups(wmo, log)
	res.Vertices = total
	for g := range groups {
		if groups[g].HasGeometry() {
			res.Groups++
		}
	}

	if err := os.MkdirAll(layout.DestDir, 0755); err != nil {
		return res, fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(layout.OBJ), 0755); err != nil {
		return res, fmt.Errorf("creating output dir: %w", err)
	}

	e.progress.Report(55, "Exporting doodads..")
	placements := ResolveDoodads(wmo, modes.Doodads, layout, o.DoodadSet, e.models, log)
	res.Placements = len(placements)
	if err := writeFile(layout.Manifest, func(f *os.File) error { return WritePlacements(f, placements) }); err != nil {
		return res, fmt.Errorf("writing placement manifest: %w", err)
	}

	e.progress.Report(65, "Exporting textures..")
	materials, err := ResolveMaterials(wmo, modes.Textures, layout, e.textures, log)
	if err != nil {
		log.Warn("Materials empty")
		return res, fmt.Errorf("export aborted: %w", err)
	}
	res.Materials = len(materials)
	if err := writeFile(layout.MTL, func(f *os.File) error { return WriteMTL(f, materials) }); err != nil {
		return res, fmt.Errorf("writing material library: %w", err)
	}

	e.progress.Report(75, "Exporting model..")
	res.Batches = MapRenderBatches(wmo, groups, materials, log)

	e.progress.Report(95, "Writing files..")
	mtlName := filepath.Base(layout.MTL)
	if err := writeFile(layout.OBJ, func(f *os.File) error { return WriteOBJ(f, file, mtlName, groups, materials) }); err != nil {
		return res, fmt.Errorf("writing mesh: %w", err)
	}

	log.Info("Done exporting WMO",
		zap.String("obj", layout.OBJ),
		zap.Int("groups", res.Groups),
		zap.Uint32("vertices", res.Vertices),
		zap.Int("placements", res.Placements))

	return res, nil
}

// writeFile creates path and runs write on it, reporting close errors.
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
