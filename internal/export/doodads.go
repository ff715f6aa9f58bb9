package export

import (
	"os"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/wmoexport/pkg/formats"
)

// ModelExporter exports a dependent model into outDir. The exported file is
// expected at outDir/<id>.obj for id references and at outDir/<lower base>.obj
// for name references.
type ModelExporter interface {
	ExportModel(ref FileRef, outDir string) error
}

// SanitizeSetName turns a doodad set name into its manifest form.
func SanitizeSetName(name string) string {
	name = strings.ReplaceAll(name, "Set_", "")
	name = strings.ReplaceAll(name, "SET_", "")
	return strings.ReplaceAll(name, "$DefaultGlobal", "Default")
}

// ResolveDoodads walks the doodad sets, exports every dependent model that is
// not yet on disk and returns one placement per instance whose model exists
// afterwards. Instances that cannot be resolved or exported are left out.
func ResolveDoodads(wmo *formats.WMO, mode ResolutionMode, layout Layout, filter int, models ModelExporter, log *zap.Logger) []Placement {
	var placements []Placement

	for i, set := range wmo.DoodadSets {
		setName := SanitizeSetName(set.Name)

		if filter != AllDoodadSets && i != filter {
			log.Debug("Skipping doodadset",
				zap.Int("set", i), zap.String("name", setName), zap.Int("filter", filter))
			continue
		}

		log.Debug("At doodadset", zap.Int("set", i), zap.String("name", setName))

		end := uint64(set.FirstInstanceIndex) + uint64(set.NumDoodads)
		for j := uint64(set.FirstInstanceIndex); j < end; j++ {
			if j >= uint64(len(wmo.DoodadDefinitions)) {
				log.Debug("Doodad instance out of range", zap.Int("set", i), zap.Uint64("instance", j))
				break
			}
			def := wmo.DoodadDefinitions[j]

			ref, objName, ok := doodadModel(wmo, mode, def)
			if !ok {
				log.Debug("Unresolved doodad", zap.Uint64("instance", j), zap.Uint32("offset", def.NameOffset))
				continue
			}

			if !exportModel(ref, layout, objName, models, log) {
				continue
			}

			placements = append(placements, Placement{
				ModelFile: objName,
				Position:  def.Position,
				Rotation:  def.Rotation,
				Scale:     def.Scale,
				DoodadSet: setName,
			})
		}
	}

	return placements
}

// doodadModel resolves a definition to an exporter reference and the file
// name of the exported model.
func doodadModel(wmo *formats.WMO, mode ResolutionMode, def formats.WMODoodadDefinition) (FileRef, string, bool) {
	if mode == ResolveByID {
		if int(def.NameOffset) >= len(wmo.DoodadIDs) {
			return FileRef{}, "", false
		}
		id := wmo.DoodadIDs[def.NameOffset]
		return FileRef{FileID: id}, strconv.FormatUint(uint64(id), 10) + ".obj", true
	}

	name, ok := wmo.DoodadName(def.NameOffset)
	if !ok {
		return FileRef{}, "", false
	}
	name = normalizeModelExt(name)
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	objName := strings.ToLower(strings.TrimSuffix(base, path.Ext(base))) + ".obj"
	return FileRef{Name: name}, objName, true
}

// normalizeModelExt maps the legacy .mdx and .mdl extensions to .m2.
func normalizeModelExt(name string) string {
	ext := path.Ext(name)
	switch strings.ToLower(ext) {
	case ".mdx", ".mdl":
		return strings.TrimSuffix(name, ext) + ".m2"
	}
	return name
}

// exportModel makes sure the dependent model exists at its destination and
// reports whether it does.
func exportModel(ref FileRef, layout Layout, objName string, models ModelExporter, log *zap.Logger) bool {
	dest := layout.ModelPath(objName)
	if fileExists(dest) {
		return true
	}

	if models != nil {
		if err := models.ExportModel(ref, layout.DestDir); err != nil {
			log.Debug("Exporting dependent model failed", zap.Stringer("model", ref), zap.Error(err))
		}
	}

	return fileExists(dest)
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
