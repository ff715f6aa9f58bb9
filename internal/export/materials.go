package export

import (
	"errors"
	"os"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/wmoexport/pkg/formats"
)

// TextureExporter writes a texture as a PNG file.
type TextureExporter interface {
	ExportTexture(ref FileRef, dest string) error
}

// ResolveMaterials resolves every source material and exports missing
// textures. Texture failures are logged and do not stop resolution.
func ResolveMaterials(wmo *formats.WMO, mode ResolutionMode, layout Layout, textures TextureExporter, log *zap.Logger) ([]Material, error) {
	if len(wmo.Materials) == 0 {
		return nil, ErrNoMaterials
	}

	materials := make([]Material, len(wmo.Materials))
	counter := 0

	for i, src := range wmo.Materials {
		m := Material{
			Transparent: src.BlendMode != 0,
			BlendMode:   src.BlendMode,
			ShaderID:    src.Shader,
			TerrainType: src.GroundType,
		}

		var ref FileRef
		switch mode {
		case ResolveByID:
			m.Filename = strconv.FormatUint(uint64(src.Texture1), 10)
			ref = FileRef{FileID: src.Texture1}
		case ResolveByName:
			name, ok := wmo.TextureName(src.Texture1)
			if !ok {
				log.Warn("Material references unknown texture",
					zap.Int("material", i), zap.Uint32("offset", src.Texture1))
				materials[i] = m
				continue
			}
			m.Filename = textureBaseName(name)
			ref = FileRef{Name: name}
		}

		m.TextureID = counter + i
		counter++
		materials[i] = m

		exportTexture(ref, layout.TexturePath(m.Filename), textures, log)
	}

	return materials, nil
}

// exportTexture writes the texture unless dest already exists.
func exportTexture(ref FileRef, dest string, textures TextureExporter, log *zap.Logger) {
	if _, err := os.Stat(dest); err == nil {
		log.Debug("Texture already exported", zap.String("path", dest))
		return
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warn("Checking texture destination", zap.String("path", dest), zap.Error(err))
		return
	}

	if textures == nil {
		log.Debug("No texture exporter, skipping", zap.Stringer("texture", ref))
		return
	}

	if err := textures.ExportTexture(ref, dest); err != nil {
		log.Warn("Exporting texture failed", zap.Stringer("texture", ref), zap.Error(err))
	}
}

// textureBaseName strips directories and the extension from a client path.
func textureBaseName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
