package export

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wmoexport/pkg/formats"
)

// ResolveBatchMaterial returns the material index of a render batch. Batches
// with flags == 2 keep the real index in PossibleBox2[2].
func ResolveBatchMaterial(b formats.WMORenderBatch) uint32 {
	if b.Flags == 2 {
		return uint32(uint16(b.PossibleBox2[2]))
	}
	return uint32(b.MaterialID)
}

// MapRenderBatches fills RenderBatches of every group that has geometry and
// returns how many batches were mapped. Batches pointing past the material
// list are dropped.
func MapRenderBatches(wmo *formats.WMO, groups []Group, materials []Material, log *zap.Logger) int {
	mapped := 0

	for g := range groups {
		if !groups[g].HasGeometry() || g >= len(wmo.Groups) {
			continue
		}

		src := wmo.Groups[g].RenderBatches
		batches := make([]RenderBatch, 0, len(src))
		for i, b := range src {
			materialID := ResolveBatchMaterial(b)
			if int(materialID) >= len(materials) {
				log.Warn("Render batch references unknown material",
					zap.Int("group", g), zap.Int("batch", i), zap.Uint32("material", materialID))
				continue
			}

			batches = append(batches, RenderBatch{
				FirstFace:  b.StartIndex,
				NumFaces:   b.TriangleCount(),
				MaterialID: materialID,
				GroupID:    uint32(g),
				BlendType:  materials[materialID].BlendMode,
			})
		}

		groups[g].RenderBatches = batches
		mapped += len(batches)
	}

	return mapped
}
