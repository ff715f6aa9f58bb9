// Package texture exports BLP textures as PNG files.
package texture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/wmoexport/internal/export"
	"github.com/Faultbox/wmoexport/pkg/formats"
)

// Source loads client files by path or file data id.
type Source interface {
	Load(path string) ([]byte, error)
	LoadByID(id uint32) ([]byte, error)
}

// Exporter decodes BLP textures from a Source and writes them as PNG.
type Exporter struct {
	source  Source
	maxSize int
	log     *zap.Logger
}

// NewExporter creates a texture exporter. Textures whose longest edge exceeds
// maxSize are scaled down; 0 keeps the original size.
func NewExporter(source Source, maxSize int, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{
		source:  source,
		maxSize: maxSize,
		log:     log,
	}
}

// ExportTexture loads, decodes and writes one texture to dest.
func (e *Exporter) ExportTexture(ref export.FileRef, dest string) error {
	var (
		data []byte
		err  error
	)
	if ref.ByID() {
		data, err = e.source.LoadByID(ref.FileID)
	} else {
		data, err = e.source.Load(ref.Name)
	}
	if err != nil {
		return fmt.Errorf("loading texture %s: %w", ref, err)
	}

	img, err := formats.DecodeBLP(data)
	if err != nil {
		return fmt.Errorf("decoding texture %s: %w", ref, err)
	}

	if err := WritePNG(dest, Fit(img, e.maxSize)); err != nil {
		return err
	}

	e.log.Debug("Exported texture", zap.Stringer("texture", ref), zap.String("path", dest))
	return nil
}

// ConvertFile converts a BLP file on disk to a PNG file.
func ConvertFile(src, dest string, maxSize int) error {
	img, err := formats.DecodeBLPFile(src)
	if err != nil {
		return err
	}
	return WritePNG(dest, Fit(img, maxSize))
}

// Fit scales img down so that its longest edge is at most maxSize, keeping the
// aspect ratio. Images that already fit and maxSize <= 0 are returned as is.
func Fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return f.Close()
}
