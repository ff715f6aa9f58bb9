package export

import (
	"path/filepath"
	"strings"
)

// Options are the per-run output settings.
type Options struct {
	OutDir              string
	DestinationOverride string // empty keeps the source directory layout
	DoodadSet           int    // AllDoodadSets or one set index
}

// Layout holds the output locations for one asset.
type Layout struct {
	DestDir   string // textures, dependent models and the manifest
	OBJ       string
	MTL       string
	Manifest  string
	LowerCase bool // lower-case texture file names
}

// NewLayout computes where the artifacts of file are written.
//
// Without an override the source directory layout is mirrored under OutDir.
// With one, everything lands flat in OutDir/override with lower-cased names;
// an absolute override is used as is.
func NewLayout(file string, o Options) Layout {
	file = filepath.FromSlash(strings.ReplaceAll(file, "\\", "/"))
	base := filepath.Base(file)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	var l Layout
	if o.DestinationOverride == "" {
		l.DestDir = filepath.Join(o.OutDir, filepath.Dir(file))
		rel := strings.TrimSuffix(file, ext)
		l.OBJ = filepath.Join(o.OutDir, rel+".obj")
		l.MTL = filepath.Join(o.OutDir, rel+".mtl")
	} else {
		l.DestDir = o.DestinationOverride
		if !filepath.IsAbs(l.DestDir) {
			l.DestDir = filepath.Join(o.OutDir, l.DestDir)
		}
		lower := strings.ToLower(stem)
		l.OBJ = filepath.Join(l.DestDir, lower+".obj")
		l.MTL = filepath.Join(l.DestDir, lower+".mtl")
		l.LowerCase = true
	}

	l.Manifest = filepath.Join(l.DestDir, strings.ReplaceAll(stem, " ", "")+"_ModelPlacementInformation.csv")
	return l
}

// TexturePath returns the PNG destination of a material's texture.
func (l Layout) TexturePath(filename string) string {
	if l.LowerCase {
		filename = strings.ToLower(filename)
	}
	return filepath.Join(l.DestDir, filename+".png")
}

// ModelPath returns the destination of an exported dependent model.
func (l Layout) ModelPath(objName string) string {
	return filepath.Join(l.DestDir, objName)
}
