// Package math provides the small vector types shared by the WMO reader and the exporter.
package math

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// FlipV returns the coordinate with V negated, as OBJ expects for WoW UVs.
func (v Vec2) FlipV() Vec2 {
	return Vec2{v.X, -v.Y}
}
