package math

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// PositionToOBJ converts a WoW (Z-up, right-handed) position to the
// Y-up OBJ convention: (x, y, z) -> (-x, z, y).
func (v Vec3) PositionToOBJ() Vec3 {
	return Vec3{-v.X, v.Z, v.Y}
}

// NormalToOBJ swaps Y and Z without negating X: (x, y, z) -> (x, z, y).
func (v Vec3) NormalToOBJ() Vec3 {
	return Vec3{v.X, v.Z, v.Y}
}
