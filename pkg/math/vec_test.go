package math

import (
	"testing"
)

func TestVec2FlipV(t *testing.T) {
	got := Vec2{0.25, 0.75}.FlipV()
	want := Vec2{0.25, -0.75}
	if got != want {
		t.Errorf("Vec2.FlipV() = %v, want %v", got, want)
	}
}

func TestVec3AxisConversion(t *testing.T) {
	tests := []struct {
		name string
		fn   func(Vec3) Vec3
		in   Vec3
		want Vec3
	}{
		{"position", Vec3.PositionToOBJ, Vec3{1, 2, 3}, Vec3{-1, 3, 2}},
		{"position negative", Vec3.PositionToOBJ, Vec3{-4, -5, 6}, Vec3{4, 6, -5}},
		{"normal", Vec3.NormalToOBJ, Vec3{1, 2, 3}, Vec3{1, 3, 2}},
		{"normal up", Vec3.NormalToOBJ, Vec3{0, 0, 1}, Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
