// Package geom holds the integer vector value types shared by the region
// engine and the block store. Vectors are plain comparable structs so they
// can key maps and be copied freely.
package geom

// Vec3 is a block position or delta in the world grid.
type Vec3 struct {
	X, Y, Z int
}

// Vec2 is a column coordinate (X/Z plane, all Y values).
type Vec2 struct {
	X, Z int
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Mul(n int) Vec3 {
	return Vec3{X: v.X * n, Y: v.Y * n, Z: v.Z * n}
}

// WithX returns a copy with the X component replaced.
func (v Vec3) WithX(x int) Vec3 { return Vec3{X: x, Y: v.Y, Z: v.Z} }

// WithY returns a copy with the Y component replaced.
func (v Vec3) WithY(y int) Vec3 { return Vec3{X: v.X, Y: y, Z: v.Z} }

// WithZ returns a copy with the Z component replaced.
func (v Vec3) WithZ(z int) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: z} }

// ClampY returns a copy with Y limited to [lo, hi].
func (v Vec3) ClampY(lo, hi int) Vec3 {
	if v.Y < lo {
		v.Y = lo
	}
	if v.Y > hi {
		v.Y = hi
	}
	return v
}

func (v Vec3) Equals(o Vec3) bool {
	return v.X == o.X && v.Y == o.Y && v.Z == o.Z
}

// Column drops the Y component.
func (v Vec3) Column() Vec2 { return Vec2{X: v.X, Z: v.Z} }

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Z: v.Z + o.Z}
}

// Min returns the componentwise minimum of a and b.
func Min(a, b Vec3) Vec3 {
	return Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)}
}

// Max returns the componentwise maximum of a and b.
func Max(a, b Vec3) Vec3 {
	return Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}
}
