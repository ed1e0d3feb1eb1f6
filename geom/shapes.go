package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned box described by its centre and half extents.
type AABB struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// Min returns the minimum corner.
func (b AABB) Min() mgl64.Vec3 { return b.Center.Sub(b.HalfExtents) }

// Max returns the maximum corner.
func (b AABB) Max() mgl64.Vec3 { return b.Center.Add(b.HalfExtents) }

// Size returns the full extents.
func (b AABB) Size() mgl64.Vec3 { return b.HalfExtents.Mul(2) }

// ClosestPoint returns the point of the box nearest to p.
func (b AABB) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	lo, hi := b.Min(), b.Max()
	return mgl64.Vec3{
		mgl64.Clamp(p[0], lo[0], hi[0]),
		mgl64.Clamp(p[1], lo[1], hi[1]),
		mgl64.Clamp(p[2], lo[2], hi[2]),
	}
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p mgl64.Vec3) bool {
	lo, hi := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		if p[i] < lo[i] || p[i] > hi[i] {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere overlaps the box.
func (b AABB) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	return b.ClosestPoint(center).Sub(center).LenSqr() <= radius*radius
}

// Hit describes a ray hit.
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// RaycastAABB intersects a ray with the box using the slab method. dir must be
// normalized. Rays starting inside the box hit at distance 0.
func RaycastAABB(origin, dir mgl64.Vec3, maxDist float64, box AABB) (Hit, bool) {
	lo, hi := box.Min(), box.Max()
	tMin, tMax := 0.0, maxDist
	normal := mgl64.Vec3{}

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return Hit{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (lo[i] - origin[i]) * inv
		t2 := (hi[i] - origin[i]) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = mgl64.Vec3{}
			normal[i] = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return Hit{}, false
		}
	}

	if normal.LenSqr() == 0 {
		// Origin inside the box.
		normal = dir.Mul(-1)
	}
	return Hit{
		Point:    origin.Add(dir.Mul(tMin)),
		Normal:   normal,
		Distance: tMin,
	}, true
}
