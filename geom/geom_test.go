package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-9

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

func TestProjectOnPlaneIsOrthogonal(t *testing.T) {
	normals := []mgl64.Vec3{
		{0, -1, 0}, {0, 1, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {0.3, -0.8, 0.52},
	}
	v := mgl64.Vec3{3, -7, 2.5}
	for _, n := range normals {
		p := ProjectOnPlane(v, n)
		if math.Abs(p.Dot(n)) > 1e-9 {
			t.Errorf("ProjectOnPlane(%v, %v) = %v, dot %g", v, n, p, p.Dot(n))
		}
		if !vecNear(p.Add(Project(v, n)), v, tol) {
			t.Errorf("planar + projection should rebuild v for normal %v", n)
		}
	}
}

func TestProjectZeroNormal(t *testing.T) {
	if got := Project(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{}); got.LenSqr() != 0 {
		t.Errorf("expected zero projection onto zero vector, got %v", got)
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl64.Vec3
		want float64
	}{
		{"same", Forward, Forward, 0},
		{"right angle", Forward, Right, math.Pi / 2},
		{"opposite", Up, Up.Mul(-1), math.Pi},
		{"zero vector", mgl64.Vec3{}, Up, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Angle(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Angle = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestLookRotationAxes(t *testing.T) {
	tests := []struct {
		name        string
		forward, up mgl64.Vec3
	}{
		{"identity", Forward, Up},
		{"upside down", Forward, Up.Mul(-1)},
		{"wall right", Forward, mgl64.Vec3{-1, 0, 0}},
		{"ceiling facing x", Right, Up.Mul(-1)},
		{"floor facing back", mgl64.Vec3{0, 0, -1}, Up},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, ok := LookRotation(tc.forward, tc.up)
			if !ok {
				t.Fatal("expected a valid rotation")
			}
			f, u, r := Axes(q)
			if !vecNear(f, tc.forward.Normalize(), 1e-9) {
				t.Errorf("forward = %v, want %v", f, tc.forward)
			}
			if !vecNear(u, tc.up.Normalize(), 1e-9) {
				t.Errorf("up = %v, want %v", u, tc.up)
			}
			if !vecNear(r, u.Cross(f), 1e-9) {
				t.Errorf("right %v is not up x forward", r)
			}
		})
	}
}

func TestLookRotationDegenerate(t *testing.T) {
	if _, ok := LookRotation(Up, Up); ok {
		t.Error("forward parallel to up should be rejected")
	}
	if _, ok := LookRotation(mgl64.Vec3{}, Up); ok {
		t.Error("zero forward should be rejected")
	}
}

func TestSlerpShortestPath(t *testing.T) {
	a := mgl64.QuatRotate(0.2, Up)
	b := mgl64.QuatRotate(0.6, Up).Scale(-1) // same orientation, flipped sign

	mid := Slerp(a, b, 0.5)
	want := mgl64.QuatRotate(0.4, Up)
	if !mid.OrientationEqualThreshold(want, 1e-6) {
		t.Errorf("Slerp midpoint = %v, want %v", mid, want)
	}
	if end := Slerp(a, b, 1); !end.OrientationEqualThreshold(b, 1e-9) {
		t.Errorf("Slerp(1) = %v, want %v", end, b)
	}
}

func TestRotateAroundKeepsDistance(t *testing.T) {
	pivot := mgl64.Vec3{0, 2, 0}
	p := mgl64.Vec3{0, 0, 0}
	got := RotateAround(p, pivot, Forward, math.Pi)
	if !vecNear(got, mgl64.Vec3{0, 4, 0}, 1e-9) {
		t.Errorf("RotateAround = %v, want (0,4,0)", got)
	}
	if d := got.Sub(pivot).Len(); math.Abs(d-2) > 1e-9 {
		t.Errorf("distance to pivot changed: %f", d)
	}
	if same := RotateAround(p, pivot, mgl64.Vec3{}, 1); same != p {
		t.Errorf("zero axis should leave point unchanged, got %v", same)
	}
}

func TestYawPitch(t *testing.T) {
	f := YawPitch(90, 0).Rotate(Forward)
	if !vecNear(f, Right, 1e-9) {
		t.Errorf("yaw 90 forward = %v, want +X", f)
	}
	f = YawPitch(0, 30).Rotate(Forward)
	if f.Y() >= 0 {
		t.Errorf("positive pitch should look down, got %v", f)
	}
}

func TestRaycastAABB(t *testing.T) {
	floor := AABB{Center: mgl64.Vec3{0, -0.5, 0}, HalfExtents: mgl64.Vec3{5, 0.5, 5}}

	hit, ok := RaycastAABB(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -1, 0}, 1.1, floor)
	if !ok {
		t.Fatal("expected ray to hit the floor")
	}
	if math.Abs(hit.Distance-1) > tol {
		t.Errorf("Distance = %f, want 1", hit.Distance)
	}
	if !vecNear(hit.Normal, Up, tol) {
		t.Errorf("Normal = %v, want up", hit.Normal)
	}

	if _, ok := RaycastAABB(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, -1, 0}, 1.1, floor); ok {
		t.Error("ray shorter than the gap should miss")
	}
	if _, ok := RaycastAABB(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 10, floor); ok {
		t.Error("ray pointing away should miss")
	}
	if hit, ok := RaycastAABB(mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{1, 0, 0}, 1, floor); !ok || hit.Distance != 0 {
		t.Errorf("ray from inside should hit at 0, got %v %v", hit, ok)
	}
}

func TestIntersectsSphere(t *testing.T) {
	box := AABB{HalfExtents: mgl64.Vec3{1, 1, 1}}
	if !box.IntersectsSphere(mgl64.Vec3{1.5, 0, 0}, 0.6) {
		t.Error("sphere touching the face should intersect")
	}
	if box.IntersectsSphere(mgl64.Vec3{2, 2, 0}, 1) {
		t.Error("sphere near the corner should not intersect")
	}
}
