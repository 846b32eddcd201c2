package geom

import (
	"math"
	"testing"

	"github.com/spatialq/spatialq/vect"
)

const testEps = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= testEps
}

func TestShape_CastLocalRay(t *testing.T) {
	ball := NewBall(1)
	box := NewCuboid(vect.Splat(1))
	capsule := NewCapsuleY(1, 0.5)

	tests := []struct {
		name    string
		shape   Shape
		ray     vect.Ray
		maxToi  float64
		solid   bool
		hit     bool
		toi     float64
		normal  vect.Vector
		feature FeatureID
	}{
		{"ball from outside", ball, vect.NewRay(vect.XY(-5, 0), vect.XY(1, 0)), 100, true, true, 4, vect.XY(-1, 0), Face(0)},
		{"ball unnormalized dir", ball, vect.NewRay(vect.XY(-5, 0), vect.XY(2, 0)), 100, true, true, 2, vect.XY(-1, 0), Face(0)},
		{"ball solid inside", ball, vect.NewRay(vect.XY(0.2, 0), vect.XY(1, 0)), 100, true, true, 0, vect.Zero(), Face(0)},
		{"ball hollow inside", ball, vect.NewRay(vect.Zero(), vect.XY(1, 0)), 100, false, true, 1, vect.XY(-1, 0), Face(0)},
		{"ball miss", ball, vect.NewRay(vect.XY(-5, 3), vect.XY(1, 0)), 100, true, false, 0, vect.Zero(), FeatureID{}},
		{"ball behind", ball, vect.NewRay(vect.XY(5, 0), vect.XY(1, 0)), 100, true, false, 0, vect.Zero(), FeatureID{}},
		{"ball past max toi", ball, vect.NewRay(vect.XY(-5, 0), vect.XY(1, 0)), 3, true, false, 0, vect.Zero(), FeatureID{}},

		{"cuboid from outside", box, vect.NewRay(vect.XY(-5, 0), vect.XY(1, 0)), 100, true, true, 4, vect.XY(-1, 0), Face(vect.Dim)},
		{"cuboid from above", box, vect.NewRay(vect.XY(0, 5), vect.XY(0, -1)), 100, true, true, 4, vect.XY(0, 1), Face(1)},
		{"cuboid solid inside", box, vect.NewRay(vect.Zero(), vect.XY(1, 0)), 100, true, true, 0, vect.Zero(), FeatureID{}},
		{"cuboid hollow inside", box, vect.NewRay(vect.Zero(), vect.XY(1, 0)), 100, false, true, 1, vect.XY(-1, 0), Face(0)},
		{"cuboid miss", box, vect.NewRay(vect.XY(-5, 2), vect.XY(1, 0)), 100, true, false, 0, vect.Zero(), FeatureID{}},

		{"capsule side", capsule, vect.NewRay(vect.XY(-5, 0), vect.XY(1, 0)), 100, true, true, 4.5, vect.XY(-1, 0), Face(0)},
		{"capsule cap", capsule, vect.NewRay(vect.XY(0, 5), vect.XY(0, -1)), 100, true, true, 3.5, vect.XY(0, 1), Vertex(1)},
		{"capsule solid inside", capsule, vect.NewRay(vect.XY(0, 0.5), vect.XY(1, 0)), 100, true, true, 0, vect.Zero(), FeatureID{}},
		{"capsule hollow inside", capsule, vect.NewRay(vect.Zero(), vect.XY(1, 0)), 100, false, true, 0.5, vect.XY(-1, 0), Face(0)},
		{"capsule miss", capsule, vect.NewRay(vect.XY(-5, 0), vect.XY(-1, 0)), 100, true, false, 0, vect.Zero(), FeatureID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := tt.shape.CastLocalRay(tt.ray, tt.maxToi, tt.solid)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if !ok {
				return
			}
			if !near(hit.Toi, tt.toi) {
				t.Errorf("toi = %v, want %v", hit.Toi, tt.toi)
			}
			if !hit.Normal.Near(tt.normal, testEps) {
				t.Errorf("normal = %v, want %v", hit.Normal, tt.normal)
			}
			if hit.Feature != tt.feature {
				t.Errorf("feature = %v, want %v", hit.Feature, tt.feature)
			}
		})
	}
}

func TestShape_ProjectLocalPoint(t *testing.T) {
	ball := NewBall(1)
	box := NewCuboid(vect.Splat(1))
	capsule := NewCapsuleY(1, 0.5)

	tests := []struct {
		name    string
		shape   Shape
		p       vect.Vector
		solid   bool
		inside  bool
		point   vect.Vector
		feature FeatureID
	}{
		{"ball outside", ball, vect.XY(3, 0), false, false, vect.XY(1, 0), Face(0)},
		{"ball inside solid", ball, vect.XY(0.5, 0), true, true, vect.XY(0.5, 0), Face(0)},
		{"ball inside hollow", ball, vect.XY(0.5, 0), false, true, vect.XY(1, 0), Face(0)},
		{"cuboid outside", box, vect.XY(3, 0.5), false, false, vect.XY(1, 0.5), Face(0)},
		{"cuboid below", box, vect.XY(0.5, -4), false, false, vect.XY(0.5, -1), Face(1 + vect.Dim)},
		{"cuboid inside solid", box, vect.XY(0.5, 0), true, true, vect.XY(0.5, 0), Face(0)},
		{"cuboid inside hollow", box, vect.XY(0.5, 0), false, true, vect.XY(1, 0), Face(0)},
		{"capsule side", capsule, vect.XY(3, 0), false, false, vect.XY(0.5, 0), Face(0)},
		{"capsule top", capsule, vect.XY(0, 3), false, false, vect.XY(0, 1.5), Vertex(1)},
		{"capsule bottom", capsule, vect.XY(0, -3), false, false, vect.XY(0, -1.5), Vertex(0)},
		{"capsule inside hollow", capsule, vect.XY(0.25, 0), false, true, vect.XY(0.5, 0), Face(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj := tt.shape.ProjectLocalPoint(tt.p, tt.solid)
			if proj.IsInside != tt.inside {
				t.Errorf("inside = %v, want %v", proj.IsInside, tt.inside)
			}
			if !proj.Point.Near(tt.point, testEps) {
				t.Errorf("point = %v, want %v", proj.Point, tt.point)
			}
			if tt.solid {
				return
			}
			fproj, feature := tt.shape.ProjectLocalPointAndGetFeature(tt.p)
			if !fproj.Point.Near(tt.point, testEps) {
				t.Errorf("feature point = %v, want %v", fproj.Point, tt.point)
			}
			if feature != tt.feature {
				t.Errorf("feature = %v, want %v", feature, tt.feature)
			}
		})
	}
}

func TestShape_ContainsLocalPoint(t *testing.T) {
	capsule := NewCapsuleY(1, 0.5)
	if !capsule.ContainsLocalPoint(vect.XY(0, 1.4)) {
		t.Error("Expected the cap to contain the point")
	}
	if capsule.ContainsLocalPoint(vect.XY(0.45, 1.4)) {
		t.Error("Expected the point beside the cap to be outside")
	}
	box := NewCuboid(vect.XY(2, 1))
	if !box.ContainsLocalPoint(vect.XY(-2, 1)) {
		t.Error("Expected the corner to be contained")
	}
}

func TestComputeAABB(t *testing.T) {
	ball := NewBall(1)
	got := ComputeAABB(ball, vect.Translation(vect.XY(2, 0)))
	want := vect.NewAABBForExtents(vect.XY(2, 0), vect.Splat(1))
	if !got.Min.Near(want.Min, testEps) || !got.Max.Near(want.Max, testEps) {
		t.Errorf("ball aabb = %v, want %v", got, want)
	}

	capsule := NewCapsuleY(1, 0.5)
	got = ComputeAABB(capsule, vect.IdentityIsometry())
	want = capsule.ComputeLocalAABB()
	if !got.Min.Near(want.Min, testEps) || !got.Max.Near(want.Max, testEps) {
		t.Errorf("capsule aabb = %v, want %v", got, want)
	}
}

func TestCastRay_World(t *testing.T) {
	box := NewCuboid(vect.Splat(1))
	pos := vect.Translation(vect.XY(10, 0))
	hit, ok := CastRay(box, pos, vect.NewRay(vect.Zero(), vect.XY(1, 0)), 100, true)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if !near(hit.Toi, 9) {
		t.Errorf("Expected toi 9, got %v", hit.Toi)
	}
	if !hit.Normal.Near(vect.XY(-1, 0), testEps) {
		t.Errorf("Expected normal (-1, 0), got %v", hit.Normal)
	}

	proj := ProjectPoint(box, pos, vect.Zero(), true)
	if !proj.Point.Near(vect.XY(9, 0), testEps) || proj.IsInside {
		t.Errorf("Expected (9, 0) outside, got %v %v", proj.Point, proj.IsInside)
	}
	if !ContainsPoint(box, pos, vect.XY(10.5, 0.5)) {
		t.Error("Expected the point to be contained")
	}
}
