package geom

import (
	"testing"

	"github.com/spatialq/spatialq/vect"
)

func TestCastShapes(t *testing.T) {
	ball := NewBall(1)
	box := NewCuboid(vect.Splat(1))
	tol := DefaultTolerances()

	tests := []struct {
		name           string
		shape1, shape2 Shape
		pos1           vect.Vector
		vel1           vect.Vector
		maxToi         float64
		hit            bool
		toi            float64
		status         TOIStatus
	}{
		{"balls head on", ball, ball, vect.XY(-5, 0), vect.XY(1, 0), 100, true, 3, TOIConverged},
		{"cuboids head on", box, box, vect.XY(-5, 0), vect.XY(2, 0), 100, true, 1.5, TOIConverged},
		{"moving away", ball, ball, vect.XY(-5, 0), vect.XY(-1, 0), 100, false, 0, 0},
		{"passing by", ball, ball, vect.XY(-5, 3), vect.XY(1, 0), 100, false, 0, 0},
		{"out of range", ball, ball, vect.XY(-5, 0), vect.XY(1, 0), 2, false, 0, 0},
		{"already overlapping", ball, box, vect.XY(0.5, 0), vect.Zero(), 100, true, 0, TOIPenetrating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := CastShapes(vect.Translation(tt.pos1), tt.vel1, tt.shape1, vect.IdentityIsometry(), vect.Zero(), tt.shape2, tt.maxToi, tol)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if !ok {
				return
			}
			if !near(res.Toi, tt.toi) {
				t.Errorf("toi = %v, want %v", res.Toi, tt.toi)
			}
			if res.Status != tt.status {
				t.Errorf("status = %v, want %v", res.Status, tt.status)
			}
		})
	}
}

func TestCastShapes_Witnesses(t *testing.T) {
	ball := NewBall(1)
	res, ok := CastShapes(vect.Translation(vect.XY(-5, 0)), vect.XY(1, 0), ball, vect.IdentityIsometry(), vect.Zero(), ball, 100, DefaultTolerances())
	if !ok {
		t.Fatal("Expected a hit")
	}
	if !res.Witness1.Near(vect.XY(-1, 0), testEps) || !res.Witness2.Near(vect.XY(-1, 0), testEps) {
		t.Errorf("Expected both witnesses at (-1, 0), got %v %v", res.Witness1, res.Witness2)
	}
	if !res.Normal1.Near(vect.XY(1, 0), testEps) || !res.Normal2.Near(vect.XY(-1, 0), testEps) {
		t.Errorf("Expected opposite normals along x, got %v %v", res.Normal1, res.Normal2)
	}
}
