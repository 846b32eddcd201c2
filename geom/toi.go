package geom

import (
	"fmt"

	"github.com/spatialq/spatialq/vect"
)

type TOIStatus int

const (
	// The shapes touch at Toi.
	TOIConverged TOIStatus = iota
	// The iteration budget ran out; Toi is a conservative estimate.
	TOIOutOfIterations
	// The shapes already overlap at time zero.
	TOIPenetrating
	// The distance routine produced no usable direction.
	TOIFailed
)

func (s TOIStatus) String() string {
	switch s {
	case TOIConverged:
		return "converged"
	case TOIOutOfIterations:
		return "out-of-iterations"
	case TOIPenetrating:
		return "penetrating"
	case TOIFailed:
		return "failed"
	}
	return fmt.Sprintf("TOIStatus(%d)", int(s))
}

// TOI describes the first contact of two linearly moving shapes. Witnesses
// and normals are in world space, at the time of impact.
type TOI struct {
	Toi                float64
	Witness1, Witness2 vect.Vector
	Normal1, Normal2   vect.Vector
	Status             TOIStatus
}

// CastShapes sweeps shape1 along vel1 and shape2 along vel2 and reports
// their first contact in [0, maxToi] using conservative advancement.
func CastShapes(pos1 vect.Isometry, vel1 vect.Vector, shape1 Shape, pos2 vect.Isometry, vel2 vect.Vector, shape2 Shape, maxToi float64, tol Tolerances) (TOI, bool) {
	tol = tol.orDefault()
	rel := vel1.Sub(vel2)

	prox := ClosestPoints(pos1, shape1, pos2, shape2, tol)
	if prox.Distance <= tol.Epsilon {
		return toiFrom(0, prox, TOIPenetrating), true
	}

	var t float64
	for i := 0; i < tol.MaxIterations; i++ {
		if prox.Normal.IsZero() {
			return toiFrom(t, prox, TOIFailed), true
		}
		closing := rel.Dot(prox.Normal)
		if closing <= 0 {
			return TOI{}, false
		}

		t += prox.Distance / closing
		if t > maxToi {
			return TOI{}, false
		}

		n := prox.Normal
		prox = ClosestPoints(pos1.Translated(vel1.Mult(t)), shape1, pos2.Translated(vel2.Mult(t)), shape2, tol)
		if prox.Distance <= tol.Epsilon {
			// Touching cores give no direction; keep the last separating one.
			if prox.Normal.IsZero() {
				prox.Normal = n
			}
			return toiFrom(t, prox, TOIConverged), true
		}
	}
	return toiFrom(t, prox, TOIOutOfIterations), true
}

func toiFrom(t float64, prox Proximity, status TOIStatus) TOI {
	return TOI{
		Toi:      t,
		Witness1: prox.Point1,
		Witness2: prox.Point2,
		Normal1:  prox.Normal,
		Normal2:  prox.Normal.Neg(),
		Status:   status,
	}
}
