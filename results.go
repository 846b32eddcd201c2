package spatialq

import (
	"fmt"

	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

type RayColliderToi struct {
	Collider ColliderHandle
	Toi      float64
}

func (r RayColliderToi) String() string {
	return fmt.Sprintf("%v toi=%g", r.Collider, r.Toi)
}

type RayColliderIntersection struct {
	Collider ColliderHandle
	Toi      float64
	// World space. Zero for solid casts starting inside the collider.
	Normal  vect.Vector
	Point   vect.Vector
	Feature geom.FeatureID
}

func (r RayColliderIntersection) String() string {
	return fmt.Sprintf("%v toi=%g point=%v normal=%v feature=%v", r.Collider, r.Toi, r.Point, r.Normal, r.Feature)
}

type PointColliderProjection struct {
	Collider ColliderHandle
	Point    vect.Vector
	IsInside bool
	// Distance from the query point to Point.
	Distance float64
	Feature  geom.FeatureID
}

func (r PointColliderProjection) String() string {
	return fmt.Sprintf("%v point=%v inside=%v distance=%g feature=%v", r.Collider, r.Point, r.IsInside, r.Distance, r.Feature)
}

// ShapeColliderTOI is the first contact of a swept shape. Witness1 and
// Normal1 belong to the query shape, Witness2 and Normal2 to the
// collider, all in world space at the time of impact.
type ShapeColliderTOI struct {
	Collider           ColliderHandle
	Toi                float64
	Witness1, Witness2 vect.Vector
	Normal1, Normal2   vect.Vector
	Status             geom.TOIStatus
}

func (r ShapeColliderTOI) String() string {
	return fmt.Sprintf("%v toi=%g witness1=%v witness2=%v normal1=%v status=%v", r.Collider, r.Toi, r.Witness1, r.Witness2, r.Normal1, r.Status)
}
