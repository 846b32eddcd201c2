// Package geom is the exact geometry used by the query pipeline: convex
// shapes defined in their own local frame, and the ray, point, overlap and
// time of impact routines that run on them.
package geom

import (
	"fmt"

	"github.com/spatialq/spatialq/vect"
)

type ShapeType int

const (
	ShapeBall ShapeType = iota
	ShapeCuboid
	ShapeCapsule
)

func (t ShapeType) String() string {
	switch t {
	case ShapeBall:
		return "ball"
	case ShapeCuboid:
		return "cuboid"
	case ShapeCapsule:
		return "capsule"
	}
	return fmt.Sprintf("ShapeType(%d)", int(t))
}

// Shape is a convex shape expressed in its local frame.
//
// Every shape is a core (a point, a segment or a box) inflated by a margin;
// LocalSupportPoint describes the core only.
type Shape interface {
	Type() ShapeType
	ComputeLocalAABB() vect.AABB
	CastLocalRay(ray vect.Ray, maxToi float64, solid bool) (RayIntersection, bool)
	ProjectLocalPoint(p vect.Vector, solid bool) PointProjection
	ProjectLocalPointAndGetFeature(p vect.Vector) (PointProjection, FeatureID)
	ContainsLocalPoint(p vect.Vector) bool
	LocalSupportPoint(dir vect.Vector) vect.Vector
	Margin() float64
}

type FeatureKind int

const (
	FeatureUnknown FeatureKind = iota
	FeatureVertex
	FeatureEdge
	FeatureFace
)

// FeatureID names a vertex, edge or face of a shape. The zero value is
// the unknown feature.
type FeatureID struct {
	Kind FeatureKind
	ID   uint32
}

func Vertex(id uint32) FeatureID { return FeatureID{FeatureVertex, id} }
func Edge(id uint32) FeatureID   { return FeatureID{FeatureEdge, id} }
func Face(id uint32) FeatureID   { return FeatureID{FeatureFace, id} }

func (f FeatureID) String() string {
	switch f.Kind {
	case FeatureVertex:
		return fmt.Sprintf("vertex(%d)", f.ID)
	case FeatureEdge:
		return fmt.Sprintf("edge(%d)", f.ID)
	case FeatureFace:
		return fmt.Sprintf("face(%d)", f.ID)
	}
	return "unknown"
}

type RayIntersection struct {
	// Time of impact, in multiples of the ray direction.
	Toi float64
	// Outward surface normal at the hit. A hollow query that starts inside
	// reports the exit, and the normal then faces back into the shape.
	// A solid query that starts inside reports a zero normal.
	Normal  vect.Vector
	Feature FeatureID
}

type PointProjection struct {
	// Whether the projected point was inside the shape.
	IsInside bool
	// The projection. Equal to the query point for solid queries that
	// start inside.
	Point vect.Vector
}

// Tolerances control the iterative algorithms (GJK and time of impact).
type Tolerances struct {
	// Distances at or below Epsilon count as contact.
	Epsilon       float64 `yaml:"epsilon"`
	MaxIterations int     `yaml:"max_iterations"`
}

func DefaultTolerances() Tolerances {
	return Tolerances{Epsilon: 1e-7, MaxIterations: 64}
}

func (tol Tolerances) orDefault() Tolerances {
	def := DefaultTolerances()
	if tol.Epsilon <= 0 {
		tol.Epsilon = def.Epsilon
	}
	if tol.MaxIterations <= 0 {
		tol.MaxIterations = def.MaxIterations
	}
	return tol
}
