package scene

import (
	"fmt"
	"io"

	"github.com/spatialq/spatialq"
	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

type runner func(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error

var runners = map[string]runner{
	"cast_ray":                      runCastRay,
	"cast_ray_and_get_normal":       runCastRayAndGetNormal,
	"intersections_with_ray":        runIntersectionsWithRay,
	"cast_shape":                    runCastShape,
	"intersection_with_shape":       runIntersectionWithShape,
	"intersections_with_shape":      runIntersectionsWithShape,
	"project_point":                 runProjectPoint,
	"project_point_and_get_feature": runProjectPointAndGetFeature,
	"intersections_with_point":      runIntersectionsWithPoint,
	"colliders_with_aabb":           runCollidersWithAABB,
}

// Run updates the pipeline from the world and executes every query in
// order, writing one line per result to out.
func (w *World) Run(p *spatialq.QueryPipeline, out io.Writer) error {
	p.Update(w.Islands, w.Bodies, w.Colliders)
	for _, q := range w.queries {
		if err := runners[q.spec.Kind](w, p, q, out); err != nil {
			return fmt.Errorf("scene: query %s: %w", q.spec.Name, err)
		}
	}
	return nil
}

func (q *query) ray() (vect.Ray, float64, error) {
	origin, err := q.spec.Origin.Vector(vect.Zero())
	if err != nil {
		return vect.Ray{}, 0, err
	}
	dir, err := q.spec.Dir.Vector(vect.Axis(0))
	if err != nil {
		return vect.Ray{}, 0, err
	}
	maxToi := q.spec.MaxToi
	if maxToi <= 0 {
		maxToi = vect.Infinity
	}
	return vect.NewRay(origin, dir), maxToi, nil
}

func (q *query) shape() (geom.Shape, vect.Isometry, error) {
	if q.spec.Shape == nil {
		return nil, vect.Isometry{}, fmt.Errorf("missing shape")
	}
	shape, err := q.spec.Shape.Build()
	if err != nil {
		return nil, vect.Isometry{}, err
	}
	pos, err := isometry(q.spec.Translation, q.spec.Rotation)
	if err != nil {
		return nil, vect.Isometry{}, err
	}
	return shape, pos, nil
}

func (q *query) point() (vect.Vector, error) {
	return q.spec.Point.Vector(vect.Zero())
}

func none(out io.Writer, q *query) {
	fmt.Fprintf(out, "%s: none\n", q.spec.Name)
}

func runCastRay(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	ray, maxToi, err := q.ray()
	if err != nil {
		return err
	}
	hit, ok := p.CastRay(w.Bodies, w.Colliders, ray, maxToi, q.spec.Solid, q.filter)
	if !ok {
		none(out, q)
		return nil
	}
	fmt.Fprintf(out, "%s: %s toi=%g\n", q.spec.Name, w.colliderName(hit.Collider), hit.Toi)
	return nil
}

func (w *World) printRayHit(out io.Writer, q *query, hit spatialq.RayColliderIntersection) {
	fmt.Fprintf(out, "%s: %s toi=%g point=%v normal=%v feature=%v\n",
		q.spec.Name, w.colliderName(hit.Collider), hit.Toi, hit.Point, hit.Normal, hit.Feature)
}

func runCastRayAndGetNormal(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	ray, maxToi, err := q.ray()
	if err != nil {
		return err
	}
	hit, ok := p.CastRayAndGetNormal(w.Bodies, w.Colliders, ray, maxToi, q.spec.Solid, q.filter)
	if !ok {
		none(out, q)
		return nil
	}
	w.printRayHit(out, q, hit)
	return nil
}

func runIntersectionsWithRay(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	ray, maxToi, err := q.ray()
	if err != nil {
		return err
	}
	p.IntersectionsWithRay(w.Bodies, w.Colliders, ray, maxToi, q.spec.Solid, q.filter,
		spatialq.RayIntersectionFunc(func(hit spatialq.RayColliderIntersection) (bool, error) {
			w.printRayHit(out, q, hit)
			if q.rays == nil {
				return true, nil
			}
			return q.rays.VisitRayIntersection(hit)
		}))
	return nil
}

// overlapVisitor prints every collider and defers the decision to
// continue to the query's script, if any.
func (w *World) overlapVisitor(out io.Writer, q *query) spatialq.ColliderVisitor {
	return spatialq.ColliderFunc(func(h spatialq.ColliderHandle) (bool, error) {
		fmt.Fprintf(out, "%s: %s\n", q.spec.Name, w.colliderName(h))
		if q.overlap == nil {
			return true, nil
		}
		return q.overlap.VisitCollider(h)
	})
}

func runCastShape(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	shape, pos, err := q.shape()
	if err != nil {
		return err
	}
	vel, err := q.spec.Velocity.Vector(vect.Zero())
	if err != nil {
		return err
	}
	maxToi := q.spec.MaxToi
	if maxToi <= 0 {
		maxToi = vect.Infinity
	}
	hit, ok := p.CastShape(w.Bodies, w.Colliders, pos, vel, shape, maxToi, q.filter)
	if !ok {
		none(out, q)
		return nil
	}
	fmt.Fprintf(out, "%s: %s toi=%g witness1=%v witness2=%v normal1=%v normal2=%v status=%v\n",
		q.spec.Name, w.colliderName(hit.Collider), hit.Toi, hit.Witness1, hit.Witness2, hit.Normal1, hit.Normal2, hit.Status)
	return nil
}

func runIntersectionWithShape(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	shape, pos, err := q.shape()
	if err != nil {
		return err
	}
	h, ok := p.IntersectionWithShape(w.Bodies, w.Colliders, pos, shape, q.filter)
	if !ok {
		none(out, q)
		return nil
	}
	fmt.Fprintf(out, "%s: %s\n", q.spec.Name, w.colliderName(h))
	return nil
}

func runIntersectionsWithShape(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	shape, pos, err := q.shape()
	if err != nil {
		return err
	}
	p.IntersectionsWithShape(w.Bodies, w.Colliders, pos, shape, q.filter, w.overlapVisitor(out, q))
	return nil
}

func (w *World) printProjection(out io.Writer, q *query, proj spatialq.PointColliderProjection) {
	fmt.Fprintf(out, "%s: %s point=%v inside=%v distance=%g feature=%v\n",
		q.spec.Name, w.colliderName(proj.Collider), proj.Point, proj.IsInside, proj.Distance, proj.Feature)
}

func runProjectPoint(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	point, err := q.point()
	if err != nil {
		return err
	}
	proj, ok := p.ProjectPoint(w.Bodies, w.Colliders, point, q.spec.Solid, q.filter)
	if !ok {
		none(out, q)
		return nil
	}
	w.printProjection(out, q, proj)
	return nil
}

func runProjectPointAndGetFeature(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	point, err := q.point()
	if err != nil {
		return err
	}
	proj, ok := p.ProjectPointAndGetFeature(w.Bodies, w.Colliders, point, q.filter)
	if !ok {
		none(out, q)
		return nil
	}
	w.printProjection(out, q, proj)
	return nil
}

func runIntersectionsWithPoint(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	point, err := q.point()
	if err != nil {
		return err
	}
	p.IntersectionsWithPoint(w.Bodies, w.Colliders, point, q.filter, w.overlapVisitor(out, q))
	return nil
}

func runCollidersWithAABB(w *World, p *spatialq.QueryPipeline, q *query, out io.Writer) error {
	min, err := q.spec.Min.Vector(vect.Zero())
	if err != nil {
		return err
	}
	max, err := q.spec.Max.Vector(vect.Zero())
	if err != nil {
		return err
	}
	p.CollidersWithAABBIntersectingAABB(vect.NewAABB(min, max), w.overlapVisitor(out, q))
	return nil
}
