package scene

import (
	"fmt"

	"github.com/spatialq/spatialq"
	"github.com/spatialq/spatialq/script"
	"github.com/spatialq/spatialq/vect"
)

var flagNames = map[string]spatialq.QueryFilterFlags{
	"exclude_fixed":     spatialq.ExcludeFixed,
	"exclude_kinematic": spatialq.ExcludeKinematic,
	"exclude_dynamic":   spatialq.ExcludeDynamic,
	"exclude_sensors":   spatialq.ExcludeSensors,
	"exclude_solids":    spatialq.ExcludeSolids,
	"only_dynamic":      spatialq.OnlyDynamic,
	"only_kinematic":    spatialq.OnlyKinematic,
	"only_fixed":        spatialq.OnlyFixed,
}

// World is a built scene: the storage sets the pipeline reads plus the
// compiled queries.
type World struct {
	Islands   *spatialq.IslandManager
	Bodies    *spatialq.BodySet
	Colliders *spatialq.ColliderSet
	Config    spatialq.Config

	bodies        map[string]spatialq.RigidBodyHandle
	colliders     map[string]spatialq.ColliderHandle
	colliderNames map[spatialq.ColliderHandle]string
	queries       []*query
}

type query struct {
	spec    QuerySpec
	filter  spatialq.QueryFilter
	rays    spatialq.RayIntersectionVisitor
	overlap spatialq.ColliderVisitor
}

func (s *Scene) Build() (*World, error) {
	w := &World{
		Islands:       spatialq.NewIslandManager(),
		Bodies:        spatialq.NewBodySet(),
		Colliders:     spatialq.NewColliderSet(),
		Config:        s.Pipeline,
		bodies:        make(map[string]spatialq.RigidBodyHandle),
		colliders:     make(map[string]spatialq.ColliderHandle),
		colliderNames: make(map[spatialq.ColliderHandle]string),
	}

	for i, spec := range s.Bodies {
		if err := w.addBody(spec); err != nil {
			return nil, fmt.Errorf("scene: body %d (%s): %w", i, spec.Name, err)
		}
	}
	for i, spec := range s.Colliders {
		if err := w.addCollider(spec); err != nil {
			return nil, fmt.Errorf("scene: collider %d (%s): %w", i, spec.Name, err)
		}
	}

	opts := script.Options{Timeout: s.ScriptTimeout}
	for i, spec := range s.Queries {
		q, err := w.compileQuery(s, spec, opts)
		if err != nil {
			return nil, fmt.Errorf("scene: query %d (%s): %w", i, spec.Name, err)
		}
		w.queries = append(w.queries, q)
	}
	return w, nil
}

func (w *World) addBody(spec BodySpec) error {
	if spec.Name == "" {
		return fmt.Errorf("missing name")
	}
	if _, ok := w.bodies[spec.Name]; ok {
		return fmt.Errorf("duplicate name")
	}
	bodyType, err := parseBodyType(spec.Type)
	if err != nil {
		return err
	}
	pos, err := isometry(spec.Translation, spec.Rotation)
	if err != nil {
		return err
	}
	linvel, err := spec.Linvel.Vector(vect.Zero())
	if err != nil {
		return err
	}

	body := spatialq.NewRigidBody(bodyType)
	body.SetPosition(pos)
	body.SetLinvel(linvel)
	if len(spec.NextTranslation) > 0 {
		next, err := isometry(spec.NextTranslation, spec.Rotation)
		if err != nil {
			return err
		}
		body.SetNextPosition(next)
	}

	h := w.Bodies.Insert(body)
	w.bodies[spec.Name] = h
	if spec.Sleeping {
		w.Islands.Sleep(w.Bodies, h)
	} else {
		w.Islands.WakeUp(w.Bodies, h)
	}
	return nil
}

func (w *World) addCollider(spec ColliderSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("missing name")
	}
	if _, ok := w.colliders[spec.Name]; ok {
		return fmt.Errorf("duplicate name")
	}
	shape, err := spec.Shape.Build()
	if err != nil {
		return err
	}
	pos, err := isometry(spec.Translation, spec.Rotation)
	if err != nil {
		return err
	}

	c := spatialq.NewCollider(shape)
	c.SetPosition(pos)
	c.SetSensor(spec.Sensor)
	if spec.Groups != nil {
		c.SetCollisionGroups(spec.Groups.groups())
	}
	c.UserData = spec.UserData

	var h spatialq.ColliderHandle
	if spec.Body != "" {
		parent, ok := w.bodies[spec.Body]
		if !ok {
			return fmt.Errorf("unknown body %q", spec.Body)
		}
		h = w.Colliders.InsertWithParent(c, parent, w.Bodies)
	} else {
		h = w.Colliders.Insert(c)
	}
	w.colliders[spec.Name] = h
	w.colliderNames[h] = spec.Name
	return nil
}

func (w *World) compileQuery(s *Scene, spec QuerySpec, opts script.Options) (*query, error) {
	if spec.Kind == "" {
		return nil, fmt.Errorf("missing kind")
	}
	if _, ok := runners[spec.Kind]; !ok {
		return nil, fmt.Errorf("unknown kind %q", spec.Kind)
	}
	q := &query{spec: spec}

	filter, err := w.buildFilter(s, spec.Filter, opts)
	if err != nil {
		return nil, err
	}
	q.filter = filter

	if spec.Visitor != "" {
		src, err := script.LoadFile(s.path(spec.Visitor))
		if err != nil {
			return nil, err
		}
		switch spec.Kind {
		case "intersections_with_ray":
			q.rays, err = script.NewRayVisitor(src, opts)
		default:
			q.overlap, err = script.NewColliderVisitor(src, opts)
		}
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (w *World) buildFilter(s *Scene, spec FilterSpec, opts script.Options) (spatialq.QueryFilter, error) {
	flags := spatialq.QueryFilterFlags(spec.RawFlags)
	for _, name := range spec.Flags {
		f, ok := flagNames[name]
		if !ok {
			return spatialq.QueryFilter{}, fmt.Errorf("unknown filter flag %q", name)
		}
		flags |= f
	}
	filter := spatialq.NewQueryFilter().WithFlags(flags)

	if spec.Groups != nil {
		filter = filter.WithGroups(spec.Groups.groups())
	}
	if spec.ExcludeCollider != "" {
		h, ok := w.colliders[spec.ExcludeCollider]
		if !ok {
			return spatialq.QueryFilter{}, fmt.Errorf("unknown collider %q", spec.ExcludeCollider)
		}
		filter = filter.WithExcludeCollider(h)
	}
	if spec.ExcludeBody != "" {
		h, ok := w.bodies[spec.ExcludeBody]
		if !ok {
			return spatialq.QueryFilter{}, fmt.Errorf("unknown body %q", spec.ExcludeBody)
		}
		filter = filter.WithExcludeRigidBody(h)
	}
	if spec.Predicate != "" {
		p, err := script.LoadPredicate(s.path(spec.Predicate), opts)
		if err != nil {
			return spatialq.QueryFilter{}, err
		}
		filter = filter.WithPredicate(p)
	}
	return filter, nil
}

// Collider returns the handle of a named collider.
func (w *World) Collider(name string) (spatialq.ColliderHandle, bool) {
	h, ok := w.colliders[name]
	return h, ok
}

// Body returns the handle of a named body.
func (w *World) Body(name string) (spatialq.RigidBodyHandle, bool) {
	h, ok := w.bodies[name]
	return h, ok
}

func (w *World) colliderName(h spatialq.ColliderHandle) string {
	if name, ok := w.colliderNames[h]; ok {
		return name
	}
	return h.String()
}

// NewPipeline returns an empty pipeline configured by the scene.
func (w *World) NewPipeline() *spatialq.QueryPipeline {
	return spatialq.NewQueryPipelineWithConfig(w.Config)
}
