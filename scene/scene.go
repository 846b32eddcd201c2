// Package scene loads a world and a list of queries from YAML and runs
// the queries against a QueryPipeline.
package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spatialq/spatialq"
	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

type Scene struct {
	Pipeline      spatialq.Config `yaml:"pipeline"`
	ScriptTimeout time.Duration   `yaml:"script_timeout"`
	Bodies        []BodySpec      `yaml:"bodies"`
	Colliders     []ColliderSpec  `yaml:"colliders"`
	Queries       []QuerySpec     `yaml:"queries"`

	// Script paths are relative to this directory.
	dir string
}

type BodySpec struct {
	Name            string `yaml:"name"`
	Type            string `yaml:"type"`
	Translation     Floats `yaml:"translation"`
	Rotation        Floats `yaml:"rotation"`
	NextTranslation Floats `yaml:"next_translation"`
	Linvel          Floats `yaml:"linvel"`
	Sleeping        bool   `yaml:"sleeping"`
}

type ShapeSpec struct {
	Type        string  `yaml:"type"`
	Radius      float64 `yaml:"radius"`
	HalfExtents Floats  `yaml:"half_extents"`
	A           Floats  `yaml:"a"`
	B           Floats  `yaml:"b"`
}

type GroupsSpec struct {
	Memberships uint32 `yaml:"memberships"`
	Filter      uint32 `yaml:"filter"`
}

type ColliderSpec struct {
	Name        string      `yaml:"name"`
	Body        string      `yaml:"body"`
	Shape       ShapeSpec   `yaml:"shape"`
	Translation Floats      `yaml:"translation"`
	Rotation    Floats      `yaml:"rotation"`
	Sensor      bool        `yaml:"sensor"`
	Groups      *GroupsSpec `yaml:"groups"`
	UserData    interface{} `yaml:"user_data"`
}

type FilterSpec struct {
	Flags           []string    `yaml:"flags"`
	RawFlags        uint32      `yaml:"raw_flags"`
	Groups          *GroupsSpec `yaml:"groups"`
	ExcludeCollider string      `yaml:"exclude_collider"`
	ExcludeBody     string      `yaml:"exclude_body"`
	Predicate       string      `yaml:"predicate"`
}

type QuerySpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// Rays.
	Origin Floats  `yaml:"origin"`
	Dir    Floats  `yaml:"dir"`
	MaxToi float64 `yaml:"max_toi"`
	Solid  bool    `yaml:"solid"`

	// Points.
	Point Floats `yaml:"point"`

	// Shapes.
	Shape       *ShapeSpec `yaml:"shape"`
	Translation Floats     `yaml:"translation"`
	Rotation    Floats     `yaml:"rotation"`
	Velocity    Floats     `yaml:"velocity"`

	// Boxes.
	Min Floats `yaml:"min"`
	Max Floats `yaml:"max"`

	Filter  FilterSpec `yaml:"filter"`
	Visitor string     `yaml:"visitor"`
}

// Floats is a YAML scalar or sequence of numbers. A scalar stands for a
// vector with every component equal to it.
type Floats []float64

func (f *Floats) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var x float64
		if err := value.Decode(&x); err != nil {
			return err
		}
		*f = Floats{x}
	case yaml.SequenceNode:
		var xs []float64
		if err := value.Decode(&xs); err != nil {
			return err
		}
		*f = xs
	default:
		return fmt.Errorf("scene: line %d: expected a number or a list of numbers", value.Line)
	}
	return nil
}

func (f Floats) Vector(def vect.Vector) (vect.Vector, error) {
	switch len(f) {
	case 0:
		return def, nil
	case 1:
		return vect.Splat(f[0]), nil
	}
	return vect.FromSlice(f)
}

func (f Floats) Rotation() (vect.Rotation, error) {
	return vect.RotationFromSlice(f)
}

func isometry(translation, rotation Floats) (vect.Isometry, error) {
	t, err := translation.Vector(vect.Zero())
	if err != nil {
		return vect.Isometry{}, err
	}
	r, err := rotation.Rotation()
	if err != nil {
		return vect.Isometry{}, err
	}
	return vect.NewIsometry(t, r), nil
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

func Parse(data []byte) (*Scene, error) {
	s := &Scene{
		Pipeline:      spatialq.DefaultConfig(),
		ScriptTimeout: 100 * time.Millisecond,
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("scene: unmarshal: %w", err)
	}
	if err := s.Pipeline.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) path(p string) string {
	if filepath.IsAbs(p) || s.dir == "" {
		return p
	}
	return filepath.Join(s.dir, p)
}

func parseBodyType(s string) (spatialq.BodyType, error) {
	switch s {
	case "", "dynamic":
		return spatialq.BodyDynamic, nil
	case "fixed":
		return spatialq.BodyFixed, nil
	case "kinematic_position_based", "kinematic_position":
		return spatialq.BodyKinematicPositionBased, nil
	case "kinematic_velocity_based", "kinematic_velocity":
		return spatialq.BodyKinematicVelocityBased, nil
	}
	return 0, fmt.Errorf("scene: unknown body type %q", s)
}

func (spec ShapeSpec) Build() (geom.Shape, error) {
	switch spec.Type {
	case "ball":
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("scene: ball radius must be positive, got %v", spec.Radius)
		}
		return geom.NewBall(spec.Radius), nil
	case "cuboid":
		he, err := spec.HalfExtents.Vector(vect.Zero())
		if err != nil {
			return nil, fmt.Errorf("scene: cuboid: %w", err)
		}
		return geom.NewCuboid(he), nil
	case "capsule":
		a, err := spec.A.Vector(vect.Zero())
		if err != nil {
			return nil, fmt.Errorf("scene: capsule a: %w", err)
		}
		b, err := spec.B.Vector(vect.Zero())
		if err != nil {
			return nil, fmt.Errorf("scene: capsule b: %w", err)
		}
		return geom.NewCapsule(a, b, spec.Radius), nil
	}
	return nil, fmt.Errorf("scene: unknown shape type %q", spec.Type)
}

func (g *GroupsSpec) groups() spatialq.InteractionGroups {
	return spatialq.NewInteractionGroups(spatialq.Group(g.Memberships), spatialq.Group(g.Filter))
}
