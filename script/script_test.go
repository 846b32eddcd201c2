package script

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/spatialq/spatialq"
	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

type world struct {
	islands   *spatialq.IslandManager
	bodies    *spatialq.BodySet
	colliders *spatialq.ColliderSet
	pipeline  *spatialq.QueryPipeline
}

// row of three balls along x at 0, 5 and 10, the middle one a sensor.
func newWorld(t *testing.T) (*world, []spatialq.ColliderHandle) {
	t.Helper()
	w := &world{
		islands:   spatialq.NewIslandManager(),
		bodies:    spatialq.NewBodySet(),
		colliders: spatialq.NewColliderSet(),
		pipeline:  spatialq.NewQueryPipeline(),
	}
	var handles []spatialq.ColliderHandle
	for i := 0; i < 3; i++ {
		c := spatialq.NewCollider(geom.NewBall(1))
		c.SetTranslation(vect.XY(float64(i)*5, 0))
		c.SetSensor(i == 1)
		handles = append(handles, w.colliders.Insert(c))
	}
	w.pipeline.Update(w.islands, w.bodies, w.colliders)
	return w, handles
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `test := func(h, c) { return`},
		{"missing entry", `other := func(h, c) { return true }`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewPredicate([]byte(test.src), DefaultOptions()); err == nil {
				t.Error("Expected compile error")
			}
		})
	}
}

func TestPredicate_Test(t *testing.T) {
	w, handles := newWorld(t)
	tests := []struct {
		name    string
		src     string
		want    []bool
		wantErr bool
	}{
		{"accept all", `test := func(h, c) { return true }`, []bool{true, true, true}, false},
		{"sensor", `test := func(h, c) { return c.sensor }`, []bool{false, true, false}, false},
		{"shape", `test := func(h, c) { return c.shape == "ball" && !c.has_parent }`, []bool{true, true, true}, false},
		{"translation", `test := func(h, c) { return c.translation[0] > 1 }`, []bool{false, true, true}, false},
		{"not bool", `test := func(h, c) { return 1 }`, nil, true},
		{"undefined result", `test := func(h, c) { return c.missing.field }`, nil, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, err := NewPredicate([]byte(test.src), DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			for i, h := range handles {
				c, _ := w.colliders.Get(h)
				got, err := p.Test(h, c)
				if test.wantErr {
					if err == nil {
						t.Errorf("Expected error for %v", h)
					}
					continue
				}
				if err != nil {
					t.Fatal(err)
				}
				if got != test.want[i] {
					t.Errorf("%v: expected %v, got %v", h, test.want[i], got)
				}
			}
		})
	}
}

func TestPredicate_HandleFields(t *testing.T) {
	w, handles := newWorld(t)
	p, err := NewPredicate([]byte(`test := func(h, c) { return h.index == 2 && h.generation == 1 }`), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	c, _ := w.colliders.Get(handles[2])
	if ok, err := p.Test(handles[2], c); err != nil || !ok {
		t.Errorf("Expected handle index 2 generation 1, got %v %v", ok, err)
	}
}

func TestPredicate_Timeout(t *testing.T) {
	w, handles := newWorld(t)
	p, err := NewPredicate([]byte(`test := func(h, c) { for { } }`), Options{Timeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	c, _ := w.colliders.Get(handles[0])
	if _, err := p.Test(handles[0], c); err == nil {
		t.Error("Expected timeout error")
	}
}

func TestPredicate_InPipeline(t *testing.T) {
	w, handles := newWorld(t)
	var buf bytes.Buffer
	w.pipeline.SetLogger(log.New(&buf, "", 0))

	p, err := NewPredicate([]byte(`test := func(h, c) { return !c.sensor }`), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	ray := vect.NewRay(vect.XY(-5, 0), vect.XY(1, 0))
	filter := spatialq.NewQueryFilter().WithPredicate(p).WithExcludeCollider(handles[0])
	hit, ok := w.pipeline.CastRay(w.bodies, w.colliders, ray, 100, true, filter)
	if !ok || hit.Collider != handles[2] {
		t.Fatalf("Expected %v past the sensor, got %v %v", handles[2], hit, ok)
	}

	faulty, err := NewPredicate([]byte(`test := func(h, c) { return "yes" }`), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if hit, ok := w.pipeline.CastRay(w.bodies, w.colliders, ray, 100, true, spatialq.NewQueryFilter().WithPredicate(faulty)); ok {
		t.Errorf("Expected every candidate rejected, got %v", hit)
	}
	if !strings.Contains(buf.String(), "predicate rejected") {
		t.Errorf("Expected predicate fault logged, got %q", buf.String())
	}
}

func TestRayVisitor_InPipeline(t *testing.T) {
	w, handles := newWorld(t)
	var buf bytes.Buffer
	w.pipeline.SetLogger(log.New(&buf, "", 0))

	ray := vect.NewRay(vect.XY(-5, 0), vect.XY(1, 0))
	tests := []struct {
		name    string
		src     string
		stopped bool
		logged  bool
	}{
		{"continue", `visit := func(hit) { return hit.feature != "" }`, false, false},
		{"stop near", `visit := func(hit) { return hit.toi > 5 }`, true, false},
		{"fault continues", `visit := func(hit) { return hit.nothing.here }`, false, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf.Reset()
			v, err := NewRayVisitor([]byte(test.src), DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			var seen []spatialq.ColliderHandle
			counter := spatialq.RayIntersectionFunc(func(hit spatialq.RayColliderIntersection) (bool, error) {
				seen = append(seen, hit.Collider)
				return v.VisitRayIntersection(hit)
			})
			w.pipeline.IntersectionsWithRay(w.bodies, w.colliders, ray, 100, true, spatialq.NewQueryFilter(), counter)
			if test.stopped && len(seen) != 1 {
				t.Errorf("Expected stop after the first hit, saw %v", seen)
			}
			if !test.stopped && len(seen) != len(handles) {
				t.Errorf("Expected %d hits, saw %v", len(handles), seen)
			}
			if got := buf.Len() > 0; got != test.logged {
				t.Errorf("Expected logged %v, got %q", test.logged, buf.String())
			}
		})
	}
}

func TestColliderVisitor_InPipeline(t *testing.T) {
	w, handles := newWorld(t)
	v, err := NewColliderVisitor([]byte(`visit := func(h) { return h.index != 1 }`), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var seen int
	counter := spatialq.ColliderFunc(func(h spatialq.ColliderHandle) (bool, error) {
		seen++
		return v.VisitCollider(h)
	})
	aabb := vect.NewAABB(vect.XY(-2, -2), vect.XY(12, 2))
	w.pipeline.CollidersWithAABBIntersectingAABB(aabb, counter)
	if seen == 0 || seen > len(handles) {
		t.Errorf("Expected between 1 and %d visits, got %d", len(handles), seen)
	}
}
