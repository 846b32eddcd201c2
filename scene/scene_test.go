package scene

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spatialq/spatialq"
	"github.com/spatialq/spatialq/vect"
)

// v renders a YAML vector for the current build's dimension.
func v(x, y float64) string {
	if vect.Dim == 2 {
		return fmt.Sprintf("[%g, %g]", x, y)
	}
	return fmt.Sprintf("[%g, %g, 0]", x, y)
}

func twoBallScene() string {
	return fmt.Sprintf(`
pipeline:
  mode: current_position
bodies:
  - name: mover
    type: dynamic
    translation: %s
colliders:
  - name: a
    shape: {type: ball, radius: 1}
    user_data: skip
  - name: b
    shape: {type: ball, radius: 1}
    translation: %s
  - name: c
    body: mover
    shape: {type: cuboid, half_extents: 0.5}
    sensor: true
`, v(0, 10), v(5, 0))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(twoBallScene()))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Bodies) != 1 || len(s.Colliders) != 3 {
		t.Fatalf("Expected 1 body and 3 colliders, got %d and %d", len(s.Bodies), len(s.Colliders))
	}
	if s.Pipeline.Fattening != spatialq.DefaultFattening {
		t.Errorf("Expected default fattening, got %v", s.Pipeline.Fattening)
	}
	if len(s.Colliders[2].Shape.HalfExtents) != 1 {
		t.Errorf("Expected scalar half extents, got %v", s.Colliders[2].Shape.HalfExtents)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "bodies: [\n"},
		{"bad mode", "pipeline: {mode: sideways}"},
		{"negative fattening", "pipeline: {fattening: -1}"},
		{"map vector", "bodies: [{name: x, translation: {x: 1}}]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Parse([]byte(test.yaml)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown body type", "bodies: [{name: x, type: floating}]"},
		{"duplicate body", "bodies: [{name: x}, {name: x}]"},
		{"unnamed collider", "colliders: [{shape: {type: ball, radius: 1}}]"},
		{"unknown shape", "colliders: [{name: x, shape: {type: torus}}]"},
		{"zero radius", "colliders: [{name: x, shape: {type: ball}}]"},
		{"unknown parent", "colliders: [{name: x, body: nobody, shape: {type: ball, radius: 1}}]"},
		{"unknown kind", "queries: [{name: q, kind: teleport}]"},
		{"unknown flag", "queries: [{name: q, kind: cast_ray, filter: {flags: [exclude_everything]}}]"},
		{"unknown exclusion", "queries: [{name: q, kind: cast_ray, filter: {exclude_collider: ghost}}]"},
		{"missing script", "queries: [{name: q, kind: cast_ray, filter: {predicate: missing.tengo}}]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, err := Parse([]byte(test.yaml))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := s.Build(); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestBuild(t *testing.T) {
	s, err := Parse([]byte(twoBallScene()))
	if err != nil {
		t.Fatal(err)
	}
	w, err := s.Build()
	if err != nil {
		t.Fatal(err)
	}
	if w.Bodies.Len() != 1 || w.Colliders.Len() != 3 {
		t.Fatalf("Expected 1 body and 3 colliders, got %d and %d", w.Bodies.Len(), w.Colliders.Len())
	}
	mover, ok := w.Body("mover")
	if !ok || !w.Islands.IsActive(mover) {
		t.Errorf("Expected mover active")
	}
	h, ok := w.Collider("c")
	if !ok {
		t.Fatal("Expected collider c")
	}
	c, _ := w.Colliders.Get(h)
	if parent, ok := c.Parent(); !ok || parent != mover {
		t.Errorf("Expected c attached to mover, got %v %v", parent, ok)
	}
	if !c.IsSensor() {
		t.Error("Expected c to be a sensor")
	}
}

func runScene(t *testing.T, dir, src string) []string {
	t.Helper()
	path := writeFile(t, dir, "scene.yaml", src)
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := s.Build()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := w.Run(w.NewPipeline(), &out); err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skip.tengo", `test := func(h, c) { return c.user_data != "skip" }`)
	writeFile(t, dir, "first.tengo", `visit := func(hit) { return false }`)

	src := twoBallScene() + fmt.Sprintf(`
queries:
  - name: ray
    kind: cast_ray
    origin: %[1]s
    dir: %[2]s
    solid: true
  - name: ray_excluded
    kind: cast_ray_and_get_normal
    origin: %[1]s
    dir: %[2]s
    solid: true
    filter: {exclude_collider: a}
  - name: ray_scripted
    kind: cast_ray
    origin: %[1]s
    dir: %[2]s
    solid: true
    filter: {predicate: skip.tengo}
  - name: ray_short
    kind: cast_ray
    origin: %[1]s
    dir: %[2]s
    max_toi: 2
  - name: ray_all
    kind: intersections_with_ray
    origin: %[1]s
    dir: %[2]s
    solid: true
  - name: ray_first
    kind: intersections_with_ray
    origin: %[1]s
    dir: %[2]s
    solid: true
    visitor: first.tengo
  - name: point
    kind: project_point
    point: %[3]s
    solid: true
  - name: no_sensors
    kind: intersections_with_point
    point: %[4]s
    filter: {flags: [exclude_sensors]}
  - name: sensors
    kind: intersections_with_point
    point: %[4]s
  - name: box
    kind: colliders_with_aabb
    min: %[5]s
    max: %[6]s
  - name: sweep
    kind: cast_shape
    shape: {type: ball, radius: 1}
    translation: %[1]s
    velocity: %[2]s
    filter: {flags: [only_fixed]}
`, v(-5, 0), v(1, 0), v(5, 3), v(0, 10), v(-2, -2), v(7, 2))

	lines := runScene(t, dir, src)
	count := func(prefix string) int {
		n := 0
		for _, line := range lines {
			if strings.HasPrefix(line, prefix) {
				n++
			}
		}
		return n
	}
	tests := []struct {
		prefix string
		want   int
	}{
		{"ray: a toi=", 1},
		{"ray_excluded: b toi=", 1},
		{"ray_scripted: b toi=", 1},
		{"ray_short: none", 1},
		{"ray_all: ", 2},
		{"ray_first: ", 1},
		{"point: b ", 1},
		{"no_sensors: ", 0},
		{"sensors: c", 1},
		{"box: ", 2},
		{"sweep: a toi=", 1},
	}
	for _, test := range tests {
		if got := count(test.prefix); got != test.want {
			t.Errorf("Expected %d lines starting with %q, got %d in\n%s", test.want, test.prefix, got, strings.Join(lines, "\n"))
		}
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeFile(t, dir, "ignored.txt", "x")
	path := writeFile(t, dir, "scene.yaml", "bodies: []")

	select {
	case got := <-w.Events:
		if got != path {
			t.Errorf("Expected %s, got %s", path, got)
		}
	case err := <-w.Errors:
		t.Fatal(err)
	case <-time.After(2 * time.Second):
		t.Fatal("Expected an event")
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	for range w.Events {
	}
}

func TestIsWatched(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a/scene.yaml", true},
		{"a/scene.YML", true},
		{"pred.tengo", true},
		{"notes.txt", false},
		{"scene.yaml~", false},
	}
	for _, test := range tests {
		if got := IsWatched(test.path); got != test.want {
			t.Errorf("IsWatched(%q) = %v, want %v", test.path, got, test.want)
		}
	}
}
