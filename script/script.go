// Package script runs query predicates and visitors written in Tengo.
//
// A predicate script defines
//
//	test := func(handle, collider) { return collider.sensor == false }
//
// and a visitor script defines
//
//	visit := func(hit) { return hit.toi < 10 }
//
// Both must return a bool. Any other result, a runtime error or a run
// that exceeds Options.Timeout is reported as an error, which the query
// pipeline treats as a rejection for predicates and as "continue" for
// visitors.
package script

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/spatialq/spatialq"
	"github.com/spatialq/spatialq/vect"
)

type Options struct {
	// Budget of a single call. Zero means no limit.
	Timeout time.Duration
	// Standard library modules the script may import. Nil allows all of
	// them.
	Modules []string
}

func DefaultOptions() Options {
	return Options{Timeout: 100 * time.Millisecond}
}

// LoadFile reads a script from disk.
func LoadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %q: %w", path, err)
	}
	return b, nil
}

const predicateDispatch = `
__result = test(__handle, __collider)
`

const visitorDispatch = `
__result = visit(__hit)
`

type runtime struct {
	compiled *tengo.Compiled
	timeout  time.Duration
	entry    string
}

func compile(src []byte, dispatch string, args []string, entry string, opts Options) (*runtime, error) {
	s := tengo.NewScript(append(append([]byte{}, src...), "\n"+dispatch...))
	if err := s.Add("__result", false); err != nil {
		return nil, fmt.Errorf("script: add __result: %w", err)
	}
	for _, name := range args {
		if err := s.Add(name, map[string]interface{}{}); err != nil {
			return nil, fmt.Errorf("script: add %s: %w", name, err)
		}
	}

	modules := opts.Modules
	if modules == nil {
		modules = stdlib.AllModuleNames()
	}
	s.SetImports(stdlib.GetModuleMap(modules...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", entry, err)
	}
	return &runtime{compiled: compiled, timeout: opts.Timeout, entry: entry}, nil
}

// call sets the arguments, runs the script and returns its bool result.
func (rt *runtime) call(args map[string]interface{}) (bool, error) {
	for name, v := range args {
		if err := rt.compiled.Set(name, v); err != nil {
			return false, fmt.Errorf("script: set %s: %w", name, err)
		}
	}
	if err := rt.compiled.Set("__result", tengo.UndefinedValue); err != nil {
		return false, fmt.Errorf("script: reset result: %w", err)
	}

	var err error
	if rt.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), rt.timeout)
		err = rt.compiled.RunContext(ctx)
		cancel()
	} else {
		err = rt.compiled.Run()
	}
	if err != nil {
		return false, fmt.Errorf("script: %s: %w", rt.entry, err)
	}

	result := rt.compiled.Get("__result")
	b, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("script: %s returned %s, want bool", rt.entry, result.ValueType())
	}
	return b, nil
}

// Predicate is a spatialq.Predicate backed by a script's test function.
type Predicate struct {
	rt *runtime
}

func NewPredicate(src []byte, opts Options) (*Predicate, error) {
	rt, err := compile(src, predicateDispatch, []string{"__handle", "__collider"}, "test", opts)
	if err != nil {
		return nil, err
	}
	return &Predicate{rt: rt}, nil
}

func LoadPredicate(path string, opts Options) (*Predicate, error) {
	src, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewPredicate(src, opts)
}

func (p *Predicate) Test(handle spatialq.ColliderHandle, c *spatialq.Collider) (bool, error) {
	return p.rt.call(map[string]interface{}{
		"__handle":   handleValue(handle),
		"__collider": colliderValue(c),
	})
}

// RayVisitor is a spatialq.RayIntersectionVisitor backed by a script's
// visit function.
type RayVisitor struct {
	rt *runtime
}

func NewRayVisitor(src []byte, opts Options) (*RayVisitor, error) {
	rt, err := compile(src, visitorDispatch, []string{"__hit"}, "visit", opts)
	if err != nil {
		return nil, err
	}
	return &RayVisitor{rt: rt}, nil
}

func (v *RayVisitor) VisitRayIntersection(hit spatialq.RayColliderIntersection) (bool, error) {
	return v.rt.call(map[string]interface{}{
		"__hit": map[string]interface{}{
			"collider": handleValue(hit.Collider),
			"toi":      hit.Toi,
			"normal":   vectorValue(hit.Normal),
			"point":    vectorValue(hit.Point),
			"feature":  hit.Feature.String(),
		},
	})
}

// ColliderVisitor is a spatialq.ColliderVisitor backed by a script's visit
// function. The hit is the collider handle.
type ColliderVisitor struct {
	rt *runtime
}

func NewColliderVisitor(src []byte, opts Options) (*ColliderVisitor, error) {
	rt, err := compile(src, visitorDispatch, []string{"__hit"}, "visit", opts)
	if err != nil {
		return nil, err
	}
	return &ColliderVisitor{rt: rt}, nil
}

func (v *ColliderVisitor) VisitCollider(handle spatialq.ColliderHandle) (bool, error) {
	return v.rt.call(map[string]interface{}{
		"__hit": handleValue(handle),
	})
}

func handleValue(h spatialq.ColliderHandle) map[string]interface{} {
	return map[string]interface{}{
		"index":      int64(h.Index),
		"generation": int64(h.Generation),
		"flat":       int64(h.Flat()),
	}
}

func vectorValue(v vect.Vector) []interface{} {
	out := make([]interface{}, vect.Dim)
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

func colliderValue(c *spatialq.Collider) map[string]interface{} {
	groups := c.CollisionGroups()
	m := map[string]interface{}{
		"shape":  c.Shape().Type().String(),
		"sensor": c.IsSensor(),
		"groups": map[string]interface{}{
			"memberships": int64(groups.Memberships),
			"filter":      int64(groups.Filter),
		},
		"translation": vectorValue(c.PositionWrtParent().Translation),
		"has_parent":  false,
	}
	if parent, ok := c.Parent(); ok {
		m["has_parent"] = true
		m["parent"] = int64(parent.Flat())
	}
	if c.UserData != nil {
		if _, err := tengo.FromInterface(c.UserData); err == nil {
			m["user_data"] = c.UserData
		}
	}
	return m
}
