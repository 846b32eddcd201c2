package spatialq

import (
	"io"
	"log"

	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

// QueryPipeline answers geometric queries against the colliders it was
// last updated with. Colliders attached to nothing or to fixed bodies live
// in a static tree, the others in a dynamic tree.
//
// A pipeline has a single owner: Update must not run concurrently with
// queries, and visitors must not mutate the pipeline or the sets they
// were given.
type QueryPipeline struct {
	config Config

	staticIndex  SpatialIndexer
	dynamicIndex SpatialIndexer
	proxies      map[ColliderHandle]*ColliderProxy

	built bool
	mode  UpdateMode

	logger *log.Logger
}

func NewQueryPipeline() *QueryPipeline {
	return NewQueryPipelineWithConfig(DefaultConfig())
}

func NewQueryPipelineWithConfig(config Config) *QueryPipeline {
	p := &QueryPipeline{config: config}
	p.reset()
	p.SetLogger(nil)
	return p
}

func (p *QueryPipeline) Config() Config {
	return p.config
}

// SetLogger sets where predicate and visitor faults are reported. A nil
// logger discards them.
func (p *QueryPipeline) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	p.logger = logger
}

// Len is the number of indexed colliders.
func (p *QueryPipeline) Len() int {
	return len(p.proxies)
}

func (p *QueryPipeline) reset() {
	p.staticIndex = NewBBTree(p.config.Fattening)
	p.dynamicIndex = NewBBTree(p.config.Fattening)
	p.proxies = map[ColliderHandle]*ColliderProxy{}
	p.built = false
}

func (p *QueryPipeline) index(static bool) SpatialIndexer {
	if static {
		return p.staticIndex
	}
	return p.dynamicIndex
}

// Update refreshes the index using the configured update mode.
func (p *QueryPipeline) Update(islands *IslandManager, bodies *BodySet, colliders *ColliderSet) {
	p.UpdateWithMode(islands, bodies, colliders, p.config.UpdateMode())
}

// UpdateWithMode refreshes the index. The first call, and any call with a
// different mode than the previous one, builds it from scratch. Later
// calls drop removed colliders, add new ones, and refit the colliders of
// active bodies and of anything that changed since the last refresh.
func (p *QueryPipeline) UpdateWithMode(islands *IslandManager, bodies *BodySet, colliders *ColliderSet, mode UpdateMode) {
	if !p.built || mode != p.mode {
		p.rebuild(bodies, colliders, mode)
		return
	}

	for h, px := range p.proxies {
		if !colliders.Contains(h) {
			p.index(px.static).Remove(h)
			delete(p.proxies, h)
		}
	}

	colliders.Each(func(h ColliderHandle, c *Collider) bool {
		px, ok := p.proxies[h]
		if !ok {
			p.insert(h, c, bodies, mode)
			return true
		}

		body := c.parentBody(bodies)
		var bodyChanges uint64
		active := false
		if body != nil {
			bodyChanges = body.changes
			active = islands.IsActive(c.parent)
		}
		if !active && px.colliderChanges == c.changes && px.bodyChanges == bodyChanges {
			return true
		}

		next := p.makeProxy(h, c, bodies, mode)
		if next.static != px.static {
			p.index(px.static).Remove(h)
			p.index(next.static).Insert(next)
		} else {
			p.index(next.static).ReindexObject(next)
		}
		p.proxies[h] = next
		return true
	})

	assert(p.staticIndex.Count()+p.dynamicIndex.Count() == len(p.proxies), "index and proxy counts diverged")
}

// Rebuild discards both trees and indexes every collider again.
func (p *QueryPipeline) Rebuild(bodies *BodySet, colliders *ColliderSet) {
	p.rebuild(bodies, colliders, p.config.UpdateMode())
}

func (p *QueryPipeline) rebuild(bodies *BodySet, colliders *ColliderSet, mode UpdateMode) {
	p.reset()
	p.mode = mode
	colliders.Each(func(h ColliderHandle, c *Collider) bool {
		p.insert(h, c, bodies, mode)
		return true
	})
	p.built = true
}

func (p *QueryPipeline) insert(h ColliderHandle, c *Collider, bodies *BodySet, mode UpdateMode) {
	px := p.makeProxy(h, c, bodies, mode)
	p.index(px.static).Insert(px)
	p.proxies[h] = px
}

func (p *QueryPipeline) makeProxy(h ColliderHandle, c *Collider, bodies *BodySet, mode UpdateMode) *ColliderProxy {
	body := c.parentBody(bodies)
	pos := c.Position(bodies)
	bb := geom.ComputeAABB(c.shape, pos)

	px := &ColliderProxy{
		Handle:          h,
		Position:        pos,
		BB:              bb,
		SweptBB:         bb,
		static:          body == nil || body.bodyType.IsFixed(),
		colliderChanges: c.changes,
	}
	if body == nil {
		return px
	}
	px.bodyChanges = body.changes
	if px.static {
		return px
	}

	var next vect.Isometry
	switch mode.Kind {
	case ModeSweepPredictedPosition:
		next = body.PredictPosition(mode.DT).Mult(c.position)
	case ModeSweepNextPosition:
		next = c.NextPosition(bodies)
	default:
		return px
	}
	px.SweptBB = bb.Merge(geom.ComputeAABB(c.shape, next))
	return px
}

// candidate resolves a proxy to its live collider and runs the filter on
// it.
func (p *QueryPipeline) candidate(bodies *BodySet, colliders *ColliderSet, px *ColliderProxy, filter QueryFilter) (*Collider, bool) {
	c, ok := colliders.Get(px.Handle)
	if !ok {
		return nil, false
	}
	if !filter.test(bodies, px.Handle, c, p.logger) {
		return nil, false
	}
	return c, true
}

func (p *QueryPipeline) visitCollider(visitor ColliderVisitor, h ColliderHandle) bool {
	cont, err := visitor.VisitCollider(h)
	if err != nil {
		p.logger.Printf("visitor failed on %v, continuing: %v", h, err)
		return true
	}
	return cont
}
