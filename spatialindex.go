package spatialq

import "github.com/spatialq/spatialq/vect"

// ColliderProxy is what a spatial index stores for one collider: a
// snapshot of its pose and boxes taken by the last pipeline update.
type ColliderProxy struct {
	Handle ColliderHandle
	// World pose used by the exact tests.
	Position vect.Isometry
	// Tight box at Position.
	BB vect.AABB
	// Tight box enlarged to cover the predicted motion. Equal to BB when
	// the pipeline runs without sweep prediction.
	SweptBB vect.AABB

	static          bool
	colliderChanges uint64
	bodyChanges     uint64
}

type SpatialIndexIterator func(obj *ColliderProxy)

// SpatialIndexQuery visits a leaf overlapping the query. Returning false
// stops the traversal.
type SpatialIndexQuery func(obj *ColliderProxy) bool

// SpatialIndexSegmentQuery visits a leaf along a ray and returns the new
// upper bound for the ray parameter. A negative bound stops the traversal.
type SpatialIndexSegmentQuery func(obj *ColliderProxy, tExit float64) float64

// SpatialIndexPointQuery visits a leaf near a point and returns the new
// upper bound for the distance.
type SpatialIndexPointQuery func(obj *ColliderProxy, maxDist float64) float64

// implemented by BBTree
type SpatialIndexer interface {
	Count() int
	Each(f SpatialIndexIterator)
	Contains(handle ColliderHandle) bool
	Insert(obj *ColliderProxy)
	Remove(handle ColliderHandle) *ColliderProxy
	// ReindexObject refits the leaf of obj, reporting whether it moved in
	// the tree.
	ReindexObject(obj *ColliderProxy) bool
	Query(bb vect.AABB, f SpatialIndexQuery) bool
	SegmentQuery(ray vect.Ray, tExit float64, f SpatialIndexSegmentQuery) float64
	PointQuery(p vect.Vector, maxDist float64, f SpatialIndexPointQuery) float64
	SweepQuery(bb vect.AABB, vel vect.Vector, tExit float64, f SpatialIndexSegmentQuery) float64
}
