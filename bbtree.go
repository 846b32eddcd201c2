package spatialq

import (
	"math"

	"github.com/spatialq/spatialq/vect"
)

// DefaultFattening is the fraction of a leaf's extents added around it so
// small motions refit without touching the tree.
const DefaultFattening = 0.1

const pooledBufferSize = 32

type Node struct {
	obj    *ColliderProxy
	bb     vect.AABB
	parent *Node

	a, b *Node
}

func (node *Node) IsLeaf() bool {
	return node.obj != nil
}

func (node *Node) Other(child *Node) *Node {
	if node.a == child {
		return node.b
	}
	return node.a
}

func NodeSetA(node, value *Node) {
	node.a = value
	value.parent = node
}

func NodeSetB(node, value *Node) {
	node.b = value
	value.parent = node
}

// BBTree is a bounding volume hierarchy over collider proxies. Leaves hold
// a fattened copy of the proxy's swept box.
type BBTree struct {
	fattening float64

	leaves map[ColliderHandle]*Node
	root   *Node

	pooledNodes *Node
}

func NewBBTree(fattening float64) *BBTree {
	if fattening < 0 {
		fattening = 0
	}
	return &BBTree{
		fattening: fattening,
		leaves:    map[ColliderHandle]*Node{},
	}
}

func (tree *BBTree) Count() int {
	return len(tree.leaves)
}

func (tree *BBTree) Each(f SpatialIndexIterator) {
	for _, leaf := range tree.leaves {
		f(leaf.obj)
	}
}

func (tree *BBTree) Contains(handle ColliderHandle) bool {
	_, ok := tree.leaves[handle]
	return ok
}

func (tree *BBTree) Insert(obj *ColliderProxy) {
	if old, ok := tree.leaves[obj.Handle]; ok {
		tree.removeLeaf(old)
	}
	leaf := tree.NewLeaf(obj)
	tree.leaves[obj.Handle] = leaf
	tree.root = tree.SubtreeInsert(tree.root, leaf)
}

func (tree *BBTree) Remove(handle ColliderHandle) *ColliderProxy {
	leaf, ok := tree.leaves[handle]
	if !ok {
		return nil
	}
	obj := leaf.obj
	tree.removeLeaf(leaf)
	return obj
}

func (tree *BBTree) removeLeaf(leaf *Node) {
	delete(tree.leaves, leaf.obj.Handle)
	tree.root = tree.SubtreeRemove(tree.root, leaf)
	tree.RecycleNode(leaf)
}

func (tree *BBTree) ReindexObject(obj *ColliderProxy) bool {
	leaf, ok := tree.leaves[obj.Handle]
	if !ok {
		return false
	}
	leaf.obj = obj
	return tree.LeafUpdate(leaf)
}

// LeafUpdate reinserts the leaf when its box no longer covers the proxy.
func (tree *BBTree) LeafUpdate(leaf *Node) bool {
	if leaf.bb.Contains(leaf.obj.SweptBB) {
		return false
	}

	root := tree.SubtreeRemove(tree.root, leaf)
	leaf.bb = tree.GetBB(leaf.obj)
	tree.root = tree.SubtreeInsert(root, leaf)
	return true
}

func (tree *BBTree) GetBB(obj *ColliderProxy) vect.AABB {
	bb := obj.SweptBB
	if tree.fattening == 0 {
		return bb
	}
	return bb.Grown(bb.HalfExtents().Mult(2 * tree.fattening))
}

func (tree *BBTree) SubtreeInsert(subtree *Node, leaf *Node) *Node {
	if subtree == nil {
		return leaf
	}
	if subtree.IsLeaf() {
		return tree.NewNode(leaf, subtree)
	}

	costA := subtree.b.bb.Area() + subtree.a.bb.MergedArea(leaf.bb)
	costB := subtree.a.bb.Area() + subtree.b.bb.MergedArea(leaf.bb)

	if costA == costB {
		costA = subtree.a.bb.Proximity(leaf.bb)
		costB = subtree.b.bb.Proximity(leaf.bb)
	}

	if costB < costA {
		NodeSetB(subtree, tree.SubtreeInsert(subtree.b, leaf))
	} else {
		NodeSetA(subtree, tree.SubtreeInsert(subtree.a, leaf))
	}

	subtree.bb = subtree.bb.Merge(leaf.bb)
	return subtree
}

func (tree *BBTree) SubtreeRemove(subtree *Node, leaf *Node) *Node {
	if leaf == subtree {
		leaf.parent = nil
		return nil
	}

	parent := leaf.parent
	if parent == subtree {
		other := subtree.Other(leaf)
		other.parent = subtree.parent
		leaf.parent = nil
		tree.RecycleNode(subtree)
		return other
	}

	tree.ReplaceChild(parent.parent, parent, parent.Other(leaf))
	leaf.parent = nil
	return subtree
}

func (tree *BBTree) ReplaceChild(parent, child, value *Node) {
	if parent.a == child {
		tree.RecycleNode(parent.a)
		NodeSetA(parent, value)
	} else {
		tree.RecycleNode(parent.b)
		NodeSetB(parent, value)
	}

	for node := parent; node != nil; node = node.parent {
		node.bb = node.a.bb.Merge(node.b.bb)
	}
}

func (tree *BBTree) NewNode(a, b *Node) *Node {
	node := tree.NodeFromPool()
	node.obj = nil
	node.bb = a.bb.Merge(b.bb)
	node.parent = nil

	NodeSetA(node, a)
	NodeSetB(node, b)
	return node
}

func (tree *BBTree) NewLeaf(obj *ColliderProxy) *Node {
	node := tree.NodeFromPool()
	node.obj = obj
	node.bb = tree.GetBB(obj)
	node.parent = nil
	node.a, node.b = nil, nil
	return node
}

func (tree *BBTree) NodeFromPool() *Node {
	node := tree.pooledNodes

	if node != nil {
		tree.pooledNodes = node.parent
		node.parent = nil
		return node
	}

	// Pool is exhausted make more
	for i := 0; i < pooledBufferSize; i++ {
		tree.RecycleNode(&Node{})
	}
	return &Node{}
}

func (tree *BBTree) RecycleNode(node *Node) {
	node.obj = nil
	node.a, node.b = nil, nil
	node.parent = tree.pooledNodes
	tree.pooledNodes = node
}

// Query visits every leaf whose box intersects bb. It returns false if f
// stopped the traversal.
func (tree *BBTree) Query(bb vect.AABB, f SpatialIndexQuery) bool {
	if tree.root == nil {
		return true
	}
	return tree.root.SubtreeQuery(bb, f)
}

func (subtree *Node) SubtreeQuery(bb vect.AABB, f SpatialIndexQuery) bool {
	if !subtree.bb.Intersects(bb) {
		return true
	}
	if subtree.IsLeaf() {
		return f(subtree.obj)
	}
	return subtree.a.SubtreeQuery(bb, f) && subtree.b.SubtreeQuery(bb, f)
}

// SegmentQuery visits the leaves hit by the ray before tExit, nearest
// subtree first. f shrinks tExit as closer hits are found.
func (tree *BBTree) SegmentQuery(ray vect.Ray, tExit float64, f SpatialIndexSegmentQuery) float64 {
	if tree.root == nil || tree.root.bb.SegmentQuery(ray, tExit) == vect.Infinity {
		return tExit
	}
	return tree.root.SubtreeSegmentQuery(ray, vect.Zero(), tExit, f)
}

// SweepQuery is SegmentQuery for a box moving along vel: every node box is
// grown by the half extents of bb and hit by a ray from its center.
func (tree *BBTree) SweepQuery(bb vect.AABB, vel vect.Vector, tExit float64, f SpatialIndexSegmentQuery) float64 {
	if tree.root == nil {
		return tExit
	}
	ray := vect.NewRay(bb.Center(), vel)
	grow := bb.HalfExtents()
	if tree.root.bb.Grown(grow).SegmentQuery(ray, tExit) == vect.Infinity {
		return tExit
	}
	return tree.root.SubtreeSegmentQuery(ray, grow, tExit, f)
}

func (subtree *Node) SubtreeSegmentQuery(ray vect.Ray, grow vect.Vector, tExit float64, f SpatialIndexSegmentQuery) float64 {
	if subtree.IsLeaf() {
		return f(subtree.obj, tExit)
	}

	tA := subtree.a.bb.Grown(grow).SegmentQuery(ray, tExit)
	tB := subtree.b.bb.Grown(grow).SegmentQuery(ray, tExit)

	first, second := subtree.a, subtree.b
	if tB < tA {
		first, second = second, first
		tA, tB = tB, tA
	}
	if tA <= tExit {
		tExit = math.Min(tExit, first.SubtreeSegmentQuery(ray, grow, tExit, f))
	}
	if tB <= tExit {
		tExit = math.Min(tExit, second.SubtreeSegmentQuery(ray, grow, tExit, f))
	}
	return tExit
}

// PointQuery visits the leaves whose box lies within maxDist of p, nearest
// box first. f shrinks maxDist as closer projections are found.
func (tree *BBTree) PointQuery(p vect.Vector, maxDist float64, f SpatialIndexPointQuery) float64 {
	if tree.root == nil {
		return maxDist
	}
	return tree.root.SubtreePointQuery(p, maxDist, f)
}

func (subtree *Node) SubtreePointQuery(p vect.Vector, maxDist float64, f SpatialIndexPointQuery) float64 {
	if subtree.bb.DistanceToPoint(p) > maxDist {
		return maxDist
	}
	if subtree.IsLeaf() {
		return f(subtree.obj, maxDist)
	}

	dA := subtree.a.bb.DistanceToPoint(p)
	dB := subtree.b.bb.DistanceToPoint(p)

	first, second := subtree.a, subtree.b
	if dB < dA {
		first, second = second, first
		dA, dB = dB, dA
	}
	if dA <= maxDist {
		maxDist = math.Min(maxDist, first.SubtreePointQuery(p, maxDist, f))
	}
	if dB <= maxDist {
		maxDist = math.Min(maxDist, second.SubtreePointQuery(p, maxDist, f))
	}
	return maxDist
}
