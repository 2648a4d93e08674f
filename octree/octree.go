// Package octree implements a recursive 8-way spatial index over a set of points. Each node covers an
// axis-aligned box split into eight octants at its midpoint; points are routed downward until the
// configured maximum depth is reached and are then stored on the node they stop at.
package octree

import (
	"context"

	"github.com/golang/geo/r3"
	"go.opencensus.io/trace"

	"go.viam.com/octnav/logging"
	pc "go.viam.com/octnav/pointcloud"
	"go.viam.com/octnav/spatialmath"
)

// ctxCheckInterval is how many insertions happen between context checks while building from a cloud.
const ctxCheckInterval = 1024

// Octree is a spatial index whose root covers a fixed bounding volume. The tree is built once and then
// only read; it is not safe for concurrent mutation.
type Octree struct {
	logger   logging.Logger
	root     *Node
	maxDepth int
	size     int
}

// New creates an empty octree covering bounds. Points routed into the tree stop descending at depth
// maxDepth-1, so a maxDepth of 1 stores every point on the root.
func New(bounds spatialmath.BoundingBox, maxDepth int, logger logging.Logger) (*Octree, error) {
	if err := bounds.Validate(); err != nil {
		return nil, wrapConstructionError(err, "invalid root bounds")
	}
	if bounds.Volume() <= 0 {
		return nil, newConstructionError("root bounds %v have zero volume", bounds)
	}
	if maxDepth < 1 {
		return nil, newConstructionError("max depth must be at least 1, got %d", maxDepth)
	}
	return &Octree{
		logger:   logger,
		root:     newNode(0, bounds),
		maxDepth: maxDepth,
	}, nil
}

// FromPointCloud builds an octree over the bounding volume of cloud and inserts every point in the
// order the cloud iterates them.
func FromPointCloud(ctx context.Context, cloud pc.PointCloud, maxDepth int, logger logging.Logger) (*Octree, error) {
	ctx, span := trace.StartSpan(ctx, "octree::FromPointCloud")
	defer span.End()

	bounds, err := cloud.MetaData().BoundingBox()
	if err != nil {
		return nil, wrapConstructionError(err, "cannot derive root bounds")
	}
	tree, err := New(bounds, maxDepth, logger)
	if err != nil {
		return nil, err
	}

	var insertErr error
	count := 0
	cloud.Iterate(0, 0, func(p r3.Vector, _ pc.Data) bool {
		if count%ctxCheckInterval == 0 {
			if insertErr = ctx.Err(); insertErr != nil {
				return false
			}
		}
		count++
		insertErr = tree.Insert(p)
		return insertErr == nil
	})
	if insertErr != nil {
		return nil, insertErr
	}

	logger.Debugw("built octree", "points", tree.Size(), "nodes", tree.NodeCount(), "max_depth", maxDepth, "bounds", bounds.String())
	return tree, nil
}

// Root returns the root node.
func (tree *Octree) Root() *Node {
	return tree.root
}

// MaxDepth returns the depth limit the tree was built with.
func (tree *Octree) MaxDepth() int {
	return tree.maxDepth
}

// Bounds returns the root's bounding box.
func (tree *Octree) Bounds() spatialmath.BoundingBox {
	return tree.root.bounds
}

// Size returns how many points have been inserted.
func (tree *Octree) Size() int {
	return tree.size
}

// Insert routes p from the root, taking the first octant that contains it at every level. Once the
// next level would reach the depth limit the point is appended to the current node's own list.
// Duplicate points are stored again.
func (tree *Octree) Insert(p r3.Vector) error {
	if !tree.root.bounds.ContainsPoint(p) {
		return newConstructionError("point %v lies outside the root bounds %v", p, tree.root.bounds)
	}
	node := tree.root
	for {
		idx := node.octantFor(p)
		if idx < 0 {
			return newConstructionError("point %v matches no octant of node %v", p, node.Key())
		}
		if node.depth+1 >= tree.maxDepth {
			node.points = append(node.points, p)
			tree.size++
			return nil
		}
		child := node.children[idx]
		if child == nil {
			child = newNode(node.depth+1, node.octants[idx])
			node.children[idx] = child
		}
		node = child
	}
}

// FindLeafContaining returns the first node, in depth-first index order, whose own point list holds
// a point exactly equal to p.
func (tree *Octree) FindLeafContaining(p r3.Vector) (*Node, bool) {
	n := findContaining(tree.root, p)
	return n, n != nil
}

func findContaining(node *Node, p r3.Vector) *Node {
	if !node.bounds.ContainsPoint(p) {
		return nil
	}
	for _, q := range node.points {
		if q == p {
			return node
		}
	}
	for _, child := range node.children {
		if child == nil {
			continue
		}
		if found := findContaining(child, p); found != nil {
			return found
		}
	}
	return nil
}

// FindParent returns the node one level shallower than n whose box contains n's box. The root and
// nodes that cannot be reached from this tree's root have no parent.
func (tree *Octree) FindParent(n *Node) (*Node, bool) {
	if n == nil || n.depth == 0 || !tree.root.bounds.ContainsBox(n.bounds) {
		return nil, false
	}
	parent := findParent(tree.root, n.depth-1, n.bounds)
	return parent, parent != nil
}

func findParent(node *Node, depth int, bounds spatialmath.BoundingBox) *Node {
	if node.depth == depth {
		return node
	}
	for _, child := range node.children {
		if child == nil || !child.bounds.ContainsBox(bounds) {
			continue
		}
		if found := findParent(child, depth, bounds); found != nil {
			return found
		}
	}
	return nil
}

// RangeSearch returns every stored point that lies inside query. Subtrees whose box is entirely
// inside the query are collected without testing their points individually.
func (tree *Octree) RangeSearch(query spatialmath.BoundingBox) []r3.Vector {
	var out []r3.Vector
	rangeSearch(tree.root, query, &out)
	return out
}

func rangeSearch(node *Node, query spatialmath.BoundingBox, out *[]r3.Vector) {
	for _, p := range node.points {
		if query.ContainsPoint(p) {
			*out = append(*out, p)
		}
	}
	for _, child := range node.children {
		switch {
		case child == nil:
		case query.ContainsBox(child.bounds):
			*out = child.appendPoints(*out)
		case query.Overlaps(child.bounds):
			rangeSearch(child, query, out)
		}
	}
}

// AllPoints returns every stored point in depth-first index order.
func (tree *Octree) AllPoints() []r3.Vector {
	return tree.root.AllPoints()
}

// NodeCount returns the number of nodes that exist in the tree, including the root.
func (tree *Octree) NodeCount() int {
	count := 0
	tree.Iterate(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Iterate walks the tree in pre-order, visiting children in octant index order. Returning false from
// fn stops the walk.
func (tree *Octree) Iterate(fn func(n *Node) bool) {
	iterate(tree.root, fn)
}

func iterate(node *Node, fn func(n *Node) bool) bool {
	if !fn(node) {
		return false
	}
	for _, child := range node.children {
		if child != nil && !iterate(child, fn) {
			return false
		}
	}
	return true
}
