package octree

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/octnav/spatialmath"
)

// NodeKey identifies a node by its depth and bounding box. Two nodes with the same key are the same
// region of space.
type NodeKey struct {
	Depth  int
	Bounds spatialmath.BoundingBox
}

func (k NodeKey) String() string {
	return fmt.Sprintf("depth %d %v", k.Depth, k.Bounds)
}

// Node is a single region of the octree. Children are created lazily when a point is routed into
// them, so unpopulated octants stay nil.
type Node struct {
	depth    int
	bounds   spatialmath.BoundingBox
	octants  [spatialmath.OctantCount]spatialmath.BoundingBox
	children [spatialmath.OctantCount]*Node
	points   []r3.Vector
}

func newNode(depth int, bounds spatialmath.BoundingBox) *Node {
	return &Node{
		depth:   depth,
		bounds:  bounds,
		octants: bounds.Octants(),
	}
}

// Depth returns the node's distance from the root.
func (n *Node) Depth() int {
	return n.depth
}

// Bounds returns the region the node covers.
func (n *Node) Bounds() spatialmath.BoundingBox {
	return n.bounds
}

// Octant returns the precomputed sub-box at index i.
func (n *Node) Octant(i int) spatialmath.BoundingBox {
	return n.octants[i]
}

// Points returns the points stored directly on this node, not including descendants.
func (n *Node) Points() []r3.Vector {
	return n.points
}

// Child returns the child at octant index i, or nil if it has not been created.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the populated children in octant index order.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// IsLeaf reports whether the node has no populated children.
func (n *Node) IsLeaf() bool {
	for _, c := range n.children {
		if c != nil {
			return false
		}
	}
	return true
}

// Key returns the node's identity.
func (n *Node) Key() NodeKey {
	return NodeKey{Depth: n.depth, Bounds: n.bounds}
}

// Equal compares nodes by identity rather than by pointer.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.Key() == other.Key()
}

// PointCount returns the number of points stored in this node and all of its descendants.
func (n *Node) PointCount() int {
	count := len(n.points)
	for _, c := range n.children {
		if c != nil {
			count += c.PointCount()
		}
	}
	return count
}

// AllPoints returns this node's points followed by every descendant's, children in index order.
func (n *Node) AllPoints() []r3.Vector {
	return n.appendPoints(make([]r3.Vector, 0, n.PointCount()))
}

func (n *Node) appendPoints(out []r3.Vector) []r3.Vector {
	out = append(out, n.points...)
	for _, c := range n.children {
		if c != nil {
			out = c.appendPoints(out)
		}
	}
	return out
}

// octantFor returns the first octant index whose box contains p, or -1.
func (n *Node) octantFor(p r3.Vector) int {
	for i, o := range n.octants {
		if o.ContainsPoint(p) {
			return i
		}
	}
	return -1
}

func (n *Node) String() string {
	return fmt.Sprintf("node(%v, %d points)", n.Key(), len(n.points))
}
