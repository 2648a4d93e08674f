package motionplan

import (
	"fmt"

	"go.viam.com/octnav/octree"
	"go.viam.com/octnav/utils"
)

// estimate is a heuristic or total cost. A degenerate estimate means the goal is judged unreachable
// from that direction; it has no numeric value and orders after every finite estimate.
type estimate struct {
	value      int
	degenerate bool
}

var degenerateEstimate = estimate{degenerate: true}

// plus adds a path cost to the estimate. Degenerate estimates stay degenerate.
func (e estimate) plus(g int) estimate {
	if e.degenerate {
		return e
	}
	return estimate{value: e.value + g}
}

// less orders finite estimates numerically and puts degenerate ones last.
func (e estimate) less(other estimate) bool {
	if e.degenerate != other.degenerate {
		return !e.degenerate
	}
	return e.value < other.value
}

func (e estimate) String() string {
	if e.degenerate {
		return "unreachable"
	}
	return fmt.Sprint(e.value)
}

// heuristic estimates how many moves separate a node from the goal using only depths, containment,
// and parents. It is not a lower bound on the true cost.
type heuristic struct {
	tree       *octree.Octree
	goal       *octree.Node
	goalParent *octree.Node
}

func newHeuristic(tree *octree.Octree, goal *octree.Node) *heuristic {
	parent, _ := tree.FindParent(goal)
	return &heuristic{tree: tree, goal: goal, goalParent: parent}
}

func (h *heuristic) estimate(n *octree.Node) estimate {
	if n.Equal(h.goal) {
		return estimate{}
	}
	diff := utils.AbsInt(n.Depth() - h.goal.Depth())
	switch {
	case n.Depth() > h.goal.Depth():
		if h.goal.Bounds().ContainsBox(n.Bounds()) {
			return estimate{value: diff}
		}
		return estimate{value: diff + 1}
	case n.Depth() < h.goal.Depth():
		if n.Bounds().ContainsBox(h.goal.Bounds()) {
			return estimate{value: diff}
		}
		return estimate{value: diff + 1}
	}
	parent, ok := h.tree.FindParent(n)
	if !ok || h.goalParent == nil {
		return degenerateEstimate
	}
	if parent.Bounds() == h.goalParent.Bounds() {
		return estimate{value: 1}
	}
	return estimate{value: 2}
}
