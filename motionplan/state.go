// Package motionplan navigates an octree with A* search. States are octree nodes and the only moves
// are ascending to a node's parent or descending into one of its populated children.
package motionplan

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/octnav/octree"
)

// moveCost is the cost of every ascend or descend move.
const moveCost = 1

// State is a position in the search: a node of the octree being navigated.
type State struct {
	node *octree.Node
	tree *octree.Octree
}

// NewState resolves p to the node that stores it. It fails with a *LookupError when no node in tree
// holds exactly p.
func NewState(tree *octree.Octree, p r3.Vector) (*State, error) {
	node, ok := tree.FindLeafContaining(p)
	if !ok {
		return nil, &LookupError{Point: p}
	}
	return &State{node: node, tree: tree}, nil
}

// Node returns the octree node this state sits on.
func (s *State) Node() *octree.Node {
	return s.node
}

// Key returns the identity of the state, which is the identity of its node.
func (s *State) Key() octree.NodeKey {
	return s.node.Key()
}

// Equal reports whether both states sit on the same node.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.node.Equal(other.node)
}

func (s *State) String() string {
	return s.node.Key().String()
}

// ActionKind distinguishes the two moves available from a state.
type ActionKind int

// The moves a search may take.
const (
	Ascend ActionKind = iota
	Descend
)

func (k ActionKind) String() string {
	switch k {
	case Ascend:
		return "ascend"
	case Descend:
		return "descend"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is a single move between two nodes.
type Action struct {
	From *octree.Node
	To   *octree.Node
	Cost int
	Kind ActionKind
}

func (a Action) String() string {
	return fmt.Sprintf("%s depth %d -> %d", a.Kind, a.From.Depth(), a.To.Depth())
}

// ActionStatePair is a move together with the state it leads to.
type ActionStatePair struct {
	Action Action
	State  *State
}

// Successors returns the moves available from s: first an ascend if s has a parent, then a descend
// into each populated child in octant index order.
func (s *State) Successors() []ActionStatePair {
	pairs := make([]ActionStatePair, 0, 1+len(s.node.Children()))
	if parent, ok := s.tree.FindParent(s.node); ok {
		pairs = append(pairs, s.moveTo(parent, Ascend))
	}
	for _, child := range s.node.Children() {
		pairs = append(pairs, s.moveTo(child, Descend))
	}
	return pairs
}

func (s *State) moveTo(to *octree.Node, kind ActionKind) ActionStatePair {
	return ActionStatePair{
		Action: Action{From: s.node, To: to, Cost: moveCost, Kind: kind},
		State:  &State{node: to, tree: s.tree},
	}
}
