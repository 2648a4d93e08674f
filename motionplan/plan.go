package motionplan

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
)

// Outcome describes how a search ended.
type Outcome int

// The ways a search can end. Only OutcomeFound carries a path.
const (
	OutcomeFound Outcome = iota
	OutcomeExhausted
	OutcomeBudgetExceeded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeExhausted:
		return "no path"
	case OutcomeBudgetExceeded:
		return "budget exceeded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is what a search returns. Path is nil unless Outcome is OutcomeFound.
type Result struct {
	Outcome Outcome
	Path    *Path
}

// SearchNode is one step of a path: the state reached, the action that reached it (nil for the
// search root), and the cost of the path up to and including it.
type SearchNode struct {
	State  *State
	Action *Action
	Cost   int
}

// Path is a found route through the octree. Nodes run from the goal back to the search root.
type Path struct {
	TotalCost int
	Nodes     []SearchNode
}

// Actions returns the moves of the path in the order they are taken, from start to goal.
func (p *Path) Actions() []Action {
	actions := lo.FilterMap(p.Nodes, func(n SearchNode, _ int) (Action, bool) {
		if n.Action == nil {
			return Action{}, false
		}
		return *n.Action, true
	})
	return lo.Reverse(actions)
}

// States returns the states of the path from start to goal.
func (p *Path) States() []*State {
	states := lo.Map(p.Nodes, func(n SearchNode, _ int) *State {
		return n.State
	})
	return lo.Reverse(states)
}

// String renders the path from start to goal as a table.
func (p *Path) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Action", "Depth", "Bounds", "Cost"})
	for i := len(p.Nodes) - 1; i >= 0; i-- {
		n := p.Nodes[i]
		action := "start"
		if n.Action != nil {
			action = n.Action.Kind.String()
		}
		t.AppendRow(table.Row{len(p.Nodes) - 1 - i, action, n.State.Node().Depth(), n.State.Node().Bounds().String(), n.Cost})
	}
	t.AppendFooter(table.Row{"", "", "", "total", p.TotalCost})
	return t.Render()
}
