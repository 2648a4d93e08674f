package motionplan

import (
	"context"
	"time"

	"go.opencensus.io/trace"

	"go.viam.com/octnav/logging"
	"go.viam.com/octnav/octree"
)

// Problem is a single start/goal query against an octree. Start and goal are fixed at creation.
type Problem struct {
	start  *State
	goal   *State
	opts   *PlannerOptions
	logger logging.Logger

	nodesVisited int
}

// NewProblem creates a search from start to goal. A nil opts means no budget.
func NewProblem(start, goal *State, opts *PlannerOptions, logger logging.Logger) (*Problem, error) {
	if start == nil {
		return nil, NewNilStateError("start")
	}
	if goal == nil {
		return nil, NewNilStateError("goal")
	}
	if opts == nil {
		opts = NewPlannerOptions()
	}
	if err := opts.Validate(""); err != nil {
		return nil, err
	}
	if start.tree != goal.tree {
		logger.Warnw("start and goal come from different octrees, goal may be unreachable", "start", start, "goal", goal)
	}
	return &Problem{start: start, goal: goal, opts: opts, logger: logger}, nil
}

// Start returns the start state.
func (p *Problem) Start() *State {
	return p.start
}

// Goal returns the goal state.
func (p *Problem) Goal() *State {
	return p.goal
}

// NodesVisited returns how many nodes the most recent search expanded, that is popped from the
// fringe. Generated successors that were never expanded are not counted.
func (p *Problem) NodesVisited() int {
	return p.nodesVisited
}

// Search runs A* from start to goal over the start state's octree. An empty fringe ends the search
// with OutcomeExhausted and running out of iterations or planner time ends it with
// OutcomeBudgetExceeded; neither is an error. An error is returned only if ctx is done.
func (p *Problem) Search(ctx context.Context) (*Result, error) {
	ctx, span := trace.StartSpan(ctx, "motionplan::Search")
	defer span.End()

	callerCtx := ctx
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.opts.Timeout*float64(time.Second)))
		defer cancel()
	}

	p.nodesVisited = 0
	h := newHeuristic(p.start.tree, p.goal.node)

	var arena []*searchNode
	visited := map[octree.NodeKey]int{}
	queue := &fringe{}

	root := &searchNode{state: p.start, parent: -1, h: h.estimate(p.start.node), heapIndex: -1}
	arena = append(arena, root)
	visited[p.start.Key()] = 0
	queue.push(root)

	for queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			if callerErr := callerCtx.Err(); callerErr != nil {
				return nil, callerErr
			}
			p.logger.Debugw("search ran out of time", "nodes_visited", p.nodesVisited, "timeout", p.opts.Timeout)
			return &Result{Outcome: OutcomeBudgetExceeded}, nil
		}
		if p.opts.MaxIterations > 0 && p.nodesVisited >= p.opts.MaxIterations {
			p.logger.Debugw("search hit iteration limit", "nodes_visited", p.nodesVisited)
			return &Result{Outcome: OutcomeBudgetExceeded}, nil
		}

		current := queue.pop()
		current.closed = true
		p.nodesVisited++
		if p.nodesVisited%defaultLogInterval == 0 {
			p.logger.Debugw("searching", "nodes_visited", p.nodesVisited, "fringe", queue.Len(), "f", current.f().String())
		}

		if current.state.Equal(p.goal) {
			path := reconstructPath(arena, visited[current.state.Key()])
			p.logger.Debugw("found path", "cost", path.TotalCost, "nodes_visited", p.nodesVisited)
			return &Result{Outcome: OutcomeFound, Path: path}, nil
		}

		currentIdx := visited[current.state.Key()]
		for _, pair := range current.state.Successors() {
			action := pair.Action
			cost := current.g + action.Cost
			key := pair.State.Key()

			idx, seen := visited[key]
			if !seen {
				n := &searchNode{
					state:     pair.State,
					parent:    currentIdx,
					action:    &action,
					g:         cost,
					h:         h.estimate(pair.State.node),
					heapIndex: -1,
				}
				arena = append(arena, n)
				visited[key] = len(arena) - 1
				queue.push(n)
				continue
			}

			queue.relax(arena[idx], currentIdx, &action, cost)
		}
	}

	p.logger.Debugw("search exhausted", "nodes_visited", p.nodesVisited)
	return &Result{Outcome: OutcomeExhausted}, nil
}

// reconstructPath walks parent links from the arena entry at goalIdx back to the search root.
func reconstructPath(arena []*searchNode, goalIdx int) *Path {
	path := &Path{TotalCost: arena[goalIdx].g}
	for idx := goalIdx; idx >= 0; idx = arena[idx].parent {
		n := arena[idx]
		path.Nodes = append(path.Nodes, SearchNode{State: n.state, Action: n.action, Cost: n.g})
	}
	return path
}
