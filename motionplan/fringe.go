package motionplan

import "container/heap"

// searchNode is an arena entry. parent is an index into the same arena, -1 for the search root.
type searchNode struct {
	state  *State
	parent int
	action *Action
	g      int
	h      estimate

	// position in the fringe, -1 when not queued
	heapIndex int
	// insertion sequence, used as the final tie-break
	seq    uint64
	closed bool
}

func (n *searchNode) f() estimate {
	return n.h.plus(n.g)
}

// fringe is a priority queue of unexpanded search nodes ordered by f ascending, then g descending,
// then insertion order.
type fringe struct {
	nodes []*searchNode
	seq   uint64
}

func (q *fringe) Len() int { return len(q.nodes) }

func (q *fringe) Less(i, j int) bool {
	a, b := q.nodes[i], q.nodes[j]
	fa, fb := a.f(), b.f()
	if fa != fb {
		return fa.less(fb)
	}
	if a.g != b.g {
		return a.g > b.g
	}
	return a.seq < b.seq
}

func (q *fringe) Swap(i, j int) {
	q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i]
	q.nodes[i].heapIndex = i
	q.nodes[j].heapIndex = j
}

func (q *fringe) Push(x interface{}) {
	n := x.(*searchNode)
	n.heapIndex = len(q.nodes)
	q.nodes = append(q.nodes, n)
}

func (q *fringe) Pop() interface{} {
	old := q.nodes
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.heapIndex = -1
	q.nodes = old[:last]
	return n
}

// push queues n, stamping it with the next insertion sequence.
func (q *fringe) push(n *searchNode) {
	q.seq++
	n.seq = q.seq
	heap.Push(q, n)
}

func (q *fringe) pop() *searchNode {
	return heap.Pop(q).(*searchNode)
}

// update restores heap order after n's cost changed.
func (q *fringe) update(n *searchNode) {
	heap.Fix(q, n.heapIndex)
}

// relax reparents n through parent when g is strictly cheaper than its current cost. A queued node is
// re-prioritized and an expanded one is reopened. It reports whether n changed.
func (q *fringe) relax(n *searchNode, parent int, action *Action, g int) bool {
	if g >= n.g {
		return false
	}
	n.parent = parent
	n.action = action
	n.g = g
	switch {
	case n.heapIndex >= 0:
		q.update(n)
	case n.closed:
		n.closed = false
		q.push(n)
	}
	return true
}
