package octree

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes how points are distributed over the nodes that store them.
type Stats struct {
	Nodes           int
	OccupiedNodes   int
	DeepestLevel    int
	MeanOccupancy   float64
	StdDevOccupancy float64
	MaxOccupancy    float64
}

// Stats walks the tree and summarizes the point counts of every node holding points directly.
func (tree *Octree) Stats() Stats {
	var s Stats
	var counts []float64
	tree.Iterate(func(n *Node) bool {
		s.Nodes++
		if n.depth > s.DeepestLevel {
			s.DeepestLevel = n.depth
		}
		if len(n.points) > 0 {
			counts = append(counts, float64(len(n.points)))
		}
		return true
	})
	s.OccupiedNodes = len(counts)
	if len(counts) == 0 {
		return s
	}
	s.MaxOccupancy = floats.Max(counts)
	if len(counts) == 1 {
		s.MeanOccupancy = counts[0]
		return s
	}
	s.MeanOccupancy, s.StdDevOccupancy = stat.MeanStdDev(counts, nil)
	return s
}
