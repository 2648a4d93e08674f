package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Positions beyond this magnitude can no longer represent every integer exactly.
const (
	maxPreciseFloat64 = float64(1 << 53)
	minPreciseFloat64 = -maxPreciseFloat64
)

// basicPointCloud is the basic implementation of the PointCloud interface backed by
// a slice of points indexed by position.
type basicPointCloud struct {
	points *matrixStorage
	meta   MetaData
}

// New returns an empty PointCloud backed by a basicPointCloud.
func New() PointCloud {
	return NewWithPrealloc(0)
}

// maxPrealloc bounds up-front allocation for sizes taken from file headers; clouds grow past it as
// points are set.
const maxPrealloc = 1 << 20

// NewWithPrealloc returns an empty, preallocated PointCloud backed by a basicPointCloud.
// size is clamped to [0, 1<<20].
func NewWithPrealloc(size int) PointCloud {
	size = min(max(size, 0), maxPrealloc)
	return &basicPointCloud{
		points: &matrixStorage{points: make([]PointAndData, 0, size), indexMap: make(map[r3.Vector]uint, size)},
		meta:   NewMetaData(),
	}
}

func (cloud *basicPointCloud) Size() int {
	return cloud.points.Size()
}

func (cloud *basicPointCloud) MetaData() MetaData {
	return cloud.meta
}

func (cloud *basicPointCloud) At(x, y, z float64) (Data, bool) {
	return cloud.points.At(x, y, z)
}

// Set validates that the point can be precisely stored before setting it in the cloud.
func (cloud *basicPointCloud) Set(p r3.Vector, d Data) error {
	if err := validatePrecise(p); err != nil {
		return err
	}
	_, pointExists := cloud.At(p.X, p.Y, p.Z)
	cloud.points.Set(p, d)
	if !pointExists {
		cloud.meta.Merge(p, d)
	}
	return nil
}

func (cloud *basicPointCloud) Iterate(numBatches, myBatch int, fn func(p r3.Vector, d Data) bool) {
	cloud.points.Iterate(numBatches, myBatch, fn)
}

func validatePrecise(p r3.Vector) error {
	for _, c := range []struct {
		axis string
		v    float64
	}{{"x", p.X}, {"y", p.Y}, {"z", p.Z}} {
		if math.IsNaN(c.v) || c.v < minPreciseFloat64 || c.v > maxPreciseFloat64 {
			return errors.Errorf(
				"%s component (%v) is not within [%v,%v], which is the range of ints that can be precisely stored",
				c.axis, c.v, minPreciseFloat64, maxPreciseFloat64)
		}
	}
	return nil
}

// matrixStorage keeps points in insertion order with a position index for lookups.
type matrixStorage struct {
	points   []PointAndData
	indexMap map[r3.Vector]uint
}

func (ms *matrixStorage) Size() int {
	return len(ms.points)
}

func (ms *matrixStorage) At(x, y, z float64) (Data, bool) {
	if idx, ok := ms.indexMap[r3.Vector{X: x, Y: y, Z: z}]; ok {
		return ms.points[idx].D, true
	}
	return nil, false
}

func (ms *matrixStorage) Set(p r3.Vector, d Data) {
	if idx, ok := ms.indexMap[p]; ok {
		ms.points[idx].D = d
		return
	}
	ms.points = append(ms.points, PointAndData{P: p, D: d})
	ms.indexMap[p] = uint(len(ms.points) - 1)
}

func (ms *matrixStorage) Iterate(numBatches, myBatch int, fn func(p r3.Vector, d Data) bool) {
	lowerBound := 0
	upperBound := len(ms.points)
	if numBatches > 0 {
		batchSize := (len(ms.points) + numBatches - 1) / numBatches
		lowerBound = myBatch * batchSize
		upperBound = lowerBound + batchSize
		if upperBound > len(ms.points) {
			upperBound = len(ms.points)
		}
	}
	for i := lowerBound; i < upperBound; i++ {
		if !fn(ms.points[i].P, ms.points[i].D) {
			return
		}
	}
}
