// Package spatialmath defines the axis-aligned bounding volumes used to partition space and the
// predicates used to compare them.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/octnav/utils"
)

// OctantCount is the number of sub-volumes a box is split into.
const OctantCount = 8

// Octant index bits. An octant index is 4*zHigh + 2*yHigh + xHigh.
const (
	octantXHigh = 1 << iota
	octantYHigh
	octantZHigh
)

// BoundingBox is an axis-aligned box described by its minimum and maximum corners. The zero value is
// the degenerate box at the origin. BoundingBox is comparable and can be used as a map key.
type BoundingBox struct {
	Min r3.Vector
	Max r3.Vector
}

// NewBoundingBox instantiates a bounding box, checking that min <= max on every axis.
func NewBoundingBox(minPt, maxPt r3.Vector) (BoundingBox, error) {
	b := BoundingBox{Min: minPt, Max: maxPt}
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return b, nil
}

// BoundingBoxFromPoints returns the smallest box enclosing all of the given points.
func BoundingBoxFromPoints(pts ...r3.Vector) (BoundingBox, error) {
	if len(pts) == 0 {
		return BoundingBox{}, errors.New("cannot compute bounds of zero points")
	}
	b := BoundingBox{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b = b.Grow(p)
	}
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return b, nil
}

// Validate returns an error if a coordinate is NaN or if min exceeds max on any axis.
func (b BoundingBox) Validate() error {
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		if math.IsNaN(v) {
			return errors.Errorf("bounding box %v has a NaN coordinate", b)
		}
	}
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
		return errors.Errorf("bounding box min %v exceeds max %v", b.Min, b.Max)
	}
	return nil
}

// Grow returns a copy of the box expanded to include p.
func (b BoundingBox) Grow(p r3.Vector) BoundingBox {
	return BoundingBox{
		Min: r3.Vector{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: r3.Vector{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Dims returns the extent of the box along each axis.
func (b BoundingBox) Dims() r3.Vector {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() r3.Vector {
	return b.Min.Add(b.Dims().Mul(0.5))
}

// Volume returns the product of the box's extents.
func (b BoundingBox) Volume() float64 {
	d := b.Dims()
	return d.X * d.Y * d.Z
}

// LargerThan reports whether this box has strictly more volume than other.
func (b BoundingBox) LargerThan(other BoundingBox) bool {
	return b.Volume() > other.Volume()
}

// ContainsPoint reports whether p lies within the closed box.
func (b BoundingBox) ContainsPoint(p r3.Vector) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X &&
		b.Min.Y <= p.Y && p.Y <= b.Max.Y &&
		b.Min.Z <= p.Z && p.Z <= b.Max.Z
}

// ContainsBox reports whether other lies entirely within this box. Boundaries are inclusive so
// every box contains itself.
func (b BoundingBox) ContainsBox(other BoundingBox) bool {
	return b.Min.X <= other.Min.X && other.Max.X <= b.Max.X &&
		b.Min.Y <= other.Min.Y && other.Max.Y <= b.Max.Y &&
		b.Min.Z <= other.Min.Z && other.Max.Z <= b.Max.Z
}

// Overlaps reports whether the two boxes intersect, touching faces included. Every axis interval must
// overlap for the boxes to intersect.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	return b.Min.X <= other.Max.X && other.Min.X <= b.Max.X &&
		b.Min.Y <= other.Max.Y && other.Min.Y <= b.Max.Y &&
		b.Min.Z <= other.Max.Z && other.Min.Z <= b.Max.Z
}

// Octants splits the box at the midpoint of every axis. The octant at index i covers the upper half
// of the x axis when bit 0 of i is set, the upper half of y for bit 1 and the upper half of z for bit 2.
func (b BoundingBox) Octants() [OctantCount]BoundingBox {
	mid := r3.Vector{
		X: b.Min.X + (b.Max.X-b.Min.X)/2,
		Y: b.Min.Y + (b.Max.Y-b.Min.Y)/2,
		Z: b.Min.Z + (b.Max.Z-b.Min.Z)/2,
	}
	var octants [OctantCount]BoundingBox
	for i := range octants {
		o := BoundingBox{Min: b.Min, Max: mid}
		if i&octantXHigh != 0 {
			o.Min.X, o.Max.X = mid.X, b.Max.X
		}
		if i&octantYHigh != 0 {
			o.Min.Y, o.Max.Y = mid.Y, b.Max.Y
		}
		if i&octantZHigh != 0 {
			o.Min.Z, o.Max.Z = mid.Z, b.Max.Z
		}
		octants[i] = o
	}
	return octants
}

// AlmostEqual compares two boxes corner by corner within utils.Epsilon.
func (b BoundingBox) AlmostEqual(other BoundingBox) bool {
	return vectorAlmostEqual(b.Min, other.Min) && vectorAlmostEqual(b.Max, other.Max)
}

// String returns a human readable string that represents the box.
func (b BoundingBox) String() string {
	return fmt.Sprintf("Min: X:%.3f, Y:%.3f, Z:%.3f | Max: X:%.3f, Y:%.3f, Z:%.3f",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

func vectorAlmostEqual(a, b r3.Vector) bool {
	return utils.Float64AlmostEqual(a.X, b.X, utils.Epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, utils.Epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, utils.Epsilon)
}
