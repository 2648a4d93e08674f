package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func makeBox(t *testing.T, minPt, maxPt r3.Vector) BoundingBox {
	t.Helper()
	b, err := NewBoundingBox(minPt, maxPt)
	test.That(t, err, test.ShouldBeNil)
	return b
}

func TestNewBoundingBox(t *testing.T) {
	t.Run("valid box", func(t *testing.T) {
		b, err := NewBoundingBox(r3.Vector{X: -1, Y: -2, Z: -3}, r3.Vector{X: 1, Y: 2, Z: 3})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, b.Volume(), test.ShouldAlmostEqual, 48)
		test.That(t, b.Center(), test.ShouldResemble, r3.Vector{})
		test.That(t, b.Dims(), test.ShouldResemble, r3.Vector{X: 2, Y: 4, Z: 6})
	})

	t.Run("min exceeds max", func(t *testing.T) {
		_, err := NewBoundingBox(r3.Vector{X: 1}, r3.Vector{})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "exceeds max")
	})

	t.Run("NaN coordinate", func(t *testing.T) {
		_, err := NewBoundingBox(r3.Vector{X: math.NaN()}, r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("flat box is allowed", func(t *testing.T) {
		b, err := NewBoundingBox(r3.Vector{}, r3.Vector{X: 1, Y: 1})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, b.Volume(), test.ShouldEqual, 0.0)
	})
}

func TestBoundingBoxFromPoints(t *testing.T) {
	_, err := BoundingBoxFromPoints()
	test.That(t, err, test.ShouldNotBeNil)

	b, err := BoundingBoxFromPoints(
		r3.Vector{X: 1, Y: 5, Z: -2},
		r3.Vector{X: -3, Y: 0, Z: 4},
		r3.Vector{X: 2, Y: 2, Z: 2},
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Min, test.ShouldResemble, r3.Vector{X: -3, Y: 0, Z: -2})
	test.That(t, b.Max, test.ShouldResemble, r3.Vector{X: 2, Y: 5, Z: 4})
}

func TestContainsPoint(t *testing.T) {
	b := makeBox(t, r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
	cases := []struct {
		name     string
		p        r3.Vector
		expected bool
	}{
		{"center", r3.Vector{X: .5, Y: .5, Z: .5}, true},
		{"min corner", r3.Vector{}, true},
		{"max corner", r3.Vector{X: 1, Y: 1, Z: 1}, true},
		{"on face", r3.Vector{X: 1, Y: .5, Z: .2}, true},
		{"outside x", r3.Vector{X: 1.01, Y: .5, Z: .5}, false},
		{"outside y", r3.Vector{X: .5, Y: -.01, Z: .5}, false},
		{"outside z", r3.Vector{X: .5, Y: .5, Z: 2}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			test.That(t, b.ContainsPoint(c.p), test.ShouldEqual, c.expected)
		})
	}
}

func TestContainsBox(t *testing.T) {
	outer := makeBox(t, r3.Vector{}, r3.Vector{X: 4, Y: 4, Z: 4})
	inner := makeBox(t, r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 2, Y: 2, Z: 2})
	straddling := makeBox(t, r3.Vector{X: 3, Y: 3, Z: 3}, r3.Vector{X: 5, Y: 5, Z: 5})

	test.That(t, outer.ContainsBox(inner), test.ShouldBeTrue)
	test.That(t, inner.ContainsBox(outer), test.ShouldBeFalse)
	test.That(t, outer.ContainsBox(straddling), test.ShouldBeFalse)

	t.Run("reflexive", func(t *testing.T) {
		for _, b := range []BoundingBox{outer, inner, straddling, {}} {
			test.That(t, b.ContainsBox(b), test.ShouldBeTrue)
		}
	})
}

func TestOverlaps(t *testing.T) {
	unit := makeBox(t, r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
	cases := []struct {
		name     string
		other    BoundingBox
		expected bool
	}{
		{"identical", unit, true},
		{"inscribed", makeBox(t, r3.Vector{X: .25, Y: .25, Z: .25}, r3.Vector{X: .75, Y: .75, Z: .75}), true},
		{"enclosing", makeBox(t, r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 2, Y: 2, Z: 2}), true},
		{"face contact", makeBox(t, r3.Vector{X: 1}, r3.Vector{X: 2, Y: 1, Z: 1}), true},
		{"partial", makeBox(t, r3.Vector{X: .5, Y: .5, Z: .5}, r3.Vector{X: 1.5, Y: 1.5, Z: 1.5}), true},
		// x intervals overlap but y and z do not; a per-axis OR test would wrongly report overlap
		{"single axis overlap", makeBox(t, r3.Vector{X: .5, Y: 3, Z: 3}, r3.Vector{X: .7, Y: 4, Z: 4}), false},
		{"separated", makeBox(t, r3.Vector{X: 2, Y: 2, Z: 2}, r3.Vector{X: 3, Y: 3, Z: 3}), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			test.That(t, unit.Overlaps(c.other), test.ShouldEqual, c.expected)
			test.That(t, c.other.Overlaps(unit), test.ShouldEqual, c.expected)
		})
	}
}

func TestLargerThan(t *testing.T) {
	small := makeBox(t, r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
	big := makeBox(t, r3.Vector{}, r3.Vector{X: 2, Y: 1, Z: 1})
	test.That(t, big.LargerThan(small), test.ShouldBeTrue)
	test.That(t, small.LargerThan(big), test.ShouldBeFalse)
	test.That(t, small.LargerThan(small), test.ShouldBeFalse)
}

func TestOctants(t *testing.T) {
	b := makeBox(t, r3.Vector{X: -2, Y: -2, Z: -2}, r3.Vector{X: 2, Y: 2, Z: 2})
	octants := b.Octants()

	test.That(t, octants[0], test.ShouldResemble, BoundingBox{Min: r3.Vector{X: -2, Y: -2, Z: -2}, Max: r3.Vector{}})
	test.That(t, octants[1], test.ShouldResemble, BoundingBox{
		Min: r3.Vector{X: 0, Y: -2, Z: -2},
		Max: r3.Vector{X: 2, Y: 0, Z: 0},
	})
	test.That(t, octants[2], test.ShouldResemble, BoundingBox{
		Min: r3.Vector{X: -2, Y: 0, Z: -2},
		Max: r3.Vector{X: 0, Y: 2, Z: 0},
	})
	test.That(t, octants[4], test.ShouldResemble, BoundingBox{
		Min: r3.Vector{X: -2, Y: -2, Z: 0},
		Max: r3.Vector{X: 0, Y: 0, Z: 2},
	})
	test.That(t, octants[7], test.ShouldResemble, BoundingBox{Min: r3.Vector{}, Max: r3.Vector{X: 2, Y: 2, Z: 2}})

	var total float64
	for i, o := range octants {
		test.That(t, b.ContainsBox(o), test.ShouldBeTrue)
		test.That(t, o.Volume(), test.ShouldAlmostEqual, b.Volume()/OctantCount)
		total += o.Volume()
		for j := i + 1; j < len(octants); j++ {
			test.That(t, o.AlmostEqual(octants[j]), test.ShouldBeFalse)
		}
	}
	test.That(t, total, test.ShouldAlmostEqual, b.Volume())
}
