// Package utils contains small helpers shared across octnav packages.
package utils

import "math"

// Epsilon is the default tolerance for comparing box coordinates.
const Epsilon = 1e-9

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// AbsInt returns the absolute value of an int.
func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}
