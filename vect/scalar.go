// Package vect holds the math primitives shared by the query pipeline.
//
// The default build is two dimensional. Building with -tags dim3 swaps in a
// three dimensional Vector and Rotation backed by mgl64; Isometry, AABB and
// Ray are written against the common contract and compile in both builds.
package vect

import "math"

const Infinity = math.MaxFloat64

func Clamp(f, min, max float64) float64 {
	return math.Min(math.Max(f, min), max)
}

func Clamp01(f float64) float64 {
	return math.Max(0, math.Min(f, 1))
}

func Lerp(f1, f2, t float64) float64 {
	return f1*(1.0-t) + f2*t
}
