// Package num holds small numeric helpers shared by the simulation.
package num

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp restricts x to [low, high].
func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// Round2 rounds to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// RoundInt rounds to the nearest integer, ties to even.
func RoundInt(x float64) int {
	return int(math.RoundToEven(x))
}
