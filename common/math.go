package common

import "math"

func Sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
