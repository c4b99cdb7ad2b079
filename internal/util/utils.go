package util

import (
	"math"
	"os"
)

// Float is the set of floating point types the helpers accept
type Float interface {
	~float32 | ~float64
}

// Lerp performs linear interpolation between a and b with t in [0,1]
func Lerp[T Float](a, b, t T) T {
	return a + t*(b-a)
}

// Clamp restricts a value to be between min and max
func Clamp[T Float](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampInt restricts an integer to [min, max]
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Fract returns the fractional part of v, always in [0,1)
func Fract[T Float](v T) T {
	f := v - T(math.Floor(float64(v)))
	if f >= 1 {
		return 0
	}
	return f
}

// WrapIndex maps any integer index onto [0, n)
func WrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// SmoothStep performs cubic Hermite interpolation of t between edge0 and edge1
func SmoothStep[T Float](edge0, edge1, t T) T {
	t = Clamp((t-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
