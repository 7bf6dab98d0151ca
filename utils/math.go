package utils

import "golang.org/x/exp/constraints"

// Number is the constraint satisfied by the numeric types the
// arithmetic helpers operate on.
type Number interface {
	constraints.Integer | constraints.Float
}

// Sum returns the sum of the two numbers.
func Sum[T Number](x, y T) T {
	return x + y
}

// Min returns the smaller value between two numbers.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the bigger value between two numbers.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Abs returns the absolut value of x.
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp constrains x to the [lo, hi] interval.
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
