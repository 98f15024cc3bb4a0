// Copyright 2025 go-highway Authors
// Copyright 2025 keplersolve Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package simd

import "math"

// Load builds a vector from the first Width[T]() elements of src (or fewer,
// for a trailing partial batch).
func Load[T Floats](src []T) Vec[T] {
	n := min(len(src), Width[T]())
	data := make([]T, n)
	copy(data, src[:n])
	return Vec[T]{data: data}
}

// Store writes v's lanes into dst.
func Store[T Floats](v Vec[T], dst []T) {
	copy(dst[:len(v.data)], v.data)
}

// Set returns a vector with every lane set to value, at the process's batch
// width for T.
func Set[T Floats](value T) Vec[T] {
	data := make([]T, Width[T]())
	for i := range data {
		data[i] = value
	}
	return Vec[T]{data: data}
}

// Zero returns a vector of zeroes at the process's batch width for T.
func Zero[T Floats]() Vec[T] {
	return Vec[T]{data: make([]T, Width[T]())}
}

// FullMask returns an n-lane mask with every bit set, the starting point for
// a descending-segment masked select (each pass narrows it with And/Not).
func FullMask[T Floats](n int) Mask[T] {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = true
	}
	return Mask[T]{bits: bits}
}

func binOp[T Floats](a, b Vec[T], f func(T, T) T) Vec[T] {
	n := min(len(a.data), len(b.data))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = f(a.data[i], b.data[i])
	}
	return Vec[T]{data: out}
}

func unOp[T Floats](a Vec[T], f func(T) T) Vec[T] {
	out := make([]T, len(a.data))
	for i := range a.data {
		out[i] = f(a.data[i])
	}
	return Vec[T]{data: out}
}

// Add performs lane-wise addition.
func Add[T Floats](a, b Vec[T]) Vec[T] { return binOp(a, b, func(x, y T) T { return x + y }) }

// Sub performs lane-wise subtraction.
func Sub[T Floats](a, b Vec[T]) Vec[T] { return binOp(a, b, func(x, y T) T { return x - y }) }

// Mul performs lane-wise multiplication.
func Mul[T Floats](a, b Vec[T]) Vec[T] { return binOp(a, b, func(x, y T) T { return x * y }) }

// Div performs lane-wise division.
func Div[T Floats](a, b Vec[T]) Vec[T] { return binOp(a, b, func(x, y T) T { return x / y }) }

// Neg negates every lane.
func Neg[T Floats](a Vec[T]) Vec[T] { return unOp(a, func(x T) T { return -x }) }

// Min returns the lane-wise minimum.
func Min[T Floats](a, b Vec[T]) Vec[T] {
	return binOp(a, b, func(x, y T) T {
		if x < y {
			return x
		}
		return y
	})
}

// Max returns the lane-wise maximum.
func Max[T Floats](a, b Vec[T]) Vec[T] {
	return binOp(a, b, func(x, y T) T {
		if x > y {
			return x
		}
		return y
	})
}

// Abs returns the lane-wise absolute value.
func Abs[T Floats](a Vec[T]) Vec[T] {
	return unOp(a, func(x T) T {
		if x < 0 {
			return -x
		}
		return x
	})
}

// Sqrt returns the lane-wise square root.
func Sqrt[T Floats](a Vec[T]) Vec[T] {
	return unOp(a, func(x T) T { return T(math.Sqrt(float64(x))) })
}

// Cbrt returns the lane-wise cube root, sign-preserving for negative inputs.
func Cbrt[T Floats](a Vec[T]) Vec[T] {
	return unOp(a, func(x T) T { return T(math.Cbrt(float64(x))) })
}

// MulAdd computes a*b+c lane-wise via a fused multiply-add where the host
// float type supports it (math.FMA for float64; float32 uses a plain
// product-then-sum, which is exact enough for the polynomial evaluations
// this package is used for).
func MulAdd[T Floats](a, b, c Vec[T]) Vec[T] {
	n := min(min(len(a.data), len(b.data)), len(c.data))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = fma(a.data[i], b.data[i], c.data[i])
	}
	return Vec[T]{data: out}
}

// MulSub computes a*b-c lane-wise.
func MulSub[T Floats](a, b, c Vec[T]) Vec[T] {
	return MulAdd(a, b, Neg(c))
}

func fma[T Floats](a, b, c T) T {
	var z T
	if _, ok := any(z).(float64); ok {
		return T(math.FMA(float64(a), float64(b), float64(c)))
	}
	return a*b + c
}

// RoundToEven rounds each lane to the nearest integer, ties to even.
func RoundToEven[T Floats](a Vec[T]) Vec[T] {
	return unOp(a, func(x T) T { return T(math.RoundToEven(float64(x))) })
}

func cmpOp[T Floats](a, b Vec[T], f func(T, T) bool) Mask[T] {
	n := min(len(a.data), len(b.data))
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = f(a.data[i], b.data[i])
	}
	return Mask[T]{bits: bits}
}

// Equal compares lanes for equality.
func Equal[T Floats](a, b Vec[T]) Mask[T] { return cmpOp(a, b, func(x, y T) bool { return x == y }) }

// Less compares lanes with <.
func Less[T Floats](a, b Vec[T]) Mask[T] { return cmpOp(a, b, func(x, y T) bool { return x < y }) }

// Greater compares lanes with >.
func Greater[T Floats](a, b Vec[T]) Mask[T] { return cmpOp(a, b, func(x, y T) bool { return x > y }) }

// GreaterEqual compares lanes with >=.
func GreaterEqual[T Floats](a, b Vec[T]) Mask[T] {
	return cmpOp(a, b, func(x, y T) bool { return x >= y })
}

// LessEqual compares lanes with <=.
func LessEqual[T Floats](a, b Vec[T]) Mask[T] {
	return cmpOp(a, b, func(x, y T) bool { return x <= y })
}

// Select returns, lane-wise, a where the mask is set and b otherwise. This is
// the batch-driver's branch-lean primitive: both a and b are always fully
// computed, and Select picks between them without a scalar if.
func Select[T Floats](mask Mask[T], a, b Vec[T]) Vec[T] {
	n := min(len(a.data), len(b.data))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		if mask.GetBit(i) {
			out[i] = a.data[i]
		} else {
			out[i] = b.data[i]
		}
	}
	return Vec[T]{data: out}
}

// And computes the lane-wise logical AND of two masks.
func And[T Floats](a, b Mask[T]) Mask[T] {
	n := min(len(a.bits), len(b.bits))
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = a.bits[i] && b.bits[i]
	}
	return Mask[T]{bits: bits}
}

// Or computes the lane-wise logical OR of two masks.
func Or[T Floats](a, b Mask[T]) Mask[T] {
	n := min(len(a.bits), len(b.bits))
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = a.bits[i] || b.bits[i]
	}
	return Mask[T]{bits: bits}
}

// Not inverts a mask lane-wise.
func Not[T Floats](a Mask[T]) Mask[T] {
	bits := make([]bool, len(a.bits))
	for i, b := range a.bits {
		bits[i] = !b
	}
	return Mask[T]{bits: bits}
}
