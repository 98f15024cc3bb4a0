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

package kepler

import (
	"math"

	"github.com/orbitkit/keplersolve/simd"
)

// shortSinEval evaluates x * horner(-x^2; 1, 1/3!, 1/5!, ..., 1/15!), the
// degree-15 odd minimax-style series for sin(x). Valid for |x| a few ULP
// beyond pi/4, which is all three windows of SinCos ever feed it.
func shortSinEval[T Float](x T) T {
	c := shortSinCoeffs[T]()
	y := -(x * x)
	_, isF64 := any(x).(float64)
	madd := func(a, b, c T) T {
		if isF64 {
			return T(math.FMA(float64(a), float64(b), float64(c)))
		}
		return a*b + c
	}
	acc := c[6]
	for i := 5; i >= 0; i-- {
		acc = madd(y, acc, c[i])
	}
	return x * madd(y, acc, 1)
}

// SinCos returns (sin(x), cos(x)) for x in [0, pi] (a small excess above pi
// is tolerated; NaN in yields NaN out). It is accurate to a few ULP by
// restricting the odd series above to an argument no larger than pi/4 in
// magnitude and reconstructing the complementary function via sqrt(1-s^2) or
// sqrt(1-c^2), never by a second trig call.
func SinCos[T Float](x T) (sin, cos T) {
	switch {
	case x < pio4[T]():
		sin = shortSinEval(x)
		cos = sqrtT(1 - sin*sin)
	case x > threePio4[T]():
		sin = shortSinEval(pi[T]() - x)
		cos = -sqrtT(1 - sin*sin)
	default:
		cos = shortSinEval(pio2[T]() - x)
		sin = sqrtT(1 - cos*cos)
	}
	return sin, cos
}

// sqrtT is the scalar hot-path square root: a direct math.Sqrt call, with no
// allocation and no detour through the simd package's slice-backed Vec.
func sqrtT[T Float](x T) T {
	return T(math.Sqrt(float64(x)))
}

// SinCosBatch computes SinCos lane-wise over x, writing results into sin and
// cos (which must be at least len(x)). It processes simd.Width[T]() lanes at
// a time and is bit-for-bit identical to calling SinCos element-wise,
// including on a trailing partial batch.
func SinCosBatch[T Float](x, sin, cos []T) {
	n := len(x)
	w := simd.Width[T]()
	pio4v := simd.Set[T](pio4[T]())
	threePio4v := simd.Set[T](threePio4[T]())
	piv := simd.Set[T](pi[T]())
	pio2v := simd.Set[T](pio2[T]())
	one := simd.Set[T](1)

	for i := 0; i < n; i += w {
		end := i + w
		if end > n {
			end = n
		}
		xv := simd.Load(x[i:end])

		lowMask := simd.Less(xv, pio4v)
		highMask := simd.Greater(xv, threePio4v)

		sinLow := sinCosEvalVec(xv)
		cosLow := simd.Sqrt(simd.Sub(one, simd.Mul(sinLow, sinLow)))

		sinHigh := sinCosEvalVec(simd.Sub(piv, xv))
		cosHigh := simd.Neg(simd.Sqrt(simd.Sub(one, simd.Mul(sinHigh, sinHigh))))

		cosMid := sinCosEvalVec(simd.Sub(pio2v, xv))
		sinMid := simd.Sqrt(simd.Sub(one, simd.Mul(cosMid, cosMid)))

		sinOut := simd.Select(lowMask, sinLow, simd.Select(highMask, sinHigh, sinMid))
		cosOut := simd.Select(lowMask, cosLow, simd.Select(highMask, cosHigh, cosMid))

		simd.Store(sinOut, sin[i:end])
		simd.Store(cosOut, cos[i:end])
	}
}

// sinCosEvalVec is the batched form of shortSinEval, built from simd
// primitives so SinCosBatch never drops to scalar code within a full batch.
func sinCosEvalVec[T Float](x simd.Vec[T]) simd.Vec[T] {
	c := shortSinCoeffs[T]()
	y := simd.Neg(simd.Mul(x, x))
	acc := simd.Set(c[6])
	for i := 5; i >= 0; i-- {
		acc = simd.MulAdd(y, acc, simd.Set(c[i]))
	}
	acc = simd.MulAdd(y, acc, simd.Set[T](1))
	return simd.Mul(x, acc)
}
