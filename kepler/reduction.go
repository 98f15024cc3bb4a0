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
	"math/big"

	"github.com/orbitkit/keplersolve/simd"
)

// RangeReduce maps a nonnegative x into [0, pi], returning the reduced value
// xr and a flag reporting whether the original angle fell in the "high"
// half of its period: the original angle is 2*pi*k + (high ? 2*pi-xr : xr)
// for some non-negative integer k.
//
// The implementation is layered by magnitude, each layer trading a cheaper
// reduction for a smaller valid range, exactly as a Cody-Waite argument
// reduction is structured for IEEE trigonometric functions:
//
//   - x <= pi/4: no reduction needed.
//   - x <= pi/2: a single high/low subtraction.
//   - x <= 20*pi: one integer multiple of pi/2, Cody-Waite subtraction.
//   - x <= mediumpi: the same, with extended-precision correction terms.
//   - beyond mediumpi: an arbitrary-precision fallback.
//   - NaN or +Inf: xr is NaN.
func RangeReduce[T Float](x T) (xr T, high bool) {
	red, quadrant := trigReduce(x)
	xr = red + quadrant*pio2[T]()
	switch {
	case xr < 0:
		return -xr, true
	case xr >= pi[T]():
		return twoPi[T]() - xr, true
	default:
		return xr, false
	}
}

// quadrantMod4 folds a reduction count into [0, 4) the way the reference
// implementation does for the double-precision branches: exactly, via
// floor, rather than through a signed-integer cast that could overflow for
// enormous inputs.
func quadrantMod4[T Float](n T) T {
	a := n * T(0.25)
	return 4 * (a - T(math.Floor(float64(a))))
}

func trigReduce[T Float](x T) (xr, quadrant T) {
	switch {
	case x <= pio4[T]():
		return x, 0

	case x <= pio2[T]():
		xr = x - pio2_1[T]()
		xr -= pio2_2[T]()
		xr -= pio2_3[T]()
		return xr, 1

	case x <= twentyPi[T]():
		xi := T(math.RoundToEven(float64(x * twoOverPi[T]())))
		xr = x - xi*pio2_1[T]()
		xr -= xi * pio2_2[T]()
		xr -= xi * pio2_3[T]()
		return xr, quadrantMod4(xi)

	case x <= mediumPi[T]():
		fn := T(math.RoundToEven(float64(x * twoOverPi[T]())))
		r := x - fn*pio2_1[T]()
		w := fn * pio2_1t[T]()
		t := r
		w = fn * pio2_2[T]()
		r = t - w
		w = fn*pio2_2t[T]() - ((t - r) - w)
		t = r
		w = fn * pio2_3[T]()
		r = t - w
		w = fn*pio2_3t[T]() - ((t - r) - w)
		return r - w, quadrantMod4(fn)

	case math.IsNaN(float64(x)), math.IsInf(float64(x), 1):
		return T(math.NaN()), 0

	default:
		r, n := reduceArbitraryPrecision(float64(x))
		return T(r), T(n)
	}
}

// piDigits is pi to 100 significant decimal digits, used only by the
// arbitrary-precision fallback below mediumpi's extended Cody-Waite range.
const piDigits = "3.14159265358979323846264338327950288419716939937510582097494459230781640628620899862803482534211706798"

// reduceArbitraryPrecision computes x modulo pi/2 using big.Float, standing
// in for the exact (Payne-Hanek) remainder the reference implementation
// computes via __ieee754_rem_pio2. It is only reached for |M| beyond
// mediumpi (2^19*pi/2, about 8.2e5, for float64; 2^7*pi/2 for float32), a regime no orbital-mechanics workload
// exercises but which must still return a finite, correctly-quadranted
// result rather than garbage.
func reduceArbitraryPrecision(x float64) (remainder, quadrantMod4Out float64) {
	const prec = 200
	pi, _, err := big.ParseFloat(piDigits, 10, prec, big.ToNearestEven)
	if err != nil {
		panic("kepler: invalid embedded pi literal: " + err.Error())
	}
	pio2 := new(big.Float).SetPrec(prec).Quo(pi, big.NewFloat(2))
	bx := new(big.Float).SetPrec(prec).SetFloat64(x)

	q := new(big.Float).SetPrec(prec).Quo(bx, pio2)
	qInt, _ := q.Int(nil)
	qFloat := new(big.Float).SetPrec(prec).SetInt(qInt)
	rem := new(big.Float).SetPrec(prec).Sub(bx, new(big.Float).SetPrec(prec).Mul(qFloat, pio2))

	remainder, _ = rem.Float64()
	n, _ := qFloat.Float64()
	quadrantMod4Out = math.Mod(n, 4)
	if quadrantMod4Out < 0 {
		quadrantMod4Out += 4
	}
	return remainder, quadrantMod4Out
}

// RangeReduceBatch is the lane-wise form of RangeReduce. It vectorizes the
// common case (|M| <= 20*pi, which covers every mean anomaly an
// orbital-mechanics batch workload is likely to supply); a chunk in which any
// lane exceeds 20*pi is reduced entirely by the scalar RangeReduce, lane by
// lane — the "branch-lean" schedule described for the SIMD driver.
func RangeReduceBatch[T Float](x []T, xr []T, high []bool) {
	n := len(x)
	w := simd.Width[T]()
	twentyPiv := simd.Set[T](twentyPi[T]())
	pio4v := simd.Set[T](pio4[T]())
	pio2v := simd.Set[T](pio2[T]())
	twoOverPiv := simd.Set[T](twoOverPi[T]())
	pio2_1v := simd.Set[T](pio2_1[T]())
	pio2_2v := simd.Set[T](pio2_2[T]())
	pio2_3v := simd.Set[T](pio2_3[T]())
	piv := simd.Set[T](pi[T]())
	twoPiv := simd.Set[T](twoPi[T]())
	zero := simd.Set[T](0)

	for i := 0; i < n; i += w {
		end := i + w
		if end > n {
			end = n
		}
		xv := simd.Load(x[i:end])

		overflow := simd.Greater(xv, twentyPiv)
		if overflow.Any() {
			for j := i; j < end; j++ {
				xr[j], high[j] = RangeReduce(x[j])
			}
			continue
		}

		lowMask := simd.LessEqual(xv, pio4v)
		midMask := simd.LessEqual(xv, pio2v)

		xi := simd.RoundToEven(simd.Mul(xv, twoOverPiv))
		general := simd.Sub(simd.Sub(simd.Sub(xv, simd.Mul(xi, pio2_1v)), simd.Mul(xi, pio2_2v)), simd.Mul(xi, pio2_3v))
		q := quadrantMod4Vec(xi)

		mid := simd.Sub(simd.Sub(simd.Sub(xv, pio2_1v), pio2_2v), pio2_3v)

		red := simd.Select(lowMask, xv, simd.Select(midMask, mid, general))
		quad := simd.Select(lowMask, zero, simd.Select(midMask, simd.Set[T](1), q))

		folded := simd.Add(red, simd.Mul(quad, pio2v))

		negMask := simd.Less(folded, zero)
		hiMask := simd.GreaterEqual(folded, piv)

		abs := simd.Select(negMask, simd.Neg(folded), folded)
		wrapped := simd.Select(hiMask, simd.Sub(twoPiv, abs), abs)

		simd.Store(wrapped, xr[i:end])
		for j := 0; j < end-i; j++ {
			high[i+j] = negMask.GetBit(j) || hiMask.GetBit(j)
		}
	}
}

func quadrantMod4Vec[T Float](n simd.Vec[T]) simd.Vec[T] {
	quarter := simd.Mul(n, simd.Set[T](0.25))
	floor := simd.Load(floorSlice(quarter.Data()))
	return simd.Mul(simd.Sub(quarter, floor), simd.Set[T](4))
}

func floorSlice[T Float](xs []T) []T {
	out := make([]T, len(xs))
	for i, x := range xs {
		out[i] = T(math.Floor(float64(x)))
	}
	return out
}
