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

import "github.com/orbitkit/keplersolve/simd"

// Refiner reduces the residual f(E) = E - e*sin(E) - M toward zero, starting
// from a starter's initial guess Ẽ.
type Refiner[T Float] interface {
	Refine(eccentricity, meanAnomaly, initial T) T
	RefineWithEccentricity(eccentricity, meanAnomaly, initial T) (E, sinE, cosE T)
}

func defaultTolerance[T Float]() T {
	var z T
	if _, ok := any(z).(float32); ok {
		return T(1e-6)
	}
	return T(1e-12)
}

// NoopRefiner returns the starter's guess unchanged.
type NoopRefiner[T Float] struct{}

func (NoopRefiner[T]) Refine(_, _, initial T) T { return initial }

func (NoopRefiner[T]) RefineWithEccentricity(_, _, initial T) (E, sinE, cosE T) {
	sinE, cosE = SinCos(initial)
	return initial, sinE, cosE
}

// IterativeRefiner repeats a fixed-order Householder step until the residual
// falls below Tolerance or MaxIterations is exhausted. Non-convergence
// returns the best current estimate rather than NaN.
type IterativeRefiner[T Float] struct {
	Order         int
	MaxIterations int
	Tolerance     T
}

// NewIterativeRefiner builds an IterativeRefiner of the given Householder
// order with the conventional defaults (30 iterations, 1e-12/1e-6 tolerance).
func NewIterativeRefiner[T Float](order int) IterativeRefiner[T] {
	return IterativeRefiner[T]{Order: order, MaxIterations: 30, Tolerance: defaultTolerance[T]()}
}

func (r IterativeRefiner[T]) Refine(eccentricity, meanAnomaly, initial T) T {
	E := initial
	for i := 0; i < r.MaxIterations; i++ {
		st := NewState(eccentricity, meanAnomaly, E)
		if absT(st.F0) < r.Tolerance {
			break
		}
		E += Step(r.Order, st)
	}
	return E
}

func (r IterativeRefiner[T]) RefineWithEccentricity(eccentricity, meanAnomaly, initial T) (E, sinE, cosE T) {
	E = r.Refine(eccentricity, meanAnomaly, initial)
	sinE, cosE = SinCos(E)
	return E, sinE, cosE
}

// NonIterativeRefiner applies a single fixed-order Householder step, meant to
// be paired with a high-accuracy starter (markley with order 3, or rppb with
// order 2/3).
type NonIterativeRefiner[T Float] struct {
	Order int
}

func (r NonIterativeRefiner[T]) Refine(eccentricity, meanAnomaly, initial T) T {
	st := NewState(eccentricity, meanAnomaly, initial)
	return initial + Step(r.Order, st)
}

func (r NonIterativeRefiner[T]) RefineWithEccentricity(eccentricity, meanAnomaly, initial T) (E, sinE, cosE T) {
	E = r.Refine(eccentricity, meanAnomaly, initial)
	sinE, cosE = SinCos(E)
	return E, sinE, cosE
}

// BrandtRefiner applies one order-2 Householder step when e < 0.78 or
// M̅ > 0.4, otherwise one order-3 step, analytically propagating sin/cos
// through RefineWithEccentricity rather than re-entering SinCos.
//
// The order-2 branch is algebraically identical to the "Halley's method"
// update in the reference Raposo-Pulido/Brandt solver, expressed there in
// terms of 1/e rather than the cached (f0, e*sinE, e*cosE) state used here.
type BrandtRefiner[T Float] struct{}

func (BrandtRefiner[T]) delta(eccentricity, meanAnomaly, initial T) T {
	st := NewState(eccentricity, meanAnomaly, initial)
	if eccentricity < T(0.78) || meanAnomaly > T(0.4) {
		return Step2(st)
	}
	return Step3(st)
}

func (r BrandtRefiner[T]) Refine(eccentricity, meanAnomaly, initial T) T {
	if eccentricity < defaultTolerance[T]() {
		return initial
	}
	return initial + r.delta(eccentricity, meanAnomaly, initial)
}

func (r BrandtRefiner[T]) RefineWithEccentricity(eccentricity, meanAnomaly, initial T) (E, sinE, cosE T) {
	if eccentricity < defaultTolerance[T]() {
		sinE, cosE = SinCos(initial)
		return initial, sinE, cosE
	}

	st := NewState(eccentricity, meanAnomaly, initial)
	var delta, adj T
	if eccentricity < T(0.78) || meanAnomaly > T(0.4) {
		delta = Step2(st)
		adj = delta
	} else {
		delta = Step3(st)
		adj = delta * (1 - delta*delta/6)
	}
	factor := 1 - delta*delta/2

	sinE = (factor*st.EccSin + adj*st.EccCos) / eccentricity
	cosE = (-adj*st.EccSin + factor*st.EccCos) / eccentricity
	E = initial + delta
	return E, sinE, cosE
}

// RefineWithEccentricityBatch computes both the order-2 and order-3 updates
// for every lane and blends by mask, the batch counterpart of the per-lane
// branch in RefineWithEccentricity.
func (r BrandtRefiner[T]) RefineWithEccentricityBatch(eccentricity T, meanAnomaly, initial, E, sinE, cosE []T) {
	n := len(meanAnomaly)
	if eccentricity < defaultTolerance[T]() {
		SinCosBatch(initial, sinE, cosE)
		copy(E, initial)
		return
	}

	sinGuess := make([]T, n)
	cosGuess := make([]T, n)
	SinCosBatch(initial, sinGuess, cosGuess)

	w := simd.Width[T]()
	eccv := simd.Set[T](eccentricity)
	pt78 := simd.Set[T](0.78)
	pt4 := simd.Set[T](0.4)
	half := simd.Set[T](0.5)
	sixth := simd.Set[T](1.0 / 6.0)
	one := simd.Set[T](1)
	invF := invFactorials[T]()
	a2Coeff := simd.Set[T](invF[0])
	a3Coeff := simd.Set[T](invF[1])

	for i := 0; i < n; i += w {
		end := i + w
		if end > n {
			end = n
		}
		Mv := simd.Load(meanAnomaly[i:end])
		Ev := simd.Load(initial[i:end])
		sv := simd.Load(sinGuess[i:end])
		cv := simd.Load(cosGuess[i:end])

		eccSin := simd.Mul(eccv, sv)
		eccCos := simd.Mul(eccv, cv)
		f0 := simd.Sub(simd.Sub(Ev, eccSin), Mv)

		a1 := simd.Sub(one, eccCos)
		a2 := simd.Mul(eccSin, a2Coeff)
		a3 := simd.Mul(eccCos, a3Coeff)

		d1 := simd.Neg(simd.Div(f0, a1))
		delta2 := simd.Neg(simd.Div(f0, simd.Add(a1, simd.Mul(d1, a2))))
		delta3 := simd.Neg(simd.Div(f0, simd.Add(a1, simd.Mul(delta2, simd.Add(a2, simd.Mul(delta2, a3))))))

		useOrder2 := simd.Or(simd.Less(eccv, pt78), simd.Greater(Mv, pt4))
		delta := simd.Select(useOrder2, delta2, delta3)

		factor := simd.Sub(one, simd.Mul(half, simd.Mul(delta, delta)))
		adjOrder3 := simd.Mul(delta, simd.Sub(one, simd.Mul(sixth, simd.Mul(delta, delta))))
		adj := simd.Select(useOrder2, delta, adjOrder3)

		sinOut := simd.Div(simd.Add(simd.Mul(factor, eccSin), simd.Mul(adj, eccCos)), eccv)
		cosOut := simd.Div(simd.Sub(simd.Mul(factor, eccCos), simd.Mul(adj, eccSin)), eccv)
		Eout := simd.Add(Ev, delta)

		simd.Store(Eout, E[i:end])
		simd.Store(sinOut, sinE[i:end])
		simd.Store(cosOut, cosE[i:end])
	}
}
