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

// BatchStarter is implemented by starters that can produce a whole slice of
// initial guesses without a per-lane call into Start. SolveSIMDWith uses it
// when available and falls back to a per-lane loop otherwise.
type BatchStarter[T Float] interface {
	StartBatch(meanAnomaly []T, out []T)
}

// BatchRefiner is implemented by refiners that can refine a whole slice at
// once, typically exploiting a SIMD-width mask for convergence or branch
// selection. SolveSIMDWith uses it when available and falls back to a
// per-lane loop otherwise.
type BatchRefiner[T Float] interface {
	RefineWithEccentricityBatch(eccentricity T, meanAnomaly, initial, E, sinE, cosE []T)
}

// SolveOneWith runs the per-element pipeline for one (eccentricity, M):
// range-reduce |M|, produce a starter guess over the reduced mean anomaly,
// refine it, then unreduce by sign and half-period.
func SolveOneWith[T Float](eccentricity, meanAnomaly T, starter Starter[T], refiner Refiner[T]) (E, sinE, cosE T) {
	sigma := copysignT[T](1, meanAnomaly)
	u := absT(meanAnomaly)
	mbar, high := RangeReduce(u)
	eTilde := starter.Start(mbar)
	ep, sp, cp := refiner.RefineWithEccentricity(eccentricity, mbar, eTilde)

	if high {
		E = sigma * (twoPi[T]() - ep)
		sinE = -sigma * sp
	} else {
		E = sigma * ep
		sinE = sigma * sp
	}
	cosE = cp
	return E, sinE, cosE
}

// SolveWith runs SolveOneWith element-wise over meanAnomaly, writing into E,
// sinE, cosE (which must be at least len(meanAnomaly)). Input and output
// slices may alias only when they refer to the identical backing array at
// the identical offset (in-place update); any other aliasing is undefined.
func SolveWith[T Float](eccentricity T, meanAnomaly []T, starter Starter[T], refiner Refiner[T], E, sinE, cosE []T) {
	for i, m := range meanAnomaly {
		E[i], sinE[i], cosE[i] = SolveOneWith(eccentricity, m, starter, refiner)
	}
}

// SolveSIMDWith is the batch-width-aware counterpart of SolveWith. Range
// reduction always runs in SIMD-batched form; the starter and refiner take
// their batched fast path when they implement BatchStarter/BatchRefiner, and
// otherwise fall back to a per-lane call of the same scalar functions
// SolveOneWith uses. The per-lane fallback is bit-for-bit equivalent to
// SolveWith; the batched fast paths (fused multiply-add Horner steps, a
// precomputed 1/6) may round differently and agree with it to within the
// refiner's tolerance.
func SolveSIMDWith[T Float](eccentricity T, meanAnomaly []T, starter Starter[T], refiner Refiner[T], E, sinE, cosE []T) {
	n := len(meanAnomaly)
	sigma := make([]T, n)
	u := make([]T, n)
	for i, m := range meanAnomaly {
		sigma[i] = copysignT[T](1, m)
		u[i] = absT(m)
	}

	mbar := make([]T, n)
	high := make([]bool, n)
	RangeReduceBatch(u, mbar, high)

	eTilde := make([]T, n)
	if bs, ok := starter.(BatchStarter[T]); ok {
		bs.StartBatch(mbar, eTilde)
	} else {
		for i := range mbar {
			eTilde[i] = starter.Start(mbar[i])
		}
	}

	ep := make([]T, n)
	sp := make([]T, n)
	cp := make([]T, n)
	if br, ok := refiner.(BatchRefiner[T]); ok {
		br.RefineWithEccentricityBatch(eccentricity, mbar, eTilde, ep, sp, cp)
	} else {
		for i := range mbar {
			ep[i], sp[i], cp[i] = refiner.RefineWithEccentricity(eccentricity, mbar[i], eTilde[i])
		}
	}

	for i := 0; i < n; i++ {
		if high[i] {
			E[i] = sigma[i] * (twoPi[T]() - ep[i])
			sinE[i] = -sigma[i] * sp[i]
		} else {
			E[i] = sigma[i] * ep[i]
			sinE[i] = sigma[i] * sp[i]
		}
		cosE[i] = cp[i]
	}
}
