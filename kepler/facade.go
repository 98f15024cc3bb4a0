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

// Package kepler solves Kepler's equation M = E - e*sin(E) for the eccentric
// anomaly E, given a mean anomaly M and an eccentricity e in [0, 1). It
// exposes a generic driver (SolveOneWith/SolveWith/SolveSIMDWith, for any
// Starter/Refiner pairing) and a default, precomputed-table-friendly facade
// (SolveOne/Solve/SolveSIMD/BatchSolve) built on the rppb starter and the
// brandt refiner, the combination this package recommends for batches of
// mean anomalies sharing a single eccentricity.
package kepler

// SolveOne solves Kepler's equation for a single (eccentricity, meanAnomaly)
// pair using the default rppb-starter/brandt-refiner composition.
func SolveOne[T Float](eccentricity, meanAnomaly T) (E, sinE, cosE T) {
	starter := NewRPPBStarter[T](eccentricity)
	refiner := BrandtRefiner[T]{}
	return SolveOneWith(eccentricity, meanAnomaly, starter, refiner)
}

// Solve solves Kepler's equation element-wise over meanAnomaly at a fixed
// eccentricity, using the default rppb-starter/brandt-refiner composition.
// E, sinE, cosE must be at least len(meanAnomaly); in-place use (identical
// backing slices for an input and its corresponding output) is permitted,
// any other aliasing is undefined.
func Solve[T Float](eccentricity T, meanAnomaly []T, E, sinE, cosE []T) {
	starter := NewRPPBStarter[T](eccentricity)
	refiner := BrandtRefiner[T]{}
	SolveWith(eccentricity, meanAnomaly, starter, refiner, E, sinE, cosE)
}

// SolveSIMD is the batch-width-aware counterpart of Solve. It must agree
// with Solve bit-for-bit within the brandt refiner's tolerance for any input
// length, including lengths that are not a multiple of the SIMD width.
func SolveSIMD[T Float](eccentricity T, meanAnomaly []T, E, sinE, cosE []T) {
	starter := NewRPPBStarter[T](eccentricity)
	refiner := BrandtRefiner[T]{}
	SolveSIMDWith(eccentricity, meanAnomaly, starter, refiner, E, sinE, cosE)
}

// BatchSolve solves Kepler's equation for K distinct eccentricities, each
// paired with its own slice of Npe mean anomalies. e has length K; M, E,
// sinE, cosE each have length K*Npe, laid out as K contiguous blocks of Npe.
// A fresh rppb starter is constructed once per eccentricity, matching the
// cost model of the per-eccentricity batch workloads this library targets.
func BatchSolve[T Float](eccentricities []T, npe int, M, E, sinE, cosE []T) {
	for k, e := range eccentricities {
		lo := k * npe
		hi := lo + npe
		SolveSIMD(e, M[lo:hi], E[lo:hi], sinE[lo:hi], cosE[lo:hi])
	}
}
