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
	"testing"
)

func residual(e, mbar, E float64) float64 {
	return math.Abs(E - e*math.Sin(E) - mbar)
}

func TestNoopRefiner(t *testing.T) {
	var r NoopRefiner[float64]
	if got := r.Refine(0.5, 1.0, 0.7); got != 0.7 {
		t.Errorf("NoopRefiner.Refine = %v, want 0.7", got)
	}
	E, sinE, cosE := r.RefineWithEccentricity(0.5, 1.0, 0.0)
	if E != 0 || math.Abs(sinE) > 1e-15 || math.Abs(cosE-1) > 1e-15 {
		t.Errorf("NoopRefiner.RefineWithEccentricity(0) = (%v, %v, %v), want (0, 0, 1)", E, sinE, cosE)
	}
}

func TestIterativeRefinerConverges(t *testing.T) {
	e, mbar := 0.8, 0.3
	r := NewIterativeRefiner[float64](3)
	E := r.Refine(e, mbar, mbar)
	if got := residual(e, mbar, E); got > 1e-12 {
		t.Errorf("iterative<3> residual = %v, want < 1e-12", got)
	}
}

func TestNonIterativeRefinerWithGoodStarter(t *testing.T) {
	e, mbar := 0.7, 1.7
	starter := MarkleyStarter[float64]{Eccentricity: e}
	guess := starter.Start(mbar)
	r := NonIterativeRefiner[float64]{Order: 3}
	E := r.Refine(e, mbar, guess)
	if got := residual(e, mbar, E); got > 1e-9 {
		t.Errorf("non_iterative<3> after markley residual = %v, want < 1e-9", got)
	}
}

func TestBrandtRefinerMatchesResidualTolerance(t *testing.T) {
	cases := []struct{ e, mbar float64 }{
		{0.1, 0.5}, {0.5, 0.01}, {0.9, math.Pi / 2}, {0.99, 1e-6}, {0.3, 2.9},
	}
	for _, c := range cases {
		starter := NewRPPBStarter(c.e)
		guess := starter.Start(c.mbar)
		var r BrandtRefiner[float64]
		E, sinE, cosE := r.RefineWithEccentricity(c.e, c.mbar, guess)
		if got := residual(c.e, c.mbar, E); got > 1e-9 {
			t.Errorf("e=%v M̅=%v: brandt residual = %v, want < 1e-9", c.e, c.mbar, got)
		}
		if math.Abs(sinE-math.Sin(E)) > 1e-8 || math.Abs(cosE-math.Cos(E)) > 1e-8 {
			t.Errorf("e=%v M̅=%v: brandt analytic sin/cos = (%v, %v), want (%v, %v)",
				c.e, c.mbar, sinE, cosE, math.Sin(E), math.Cos(E))
		}
	}
}

func TestBrandtRefinerBatchMatchesScalar(t *testing.T) {
	e := 0.85
	n := 29
	mbar := make([]float64, n)
	starter := NewRPPBStarter(e)
	guess := make([]float64, n)
	for i := range mbar {
		mbar[i] = math.Pi * float64(i) / float64(n)
		guess[i] = starter.Start(mbar[i])
	}

	E := make([]float64, n)
	sinE := make([]float64, n)
	cosE := make([]float64, n)
	var r BrandtRefiner[float64]
	r.RefineWithEccentricityBatch(e, mbar, guess, E, sinE, cosE)

	for i := range mbar {
		wantE, wantSin, wantCos := r.RefineWithEccentricity(e, mbar[i], guess[i])
		if math.Abs(E[i]-wantE) > 1e-9 || math.Abs(sinE[i]-wantSin) > 1e-9 || math.Abs(cosE[i]-wantCos) > 1e-9 {
			t.Errorf("lane %d: batch = (%v, %v, %v), want (%v, %v, %v)",
				i, E[i], sinE[i], cosE[i], wantE, wantSin, wantCos)
		}
	}
}
