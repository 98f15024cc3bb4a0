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

func TestRangeReduceSmall(t *testing.T) {
	tests := []struct {
		x        float64
		wantXR   float64
		wantHigh bool
	}{
		{0, 0, false},
		{math.Pi / 8, math.Pi / 8, false},
		{math.Pi / 2, math.Pi / 2, false},
		{math.Pi, math.Pi, true},
		{3 * math.Pi / 2, math.Pi / 2, true},
		{2 * math.Pi, 0, true},
	}
	for _, tt := range tests {
		xr, high := RangeReduce(tt.x)
		if math.Abs(xr-tt.wantXR) > 1e-9 || high != tt.wantHigh {
			t.Errorf("RangeReduce(%v) = (%v, %v), want (%v, %v)", tt.x, xr, high, tt.wantXR, tt.wantHigh)
		}
	}
}

func TestRangeReduceReconstructsOriginal(t *testing.T) {
	for _, x := range []float64{0.1, 1.5, 10.3, 40.0, 62.0, 500.0} {
		xr, high := RangeReduce(x)
		// sin(original) must equal sin(high ? -xr : xr) and cos(original) = cos(xr).
		var folded float64
		if high {
			folded = -xr
		} else {
			folded = xr
		}
		if math.Abs(math.Sin(x)-math.Sin(folded)) > 1e-9 {
			t.Errorf("sin mismatch for x=%v: sin(x)=%v sin(folded)=%v", x, math.Sin(x), math.Sin(folded))
		}
		if math.Abs(math.Cos(x)-math.Cos(xr)) > 1e-9 {
			t.Errorf("cos mismatch for x=%v: cos(x)=%v cos(xr)=%v", x, math.Cos(x), math.Cos(xr))
		}
	}
}

func TestRangeReduceNaNAndInf(t *testing.T) {
	if xr, _ := RangeReduce(math.NaN()); !math.IsNaN(xr) {
		t.Errorf("RangeReduce(NaN) = %v, want NaN", xr)
	}
	if xr, _ := RangeReduce(math.Inf(1)); !math.IsNaN(xr) {
		t.Errorf("RangeReduce(+Inf) = %v, want NaN", xr)
	}
}

func TestRangeReduceBatchMatchesScalar(t *testing.T) {
	n := 37
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i) * 0.9
	}
	xr := make([]float64, n)
	high := make([]bool, n)
	RangeReduceBatch(x, xr, high)

	for i := range x {
		wantXR, wantHigh := RangeReduce(x[i])
		if math.Abs(xr[i]-wantXR) > 1e-9 || high[i] != wantHigh {
			t.Errorf("lane %d: RangeReduceBatch = (%v, %v), want (%v, %v)", i, xr[i], high[i], wantXR, wantHigh)
		}
	}
}

func TestRangeReduceBatchOverflowFallback(t *testing.T) {
	x := []float64{0.5, 500.0, 1.2, 1000.0}
	xr := make([]float64, len(x))
	high := make([]bool, len(x))
	RangeReduceBatch(x, xr, high)

	for i := range x {
		wantXR, wantHigh := RangeReduce(x[i])
		if math.Abs(xr[i]-wantXR) > 1e-8 || high[i] != wantHigh {
			t.Errorf("lane %d: RangeReduceBatch = (%v, %v), want (%v, %v)", i, xr[i], high[i], wantXR, wantHigh)
		}
	}
}
