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

func TestNoopStarter(t *testing.T) {
	var s NoopStarter[float64]
	if got := s.Start(1.23); got != 1.23 {
		t.Errorf("NoopStarter.Start = %v, want 1.23", got)
	}
}

func TestBasicStarter(t *testing.T) {
	s := BasicStarter[float64]{Eccentricity: 0.4}
	want := 1.0 + 0.85*0.4
	if got := s.Start(1.0); math.Abs(got-want) > 1e-15 {
		t.Errorf("BasicStarter.Start = %v, want %v", got, want)
	}
}

func TestMikkolaStarterReasonableGuess(t *testing.T) {
	e := 0.3
	mbar := 1.0
	s := NewMikkolaStarter(e)
	guess := s.Start(mbar)
	// The starter's residual against Kepler's equation should already be small.
	residual := math.Abs(guess - e*math.Sin(guess) - mbar)
	if residual > 0.05 {
		t.Errorf("mikkola starter residual = %v, want < 0.05", residual)
	}
}

func TestMarkleyStarterReasonableGuess(t *testing.T) {
	e := 0.6
	mbar := 2.0
	s := MarkleyStarter[float64]{Eccentricity: e}
	guess := s.Start(mbar)
	residual := math.Abs(guess - e*math.Sin(guess) - mbar)
	if residual > 1e-3 {
		t.Errorf("markley starter residual = %v, want < 1e-3", residual)
	}
}

func TestRPPBStarterEndpoints(t *testing.T) {
	for _, e := range []float64{0.0, 0.3, 0.9} {
		s := NewRPPBStarter(e)
		if got := s.Start(0); math.Abs(got) > 1e-9 {
			t.Errorf("e=%v: rppb.Start(0) = %v, want ~0", e, got)
		}
		if got := s.Start(math.Pi); math.Abs(got-math.Pi) > 1e-6 {
			t.Errorf("e=%v: rppb.Start(pi) = %v, want ~pi", e, got)
		}
	}
}

func TestRPPBStarterMonotonic(t *testing.T) {
	s := NewRPPBStarter(0.85)
	const n = 2000
	prev := -1.0
	for i := 0; i <= n; i++ {
		mbar := math.Pi * float64(i) / n
		got := s.Start(mbar)
		if got < prev-1e-9 {
			t.Fatalf("rppb starter not monotonic at i=%d: M̅=%v E̅=%v < prev %v", i, mbar, got, prev)
		}
		prev = got
	}
}

func TestRPPBStarterSingularCorner(t *testing.T) {
	s := NewRPPBStarter(0.99)
	guess := s.Start(1e-6)
	if math.IsNaN(guess) || guess < 0 {
		t.Errorf("rppb singular-corner start = %v, want a small non-negative number", guess)
	}
}

func TestRPPBStartBatchMatchesScalar(t *testing.T) {
	s := NewRPPBStarter(0.85)
	n := 23
	m := make([]float64, n)
	for i := range m {
		m[i] = math.Pi * float64(i) / float64(n)
	}
	out := make([]float64, n)
	s.StartBatch(m, out)
	for i := range m {
		want := s.Start(m[i])
		if math.Abs(out[i]-want) > 1e-9 {
			t.Errorf("lane %d: StartBatch = %v, want %v", i, out[i], want)
		}
	}
}
