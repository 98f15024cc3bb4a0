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

func TestStep1IsNewton(t *testing.T) {
	e, M, E := 0.5, 1.0, 1.0
	s := NewState(e, M, E)
	want := -s.F0 / (1 - s.EccCos)
	if got := Step1(s); math.Abs(got-want) > 1e-15 {
		t.Errorf("Step1 = %v, want %v", got, want)
	}
}

func TestHouseholderOrdersConverge(t *testing.T) {
	e, M := 0.7, 1.3
	for order := 1; order <= 7; order++ {
		E := M // noop initial guess
		var residual float64
		for i := 0; i < 50; i++ {
			s := NewState(e, M, E)
			residual = math.Abs(s.F0)
			if residual < 1e-14 {
				break
			}
			E += Step(order, s)
		}
		if residual > 1e-10 {
			t.Errorf("order %d: residual = %v after iterating, want < 1e-10", order, residual)
		}
	}
}

func TestStepPanicsOutsideRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Step(8, ...) should panic")
		}
	}()
	Step(8, State[float64]{})
}
