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

import (
	stdmath "math"
	"testing"
)

func TestAddSubMulDiv(t *testing.T) {
	a := Load([]float64{1, 2, 3, 4})
	b := Load([]float64{4, 3, 2, 1})

	tests := []struct {
		name string
		got  Vec[float64]
		want []float64
	}{
		{"add", Add(a, b), []float64{5, 5, 5, 5}},
		{"sub", Sub(a, b), []float64{-3, -1, 1, 3}},
		{"mul", Mul(a, b), []float64{4, 6, 6, 4}},
		{"div", Div(a, b), []float64{0.25, 2.0 / 3, 1.5, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, w := range tt.want {
				if stdmath.Abs(tt.got.Data()[i]-w) > 1e-12 {
					t.Errorf("lane %d = %v, want %v", i, tt.got.Data()[i], w)
				}
			}
		})
	}
}

func TestMulAddFMA(t *testing.T) {
	a := Set[float64](2)
	b := Set[float64](3)
	c := Set[float64](1)
	got := MulAdd(a, b, c)
	for _, v := range got.Data() {
		if v != 7 {
			t.Fatalf("MulAdd = %v, want 7", v)
		}
	}
}

func TestSelect(t *testing.T) {
	a := Load([]float64{1, 2, 3, 4})
	b := Load([]float64{10, 20, 30, 40})
	mask := Greater(a, Set[float64](2))
	got := Select(mask, a, b)
	want := []float64{10, 20, 3, 4}
	for i, w := range want {
		if got.Data()[i] != w {
			t.Errorf("lane %d = %v, want %v", i, got.Data()[i], w)
		}
	}
}

func TestWidthDegradesToOne(t *testing.T) {
	savedLevel, savedWidth := currentLevel, currentWidthBytes
	defer func() { currentLevel, currentWidthBytes = savedLevel, savedWidth }()

	currentLevel, currentWidthBytes = LevelScalar, 0
	if w := Width[float64](); w != 1 {
		t.Fatalf("Width[float64]() = %d, want 1 in scalar mode", w)
	}
	if w := Width[float32](); w != 1 {
		t.Fatalf("Width[float32]() = %d, want 1 in scalar mode", w)
	}
}

func TestLoadPartialBatch(t *testing.T) {
	savedLevel, savedWidth := currentLevel, currentWidthBytes
	defer func() { currentLevel, currentWidthBytes = savedLevel, savedWidth }()
	currentLevel, currentWidthBytes = LevelSSE2AVX, 32 // 4 lanes of float64

	v := Load([]float64{1, 2})
	if v.NumLanes() != 2 {
		t.Fatalf("NumLanes() = %d, want 2 for a short trailing slice", v.NumLanes())
	}
}

func TestCbrtSqrt(t *testing.T) {
	v := Load([]float64{27, 4})
	c := Cbrt(v)
	if stdmath.Abs(c.Data()[0]-3) > 1e-12 {
		t.Errorf("Cbrt(27) = %v, want 3", c.Data()[0])
	}
	s := Sqrt(v)
	if stdmath.Abs(s.Data()[1]-2) > 1e-12 {
		t.Errorf("Sqrt(4) = %v, want 2", s.Data()[1])
	}
}
