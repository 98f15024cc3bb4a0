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

// State is the cached evaluation of f(E) = E - e*sin(E) - M and its first two
// derivatives' building blocks at the current iterate, reused by every order
// of Step.
type State[T Float] struct {
	F0      T // E - e*sin(E) - M
	EccSin  T // e*sin(E)
	EccCos  T // e*cos(E)
}

// NewState builds the Householder state at eccentricAnomaly for the given
// eccentricity and meanAnomaly. eccentricAnomaly is expected in [0, pi], the
// same domain SinCos accepts.
func NewState[T Float](eccentricity, meanAnomaly, eccentricAnomaly T) State[T] {
	sin, cos := SinCos(eccentricAnomaly)
	eccSin := eccentricity * sin
	eccCos := eccentricity * cos
	f0 := eccentricAnomaly - eccSin - meanAnomaly
	return State[T]{F0: f0, EccSin: eccSin, EccCos: eccCos}
}

// f^(n)(E)/n! for n = 2..7, derived from f(E) = E - e*sin(E) - M: the even
// derivatives are +/-e*sin(E), the odd ones (n>=3) are +/-e*cos(E), with sign
// flipping every two terms starting at n=4.
func (s State[T]) a2() T { return s.EccSin * invFactorials[T]()[0] }
func (s State[T]) a3() T { return s.EccCos * invFactorials[T]()[1] }
func (s State[T]) a4() T { return -s.EccSin * invFactorials[T]()[2] }
func (s State[T]) a5() T { return -s.EccCos * invFactorials[T]()[3] }
func (s State[T]) a6() T { return s.EccSin * invFactorials[T]()[4] }
func (s State[T]) a7() T { return s.EccCos * invFactorials[T]()[5] }

// Step1 is Newton's method.
func Step1[T Float](s State[T]) T {
	a1 := 1 - s.EccCos
	return -s.F0 / a1
}

// Step2 is Halley's irrational form.
func Step2[T Float](s State[T]) T {
	a1 := 1 - s.EccCos
	a2 := s.a2()
	d1 := -s.F0 / a1
	return -s.F0 / (a1 + d1*a2)
}

// Step3 is Halley's rational form.
func Step3[T Float](s State[T]) T {
	a1 := 1 - s.EccCos
	a2, a3 := s.a2(), s.a3()
	d1 := -s.F0 / a1
	d2 := -s.F0 / (a1 + d1*a2)
	return -s.F0 / (a1 + d2*(a2+d2*a3))
}

// Step4 is the fourth-order Householder update.
func Step4[T Float](s State[T]) T {
	a1 := 1 - s.EccCos
	a2, a3, a4 := s.a2(), s.a3(), s.a4()
	d1 := -s.F0 / a1
	d2 := -s.F0 / (a1 + d1*a2)
	d3 := -s.F0 / (a1 + d2*(a2+d2*a3))
	return -s.F0 / (a1 + d3*(a2+d3*(a3+d3*a4)))
}

// Step5 is the fifth-order Householder update.
func Step5[T Float](s State[T]) T {
	a1 := 1 - s.EccCos
	a2, a3, a4, a5 := s.a2(), s.a3(), s.a4(), s.a5()
	d1 := -s.F0 / a1
	d2 := -s.F0 / (a1 + d1*a2)
	d3 := -s.F0 / (a1 + d2*(a2+d2*a3))
	d4 := -s.F0 / (a1 + d3*(a2+d3*(a3+d3*a4)))
	return -s.F0 / (a1 + d4*(a2+d4*(a3+d4*(a4+d4*a5))))
}

// Step6 is the sixth-order Householder update.
func Step6[T Float](s State[T]) T {
	a1 := 1 - s.EccCos
	a2, a3, a4, a5, a6 := s.a2(), s.a3(), s.a4(), s.a5(), s.a6()
	d1 := -s.F0 / a1
	d2 := -s.F0 / (a1 + d1*a2)
	d3 := -s.F0 / (a1 + d2*(a2+d2*a3))
	d4 := -s.F0 / (a1 + d3*(a2+d3*(a3+d3*a4)))
	d5 := -s.F0 / (a1 + d4*(a2+d4*(a3+d4*(a4+d4*a5))))
	return -s.F0 / (a1 + d5*(a2+d5*(a3+d5*(a4+d5*(a5+d5*a6)))))
}

// Step7 is the seventh-order Householder update.
func Step7[T Float](s State[T]) T {
	a1 := 1 - s.EccCos
	a2, a3, a4, a5, a6, a7 := s.a2(), s.a3(), s.a4(), s.a5(), s.a6(), s.a7()
	d1 := -s.F0 / a1
	d2 := -s.F0 / (a1 + d1*a2)
	d3 := -s.F0 / (a1 + d2*(a2+d2*a3))
	d4 := -s.F0 / (a1 + d3*(a2+d3*(a3+d3*a4)))
	d5 := -s.F0 / (a1 + d4*(a2+d4*(a3+d4*(a4+d4*a5))))
	d6 := -s.F0 / (a1 + d5*(a2+d5*(a3+d5*(a4+d5*(a5+d5*a6)))))
	return -s.F0 / (a1 + d6*(a2+d6*(a3+d6*(a4+d6*(a5+d6*(a6+d6*a7))))))
}

// Step dispatches to the hand-specialized StepN function for order, which
// must be in 1..7. It exists for call sites (NonIterativeRefiner,
// IterativeRefiner) that
// take order as a runtime value; each branch it selects is itself
// straight-line, fully unrolled code with no loop or tuple machinery.
func Step[T Float](order int, s State[T]) T {
	switch order {
	case 1:
		return Step1(s)
	case 2:
		return Step2(s)
	case 3:
		return Step3(s)
	case 4:
		return Step4(s)
	case 5:
		return Step5(s)
	case 6:
		return Step6(s)
	case 7:
		return Step7(s)
	default:
		panic("kepler: householder order must be in 1..7")
	}
}
