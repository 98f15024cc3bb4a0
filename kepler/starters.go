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

	"github.com/orbitkit/keplersolve/simd"
)

// Starter produces an initial eccentric-anomaly guess Ẽ from a mean anomaly
// M̅ already reduced into [0, pi], at a fixed eccentricity.
type Starter[T Float] interface {
	Start(meanAnomaly T) T
}

// NoopStarter returns M̅ unchanged; useful for isolating a refiner's own
// convergence behavior in tests.
type NoopStarter[T Float] struct{}

func (NoopStarter[T]) Start(meanAnomaly T) T { return meanAnomaly }

// BasicStarter applies the crudest fixed offset, 0.85*e, regardless of M̅.
type BasicStarter[T Float] struct {
	Eccentricity T
}

func (s BasicStarter[T]) Start(meanAnomaly T) T {
	return meanAnomaly + T(0.85)*s.Eccentricity
}

// MikkolaStarter implements the cubic approximation of Mikkola (1987).
type MikkolaStarter[T Float] struct {
	eccentricity T
	factor       T
	alpha        T
	alpha3       T
}

func NewMikkolaStarter[T Float](eccentricity T) MikkolaStarter[T] {
	factor := 1 / (4*eccentricity + 0.5)
	alpha := (1 - eccentricity) * factor
	return MikkolaStarter[T]{
		eccentricity: eccentricity,
		factor:       factor,
		alpha:        alpha,
		alpha3:       alpha * alpha * alpha,
	}
}

func (s MikkolaStarter[T]) Start(meanAnomaly T) T {
	beta := T(0.5) * meanAnomaly * s.factor
	z := cbrtT(beta + copysignT(sqrtT(beta*beta+s.alpha3), beta))
	ss := z - s.alpha/z
	ss -= T(0.078) * powOdd5(ss) / (1 + s.eccentricity)
	return meanAnomaly + s.eccentricity*ss*(3-4*ss*ss)
}

func powOdd5[T Float](x T) T {
	x2 := x * x
	return x * x2 * x2
}

func copysignT[T Float](magnitude, sign T) T {
	return T(math.Copysign(float64(magnitude), float64(sign)))
}

func cbrtT[T Float](x T) T { return T(math.Cbrt(float64(x))) }

// MarkleyStarter implements the quintic-accurate approximation of Markley
// (1995).
type MarkleyStarter[T Float] struct {
	Eccentricity T
}

func (s MarkleyStarter[T]) Start(meanAnomaly T) T {
	e := s.Eccentricity
	m2 := meanAnomaly * meanAnomaly
	ome := 1 - e

	alpha := markleyFactor1[T]() + markleyFactor2[T]()*(pi[T]()-meanAnomaly)/(1+e)
	d := 3*ome + alpha*e
	alpha *= d

	r := meanAnomaly * (3*alpha*(d-ome) + m2)
	q := 2*alpha*ome - m2
	q2 := q * q

	w := cbrtT(absT(r) + sqrtT(q2*q+r*r))
	w *= w

	denom := w*(w+q) + q2
	return (2*r*w/denom + meanAnomaly) / d
}

func absT[T Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// RPPBStarter implements the piecewise-quintic lookup of Raposo-Pulido &
// Pelaez (2017) / Brandt (2021), with a series-expansion fallback in the
// singular corner (e close to 1, M̅ close to 0).
type RPPBStarter[T Float] struct {
	eccentricity T
	ome          T
	sqrtOme      T
	bounds       [13]T
	table        [78]T
}

func NewRPPBStarter[T Float](eccentricity T) *RPPBStarter[T] {
	s := &RPPBStarter[T]{
		eccentricity: eccentricity,
		ome:          1 - eccentricity,
	}
	s.sqrtOme = sqrtT(s.ome)

	g2s := rppbG2s[T]() * eccentricity
	g3s := rppbG3s[T]() * eccentricity
	g4s := rppbG4s[T]() * eccentricity
	g5s := rppbG5s[T]() * eccentricity
	g6s := rppbG6s[T]() * eccentricity
	g2c, g3c, g4c, g5c, g6c := g6s, g5s, g4s, g3s, g2s

	b := &s.bounds
	b[0] = 0
	b[1] = pio12[T]() - g2s
	b[2] = pio6[T]() - g3s
	b[3] = pio4[T]() - g4s
	b[4] = pio3[T]() - g5s
	b[5] = fivePio12[T]() - g6s
	b[6] = pio2[T]() - eccentricity
	b[7] = sevenPio12[T]() - g6s
	b[8] = twoPio3[T]() - g5s
	b[9] = threePio4[T]() - g4s
	b[10] = fivePio6[T]() - g3s
	b[11] = elevenPio12[T]() - g2s
	b[12] = pi[T]()

	t := &s.table
	t[1] = 1 / (1 - eccentricity)
	t[2] = 0

	endpointDeriv := func(gc, gs T) (T, T) {
		x := 1 / (1 - gc)
		return x, -T(0.5) * gs * x * x * x
	}
	t[7], t[8] = endpointDeriv(g2c, g2s)
	t[13], t[14] = endpointDeriv(g3c, g3s)
	t[19], t[20] = endpointDeriv(g4c, g4s)
	t[25], t[26] = endpointDeriv(g5c, g5s)
	t[31], t[32] = endpointDeriv(g6c, g6s)

	t[37] = 1
	t[38] = -T(0.5) * eccentricity

	endpointDerivPlus := func(gc, gs T) (T, T) {
		x := 1 / (1 + gc)
		return x, -T(0.5) * gs * x * x * x
	}
	t[43], t[44] = endpointDerivPlus(g6c, g6s)
	t[49], t[50] = endpointDerivPlus(g5c, g5s)
	t[55], t[56] = endpointDerivPlus(g4c, g4s)
	t[61], t[62] = endpointDerivPlus(g3c, g3s)
	t[67], t[68] = endpointDerivPlus(g2c, g2s)

	t[73] = 1 / (1 + eccentricity)
	t[74] = 0

	for i := 0; i < 12; i++ {
		k := 6 * i
		t[k] = T(i) * pio12[T]()

		idx := 1 / (b[i+1] - b[i])
		B0 := idx * (-t[k+2] - idx*(t[k+1]-idx*pio12[T]()))
		B1 := idx * (-2*t[k+2] - idx*(t[k+1]-t[k+7]))
		B2 := idx * (t[k+8] - t[k+2])

		t[k+3] = B2 - 4*B1 + 10*B0
		t[k+4] = (-2*B2 + 7*B1 - 15*B0) * idx
		t[k+5] = (B2 - 3*B1 + 6*B0) * idx * idx
	}

	return s
}

// Singular is the series-expansion fallback used near e -> 1, M̅ -> 0, where
// the piecewise lookup loses accuracy.
func (s *RPPBStarter[T]) Singular(meanAnomaly T) T {
	tiny := T(1e-300)
	if meanAnomaly < tiny {
		return 0
	}
	chi := meanAnomaly / (s.ome * s.sqrtOme)
	lambda := sqrtT(8 + 9*chi*chi)
	ss := cbrtT(lambda + 3*chi)
	ss *= ss
	sigma := 6 * chi / (2 + ss + 4/ss)
	s2 := sigma * sigma
	denom := 1 / (s2 + 2)
	arg := s2 * s.ome * denom * denom * (s2*(s2*(s2+25)+340) + 840)
	e := 1 + s2*s.ome*denom*((s2+20)/60+arg/1400)
	return sigma * s.sqrtOme * e
}

// Lookup evaluates the 12-segment piecewise-quintic polynomial directly,
// without the singular-corner fallback.
func (s *RPPBStarter[T]) Lookup(meanAnomaly T) T {
	j := 11
	for j > 0 {
		if meanAnomaly > s.bounds[j] {
			break
		}
		j--
	}
	k := 6 * j
	dx := meanAnomaly - s.bounds[j]
	t := s.table
	return t[k] + dx*(t[k+1]+dx*(t[k+2]+dx*(t[k+3]+dx*(t[k+4]+dx*t[k+5]))))
}

func (s *RPPBStarter[T]) Start(meanAnomaly T) T {
	if s.eccentricity < T(0.78) || 2*meanAnomaly+s.ome > T(0.2) {
		return s.Lookup(meanAnomaly)
	}
	return s.Singular(meanAnomaly)
}

// StartBatch is the lane-wise form of Start: both the lookup and the
// singular-corner branches are computed for every lane, and the result is
// picked by mask, mirroring the branch-lean batch schedule of the
// originating implementation.
func (s *RPPBStarter[T]) StartBatch(meanAnomaly []T, out []T) {
	n := len(meanAnomaly)
	w := simd.Width[T]()
	eccv := simd.Set[T](s.eccentricity)
	omev := simd.Set[T](s.ome)
	pt78 := simd.Set[T](0.78)
	pt2 := simd.Set[T](0.2)
	two := simd.Set[T](2)

	for i := 0; i < n; i += w {
		end := i + w
		if end > n {
			end = n
		}
		mv := simd.Load(meanAnomaly[i:end])

		flag := simd.Or(simd.Less(eccv, pt78), simd.Greater(simd.Add(simd.Mul(two, mv), omev), pt2))

		lookup := s.lookupVec(mv)
		singular := s.singularVec(mv)

		result := simd.Select(flag, lookup, singular)
		simd.Store(result, out[i:end])
	}
}

func (s *RPPBStarter[T]) lookupVec(mv simd.Vec[T]) simd.Vec[T] {
	eccAnom := mv
	active := simd.FullMask[T](mv.NumLanes())
	zero := simd.Zero[T]()

	for j := 11; j >= 0; j-- {
		k := 6 * j
		t := s.table
		dxv := simd.Sub(mv, simd.Set[T](s.bounds[j]))
		m := simd.GreaterEqual(dxv, zero)

		y := simd.Set[T](t[k+5])
		y = simd.MulAdd(dxv, y, simd.Set[T](t[k+4]))
		y = simd.MulAdd(dxv, y, simd.Set[T](t[k+3]))
		y = simd.MulAdd(dxv, y, simd.Set[T](t[k+2]))
		y = simd.MulAdd(dxv, y, simd.Set[T](t[k+1]))
		y = simd.MulAdd(dxv, y, simd.Set[T](t[k]))

		eccAnom = simd.Select(simd.And(m, active), y, eccAnom)
		active = simd.And(active, simd.Not(m))
		if !active.Any() {
			break
		}
	}
	return eccAnom
}

func (s *RPPBStarter[T]) singularVec(mv simd.Vec[T]) simd.Vec[T] {
	omev := simd.Set[T](s.ome)
	chi := simd.Div(mv, simd.Set[T](s.ome*s.sqrtOme))
	lambda := simd.Sqrt(simd.MulAdd(simd.Mul(simd.Set[T](9), chi), chi, simd.Set[T](8)))
	ss := simd.Cbrt(simd.MulAdd(simd.Set[T](3), chi, lambda))
	ss = simd.Mul(ss, ss)
	sigma := simd.Div(simd.Mul(simd.Set[T](6), chi), simd.Add(simd.Add(simd.Set[T](2), ss), simd.Div(simd.Set[T](4), ss)))
	s2 := simd.Mul(sigma, sigma)
	denom := simd.Div(simd.Set[T](1), simd.Add(s2, simd.Set[T](2)))

	inner := simd.Add(simd.Mul(s2, simd.Add(s2, simd.Set[T](25))), simd.Set[T](340))
	inner = simd.Add(simd.Mul(s2, inner), simd.Set[T](840))
	arg := simd.Mul(simd.Mul(s2, omev), simd.Mul(simd.Mul(denom, denom), inner))

	low := simd.Div(simd.Add(s2, simd.Set[T](20)), simd.Set[T](60))
	bracket := simd.Add(low, simd.Div(arg, simd.Set[T](1400)))
	e := simd.Add(simd.Set[T](1), simd.Mul(simd.Mul(s2, omev), simd.Mul(denom, bracket)))

	return simd.Mul(simd.Mul(sigma, simd.Set[T](s.sqrtOme)), e)
}
