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

import "math"

// Float is the constraint satisfied by the two IEEE-754 types the solver
// supports: binary32 (float32) and binary64 (float64).
type Float interface {
	~float32 | ~float64
}

// bits carries a named constant's exact IEEE-754 bit pattern for both
// binary32 and binary64, so that every reconstruction is an integer-to-float
// reinterpretation rather than runtime pi/n arithmetic.
type bits struct {
	f32 uint32
	f64 uint64
}

func value[T Float](b bits) T {
	var z T
	switch any(z).(type) {
	case float32:
		return T(math.Float32frombits(b.f32))
	default:
		return T(math.Float64frombits(b.f64))
	}
}

var (
	piBits          = bits{0x40490fdb, 0x400921fb54442d18}
	twoPiBits       = bits{0x40c90fdb, 0x401921fb54442d18}
	pio2Bits        = bits{0x3fc90fdb, 0x3ff921fb54442d18}
	pio3Bits        = bits{0x3f860a92, 0x3ff0c152382d7365}
	pio4Bits        = bits{0x3f490fdb, 0x3fe921fb54442d18}
	pio6Bits        = bits{0x3f060a92, 0x3fe0c152382d7365}
	pio12Bits       = bits{0x3e860a92, 0x3fd0c152382d7365}
	twoPio3Bits     = bits{0x40060a92, 0x4000c152382d7365}
	threePio4Bits   = bits{0x4016cbe4, 0x4002d97c7f3321d2}
	fivePio6Bits    = bits{0x40278d36, 0x4004f1a6c638d03f}
	fivePio12Bits   = bits{0x3fa78d36, 0x3ff4f1a6c638d03f}
	sevenPio12Bits  = bits{0x3fea927f, 0x3ffd524fe24f89f1}
	elevenPio12Bits = bits{0x40384e88, 0x400709d10d3e7eab}

	twentyPiBits  = bits{0x427b53d1, 0x404f6a7a2955385e}
	twoOverPiBits = bits{0x3f22f983, 0x3fe45f306dc9c883}
	mediumPiBits  = bits{0x43490fdb, 0x412921fb54442d18}

	pio2_1Bits  = bits{0x3fc90f80, 0x3ff921fb54400000}
	pio2_1tBits = bits{0x37354443, 0x3dd0b4611a626331}
	pio2_2Bits  = bits{0x37354400, 0x3dd0b4611a600000}
	pio2_2tBits = bits{0x2e85a308, 0x3ba3198a2e037073}
	pio2_3Bits  = bits{0x2e85a300, 0x3ba3198a2e000000}
	pio2_3tBits = bits{0x248d3132, 0x397b839a252049c1}

	markleyFactor1Bits = bits{0x40f4da39, 0x401e9b471164c596}
	markleyFactor2Bits = bits{0x3fa6450f, 0x3ff4c8a1d518acbd}

	rppbG2sBits = bits{0x3e8483ee, 0x3fd0907dc1930690}
	rppbG3sBits = bits{0x3f000000, 0x3fe0000000000000}
	rppbG4sBits = bits{0x3f3504f3, 0x3fe6a09e667f3bcc}
	rppbG5sBits = bits{0x3f5db3d7, 0x3febb67ae8584caa}
	rppbG6sBits = bits{0x3f7746ea, 0x3feee8dd4748bf15}

	// Coefficients of sin(x) = x - x^3/3! + x^5/5! - ... evaluated in Horner
	// form as x * horner(-x^2; 1, 1/3!, 1/5!, ..., 1/15!).
	shortSin1Bits = bits{0x3e2aaaab, 0x3fc5555555555555} // 1/3!
	shortSin2Bits = bits{0x3c088889, 0x3f81111111111111} // 1/5!
	shortSin3Bits = bits{0x39500d01, 0x3f2a01a01a01a01a} // 1/7!
	shortSin4Bits = bits{0x3638ef1d, 0x3ec71de3a556c734} // 1/9!
	shortSin5Bits = bits{0x32d7322b, 0x3e5ae64567f544e4} // 1/11!
	shortSin6Bits = bits{0x2f309231, 0x3de6124613a86d09} // 1/13!
	shortSin7Bits = bits{0x2b573f9f, 0x3d6ae7f3e733b81f} // 1/15!

	// Reciprocal factorials used to normalize Householder derivative terms.
	invFact2Bits = bits{0x3f000000, 0x3fe0000000000000} // 1/2!
	invFact3Bits = bits{0x3e2aaaab, 0x3fc5555555555555} // 1/3!
	invFact4Bits = bits{0x3d2aaaab, 0x3fa5555555555555} // 1/4!
	invFact5Bits = bits{0x3c088889, 0x3f81111111111111} // 1/5!
	invFact6Bits = bits{0x3ab60b61, 0x3f56c16c16c16c17} // 1/6!
	invFact7Bits = bits{0x39500d01, 0x3f2a01a01a01a01a} // 1/7!
)

func pi[T Float]() T          { return value[T](piBits) }
func twoPi[T Float]() T       { return value[T](twoPiBits) }
func pio2[T Float]() T        { return value[T](pio2Bits) }
func pio3[T Float]() T        { return value[T](pio3Bits) }
func pio4[T Float]() T        { return value[T](pio4Bits) }
func pio6[T Float]() T        { return value[T](pio6Bits) }
func pio12[T Float]() T       { return value[T](pio12Bits) }
func twoPio3[T Float]() T     { return value[T](twoPio3Bits) }
func threePio4[T Float]() T   { return value[T](threePio4Bits) }
func fivePio6[T Float]() T    { return value[T](fivePio6Bits) }
func fivePio12[T Float]() T   { return value[T](fivePio12Bits) }
func sevenPio12[T Float]() T  { return value[T](sevenPio12Bits) }
func elevenPio12[T Float]() T { return value[T](elevenPio12Bits) }

func twentyPi[T Float]() T  { return value[T](twentyPiBits) }
func twoOverPi[T Float]() T { return value[T](twoOverPiBits) }
func mediumPi[T Float]() T  { return value[T](mediumPiBits) }

func pio2_1[T Float]() T  { return value[T](pio2_1Bits) }
func pio2_1t[T Float]() T { return value[T](pio2_1tBits) }
func pio2_2[T Float]() T  { return value[T](pio2_2Bits) }
func pio2_2t[T Float]() T { return value[T](pio2_2tBits) }
func pio2_3[T Float]() T  { return value[T](pio2_3Bits) }
func pio2_3t[T Float]() T { return value[T](pio2_3tBits) }

func markleyFactor1[T Float]() T { return value[T](markleyFactor1Bits) }
func markleyFactor2[T Float]() T { return value[T](markleyFactor2Bits) }

func rppbG2s[T Float]() T { return value[T](rppbG2sBits) }
func rppbG3s[T Float]() T { return value[T](rppbG3sBits) }
func rppbG4s[T Float]() T { return value[T](rppbG4sBits) }
func rppbG5s[T Float]() T { return value[T](rppbG5sBits) }
func rppbG6s[T Float]() T { return value[T](rppbG6sBits) }

func shortSinCoeffs[T Float]() [7]T {
	return [7]T{
		value[T](shortSin1Bits), value[T](shortSin2Bits), value[T](shortSin3Bits),
		value[T](shortSin4Bits), value[T](shortSin5Bits), value[T](shortSin6Bits),
		value[T](shortSin7Bits),
	}
}

func invFactorials[T Float]() [6]T {
	return [6]T{
		value[T](invFact2Bits), value[T](invFact3Bits), value[T](invFact4Bits),
		value[T](invFact5Bits), value[T](invFact6Bits), value[T](invFact7Bits),
	}
}
