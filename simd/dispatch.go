// Copyright 2025 go-highway Authors
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
	"os"
	"strconv"
	"unsafe"
)

// Level names the detected vector ISA driving the current process's batch
// width.
type Level int

const (
	// LevelScalar means no vector ISA was detected; Width[T]() degrades to 1
	// for every T, and every batched loop runs one lane at a time.
	LevelScalar Level = iota
	// LevelSSE2AVX names a 128/256-bit class x86-64 vector unit.
	LevelSSE2AVX
	// LevelAVX512 names a 512-bit x86-64 vector unit.
	LevelAVX512
	// LevelNEON names a 128-bit ARM vector unit.
	LevelNEON
)

func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelSSE2AVX:
		return "avx"
	case LevelAVX512:
		return "avx512"
	case LevelNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// currentLevel and currentWidthBytes are set by the architecture-specific
// init() in dispatch_amd64.go / dispatch_arm64.go / dispatch_other.go.
var (
	currentLevel      Level
	currentWidthBytes int
)

// CurrentLevel returns the vector ISA driving this process's batch width.
func CurrentLevel() Level { return currentLevel }

// noSIMDEnv mirrors go-highway's HWY_NO_SIMD escape hatch: forcing scalar
// fallback is useful for testing the degraded-width-1 path and for
// reproducing results bit-for-bit across machines.
func noSIMDEnv() bool {
	v := os.Getenv("KEPLERSOLVE_NO_SIMD")
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}

// Width reports the number of T lanes the process drives per batch: the
// host's vector register width (in bytes) divided by sizeof(T), or 1 when no
// vector ISA was detected or KEPLERSOLVE_NO_SIMD disabled it. This mirrors
// go-highway's MaxLanes[T](), whose fallback also guarantees width 1.
func Width[T Floats]() int {
	if currentWidthBytes <= 0 {
		return 1
	}
	var z T
	size := int(unsafe.Sizeof(z))
	if size == 0 {
		return 1
	}
	w := currentWidthBytes / size
	if w < 1 {
		return 1
	}
	return w
}
