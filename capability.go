/*
 * Copyright the rsonpath-go contributors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package rsonpath

import "github.com/klauspost/cpuid/v2"

// Tier is the SIMD capability tier the engine dispatches on, fixed once at
// construction per spec.md §9 ("Capability dispatch...chosen once at
// engine construction...no per-block branching").
type Tier int

const (
	TierScalar Tier = iota
	TierSSSE3
	TierAVX2
)

// String renders the tier the way `rq version` advertises it, per
// spec.md §6.
func (t Tier) String() string {
	switch t {
	case TierAVX2:
		return "avx2"
	case TierSSSE3:
		return "ssse3"
	default:
		return "scalar"
	}
}

// Capabilities is the frozen capability snapshot taken at engine
// construction. Grounded on simdjson_amd64.go's SupportedCPU, which gates
// the whole teacher engine on cpuid.CPU.Supports(cpuid.AVX2, cpuid.CLMUL).
type Capabilities struct {
	Tier       Tier
	FastQuotes bool // CLMUL present: the quote classifier could use the hardware carryless multiply
	FastPopcnt bool // POPCNT present
}

// DetectCapabilities inspects the host CPU once. The classifiers
// themselves are portable Go in this implementation (per spec.md §1's
// carve-out of per-target SIMD intrinsics as an external concern,
// mirrored by the teacher's own simdjson_other.go fallback, which is pure
// Go on platforms without assembly kernels) — this snapshot only decides
// what tier is reported and which of the two interchangeable classifier
// implementations (see quote_classifier.go) is wired into the engine.
func DetectCapabilities() Capabilities {
	c := Capabilities{
		Tier:       TierScalar,
		FastQuotes: cpuid.CPU.Has(cpuid.CLMUL),
		FastPopcnt: cpuid.CPU.Has(cpuid.POPCNT),
	}
	switch {
	case cpuid.CPU.Supports(cpuid.AVX2, cpuid.CLMUL):
		c.Tier = TierAVX2
	case cpuid.CPU.Has(cpuid.SSSE3):
		c.Tier = TierSSSE3
	}
	return c
}
