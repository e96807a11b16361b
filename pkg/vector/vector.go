// Package vector implements the L0 (HDC vector and strategy) and L1 (HDC
// context) layers: bit-packed dense-binary vectors, the pluggable Strategy
// algebra contract, and a per-session Context that binds a strategy instance
// to a default geometry.
package vector

import (
	"fmt"
	"math/bits"
)

// Vector is a fixed-length, dense, bit-packed semantic vector. It always
// carries its strategy identifier so that mixed-strategy operations fail
// loudly instead of silently producing garbage. Vectors are immutable from
// the caller's perspective: every algebra operation returns a fresh Vector.
type Vector struct {
	StrategyID string
	Geometry   uint32 // bits
	Words      []uint32
}

// NewZero allocates a zero-filled Vector of the given geometry for strategyID.
// Returns BadGeometryError if geometry is not a positive multiple of 32.
func NewZero(strategyID string, geometry uint32) (Vector, error) {
	if geometry == 0 || geometry%32 != 0 {
		return Vector{}, &BadGeometryError{Geometry: geometry}
	}
	return Vector{
		StrategyID: strategyID,
		Geometry:   geometry,
		Words:      make([]uint32, geometry/32),
	}, nil
}

// Compatible reports whether a and b share strategy and geometry.
func (a Vector) Compatible(b Vector) bool {
	return a.StrategyID == b.StrategyID && a.Geometry == b.Geometry
}

// requireCompatible is the standard guard every binary algebra op opens with.
func requireCompatible(a, b Vector) error {
	if !a.Compatible(b) {
		return &IncompatibleVectorsError{
			StrategyA: a.StrategyID, StrategyB: b.StrategyID,
			GeometryA: a.Geometry, GeometryB: b.Geometry,
		}
	}
	return nil
}

// Clone returns an independent copy; no two Vectors ever share backing storage.
func (a Vector) Clone() Vector {
	words := make([]uint32, len(a.Words))
	copy(words, a.Words)
	return Vector{StrategyID: a.StrategyID, Geometry: a.Geometry, Words: words}
}

// Equals reports bit-for-bit equality (strategy and geometry must also match).
func (a Vector) Equals(b Vector) bool {
	if !a.Compatible(b) {
		return false
	}
	for i := range a.Words {
		if a.Words[i] != b.Words[i] {
			return false
		}
	}
	return true
}

// PopCount returns the number of set bits.
func (a Vector) PopCount() int {
	n := 0
	for _, w := range a.Words {
		n += bits.OnesCount32(w)
	}
	return n
}

// HammingDistance returns the number of differing bit positions between a
// and b. Callers must ensure compatibility first (algebra entry points do).
func (a Vector) HammingDistance(b Vector) int {
	n := 0
	for i := range a.Words {
		n += bits.OnesCount32(a.Words[i] ^ b.Words[i])
	}
	return n
}

// String renders a short debug summary, never the raw bits (they're opaque
// to anything outside the strategy that produced them).
func (a Vector) String() string {
	return fmt.Sprintf("Vector{strategy=%s geometry=%d popcount=%d}", a.StrategyID, a.Geometry, a.PopCount())
}

// Serialized is the portable, strategy-agnostic wire form of a Vector. The
// core reads and writes this shape but makes no further guarantees about how
// a caller chooses to store it on disk.
type Serialized struct {
	StrategyID string   `json:"strategy_id"`
	Geometry   uint32   `json:"geometry"`
	Words      []uint32 `json:"words"`
}

// Serialize converts a Vector to its portable form.
func (a Vector) Serialize() Serialized {
	words := make([]uint32, len(a.Words))
	copy(words, a.Words)
	return Serialized{StrategyID: a.StrategyID, Geometry: a.Geometry, Words: words}
}

// Deserialize reconstructs a Vector from its portable form.
func Deserialize(s Serialized) (Vector, error) {
	if s.Geometry == 0 || s.Geometry%32 != 0 {
		return Vector{}, &BadGeometryError{Geometry: s.Geometry}
	}
	words := make([]uint32, len(s.Words))
	copy(words, s.Words)
	return Vector{StrategyID: s.StrategyID, Geometry: s.Geometry, Words: words}, nil
}

// ExtendGeometry grows a vector from its current geometry to newGeometry (a
// multiple of the original) by tiling its words, satisfying the invariant
// that extension preserves XOR/similarity behavior on cloned inputs: every
// doubled copy is bit-identical to the source, so bind/similarity computed
// over a prefix of the extended vector reproduce the original exactly.
func (a Vector) ExtendGeometry(newGeometry uint32) (Vector, error) {
	if newGeometry == 0 || newGeometry%32 != 0 {
		return Vector{}, &BadGeometryError{Geometry: newGeometry}
	}
	if newGeometry < a.Geometry || newGeometry%a.Geometry != 0 {
		return Vector{}, fmt.Errorf("vector: new geometry %d must be a multiple of %d", newGeometry, a.Geometry)
	}
	out := Vector{StrategyID: a.StrategyID, Geometry: newGeometry, Words: make([]uint32, newGeometry/32)}
	reps := int(newGeometry / a.Geometry)
	for r := 0; r < reps; r++ {
		copy(out.Words[r*len(a.Words):], a.Words)
	}
	return out, nil
}
