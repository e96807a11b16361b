// Package vocab implements the L2 Vocabulary: a name-keyed mapping over
// atoms with theory scoping, position vectors, and declared operator/relation
// flags. Vocabulary is owned exclusively by a Session.
package vocab

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
)

// NumPositions is N, the number of preloaded core position atoms (§3: N ≥ 20).
const NumPositions = 20

// ReservedTheory is the theory under which position atoms and reserved
// operator markers are materialized, regardless of the session's own theory.
const ReservedTheory = "Core"

// Reserved operator names: structural markers, never user-declarable.
const (
	OpImplies = "Implies"
	OpAnd     = "And"
	OpOr      = "Or"
	OpNot     = "Not"
	OpExists  = "Exists"
	OpForAll  = "ForAll"
)

var reservedOperators = []string{OpImplies, OpAnd, OpOr, OpNot, OpExists, OpForAll}

// Flags records the per-atom semantic tags the spec requires the Vocabulary
// to track alongside the raw vector.
type Flags struct {
	IsPosition bool
	IsOperator bool
	IsRelation bool
	Transitive bool
	Symmetric  bool
	Reflexive  bool
	// Arity, when IsRelation is true and the relation's argument count has
	// been declared (explicitly, or inferred via autoDeclareUnknownOperators),
	// is the expected argument count; -1 means unconstrained.
	Arity int
}

// Entry is one Vocabulary record: a materialized atom plus its flags.
type Entry struct {
	Name   string
	Vector vector.Vector
	Flags  Flags
}

// Vocabulary is the session-owned name→atom mapping. It is safe for
// concurrent GetOrCreate calls: materialization of a given name happens at
// most once, via singleflight, even under concurrent readers (§5).
type Vocabulary struct {
	ctx      *vector.Context
	theoryID string

	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
	group   singleflight.Group

	positions []vector.Vector
	holes     []vector.Vector
}

// New creates a Vocabulary bound to ctx and theoryID. When autoLoadCore is
// true it preloads the core position and hole atoms and the reserved operator
// markers; when false nothing is preloaded. Operator "packs" are layered in by
// the session via DeclareOperator.
func New(ctx *vector.Context, theoryID string, autoLoadCore bool) (*Vocabulary, error) {
	v := &Vocabulary{
		ctx:      ctx,
		theoryID: theoryID,
		entries:  make(map[string]*Entry),
	}
	if !autoLoadCore {
		return v, nil
	}
	if err := v.preloadPositions(); err != nil {
		return nil, err
	}
	if err := v.preloadReservedOperators(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vocabulary) preloadPositions() error {
	v.positions = make([]vector.Vector, NumPositions)
	v.holes = make([]vector.Vector, NumPositions)
	for i := 1; i <= NumPositions; i++ {
		name := fmt.Sprintf("__Pos%d__", i)
		vec, err := v.materialize(ReservedTheory, name)
		if err != nil {
			return fmt.Errorf("vocab: preload position %d: %w", i, err)
		}
		v.setFlags(name, Flags{IsPosition: true})
		v.positions[i-1] = vec

		holeName := fmt.Sprintf("__Hole%d__", i)
		holeVec, err := v.materialize(ReservedTheory, holeName)
		if err != nil {
			return fmt.Errorf("vocab: preload hole %d: %w", i, err)
		}
		v.holes[i-1] = holeVec
	}
	return nil
}

func (v *Vocabulary) preloadReservedOperators() error {
	for _, op := range reservedOperators {
		if _, err := v.materialize(ReservedTheory, op); err != nil {
			return fmt.Errorf("vocab: preload operator %s: %w", op, err)
		}
		v.setFlags(op, Flags{IsOperator: true, Arity: -1})
	}
	return nil
}

func (v *Vocabulary) key(theory, name string) string {
	return theory + ":" + name
}

// materialize unconditionally creates (or fetches) the atom for
// (theory, name) and registers it in entries/order, bypassing the
// user-facing GetOrCreate's default-theory behavior. Used for reserved atoms.
func (v *Vocabulary) materialize(theory, name string) (vector.Vector, error) {
	composite := v.key(theory, name)
	v.mu.Lock()
	if e, ok := v.entries[composite]; ok {
		v.mu.Unlock()
		return e.Vector, nil
	}
	v.mu.Unlock()

	vec, err, _ := v.group.Do(composite, func() (interface{}, error) {
		return v.ctx.CreateFromName(composite)
	})
	if err != nil {
		return vector.Vector{}, err
	}
	result := vec.(vector.Vector)

	v.mu.Lock()
	defer v.mu.Unlock()
	if e, ok := v.entries[composite]; ok {
		return e.Vector, nil
	}
	v.entries[composite] = &Entry{Name: name, Vector: result}
	v.order = append(v.order, composite)
	return result, nil
}

// GetOrCreate returns the atom for name in this Vocabulary's theory,
// materializing it deterministically if unseen. Trims surrounding whitespace
// per §4.4's normalization rule.
func (v *Vocabulary) GetOrCreate(name string) (*Entry, error) {
	name = strings.TrimSpace(name)
	if _, err := v.materialize(v.theoryID, name); err != nil {
		return nil, err
	}
	return v.Lookup(name), nil
}

// Lookup returns the existing entry for name in this Vocabulary's theory, or
// nil if it has not been materialized yet (no side effect).
func (v *Vocabulary) Lookup(name string) *Entry {
	name = strings.TrimSpace(name)
	composite := v.key(v.theoryID, name)
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.entries[composite]
}

// LookupReserved returns a reserved-theory entry (position/operator marker)
// by its bare reserved name.
func (v *Vocabulary) LookupReserved(name string) *Entry {
	composite := v.key(ReservedTheory, name)
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.entries[composite]
}

// setFlags replaces the flags of the entry for (v.theoryID-or-reserved, name),
// whichever is already materialized; it is only called right after
// materialize so the entry is guaranteed present.
func (v *Vocabulary) setFlags(name string, flags Flags) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, theory := range []string{ReservedTheory, v.theoryID} {
		composite := v.key(theory, name)
		if e, ok := v.entries[composite]; ok {
			e.Flags = flags
			return
		}
	}
}

// DeclareOperator marks name as a declared operator/relation with the given
// flags, materializing it in this Vocabulary's theory if necessary. Used for
// the "pack" of definitions preloaded at session startup and for
// autoDeclareUnknownOperators promotions.
func (v *Vocabulary) DeclareOperator(name string, flags Flags) error {
	flags.IsOperator = true
	flags.IsRelation = true
	if _, err := v.GetOrCreate(name); err != nil {
		return err
	}
	v.setFlags(name, flags)
	return nil
}

// OperatorFlags returns the declared flags for an operator name, checking
// the reserved markers first, then the session theory. ok is false if name
// has never been declared or used.
func (v *Vocabulary) OperatorFlags(name string) (Flags, bool) {
	name = strings.TrimSpace(name)
	if e := v.LookupReserved(name); e != nil {
		return e.Flags, true
	}
	if e := v.Lookup(name); e != nil {
		return e.Flags, true
	}
	return Flags{}, false
}

// Position returns the i'th position atom (1-indexed, 1..NumPositions).
func (v *Vocabulary) Position(i int) (vector.Vector, error) {
	if i < 1 || i > NumPositions {
		return vector.Vector{}, fmt.Errorf("vocab: position %d out of range [1,%d]", i, NumPositions)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.positions[i-1], nil
}

// HoleAt returns the i'th placeholder atom used to encode a variable
// argument at position i, so a rule pattern's vector is well-defined
// regardless of the variable's actual name.
func (v *Vocabulary) HoleAt(i int) (vector.Vector, error) {
	if i < 1 || i > NumPositions {
		return vector.Vector{}, fmt.Errorf("vocab: hole %d out of range [1,%d]", i, NumPositions)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.holes[i-1], nil
}

// Entries implements vector.VocabLookup, enumerating in insertion order —
// determinism for logs and for TopKSimilar tie-breaking.
func (v *Vocabulary) Entries() []vector.NamedVector {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]vector.NamedVector, 0, len(v.order))
	prefix := v.theoryID + ":"
	for _, composite := range v.order {
		if !strings.HasPrefix(composite, prefix) {
			continue
		}
		e := v.entries[composite]
		if e.Flags.IsPosition {
			continue
		}
		out = append(out, vector.NamedVector{Name: e.Name, Vector: e.Vector})
	}
	return out
}

// IsVariable reports whether a DSL argument token denotes a variable/hole
// (syntactic prefix "?").
func IsVariable(token string) bool {
	return strings.HasPrefix(token, "?")
}
