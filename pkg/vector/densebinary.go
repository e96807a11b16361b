package vector

import (
	"crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"sort"
)

// DenseBinaryID identifies the baseline dense-binary XOR strategy.
const DenseBinaryID = "DenseBinary"

// denseBinary is the baseline HDC strategy: XOR bind/unbind, majority-vote
// bundle, normalized-Hamming similarity. It carries no per-session state, so
// it does not implement InstantiableStrategy; Registry.New returns a fresh,
// stateless value from its factory on every call.
type denseBinary struct{}

// NewDenseBinary constructs the baseline strategy.
func NewDenseBinary() Strategy { return denseBinary{} }

func (denseBinary) ID() string { return DenseBinaryID }

func (s denseBinary) CreateZero(geometry uint32) (Vector, error) {
	return NewZero(s.ID(), geometry)
}

func (s denseBinary) CreateRandom(geometry uint32, seed int64) (Vector, error) {
	v, err := NewZero(s.ID(), geometry)
	if err != nil {
		return Vector{}, err
	}
	if seed != 0 {
		fillSplitmix(v.Words, uint64(seed))
		return v, nil
	}
	buf := make([]byte, len(v.Words)*4)
	if _, err := rand.Read(buf); err != nil {
		return Vector{}, err
	}
	for i := range v.Words {
		v.Words[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return v, nil
}

// CreateFromName is the deterministic "ASCII stamping" construction: the
// name's bytes stamp a repeating pattern across the vector, XORed with a
// PRNG stream seeded by a stable hash of name. Callers that need theory
// scoping (distinct vectors for the same name in different theories) pass a
// composite key (e.g. "theoryId:name") — this function is referentially
// transparent in whatever string it is given.
func (s denseBinary) CreateFromName(name string, geometry uint32) (Vector, error) {
	v, err := NewZero(s.ID(), geometry)
	if err != nil {
		return Vector{}, err
	}
	nameBytes := []byte(name)
	if len(nameBytes) == 0 {
		nameBytes = []byte{0}
	}
	nBytes := len(v.Words) * 4
	stamp := make([]byte, nBytes)
	for i := range stamp {
		stamp[i] = nameBytes[i%len(nameBytes)]
	}

	seed := stableHash(name)
	stream := make([]uint32, len(v.Words))
	fillSplitmix(stream, seed)

	for i := 0; i < len(v.Words); i++ {
		b := binary.LittleEndian.Uint32(stamp[i*4:])
		v.Words[i] = b ^ stream[i]
	}
	return v, nil
}

func (s denseBinary) DeserializeVector(ser Serialized) (Vector, error) {
	return Deserialize(ser)
}

func (s denseBinary) Bind(a, b Vector) (Vector, error) {
	if err := requireCompatible(a, b); err != nil {
		return Vector{}, err
	}
	out := a.Clone()
	for i := range out.Words {
		out.Words[i] ^= b.Words[i]
	}
	return out, nil
}

func (s denseBinary) BindAll(vs ...Vector) (Vector, error) {
	if len(vs) == 0 {
		return Vector{}, nil
	}
	acc := vs[0].Clone()
	for _, v := range vs[1:] {
		bound, err := s.Bind(acc, v)
		if err != nil {
			return Vector{}, err
		}
		acc = bound
	}
	return acc, nil
}

// Bundle performs bit-wise majority vote across vs. Ties (even count, exactly
// half set) are resolved by tieBreak(pos); a nil tieBreak defaults every tied
// bit to 0.
func (s denseBinary) Bundle(vs []Vector, tieBreak TieBreaker) (Vector, error) {
	if len(vs) == 0 {
		return Vector{}, nil
	}
	for _, v := range vs[1:] {
		if err := requireCompatible(vs[0], v); err != nil {
			return Vector{}, err
		}
	}
	if tieBreak == nil {
		tieBreak = func(int) bool { return false }
	}

	out, err := NewZero(s.ID(), vs[0].Geometry)
	if err != nil {
		return Vector{}, err
	}

	nBits := int(vs[0].Geometry)
	half := len(vs)
	for bit := 0; bit < nBits; bit++ {
		word, off := bit/32, uint(bit%32)
		count := 0
		for _, v := range vs {
			if v.Words[word]&(1<<off) != 0 {
				count++
			}
		}
		var set bool
		switch {
		case count*2 > half:
			set = true
		case count*2 < half:
			set = false
		default:
			set = tieBreak(bit)
		}
		if set {
			out.Words[word] |= 1 << off
		}
	}
	return out, nil
}

// Unbind is identical to Bind for the XOR strategy: bind is self-inverse.
func (s denseBinary) Unbind(composite, component Vector) (Vector, error) {
	return s.Bind(composite, component)
}

func (s denseBinary) Similarity(a, b Vector) (float64, error) {
	if err := requireCompatible(a, b); err != nil {
		return 0, err
	}
	if a.Geometry == 0 {
		return 1, nil
	}
	return 1 - float64(a.HammingDistance(b))/float64(a.Geometry), nil
}

func (s denseBinary) Clone(a Vector) Vector { return a.Clone() }

func (s denseBinary) Equals(a, b Vector) bool { return a.Equals(b) }

func (s denseBinary) Serialize(a Vector) Serialized { return a.Serialize() }

func (s denseBinary) SerializeKB(facts []KBFact) SerializedKB {
	out := SerializedKB{StrategyID: s.ID(), Version: 1, Count: len(facts), Facts: facts}
	if len(facts) > 0 {
		out.Geometry = facts[0].Vector.Geometry
	}
	return out
}

func (s denseBinary) DeserializeKB(ser SerializedKB) ([]KBFact, error) {
	return ser.Facts, nil
}

func (s denseBinary) TopKSimilar(query Vector, vocab VocabLookup, k int) ([]ScoredName, error) {
	entries := vocab.Entries()
	scored := make([]ScoredName, 0, len(entries))
	for _, e := range entries {
		if !query.Compatible(e.Vector) {
			continue
		}
		sim, err := s.Similarity(query, e.Vector)
		if err != nil {
			return nil, err
		}
		scored = append(scored, ScoredName{Name: e.Name, Score: sim})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Name < scored[j].Name
	})
	if k >= 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func (s denseBinary) Distance(a, b Vector) (float64, error) {
	sim, err := s.Similarity(a, b)
	if err != nil {
		return 0, err
	}
	return 1 - sim, nil
}

func (s denseBinary) IsOrthogonal(a, b Vector, tolerance float64) (bool, error) {
	sim, err := s.Similarity(a, b)
	if err != nil {
		return false, err
	}
	diff := sim - 0.5
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance, nil
}

// stableHash derives a deterministic 64-bit seed from s via FNV-1a, which is
// stable across processes and Go versions (unlike map iteration or the
// runtime's string hash).
func stableHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// fillSplitmix fills dst with a deterministic pseudo-random stream derived
// from seed using SplitMix64, a small, fast, well-distributed generator
// suitable for seeding bit patterns (not cryptographic use).
func fillSplitmix(dst []uint32, seed uint64) {
	state := seed
	next := func() uint64 {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z = z ^ (z >> 31)
		return z
	}
	for i := 0; i < len(dst); i += 2 {
		r := next()
		dst[i] = uint32(r)
		if i+1 < len(dst) {
			dst[i+1] = uint32(r >> 32)
		}
	}
}
