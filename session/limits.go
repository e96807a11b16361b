package session

// DefaultLimits collects the single set of numeric defaults the rest of the
// core otherwise scatters through local package constants (§9 Open
// Questions: "a single DefaultLimits record in the new implementation is
// recommended"). DefaultOptions takes its geometry, timeout and proof depth
// from here; a zero Geometry is rejected by session construction, while a
// zero timeout or depth falls back to pkg/query's own copies at query time.
// pkg/query and pkg/reason keep their own copies of
// the timeout/depth constants so they have no import-time dependency on this
// package (which depends on them), and those copies are kept numerically
// identical to the values here by convention, not by a shared import.
var DefaultLimits = struct {
	Geometry           uint32
	ReasoningTimeoutMs int
	MaxProofDepth      int
	TransitiveMaxDepth int
	MetaTopK           int
}{
	Geometry:           32768,
	ReasoningTimeoutMs: 2000,
	MaxProofDepth:      16,
	TransitiveMaxDepth: 10,
	MetaTopK:           10,
}
