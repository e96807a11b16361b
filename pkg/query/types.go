// Package query implements the L6 Query Engine: a hybrid backward-chaining
// prover that unifies goals against facts and rule conclusions, drives
// transitive reasoning, and falls back to contrapositive negation proving.
package query

import (
	"sort"
	"strings"
	"time"
)

// Binding is a first-order substitution: variable token (e.g. "?x") to its
// bound constant. Facts are always ground, so chaining two variables never
// requires a true union-find — the moment a variable meets a fact argument
// it resolves to a constant.
type Binding map[string]string

func (b Binding) clone() Binding {
	out := make(Binding, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// bindingKey canonicalizes a substitution for proof-level dedup: pairs are
// sorted lexicographically by variable name, variable and value joined by
// the ASCII unit separator (\x1f), pairs joined by the record separator
// (\x1e) so a value can never collide with the delimiter.
func bindingKey(b Binding) string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"\x1f"+b[k])
	}
	return strings.Join(parts, "\x1e")
}

// StepKind tags one entry of a Proof.
type StepKind string

const (
	StepDirect         StepKind = "direct"
	StepTransitive     StepKind = "transitive"
	StepRule           StepKind = "rule"
	StepContrapositive StepKind = "contrapositive"
	StepExplicitNeg    StepKind = "explicit-negation"
	StepNegationAsFail StepKind = "negation-as-failure"
	StepMeta           StepKind = "meta"
)

// ProofStep is one piece of evidence in a Proof.
type ProofStep struct {
	Kind     StepKind
	FactID   int64
	Operator string
	Args     []string
	RuleName string
	Chain    []string // intermediate nodes for transitive steps
}

// Proof is the ordered evidence trail the spec calls the "proof trail".
type Proof struct {
	Steps []ProofStep
}

func (p Proof) append(steps ...ProofStep) Proof {
	out := Proof{Steps: make([]ProofStep, 0, len(p.Steps)+len(steps))}
	out.Steps = append(out.Steps, p.Steps...)
	out.Steps = append(out.Steps, steps...)
	return out
}

// Answer is one candidate solution to a goal: its bindings, the proof that
// justifies it, and the bookkeeping used for ordering.
type Answer struct {
	Bindings   Binding
	Proof      Proof
	Depth      int
	Confidence float64
	FactID     int64
}

// Reason codes surfaced on partial or failed results.
const (
	ReasonNone            = ""
	ReasonTimeout         = "timeout"
	ReasonDepth           = "depth"
	ReasonUnknownOperator = "unknown_operator"
	ReasonNegationBlocks  = "negation-blocks"
	ReasonUnprovable      = "unprovable"
)

// Config configures one query/prove/findAll invocation. The closed-world
// assumption is a session-lifetime setting (§6) fixed at Engine construction,
// not a per-call override, so it has no field here.
type Config struct {
	TimeoutMs int
	MaxDepth  int
	FirstOnly bool
	TopK      int
}

// QueryResult is the outcome of Query/FindAll.
type QueryResult struct {
	Success     bool
	Bindings    Binding
	AllResults  []Answer
	Ambiguous   bool
	Confidence  float64
	TimedOut    bool
	Reason      string
}

// ProofResult is the outcome of Prove.
type ProofResult struct {
	Valid    bool
	Proof    Proof
	TimedOut bool
	Reason   string
}

// Budget is the cooperative timeout/depth checkpoint threaded through the
// recursive matching functions, per §5's "explicit budget" design note.
type Budget struct {
	deadline    time.Time
	maxDepth    int
	timedOut    bool
	closedWorld bool
}

// NewBudget builds a Budget from a Config and the owning Engine's
// closedWorld setting, applying defaults when unset. closedWorld travels on
// the Budget (not read from the Engine at match time) so a concurrent query
// against a shared *Engine never races another call's Config.
func NewBudget(cfg Config, closedWorld bool) *Budget {
	timeoutMs := cfg.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = DefaultTimeoutMs
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Budget{
		deadline:    time.Now().Add(time.Duration(timeoutMs) * time.Millisecond),
		maxDepth:    maxDepth,
		closedWorld: closedWorld,
	}
}

// Expired marks and reports whether the wall-clock budget has elapsed.
func (b *Budget) Expired() bool {
	if b.timedOut {
		return true
	}
	if time.Now().After(b.deadline) {
		b.timedOut = true
	}
	return b.timedOut
}

// DepthExceeded reports whether depth has exceeded the configured bound.
func (b *Budget) DepthExceeded(depth int) bool {
	return depth > b.maxDepth
}

// DefaultTimeoutMs and DefaultMaxDepth mirror session.DefaultLimits; the
// query package keeps its own copies so it has no import-time dependency on
// the session package (which in turn depends on query).
const (
	DefaultTimeoutMs = 2000
	DefaultMaxDepth  = 16
)

// visitedSet guards rule/leaf recursion against cycles: a goal key
// (operator + instantiated args) that re-enters while already on the current
// proof path fails immediately rather than looping.
type visitedSet map[string]bool

func goalKey(operator string, args []string) string {
	return operator + "\x1f" + strings.Join(args, "\x1f")
}
