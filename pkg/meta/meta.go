// Package meta implements the L7 Meta-Operators: similar, induce, bundle,
// difference, analogy, and deduce. Every operator consults only the
// Component KB and the Vocabulary and never mutates either — grounded on the
// teacher's read-only holographic query surface (internal/holo), reworked
// here for the symbolic property-set algebra §4.8 actually specifies.
package meta

import (
	"sort"

	"go.uber.org/zap"

	"github.com/OutfinityResearch/AGISystem2-sub015/internal/obslog"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/query"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/reason"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

// propertyRelations is the fixed set of "property-carrying" relations §4.8
// aggregates over when computing props(z).
var propertyRelations = map[string]bool{
	"has": true, "can": true, "isA": true, "likes": true,
	"knows": true, "owns": true, "uses": true,
}

// syntheticOperators are excluded from property aggregation so a
// previously-recorded meta-operator result never inflates a later one.
var syntheticOperators = map[string]bool{
	"difference": true, "bundlePattern": true, "inducePattern": true,
}

// Pair is one (operator, value) property tuple contributed by a fact
// `op(entity, value, ...)`.
type Pair struct {
	Op  string
	Val string
}

func (p Pair) String() string { return p.Op + "=" + p.Val }

func pairKey(p Pair) string { return p.Op + "\x1f" + p.Val }

// Dispatcher implements query.MetaDispatcher: Dispatch is the only entry
// point the Query Engine calls, wired in post-construction via
// Engine.SetMetaDispatcher.
type Dispatcher struct {
	store    *kb.Store
	voc      *vocab.Vocabulary
	reasoner *reason.Reasoner
	logger   *zap.Logger
}

// New builds a meta Dispatcher bound to the session's KB, Vocabulary, and
// Transitive Reasoner.
func New(store *kb.Store, voc *vocab.Vocabulary, reasoner *reason.Reasoner, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = obslog.Noop()
	}
	return &Dispatcher{store: store, voc: voc, reasoner: reasoner, logger: obslog.For(logger, obslog.CategoryMeta)}
}

// Dispatch routes operator to the matching meta-operator implementation.
// handled is false for anything outside the fixed §4.8 set.
func (d *Dispatcher) Dispatch(operator string, args []string, topK int) ([]query.Answer, bool) {
	if topK <= 0 {
		topK = query.DefaultTopK
	}
	switch operator {
	case "similar":
		return d.similar(args, topK), true
	case "induce":
		return d.induce(args, topK), true
	case "bundle":
		return d.bundle(args, topK), true
	case "difference":
		return d.difference(args, topK), true
	case "analogy":
		return d.analogy(args, topK), true
	case "deduce":
		return d.deduce(args, topK), true
	default:
		return nil, false
	}
}

// props(z) per §4.8: the (op, val) pairs from every property-carrying
// relation fact whose first argument is z, excluding synthetic operators.
func (d *Dispatcher) props(z string) []Pair {
	facts := d.store.FindByArg0(z)
	out := make([]Pair, 0, len(facts))
	for _, f := range facts {
		if !propertyRelations[f.Operator] || syntheticOperators[f.Operator] || len(f.Args) < 2 {
			continue
		}
		out = append(out, Pair{Op: f.Operator, Val: f.Args[1]})
	}
	return out
}

func toSet(pairs []Pair) map[string]Pair {
	out := make(map[string]Pair, len(pairs))
	for _, p := range pairs {
		out[pairKey(p)] = p
	}
	return out
}

// candidateEntities returns every distinct arg0 across property-carrying
// relations except excluded, sorted by name — the comparison pool `similar`
// scans.
func (d *Dispatcher) candidateEntities(excluded ...string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[e] = true
	}
	seen := map[string]bool{}
	var out []string
	for op := range propertyRelations {
		for _, f := range d.store.FindByOperator(op) {
			if len(f.Args) == 0 {
				continue
			}
			z := f.Args[0]
			if skip[z] || seen[z] {
				continue
			}
			seen[z] = true
			out = append(out, z)
		}
	}
	sort.Strings(out)
	return out
}

func metaAnswer(binding, value string, score float64, steps ...query.ProofStep) query.Answer {
	return query.Answer{
		Bindings:   query.Binding{binding: value},
		Proof:      query.Proof{Steps: steps},
		Confidence: score,
	}
}

func metaStep(operator string, args []string) query.ProofStep {
	return query.ProofStep{Kind: query.StepMeta, Operator: operator, Args: args}
}

