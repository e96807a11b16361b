package query

import (
	"sort"

	"go.uber.org/zap"

	"github.com/OutfinityResearch/AGISystem2-sub015/internal/obslog"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/reason"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

// TransitiveMaxDepth bounds the BFS the query engine asks the Transitive
// Reasoner to perform on its behalf.
const TransitiveMaxDepth = reason.DefaultMaxDepth

// metaOperators is the reserved set of §4.8 meta-operator names; a goal
// whose operator is one of these is dispatched to the Meta handler instead
// of the symbolic strategies.
var metaOperators = map[string]bool{
	"similar":    true,
	"induce":     true,
	"bundle":     true,
	"difference": true,
	"analogy":    true,
	"deduce":     true,
}

// MetaDispatcher is implemented by pkg/meta and wired in by the owning
// Session; it never mutates the KB.
type MetaDispatcher interface {
	Dispatch(operator string, args []string, topK int) ([]Answer, bool)
}

// Engine is the L6 Query Engine: it owns no state of its own beyond
// read-only handles into the KB, Vocabulary, and Transitive Reasoner.
type Engine struct {
	store       *kb.Store
	voc         *vocab.Vocabulary
	reasoner    *reason.Reasoner
	meta        MetaDispatcher
	closedWorld bool
	logger      *zap.Logger
}

// New builds a query Engine. closedWorld mirrors the session's
// closedWorldAssumption option (§6); meta may be nil until the owning
// Session wires pkg/meta in.
func New(store *kb.Store, voc *vocab.Vocabulary, reasoner *reason.Reasoner, closedWorld bool, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = obslog.Noop()
	}
	return &Engine{store: store, voc: voc, reasoner: reasoner, closedWorld: closedWorld, logger: obslog.For(logger, obslog.CategoryQuery)}
}

// SetMetaDispatcher wires the meta-operator subsystem in after construction,
// breaking the pkg/meta -> pkg/query -> pkg/meta import cycle that a
// constructor parameter would otherwise require.
func (e *Engine) SetMetaDispatcher(m MetaDispatcher) { e.meta = m }

// Query resolves goal (a Leaf or Not(Leaf)) against the KB, unioning direct,
// transitive, rule-derived, contrapositive, and meta-operator results.
func (e *Engine) Query(goal *encode.Node, cfg Config) QueryResult {
	return e.run(goal, cfg)
}

// FindAll is Query with every distinct binding surfaced (AllResults is never
// truncated to one by the caller's own FirstOnly preference).
func (e *Engine) FindAll(goal *encode.Node, cfg Config) QueryResult {
	cfg.FirstOnly = false
	return e.run(goal, cfg)
}

// Prove reduces a Query to a single valid/invalid verdict plus the winning
// proof (the first result after tie-break ordering).
func (e *Engine) Prove(goal *encode.Node, cfg Config) ProofResult {
	cfg.FirstOnly = true
	res := e.run(goal, cfg)
	if res.TimedOut {
		return ProofResult{TimedOut: true, Reason: res.Reason}
	}
	if !res.Success {
		reasonCode := res.Reason
		if reasonCode == "" {
			reasonCode = ReasonUnprovable
		}
		return ProofResult{Valid: false, Reason: reasonCode}
	}
	return ProofResult{Valid: true, Proof: res.AllResults[0].Proof}
}

func (e *Engine) run(goal *encode.Node, cfg Config) QueryResult {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	budget := NewBudget(cfg, e.closedWorld)
	visited := visitedSet{}

	if goal.Kind == encode.KindNot {
		inner := goal.Children[0]
		answers := e.proveNegation(inner, Binding{}, budget, visited, 0)
		return e.finalize(answers, budget, false, cfg.FirstOnly)
	}

	if _, ok := e.voc.OperatorFlags(goal.Operator); !ok && !metaOperators[goal.Operator] {
		return QueryResult{Success: false, Reason: ReasonUnknownOperator}
	}

	var answers []Answer
	if metaOperators[goal.Operator] {
		if e.meta != nil {
			if metaAnswers, handled := e.meta.Dispatch(goal.Operator, goal.Args, cfg.TopK); handled {
				answers = append(answers, metaAnswers...)
			}
		}
	} else {
		answers = e.proveLeaf(goal, Binding{}, budget, visited, 0)
	}

	negationBlocked := allGround(goal.Args) && e.store.IsNegated(goal.Operator, goal.Args)
	return e.finalize(answers, budget, negationBlocked, cfg.FirstOnly)
}

// finalize dedups by binding key, orders per §4.7's tie-break (depth asc,
// confidence desc, fact id asc), and packages the QueryResult. firstOnly
// truncates the ordered result set to its single best answer (Prove's use
// case); FindAll always passes false.
func (e *Engine) finalize(answers []Answer, budget *Budget, negationBlocked bool, firstOnly bool) QueryResult {
	best := map[string]Answer{}
	order := make([]string, 0, len(answers))
	for _, a := range answers {
		key := bindingKey(a.Bindings)
		existing, ok := best[key]
		if !ok {
			best[key] = a
			order = append(order, key)
			continue
		}
		if betterAnswer(a, existing) {
			best[key] = a
		}
	}
	out := make([]Answer, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].FactID < out[j].FactID
	})
	if firstOnly && len(out) > 1 {
		out = out[:1]
	}

	result := QueryResult{
		Success:    len(out) > 0,
		AllResults: out,
		Ambiguous:  len(out) > 1,
		TimedOut:   budget.Expired(),
	}
	if result.TimedOut {
		result.Reason = ReasonTimeout
	}
	if len(out) > 0 {
		result.Bindings = out[0].Bindings
		result.Confidence = out[0].Confidence
	} else if !result.TimedOut && negationBlocked {
		result.Reason = ReasonNegationBlocks
	}
	return result
}

func betterAnswer(a, b Answer) bool {
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return a.FactID < b.FactID
}

// DefaultTopK is the meta-operator top-k default (session.DefaultLimits
// duplicates this for the public API; kept local here for the same reason
// as DefaultTimeoutMs/DefaultMaxDepth in types.go).
const DefaultTopK = 10
