package session

import (
	"sort"
	"strings"
	"time"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/query"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

// Hypothesis is one candidate explanation for an observation: the rule that
// could have produced it, the (possibly partially ground) condition that
// would need to hold, and how much of that condition is already known true.
type Hypothesis struct {
	RuleName  string
	Condition string
	Support   float64
	Bindings  query.Binding
}

// AbduceResult is the outcome of Abduce: a ranked hypothesis list, per §6's
// "abduce(observation, opts?) -> { hypothesis ranking }". Ranking is highest
// Support first; ties keep the rules' declaration order.
type AbduceResult struct {
	Hypotheses []Hypothesis
	TimedOut   bool
}

// Abduce is a best-effort "what could explain this" pass: every stored rule
// whose Conclusion unifies with observation contributes one Hypothesis, its
// Condition substituted with the unifying bindings and scored by the
// fraction of all its condition leaves that are ground and already asserted
// as facts. This is an
// independent, simplified matcher — not the backward-chaining unifier in
// pkg/query — since abduction here is a ranking heuristic over the rule set,
// not a proof search.
func (s *Session) Abduce(observation string, opts *QueryOptions) (AbduceResult, error) {
	node, err := parseGoal(observation)
	if err != nil {
		return AbduceResult{}, err
	}
	cfg := s.queryConfig(opts)
	budget := query.NewBudget(cfg, s.opts.ClosedWorldAssumption)

	start := time.Now()
	var hyps []Hypothesis
	for _, rule := range s.store.Rules() {
		if budget.Expired() {
			break
		}
		for _, concl := range conclusionCandidates(rule.Conclusion) {
			subst, ok := unifyLeaf(concl, node)
			if !ok {
				continue
			}
			hyps = append(hyps, buildHypothesis(rule, subst, s.store))
		}
	}
	sort.SliceStable(hyps, func(i, j int) bool { return hyps[i].Support > hyps[j].Support })

	s.recordQuery(time.Since(start), budget.Expired(), 0)
	return AbduceResult{Hypotheses: hyps, TimedOut: budget.Expired()}, nil
}

// conclusionCandidates returns every leaf a rule's conclusion could unify
// against an observation through: the leaf itself, or each leaf of an
// And/Or conclusion (Not conclusions are excluded — abducing "why is this
// false" is out of scope here).
func conclusionCandidates(n *encode.Node) []*encode.Node {
	switch n.Kind {
	case encode.KindLeaf:
		return []*encode.Node{n}
	case encode.KindAnd, encode.KindOr:
		var out []*encode.Node
		for _, c := range n.Children {
			out = append(out, conclusionCandidates(c)...)
		}
		return out
	default:
		return nil
	}
}

// unifyLeaf matches pattern against a ground observation leaf, binding each
// variable argument consistently.
func unifyLeaf(pattern, observation *encode.Node) (query.Binding, bool) {
	if observation.Kind != encode.KindLeaf {
		return nil, false
	}
	if pattern.Operator != observation.Operator || len(pattern.Args) != len(observation.Args) {
		return nil, false
	}
	subst := query.Binding{}
	for i, a := range pattern.Args {
		if vocab.IsVariable(a) {
			if bound, ok := subst[a]; ok && bound != observation.Args[i] {
				return nil, false
			}
			subst[a] = observation.Args[i]
			continue
		}
		if a != observation.Args[i] {
			return nil, false
		}
	}
	return subst, true
}

// buildHypothesis substitutes subst into rule's condition, renders it, and
// scores it by the fraction of all its leaves that are ground and already
// asserted as facts (a leaf left with a variable counts as unsupported).
func buildHypothesis(rule *kb.Rule, subst query.Binding, store *kb.Store) Hypothesis {
	leaves := rule.Condition.Leaves()
	var rendered []string
	var known, total int
	for _, leaf := range leaves {
		groundArgs := make([]string, len(leaf.Args))
		ground := true
		for i, a := range leaf.Args {
			if v, ok := subst[a]; ok {
				groundArgs[i] = v
			} else if vocab.IsVariable(a) {
				groundArgs[i] = a
				ground = false
			} else {
				groundArgs[i] = a
			}
		}
		rendered = append(rendered, leaf.Operator+"("+strings.Join(groundArgs, ", ")+")")
		total++
		if ground && store.HasPositiveFact(leaf.Operator, groundArgs) {
			known++
		}
	}
	support := 0.0
	if total > 0 {
		support = float64(known) / float64(total)
	}
	return Hypothesis{
		RuleName:  rule.Name,
		Condition: strings.Join(rendered, " And "),
		Support:   support,
		Bindings:  subst,
	}
}
