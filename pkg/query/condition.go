package query

import (
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

// candidate is an intermediate substitution produced while walking a
// condition tree — lighter than Answer, which only top-level goals need.
type candidate struct {
	Subst Binding
	Steps []ProofStep
}

// matchNode walks a condition (or a leaf goal) per §4.7.1: Leaf sub-goals
// resolve against KB facts/transitive closure/rule-derivation; And performs a
// consistent-substitution join; Or unions deduplicated by binding key; Not
// succeeds by negation-as-failure or explicit negation-index match.
func (e *Engine) matchNode(n *encode.Node, subst Binding, budget *Budget, visited visitedSet, depth int) []candidate {
	if budget.Expired() || budget.DepthExceeded(depth) {
		return nil
	}
	switch n.Kind {
	case encode.KindLeaf:
		answers := e.proveLeaf(n, subst, budget, visited, depth)
		out := make([]candidate, 0, len(answers))
		for _, a := range answers {
			out = append(out, candidate{Subst: a.Bindings, Steps: a.Proof.Steps})
		}
		return out
	case encode.KindAnd:
		return e.matchAnd(n.Children, subst, budget, visited, depth)
	case encode.KindOr:
		return e.matchOr(n.Children, subst, budget, visited, depth)
	case encode.KindNot:
		return e.matchNot(n.Children[0], subst, budget, visited, depth)
	default:
		return nil
	}
}

// matchAnd threads the substitution sequentially through each conjunct: part
// i+1 sees every binding part i produced. This realizes the spec's
// "consistent-substitution join" without materializing the full Cartesian
// product of independent candidate sets.
func (e *Engine) matchAnd(parts []*encode.Node, subst Binding, budget *Budget, visited visitedSet, depth int) []candidate {
	frontier := []candidate{{Subst: subst, Steps: nil}}
	for _, part := range parts {
		var next []candidate
		for _, c := range frontier {
			for _, m := range e.matchNode(part, c.Subst, budget, visited, depth) {
				next = append(next, candidate{Subst: m.Subst, Steps: append(append([]ProofStep{}, c.Steps...), m.Steps...)})
			}
		}
		frontier = next
		if len(frontier) == 0 {
			return nil
		}
	}
	return frontier
}

func (e *Engine) matchOr(parts []*encode.Node, subst Binding, budget *Budget, visited visitedSet, depth int) []candidate {
	seen := map[string]bool{}
	var out []candidate
	for _, part := range parts {
		for _, m := range e.matchNode(part, subst, budget, visited, depth) {
			key := bindingKey(m.Subst)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) matchNot(part *encode.Node, subst Binding, budget *Budget, visited visitedSet, depth int) []candidate {
	subProof := e.matchNode(part, subst, budget, visited, depth+1)
	explicit := false
	if part.Kind == encode.KindLeaf {
		instArgs := substitute(part.Args, subst)
		if allGround(instArgs) {
			explicit = e.store.IsNegated(part.Operator, instArgs)
		}
	}
	if explicit {
		return []candidate{{Subst: subst.clone(), Steps: []ProofStep{{Kind: StepExplicitNeg, Operator: part.Operator, Args: substitute(part.Args, subst)}}}}
	}
	if len(subProof) == 0 && budget.closedWorld {
		return []candidate{{Subst: subst.clone(), Steps: []ProofStep{{Kind: StepNegationAsFail, Operator: part.Operator, Args: substitute(part.Args, subst)}}}}
	}
	return nil
}

// isaTypeCheck reports whether factArg satisfies patternConst via the
// declared isA transitive closure — the §4.7.1 "typed" leaf-match fallback.
func (e *Engine) isaTypeCheck(factArg, patternConst string) bool {
	if e.reasoner == nil {
		return false
	}
	return e.reasoner.Reaches("isA", factArg, patternConst, false, false, TransitiveMaxDepth).Reachable
}

// proveLeaf is the one place a single-atom goal gets proved: direct KB
// lookup, transitive-relation extension, and (recursively) rule-derived
// chaining, cycle-protected by visited and budget-checked throughout.
func (e *Engine) proveLeaf(goal *encode.Node, subst Binding, budget *Budget, visited visitedSet, depth int) []Answer {
	if budget.Expired() || budget.DepthExceeded(depth) {
		return nil
	}
	instArgs := substitute(goal.Args, subst)
	key := goalKey(goal.Operator, instArgs)
	if visited[key] {
		return nil
	}
	visited[key] = true
	defer delete(visited, key)

	var out []Answer

	var candidates []*kb.Fact
	if len(instArgs) > 0 && !vocab.IsVariable(instArgs[0]) {
		candidates = e.store.FindByOperatorAndArg0(goal.Operator, instArgs[0])
	} else {
		candidates = e.store.FindByOperator(goal.Operator)
	}
	for _, f := range candidates {
		merged, ok := unifyGround(instArgs, f.Args, subst, e.isaTypeCheck)
		if !ok {
			continue
		}
		finalArgs := substitute(goal.Args, merged)
		if e.store.IsNegated(goal.Operator, finalArgs) {
			continue
		}
		out = append(out, Answer{
			Bindings: merged,
			Proof:    Proof{}.append(ProofStep{Kind: StepDirect, FactID: f.ID, Operator: f.Operator, Args: f.Args}),
			Depth:    depth,
			FactID:   f.ID,
		})
	}

	out = append(out, e.transitiveExtend(goal, instArgs, subst, depth)...)

	if !budget.DepthExceeded(depth + 1) {
		out = append(out, e.ruleDerived(goal, instArgs, subst, budget, visited, depth)...)
	}
	return out
}
