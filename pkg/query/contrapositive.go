package query

import "github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"

// conjunctsOf returns the top-level conjuncts of a condition tree for the
// contrapositive walk: a bare leaf is its own single conjunct; for an And,
// only its direct leaf children are returned (Not, And and Or children are
// skipped, not descended into). Any other node yields no conjuncts.
func conjunctsOf(n *encode.Node) []*encode.Node {
	switch n.Kind {
	case encode.KindLeaf:
		return []*encode.Node{n}
	case encode.KindAnd:
		var out []*encode.Node
		for _, c := range n.Children {
			if c.Kind == encode.KindLeaf {
				out = append(out, c)
			}
		}
		return out
	default:
		return nil
	}
}

// conclusionNegated reports whether the rule's (already-instantiated)
// conclusion can be shown false: directly, for a leaf conclusion, or via any
// one conjunct for an And conclusion — "if conclusion is a conjunction
// C1∧C2∧… and the KB contains Not(Ci') ... deduce Not(Antecedent')".
func (e *Engine) conclusionNegated(concl *encode.Node, subst Binding) bool {
	switch concl.Kind {
	case encode.KindLeaf:
		args := substitute(concl.Args, subst)
		return allGround(args) && e.store.IsNegated(concl.Operator, args)
	case encode.KindAnd:
		for _, c := range concl.Children {
			if c.Kind != encode.KindLeaf {
				continue
			}
			args := substitute(c.Args, subst)
			if allGround(args) && e.store.IsNegated(c.Operator, args) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// proveNegation implements §4.7 strategy 3: prove Not(x) either because the
// negation index already holds it explicitly, or by contrapositive — finding
// a rule Cond→Concl where x unifies with one conjunct of Cond, the
// (instantiated) conclusion is already known false, and every other conjunct
// of Cond holds under the same substitution.
func (e *Engine) proveNegation(x *encode.Node, subst Binding, budget *Budget, visited visitedSet, depth int) []Answer {
	if budget.Expired() || budget.DepthExceeded(depth) {
		return nil
	}
	instArgs := substitute(x.Args, subst)
	if allGround(instArgs) && e.store.IsNegated(x.Operator, instArgs) {
		return []Answer{{Bindings: subst.clone(), Proof: Proof{}.append(ProofStep{Kind: StepExplicitNeg, Operator: x.Operator, Args: instArgs})}}
	}

	var out []Answer
	for _, rule := range e.store.Rules() {
		if rule.Condition == nil || rule.Conclusion == nil {
			continue
		}
		branches := conjunctsOf(rule.Condition)
		for i, branch := range branches {
			if branch.Operator != x.Operator || branch.Arity() != len(instArgs) {
				continue
			}
			candSubst, linkage, ok := unifyPatterns(branch.Args, instArgs, Binding{})
			if !ok {
				continue
			}
			if !e.conclusionNegated(rule.Conclusion, candSubst) {
				continue
			}
			others := append(append([]*encode.Node{}, branches[:i]...), branches[i+1:]...)
			var otherSteps []ProofStep
			if len(others) > 0 {
				oc := e.matchAnd(others, candSubst, budget, visited, depth+1)
				if len(oc) == 0 {
					continue
				}
				otherSteps = oc[0].Steps
			}
			goalBindings := resolveLinkage(linkage, candSubst)
			merged := subst.clone()
			for k, v := range goalBindings {
				merged[k] = v
			}
			steps := append(append([]ProofStep{}, otherSteps...), ProofStep{Kind: StepContrapositive, RuleName: rule.Name, Operator: x.Operator, Args: substitute(x.Args, merged)})
			out = append(out, Answer{Bindings: merged, Proof: Proof{Steps: steps}, Depth: depth + 1})
		}
	}
	return out
}
