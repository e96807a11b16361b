package query

import (
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

// conclusionLeaves flattens an And/Or conclusion into its leaves, per
// §4.7's "possibly a leaf inside a compound And/Or conclusion — but never
// inside a Not": Not-children are never descended into or collected from.
func conclusionLeaves(n *encode.Node) []*encode.Node {
	switch n.Kind {
	case encode.KindLeaf:
		return []*encode.Node{n}
	case encode.KindAnd, encode.KindOr:
		var out []*encode.Node
		for _, c := range n.Children {
			if c.Kind == encode.KindNot {
				continue
			}
			out = append(out, conclusionLeaves(c)...)
		}
		return out
	default:
		return nil
	}
}

// ruleDerived implements §4.7 strategy 2: for each rule whose conclusion
// contains a leaf matching the goal's operator and arity, unify the goal's
// arguments against that leaf to seed a substitution, prove the rule's
// condition under it, and back-propagate the result onto the goal's holes.
func (e *Engine) ruleDerived(goal *encode.Node, instArgs []string, outerSubst Binding, budget *Budget, visited visitedSet, depth int) []Answer {
	if budget.DepthExceeded(depth + 1) {
		return nil
	}
	var out []Answer
	for _, rule := range e.store.Rules() {
		if rule.Conclusion == nil || rule.Condition == nil {
			continue
		}
		for _, leaf := range conclusionLeaves(rule.Conclusion) {
			if leaf.Operator != goal.Operator || leaf.Arity() != len(instArgs) {
				continue
			}
			seed, linkage, ok := unifyPatterns(leaf.Args, instArgs, Binding{})
			if !ok {
				continue
			}
			for _, cr := range e.matchNode(rule.Condition, seed, budget, visited, depth+1) {
				goalBindings := resolveLinkage(linkage, cr.Subst)
				finalArgs := substitute(instArgs, goalBindings)
				if !allGround(finalArgs) {
					continue
				}
				if e.store.IsNegated(goal.Operator, finalArgs) {
					continue
				}
				merged := outerSubst.clone()
				for k, v := range goalBindings {
					merged[k] = v
				}
				steps := append(append([]ProofStep{}, cr.Steps...), ProofStep{Kind: StepRule, RuleName: rule.Name, Operator: goal.Operator, Args: finalArgs})
				out = append(out, Answer{Bindings: merged, Proof: Proof{Steps: steps}, Depth: depth + 1})
			}
		}
	}
	return out
}

// transitiveExtend implements the Transitive Reasoner leg of §4.7 strategy 1
// for a binary relation declared transitive.
func (e *Engine) transitiveExtend(goal *encode.Node, instArgs []string, subst Binding, depth int) []Answer {
	if e.reasoner == nil || len(instArgs) != 2 {
		return nil
	}
	flags, ok := e.voc.OperatorFlags(goal.Operator)
	if !ok || !flags.Transitive {
		return nil
	}
	arg0, arg1 := instArgs[0], instArgs[1]
	var out []Answer
	isVar0, isVar1 := vocab.IsVariable(arg0), vocab.IsVariable(arg1)

	switch {
	case !isVar0 && !isVar1:
		res := e.reasoner.Reaches(goal.Operator, arg0, arg1, flags.Symmetric, flags.Reflexive, TransitiveMaxDepth)
		if res.Reachable && len(res.Path) > 2 && !e.store.IsNegated(goal.Operator, instArgs) {
			out = append(out, Answer{
				Bindings: subst.clone(),
				Proof:    Proof{}.append(ProofStep{Kind: StepTransitive, Operator: goal.Operator, Args: instArgs, Chain: res.Path}),
				Depth:    depth,
			})
		}
	case !isVar0 && isVar1:
		for node, d := range e.reasoner.ReachableSet(goal.Operator, arg0, flags.Symmetric, flags.Reflexive, TransitiveMaxDepth) {
			if d == 1 {
				continue // direct one-hop fact, already covered by the direct-match leg
			}
			finalArgs := []string{arg0, node}
			if e.store.IsNegated(goal.Operator, finalArgs) {
				continue
			}
			merged := subst.clone()
			merged[arg1] = node
			out = append(out, Answer{Bindings: merged, Proof: Proof{}.append(ProofStep{Kind: StepTransitive, Operator: goal.Operator, Args: finalArgs}), Depth: depth})
		}
	case isVar0 && !isVar1:
		for node, d := range e.reasoner.ReachableSetReverse(goal.Operator, arg1, flags.Symmetric, flags.Reflexive, TransitiveMaxDepth) {
			if d == 1 {
				continue
			}
			finalArgs := []string{node, arg1}
			if e.store.IsNegated(goal.Operator, finalArgs) {
				continue
			}
			merged := subst.clone()
			merged[arg0] = node
			out = append(out, Answer{Bindings: merged, Proof: Proof{}.append(ProofStep{Kind: StepTransitive, Operator: goal.Operator, Args: finalArgs}), Depth: depth})
		}
	}
	return out
}
