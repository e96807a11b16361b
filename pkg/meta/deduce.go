package meta

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/query"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

// DeduceRounds is the default number of forward-chaining saturation rounds
// §4.8 specifies for `deduce` ("up to depth rounds, default 1").
const DeduceRounds = 1

// transitiveSeeds are the two relations `deduce` saturates chains over,
// named explicitly in §4.8 rather than driven by the Vocabulary's
// Transitive flag — deduce's forward sweep is a narrower, cheaper
// approximation than the query engine's on-demand Transitive Reasoner call.
var transitiveSeeds = []string{"isA", "causes"}

type derivedFact struct {
	operator string
	args     []string
	depth    int
	chain    []string
}

func derivedKey(operator string, args []string) string {
	return operator + "\x1f" + strings.Join(args, "\x1f")
}

func factLabel(operator string, args []string) string {
	return fmt.Sprintf("%s(%s)", operator, strings.Join(args, ", "))
}

// deduce implements `deduce Source FilterPattern ?Conclusion`: forward-chain
// from Source, seeding with every fact whose first argument is Source, then
// saturating transitive chains and applying rules for up to DeduceRounds
// rounds. Each derived fact is scored 1/(depth+1), boosted when its operator
// matches FilterPattern.
func (d *Dispatcher) deduce(args []string, topK int) []query.Answer {
	if len(args) < 3 {
		return nil
	}
	source, filterOp, concVar := args[0], args[1], args[2]

	derived := map[string]derivedFact{}
	for _, f := range d.store.FindByArg0(source) {
		key := derivedKey(f.Operator, f.Args)
		derived[key] = derivedFact{operator: f.Operator, args: f.Args, depth: 0, chain: []string{factLabel(f.Operator, f.Args)}}
	}

	if d.reasoner != nil {
		for _, op := range transitiveSeeds {
			flags, ok := d.voc.OperatorFlags(op)
			if !ok {
				continue
			}
			for node, dist := range d.reasoner.ReachableSet(op, source, flags.Symmetric, flags.Reflexive, query.TransitiveMaxDepth) {
				if dist == 0 {
					continue
				}
				fa := []string{source, node}
				key := derivedKey(op, fa)
				if _, exists := derived[key]; exists {
					continue
				}
				derived[key] = derivedFact{operator: op, args: fa, depth: dist, chain: []string{factLabel(op, fa)}}
			}
		}
	}

	for round := 1; round <= DeduceRounds; round++ {
		frontierDepth := round - 1
		for _, rule := range d.store.Rules() {
			if rule.Condition == nil || rule.Conclusion == nil {
				continue
			}
			if subst, chain, ok := d.proveGround(rule.Condition, map[string]string{}, derived, frontierDepth); ok {
				for _, leaf := range leavesOf(rule.Conclusion) {
					finalArgs := groundSubstitute(leaf.Args, subst)
					if !allGroundArgs(finalArgs) {
						continue
					}
					key := derivedKey(leaf.Operator, finalArgs)
					if _, exists := derived[key]; exists {
						continue
					}
					derived[key] = derivedFact{
						operator: leaf.Operator,
						args:     finalArgs,
						depth:    round,
						chain:    append(append([]string{}, chain...), fmt.Sprintf("%s [rule:%s]", factLabel(leaf.Operator, finalArgs), rule.Name)),
					}
				}
			}
		}
	}

	list := make([]derivedFact, 0, len(derived))
	for _, f := range derived {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool {
		si, sj := deduceScore(list[i], filterOp), deduceScore(list[j], filterOp)
		if si != sj {
			return si > sj
		}
		return derivedKey(list[i].operator, list[i].args) < derivedKey(list[j].operator, list[j].args)
	})
	if topK > 0 && len(list) > topK {
		list = list[:topK]
	}

	out := make([]query.Answer, 0, len(list))
	for _, f := range list {
		steps := make([]query.ProofStep, 0, len(f.chain))
		for range f.chain {
			steps = append(steps, metaStep(f.operator, f.args))
		}
		out = append(out, metaAnswer(concVar, factLabel(f.operator, f.args), deduceScore(f, filterOp), steps...))
	}
	return out
}

func deduceScore(f derivedFact, filterOp string) float64 {
	score := 1.0 / float64(f.depth+1)
	if f.operator == filterOp {
		score *= 1.5
		if score > 1.0 {
			score = 1.0
		}
	}
	return score
}

func leavesOf(n *encode.Node) []*encode.Node {
	switch n.Kind {
	case encode.KindLeaf:
		return []*encode.Node{n}
	case encode.KindAnd, encode.KindOr:
		var out []*encode.Node
		for _, c := range n.Children {
			if c.Kind == encode.KindNot {
				continue
			}
			out = append(out, leavesOf(c)...)
		}
		return out
	default:
		return nil
	}
}

func groundSubstitute(args []string, subst map[string]string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if v, ok := subst[a]; ok {
			out[i] = v
		} else {
			out[i] = a
		}
	}
	return out
}

func allGroundArgs(args []string) bool {
	for _, a := range args {
		if vocab.IsVariable(a) {
			return false
		}
	}
	return true
}

// proveGround is deduce's own small forward-mode matcher: it walks a rule
// condition against the derived-fact table built so far (restricted to the
// current round's frontier depth), threading a ground substitution
// sequentially through And, trying each branch of Or, and treating Not as
// negation-as-failure against both the derived table and the KB's negation
// index. It intentionally omits the backward engine's typed-isA fallback and
// rule recursion — deduce is a best-effort saturation pass, not the
// primary prover.
func (d *Dispatcher) proveGround(n *encode.Node, subst map[string]string, derived map[string]derivedFact, maxFrontierDepth int) (map[string]string, []string, bool) {
	switch n.Kind {
	case encode.KindLeaf:
		instArgs := groundSubstitute(n.Args, subst)
		for _, f := range derived {
			if f.operator != n.Operator || len(f.args) != len(instArgs) || f.depth > maxFrontierDepth {
				continue
			}
			merged, ok := unifyDerived(instArgs, f.args, subst)
			if !ok {
				continue
			}
			return merged, f.chain, true
		}
		return nil, nil, false
	case encode.KindAnd:
		cur := subst
		var chain []string
		for _, c := range n.Children {
			next, cChain, ok := d.proveGround(c, cur, derived, maxFrontierDepth)
			if !ok {
				return nil, nil, false
			}
			cur = next
			chain = append(chain, cChain...)
		}
		return cur, chain, true
	case encode.KindOr:
		for _, c := range n.Children {
			if next, chain, ok := d.proveGround(c, subst, derived, maxFrontierDepth); ok {
				return next, chain, true
			}
		}
		return nil, nil, false
	case encode.KindNot:
		inner := n.Children[0]
		if inner.Kind == encode.KindLeaf {
			instArgs := groundSubstitute(inner.Args, subst)
			if allGroundArgs(instArgs) && d.store.IsNegated(inner.Operator, instArgs) {
				return subst, nil, true
			}
		}
		if _, _, ok := d.proveGround(inner, subst, derived, maxFrontierDepth); ok {
			return nil, nil, false
		}
		return subst, nil, true
	default:
		return nil, nil, false
	}
}

func unifyDerived(pattern, fact []string, subst map[string]string) (map[string]string, bool) {
	merged := make(map[string]string, len(subst))
	for k, v := range subst {
		merged[k] = v
	}
	for i, p := range pattern {
		if vocab.IsVariable(p) {
			if bound, ok := merged[p]; ok {
				if bound != fact[i] {
					return nil, false
				}
				continue
			}
			merged[p] = fact[i]
			continue
		}
		if p != fact[i] {
			return nil, false
		}
	}
	return merged, true
}
