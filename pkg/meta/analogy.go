package meta

import (
	"sort"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/query"
)

// analogy implements `analogy A B C ?D`: find a relation R with fact
// (R, A, B); for each such R, return every D with (R, C, D). Falls back to
// property analogy when no direct relation connects A and B: if B is one of
// A's property values, return props(C) \ props(A).
func (d *Dispatcher) analogy(args []string, topK int) []query.Answer {
	if len(args) < 4 {
		return nil
	}
	a, b, c, dVar := args[0], args[1], args[2], args[3]

	var relations []string
	for _, f := range d.store.FindByArg0(a) {
		if syntheticOperators[f.Operator] || len(f.Args) < 2 || f.Args[1] != b {
			continue
		}
		relations = append(relations, f.Operator)
	}
	sort.Strings(relations)

	var out []query.Answer
	for _, r := range relations {
		for _, f := range d.store.FindByOperatorAndArg0(r, c) {
			if len(f.Args) < 2 {
				continue
			}
			out = append(out, metaAnswer(dVar, f.Args[1], 1.0,
				metaStep(r, []string{a, b}), metaStep(r, []string{c, f.Args[1]})))
		}
	}
	if len(out) > 0 {
		if topK > 0 && len(out) > topK {
			out = out[:topK]
		}
		return out
	}

	pa := toSet(d.props(a))
	matchesB := false
	for _, p := range pa {
		if p.Val == b {
			matchesB = true
			break
		}
	}
	if !matchesB {
		return nil
	}

	pc := toSet(d.props(c))
	var diff []Pair
	for k, p := range pc {
		if _, ok := pa[k]; !ok {
			diff = append(diff, p)
		}
	}
	sort.Slice(diff, func(i, j int) bool {
		if diff[i].Op != diff[j].Op {
			return diff[i].Op < diff[j].Op
		}
		return diff[i].Val < diff[j].Val
	})
	if topK > 0 && len(diff) > topK {
		diff = diff[:topK]
	}
	for _, p := range diff {
		out = append(out, metaAnswer(dVar, p.String(), 0.5, metaStep(p.Op, []string{c, p.Val})))
	}
	return out
}
