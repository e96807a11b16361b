package meta

import (
	"sort"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/query"
)

// splitEntitiesAndVar separates the trailing `?p`-style hole from the
// leading entity arguments shared by induce/bundle/difference.
func splitEntitiesAndVar(args []string) ([]string, string) {
	if len(args) == 0 {
		return nil, "?p"
	}
	return args[:len(args)-1], args[len(args)-1]
}

func pairsToAnswers(pVar string, pairs []Pair, steps map[string][]query.ProofStep, topK int) []query.Answer {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Op != pairs[j].Op {
			return pairs[i].Op < pairs[j].Op
		}
		return pairs[i].Val < pairs[j].Val
	})
	if topK > 0 && len(pairs) > topK {
		pairs = pairs[:topK]
	}
	out := make([]query.Answer, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, metaAnswer(pVar, p.String(), 1.0, steps[pairKey(p)]...))
	}
	return out
}

// induce implements `induce args… ?p`: the intersection of props over every
// entity argument.
func (d *Dispatcher) induce(args []string, topK int) []query.Answer {
	entities, pVar := splitEntitiesAndVar(args)
	if len(entities) == 0 {
		return nil
	}
	sets := make([]map[string]Pair, len(entities))
	for i, e := range entities {
		sets[i] = toSet(d.props(e))
	}
	common := sets[0]
	for _, s := range sets[1:] {
		next := map[string]Pair{}
		for k, p := range common {
			if _, ok := s[k]; ok {
				next[k] = p
			}
		}
		common = next
	}
	steps := map[string][]query.ProofStep{}
	pairs := make([]Pair, 0, len(common))
	for k, p := range common {
		pairs = append(pairs, p)
		for _, e := range entities {
			steps[k] = append(steps[k], metaStep(p.Op, []string{e, p.Val}))
		}
	}
	return pairsToAnswers(pVar, pairs, steps, topK)
}

// bundle implements `bundle args… ?p`: the union of props over every entity
// argument.
func (d *Dispatcher) bundle(args []string, topK int) []query.Answer {
	entities, pVar := splitEntitiesAndVar(args)
	if len(entities) == 0 {
		return nil
	}
	union := map[string]Pair{}
	steps := map[string][]query.ProofStep{}
	for _, e := range entities {
		for _, p := range d.props(e) {
			k := pairKey(p)
			union[k] = p
			steps[k] = append(steps[k], metaStep(p.Op, []string{e, p.Val}))
		}
	}
	pairs := make([]Pair, 0, len(union))
	for _, p := range union {
		pairs = append(pairs, p)
	}
	return pairsToAnswers(pVar, pairs, steps, topK)
}

// difference implements `difference A B ?p`: props(A)\props(B) unioned with
// props(B)\props(A), each answer tagged with the entity it came from by
// binding the hole to "<entity>:<op>=<val>".
func (d *Dispatcher) difference(args []string, topK int) []query.Answer {
	if len(args) < 3 {
		return nil
	}
	a, b, pVar := args[0], args[1], args[2]
	pa, pb := toSet(d.props(a)), toSet(d.props(b))

	var out []query.Answer
	addSide := func(source string, mine, other map[string]Pair) {
		var side []Pair
		for k, p := range mine {
			if _, ok := other[k]; !ok {
				side = append(side, p)
			}
		}
		sort.Slice(side, func(i, j int) bool {
			if side[i].Op != side[j].Op {
				return side[i].Op < side[j].Op
			}
			return side[i].Val < side[j].Val
		})
		for _, p := range side {
			out = append(out, metaAnswer(pVar, source+":"+p.String(), 1.0, metaStep(p.Op, []string{source, p.Val})))
		}
	}
	addSide(a, pa, pb)
	addSide(b, pb, pa)

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
