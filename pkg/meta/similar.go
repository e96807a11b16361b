package meta

import (
	"sort"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/query"
)

// similar implements `similar ?x ?y` (anchor x, solve y): for every candidate
// entity c != x, score = |props(x) ∩ props(c)| / max(|props(x)|, |props(c)|);
// candidates scoring 0 are excluded; the rest are returned top-k by score.
func (d *Dispatcher) similar(args []string, topK int) []query.Answer {
	if len(args) < 2 {
		return nil
	}
	x, yVar := args[0], args[1]
	px := toSet(d.props(x))
	if len(px) == 0 {
		return nil
	}

	type scored struct {
		entity string
		score  float64
		shared []Pair
	}
	var candidates []scored
	for _, c := range d.candidateEntities(x) {
		pc := toSet(d.props(c))
		if len(pc) == 0 {
			continue
		}
		var shared []Pair
		for k, p := range px {
			if _, ok := pc[k]; ok {
				shared = append(shared, p)
			}
		}
		if len(shared) == 0 {
			continue
		}
		denom := len(px)
		if len(pc) > denom {
			denom = len(pc)
		}
		score := float64(len(shared)) / float64(denom)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, scored{entity: c, score: score, shared: shared})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].entity < candidates[j].entity
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	out := make([]query.Answer, 0, len(candidates))
	for _, c := range candidates {
		steps := make([]query.ProofStep, 0, len(c.shared))
		for _, p := range c.shared {
			steps = append(steps, metaStep(p.Op, []string{x, p.Val}))
		}
		out = append(out, metaAnswer(yVar, c.entity, c.score, steps...))
	}
	return out
}
