package query

import "github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"

// substitute applies subst to every variable argument in args, leaving
// unbound variables and constants untouched.
func substitute(args []string, subst Binding) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if vocab.IsVariable(a) {
			if v, ok := subst[a]; ok {
				out[i] = v
				continue
			}
		}
		out[i] = a
	}
	return out
}

func allGround(args []string) bool {
	for _, a := range args {
		if vocab.IsVariable(a) {
			return false
		}
	}
	return true
}

// unifyGround unifies a (possibly variable-bearing) pattern against a ground
// fact's arguments, starting from subst. A variable already bound in subst
// must agree with the fact's value; an unbound variable is bound to it.
// typeCheck, when non-nil, is consulted for a constant/constant mismatch
// (the §4.7.1 typed isA fallback) before declaring failure.
func unifyGround(pattern, factArgs []string, subst Binding, typeCheck func(factArg, patternConst string) bool) (Binding, bool) {
	if len(pattern) != len(factArgs) {
		return nil, false
	}
	merged := subst.clone()
	for i, p := range pattern {
		f := factArgs[i]
		if vocab.IsVariable(p) {
			if existing, bound := merged[p]; bound {
				if existing != f {
					return nil, false
				}
				continue
			}
			merged[p] = f
			continue
		}
		if p == f {
			continue
		}
		if typeCheck != nil && typeCheck(f, p) {
			continue
		}
		return nil, false
	}
	return merged, true
}

// unifyPatterns unifies two (possibly variable-bearing) argument lists
// position-wise, used when matching a goal's arguments against a rule
// conclusion or condition-branch pattern — neither side is necessarily
// ground. Returns the merged substitution plus, for every goal variable
// matched against a still-unbound rule variable, a deferred linkage so the
// caller can back-propagate the rule's eventual binding onto the goal's hole.
func unifyPatterns(rulePattern, goalArgs []string, subst Binding) (merged Binding, linkage map[string]string, ok bool) {
	if len(rulePattern) != len(goalArgs) {
		return nil, nil, false
	}
	merged = subst.clone()
	linkage = map[string]string{}
	for i, rp := range rulePattern {
		ga := goalArgs[i]
		switch {
		case vocab.IsVariable(rp) && vocab.IsVariable(ga):
			if v, bound := merged[rp]; bound {
				linkage[ga] = v // rule var already resolved; treat as direct value below
			} else {
				linkage[ga] = rp
			}
		case vocab.IsVariable(rp) && !vocab.IsVariable(ga):
			if existing, bound := merged[rp]; bound {
				if existing != ga {
					return nil, nil, false
				}
			} else {
				merged[rp] = ga
			}
		case !vocab.IsVariable(rp) && vocab.IsVariable(ga):
			linkage[ga] = rp // constant rule arg surfaces back as that literal via resolveLinkage
		default:
			if rp != ga {
				return nil, nil, false
			}
		}
	}
	return merged, linkage, true
}

// resolveLinkage turns the deferred goal-variable -> rule-variable-or-constant
// map produced by unifyPatterns into concrete goal hole bindings, once the
// rule's own substitution (final) is known.
func resolveLinkage(linkage map[string]string, final Binding) Binding {
	out := make(Binding, len(linkage))
	for goalVar, ruleSide := range linkage {
		if vocab.IsVariable(ruleSide) {
			if v, ok := final[ruleSide]; ok {
				out[goalVar] = v
			}
			continue
		}
		out[goalVar] = ruleSide
	}
	return out
}
