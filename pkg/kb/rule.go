package kb

import "github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"

// Rule is `Implies(Condition, Conclusion)` with at least one variable on
// either side. Condition/Conclusion are tree views (Leaf/And/Or/Not) rather
// than encoded vectors — the query engine walks them directly; rules are
// never matched via the Store's operator indices.
type Rule struct {
	ID           int64
	Name         string
	Condition    *encode.Node
	Conclusion   *encode.Node
	HasVariables bool
}
