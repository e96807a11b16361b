package vector

import "fmt"

// Context is a per-session handle binding a Strategy instance to a default
// geometry. Every algebra method forwards to the instance, applying the
// default geometry when a caller needs a fresh vector but doesn't specify
// one. A Context's lifetime equals its owning Session's.
type Context struct {
	strategyID string
	geometry   uint32
	strategy   Strategy
}

// NewContext resolves strategyID from registry and, per the spec, calls
// CreateInstance when the resolved strategy exports it (stateful strategies
// MUST be instantiated per-session); otherwise the shared registry object is
// used directly.
func NewContext(registry *Registry, strategyID string, geometry uint32, sessionID string) (*Context, error) {
	if geometry == 0 || geometry%32 != 0 {
		return nil, &BadGeometryError{Geometry: geometry}
	}
	strat, err := registry.New(strategyID)
	if err != nil {
		return nil, err
	}
	if instantiable, ok := strat.(InstantiableStrategy); ok {
		instance, err := instantiable.CreateInstance(InstanceParams{
			StrategyID: strategyID,
			Geometry:   geometry,
			SessionID:  sessionID,
		})
		if err != nil {
			return nil, fmt.Errorf("vector: createInstance for %q: %w", strategyID, err)
		}
		strat = instance
	}
	return &Context{strategyID: strategyID, geometry: geometry, strategy: strat}, nil
}

// StrategyID returns the bound strategy's identifier.
func (c *Context) StrategyID() string { return c.strategyID }

// Geometry returns the context's default geometry.
func (c *Context) Geometry() uint32 { return c.geometry }

// Strategy exposes the underlying instance, for callers (vocabulary, KB
// serialization) that need the full algebra surface rather than just the
// geometry-defaulted convenience wrappers below.
func (c *Context) Strategy() Strategy { return c.strategy }

// CreateZero creates a zero vector at the context's default geometry.
func (c *Context) CreateZero() (Vector, error) { return c.strategy.CreateZero(c.geometry) }

// CreateRandom creates a random vector at the context's default geometry.
func (c *Context) CreateRandom(seed int64) (Vector, error) {
	return c.strategy.CreateRandom(c.geometry, seed)
}

// CreateFromName deterministically materializes name at the context's default geometry.
func (c *Context) CreateFromName(name string) (Vector, error) {
	return c.strategy.CreateFromName(name, c.geometry)
}

// Bind delegates to the bound strategy.
func (c *Context) Bind(a, b Vector) (Vector, error) { return c.strategy.Bind(a, b) }

// BindAll delegates to the bound strategy.
func (c *Context) BindAll(vs ...Vector) (Vector, error) { return c.strategy.BindAll(vs...) }

// Bundle delegates to the bound strategy.
func (c *Context) Bundle(vs []Vector, tieBreak TieBreaker) (Vector, error) {
	return c.strategy.Bundle(vs, tieBreak)
}

// Unbind delegates to the bound strategy.
func (c *Context) Unbind(composite, component Vector) (Vector, error) {
	return c.strategy.Unbind(composite, component)
}

// Similarity delegates to the bound strategy.
func (c *Context) Similarity(a, b Vector) (float64, error) { return c.strategy.Similarity(a, b) }

// TopKSimilar delegates to the bound strategy.
func (c *Context) TopKSimilar(query Vector, vocab VocabLookup, k int) ([]ScoredName, error) {
	return c.strategy.TopKSimilar(query, vocab, k)
}
