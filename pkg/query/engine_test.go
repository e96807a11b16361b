package query

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/reason"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	store *kb.Store
	voc   *vocab.Vocabulary
	enc   *encode.Encoder
	eng   *Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	registry := vector.NewRegistry()
	ctx, err := vector.NewContext(registry, vector.DenseBinaryID, 4096, "test-session")
	require.NoError(t, err)
	voc, err := vocab.New(ctx, "TestTheory", true)
	require.NoError(t, err)
	enc := encode.New(ctx, voc)
	store := kb.New(0, nil)
	reasoner := reason.New(store, nil)
	eng := New(store, voc, reasoner, true, nil)
	return &harness{store: store, voc: voc, enc: enc, eng: eng}
}

func (h *harness) fact(t *testing.T, operator string, args ...string) *kb.Fact {
	t.Helper()
	n := encode.NewLeaf(operator, args...)
	vec, err := h.enc.Encode(n)
	require.NoError(t, err)
	f, err := h.store.InsertFact(kb.Fact{Operator: n.Operator, Args: n.Args, Vector: vec})
	require.NoError(t, err)
	return f
}

func (h *harness) negate(t *testing.T, operator string, args ...string) {
	t.Helper()
	n := encode.NewLeaf(operator, args...)
	vec, err := h.enc.Encode(n)
	require.NoError(t, err)
	_, err = h.store.InsertFact(kb.Fact{Operator: n.Operator, Args: n.Args, Vector: vec, Negated: true})
	require.NoError(t, err)
}

func (h *harness) rule(name string, condition, conclusion *encode.Node) {
	h.store.InsertRule(kb.Rule{Name: name, Condition: condition, Conclusion: conclusion, HasVariables: true})
}

func TestQueryDirectFact(t *testing.T) {
	h := newHarness(t)
	h.fact(t, "isA", "Rex", "Dog")
	res := h.eng.Prove(encode.NewLeaf("isA", "Rex", "Dog"), Config{})
	require.True(t, res.Valid)
}

func TestQueryTransitiveChain(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.voc.DeclareOperator("isA", vocab.Flags{Transitive: true, Arity: 2}))
	h.fact(t, "isA", "Rex", "Dog")
	h.fact(t, "isA", "Dog", "Canine")
	h.fact(t, "isA", "Canine", "Mammal")
	h.fact(t, "isA", "Mammal", "LivingThing")

	res := h.eng.Prove(encode.NewLeaf("isA", "Rex", "LivingThing"), Config{})
	require.True(t, res.Valid)

	qr := h.eng.Query(encode.NewLeaf("isA", "?w", "Mammal"), Config{})
	require.True(t, qr.Success)
	var ancestors []string
	for _, a := range qr.AllResults {
		ancestors = append(ancestors, a.Bindings["?w"])
	}
	sort.Strings(ancestors)
	want := []string{"Canine", "Dog", "Rex"}
	if diff := cmp.Diff(want, ancestors); diff != "" {
		t.Errorf("isA ?w Mammal ancestors mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryNegationBlocksDirectFact(t *testing.T) {
	h := newHarness(t)
	h.fact(t, "can", "Opus", "Fly")
	h.negate(t, "can", "Opus", "Fly")

	res := h.eng.Prove(encode.NewLeaf("can", "Opus", "Fly"), Config{})
	require.False(t, res.Valid)
	require.Equal(t, ReasonNegationBlocks, res.Reason)
}

func TestQueryRuleWithAndAntecedent(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.voc.DeclareOperator("has", vocab.Flags{Arity: 2}))
	require.NoError(t, h.voc.DeclareOperator("isSuspect", vocab.Flags{Arity: 1}))
	h.fact(t, "has", "John", "Motive")
	h.fact(t, "has", "John", "Opportunity")
	h.rule("suspectRule",
		encode.NewAnd(encode.NewLeaf("has", "?x", "Motive"), encode.NewLeaf("has", "?x", "Opportunity")),
		encode.NewLeaf("isSuspect", "?x"),
	)

	qr := h.eng.Query(encode.NewLeaf("isSuspect", "?who"), Config{})
	require.True(t, qr.Success)
	require.Equal(t, "John", qr.Bindings["?who"])
}

func TestQueryCompoundConclusion(t *testing.T) {
	h := newHarness(t)
	h.fact(t, "isA", "Sally", "Wumpus")
	h.fact(t, "isA", "Sally", "Sterpus")
	h.fact(t, "isA", "Sally", "Gorpus")
	h.rule("zumpusRule",
		encode.NewAnd(
			encode.NewLeaf("isA", "?x", "Wumpus"),
			encode.NewLeaf("isA", "?x", "Sterpus"),
			encode.NewLeaf("isA", "?x", "Gorpus"),
		),
		encode.NewAnd(
			encode.NewLeaf("isA", "?x", "Zumpus"),
			encode.NewLeaf("isA", "?x", "Impus"),
		),
	)

	require.True(t, h.eng.Prove(encode.NewLeaf("isA", "Sally", "Zumpus"), Config{}).Valid)
	require.True(t, h.eng.Prove(encode.NewLeaf("isA", "Sally", "Impus"), Config{}).Valid)

	qr := h.eng.Query(encode.NewLeaf("isA", "?who", "Zumpus"), Config{})
	require.True(t, qr.Success)
	require.Equal(t, "Sally", qr.Bindings["?who"])
}

func TestQueryContrapositive(t *testing.T) {
	h := newHarness(t)
	h.rule("vumpusRule",
		encode.NewLeaf("isA", "?x", "Vumpus"),
		encode.NewAnd(
			encode.NewLeaf("isA", "?x", "Brimpus"),
			encode.NewLeaf("isA", "?x", "Zumpus"),
		),
	)
	h.negate(t, "isA", "Alex", "Brimpus")

	res := h.eng.Prove(encode.NewNot(encode.NewLeaf("isA", "Alex", "Vumpus")), Config{})
	require.True(t, res.Valid)
}

func TestQueryUnknownOperator(t *testing.T) {
	h := newHarness(t)
	qr := h.eng.Query(encode.NewLeaf("neverDeclared", "X"), Config{})
	require.False(t, qr.Success)
	require.Equal(t, ReasonUnknownOperator, qr.Reason)
}
