package meta

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/reason"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

type harness struct {
	store *kb.Store
	voc   *vocab.Vocabulary
	enc   *encode.Encoder
	disp  *Dispatcher
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
	return &harness{store: store, voc: voc, enc: enc, disp: New(store, voc, reasoner, nil)}
}

func (h *harness) fact(t *testing.T, operator string, args ...string) {
	t.Helper()
	n := encode.NewLeaf(operator, args...)
	vec, err := h.enc.Encode(n)
	require.NoError(t, err)
	_, err = h.store.InsertFact(kb.Fact{Operator: n.Operator, Args: n.Args, Vector: vec})
	require.NoError(t, err)
}

// TestSimilarScenario mirrors spec scenario S6.
func TestSimilarScenario(t *testing.T) {
	h := newHarness(t)
	h.fact(t, "has", "Dog", "Fur")
	h.fact(t, "can", "Dog", "Bark")
	h.fact(t, "isA", "Dog", "Mammal")
	h.fact(t, "has", "Cat", "Fur")
	h.fact(t, "isA", "Cat", "Mammal")
	h.fact(t, "has", "Car", "Wheels")

	answers, handled := h.disp.Dispatch("similar", []string{"Dog", "?x"}, 10)
	require.True(t, handled)
	require.NotEmpty(t, answers)
	require.Equal(t, "Cat", answers[0].Bindings["?x"])
	require.GreaterOrEqual(t, answers[0].Confidence, 2.0/3.0-1e-9)
	for _, a := range answers {
		require.NotEqual(t, "Car", a.Bindings["?x"])
	}
}

func TestInduceIntersectsProps(t *testing.T) {
	h := newHarness(t)
	h.fact(t, "has", "Dog", "Fur")
	h.fact(t, "has", "Cat", "Fur")
	h.fact(t, "isA", "Dog", "Mammal")

	answers, handled := h.disp.Dispatch("induce", []string{"Dog", "Cat", "?p"}, 10)
	require.True(t, handled)
	require.Len(t, answers, 1)
	require.Equal(t, "has=Fur", answers[0].Bindings["?p"])
}

func TestBundleUnionsProps(t *testing.T) {
	h := newHarness(t)
	h.fact(t, "has", "Dog", "Fur")
	h.fact(t, "can", "Cat", "Purr")

	answers, handled := h.disp.Dispatch("bundle", []string{"Dog", "Cat", "?p"}, 10)
	require.True(t, handled)
	require.Len(t, answers, 2)
}

func TestDifferenceTagsSource(t *testing.T) {
	h := newHarness(t)
	h.fact(t, "has", "Dog", "Fur")
	h.fact(t, "has", "Cat", "Claws")
	h.fact(t, "has", "Cat", "Fur")

	answers, handled := h.disp.Dispatch("difference", []string{"Dog", "Cat", "?p"}, 10)
	require.True(t, handled)
	var got []string
	for _, a := range answers {
		got = append(got, a.Bindings["?p"])
	}
	require.Contains(t, got, "Cat:has=Claws")
}

func TestAnalogyFollowsRelation(t *testing.T) {
	h := newHarness(t)
	h.fact(t, "capital", "France", "Paris")
	h.fact(t, "capital", "Italy", "Rome")

	answers, handled := h.disp.Dispatch("analogy", []string{"France", "Paris", "Italy", "?D"}, 10)
	require.True(t, handled)
	require.Len(t, answers, 1)
	require.Equal(t, "Rome", answers[0].Bindings["?D"])
}

func TestDeduceSeedsFromSource(t *testing.T) {
	h := newHarness(t)
	h.fact(t, "isA", "Rex", "Dog")
	h.fact(t, "isA", "Dog", "Canine")
	require.NoError(t, h.voc.DeclareOperator("isA", vocab.Flags{Transitive: true, Arity: 2}))

	answers, handled := h.disp.Dispatch("deduce", []string{"Rex", "isA", "?c"}, 10)
	require.True(t, handled)
	require.NotEmpty(t, answers)
	found := false
	for _, a := range answers {
		if a.Bindings["?c"] == "isA(Rex, Canine)" {
			found = true
		}
	}
	require.True(t, found)
}

func TestDispatchUnknownOperator(t *testing.T) {
	h := newHarness(t)
	_, handled := h.disp.Dispatch("notAMetaOp", nil, 10)
	require.False(t, handled)
}
