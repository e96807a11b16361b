package encode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

func newTestEncoder(t *testing.T) (*Encoder, *vocab.Vocabulary) {
	t.Helper()
	registry := vector.NewRegistry()
	ctx, err := vector.NewContext(registry, vector.DenseBinaryID, 4096, "test-session")
	require.NoError(t, err)
	v, err := vocab.New(ctx, "TestTheory", true)
	require.NoError(t, err)
	return New(ctx, v), v
}

func TestEncodeLeafDeterministic(t *testing.T) {
	e, _ := newTestEncoder(t)
	a, err := e.Encode(NewLeaf("isA", "Rex", "Dog"))
	require.NoError(t, err)
	b, err := e.Encode(NewLeaf("isA", "Rex", "Dog"))
	require.NoError(t, err)
	require.True(t, a.Equals(b))
}

func TestEncodeOrderSensitive(t *testing.T) {
	e, _ := newTestEncoder(t)
	ab, err := e.Encode(NewLeaf("likes", "A", "B"))
	require.NoError(t, err)
	ba, err := e.Encode(NewLeaf("likes", "B", "A"))
	require.NoError(t, err)
	require.False(t, ab.Equals(ba), "position binding must make Op(A,B) != Op(B,A)")
}

func TestEncodeArityZero(t *testing.T) {
	e, v := newTestEncoder(t)
	encoded, err := e.Encode(NewLeaf("raining"))
	require.NoError(t, err)
	opEntry, err := v.GetOrCreate("raining")
	require.NoError(t, err)
	require.True(t, encoded.Equals(opEntry.Vector))
}

func TestEncodeNotAndImplies(t *testing.T) {
	e, _ := newTestEncoder(t)
	fact := NewLeaf("can", "Opus", "Fly")
	notFact := NewNot(fact)
	_, err := e.Encode(notFact)
	require.NoError(t, err)

	rule := NewImplies(
		NewAnd(NewLeaf("has", "?x", "Motive"), NewLeaf("has", "?x", "Opportunity")),
		NewLeaf("isSuspect", "?x"),
	)
	_, err = e.Encode(rule)
	require.NoError(t, err)
}

func TestEncodeArityExceedsPositions(t *testing.T) {
	e, _ := newTestEncoder(t)
	args := make([]string, vocab.NumPositions+1)
	for i := range args {
		args[i] = "a"
	}
	_, err := e.Encode(NewLeaf("op", args...))
	require.Error(t, err)
}
