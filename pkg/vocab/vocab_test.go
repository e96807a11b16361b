package vocab

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
)

func newTestVocab(t *testing.T) *Vocabulary {
	t.Helper()
	ctx, err := vector.NewContext(vector.NewRegistry(), vector.DenseBinaryID, 4096, "test-session")
	require.NoError(t, err)
	v, err := New(ctx, "TestTheory", true)
	require.NoError(t, err)
	return v
}

func TestGetOrCreateIsDeterministicWithinATheory(t *testing.T) {
	v := newTestVocab(t)
	first, err := v.GetOrCreate("Alice")
	require.NoError(t, err)
	second, err := v.GetOrCreate("Alice")
	require.NoError(t, err)
	require.Equal(t, first.Vector, second.Vector)
}

func TestGetOrCreateIsTheoryScoped(t *testing.T) {
	ctx, err := vector.NewContext(vector.NewRegistry(), vector.DenseBinaryID, 4096, "test-session")
	require.NoError(t, err)
	a, err := New(ctx, "TheoryA", true)
	require.NoError(t, err)
	b, err := New(ctx, "TheoryB", true)
	require.NoError(t, err)

	entryA, err := a.GetOrCreate("Alice")
	require.NoError(t, err)
	entryB, err := b.GetOrCreate("Alice")
	require.NoError(t, err)
	require.NotEqual(t, entryA.Vector, entryB.Vector)
}

func TestLookupReturnsNilBeforeMaterialization(t *testing.T) {
	v := newTestVocab(t)
	require.Nil(t, v.Lookup("Unseen"))
	_, err := v.GetOrCreate("Unseen")
	require.NoError(t, err)
	require.NotNil(t, v.Lookup("Unseen"))
}

func TestDeclareOperatorSetsRelationFlags(t *testing.T) {
	v := newTestVocab(t)
	require.NoError(t, v.DeclareOperator("isA", Flags{Transitive: true, Arity: 2}))

	flags, ok := v.OperatorFlags("isA")
	require.True(t, ok)
	require.True(t, flags.IsOperator)
	require.True(t, flags.IsRelation)
	require.True(t, flags.Transitive)
	require.Equal(t, 2, flags.Arity)
}

func TestOperatorFlagsFindsReservedMarkersFirst(t *testing.T) {
	v := newTestVocab(t)
	flags, ok := v.OperatorFlags(OpImplies)
	require.True(t, ok)
	require.True(t, flags.IsOperator)
}

func TestPositionAndHoleAtAreStableAndDistinct(t *testing.T) {
	v := newTestVocab(t)
	pos1, err := v.Position(1)
	require.NoError(t, err)
	hole1, err := v.HoleAt(1)
	require.NoError(t, err)
	require.NotEqual(t, pos1, hole1)

	pos1Again, err := v.Position(1)
	require.NoError(t, err)
	require.Equal(t, pos1, pos1Again)

	_, err = v.Position(0)
	require.Error(t, err)
	_, err = v.Position(NumPositions + 1)
	require.Error(t, err)
}

func TestEntriesExcludesPositionsAndOtherTheories(t *testing.T) {
	ctx, err := vector.NewContext(vector.NewRegistry(), vector.DenseBinaryID, 4096, "test-session")
	require.NoError(t, err)
	v, err := New(ctx, "TheoryA", true)
	require.NoError(t, err)
	other, err := New(ctx, "TheoryB", true)
	require.NoError(t, err)

	_, err = v.GetOrCreate("Alice")
	require.NoError(t, err)
	_, err = other.GetOrCreate("Bob")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range v.Entries() {
		names[e.Name] = true
	}
	require.True(t, names["Alice"])
	require.False(t, names["Bob"])
	require.False(t, names["__Pos1__"])
}

func TestIsVariableRecognizesQuestionMarkPrefix(t *testing.T) {
	require.True(t, IsVariable("?x"))
	require.False(t, IsVariable("x"))
	require.False(t, IsVariable(""))
}
