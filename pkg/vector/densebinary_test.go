package vector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strategyForTest(t *testing.T) Strategy {
	t.Helper()
	return NewDenseBinary()
}

func TestCreateFromNameDeterministic(t *testing.T) {
	s := strategyForTest(t)
	a, err := s.CreateFromName("Carbon", 2048)
	require.NoError(t, err)
	b, err := s.CreateFromName("Carbon", 2048)
	require.NoError(t, err)
	require.True(t, a.Equals(b), "same (name, geometry) must produce identical bits")
}

func TestCreateFromNameDiffersAcrossTheories(t *testing.T) {
	s := strategyForTest(t)
	a, err := s.CreateFromName("TheoryA:Dog", 4096)
	require.NoError(t, err)
	b, err := s.CreateFromName("TheoryB:Dog", 4096)
	require.NoError(t, err)

	sim, err := s.Similarity(a, b)
	require.NoError(t, err)
	require.InDelta(t, 0.5, sim, 0.05, "same name in different theories must be quasi-orthogonal")
}

func TestExtendGeometryPreservesBehavior(t *testing.T) {
	s := strategyForTest(t)
	a, err := s.CreateFromName("Rex", 1024)
	require.NoError(t, err)
	b, err := s.CreateFromName("Dog", 1024)
	require.NoError(t, err)

	bound, err := s.Bind(a, b)
	require.NoError(t, err)

	aExt, err := a.ExtendGeometry(2048)
	require.NoError(t, err)
	bExt, err := b.ExtendGeometry(2048)
	require.NoError(t, err)
	boundExt, err := s.Bind(aExt, bExt)
	require.NoError(t, err)

	boundExtShrunk, err := bound.ExtendGeometry(2048)
	require.NoError(t, err)
	require.True(t, boundExt.Equals(boundExtShrunk))
}

func TestSimilarityIdentityAndSymmetry(t *testing.T) {
	s := strategyForTest(t)
	a, err := s.CreateRandom(4096, 42)
	require.NoError(t, err)
	b, err := s.CreateRandom(4096, 43)
	require.NoError(t, err)

	simAA, err := s.Similarity(a, a)
	require.NoError(t, err)
	require.Equal(t, 1.0, simAA)

	simAB, err := s.Similarity(a, b)
	require.NoError(t, err)
	simBA, err := s.Similarity(b, a)
	require.NoError(t, err)
	require.Equal(t, simAB, simBA)
}

func TestRandomVectorsConcentrateNearHalf(t *testing.T) {
	s := strategyForTest(t)
	const geometry = 16384
	total := 0.0
	const trials = 20
	for i := 0; i < trials; i++ {
		a, err := s.CreateRandom(geometry, int64(1000+i))
		require.NoError(t, err)
		b, err := s.CreateRandom(geometry, int64(2000+i))
		require.NoError(t, err)
		sim, err := s.Similarity(a, b)
		require.NoError(t, err)
		total += sim
	}
	mean := total / trials
	require.InDelta(t, 0.5, mean, 0.02)
}

func TestBindCommutativeAssociativeSelfInverse(t *testing.T) {
	s := strategyForTest(t)
	a, _ := s.CreateFromName("A", 2048)
	b, _ := s.CreateFromName("B", 2048)
	c, _ := s.CreateFromName("C", 2048)

	ab, err := s.Bind(a, b)
	require.NoError(t, err)
	ba, err := s.Bind(b, a)
	require.NoError(t, err)
	require.True(t, ab.Equals(ba), "bind must be commutative")

	abc1, err := s.BindAll(a, b, c)
	require.NoError(t, err)
	bca, err := s.Bind(b, c)
	require.NoError(t, err)
	abc2, err := s.Bind(a, bca)
	require.NoError(t, err)
	require.True(t, abc1.Equals(abc2), "bind must be associative")

	back, err := s.Bind(ab, b)
	require.NoError(t, err)
	require.True(t, back.Equals(a), "bind(bind(a,b),b) must equal a")
}

func TestUnbindInvertsBindForXOR(t *testing.T) {
	s := strategyForTest(t)
	a, _ := s.CreateFromName("A", 1024)
	b, _ := s.CreateFromName("B", 1024)
	bound, err := s.Bind(a, b)
	require.NoError(t, err)
	recovered, err := s.Unbind(bound, b)
	require.NoError(t, err)
	require.True(t, recovered.Equals(a))
}

func TestBundlePreservesSimilarity(t *testing.T) {
	s := strategyForTest(t)
	a, _ := s.CreateFromName("A", 8192)
	b, _ := s.CreateFromName("B", 8192)
	c, _ := s.CreateFromName("C", 8192)

	bundled, err := s.Bundle([]Vector{a, b, c}, nil)
	require.NoError(t, err)

	sim, err := s.Similarity(bundled, a)
	require.NoError(t, err)
	require.GreaterOrEqual(t, sim, 0.55)
}

func TestIncompatibleVectorsFail(t *testing.T) {
	s := strategyForTest(t)
	a, _ := s.CreateZero(1024)
	b, _ := s.CreateZero(2048)
	_, err := s.Bind(a, b)
	require.Error(t, err)
	var incompat *IncompatibleVectorsError
	require.ErrorAs(t, err, &incompat)
}

func TestBadGeometryFails(t *testing.T) {
	s := strategyForTest(t)
	_, err := s.CreateZero(31)
	require.Error(t, err)
	var bad *BadGeometryError
	require.ErrorAs(t, err, &bad)
}

func TestTopKSimilarExcludesIncompatibleAndOrders(t *testing.T) {
	s := strategyForTest(t)
	dog, _ := s.CreateFromName("Dog", 4096)
	cat, _ := s.CreateFromName("Cat", 4096)
	car, _ := s.CreateFromName("Car", 4096)
	tiny, _ := s.CreateFromName("Tiny", 2048)

	vocab := memVocab{{Name: "Dog", Vector: dog}, {Name: "Cat", Vector: cat}, {Name: "Car", Vector: car}, {Name: "Tiny", Vector: tiny}}
	top, err := s.TopKSimilar(dog, vocab, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "Dog", top[0].Name)
	require.Equal(t, 1.0, top[0].Score)

	all, err := s.TopKSimilar(dog, vocab, 10)
	require.NoError(t, err)
	require.Len(t, all, 3, "the 2048-bit vector must be skipped")
}

type memVocab []NamedVector

func (m memVocab) Entries() []NamedVector { return m }
