package reason

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func zeroVec(t *testing.T) vector.Vector {
	t.Helper()
	v, err := vector.NewDenseBinary().CreateZero(1024)
	require.NoError(t, err)
	return v
}

func chainStore(t *testing.T, op string, pairs [][2]string) *kb.Store {
	t.Helper()
	s := kb.New(0, nil)
	for _, p := range pairs {
		_, err := s.InsertFact(kb.Fact{Operator: op, Args: []string{p[0], p[1]}, Vector: zeroVec(t)})
		require.NoError(t, err)
	}
	return s
}

func TestReachesDirectEdge(t *testing.T) {
	s := chainStore(t, "partOf", [][2]string{{"Wheel", "Car"}})
	r := New(s, nil)
	res := r.Reaches("partOf", "Wheel", "Car", false, false, 0)
	require.True(t, res.Reachable)
	require.Equal(t, []string{"Wheel", "Car"}, res.Path)
}

func TestReachesMultiHopChain(t *testing.T) {
	s := chainStore(t, "partOf", [][2]string{
		{"Bolt", "Wheel"}, {"Wheel", "Axle"}, {"Axle", "Car"},
	})
	r := New(s, nil)
	res := r.Reaches("partOf", "Bolt", "Car", false, false, DefaultMaxDepth)
	require.True(t, res.Reachable)
	require.Equal(t, []string{"Bolt", "Wheel", "Axle", "Car"}, res.Path)
}

func TestReachesRespectsDepthBound(t *testing.T) {
	s := chainStore(t, "partOf", [][2]string{
		{"A", "B"}, {"B", "C"}, {"C", "D"},
	})
	r := New(s, nil)
	res := r.Reaches("partOf", "A", "D", false, false, 2)
	require.False(t, res.Reachable)
}

func TestReachesDetectsCycleSafely(t *testing.T) {
	s := chainStore(t, "partOf", [][2]string{
		{"A", "B"}, {"B", "A"}, {"B", "C"},
	})
	r := New(s, nil)
	res := r.Reaches("partOf", "A", "C", false, false, DefaultMaxDepth)
	require.True(t, res.Reachable)
}

func TestReachesSymmetricTreatsEdgesUndirected(t *testing.T) {
	s := chainStore(t, "connectedTo", [][2]string{{"X", "Y"}})
	r := New(s, nil)
	require.False(t, r.Reaches("connectedTo", "Y", "X", false, false, DefaultMaxDepth).Reachable)
	require.True(t, r.Reaches("connectedTo", "Y", "X", true, false, DefaultMaxDepth).Reachable)
}

func TestReachesReflexiveSelfMatch(t *testing.T) {
	s := chainStore(t, "isA", nil)
	r := New(s, nil)
	res := r.Reaches("isA", "Dog", "Dog", false, true, DefaultMaxDepth)
	require.True(t, res.Reachable)
	require.Equal(t, []string{"Dog"}, res.Path)
}

func TestReachableSetCollectsAllWithinDepth(t *testing.T) {
	s := chainStore(t, "partOf", [][2]string{
		{"A", "B"}, {"B", "C"}, {"C", "D"},
	})
	r := New(s, nil)
	set := r.ReachableSet("partOf", "A", false, false, DefaultMaxDepth)
	require.Equal(t, map[string]int{"B": 1, "C": 2, "D": 3}, set)
}

func TestReachableSetReverseFindsAncestorsOverAsymmetricRelation(t *testing.T) {
	s := chainStore(t, "isA", [][2]string{
		{"Rex", "Dog"}, {"Dog", "Canine"}, {"Canine", "Mammal"},
	})
	r := New(s, nil)
	set := r.ReachableSetReverse("isA", "Mammal", false, false, DefaultMaxDepth)
	require.Equal(t, map[string]int{"Canine": 1, "Dog": 2, "Rex": 3}, set)
}

func TestReachesIgnoresNegatedFacts(t *testing.T) {
	s := kb.New(0, nil)
	_, err := s.InsertFact(kb.Fact{Operator: "partOf", Args: []string{"A", "B"}, Negated: true, Vector: zeroVec(t)})
	require.NoError(t, err)
	r := New(s, nil)
	require.False(t, r.Reaches("partOf", "A", "B", false, false, DefaultMaxDepth).Reachable)
}
