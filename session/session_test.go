package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testOptions() SessionOptions {
	opts := DefaultOptions()
	opts.Geometry = 4096
	opts.TheoryID = "TestTheory"
	opts.Logging.Level = "error"
	return opts
}

func TestNewSessionUsesDeclaredTheoryID(t *testing.T) {
	opts := testOptions()
	opts.TheoryID = "Explicit"
	sess, err := New(opts)
	require.NoError(t, err)

	entry, err := sess.voc.GetOrCreate("Alice")
	require.NoError(t, err)
	require.NotNil(t, entry)

	want, err := sess.ctx.CreateFromName("Explicit:Alice")
	require.NoError(t, err)
	require.True(t, entry.Vector.Equals(want), "atom must be scoped to the declared theory id")
}

func TestLearnCommitsGroundFactAndAllowsQuery(t *testing.T) {
	sess, err := New(testOptions())
	require.NoError(t, err)

	result := sess.Learn("can Opus Fly")
	require.True(t, result.Success)
	require.Equal(t, 1, result.FactsAdded)
	require.Empty(t, result.Errors)

	qr, err := sess.Query("can Opus ?x", nil)
	require.NoError(t, err)
	require.True(t, qr.Success)
	require.Equal(t, "Fly", qr.Bindings["?x"])
}

func TestLearnRejectsContradictionWhenConfigured(t *testing.T) {
	opts := testOptions()
	opts.RejectContradictions = true
	sess, err := New(opts)
	require.NoError(t, err)

	require.True(t, sess.Learn("can Opus Fly").Success)

	neg := sess.Learn("Not can Opus Fly")
	require.False(t, neg.Success)
	require.Len(t, neg.Errors, 1)
}

func TestLearnRejectsUnknownOperatorWhenAutoDeclareDisabled(t *testing.T) {
	opts := testOptions()
	opts.AutoDeclareUnknownOperators = false
	opts.ReasoningProfile = ProfileMinimal
	sess, err := New(opts)
	require.NoError(t, err)

	result := sess.Learn("flies Opus")
	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
}

func TestLearnStoresRuleWhenConditionHasVariable(t *testing.T) {
	sess, err := New(testOptions())
	require.NoError(t, err)

	result := sess.Learn("isA Opus Chatbot\n@cond isA ?x Chatbot\n@concl can ?x Chat\nImplies $cond $concl")
	require.True(t, result.Success)
	require.Equal(t, 1, result.RulesAdded)
	require.Equal(t, 3, result.FactsAdded)

	qr, err := sess.Query("can Opus ?y", nil)
	require.NoError(t, err)
	require.True(t, qr.Success)
	require.Equal(t, "Chat", qr.Bindings["?y"])
}

func TestProveReturnsProofTrail(t *testing.T) {
	sess, err := New(testOptions())
	require.NoError(t, err)
	require.True(t, sess.Learn("likes Alice Pizza").Success)

	pr, err := sess.Prove("likes Alice Pizza", nil)
	require.NoError(t, err)
	require.True(t, pr.Valid)
	require.NotEmpty(t, pr.Proof.Steps)
	require.Contains(t, sess.Elaborate(pr.Proof), "Proof")
}

func TestAbduceRanksRuleConditionsBySupport(t *testing.T) {
	sess, err := New(testOptions())
	require.NoError(t, err)
	require.True(t, sess.Learn("isA Opus Chatbot\n@cond isA ?x Chatbot\n@concl can ?x Chat\nImplies $cond $concl").Success)

	result, err := sess.Abduce("can Opus Chat", nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hypotheses)
	require.Equal(t, 1.0, result.Hypotheses[0].Support)
}

func TestStatsReflectsLearnedFacts(t *testing.T) {
	sess, err := New(testOptions())
	require.NoError(t, err)
	require.True(t, sess.Learn("owns Alice Boat\nowns Bob Car").Success)

	_, err = sess.Query("owns Alice ?x", nil)
	require.NoError(t, err)

	stats := sess.Stats()
	require.Equal(t, 2, stats.TotalFacts)
	require.Equal(t, 1, stats.QueriesRun)
}
