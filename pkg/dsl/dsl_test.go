package dsl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
)

func TestParseGroundFact(t *testing.T) {
	prog, errs := Parse("isA Rex Dog\n")
	require.Empty(t, errs)
	require.Len(t, prog.Statements, 1)
	st := prog.Statements[0]
	require.Equal(t, encode.KindLeaf, st.Node.Kind)
	require.Equal(t, "isA", st.Node.Operator)
	require.Equal(t, []string{"Rex", "Dog"}, st.Node.Args)
}

func TestParseCommentsAndBlankLines(t *testing.T) {
	src := "# a comment\n\nisA Rex Dog # trailing comment\n"
	prog, errs := Parse(src)
	require.Empty(t, errs)
	require.Len(t, prog.Statements, 1)
}

func TestParseVariableArgument(t *testing.T) {
	prog, errs := Parse("isA ?x Mammal\n")
	require.Empty(t, errs)
	require.Equal(t, []string{"?x", "Mammal"}, prog.Statements[0].Node.Args)
}

// TestParseNegationScenario mirrors spec scenario S2's DSL fragment.
func TestParseNegationScenario(t *testing.T) {
	src := "@negFly can Opus Fly\nNot $negFly\n"
	prog, errs := Parse(src)
	require.Empty(t, errs)
	require.Len(t, prog.Statements, 2)

	first := prog.Statements[0]
	require.Equal(t, "negFly", first.Name)
	require.Equal(t, encode.KindLeaf, first.Node.Kind)

	second := prog.Statements[1]
	require.Equal(t, encode.KindNot, second.Node.Kind)
	require.Same(t, first.Node, second.Node.Children[0])
}

// TestParseRuleScenario mirrors spec scenario S3: an Implies rule built from
// two annotated antecedent facts ANDed together, and a named conclusion.
func TestParseRuleScenario(t *testing.T) {
	src := `
@m has ?x Motive
@o has ?x Opportunity
@cond And $m $o
@concl isSuspect ?x
@rule Implies $cond $concl
`
	prog, errs := Parse(src)
	require.Empty(t, errs)
	require.Len(t, prog.Statements, 5)

	rule := prog.Statements[4].Node
	require.Equal(t, encode.KindImplies, rule.Kind)
	require.Equal(t, encode.KindAnd, rule.Children[0].Kind)
	require.Equal(t, encode.KindLeaf, rule.Children[1].Kind)
	require.Equal(t, "isSuspect", rule.Children[1].Operator)
}

func TestParseAliasResolves(t *testing.T) {
	src := "@f1:firstFact can Tweety Fly\nNot $firstFact\n"
	prog, errs := Parse(src)
	require.Empty(t, errs)
	require.Equal(t, encode.KindNot, prog.Statements[1].Node.Kind)
}

func TestParseUnresolvedReferenceIsError(t *testing.T) {
	prog, errs := Parse("Not $missing\n")
	require.Len(t, errs, 1)
	require.Equal(t, 1, errs[0].Line)
	require.Empty(t, prog.Statements)
}

func TestParseLeafCannotTakeRef(t *testing.T) {
	_, errs := Parse("@f isA Rex Dog\nlikes $f Pizza\n")
	require.Len(t, errs, 1)
}

func TestParseContinuesAfterError(t *testing.T) {
	src := "Not $missing\nisA Rex Dog\n"
	prog, errs := Parse(src)
	require.Len(t, errs, 1)
	require.Len(t, prog.Statements, 1)
	require.Equal(t, "isA", prog.Statements[0].Node.Operator)
}
