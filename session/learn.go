package session

import (
	"go.uber.org/zap"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/dsl"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

// LearnError reports one statement's failure, indexed by its 1-based source
// line so a caller can point back at the offending DSL text.
type LearnError struct {
	Line    int
	Message string
}

func (e LearnError) Error() string { return e.Message }

// LearnResult summarizes one Learn call over a (possibly multi-statement)
// DSL source, per §6's "learn(statement) -> { success, errors }".
type LearnResult struct {
	Success    bool
	Errors     []LearnError
	FactsAdded int
	RulesAdded int
}

// Learn parses dslSource (§6's Statement DSL) and commits each statement to
// the Component KB. A parse failure on one line does not abort the rest:
// dsl.Parse already continues past bad lines, and Learn does the same for
// statements that fail vocabulary/contradiction checks, collecting every
// LearnError rather than stopping at the first.
func (s *Session) Learn(dslSource string) LearnResult {
	program, parseErrs := dsl.Parse(dslSource)
	result := LearnResult{Success: true}
	for _, pe := range parseErrs {
		result.Errors = append(result.Errors, LearnError{Line: pe.Line, Message: pe.Message})
	}

	for _, stmt := range program.Statements {
		if err := s.learnStatement(stmt.Node); err != nil {
			result.Errors = append(result.Errors, LearnError{Line: stmt.Line, Message: err.Error()})
			continue
		}
		if stmt.Node.Kind == encode.KindImplies && stmt.Node.HasVariable(vocab.IsVariable) {
			result.RulesAdded++
		} else {
			result.FactsAdded++
		}
	}

	if len(result.Errors) > 0 {
		result.Success = false
	}
	return result
}

// learnStatement validates n's operators, checks for a contradiction when
// configured to reject one, and commits n to the store as either a Fact or a
// Rule (§4.5's "has at least one variable" test decides which).
func (s *Session) learnStatement(n *encode.Node) error {
	if err := s.declareOrRejectOperators(n); err != nil {
		return err
	}

	switch n.Kind {
	case encode.KindImplies:
		if n.HasVariable(vocab.IsVariable) {
			return s.learnRule(n)
		}
		return s.learnGroundCompound(n, "Implies")
	case encode.KindNot:
		return s.learnLeafOrNegation(n)
	case encode.KindLeaf:
		return s.learnLeafOrNegation(n)
	case encode.KindAnd:
		return s.learnGroundCompound(n, vocab.OpAnd)
	case encode.KindOr:
		return s.learnGroundCompound(n, vocab.OpOr)
	default:
		return &InternalError{Reason: "learn: unhandled node kind"}
	}
}

// declareOrRejectOperators walks every leaf reachable from n (including
// through Not, per encode.Node.Leaves) and either auto-declares an
// undeclared operator as a relation whose arity is that of its first
// occurrence or fails with
// UnknownOperatorError, per §7 "Unknown operator".
func (s *Session) declareOrRejectOperators(n *encode.Node) error {
	for _, leaf := range n.Leaves() {
		if _, ok := s.voc.OperatorFlags(leaf.Operator); ok {
			continue
		}
		if !s.opts.AutoDeclareUnknownOperators {
			return &UnknownOperatorError{Operator: leaf.Operator}
		}
		if err := s.voc.DeclareOperator(leaf.Operator, vocab.Flags{Arity: leaf.Arity()}); err != nil {
			return err
		}
		s.logger.Debug("auto-declared operator", zap.String("operator", leaf.Operator))
	}
	return nil
}

// learnLeafOrNegation commits a ground or variable-bearing leaf (n.Kind ==
// KindLeaf) or its negation (n.Kind == KindNot wrapping a leaf) as a single
// Fact, rejecting it first if RejectContradictions finds the opposite
// polarity already asserted.
func (s *Session) learnLeafOrNegation(n *encode.Node) error {
	negated := n.Kind == encode.KindNot
	leaf := n
	if negated {
		leaf = n.Children[0]
	}

	if s.opts.RejectContradictions {
		if negated && s.store.HasPositiveFact(leaf.Operator, leaf.Args) {
			return &kb.ContradictionError{Operator: leaf.Operator, Args: leaf.Args}
		}
		if !negated && s.store.IsNegated(leaf.Operator, leaf.Args) {
			return &kb.ContradictionError{Operator: leaf.Operator, Args: leaf.Args}
		}
	}

	vec, err := s.enc.Encode(n)
	if err != nil {
		return err
	}
	_, err = s.store.InsertFact(kb.Fact{
		Operator: leaf.Operator,
		Args:     leaf.Args,
		Vector:   vec,
		Negated:  negated,
		AST:      n,
	})
	return err
}

// learnGroundCompound commits a variable-free Implies/And/Or statement as a
// single opaque Fact tagged with its top operator and the full AST, rather
// than silently materializing its conclusion as a separately-derivable fact
// — §4.5 only specifies forward consequence for rules with variables, so a
// ground compound is recorded for elaboration/querying but never auto-fired.
func (s *Session) learnGroundCompound(n *encode.Node, operator string) error {
	vec, err := s.enc.Encode(n)
	if err != nil {
		return err
	}
	_, err = s.store.InsertFact(kb.Fact{
		Operator: operator,
		Args:     nil,
		Vector:   vec,
		AST:      n,
		Metadata: map[string]string{"ground": "true"},
	})
	return err
}

// learnRule splits n into its Condition/Conclusion halves and stores it as a
// Rule, encoding neither side to a vector: the query engine walks rule trees
// directly (pkg/kb's Rule doc comment).
func (s *Session) learnRule(n *encode.Node) error {
	cond, concl := n.Children[0], n.Children[1]
	s.store.InsertRule(kb.Rule{
		Condition:    cond,
		Conclusion:   concl,
		HasVariables: true,
	})
	return nil
}
