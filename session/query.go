package session

import (
	"fmt"
	"time"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/dsl"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/query"
)

// parseGoal parses a single-statement DSL source into its AST node, the form
// Query/Prove/FindAll/Abduce all take their goal/observation argument in.
func parseGoal(source string) (*encode.Node, error) {
	program, errs := dsl.Parse(source)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	if len(program.Statements) != 1 {
		return nil, fmt.Errorf("session: goal must be exactly one statement, got %d", len(program.Statements))
	}
	return program.Statements[0].Node, nil
}

// recordQuery updates the Session's running statistics after one
// query/prove/findAll/abduce call.
func (s *Session) recordQuery(dur time.Duration, timedOut bool, depth int) {
	s.stats.queriesRun++
	s.stats.lastQueryDur = dur
	if timedOut {
		s.stats.timeouts++
	}
	if depth > s.stats.maxDepthSeen {
		s.stats.maxDepthSeen = depth
	}
}

func maxAnswerDepth(answers []query.Answer) int {
	max := 0
	for _, a := range answers {
		if a.Depth > max {
			max = a.Depth
		}
	}
	return max
}

// Query runs §6's `query(goal, opts?) -> QueryResult`: the single best
// answer to goal, bindings-first.
func (s *Session) Query(goal string, opts *QueryOptions) (query.QueryResult, error) {
	node, err := parseGoal(goal)
	if err != nil {
		return query.QueryResult{}, err
	}
	cfg := s.queryConfig(opts)
	cfg.FirstOnly = true
	start := time.Now()
	result := s.engine.Query(node, cfg)
	s.recordQuery(time.Since(start), result.TimedOut, maxAnswerDepth(result.AllResults))
	return result, nil
}

// Prove runs §6's `prove(goal, opts?) -> ProofResult`: a validity check plus
// the proof trail justifying it.
func (s *Session) Prove(goal string, opts *QueryOptions) (query.ProofResult, error) {
	node, err := parseGoal(goal)
	if err != nil {
		return query.ProofResult{}, err
	}
	cfg := s.queryConfig(opts)
	start := time.Now()
	result := s.engine.Prove(node, cfg)
	depth := 0
	if result.Valid {
		depth = len(result.Proof.Steps)
	}
	s.recordQuery(time.Since(start), result.TimedOut, depth)
	return result, nil
}

// FindAll runs §6's `findAll(goal, opts?) -> QueryResult`: every distinct
// answer within the configured topK/depth/timeout budget.
func (s *Session) FindAll(goal string, opts *QueryOptions) (query.QueryResult, error) {
	node, err := parseGoal(goal)
	if err != nil {
		return query.QueryResult{}, err
	}
	cfg := s.queryConfig(opts)
	start := time.Now()
	result := s.engine.FindAll(node, cfg)
	s.recordQuery(time.Since(start), result.TimedOut, maxAnswerDepth(result.AllResults))
	return result, nil
}

// Elaborate renders a proof or query result as the human-readable trace
// described in §6's `elaborate`.
func (s *Session) Elaborate(p query.Proof) string {
	return query.Elaborate(p)
}

// ElaborateJSON renders a proof as JSON, for callers that want the trace as
// structured data rather than the ASCII tree.
func (s *Session) ElaborateJSON(p query.Proof) ([]byte, error) {
	return query.ElaborateJSON(p)
}
