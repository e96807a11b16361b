package kb

import (
	"sync"

	"go.uber.org/zap"

	"github.com/OutfinityResearch/AGISystem2-sub015/internal/obslog"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
)

// Store is the indexed fact/rule store backing the query engine: O(1+k)
// lookup by operator, by first argument, and by the (operator, arg0) pair,
// plus the rule list and the negation index.
type Store struct {
	mu sync.RWMutex

	nextID int64
	facts  map[int64]*Fact

	byOperator        map[string][]int64
	byArg0            map[string][]int64
	byOperatorAndArg0 map[string][]int64

	rules      []*Rule
	nextRuleID int64

	negations map[string]struct{}

	factLimit    int
	limitWarned  bool
	logger       *zap.Logger
}

// New builds an empty Store. factLimit <= 0 means unbounded.
func New(factLimit int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = obslog.Noop()
	}
	return &Store{
		facts:             make(map[int64]*Fact),
		byOperator:        make(map[string][]int64),
		byArg0:            make(map[string][]int64),
		byOperatorAndArg0: make(map[string][]int64),
		negations:         make(map[string]struct{}),
		factLimit:         factLimit,
		logger:            obslog.For(logger, obslog.CategoryKB),
	}
}

// InsertFact appends fact with a fresh monotone id, updates all relevant
// indices, and (when fact.Negated) records the inner (operator, args) tuple
// in the negation index. O(k) in the number of indices touched.
func (s *Store) InsertFact(fact Fact) (*Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.factLimit > 0 && len(s.facts) >= s.factLimit {
		return nil, &FactLimitError{Limit: s.factLimit}
	}

	s.nextID++
	fact.ID = s.nextID
	stored := fact
	s.facts[stored.ID] = &stored

	if !stored.Negated {
		s.byOperator[stored.Operator] = append(s.byOperator[stored.Operator], stored.ID)
		if len(stored.Args) > 0 {
			s.byArg0[stored.Args[0]] = append(s.byArg0[stored.Args[0]], stored.ID)
			key := operatorArg0Key(stored.Operator, stored.Args[0])
			s.byOperatorAndArg0[key] = append(s.byOperatorAndArg0[key], stored.ID)
		}
	} else {
		s.negations[negationKey(stored.Operator, stored.Args)] = struct{}{}
	}

	s.maybeWarnFactLimitLocked()
	return &stored, nil
}

func (s *Store) maybeWarnFactLimitLocked() {
	if s.factLimit <= 0 || s.limitWarned {
		return
	}
	utilization := float64(len(s.facts)) / float64(s.factLimit)
	if utilization >= 0.85 {
		s.logger.Warn("fact store nearing capacity",
			zap.Int("count", len(s.facts)), zap.Int("limit", s.factLimit))
		s.limitWarned = true
	}
}

// InsertRule appends rule with a fresh monotone rule id. Rules are never
// consulted via the operator indices; only the query engine iterates them.
func (s *Store) InsertRule(rule Rule) *Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRuleID++
	rule.ID = s.nextRuleID
	stored := rule
	s.rules = append(s.rules, &stored)
	return &stored
}

// Tombstone soft-deletes a fact id; it remains in the fact map for id
// stability but is skipped by index readers. Physical removal is out of
// scope for the core.
func (s *Store) Tombstone(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facts[id]
	if !ok {
		return false
	}
	f.Tombstoned = true
	return true
}

// FindByOperator returns the non-tombstoned facts for operator, in fact-id order.
func (s *Store) FindByOperator(operator string) []*Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.byOperator[operator])
}

// FindByArg0 returns the non-tombstoned facts whose first argument is arg0.
func (s *Store) FindByArg0(arg0 string) []*Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.byArg0[arg0])
}

// FindByOperatorAndArg0 is the composite-index lookup.
func (s *Store) FindByOperatorAndArg0(operator, arg0 string) []*Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.byOperatorAndArg0[operatorArg0Key(operator, arg0)])
}

func (s *Store) collect(ids []int64) []*Fact {
	out := make([]*Fact, 0, len(ids))
	for _, id := range ids {
		if f, ok := s.facts[id]; ok && !f.Tombstoned {
			out = append(out, f)
		}
	}
	return out
}

// IsNegated reports whether (operator, args) is present in the negation
// index, comparing args element-wise via the same canonical key used at
// insertion. O(1).
func (s *Store) IsNegated(operator string, args []string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.negations[negationKey(operator, args)]
	return ok
}

// HasPositiveFact reports whether a non-negated, non-tombstoned fact with
// exactly (operator, args) exists — used by the contradiction check before
// storing a negation.
func (s *Store) HasPositiveFact(operator string, args []string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []int64
	if len(args) > 0 {
		ids = s.byOperatorAndArg0[operatorArg0Key(operator, args[0])]
	} else {
		ids = s.byOperator[operator]
	}
	for _, id := range ids {
		f := s.facts[id]
		if f != nil && !f.Tombstoned && f.ArgsEqual(args) {
			return true
		}
	}
	return false
}

// Rules returns the stored rules in insertion order. O(1).
func (s *Store) Rules() []*Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// FactByID returns the fact for id, or nil.
func (s *Store) FactByID(id int64) *Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.facts[id]
	if f == nil || f.Tombstoned {
		return nil
	}
	return f
}

// Stats summarizes the store's contents, grounded on the teacher's
// mangle.Engine.GetStats (per-predicate fact counts).
type Stats struct {
	TotalFacts      int
	TotalRules      int
	OperatorCounts  map[string]int
}

// Stats computes a snapshot of store statistics. O(|facts|).
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int, len(s.byOperator))
	total := 0
	for op, ids := range s.byOperator {
		n := 0
		for _, id := range ids {
			if f := s.facts[id]; f != nil && !f.Tombstoned {
				n++
			}
		}
		counts[op] = n
		total += n
	}
	return Stats{TotalFacts: total, TotalRules: len(s.rules), OperatorCounts: counts}
}

// treeLeaves walks a compound AST and returns its leaves, used by callers
// that need to flatten And/Or trees (e.g. degenerate ground Implies facts).
func treeLeaves(n *encode.Node) []*encode.Node {
	if n == nil {
		return nil
	}
	if n.Kind == encode.KindLeaf {
		return []*encode.Node{n}
	}
	var out []*encode.Node
	for _, c := range n.Children {
		out = append(out, treeLeaves(c)...)
	}
	return out
}
