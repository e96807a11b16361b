package kb

import "fmt"

// ContradictionError is returned when rejectContradictions is set and a
// statement would assert both X and Not(X).
type ContradictionError struct {
	Operator string
	Args     []string
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("contradiction: %s%v already negated or asserted", e.Operator, e.Args)
}

// FactLimitError is returned when a configured fact capacity is exceeded.
type FactLimitError struct {
	Limit int
}

func (e *FactLimitError) Error() string {
	return fmt.Sprintf("fact limit exceeded: %d", e.Limit)
}

// InternalError wraps an invariant violation (e.g. an index out of sync with
// the fact map). Per §7 this is a bug, not a user-facing condition; the
// Store is left untouched, the current operation simply fails.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Reason)
}
