package session

import "fmt"

// UnknownOperatorError is returned by learn when a statement uses an
// operator outside the declared catalog and AutoDeclareUnknownOperators is
// false (§7 "Unknown operator").
type UnknownOperatorError struct {
	Operator string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator %q (autoDeclareUnknownOperators is false)", e.Operator)
}

// InternalError wraps an invariant violation surfaced from a lower layer
// without unwinding the Session's state (§7 "Internal invariants").
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Reason)
}
