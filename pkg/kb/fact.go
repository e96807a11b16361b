// Package kb implements the L4 Component KB: the authoritative symbolic
// fact/rule store, indexed by operator and by first argument, with a
// negation index and append-only monotone fact ids.
package kb

import (
	"strings"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
)

// Fact is a ground (or degenerate-rule) statement with its encoded vector.
// Facts are append-only; soft deletion is via Tombstoned, never physical
// removal, and ids are never reused.
type Fact struct {
	ID         int64
	Name       string
	Operator   string
	Args       []string
	Vector     vector.Vector
	Negated    bool
	Tombstoned bool
	AST        *encode.Node // the full node, for ground Implies "degenerate rules" and elaboration
	Metadata   map[string]string
}

// ArgsEqual reports element-wise equality of Args against other.
func (f *Fact) ArgsEqual(other []string) bool {
	if len(f.Args) != len(other) {
		return false
	}
	for i := range f.Args {
		if f.Args[i] != other[i] {
			return false
		}
	}
	return true
}

// negationKey canonicalizes (operator, args) for the negation index: exact
// tuple, not flattened compound negations (those are consulted at the AST
// level by the query engine instead, per §4.5).
func negationKey(operator string, args []string) string {
	var sb strings.Builder
	sb.WriteString(operator)
	for _, a := range args {
		sb.WriteByte(0x1f)
		sb.WriteString(a)
	}
	return sb.String()
}

func operatorArg0Key(operator, arg0 string) string {
	return operator + "\x00" + arg0
}
