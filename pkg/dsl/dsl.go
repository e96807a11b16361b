// Package dsl implements the external Statement DSL described in §6: a
// minimal line-oriented grammar of annotated, reference-linking statements
// that the session's `learn` entry point parses before encoding and storing
// each one.
package dsl

import "github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"

// Reserved operator names a statement's operator may name structurally; any
// other operator is a relation leaf.
const (
	OpImplies = "Implies"
	OpAnd     = "And"
	OpOr      = "Or"
	OpNot     = "Not"
	OpExists  = "Exists"
	OpForAll  = "ForAll"
)

var reservedOps = map[string]bool{
	OpImplies: true, OpAnd: true, OpOr: true, OpNot: true, OpExists: true, OpForAll: true,
}

// Statement is one parsed line: its built AST node plus the annotation name
// and alias it was registered under, if any.
type Statement struct {
	Line  int
	Name  string // "" if unannotated
	Alias string // "" if no alias given
	Node  *encode.Node
}

// ParseError carries the 1-based source line a statement failed on, so
// callers can build a LearnResult.errors entry with a stable index.
type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string { return e.Message }

// Program is the ordered result of parsing a DSL source: every statement
// that parsed successfully, plus the name/alias -> Node bindings `$ref`
// arguments resolve against.
type Program struct {
	Statements []Statement
	byName     map[string]*encode.Node
}

// ResolveRef looks up a previously annotated statement's Node by its
// annotation name or alias.
func (p *Program) ResolveRef(name string) (*encode.Node, bool) {
	n, ok := p.byName[name]
	return n, ok
}
