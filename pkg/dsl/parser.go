package dsl

import (
	"fmt"
	"strings"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
)

// Parse lexes and parses source into a Program. A malformed statement
// produces a ParseError carrying its source line and is skipped; parsing
// continues with the next line, mirroring `learn`'s own per-statement
// recovery policy (§7) one level up.
func Parse(source string) (*Program, []ParseError) {
	prog := &Program{byName: make(map[string]*encode.Node)}
	var errs []ParseError

	for _, rl := range lex(source) {
		stmt, err := parseLine(prog, rl)
		if err != nil {
			errs = append(errs, ParseError{Line: rl.number, Message: err.Error()})
			continue
		}
		if stmt.Name != "" {
			prog.byName[stmt.Name] = stmt.Node
			if stmt.Alias != "" {
				prog.byName[stmt.Alias] = stmt.Node
			}
		}
		prog.Statements = append(prog.Statements, *stmt)
	}
	return prog, errs
}

func parseLine(prog *Program, rl rawLine) (*Statement, error) {
	tokens := rl.tokens
	name, alias := "", ""
	if strings.HasPrefix(tokens[0], "@") {
		var err error
		name, alias, err = parseAnnotation(tokens[0])
		if err != nil {
			return nil, err
		}
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("dsl: line %d: missing operator after annotation", rl.number)
	}

	operator := tokens[0]
	if !isIdent(operator) {
		return nil, fmt.Errorf("dsl: line %d: %q is not a valid operator name", rl.number, operator)
	}
	args := tokens[1:]

	node, err := buildNode(prog, rl.number, operator, args)
	if err != nil {
		return nil, err
	}
	return &Statement{Line: rl.number, Name: name, Alias: alias, Node: node}, nil
}

// parseAnnotation splits `@name` or `@name:alias` (no embedded whitespace,
// per the grammar) into its parts.
func parseAnnotation(tok string) (name, alias string, err error) {
	body := tok[1:]
	if before, after, found := strings.Cut(body, ":"); found {
		name, alias = before, after
	} else {
		name = body
	}
	if !isIdent(name) {
		return "", "", fmt.Errorf("dsl: invalid annotation name %q", tok)
	}
	if alias != "" && !isIdent(alias) {
		return "", "", fmt.Errorf("dsl: invalid annotation alias %q", tok)
	}
	return name, alias, nil
}

// buildNode dispatches on operator: the reserved structural operators
// (Implies/And/Or/Not/Exists/ForAll) take exclusively `$ref` arguments
// resolved against prior annotated statements; any other operator is an
// ordinary relation leaf whose args are constants or `?variable` holes.
func buildNode(prog *Program, line int, operator string, args []string) (*encode.Node, error) {
	if !reservedOps[operator] {
		return buildLeaf(line, operator, args)
	}

	refs := make([]*encode.Node, 0, len(args))
	for _, a := range args {
		if !strings.HasPrefix(a, "$") {
			return nil, fmt.Errorf("dsl: line %d: %s expects $ref arguments, got %q", line, operator, a)
		}
		refName := a[1:]
		if !isIdent(refName) {
			return nil, fmt.Errorf("dsl: line %d: invalid reference %q", line, a)
		}
		n, ok := prog.ResolveRef(refName)
		if !ok {
			return nil, fmt.Errorf("dsl: line %d: unresolved reference %q", line, a)
		}
		refs = append(refs, n)
	}

	switch operator {
	case OpNot:
		if len(refs) != 1 {
			return nil, fmt.Errorf("dsl: line %d: Not takes exactly one reference", line)
		}
		return encode.NewNot(refs[0]), nil
	case OpImplies:
		if len(refs) != 2 {
			return nil, fmt.Errorf("dsl: line %d: Implies takes exactly two references (cond, concl)", line)
		}
		return encode.NewImplies(refs[0], refs[1]), nil
	case OpAnd, OpExists, OpForAll:
		// Exists/ForAll carry no distinct operational semantics in this
		// kernel (they are reserved marker names only, per the grammar);
		// both fold into a plain conjunction over their referenced parts.
		if len(refs) == 0 {
			return nil, fmt.Errorf("dsl: line %d: %s takes at least one reference", line, operator)
		}
		return encode.NewAnd(refs...), nil
	case OpOr:
		if len(refs) == 0 {
			return nil, fmt.Errorf("dsl: line %d: Or takes at least one reference", line)
		}
		return encode.NewOr(refs...), nil
	default:
		return nil, fmt.Errorf("dsl: line %d: unhandled reserved operator %q", line, operator)
	}
}

func buildLeaf(line int, operator string, args []string) (*encode.Node, error) {
	for _, a := range args {
		if strings.HasPrefix(a, "$") {
			return nil, fmt.Errorf("dsl: line %d: %q is a relation leaf and cannot take a $ref argument", line, operator)
		}
		if strings.HasPrefix(a, "?") {
			if !isIdent(a[1:]) {
				return nil, fmt.Errorf("dsl: line %d: invalid variable %q", line, a)
			}
			continue
		}
		if !isIdent(a) {
			return nil, fmt.Errorf("dsl: line %d: invalid argument %q", line, a)
		}
	}
	return encode.NewLeaf(operator, args...), nil
}
