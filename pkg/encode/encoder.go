package encode

import (
	"fmt"

	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

// Encoder turns a Node into its structural vector, per §4.4. It needs the
// HDC context (for bind) and the Vocabulary (for atomize/operator lookup and
// the reserved position/hole/compound-operator atoms).
type Encoder struct {
	ctx *vector.Context
	voc *vocab.Vocabulary
}

// New builds an Encoder bound to ctx and voc.
func New(ctx *vector.Context, voc *vocab.Vocabulary) *Encoder {
	return &Encoder{ctx: ctx, voc: voc}
}

// Encode produces the canonical structural vector for n.
func (e *Encoder) Encode(n *Node) (vector.Vector, error) {
	switch n.Kind {
	case KindLeaf:
		return e.encodeLeaf(n)
	case KindNot:
		return e.encodeCompound(vocab.OpNot, n.Children)
	case KindImplies:
		return e.encodeCompound(vocab.OpImplies, n.Children)
	case KindAnd:
		return e.encodeCompound(vocab.OpAnd, n.Children)
	case KindOr:
		return e.encodeCompound(vocab.OpOr, n.Children)
	default:
		return vector.Vector{}, fmt.Errorf("encode: unknown node kind %v", n.Kind)
	}
}

func (e *Encoder) encodeLeaf(n *Node) (vector.Vector, error) {
	if n.Arity() > vocab.NumPositions {
		return vector.Vector{}, fmt.Errorf("encode: arity %d exceeds %d preloaded position atoms", n.Arity(), vocab.NumPositions)
	}
	opEntry, err := e.voc.GetOrCreate(n.Operator)
	if err != nil {
		return vector.Vector{}, err
	}
	operands := make([]vector.Vector, n.Arity())
	for i, arg := range n.Args {
		operands[i], err = e.atomize(arg, i+1)
		if err != nil {
			return vector.Vector{}, err
		}
	}
	return e.bindCompound(opEntry.Vector, operands)
}

// encodeCompound encodes a reserved-operator compound (And/Or/Not/Implies)
// whose operands are the recursively-encoded child vectors.
func (e *Encoder) encodeCompound(operatorName string, children []*Node) (vector.Vector, error) {
	if len(children) > vocab.NumPositions {
		return vector.Vector{}, fmt.Errorf("encode: arity %d exceeds %d preloaded position atoms", len(children), vocab.NumPositions)
	}
	opVec := e.voc.LookupReserved(operatorName)
	if opVec == nil {
		return vector.Vector{}, fmt.Errorf("encode: reserved operator %q not preloaded", operatorName)
	}
	operands := make([]vector.Vector, len(children))
	for i, child := range children {
		v, err := e.Encode(child)
		if err != nil {
			return vector.Vector{}, err
		}
		operands[i] = v
	}
	return e.bindCompound(opVec.Vector, operands)
}

// bindCompound computes Op ⊕ (Pos1⊕operand1) ⊕ … ⊕ (Posk⊕operandk). Arity 0
// is permitted and encodes to the operator's own vector.
func (e *Encoder) bindCompound(opVec vector.Vector, operands []vector.Vector) (vector.Vector, error) {
	acc := opVec
	for i, operand := range operands {
		pos, err := e.voc.Position(i + 1)
		if err != nil {
			return vector.Vector{}, err
		}
		posBound, err := e.ctx.Bind(pos, operand)
		if err != nil {
			return vector.Vector{}, err
		}
		acc, err = e.ctx.Bind(acc, posBound)
		if err != nil {
			return vector.Vector{}, err
		}
	}
	return acc, nil
}

// atomize resolves a leaf argument token to a vector: a hole placeholder for
// variables (keyed by position, not name, so rule-pattern vectors are
// well-defined), or the vocabulary atom for constants.
func (e *Encoder) atomize(token string, position int) (vector.Vector, error) {
	if vocab.IsVariable(token) {
		return e.voc.HoleAt(position)
	}
	entry, err := e.voc.GetOrCreate(token)
	if err != nil {
		return vector.Vector{}, err
	}
	return entry.Vector, nil
}
