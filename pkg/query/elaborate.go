package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Elaborate renders a Proof as the ASCII tree the spec's `session.elaborate`
// defers to an external collaborator — the kernel ships this default
// rendering, modeled on the teacher's DerivationTrace.RenderASCII.
func Elaborate(p Proof) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Proof (%d steps):\n", len(p.Steps)))
	for i, step := range p.Steps {
		connector := "├── "
		if i == len(p.Steps)-1 {
			connector = "└── "
		}
		sb.WriteString(connector)
		sb.WriteString(renderStep(step))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderStep(s ProofStep) string {
	atom := fmt.Sprintf("%s(%s)", s.Operator, strings.Join(s.Args, ", "))
	switch s.Kind {
	case StepDirect:
		return fmt.Sprintf("%s [fact #%d]", atom, s.FactID)
	case StepTransitive:
		chain := atom
		if len(s.Chain) > 0 {
			chain = strings.Join(s.Chain, " -> ")
		}
		return fmt.Sprintf("%s [transitive: %s]", atom, chain)
	case StepRule:
		return fmt.Sprintf("%s [rule:%s]", atom, s.RuleName)
	case StepContrapositive:
		return fmt.Sprintf("%s [contrapositive:%s]", atom, s.RuleName)
	case StepExplicitNeg:
		return fmt.Sprintf("Not(%s) [explicit negation]", atom)
	case StepNegationAsFail:
		return fmt.Sprintf("Not(%s) [negation-as-failure]", atom)
	case StepMeta:
		return fmt.Sprintf("%s [meta]", atom)
	default:
		return atom
	}
}

// ElaborateJSON renders a Proof as JSON, modeled on the teacher's
// DerivationTrace.RenderJSON.
func ElaborateJSON(p Proof) ([]byte, error) {
	type jsonStep struct {
		Kind     string   `json:"kind"`
		Operator string   `json:"operator"`
		Args     []string `json:"args"`
		FactID   int64    `json:"factId,omitempty"`
		RuleName string   `json:"rule,omitempty"`
		Chain    []string `json:"chain,omitempty"`
	}
	out := make([]jsonStep, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, jsonStep{
			Kind:     string(s.Kind),
			Operator: s.Operator,
			Args:     s.Args,
			FactID:   s.FactID,
			RuleName: s.RuleName,
			Chain:    s.Chain,
		})
	}
	return json.MarshalIndent(struct {
		Steps []jsonStep `json:"steps"`
	}{Steps: out}, "", "  ")
}
