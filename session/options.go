package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OutfinityResearch/AGISystem2-sub015/internal/obslog"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
)

// SessionOptions configures one Session, per §6 "Session construction".
type SessionOptions struct {
	// TheoryID scopes the Vocabulary's name->atom mapping (§4.2's "unique
	// within a session theory"); distinct from the Session's own id, which
	// is purely a logging/tracing correlation key.
	TheoryID                    string       `yaml:"theoryId"`
	Strategy                    string       `yaml:"strategy"`
	Geometry                    uint32       `yaml:"geometry"`
	AutoLoadCore                bool         `yaml:"autoLoadCore"`
	ClosedWorldAssumption       bool         `yaml:"closedWorldAssumption"`
	RejectContradictions        bool         `yaml:"rejectContradictions"`
	ReasoningPriority           string       `yaml:"reasoningPriority"`
	ReasoningTimeoutMs          int          `yaml:"reasoningTimeoutMs"`
	MaxProofDepth               int          `yaml:"maxProofDepth"`
	ReasoningProfile            string       `yaml:"reasoningProfile"`
	AutoDeclareUnknownOperators bool         `yaml:"autoDeclareUnknownOperators"`
	FactLimit                   int          `yaml:"factLimit"`
	Logging                     obslog.Config `yaml:"logging"`
}

// Reasoning priority values (§6).
const (
	PrioritySymbolic   = "Symbolic"
	PriorityHolographic = "Holographic"
)

// Reasoning profile values — selects which declared-operator pack(s) to
// preload (§6, §4.2 "operator packs").
const (
	ProfileTheoryDriven = "TheoryDriven"
	ProfileMinimal      = "Minimal"
)

// DefaultOptions returns the spec's documented defaults.
func DefaultOptions() SessionOptions {
	return SessionOptions{
		TheoryID:                    "default",
		Strategy:                    vector.DenseBinaryID,
		Geometry:                    DefaultLimits.Geometry,
		AutoLoadCore:                true,
		ClosedWorldAssumption:       true,
		RejectContradictions:        false,
		ReasoningPriority:           PrioritySymbolic,
		ReasoningTimeoutMs:          DefaultLimits.ReasoningTimeoutMs,
		MaxProofDepth:               DefaultLimits.MaxProofDepth,
		ReasoningProfile:            ProfileTheoryDriven,
		AutoDeclareUnknownOperators: true,
		FactLimit:                   0,
		Logging:                     obslog.DefaultConfig(),
	}
}

// LoadOptionsYAML reads a YAML file and overlays it onto DefaultOptions,
// mirroring the teacher's internal/config.Config / LoadConfig pattern.
// Fields absent from the file keep their default value.
func LoadOptionsYAML(path string) (*SessionOptions, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: read options %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("session: parse options %s: %w", path, err)
	}
	return &opts, nil
}

// envOverrides applies SYS2_HDC_STRATEGY / SYS2_GEOMETRY when set, per §6's
// "Session options environment variables (optional; library defaults always
// suffice)".
func (o *SessionOptions) envOverrides() {
	if v := os.Getenv("SYS2_HDC_STRATEGY"); v != "" {
		o.Strategy = v
	}
	if v := os.Getenv("SYS2_GEOMETRY"); v != "" {
		var g uint32
		if _, err := fmt.Sscanf(v, "%d", &g); err == nil && g > 0 {
			o.Geometry = g
		}
	}
}
