package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test for document checking. A scenario
// names a theory document, runs the checker over it, and asserts on the
// outcome: which parts are valid, which diagnostics appear.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are stored
	// under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Document is a path to a .cue theory document, relative to the
	// scenario file location. Mutually exclusive with Source.
	Document string `yaml:"document,omitempty"`

	// Source is an inline CUE theory document. Mutually exclusive with
	// Document.
	Source string `yaml:"source,omitempty"`

	// Ok asserts the overall outcome: every part valid or not.
	Ok bool `yaml:"ok"`

	// Assertions validate individual parts and diagnostics.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion validates one aspect of a checking outcome.
type Assertion struct {
	// Type specifies the assertion type:
	// - "status": part Name finished with Status
	// - "diagnostic": the log contains Message
	// - "diagnostic_count": the log holds exactly Count entries
	Type string `yaml:"type"`

	// Name is the part name (used by status).
	Name string `yaml:"name,omitempty"`

	// Status is the expected part status (used by status).
	Status string `yaml:"status,omitempty"`

	// Message is the expected diagnostic message (used by diagnostic).
	Message string `yaml:"message,omitempty"`

	// Count is the expected number of diagnostics (used by
	// diagnostic_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertStatus          = "status"
	AssertDiagnostic      = "diagnostic"
	AssertDiagnosticCount = "diagnostic_count"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := scenario.validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario is missing a name")
	}
	if s.Document == "" && s.Source == "" {
		return fmt.Errorf("scenario %s: either document or source is required", s.Name)
	}
	if s.Document != "" && s.Source != "" {
		return fmt.Errorf("scenario %s: document and source are mutually exclusive", s.Name)
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case AssertStatus:
			if a.Name == "" || a.Status == "" {
				return fmt.Errorf("scenario %s: assertion %d needs name and status", s.Name, i)
			}
		case AssertDiagnostic:
			if a.Message == "" {
				return fmt.Errorf("scenario %s: assertion %d needs a message", s.Name, i)
			}
		case AssertDiagnosticCount:
		default:
			return fmt.Errorf("scenario %s: assertion %d has unknown type %q", s.Name, i, a.Type)
		}
	}
	return nil
}
