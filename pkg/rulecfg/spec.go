package rulecfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is the intermediate record structure a rule is built from.
// It matches the YAML schema before transformation into a rule tree.
type Spec struct {
	// Type names the rule variant: universal, null, vehicle_type, speed,
	// minimal_speed, position.
	Type string `yaml:"type"`

	// Args maps constructor parameter names to values; which parameters
	// are required depends on the variant.
	Args map[string]interface{} `yaml:"args"`

	// Behaviour is "allow" or "deny" (case-insensitive). Empty defaults
	// to deny.
	Behaviour string `yaml:"behaviour"`

	// SubruleOperator is "any" or "all" (case-insensitive). Empty
	// defaults to any.
	SubruleOperator string `yaml:"subrule_operator"`

	// Subrules holds nested records built as children of this rule.
	Subrules []Spec `yaml:"subrules"`
}

// Document is the root structure of a rule specification file.
type Document struct {
	Rules []Spec `yaml:"rules"`
}

// ParseBytes parses a YAML rule specification document.
func ParseBytes(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid rule specification: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and parses a YAML rule specification file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule specification %q: %w", path, err)
	}
	doc, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
