package quality

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide rule-set configuration, one entry per
// dataset kind. It is built once and injected into the Validator.
type Config struct {
	Datasets map[string]DatasetRules `yaml:"datasets"`
}

// DatasetRules configures the rules for one dataset kind.
type DatasetRules struct {
	RequiredFields []string     `yaml:"required_fields"`
	NullChecks     []NullCheck  `yaml:"null_checks"`
	UniqueKeys     []string     `yaml:"unique_keys"`
	EmailField     string       `yaml:"email_field"`
	TypeChecks     []TypeCheck  `yaml:"type_checks"`
	AllowedValues  []ValueCheck `yaml:"allowed_values"`
}

// NullCheck configures one null-percentage rule.
type NullCheck struct {
	Field       string  `yaml:"field"`
	MaxFraction float64 `yaml:"max_fraction"`
}

// TypeCheck configures one type-enforcement rule.
type TypeCheck struct {
	Field string `yaml:"field"`
	Type  string `yaml:"type"`
}

// ValueCheck configures one allowed-values rule.
type ValueCheck struct {
	Field  string   `yaml:"field"`
	Values []string `yaml:"values"`
}

// DefaultConfig returns the built-in rule sets for the two dataset
// kinds the pipeline extracts.
func DefaultConfig() Config {
	return Config{
		Datasets: map[string]DatasetRules{
			"customers": {
				RequiredFields: []string{"id", "email", "first_name", "last_name"},
				NullChecks: []NullCheck{
					{Field: "phone", MaxFraction: 0.05},
				},
				UniqueKeys: []string{"id"},
				EmailField: "email",
				TypeChecks: []TypeCheck{
					{Field: "age", Type: "number"},
					{Field: "date_of_birth", Type: "time"},
				},
			},
			"interactions": {
				RequiredFields: []string{"id", "user_id", "type", "content", "timestamp"},
				NullChecks: []NullCheck{
					{Field: "sentiment", MaxFraction: 0.05},
				},
				UniqueKeys: []string{"id"},
				TypeChecks: []TypeCheck{
					{Field: "timestamp", Type: "time"},
				},
				AllowedValues: []ValueCheck{
					{Field: "type", Values: []string{"post", "comment", "support_ticket", "feedback"}},
				},
			},
		},
	}
}

// LoadConfig reads a rule-set YAML file. Unknown fields fail fast
// so a typo in a threshold name cannot silently disable a rule.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read rule config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode rule config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration for values that would produce
// meaningless rules.
func (c Config) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("rule config has no datasets")
	}

	for name, dr := range c.Datasets {
		for _, nc := range dr.NullChecks {
			if nc.Field == "" {
				return fmt.Errorf("%s: null check with empty field", name)
			}
			if nc.MaxFraction < 0 || nc.MaxFraction > 1 {
				return fmt.Errorf("%s: null check on %s has max_fraction %v outside [0, 1]", name, nc.Field, nc.MaxFraction)
			}
		}
		for _, tc := range dr.TypeChecks {
			if tc.Field == "" {
				return fmt.Errorf("%s: type check with empty field", name)
			}
		}
		for _, av := range dr.AllowedValues {
			if av.Field == "" || len(av.Values) == 0 {
				return fmt.Errorf("%s: allowed-values check needs a field and at least one value", name)
			}
		}
	}

	return nil
}
