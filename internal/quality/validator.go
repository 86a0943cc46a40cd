package quality

import (
	"fmt"
	"time"

	"crmlake/internal/record"
)

// Validator owns the fixed, ordered rule set per dataset kind and
// builds quality reports. The rule sets are read-only after
// construction; tests substitute alternate configurations without
// global side effects.
type Validator struct {
	rules map[record.Kind][]Rule
	now   func() time.Time
}

// NewValidator builds a validator from a rule-set configuration.
// A malformed configuration is the one quality condition that is an
// error rather than a verdict.
func NewValidator(cfg Config) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule configuration: %w", err)
	}

	rules := make(map[record.Kind][]Rule, len(cfg.Datasets))
	for name, dr := range cfg.Datasets {
		kind, err := record.ParseKind(name)
		if err != nil {
			return nil, err
		}
		built, err := buildRules(dr)
		if err != nil {
			return nil, fmt.Errorf("rules for %s: %w", kind, err)
		}
		rules[kind] = built
	}

	return &Validator{
		rules: rules,
		now:   time.Now,
	}, nil
}

// buildRules assembles a kind's rules in the fixed registration
// order: required fields, null percentages, duplicates, email
// format, type enforcement, allowed values.
func buildRules(dr DatasetRules) ([]Rule, error) {
	var rules []Rule

	if len(dr.RequiredFields) > 0 {
		rules = append(rules, RequiredFields{Fields: dr.RequiredFields})
	}

	for _, nc := range dr.NullChecks {
		rules = append(rules, NullPercentage{Field: nc.Field, MaxFraction: nc.MaxFraction})
	}

	if len(dr.UniqueKeys) > 0 {
		rules = append(rules, Duplicates{Keys: dr.UniqueKeys})
	}

	if dr.EmailField != "" {
		rules = append(rules, EmailFormat{Field: dr.EmailField})
	}

	for _, tc := range dr.TypeChecks {
		typ, err := record.ParseType(tc.Type)
		if err != nil {
			return nil, fmt.Errorf("type check on %s: %w", tc.Field, err)
		}
		rules = append(rules, TypeEnforcement{Field: tc.Field, Expected: typ})
	}

	for _, av := range dr.AllowedValues {
		rules = append(rules, AllowedValues{Field: av.Field, Allowed: av.Values})
	}

	return rules, nil
}

// RulesFor returns the registered rules for a kind, in evaluation
// order.
func (v *Validator) RulesFor(kind record.Kind) []Rule {
	return v.rules[kind]
}

// Validate runs every registered rule against the dataset. There is
// no short-circuiting: a report always carries one verdict per rule
// so diagnostics stay complete, and OverallPassed is the AND of the
// verdicts.
func (v *Validator) Validate(ds *record.Dataset) *Report {
	report := &Report{
		DatasetKind:   ds.Kind(),
		RecordCount:   ds.Len(),
		OverallPassed: true,
		GeneratedAt:   v.now().UTC(),
	}

	for _, rule := range v.rules[ds.Kind()] {
		verdict := rule.Evaluate(ds)
		report.Verdicts = append(report.Verdicts, verdict)
		if !verdict.Passed {
			report.OverallPassed = false
		}
	}

	return report
}
