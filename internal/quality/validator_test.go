package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmlake/internal/record"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(DefaultConfig())
	require.NoError(t, err)
	return v
}

func TestValidator_OverallPassedIsANDOfVerdicts(t *testing.T) {
	v := newTestValidator(t)

	datasets := []*record.Dataset{
		customerDataset(),
		customerDataset(
			customer("CUST-00001", "a@example.com", "A", "One"),
			customer("CUST-00002", "not-an-email", "B", "Two"),
		),
		interactionDataset(
			record.Record{"id": record.String("INT-00001"), "type": record.String("like")},
		),
	}

	for _, ds := range datasets {
		report := v.Validate(ds)
		all := true
		for _, verdict := range report.Verdicts {
			all = all && verdict.Passed
		}
		assert.Equal(t, all, report.OverallPassed)
	}
}

func TestValidator_VerdictOrderMatchesRegistration(t *testing.T) {
	v := newTestValidator(t)

	ds := customerDataset(customer("CUST-00001", "a@example.com", "A", "One"))
	report := v.Validate(ds)

	var names []string
	for _, verdict := range report.Verdicts {
		names = append(names, verdict.RuleName)
	}

	assert.Equal(t, []string{
		"required_fields",
		"null_percentage(phone)",
		"duplicates(id)",
		"email_format(email)",
		"type_enforcement(age)",
		"type_enforcement(date_of_birth)",
	}, names)
}

func TestValidator_NoShortCircuit(t *testing.T) {
	v := newTestValidator(t)

	// Every rule still reports even though the first one fails.
	ds := customerDataset(record.Record{})
	report := v.Validate(ds)

	require.False(t, report.OverallPassed)
	assert.Len(t, report.Verdicts, len(v.RulesFor(record.KindCustomers)))
}

func TestValidator_EmptyCustomerDatasetPasses(t *testing.T) {
	v := newTestValidator(t)

	report := v.Validate(customerDataset())

	assert.True(t, report.OverallPassed)
	assert.Equal(t, 0, report.RecordCount)
	for _, verdict := range report.Verdicts {
		assert.True(t, verdict.Passed, "rule %s should pass on empty dataset", verdict.RuleName)
	}
}

func TestValidator_EmailScenario(t *testing.T) {
	v := newTestValidator(t)

	ds := customerDataset(
		customer("CUST-00001", "one@example.com", "A", "One"),
		customer("CUST-00002", "not-an-email", "B", "Two"),
		customer("CUST-00003", "three@example.com", "C", "Three"),
	)
	report := v.Validate(ds)

	require.False(t, report.OverallPassed)

	var emailVerdict *Verdict
	for i := range report.Verdicts {
		if report.Verdicts[i].RuleName == "email_format(email)" {
			emailVerdict = &report.Verdicts[i]
		}
	}
	require.NotNil(t, emailVerdict)
	assert.False(t, emailVerdict.Passed)
	assert.Equal(t, []int{1}, emailVerdict.OffendingIndices)

	reasons := report.FailureReasons()
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "email_format(email)")
}

func TestValidator_Idempotent(t *testing.T) {
	v := newTestValidator(t)

	ds := interactionDataset(
		record.Record{
			"id":        record.String("INT-00001"),
			"user_id":   record.String("CUST-00001"),
			"type":      record.String("post"),
			"content":   record.String("hello"),
			"timestamp": record.String("soon"), // wrong type, fails enforcement
		},
	)

	first := v.Validate(ds)
	second := v.Validate(ds)

	assert.Equal(t, first.Verdicts, second.Verdicts)
	assert.Equal(t, first.OverallPassed, second.OverallPassed)
}

func TestNewValidator_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "no datasets",
			cfg:  Config{},
		},
		{
			name: "unknown kind",
			cfg: Config{Datasets: map[string]DatasetRules{
				"ledgers": {RequiredFields: []string{"id"}},
			}},
		},
		{
			name: "unknown type in type check",
			cfg: Config{Datasets: map[string]DatasetRules{
				"customers": {TypeChecks: []TypeCheck{{Field: "age", Type: "integer"}}},
			}},
		},
		{
			name: "threshold out of range",
			cfg: Config{Datasets: map[string]DatasetRules{
				"customers": {NullChecks: []NullCheck{{Field: "phone", MaxFraction: 1.5}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewValidator(tt.cfg)
			assert.Error(t, err)
		})
	}
}
