package quality

import (
	"crmlake/internal/record"
)

// Rule is a single named quality check evaluated against a dataset.
// Rules are stateless and must not mutate the dataset; a structural
// problem in a record is reported inside the Verdict, never as an
// error.
type Rule interface {
	// Name returns the stable rule identifier used in reports.
	Name() string

	// Evaluate runs the check against the whole dataset.
	Evaluate(ds *record.Dataset) Verdict
}

// Verdict is the outcome of one rule against one dataset.
type Verdict struct {
	RuleName         string                 `json:"rule_name"`
	Passed           bool                   `json:"passed"`
	Message          string                 `json:"message"`
	OffendingIndices []int                  `json:"offending_indices,omitempty"`
	Details          map[string]interface{} `json:"details,omitempty"`
}

func pass(name, message string, details map[string]interface{}) Verdict {
	return Verdict{
		RuleName: name,
		Passed:   true,
		Message:  message,
		Details:  details,
	}
}

func fail(name, message string, indices []int, details map[string]interface{}) Verdict {
	return Verdict{
		RuleName:         name,
		Passed:           false,
		Message:          message,
		OffendingIndices: indices,
		Details:          details,
	}
}
