package quality

import (
	"fmt"
	"time"

	"crmlake/internal/record"
)

// Report aggregates the verdicts of every rule run against one
// dataset in one pipeline run. The verdict order matches rule
// registration order; report rendering and tests rely on that.
// A report is read-only once built.
type Report struct {
	DatasetKind   record.Kind `json:"dataset_kind"`
	RecordCount   int         `json:"record_count"`
	Verdicts      []Verdict   `json:"verdicts"`
	OverallPassed bool        `json:"overall_passed"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// Failed returns the verdicts that did not pass, in report order.
func (r *Report) Failed() []Verdict {
	var out []Verdict
	for _, v := range r.Verdicts {
		if !v.Passed {
			out = append(out, v)
		}
	}
	return out
}

// FailureReasons renders the failing verdicts as "rule: message"
// strings for rejection results and logs.
func (r *Report) FailureReasons() []string {
	failed := r.Failed()
	out := make([]string, 0, len(failed))
	for _, v := range failed {
		out = append(out, fmt.Sprintf("%s: %s", v.RuleName, v.Message))
	}
	return out
}
