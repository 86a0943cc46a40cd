package summary

import (
	"time"

	"crmlake/internal/record"
)

// UnknownBucket is the explicit category for records whose value
// for a breakdown field is absent, null or not usable as a label.
// Keeping those records in a bucket is what makes every breakdown
// sum to the dataset total.
const UnknownBucket = "unknown"

// Summary is the document the dashboard consumes: a generation
// timestamp plus totals and categorical breakdowns per dataset
// kind. Category keys are raw values; label formatting belongs to
// the dashboard.
type Summary struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	Customers    *KindSummary  `json:"customers"`
	Interactions *KindSummary  `json:"interactions"`
}

// KindSummary aggregates one production dataset.
type KindSummary struct {
	TotalCount int                       `json:"total_count"`
	Breakdowns map[string]map[string]int `json:"breakdowns"`
}

// breakdown maps one record to a bucket label for one named chart.
type breakdown struct {
	name   string
	bucket func(rec record.Record) string
}

// fieldBreakdown buckets by a categorical field's raw string value.
func fieldBreakdown(name, field string) breakdown {
	return breakdown{
		name: name,
		bucket: func(rec record.Record) string {
			v, ok := rec.Field(field)
			if !ok || v.IsNull() {
				return UnknownBucket
			}
			if s, isString := v.AsString(); isString {
				return s
			}
			return v.String()
		},
	}
}

// ageBreakdown buckets customers into the age bands the dashboard
// charts.
func ageBreakdown() breakdown {
	return breakdown{
		name: "age_distribution",
		bucket: func(rec record.Record) string {
			v, ok := rec.Field("age")
			if !ok || v.IsNull() {
				return UnknownBucket
			}
			age, isNumber := v.AsNumber()
			if !isNumber {
				return UnknownBucket
			}
			switch {
			case age <= 25:
				return "18-25"
			case age <= 35:
				return "26-35"
			case age <= 45:
				return "36-45"
			case age <= 55:
				return "46-55"
			default:
				return "56+"
			}
		},
	}
}

var breakdownsByKind = map[record.Kind][]breakdown{
	record.KindCustomers: {
		fieldBreakdown("by_nationality", "nationality"),
		fieldBreakdown("by_gender", "gender"),
		ageBreakdown(),
	},
	record.KindInteractions: {
		fieldBreakdown("by_type", "type"),
		fieldBreakdown("by_sentiment", "sentiment"),
		fieldBreakdown("by_channel", "channel"),
	},
}

// Aggregator reduces production datasets into the dashboard
// summary. It is a pure reduction over its inputs.
type Aggregator struct {
	now func() time.Time
}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// Summarize reduces the given production datasets. A kind with no
// dataset stays nil in the summary; a kind with an empty dataset
// gets a zero-count entry. Every record counts once in the total
// and once in each breakdown.
func (a *Aggregator) Summarize(datasets ...*record.Dataset) *Summary {
	out := &Summary{GeneratedAt: a.now().UTC()}

	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		ks := summarizeKind(ds)
		switch ds.Kind() {
		case record.KindCustomers:
			out.Customers = ks
		case record.KindInteractions:
			out.Interactions = ks
		}
	}

	return out
}

func summarizeKind(ds *record.Dataset) *KindSummary {
	ks := &KindSummary{
		TotalCount: ds.Len(),
		Breakdowns: make(map[string]map[string]int),
	}

	for _, b := range breakdownsByKind[ds.Kind()] {
		counts := make(map[string]int)
		for _, rec := range ds.Records {
			counts[b.bucket(rec)]++
		}
		ks.Breakdowns[b.name] = counts
	}

	return ks
}
