package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmlake/internal/record"
)

func prodDataset(kind record.Kind, records ...record.Record) *record.Dataset {
	ds := record.New(kind, "test", time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC), records)
	ds.Metadata.Layer = record.LayerProd
	return ds
}

func TestSummarize_BreakdownsSumToTotals(t *testing.T) {
	customers := prodDataset(record.KindCustomers,
		record.Record{"nationality": record.String("us"), "gender": record.String("female"), "age": record.Number(23)},
		record.Record{"nationality": record.String("gb"), "gender": record.String("male"), "age": record.Number(41)},
		record.Record{"gender": record.Null(), "age": record.String("old")}, // no nationality, null gender, unusable age
	)
	interactions := prodDataset(record.KindInteractions,
		record.Record{"type": record.String("post"), "sentiment": record.String("positive"), "channel": record.String("web")},
		record.Record{"type": record.String("comment"), "channel": record.String("email")},
	)

	sum := NewAggregator().Summarize(customers, interactions)

	require.NotNil(t, sum.Customers)
	require.NotNil(t, sum.Interactions)
	assert.Equal(t, 3, sum.Customers.TotalCount)
	assert.Equal(t, 2, sum.Interactions.TotalCount)

	// Every breakdown must account for every record: an absent or
	// null category goes to the unknown bucket instead of being
	// dropped.
	for name, counts := range sum.Customers.Breakdowns {
		total := 0
		for _, c := range counts {
			total += c
		}
		assert.Equal(t, sum.Customers.TotalCount, total, "breakdown %s loses records", name)
	}
	for name, counts := range sum.Interactions.Breakdowns {
		total := 0
		for _, c := range counts {
			total += c
		}
		assert.Equal(t, sum.Interactions.TotalCount, total, "breakdown %s loses records", name)
	}

	assert.Equal(t, 1, sum.Customers.Breakdowns["by_nationality"][UnknownBucket])
	assert.Equal(t, 1, sum.Customers.Breakdowns["by_gender"][UnknownBucket])
	assert.Equal(t, 1, sum.Customers.Breakdowns["age_distribution"][UnknownBucket])
	assert.Equal(t, 1, sum.Interactions.Breakdowns["by_sentiment"][UnknownBucket])
}

func TestSummarize_AgeBuckets(t *testing.T) {
	ages := map[float64]string{
		18: "18-25",
		25: "18-25",
		26: "26-35",
		35: "26-35",
		36: "36-45",
		45: "36-45",
		46: "46-55",
		55: "46-55",
		56: "56+",
		90: "56+",
	}

	var records []record.Record
	for age := range ages {
		records = append(records, record.Record{"age": record.Number(age)})
	}

	sum := NewAggregator().Summarize(prodDataset(record.KindCustomers, records...))
	dist := sum.Customers.Breakdowns["age_distribution"]

	want := map[string]int{}
	for _, bucket := range ages {
		want[bucket]++
	}
	assert.Equal(t, want, dist)
}

func TestSummarize_EmptyDataset(t *testing.T) {
	sum := NewAggregator().Summarize(prodDataset(record.KindCustomers))

	require.NotNil(t, sum.Customers)
	assert.Equal(t, 0, sum.Customers.TotalCount)
	for name, counts := range sum.Customers.Breakdowns {
		assert.Empty(t, counts, "breakdown %s should be empty", name)
	}
	assert.Nil(t, sum.Interactions, "kinds without a dataset stay nil")
}

func TestSummarize_RawCategoryKeys(t *testing.T) {
	// Category labels pass through untouched; formatting belongs to
	// the dashboard.
	sum := NewAggregator().Summarize(prodDataset(record.KindCustomers,
		record.Record{"nationality": record.String("us"), "age": record.Number(30)},
	))

	_, hasRaw := sum.Customers.Breakdowns["by_nationality"]["us"]
	assert.True(t, hasRaw)
	_, hasFormatted := sum.Customers.Breakdowns["by_nationality"]["US"]
	assert.False(t, hasFormatted)
}
