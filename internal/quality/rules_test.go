package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmlake/internal/record"
)

func customerDataset(records ...record.Record) *record.Dataset {
	return record.New(record.KindCustomers, "test", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), records)
}

func interactionDataset(records ...record.Record) *record.Dataset {
	return record.New(record.KindInteractions, "test", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), records)
}

func customer(id, email, firstName, lastName string) record.Record {
	return record.Record{
		"id":         record.String(id),
		"email":      record.String(email),
		"phone":      record.String("+15550100000"),
		"first_name": record.String(firstName),
		"last_name":  record.String(lastName),
	}
}

func TestRequiredFields(t *testing.T) {
	rule := RequiredFields{Fields: []string{"id", "name"}}

	t.Run("empty dataset passes", func(t *testing.T) {
		v := rule.Evaluate(customerDataset())
		assert.True(t, v.Passed)
		assert.Empty(t, v.OffendingIndices)
	})

	t.Run("all present passes", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			record.Record{"id": record.String("1"), "name": record.String("a")},
			record.Record{"id": record.String("2"), "name": record.String("b")},
		))
		assert.True(t, v.Passed)
	})

	t.Run("one of five missing name", func(t *testing.T) {
		records := make([]record.Record, 0, 5)
		for i := 0; i < 4; i++ {
			records = append(records, record.Record{
				"id":   record.String(string(rune('a' + i))),
				"name": record.String("someone"),
			})
		}
		records = append(records, record.Record{"id": record.String("e")})

		v := rule.Evaluate(customerDataset(records...))
		assert.False(t, v.Passed)
		assert.Equal(t, []int{4}, v.OffendingIndices)
		assert.Contains(t, v.Message, "name=1")
	})

	t.Run("null counts as missing", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			record.Record{"id": record.String("1"), "name": record.Null()},
		))
		assert.False(t, v.Passed)
		assert.Contains(t, v.Message, "name=1")
	})
}

func TestNullPercentage(t *testing.T) {
	rule := NullPercentage{Field: "phone", MaxFraction: 0.5}

	t.Run("empty dataset passes", func(t *testing.T) {
		v := rule.Evaluate(customerDataset())
		assert.True(t, v.Passed, "0/0 is defined as passing")
		assert.Equal(t, 0.0, v.Details["null_fraction"])
	})

	t.Run("under threshold passes", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			record.Record{"phone": record.String("555")},
			record.Record{"phone": record.String("556")},
			record.Record{"phone": record.Null()},
		))
		assert.True(t, v.Passed)
	})

	t.Run("over threshold fails and records fraction", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			record.Record{"phone": record.Null()},
			record.Record{},
			record.Record{"phone": record.String("555")},
			record.Record{"phone": record.Null()},
		))
		assert.False(t, v.Passed)
		assert.Equal(t, 0.75, v.Details["null_fraction"])
		assert.Equal(t, []int{0, 1, 3}, v.OffendingIndices)
	})
}

func TestDuplicates(t *testing.T) {
	t.Run("no duplicates passes", func(t *testing.T) {
		rule := Duplicates{Keys: []string{"id"}}
		v := rule.Evaluate(customerDataset(
			record.Record{"id": record.String("1")},
			record.Record{"id": record.String("2")},
		))
		assert.True(t, v.Passed)
	})

	t.Run("empty dataset passes", func(t *testing.T) {
		rule := Duplicates{Keys: []string{"id"}}
		v := rule.Evaluate(customerDataset())
		assert.True(t, v.Passed)
	})

	t.Run("composite key duplicates reported with count", func(t *testing.T) {
		rule := Duplicates{Keys: []string{"customer_id", "timestamp"}}
		ts := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
		dup := record.Record{
			"customer_id": record.String("CUST-00001"),
			"timestamp":   record.Time(ts),
		}
		v := rule.Evaluate(interactionDataset(
			dup,
			record.Record{"customer_id": record.String("CUST-00002"), "timestamp": record.Time(ts)},
			dup.Clone(),
			record.Record{"customer_id": record.String("CUST-00003"), "timestamp": record.Time(ts)},
		))
		require.False(t, v.Passed)
		assert.Contains(t, v.Message, "CUST-00001")
		assert.Contains(t, v.Message, "count 2")
		assert.Equal(t, []int{2}, v.OffendingIndices)

		counts := v.Details["counts"].(map[string]int)
		assert.Len(t, counts, 1)
	})

	t.Run("records missing a key field are skipped", func(t *testing.T) {
		rule := Duplicates{Keys: []string{"id"}}
		v := rule.Evaluate(customerDataset(
			record.Record{},
			record.Record{},
		))
		assert.True(t, v.Passed, "absence is the required-fields rule's concern")
	})
}

func TestEmailFormat(t *testing.T) {
	rule := EmailFormat{Field: "email"}

	t.Run("valid emails pass", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			record.Record{"email": record.String("jo.doe@example.com")},
			record.Record{"email": record.String("a+b@sub.domain.org")},
		))
		assert.True(t, v.Passed)
	})

	t.Run("null and absent values are ignored", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			record.Record{"email": record.Null()},
			record.Record{},
		))
		assert.True(t, v.Passed)
	})

	t.Run("one bad email yields exactly one offending index", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			customer("1", "ok@example.com", "A", "B"),
			customer("2", "not-an-email", "C", "D"),
			customer("3", "fine@example.org", "E", "F"),
		))
		require.False(t, v.Passed)
		assert.Equal(t, []int{1}, v.OffendingIndices)
	})

	t.Run("non-string value fails the shape check", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			record.Record{"email": record.Number(42)},
		))
		assert.False(t, v.Passed)
	})
}

func TestTypeEnforcement(t *testing.T) {
	rule := TypeEnforcement{Field: "age", Expected: record.TypeNumber}

	t.Run("matching types pass", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			record.Record{"age": record.Number(44)},
			record.Record{"age": record.Null()},
			record.Record{},
		))
		assert.True(t, v.Passed)
	})

	t.Run("empty dataset passes", func(t *testing.T) {
		v := rule.Evaluate(customerDataset())
		assert.True(t, v.Passed)
	})

	t.Run("mismatched type fails", func(t *testing.T) {
		v := rule.Evaluate(customerDataset(
			record.Record{"age": record.String("forty-four")},
			record.Record{"age": record.Number(30)},
		))
		require.False(t, v.Passed)
		assert.Equal(t, []int{0}, v.OffendingIndices)
	})
}

func TestAllowedValues(t *testing.T) {
	rule := AllowedValues{Field: "type", Allowed: []string{"post", "comment"}}

	t.Run("allowed values pass", func(t *testing.T) {
		v := rule.Evaluate(interactionDataset(
			record.Record{"type": record.String("post")},
			record.Record{"type": record.String("comment")},
		))
		assert.True(t, v.Passed)
	})

	t.Run("disallowed and missing values fail", func(t *testing.T) {
		v := rule.Evaluate(interactionDataset(
			record.Record{"type": record.String("like")},
			record.Record{},
			record.Record{"type": record.String("post")},
		))
		require.False(t, v.Passed)
		assert.Equal(t, []int{0, 1}, v.OffendingIndices)
	})
}

func TestRuleDeterminism(t *testing.T) {
	// Running the same rule twice against an unchanged dataset must
	// yield identical verdicts.
	ds := interactionDataset(
		record.Record{"id": record.String("1"), "type": record.String("post")},
		record.Record{"id": record.String("1"), "type": record.String("weird")},
		record.Record{"id": record.String("2")},
	)

	rules := []Rule{
		RequiredFields{Fields: []string{"id", "type"}},
		NullPercentage{Field: "type", MaxFraction: 0.1},
		Duplicates{Keys: []string{"id"}},
		AllowedValues{Field: "type", Allowed: []string{"post", "comment"}},
	}

	for _, rule := range rules {
		first := rule.Evaluate(ds)
		second := rule.Evaluate(ds)
		assert.Equal(t, first, second, "rule %s is not deterministic", rule.Name())
	}
}
