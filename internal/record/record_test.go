package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueTypes(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		typ  Type
	}{
		{"string", String("hi"), TypeString},
		{"number", Number(3.5), TypeNumber},
		{"bool", Bool(true), TypeBool},
		{"time", Time(time.Now()), TypeTime},
		{"null", Null(), TypeNull},
		{"zero value", Value{}, TypeNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.v.Type())
			assert.Equal(t, tt.typ == TypeNull, tt.v.IsNull())
		})
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	ts := time.Date(2026, 7, 1, 12, 30, 0, 0, time.UTC)

	rec := Record{
		"name":    String("Ada"),
		"age":     Number(36),
		"active":  Bool(true),
		"joined":  Time(ts),
		"comment": Null(),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))

	name, _ := back.Field("name")
	assert.Equal(t, TypeString, name.Type())

	age, _ := back.Field("age")
	n, _ := age.AsNumber()
	assert.Equal(t, 36.0, n)

	active, _ := back.Field("active")
	b, _ := active.AsBool()
	assert.True(t, b)

	// Timestamps survive the trip as time values, not strings.
	joined, _ := back.Field("joined")
	require.Equal(t, TypeTime, joined.Type())
	got, _ := joined.AsTime()
	assert.True(t, ts.Equal(got))

	comment, _ := back.Field("comment")
	assert.True(t, comment.IsNull())
}

func TestValueUnmarshalRejectsNestedJSON(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{"nested": 1}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &v))
}

func TestRecordMissing(t *testing.T) {
	rec := Record{
		"present": String("x"),
		"null":    Null(),
	}

	assert.False(t, rec.Missing("present"))
	assert.True(t, rec.Missing("null"))
	assert.True(t, rec.Missing("absent"))
}

func TestRecordClone(t *testing.T) {
	rec := Record{"id": String("1")}
	clone := rec.Clone()

	clone["id"] = String("2")

	v, _ := rec.Field("id")
	assert.Equal(t, "1", v.String(), "clone must not alias the original")
}

func TestValueEqual(t *testing.T) {
	ts := time.Now()

	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("a").Equal(String("b")))
	assert.False(t, String("1").Equal(Number(1)))
	assert.True(t, Null().Equal(Value{}))
	assert.True(t, Time(ts).Equal(Time(ts)))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("customers")
	require.NoError(t, err)
	assert.Equal(t, KindCustomers, kind)

	_, err = ParseKind("orders")
	assert.Error(t, err)
}
