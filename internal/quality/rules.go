package quality

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"crmlake/internal/record"
)

// RequiredFields fails when any record omits one of the configured
// fields. A field holding null counts as missing.
type RequiredFields struct {
	Fields []string
}

// Name implements Rule.
func (r RequiredFields) Name() string { return "required_fields" }

// Evaluate implements Rule. An empty dataset trivially passes.
func (r RequiredFields) Evaluate(ds *record.Dataset) Verdict {
	missingByField := make(map[string]int, len(r.Fields))
	var offending []int

	for idx, rec := range ds.Records {
		bad := false
		for _, field := range r.Fields {
			if rec.Missing(field) {
				missingByField[field]++
				bad = true
			}
		}
		if bad {
			offending = append(offending, idx)
		}
	}

	details := map[string]interface{}{
		"required_fields":      r.Fields,
		"records_with_missing": len(offending),
	}

	if len(offending) == 0 {
		return pass(r.Name(), "all required fields present", details)
	}

	// Enumerate missing occurrences per field, in configuration order.
	parts := make([]string, 0, len(r.Fields))
	for _, field := range r.Fields {
		if n := missingByField[field]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", field, n))
		}
	}
	msg := fmt.Sprintf("missing occurrences per field: %s", strings.Join(parts, ", "))
	return fail(r.Name(), msg, offending, details)
}

// NullPercentage fails when the fraction of null (or absent) values
// for a field exceeds the configured threshold. An empty dataset
// has no nulls by definition and passes.
type NullPercentage struct {
	Field       string
	MaxFraction float64
}

// Name implements Rule.
func (r NullPercentage) Name() string {
	return fmt.Sprintf("null_percentage(%s)", r.Field)
}

// Evaluate implements Rule.
func (r NullPercentage) Evaluate(ds *record.Dataset) Verdict {
	total := ds.Len()
	nulls := 0
	var offending []int

	for idx, rec := range ds.Records {
		if rec.Missing(r.Field) {
			nulls++
			offending = append(offending, idx)
		}
	}

	// 0/0 passes: no data, no violation.
	fraction := 0.0
	if total > 0 {
		fraction = float64(nulls) / float64(total)
	}

	details := map[string]interface{}{
		"field":         r.Field,
		"null_fraction": fraction,
		"threshold":     r.MaxFraction,
		"total_records": total,
		"null_records":  nulls,
	}

	msg := fmt.Sprintf("null fraction for %s is %.4f (max %.4f)", r.Field, fraction, r.MaxFraction)
	if fraction > r.MaxFraction {
		return fail(r.Name(), msg, offending, details)
	}
	return pass(r.Name(), msg, details)
}

// Duplicates fails when more than one record shares the same
// composite key. Records missing any key field are skipped here;
// RequiredFields is the rule that reports absence.
type Duplicates struct {
	Keys []string
}

// Name implements Rule.
func (r Duplicates) Name() string {
	return fmt.Sprintf("duplicates(%s)", strings.Join(r.Keys, "+"))
}

// Evaluate implements Rule.
func (r Duplicates) Evaluate(ds *record.Dataset) Verdict {
	groups := make(map[string][]int)

	for idx, rec := range ds.Records {
		key, ok := compositeKey(rec, r.Keys)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], idx)
	}

	var dupKeys []string
	for key, indices := range groups {
		if len(indices) > 1 {
			dupKeys = append(dupKeys, key)
		}
	}
	sort.Strings(dupKeys)

	details := map[string]interface{}{
		"key_fields":     r.Keys,
		"duplicate_keys": len(dupKeys),
		"total_records":  ds.Len(),
	}

	if len(dupKeys) == 0 {
		return pass(r.Name(), "no duplicate keys", details)
	}

	var offending []int
	parts := make([]string, 0, len(dupKeys))
	counts := make(map[string]int, len(dupKeys))
	for _, key := range dupKeys {
		indices := groups[key]
		counts[key] = len(indices)
		parts = append(parts, fmt.Sprintf("%s (count %d)", key, len(indices)))
		// Every record beyond the first occurrence is offending.
		offending = append(offending, indices[1:]...)
	}
	sort.Ints(offending)
	details["counts"] = counts

	msg := fmt.Sprintf("duplicate keys: %s", strings.Join(parts, "; "))
	return fail(r.Name(), msg, offending, details)
}

func compositeKey(rec record.Record, keys []string) (string, bool) {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		v, ok := rec.Field(key)
		if !ok || v.IsNull() {
			return "", false
		}
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "|"), true
}

// emailPattern is the local-part "@" domain "." tld shape; stricter
// RFC 5321 parsing is deliberately out of scope.
var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w.-]+\.\w+$`)

// EmailFormat fails when any present, non-null value in the field
// is not shaped like an email address. Null and absent values are
// ignored; RequiredFields owns those.
type EmailFormat struct {
	Field string
}

// Name implements Rule.
func (r EmailFormat) Name() string {
	return fmt.Sprintf("email_format(%s)", r.Field)
}

// Evaluate implements Rule.
func (r EmailFormat) Evaluate(ds *record.Dataset) Verdict {
	var offending []int

	for idx, rec := range ds.Records {
		v, ok := rec.Field(r.Field)
		if !ok || v.IsNull() {
			continue
		}
		s, isString := v.AsString()
		if !isString || !emailPattern.MatchString(s) {
			offending = append(offending, idx)
		}
	}

	details := map[string]interface{}{
		"field":         r.Field,
		"invalid_count": len(offending),
	}

	if len(offending) == 0 {
		return pass(r.Name(), "all emails well-formed", details)
	}

	msg := fmt.Sprintf("%d value(s) in %s are not valid email addresses", len(offending), r.Field)
	return fail(r.Name(), msg, offending, details)
}

// TypeEnforcement fails when a present, non-null value's runtime
// type does not match the expectation.
type TypeEnforcement struct {
	Field    string
	Expected record.Type
}

// Name implements Rule.
func (r TypeEnforcement) Name() string {
	return fmt.Sprintf("type_enforcement(%s)", r.Field)
}

// Evaluate implements Rule.
func (r TypeEnforcement) Evaluate(ds *record.Dataset) Verdict {
	var offending []int
	seen := make(map[record.Type]int)

	for idx, rec := range ds.Records {
		v, ok := rec.Field(r.Field)
		if !ok || v.IsNull() {
			continue
		}
		if v.Type() != r.Expected {
			offending = append(offending, idx)
			seen[v.Type()]++
		}
	}

	details := map[string]interface{}{
		"field":         r.Field,
		"expected_type": string(r.Expected),
		"invalid_count": len(offending),
	}

	if len(offending) == 0 {
		return pass(r.Name(), fmt.Sprintf("all %s values are %s", r.Field, r.Expected), details)
	}

	msg := fmt.Sprintf("%d value(s) in %s are not of type %s", len(offending), r.Field, r.Expected)
	return fail(r.Name(), msg, offending, details)
}

// AllowedValues fails when a record's value for the field is not in
// the configured set. Absent and null values fail too: a field with
// an enumerated domain is meaningless without a value.
type AllowedValues struct {
	Field   string
	Allowed []string
}

// Name implements Rule.
func (r AllowedValues) Name() string {
	return fmt.Sprintf("allowed_values(%s)", r.Field)
}

// Evaluate implements Rule.
func (r AllowedValues) Evaluate(ds *record.Dataset) Verdict {
	allowed := make(map[string]bool, len(r.Allowed))
	for _, v := range r.Allowed {
		allowed[v] = true
	}

	var offending []int
	for idx, rec := range ds.Records {
		v, ok := rec.Field(r.Field)
		if !ok || v.IsNull() {
			offending = append(offending, idx)
			continue
		}
		s, isString := v.AsString()
		if !isString || !allowed[s] {
			offending = append(offending, idx)
		}
	}

	details := map[string]interface{}{
		"field":          r.Field,
		"allowed_values": r.Allowed,
		"invalid_count":  len(offending),
	}

	if len(offending) == 0 {
		return pass(r.Name(), fmt.Sprintf("all %s values allowed", r.Field), details)
	}

	msg := fmt.Sprintf("%d record(s) have a disallowed %s value", len(offending), r.Field)
	return fail(r.Name(), msg, offending, details)
}
