package promote

import (
	"sort"
	"strings"

	"crmlake/internal/record"
)

// Fields that describe the extraction run, not the entity; they are
// stripped from individual production records.
var extractionMetadataFields = map[string]bool{
	"extracted_at": true,
}

// Fields normalized to lower case on promotion.
var lowercaseFields = map[string]bool{
	"email": true,
}

// cleanRecord applies the deterministic, side-effect-free per-record
// transform: extraction metadata and null or empty-string fields are
// elided, strings are trimmed, and email addresses are lower-cased.
// The transform is total over validated records and never rejects
// one; rejection is a validation-time decision.
func cleanRecord(rec record.Record) record.Record {
	out := make(record.Record, len(rec))

	for field, v := range rec {
		if extractionMetadataFields[field] || v.IsNull() {
			continue
		}

		if s, ok := v.AsString(); ok {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if lowercaseFields[field] {
				s = strings.ToLower(s)
			}
			out[field] = record.String(s)
			continue
		}

		out[field] = v
	}

	return out
}

// sortByID orders production records by their id field so repeated
// runs over the same staging data produce identical artifacts.
// Records without an id sort first, preserving relative order.
func sortByID(records []record.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, aok := records[i].Field("id")
		b, bok := records[j].Field("id")
		if !aok || !bok {
			return !aok && bok
		}
		return a.String() < b.String()
	})
}
