package record

import (
	"fmt"
	"time"
)

// Kind identifies which dataset family a record belongs to.
type Kind string

const (
	KindCustomers    Kind = "customers"
	KindInteractions Kind = "interactions"
)

// Kinds lists every dataset kind the pipeline processes, in
// processing order.
var Kinds = []Kind{KindCustomers, KindInteractions}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCustomers, KindInteractions:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown dataset kind: %q", s)
	}
}

// Layer identifies which data lake layer a dataset lives in.
type Layer string

const (
	LayerQA   Layer = "QA"
	LayerProd Layer = "PROD"
)

// Record is one semi-structured customer or interaction row.
// Any field may be missing or null; quality rules inspect that.
type Record map[string]Value

// Field returns the value for name and whether it is present.
func (r Record) Field(name string) (Value, bool) {
	v, ok := r[name]
	return v, ok
}

// Missing reports whether name is absent or null.
func (r Record) Missing(name string) bool {
	v, ok := r[name]
	return !ok || v.IsNull()
}

// Clone returns a shallow copy of the record. Values are immutable,
// so a shallow copy is enough to keep stages independent.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Metadata describes a dataset's provenance.
type Metadata struct {
	Kind        Kind       `json:"kind"`
	Source      string     `json:"source"`
	Layer       Layer      `json:"layer"`
	ExtractedAt time.Time  `json:"extracted_at"`
	PromotedAt  *time.Time `json:"promoted_at,omitempty"`
	RecordCount int        `json:"record_count"`
}

// Dataset is an ordered batch of records of one kind. A dataset is
// never mutated after construction; every pipeline stage returns a
// new one.
type Dataset struct {
	Metadata Metadata
	Records  []Record
}

// New creates a QA-layer dataset from extracted records.
func New(kind Kind, source string, extractedAt time.Time, records []Record) *Dataset {
	return &Dataset{
		Metadata: Metadata{
			Kind:        kind,
			Source:      source,
			Layer:       LayerQA,
			ExtractedAt: extractedAt,
			RecordCount: len(records),
		},
		Records: records,
	}
}

// Kind returns the dataset kind.
func (d *Dataset) Kind() Kind {
	return d.Metadata.Kind
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}
