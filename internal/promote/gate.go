package promote

import (
	"time"

	"crmlake/internal/quality"
	"crmlake/internal/record"
	"crmlake/pkg/logger"
)

// Gate decides whether a staged dataset moves to the production
// layer. It fails closed: no report, or a report with any failing
// verdict, blocks the whole batch. Promotion is all-or-nothing at
// dataset granularity.
type Gate struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewGate creates a promotion gate.
func NewGate(log *logger.Logger) *Gate {
	return &Gate{
		logger: log,
		now:    time.Now,
	}
}

// Result is the outcome of one promotion attempt. Exactly one of
// Production (promoted) or Reasons (rejected) is populated.
type Result struct {
	Kind       record.Kind     `json:"kind"`
	Promoted   bool            `json:"promoted"`
	Production *record.Dataset `json:"-"`
	Reasons    []string        `json:"reasons,omitempty"`
	PromotedAt time.Time       `json:"promoted_at"`
}

// Promote gates the staged dataset on its quality report. On
// success it builds the production dataset by applying the
// deterministic per-record transform; the transform is total, so
// the promoted record count always equals the staged count.
// Rejection never writes or modifies anything.
func (g *Gate) Promote(ds *record.Dataset, report *quality.Report) Result {
	now := g.now().UTC()

	if report == nil || !report.OverallPassed {
		reasons := []string{"no quality report"}
		if report != nil {
			reasons = report.FailureReasons()
		}
		g.logger.WithFields(map[string]interface{}{
			"kind":    ds.Kind(),
			"reasons": len(reasons),
		}).Warn("Promotion rejected")
		return Result{
			Kind:       ds.Kind(),
			Promoted:   false,
			Reasons:    reasons,
			PromotedAt: now,
		}
	}

	return g.promote(ds, now)
}

// ForcePromote builds the production dataset without consulting a
// report. Diagnostic escape hatch for manual runs; the scheduled
// pipeline never uses it.
func (g *Gate) ForcePromote(ds *record.Dataset) Result {
	g.logger.WithField("kind", ds.Kind()).Warn("Promoting without quality gate")
	return g.promote(ds, g.now().UTC())
}

func (g *Gate) promote(ds *record.Dataset, now time.Time) Result {
	prod := buildProduction(ds, now)

	g.logger.WithFields(map[string]interface{}{
		"kind":    ds.Kind(),
		"records": prod.Len(),
	}).Info("Dataset promoted to production")

	return Result{
		Kind:       ds.Kind(),
		Promoted:   true,
		Production: prod,
		PromotedAt: now,
	}
}

// buildProduction creates the PROD dataset: every record cleaned by
// the transform, ordered by id, with promotion metadata. The input
// dataset is left untouched.
func buildProduction(ds *record.Dataset, promotedAt time.Time) *record.Dataset {
	records := make([]record.Record, 0, ds.Len())
	for _, rec := range ds.Records {
		records = append(records, cleanRecord(rec))
	}
	sortByID(records)

	meta := ds.Metadata
	meta.Layer = record.LayerProd
	meta.PromotedAt = &promotedAt
	meta.RecordCount = len(records)

	return &record.Dataset{
		Metadata: meta,
		Records:  records,
	}
}
