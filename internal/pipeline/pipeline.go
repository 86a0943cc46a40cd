package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crmlake/internal/promote"
	"crmlake/internal/quality"
	"crmlake/internal/record"
	"crmlake/internal/storage"
	"crmlake/internal/summary"
	"crmlake/pkg/logger"
)

// Extractor supplies staging datasets. The pipeline only sees this
// interface so tests can substitute canned data.
type Extractor interface {
	Customers(ctx context.Context, count int) (*record.Dataset, error)
	Interactions(ctx context.Context) (*record.Dataset, error)
}

// Pipeline runs the batch in its fixed order: extract, stage,
// validate, promote, summarize. One sequential pass per run; every
// stage hands an immutable value to the next.
type Pipeline struct {
	extractor  Extractor
	validator  *quality.Validator
	gate       *promote.Gate
	aggregator *summary.Aggregator
	store      *storage.Store
	logger     *logger.Logger
}

// New wires a pipeline from its collaborators.
func New(ex Extractor, v *quality.Validator, g *promote.Gate, store *storage.Store, log *logger.Logger) *Pipeline {
	return &Pipeline{
		extractor:  ex,
		validator:  v,
		gate:       g,
		aggregator: summary.NewAggregator(),
		store:      store,
		logger:     log,
	}
}

// RunOptions control one pipeline run.
type RunOptions struct {
	CustomerCount int
	// Force skips the quality gate. Diagnostic use only.
	Force bool
}

// KindResult is the per-kind outcome of one run.
type KindResult struct {
	Kind      record.Kind     `json:"kind"`
	Staged    int             `json:"staged"`
	Report    *quality.Report `json:"report,omitempty"`
	Promotion *promote.Result `json:"promotion,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Succeeded reports whether this kind was promoted without error.
func (k KindResult) Succeeded() bool {
	return k.Error == "" && k.Promotion != nil && k.Promotion.Promoted
}

// RunResult summarizes one full pipeline run.
type RunResult struct {
	RunID       string       `json:"run_id"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
	Kinds       []KindResult `json:"kinds"`
	SummaryPath string       `json:"summary_path,omitempty"`
	Success     bool         `json:"success"`
}

// Run executes the full batch. A validation failure for one kind is
// an expected outcome, not an error: the run continues with the
// other kind, records the rejection reasons, and reports overall
// failure through RunResult.Success. Only collaborator failures
// (extraction, storage) surface as errors inside the per-kind
// results; the previous production artifacts stay untouched either
// way.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	result := &RunResult{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Success:   true,
	}

	log := p.logger.WithField("run_id", result.RunID)
	log.Info("Pipeline run started")

	for _, kind := range record.Kinds {
		kr := p.runKind(ctx, log, kind, opts)
		result.Kinds = append(result.Kinds, kr)
		if !kr.Succeeded() {
			result.Success = false
		}
	}

	// The summary reflects whatever production currently holds, so a
	// rejected kind keeps contributing its last good data.
	if path, err := p.Summarize(ctx); err != nil {
		log.WithError(err).Error("Summary generation failed")
		result.Success = false
	} else {
		result.SummaryPath = path
	}

	result.CompletedAt = time.Now().UTC()
	log.WithFields(map[string]interface{}{
		"success":  result.Success,
		"duration": result.CompletedAt.Sub(result.StartedAt),
	}).Info("Pipeline run finished")

	return result, nil
}

func (p *Pipeline) runKind(ctx context.Context, log *logger.Logger, kind record.Kind, opts RunOptions) KindResult {
	kr := KindResult{Kind: kind}

	ds, err := p.extract(ctx, kind, opts.CustomerCount)
	if err != nil {
		kr.Error = fmt.Sprintf("extract: %v", err)
		log.WithError(err).WithField("kind", kind).Error("Extraction failed")
		return kr
	}
	kr.Staged = ds.Len()

	if _, err := p.store.WriteQA(ds); err != nil {
		kr.Error = fmt.Sprintf("stage: %v", err)
		log.WithError(err).WithField("kind", kind).Error("Staging failed")
		return kr
	}

	promoted, err := p.ValidateAndPromote(ctx, ds, opts.Force)
	if err != nil {
		kr.Error = err.Error()
		return kr
	}
	kr.Report = promoted.Report
	kr.Promotion = &promoted.Promotion
	return kr
}

func (p *Pipeline) extract(ctx context.Context, kind record.Kind, customerCount int) (*record.Dataset, error) {
	switch kind {
	case record.KindCustomers:
		return p.extractor.Customers(ctx, customerCount)
	case record.KindInteractions:
		return p.extractor.Interactions(ctx)
	default:
		return nil, fmt.Errorf("unknown dataset kind: %s", kind)
	}
}

// Promoted bundles the report and promotion outcome for one kind.
type Promoted struct {
	Report    *quality.Report
	Promotion promote.Result
}

// ValidateAndPromote validates a staged dataset, persists the
// report, and moves the dataset to production when the report
// passes (or force is set). Rejection leaves production untouched.
func (p *Pipeline) ValidateAndPromote(ctx context.Context, ds *record.Dataset, force bool) (*Promoted, error) {
	report := p.validator.Validate(ds)

	if _, err := p.store.WriteReport(report); err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}

	var promotion promote.Result
	if force {
		promotion = p.gate.ForcePromote(ds)
	} else {
		promotion = p.gate.Promote(ds, report)
	}
	if promotion.Promoted {
		if _, err := p.store.WriteProduction(promotion.Production); err != nil {
			return nil, fmt.Errorf("persist production dataset: %w", err)
		}
	}

	return &Promoted{Report: report, Promotion: promotion}, nil
}

// PromoteStaged validates and promotes the latest staged dataset of
// a kind, for runs triggered by the promote command rather than a
// fresh extraction.
func (p *Pipeline) PromoteStaged(ctx context.Context, kind record.Kind, force bool) (*Promoted, error) {
	ds, path, err := p.store.LatestQA(kind)
	if err != nil {
		return nil, err
	}
	p.logger.WithFields(map[string]interface{}{
		"kind": kind,
		"path": path,
	}).Info("Promoting latest staged dataset")

	return p.ValidateAndPromote(ctx, ds, force)
}

// Summarize rebuilds the dashboard summary from the current
// production datasets and persists it.
func (p *Pipeline) Summarize(ctx context.Context) (string, error) {
	datasets := make([]*record.Dataset, 0, len(record.Kinds))
	for _, kind := range record.Kinds {
		ds, err := p.store.ReadProduction(kind)
		if err != nil {
			return "", fmt.Errorf("read production %s: %w", kind, err)
		}
		if ds != nil {
			datasets = append(datasets, ds)
		}
	}

	sum := p.aggregator.Summarize(datasets...)
	return p.store.WriteSummary(sum)
}
