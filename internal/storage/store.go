package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"crmlake/internal/quality"
	"crmlake/internal/record"
	"crmlake/internal/summary"
	"crmlake/pkg/logger"
)

// ErrNotStaged is returned when a kind has no staged dataset yet.
var ErrNotStaged = errors.New("no staged dataset")

// Store is the file-backed staging (QA) and production (PROD)
// layers. QA keeps one timestamped envelope per extraction run;
// PROD keeps a single latest artifact per kind so reruns are
// idempotent overwrites.
type Store struct {
	baseDir string
	logger  *logger.Logger
}

// New creates a store rooted at baseDir.
func New(baseDir string, log *logger.Logger) *Store {
	return &Store{
		baseDir: baseDir,
		logger:  log,
	}
}

// envelope is the on-disk dataset format: self-describing metadata
// plus the record array, mirroring what the rules inspect.
type envelope struct {
	Metadata record.Metadata `json:"metadata"`
	Data     []record.Record `json:"data"`
}

// WriteQA stages an extracted dataset under
// qa/<kind>/<kind>_<timestamp>.json and returns the path.
func (s *Store) WriteQA(ds *record.Dataset) (string, error) {
	dir := filepath.Join(s.baseDir, "qa", string(ds.Kind()))
	name := fmt.Sprintf("%s_%s.json", ds.Kind(), ds.Metadata.ExtractedAt.UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := s.writeJSON(path, envelope{Metadata: ds.Metadata, Data: ds.Records}); err != nil {
		return "", fmt.Errorf("write QA dataset: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"kind":    ds.Kind(),
		"records": ds.Len(),
		"path":    path,
	}).Info("Dataset staged to QA layer")

	return path, nil
}

// LatestQA loads the most recently staged dataset for a kind.
// Returns ErrNotStaged when nothing has been extracted yet.
func (s *Store) LatestQA(kind record.Kind) (*record.Dataset, string, error) {
	dir := filepath.Join(s.baseDir, "qa", string(kind))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w for kind %s", ErrNotStaged, kind)
		}
		return nil, "", fmt.Errorf("list QA layer: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, "", fmt.Errorf("%w for kind %s", ErrNotStaged, kind)
	}

	// Filenames embed the extraction timestamp, so lexical order is
	// chronological order.
	sort.Strings(names)
	path := filepath.Join(dir, names[len(names)-1])

	ds, err := s.readDataset(path)
	if err != nil {
		return nil, "", err
	}
	return ds, path, nil
}

// WriteProduction writes the promoted dataset to
// prod/<kind>/<kind>_latest.json, replacing any previous artifact
// atomically so a failed run never leaves a partial overwrite.
func (s *Store) WriteProduction(ds *record.Dataset) (string, error) {
	path := s.productionPath(ds.Kind())

	if err := s.writeJSON(path, envelope{Metadata: ds.Metadata, Data: ds.Records}); err != nil {
		return "", fmt.Errorf("write production dataset: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"kind":    ds.Kind(),
		"records": ds.Len(),
		"path":    path,
	}).Info("Dataset written to production layer")

	return path, nil
}

// ReadProduction loads the current production dataset for a kind,
// or nil when none exists yet.
func (s *Store) ReadProduction(kind record.Kind) (*record.Dataset, error) {
	path := s.productionPath(kind)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return s.readDataset(path)
}

func (s *Store) productionPath(kind record.Kind) string {
	return filepath.Join(s.baseDir, "prod", string(kind), fmt.Sprintf("%s_latest.json", kind))
}

// WriteReport persists the latest quality report for a kind so a
// rejected run leaves its diagnostics behind.
func (s *Store) WriteReport(report *quality.Report) (string, error) {
	path := filepath.Join(s.baseDir, "reports", fmt.Sprintf("%s_latest.json", report.DatasetKind))
	if err := s.writeJSON(path, report); err != nil {
		return "", fmt.Errorf("write quality report: %w", err)
	}
	return path, nil
}

// ReadReport loads the latest quality report for a kind, or nil
// when none exists.
func (s *Store) ReadReport(kind record.Kind) (*quality.Report, error) {
	path := filepath.Join(s.baseDir, "reports", fmt.Sprintf("%s_latest.json", kind))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read quality report: %w", err)
	}

	var report quality.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode quality report: %w", err)
	}
	return &report, nil
}

// WriteSummary writes the dashboard summary document.
func (s *Store) WriteSummary(sum *summary.Summary) (string, error) {
	path := s.SummaryPath()
	if err := s.writeJSON(path, sum); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}

	s.logger.WithField("path", path).Info("Dashboard summary written")
	return path, nil
}

// SummaryPath returns where the dashboard summary document lives.
func (s *Store) SummaryPath() string {
	return filepath.Join(s.baseDir, "summary", "summary_latest.json")
}

// readDataset loads a dataset envelope from disk.
func (s *Store) readDataset(path string) (*record.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	return &record.Dataset{Metadata: env.Metadata, Records: env.Data}, nil
}

// writeJSON marshals v and writes it atomically: the document goes
// to a temp file in the target directory first and is renamed into
// place, so readers never see a partial artifact.
func (s *Store) writeJSON(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}

	return nil
}
