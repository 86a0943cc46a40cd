package commands

import (
	"fmt"

	"crmlake/internal/extract"
	"crmlake/internal/pipeline"
	"crmlake/internal/promote"
	"crmlake/internal/quality"
	"crmlake/internal/storage"
	"crmlake/pkg/config"
	"crmlake/pkg/httputil"
	"crmlake/pkg/logger"
)

// deps bundles the collaborators every command needs.
type deps struct {
	cfg       *config.Config
	log       *logger.Logger
	store     *storage.Store
	validator *quality.Validator
	pipeline  *pipeline.Pipeline
}

// initDeps loads configuration and wires the pipeline. Global flags
// override the environment.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if rulesFile != "" {
		cfg.RulesFile = rulesFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	store := storage.New(cfg.DataDir, log)

	rules := quality.DefaultConfig()
	if cfg.RulesFile != "" {
		rules, err = quality.LoadConfig(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load rule config: %w", err)
		}
	}

	validator, err := quality.NewValidator(rules)
	if err != nil {
		return nil, err
	}

	client := httputil.New(log, cfg.Extract.Timeout).WithRateLimit(5)
	extractor := extract.NewExtractor(cfg.Extract, client, log)
	gate := promote.NewGate(log)

	return &deps{
		cfg:       cfg,
		log:       log,
		store:     store,
		validator: validator,
		pipeline:  pipeline.New(extractor, validator, gate, store, log),
	}, nil
}
