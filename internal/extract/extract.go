package extract

import (
	"math/rand"
	"time"

	"crmlake/pkg/config"
	"crmlake/pkg/httputil"
	"crmlake/pkg/logger"
)

// Extractor pulls raw customer and interaction records from the two
// public APIs and shapes them into staging datasets. Synthesized
// fields (interaction timestamps, sentiment, channel) come from a
// seeded generator so repeated runs over the same API payloads are
// reproducible.
type Extractor struct {
	client *httputil.Client
	logger *logger.Logger
	cfg    config.ExtractConfig
	rng    *rand.Rand
	now    func() time.Time
}

// NewExtractor creates an extractor.
func NewExtractor(cfg config.ExtractConfig, client *httputil.Client, log *logger.Logger) *Extractor {
	return &Extractor{
		client: client,
		logger: log,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		now:    time.Now,
	}
}

func (e *Extractor) pick(options []string) string {
	return options[e.rng.Intn(len(options))]
}
