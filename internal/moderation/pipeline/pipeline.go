// Package pipeline orchestrates the three moderation layers over a listing
// snapshot and hands the layer scores to the decision engine.
package pipeline

import (
	"context"
	"sync"
	"time"

	"listing-moderation/internal/common/errors"
	"listing-moderation/internal/common/logger"
	"listing-moderation/internal/common/metrics"
	"listing-moderation/internal/common/observability"
	"listing-moderation/internal/models"
	"listing-moderation/internal/moderation/engine"
	"listing-moderation/internal/moderation/lexicon"
	"listing-moderation/internal/moderation/quality"
	"listing-moderation/internal/moderation/rules"
	"listing-moderation/internal/moderation/textcheck"
)

const DefaultBatchWorkers = 4

// PriceValidator is the only layer that leaves the process, so it is the only
// one taken as an interface.
type PriceValidator interface {
	Validate(ctx context.Context, s *models.ListingSnapshot) models.LayerResult
}

type Pipeline struct {
	rules   *rules.Validator
	quality *quality.Scorer
	price   PriceValidator
	engine  *engine.Engine
	logger  logger.Logger
	obs     *observability.Observability
	workers int
}

type Option func(*Pipeline)

// WithObservability attaches the otel meter alongside the prometheus vars.
func WithObservability(obs *observability.Observability) Option {
	return func(p *Pipeline) { p.obs = obs }
}

// WithBatchWorkers sets the pool size for ModerateBatch.
func WithBatchWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func New(lex *lexicon.Lexicon, price PriceValidator, eng *engine.Engine, log logger.Logger, opts ...Option) *Pipeline {
	analyzer := textcheck.New(lex)
	p := &Pipeline{
		rules:   rules.New(analyzer),
		quality: quality.New(analyzer),
		price:   price,
		engine:  eng,
		logger:  log.WithFields(map[string]interface{}{"component": "moderation-pipeline"}),
		workers: DefaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Moderate runs one listing through all three layers and returns the decision.
// Validation failures of the snapshot itself surface as an error before any
// layer runs; layer results never do.
func (p *Pipeline) Moderate(ctx context.Context, snap *models.ListingSnapshot) (*models.ModerationResult, error) {
	if err := snap.Validate(); err != nil {
		p.logger.Warn("rejecting malformed snapshot", map[string]interface{}{
			"listingId": snap.ID,
			"error":     err.Error(),
		})
		return nil, err
	}

	start := time.Now()

	// The price layer waits on an external service, so it runs alongside
	// the two local layers.
	priceCh := make(chan models.LayerResult, 1)
	go func() {
		priceCh <- p.price.Validate(ctx, snap)
	}()

	ruleResult := p.rules.Validate(snap)
	qualityResult := p.quality.Score(snap.Title, snap.Description)
	priceResult := <-priceCh

	result := p.engine.Decide(snap.ID, ruleResult, qualityResult, priceResult)

	decision := string(result.Decision)
	elapsed := time.Since(start)
	metrics.ModerationRunsTotal.WithLabelValues(decision).Inc()
	metrics.ModerationRunDuration.WithLabelValues(decision).Observe(elapsed.Seconds())
	metrics.ModerationLayerScore.WithLabelValues("rules").Observe(ruleResult.Score)
	metrics.ModerationLayerScore.WithLabelValues("quality").Observe(qualityResult.Score)
	metrics.ModerationLayerScore.WithLabelValues("price").Observe(priceResult.Score)
	if p.obs != nil {
		p.obs.RecordModerated(ctx, decision)
		p.obs.RecordRunDuration(ctx, elapsed, decision)
	}

	return result, nil
}

// ModerateBatch moderates a set of listings over a bounded worker pool and
// returns results keyed by listing ID. Malformed snapshots are logged and
// skipped rather than failing the batch.
func (p *Pipeline) ModerateBatch(ctx context.Context, snaps []*models.ListingSnapshot) map[string]*models.ModerationResult {
	results := make(map[string]*models.ModerationResult, len(snaps))
	if len(snaps) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan *models.ListingSnapshot)

	workers := p.workers
	if workers > len(snaps) {
		workers = len(snaps)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snap := range jobs {
				result, err := p.Moderate(ctx, snap)
				if err != nil {
					if !errors.IsValidationInputError(err) {
						p.logger.Error("batch moderation failed", map[string]interface{}{
							"listingId": snap.ID,
							"error":     err.Error(),
						})
					}
					continue
				}
				mu.Lock()
				results[snap.ID] = result
				mu.Unlock()
			}
		}()
	}

	for _, snap := range snaps {
		jobs <- snap
	}
	close(jobs)
	wg.Wait()

	return results
}
