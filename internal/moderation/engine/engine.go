// Package engine combines the three layer scores into a terminal moderation
// decision and attributes a human-readable reason to it.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"listing-moderation/internal/common/logger"
	"listing-moderation/internal/models"
)

// Decision thresholds: strict > on the upper bound, inclusive elsewhere.
// Fixed calibration, overridable but never re-derived.
const (
	AutoApproveAbove = 85.0
	RejectBelow      = 50.0
)

type Engine struct {
	autoApproveAbove float64
	rejectBelow      float64
	logger           logger.Logger
}

type Option func(*Engine)

// WithThresholds overrides the decision thresholds.
func WithThresholds(autoApproveAbove, rejectBelow float64) Option {
	return func(e *Engine) {
		e.autoApproveAbove = autoApproveAbove
		e.rejectBelow = rejectBelow
	}
}

func New(log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		autoApproveAbove: AutoApproveAbove,
		rejectBelow:      RejectBelow,
		logger:           log.WithFields(map[string]interface{}{"component": "decision-engine"}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// candidate is one entry of the ordered attribution list. The scan order
// fixes the tie-break: rules, then quality, then price, then overall.
type candidate struct {
	name   string
	score  float64
	reason string
}

// Decide combines the layer results into one immutable ModerationResult.
// The decision is a pure function of the three scores and the thresholds.
func (e *Engine) Decide(listingID string, rule, quality, price models.LayerResult) *models.ModerationResult {
	final := models.ClampScore((rule.Score + quality.Score + price.Score) / 3)

	var decision models.Decision
	switch {
	case final > e.autoApproveAbove:
		decision = models.DecisionAutoApproved
	case final >= e.rejectBelow:
		decision = models.DecisionPendingReview
	default:
		decision = models.DecisionRejected
	}

	candidates := []candidate{
		{"rules", rule.Score, rule.Reason},
		{"quality", quality.Score, quality.Reason},
		{"price", price.Score, price.Reason},
		{"overall", final, fmt.Sprintf("combined score %.1f", final)},
	}
	weakest := candidates[0]
	for _, c := range candidates[1:] {
		if c.score < weakest.score {
			weakest = c
		}
	}

	failedLayer := "none"
	var reasons []string
	switch decision {
	case models.DecisionAutoApproved:
		reasons = []string{fmt.Sprintf("excellent quality (%.1f%% > %.0f%%), published automatically", final, e.autoApproveAbove)}
	case models.DecisionPendingReview:
		failedLayer = weakest.name
		reasons = []string{fmt.Sprintf("average quality (%.1f%%), queued for manual review; weakest layer %s (%.0f%%): %s",
			final, weakest.name, weakest.score, weakest.reason)}
	case models.DecisionRejected:
		failedLayer = weakest.name
		reasons = []string{fmt.Sprintf("rejected by %s layer (%.0f%%): %s", weakest.name, weakest.score, weakest.reason)}
	}

	// Non-fatal findings travel with the result even when approved, so
	// borderline warnings stay visible to the review workflow.
	suggestions := make([]string, 0, len(rule.Issues)+len(quality.Issues))
	suggestions = append(suggestions, rule.Issues...)
	suggestions = append(suggestions, quality.Issues...)

	var predictedPrice *float64
	if price.Detail != nil && !price.Detail.Fallback {
		p := price.Detail.PredictedPrice
		predictedPrice = &p
	}

	result := &models.ModerationResult{
		ID:             uuid.New().String(),
		ListingID:      listingID,
		FinalScore:     final,
		Decision:       decision,
		RuleResult:     rule,
		QualityResult:  quality,
		PriceResult:    price,
		FailedLayer:    failedLayer,
		Reasons:        reasons,
		Suggestions:    suggestions,
		PredictedPrice: predictedPrice,
		ModeratedAt:    time.Now().UTC(),
	}

	e.logger.Info("moderation decision", map[string]interface{}{
		"listingId":    listingID,
		"ruleScore":    rule.Score,
		"qualityScore": quality.Score,
		"priceScore":   price.Score,
		"finalScore":   final,
		"decision":     string(decision),
		"failedLayer":  failedLayer,
	})

	return result
}
