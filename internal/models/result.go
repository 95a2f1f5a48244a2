package models

import "time"

// Decision is the terminal state of one moderation run.
type Decision string

const (
	DecisionAutoApproved  Decision = "auto_approved"
	DecisionPendingReview Decision = "pending_review"
	DecisionRejected      Decision = "rejected"
)

// PriceDetail is the structured detail attached to the price layer result.
type PriceDetail struct {
	PredictedPrice float64 `json:"predictedPrice"`
	ActualPrice    float64 `json:"actualPrice"`
	DeviationPct   float64 `json:"deviationPct"`
	Fallback       bool    `json:"fallback"`
}

// LayerResult is the output of one heuristic layer. Score is always clamped
// to [0,100].
type LayerResult struct {
	Score  float64      `json:"score"`
	Passed bool         `json:"passed"`
	Reason string       `json:"reason"`
	Issues []string     `json:"issues,omitempty"`
	Detail *PriceDetail `json:"detail,omitempty"`
}

// ModerationResult is the immutable audit record of one moderation run. It is
// created once by the decision engine and never mutated afterward; a
// re-submission supersedes it with a new run.
type ModerationResult struct {
	ID             string      `json:"id"`
	ListingID      string      `json:"listingId,omitempty"`
	FinalScore     float64     `json:"finalScore"`
	Decision       Decision    `json:"decision"`
	RuleResult     LayerResult `json:"ruleResult"`
	QualityResult  LayerResult `json:"qualityResult"`
	PriceResult    LayerResult `json:"priceResult"`
	FailedLayer    string      `json:"failedLayer"`
	Reasons        []string    `json:"reasons"`
	Suggestions    []string    `json:"suggestions,omitempty"`
	PredictedPrice *float64    `json:"predictedPrice,omitempty"`
	ModeratedAt    time.Time   `json:"moderatedAt"`
}

// ClampScore clamps a layer or final score into [0,100].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
