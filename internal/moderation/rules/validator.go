// Package rules runs the weighted structural checklist over a listing
// snapshot. Check weights sum to 100; the layer score is the sum of the
// weights of the checks that passed.
package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"listing-moderation/internal/models"
	"listing-moderation/internal/moderation/textcheck"
)

// Checklist bounds. Prices are VND per month, areas square meters.
const (
	MinImages         = 3
	MinDescriptionLen = 100
	MinPrice          = 500_000
	MaxPrice          = 100_000_000
	MinArea           = 10
	MaxArea           = 500
	MinPhoneLen       = 10

	PassThreshold = 70.0
)

// Check is one entry of the weighted checklist.
type Check struct {
	Name    string
	Weight  float64
	Message string
	Eval    func(s *models.ListingSnapshot) bool
}

// Checklist returns the default weighted checklist, excluding the
// banned-content check which needs the hygiene analyzer.
func Checklist() []Check {
	return []Check{
		{
			Name:    "images",
			Weight:  15,
			Message: fmt.Sprintf("not enough photos (need >= %d)", MinImages),
			Eval:    func(s *models.ListingSnapshot) bool { return s.ImageCount >= MinImages },
		},
		{
			Name:    "description",
			Weight:  15,
			Message: fmt.Sprintf("description too short (need >= %d characters)", MinDescriptionLen),
			Eval: func(s *models.ListingSnapshot) bool {
				return utf8.RuneCountInString(s.Description) >= MinDescriptionLen
			},
		},
		{
			Name:    "price",
			Weight:  15,
			Message: "price out of range (500k - 100m VND)",
			Eval:    func(s *models.ListingSnapshot) bool { return s.Price >= MinPrice && s.Price <= MaxPrice },
		},
		{
			Name:    "area",
			Weight:  15,
			Message: "area out of range (10 - 500 m2)",
			Eval:    func(s *models.ListingSnapshot) bool { return s.Area >= MinArea && s.Area <= MaxArea },
		},
		{
			Name:    "coordinates",
			Weight:  10,
			Message: "missing coordinates",
			Eval:    func(s *models.ListingSnapshot) bool { return s.HasCoordinates() },
		},
		{
			Name:    "contact",
			Weight:  10,
			Message: "missing contact phone",
			Eval:    func(s *models.ListingSnapshot) bool { return len(s.ContactPhone) >= MinPhoneLen },
		},
	}
}

type Validator struct {
	text   *textcheck.Analyzer
	checks []Check
}

func New(analyzer *textcheck.Analyzer) *Validator {
	return &Validator{
		text:   analyzer,
		checks: Checklist(),
	}
}

// Validate evaluates the checklist plus the banned-content check (weight 20)
// and returns the layer result. Failed checks contribute their messages to
// the issue list in checklist order.
func (v *Validator) Validate(s *models.ListingSnapshot) models.LayerResult {
	bannedIssues := append(v.text.Check(s.Title), v.text.Check(s.Description)...)

	var score float64
	var failed []string

	for _, check := range v.checks {
		if check.Eval(s) {
			score += check.Weight
		} else {
			failed = append(failed, check.Message)
		}
	}

	if len(bannedIssues) == 0 {
		score += 20
	} else {
		failed = append(failed, strings.Join(bannedIssues, "; "))
	}

	score = models.ClampScore(score)

	reason := "all basic rules satisfied"
	if len(failed) > 0 {
		reason = fmt.Sprintf("failed checks: %s", strings.Join(failed, ", "))
	}

	return models.LayerResult{
		Score:  score,
		Passed: score >= PassThreshold,
		Reason: reason,
		Issues: failed,
	}
}
