// Package price checks a listing's asking price against an external market
// estimator. The deviation between asking and predicted price maps to a step
// score; estimator failures of any kind degrade to a fixed fallback result
// and never surface to the rest of the pipeline.
package price

import (
	"context"
	"fmt"
	"math"

	"listing-moderation/internal/common/logger"
	"listing-moderation/internal/common/metrics"
	"listing-moderation/internal/models"
)

const (
	// FallbackScore is substituted when the estimator is unavailable.
	FallbackScore = 80.0

	// ReasonableMaxDeviation bounds the deviation still considered a
	// reasonable market price.
	ReasonableMaxDeviation = 30.0
)

// DeviationSteps maps |deviation%| to a score. Anything above the last limit
// scores 50.
var DeviationSteps = []struct {
	Limit float64
	Score float64
}{
	{15, 100},
	{25, 90},
	{35, 80},
	{50, 70},
}

const scoreAboveSteps = 50.0

// roomTypeLabels translates internal property-type codes to the canonical
// category labels the estimator was trained on.
var roomTypeLabels = map[models.PropertyType]string{
	models.PropertyRoom:        "Phòng trọ",
	models.PropertyWholeHouse:  "Nhà nguyên căn",
	models.PropertyApartment:   "Căn hộ dịch vụ",
	models.PropertyMiniComplex: "Chung cư mini",
	models.PropertyStudio:      "Studio",
}

// Payload defaults applied when the snapshot leaves location fields empty.
const (
	defaultCity     = "Hồ Chí Minh"
	defaultDistrict = "Quận 1"
	defaultArea     = 20
)

// Estimator is the price-prediction dependency of the validator.
type Estimator interface {
	Predict(ctx context.Context, req *EstimateRequest) (float64, error)
}

type Validator struct {
	estimator     Estimator
	cache         *EstimateCache
	fallbackScore float64
	logger        logger.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithCache attaches an optional predicted-price cache.
func WithCache(cache *EstimateCache) Option {
	return func(v *Validator) { v.cache = cache }
}

// WithFallbackScore overrides the fixed degraded-mode score.
func WithFallbackScore(score float64) Option {
	return func(v *Validator) { v.fallbackScore = models.ClampScore(score) }
}

func New(estimator Estimator, log logger.Logger, opts ...Option) *Validator {
	v := &Validator{
		estimator:     estimator,
		fallbackScore: FallbackScore,
		logger:        log.WithFields(map[string]interface{}{"layer": "price"}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate estimates the market price for the snapshot and scores the
// deviation. It never returns an error: on any estimator failure the
// documented fallback result is produced instead.
func (v *Validator) Validate(ctx context.Context, s *models.ListingSnapshot) models.LayerResult {
	req := BuildRequest(s)
	key := Key(req)

	predicted, cached := v.cache.Get(ctx, key)
	if !cached {
		var err error
		predicted, err = v.estimator.Predict(ctx, req)
		if err != nil {
			v.logger.Warn("price estimation unavailable, using fallback score", map[string]interface{}{
				"listingId": s.ID,
				"error":     err.Error(),
			})
			metrics.EstimatorFallbacksTotal.Inc()
			return v.fallbackResult()
		}
		v.cache.Set(ctx, key, predicted)
	}

	deviation := (s.Price - predicted) / predicted * 100
	score := ScoreForDeviation(deviation)
	reasonable := math.Abs(deviation) <= ReasonableMaxDeviation

	reason := fmt.Sprintf("price within market range (%.1f%% deviation)", deviation)
	var issues []string
	if !reasonable {
		direction := "below"
		if deviation > 0 {
			direction = "above"
		}
		reason = fmt.Sprintf("price deviates %+.1f%% from the market estimate (%s prediction)", deviation, direction)
		issues = []string{reason}
	}

	return models.LayerResult{
		Score:  score,
		Passed: reasonable,
		Reason: reason,
		Issues: issues,
		Detail: &models.PriceDetail{
			PredictedPrice: predicted,
			ActualPrice:    s.Price,
			DeviationPct:   deviation,
		},
	}
}

func (v *Validator) fallbackResult() models.LayerResult {
	return models.LayerResult{
		Score:  v.fallbackScore,
		Passed: true,
		Reason: "price could not be verified (estimator unavailable), provisionally accepted",
		Detail: &models.PriceDetail{Fallback: true},
	}
}

// ScoreForDeviation maps an absolute deviation percentage onto the step
// score table. Boundaries are inclusive: 15 -> 100, 25 -> 90, 35 -> 80,
// 50 -> 70, above 50 -> 50.
func ScoreForDeviation(deviation float64) float64 {
	abs := math.Abs(deviation)
	for _, step := range DeviationSteps {
		if abs <= step.Limit {
			return step.Score
		}
	}
	return scoreAboveSteps
}

// BuildRequest normalizes a snapshot into the estimator payload.
func BuildRequest(s *models.ListingSnapshot) *EstimateRequest {
	roomType, ok := roomTypeLabels[s.PropertyType]
	if !ok {
		roomType = roomTypeLabels[models.PropertyRoom]
	}

	city := s.City
	if city == "" {
		city = defaultCity
	}
	district := s.District
	if district == "" {
		district = defaultDistrict
	}
	area := s.Area
	if area <= 0 {
		area = defaultArea
	}
	bedrooms := s.Bedrooms
	if bedrooms <= 0 {
		bedrooms = 1
	}
	bathrooms := s.Bathrooms
	if bathrooms <= 0 {
		bathrooms = 1
	}

	isStudio := 0
	if s.PropertyType == models.PropertyStudio {
		isStudio = 1
	}

	req := &EstimateRequest{
		City:         city,
		Acreage:      area,
		Bedrooms:     bedrooms,
		Bathrooms:    bathrooms,
		RoomType:     roomType,
		District:     district,
		Ward:         s.Ward,
		HasAC:        s.Amenities.AC,
		HasParking:   s.Amenities.Parking,
		HasKitchen:   s.Amenities.Kitchen,
		HasWC:        s.Bathrooms > 0,
		HasFurniture: s.Amenities.Furniture,
		HasBalcony:   s.Amenities.Balcony,
		HasWindow:    s.Amenities.Window,
		HasMezzanine: s.Amenities.Mezzanine,
		IsStudio:     isStudio,
	}

	if s.Coordinates != nil {
		lat, lng := s.Coordinates.Lat, s.Coordinates.Lng
		req.Lat = &lat
		req.Lng = &lng
	}

	return req
}
