// internal/moderation/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-moderation/internal/common/errors"
	"listing-moderation/internal/common/logger"
	"listing-moderation/internal/models"
	"listing-moderation/internal/moderation/engine"
	"listing-moderation/internal/moderation/lexicon"
	"listing-moderation/internal/moderation/price"
)

// ==========================
// Test Helper Functions
// ==========================

// stubEstimator drives the real price validator without a network hop.
type stubEstimator struct {
	predicted float64
	err       error
}

func (s *stubEstimator) Predict(ctx context.Context, req *price.EstimateRequest) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.predicted, nil
}

func newTestPipeline(t *testing.T, estimator *stubEstimator, opts ...Option) *Pipeline {
	t.Helper()

	log := logger.NewTestLogger(t)
	priceValidator := price.New(estimator, log)
	return New(lexicon.Default(), priceValidator, engine.New(log), log, opts...)
}

func createCleanListing(id string) *models.ListingSnapshot {
	return &models.ListingSnapshot{
		ID:    id,
		Title: "Phong tro gan DH Bach Khoa quan 10",
		Description: "Phong rong 25m2, co gac lung, cua so thoang mat. " +
			"Gan truong dai hoc va cho Ba Chieu, thuan tien sinh hoat. " +
			"Gio giac tu do, co cho de xe, an ninh tot, dien nuoc gia nha nuoc.",
		Price:        3_000_000,
		Area:         25,
		Bedrooms:     1,
		Bathrooms:    1,
		ImageCount:   5,
		PropertyType: models.PropertyRoom,
		Coordinates:  &models.Coordinates{Lat: 10.77, Lng: 106.69},
		ContactPhone: "0901234567",
		District:     "Quận 10",
		City:         "Hồ Chí Minh",
	}
}

// ==========================
// End-to-End Scenarios
// ==========================

func TestModerate_CleanListingAutoApproved(t *testing.T) {
	pipeline := newTestPipeline(t, &stubEstimator{predicted: 3_100_000})

	result, err := pipeline.Moderate(context.Background(), createCleanListing("listing-001"))

	require.NoError(t, err)
	assert.Equal(t, models.DecisionAutoApproved, result.Decision)
	assert.Equal(t, 100.0, result.FinalScore)
	assert.Equal(t, 100.0, result.RuleResult.Score)
	assert.Equal(t, 100.0, result.QualityResult.Score)
	assert.Equal(t, 100.0, result.PriceResult.Score)
	assert.Equal(t, "none", result.FailedLayer)
	require.NotNil(t, result.PredictedPrice)
	assert.Equal(t, 3_100_000.0, *result.PredictedPrice)
}

func TestModerate_ProblematicListingGoesToReview(t *testing.T) {
	pipeline := newTestPipeline(t, &stubEstimator{err: assert.AnError})

	listing := createCleanListing("listing-002")
	listing.ImageCount = 2
	listing.Description += " Cam ket khong lua dao."

	result, err := pipeline.Moderate(context.Background(), listing)

	require.NoError(t, err)
	// Rules lose photos and banned content (65), quality takes one
	// high-severity hit (60), price degrades to the fallback (80).
	assert.Equal(t, 65.0, result.RuleResult.Score)
	assert.Equal(t, 60.0, result.QualityResult.Score)
	assert.Equal(t, 80.0, result.PriceResult.Score)
	assert.Equal(t, models.DecisionPendingReview, result.Decision)
	assert.Equal(t, "quality", result.FailedLayer)
	assert.InDelta(t, 68.33, result.FinalScore, 0.01)
	assert.NotEmpty(t, result.Suggestions)
}

func TestModerate_EstimatorDownStillApproves(t *testing.T) {
	pipeline := newTestPipeline(t, &stubEstimator{err: assert.AnError})

	result, err := pipeline.Moderate(context.Background(), createCleanListing("listing-003"))

	require.NoError(t, err)
	assert.Equal(t, models.DecisionAutoApproved, result.Decision)
	assert.InDelta(t, 93.33, result.FinalScore, 0.01)
	assert.True(t, result.PriceResult.Detail.Fallback)
	assert.Nil(t, result.PredictedPrice)
}

func TestModerate_GarbageListingRejected(t *testing.T) {
	pipeline := newTestPipeline(t, &stubEstimator{err: assert.AnError})

	listing := &models.ListingSnapshot{
		ID:          "listing-004",
		Title:       "Nha nay lua dao",
		Description: "ngan",
		Price:       100,
		Area:        2,
	}

	result, err := pipeline.Moderate(context.Background(), listing)

	require.NoError(t, err)
	assert.Equal(t, models.DecisionRejected, result.Decision)
	assert.Equal(t, "rules", result.FailedLayer)
	assert.Less(t, result.FinalScore, 50.0)
}

func TestModerate_Deterministic(t *testing.T) {
	pipeline := newTestPipeline(t, &stubEstimator{predicted: 3_100_000})
	ctx := context.Background()

	first, err := pipeline.Moderate(ctx, createCleanListing("listing-005"))
	require.NoError(t, err)
	second, err := pipeline.Moderate(ctx, createCleanListing("listing-005"))
	require.NoError(t, err)

	assert.Equal(t, first.FinalScore, second.FinalScore)
	assert.Equal(t, first.Decision, second.Decision)
	assert.Equal(t, first.RuleResult, second.RuleResult)
	assert.Equal(t, first.QualityResult, second.QualityResult)
	assert.Equal(t, first.PriceResult, second.PriceResult)
}

// ==========================
// Input Validation Tests
// ==========================

func TestModerate_RejectsInvalidSnapshot(t *testing.T) {
	pipeline := newTestPipeline(t, &stubEstimator{predicted: 3_100_000})

	listing := createCleanListing("listing-006")
	listing.Price = 0

	result, err := pipeline.Moderate(context.Background(), listing)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsValidationInputError(err))
}

// ==========================
// Batch Tests
// ==========================

func TestModerateBatch(t *testing.T) {
	pipeline := newTestPipeline(t, &stubEstimator{predicted: 3_100_000}, WithBatchWorkers(2))

	invalid := createCleanListing("listing-bad")
	invalid.Price = 0

	snaps := []*models.ListingSnapshot{
		createCleanListing("listing-a"),
		invalid,
		createCleanListing("listing-b"),
		createCleanListing("listing-c"),
	}

	results := pipeline.ModerateBatch(context.Background(), snaps)

	require.Len(t, results, 3)
	assert.NotContains(t, results, "listing-bad")
	for _, id := range []string{"listing-a", "listing-b", "listing-c"} {
		require.Contains(t, results, id)
		assert.Equal(t, models.DecisionAutoApproved, results[id].Decision)
		assert.Equal(t, id, results[id].ListingID)
	}
}

func TestModerateBatch_Empty(t *testing.T) {
	pipeline := newTestPipeline(t, &stubEstimator{predicted: 3_100_000})

	results := pipeline.ModerateBatch(context.Background(), nil)

	assert.Empty(t, results)
}
