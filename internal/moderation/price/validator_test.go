// internal/moderation/price/validator_test.go
package price

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-moderation/internal/common/logger"
	"listing-moderation/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// stubEstimator returns a fixed prediction or a fixed error and counts calls.
type stubEstimator struct {
	predicted float64
	err       error
	calls     int
}

func (s *stubEstimator) Predict(ctx context.Context, req *EstimateRequest) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.predicted, nil
}

func createPricedListing(price float64) *models.ListingSnapshot {
	return &models.ListingSnapshot{
		ID:           "listing-001",
		Title:        "Phong tro gan DH Bach Khoa quan 10",
		Price:        price,
		Area:         25,
		Bedrooms:     1,
		Bathrooms:    1,
		PropertyType: models.PropertyRoom,
		District:     "Quận 10",
		City:         "Hồ Chí Minh",
	}
}

// ==========================
// Deviation Scoring Tests
// ==========================

func TestScoreForDeviation(t *testing.T) {
	tests := []struct {
		deviation float64
		expected  float64
	}{
		{0, 100},
		{15, 100},
		{-15, 100},
		{15.01, 90},
		{25, 90},
		{25.01, 80},
		{35, 80},
		{35.01, 70},
		{50, 70},
		{-40, 70},
		{50.01, 50},
		{-60, 50},
		{300, 50},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("deviation %.2f", tt.deviation), func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreForDeviation(tt.deviation))
		})
	}
}

// ==========================
// Validator Tests
// ==========================

func TestValidate_ReasonablePrice(t *testing.T) {
	estimator := &stubEstimator{predicted: 3_100_000}
	validator := New(estimator, logger.NewTestLogger(t))

	result := validator.Validate(context.Background(), createPricedListing(3_000_000))

	assert.Equal(t, 100.0, result.Score)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Issues)
	require.NotNil(t, result.Detail)
	assert.Equal(t, 3_100_000.0, result.Detail.PredictedPrice)
	assert.Equal(t, 3_000_000.0, result.Detail.ActualPrice)
	assert.False(t, result.Detail.Fallback)
	assert.InDelta(t, -3.2, result.Detail.DeviationPct, 0.1)
}

func TestValidate_OverpricedListing(t *testing.T) {
	estimator := &stubEstimator{predicted: 1_000_000}
	validator := New(estimator, logger.NewTestLogger(t))

	// 40% above the estimate: step score 70, outside the reasonable band.
	result := validator.Validate(context.Background(), createPricedListing(1_400_000))

	assert.Equal(t, 70.0, result.Score)
	assert.False(t, result.Passed)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "above")
}

func TestValidate_UnderpricedListing(t *testing.T) {
	estimator := &stubEstimator{predicted: 2_000_000}
	validator := New(estimator, logger.NewTestLogger(t))

	// 50% below the estimate, often a bait listing.
	result := validator.Validate(context.Background(), createPricedListing(1_000_000))

	assert.Equal(t, 70.0, result.Score)
	assert.False(t, result.Passed)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "below")
}

func TestValidate_EstimatorFailureFallsBack(t *testing.T) {
	estimator := &stubEstimator{err: fmt.Errorf("connection refused")}
	validator := New(estimator, logger.NewTestLogger(t))

	result := validator.Validate(context.Background(), createPricedListing(3_000_000))

	assert.Equal(t, FallbackScore, result.Score)
	assert.True(t, result.Passed)
	require.NotNil(t, result.Detail)
	assert.True(t, result.Detail.Fallback)
	assert.Zero(t, result.Detail.PredictedPrice)
}

func TestValidate_CustomFallbackScore(t *testing.T) {
	estimator := &stubEstimator{err: fmt.Errorf("boom")}
	validator := New(estimator, logger.NewTestLogger(t), WithFallbackScore(65))

	result := validator.Validate(context.Background(), createPricedListing(3_000_000))

	assert.Equal(t, 65.0, result.Score)
}

// ==========================
// Payload Mapping Tests
// ==========================

func TestBuildRequest_FullSnapshot(t *testing.T) {
	snapshot := createPricedListing(3_000_000)
	snapshot.Ward = "Phường 4"
	snapshot.Coordinates = &models.Coordinates{Lat: 10.77, Lng: 106.69}
	snapshot.Amenities = models.Amenities{AC: true, Parking: true, Window: true}

	req := BuildRequest(snapshot)

	assert.Equal(t, "Hồ Chí Minh", req.City)
	assert.Equal(t, "Quận 10", req.District)
	assert.Equal(t, "Phường 4", req.Ward)
	assert.Equal(t, 25.0, req.Acreage)
	assert.Equal(t, 1, req.Bedrooms)
	assert.Equal(t, 1, req.Bathrooms)
	assert.Equal(t, "Phòng trọ", req.RoomType)
	assert.True(t, req.HasAC)
	assert.True(t, req.HasParking)
	assert.True(t, req.HasWindow)
	assert.True(t, req.HasWC)
	assert.False(t, req.HasKitchen)
	assert.Equal(t, 0, req.IsStudio)
	require.NotNil(t, req.Lat)
	assert.Equal(t, 10.77, *req.Lat)
	require.NotNil(t, req.Lng)
	assert.Equal(t, 106.69, *req.Lng)
}

func TestBuildRequest_Defaults(t *testing.T) {
	req := BuildRequest(&models.ListingSnapshot{})

	assert.Equal(t, "Hồ Chí Minh", req.City)
	assert.Equal(t, "Quận 1", req.District)
	assert.Equal(t, 20.0, req.Acreage)
	assert.Equal(t, 1, req.Bedrooms)
	assert.Equal(t, 1, req.Bathrooms)
	assert.Equal(t, "Phòng trọ", req.RoomType)
	assert.False(t, req.HasWC)
	assert.Nil(t, req.Lat)
	assert.Nil(t, req.Lng)
}

func TestBuildRequest_RoomTypes(t *testing.T) {
	tests := []struct {
		propertyType models.PropertyType
		label        string
		isStudio     int
	}{
		{models.PropertyRoom, "Phòng trọ", 0},
		{models.PropertyWholeHouse, "Nhà nguyên căn", 0},
		{models.PropertyApartment, "Căn hộ dịch vụ", 0},
		{models.PropertyMiniComplex, "Chung cư mini", 0},
		{models.PropertyStudio, "Studio", 1},
		{models.PropertyType("unknown"), "Phòng trọ", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.propertyType), func(t *testing.T) {
			snapshot := createPricedListing(3_000_000)
			snapshot.PropertyType = tt.propertyType

			req := BuildRequest(snapshot)

			assert.Equal(t, tt.label, req.RoomType)
			assert.Equal(t, tt.isStudio, req.IsStudio)
		})
	}
}

func TestKey_StableAcrossIdenticalPayloads(t *testing.T) {
	a := BuildRequest(createPricedListing(3_000_000))
	b := BuildRequest(createPricedListing(3_000_000))
	c := BuildRequest(createPricedListing(4_000_000))

	assert.Equal(t, Key(a), Key(b))
	// Price is not part of the payload, so the key is shared.
	assert.Equal(t, Key(a), Key(c))

	c.District = "Quận 7"
	assert.NotEqual(t, Key(a), Key(c))
}
