// internal/moderation/price/client.go
package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/xeipuuv/gojsonschema"

	apperrors "listing-moderation/internal/common/errors"
	commonhttp "listing-moderation/internal/common/http"
	"listing-moderation/internal/common/metrics"
)

// EstimateRequest is the documented JSON payload of the external price
// estimator. Field names are part of the wire contract.
type EstimateRequest struct {
	City         string   `json:"city"`
	Acreage      float64  `json:"acreage"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	RoomType     string   `json:"room_type"`
	District     string   `json:"district"`
	Ward         string   `json:"ward"`
	HasAC        bool     `json:"has_ac"`
	HasParking   bool     `json:"has_parking"`
	HasKitchen   bool     `json:"has_kitchen"`
	HasWC        bool     `json:"has_wc"`
	HasFurniture bool     `json:"has_furniture"`
	HasBalcony   bool     `json:"has_balcony"`
	HasWindow    bool     `json:"has_window"`
	HasMezzanine bool     `json:"has_mezzanine"`
	IsStudio     int      `json:"is_studio"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
}

// responseSchema: any body without a positive numeric predicted_price is
// treated as a failed call.
var responseSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"predicted_price"},
	"properties": map[string]interface{}{
		"predicted_price": map[string]interface{}{
			"type":             "number",
			"minimum":          0,
			"exclusiveMinimum": true,
		},
	},
}

type estimateResponse struct {
	PredictedPrice float64 `json:"predicted_price"`
}

// Client calls the external price-estimation endpoint with a bounded timeout.
type Client struct {
	url  string
	http *commonhttp.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: commonhttp.NewClient(timeout),
	}
}

// Predict posts the request payload and returns the predicted price. Every
// failure mode (transport, timeout, non-2xx, malformed body) comes back as a
// StandardError for the validator to absorb.
func (c *Client) Predict(ctx context.Context, req *EstimateRequest) (float64, error) {
	start := time.Now()
	status, body, err := c.http.PostJSON(ctx, c.url, req)
	metrics.EstimatorRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if isTimeout(err) {
			metrics.EstimatorFailuresTotal.WithLabelValues("timeout").Inc()
			return 0, apperrors.NewPriceAPITimeoutError(err)
		}
		metrics.EstimatorFailuresTotal.WithLabelValues("transport").Inc()
		return 0, apperrors.NewExternalServiceError("price-estimator", err)
	}

	if status < 200 || status > 299 {
		metrics.EstimatorFailuresTotal.WithLabelValues("http_status").Inc()
		return 0, apperrors.NewExternalServiceError("price-estimator",
			fmt.Errorf("unexpected status %d", status))
	}

	if err := validateResponse(body); err != nil {
		metrics.EstimatorFailuresTotal.WithLabelValues("schema").Inc()
		return 0, err
	}

	var parsed estimateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.EstimatorFailuresTotal.WithLabelValues("schema").Inc()
		return 0, apperrors.NewPriceResponseInvalidError(err.Error())
	}

	return parsed.PredictedPrice, nil
}

func validateResponse(body []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(responseSchema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return apperrors.NewPriceResponseInvalidError(err.Error())
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewPriceResponseInvalidError(fmt.Sprintf("%v", errs))
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
