package models

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"listing-moderation/internal/common/errors"
)

// submissionSchema is the document-level contract for a raw listing
// submission. Structural problems (wrong types, missing required fields) are
// caught here; value-level checks live in ListingSnapshot.Validate.
var submissionSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"title", "description", "price", "area"},
	"properties": map[string]interface{}{
		"id":          map[string]interface{}{"type": "string"},
		"title":       map[string]interface{}{"type": "string"},
		"description": map[string]interface{}{"type": "string"},
		"price":       map[string]interface{}{"type": "number"},
		"area":        map[string]interface{}{"type": "number"},
		"bedrooms":    map[string]interface{}{"type": "integer", "minimum": 0},
		"bathrooms":   map[string]interface{}{"type": "integer", "minimum": 0},
		"imageCount":  map[string]interface{}{"type": "integer", "minimum": 0},
		"propertyType": map[string]interface{}{
			"type": "string",
		},
		"coordinates": map[string]interface{}{
			"type":     "object",
			"required": []string{"lat", "lng"},
			"properties": map[string]interface{}{
				"lat": map[string]interface{}{"type": "number"},
				"lng": map[string]interface{}{"type": "number"},
			},
		},
		"contactPhone": map[string]interface{}{"type": "string"},
		"amenities":    map[string]interface{}{"type": "object"},
		"district":     map[string]interface{}{"type": "string"},
		"ward":         map[string]interface{}{"type": "string"},
		"city":         map[string]interface{}{"type": "string"},
	},
}

// DecodeSnapshot validates a raw submission document against the schema and
// decodes it into a ListingSnapshot. Schema violations come back as input
// validation errors, so the caller rejects the submission without a
// moderation run.
func DecodeSnapshot(raw []byte) (*ListingSnapshot, error) {
	schemaLoader := gojsonschema.NewGoLoader(submissionSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, errors.NewValidationInputError(fmt.Sprintf("submission is not a JSON object: %v", err))
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, errors.NewValidationInputError(fmt.Sprintf("submission validation failed: %v", errs))
	}

	var snapshot ListingSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, errors.NewValidationInputError(fmt.Sprintf("decode submission: %v", err))
	}

	return &snapshot, nil
}
