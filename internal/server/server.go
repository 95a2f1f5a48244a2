// Package server exposes the moderation pipeline over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"listing-moderation/internal/common/errors"
	"listing-moderation/internal/common/logger"
	"listing-moderation/internal/models"
	"listing-moderation/internal/moderation/pipeline"
)

const maxBodyBytes = 1 << 20

type Server struct {
	pipeline *pipeline.Pipeline
	logger   logger.Logger
	name     string
	version  string
}

func New(p *pipeline.Pipeline, log logger.Logger, name, version string) *Server {
	return &Server{
		pipeline: p,
		logger:   log.WithFields(map[string]interface{}{"component": "http-server"}),
		name:     name,
		version:  version,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/api/moderate", s.handleModerate)
	mux.HandleFunc("/api/moderate/batch", s.handleModerateBatch)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"service":   s.name,
		"version":   s.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleModerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var envelope struct {
		Property json.RawMessage `json:"property"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Property) == 0 {
		writeError(w, http.StatusBadRequest, "request must carry a property object")
		return
	}

	snap, err := models.DecodeSnapshot(envelope.Property)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.pipeline.Moderate(r.Context(), snap)
	if err != nil {
		if errors.IsValidationInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("moderation run failed", map[string]interface{}{
			"listingId": snap.ID,
			"error":     err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "moderation failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleModerateBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var envelope struct {
		Properties []json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Properties) == 0 {
		writeError(w, http.StatusBadRequest, "request must carry a non-empty properties array")
		return
	}

	snaps := make([]*models.ListingSnapshot, 0, len(envelope.Properties))
	skipped := 0
	for _, raw := range envelope.Properties {
		snap, err := models.DecodeSnapshot(raw)
		if err != nil {
			skipped++
			s.logger.Warn("skipping malformed batch entry", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		snaps = append(snaps, snap)
	}

	results := s.pipeline.ModerateBatch(r.Context(), snaps)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"total":   len(envelope.Properties),
		"skipped": skipped + (len(snaps) - len(results)),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
