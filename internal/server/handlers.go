package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/models"
	"github.com/hyperjump/jobfit/internal/pipeline"
	"github.com/hyperjump/jobfit/internal/storage"
	"go.uber.org/zap"
)

// matchRequest is the body of POST /api/v1/match. Every field is optional.
type matchRequest struct {
	Profile *models.Profile `json:"profile,omitempty"`
	Explain bool            `json:"explain"`
	TopK    int             `json:"top_k,omitempty"`
	Limit   int             `json:"limit,omitempty"`
}

type matchResponse struct {
	RunID       string                 `json:"run_id"`
	Profile     models.Profile         `json:"profile"`
	Total       int                    `json:"total"`
	Results     []*models.RankedResult `json:"results"`
	QueryTime   int64                  `json:"query_time_ms"`
	Explanation *models.Explanation    `json:"explanation,omitempty"`
	Message     string                 `json:"message,omitempty"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TopK < 0 || req.Limit < 0 {
		s.respondError(w, http.StatusBadRequest, "top_k and limit must not be negative")
		return
	}
	profile := s.engine.DefaultProfile()
	if req.Profile != nil {
		if len(req.Profile.Skills) > 0 {
			profile.Skills = req.Profile.Skills
		}
		if req.Profile.Level != "" {
			profile.Level = req.Profile.Level
		}
	}
	s.logger.Debug("match request",
		zap.Strings("skills", profile.Skills),
		zap.String("level", profile.Level),
		zap.Bool("explain", req.Explain))

	result, err := s.engine.Run(r.Context(), profile)
	if err != nil {
		s.logger.Error("match failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := matchResponse{
		RunID:     result.RunID,
		Profile:   result.Profile,
		Total:     len(result.Results),
		Results:   result.Results,
		QueryTime: result.QueryTime,
	}
	if req.Limit > 0 && len(resp.Results) > req.Limit {
		resp.Results = resp.Results[:req.Limit]
	}
	if req.Explain {
		expl, err := s.engine.Explain(r.Context(), result, req.TopK)
		switch {
		case errors.Is(err, pipeline.ErrNoEligibleJob):
			resp.Message = "no eligible job found"
		case err != nil:
			s.logger.Error("explain failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		default:
			resp.Explanation = expl
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"source": s.engine.Source().Name(),
	}
	if s.storage != nil {
		count, err := s.storage.CountJobs(r.Context())
		if err != nil {
			s.logger.Error("status: count jobs failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["stored_jobs"] = count
		if s.config.Storage.Driver == config.DriverSQLite {
			diskBytes, err := storage.DatabaseSize(s.config.Storage.DatabasePath)
			if err == nil {
				resp["disk_usage_bytes"] = diskBytes
			}
		}
	}

	configInfo := map[string]interface{}{
		"embedding_provider":   s.config.Embedding.Provider,
		"embedding_dimensions": s.config.Embedding.Dimensions,
		"vector_index_type":    s.config.Vector.Type,
		"chunk_size":           s.config.Match.ChunkSize,
		"chunk_overlap":        s.config.Match.OverlapOrDefault(),
		"context_top_k":        s.config.Match.ContextTopK,
		"generation_provider":  s.config.Generation.Provider,
		"storage_driver":       s.config.Storage.Driver,
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
