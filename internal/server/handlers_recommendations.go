package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/giftwise/giftwise/internal/recommend"
	"github.com/giftwise/giftwise/pkg/models"
)

func (s *Service) decodeRecommendRequest(w http.ResponseWriter, r *http.Request, defaultLimit int) (recommend.Request, bool) {
	var req recommend.Request
	if !decodeJSON(w, r, &req) {
		return req, false
	}
	if req.UserID <= 0 || req.RecipientID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id and recipient_id are required")
		return req, false
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	return req, true
}

// runScorer executes one scorer and persists its output. Persisting
// per recommendation keeps partial results on storage failure
// visible rather than silently dropped.
func (s *Service) runScorer(w http.ResponseWriter, r *http.Request, scorer recommend.Scorer, req recommend.Request, algorithm string) {
	recs, err := scorer.Score(r.Context(), req, req.Limit)
	if err != nil {
		if algorithm == models.AlgorithmAI {
			s.metrics.recordAIFailure(r)
		}
		writeStoreError(w, err)
		return
	}

	for _, rec := range recs {
		if err := s.store.CreateRecommendation(r.Context(), rec); err != nil {
			log.Error().Err(err).Int64("product_id", rec.ProductID).Msg("persist recommendation")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	s.metrics.recordRecommendations(r, algorithm, len(recs))
	writeJSON(w, http.StatusOK, recs)
}

func (s *Service) handleRecommendHybrid(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRecommendRequest(w, r, recommend.DefaultHybridLimit)
	if !ok {
		return
	}
	s.runScorer(w, r, s.hybrid, req, models.AlgorithmHybrid)
}

func (s *Service) handleRecommendContent(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRecommendRequest(w, r, recommend.DefaultLimit)
	if !ok {
		return
	}
	s.runScorer(w, r, s.content, req, models.AlgorithmContent)
}

func (s *Service) handleRecommendCollaborative(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRecommendRequest(w, r, recommend.DefaultLimit)
	if !ok {
		return
	}
	s.runScorer(w, r, s.collaborative, req, models.AlgorithmCollaborative)
}

func (s *Service) handleRecommendAI(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "ai recommendations not configured")
		return
	}
	req, ok := s.decodeRecommendRequest(w, r, recommend.DefaultLimit)
	if !ok {
		return
	}
	s.runScorer(w, r, s.ai, req, models.AlgorithmAI)
}

func (s *Service) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := idParam(w, r)
	if !ok {
		return
	}
	userID, err := queryInt64(r, "userId")
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}
	if _, err := s.store.GetRecipient(r.Context(), recipientID); err != nil {
		writeStoreError(w, err)
		return
	}

	recs, err := s.store.ListRecommendations(r.Context(), userID, recipientID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

type statusRequest struct {
	Status models.RecommendationStatus `json:"status"`
}

func (s *Service) handleRecommendationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	rec, err := s.store.GetRecommendation(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !rec.Status.CanTransitionTo(req.Status) {
		writeError(w, http.StatusConflict, "invalid status transition")
		return
	}
	if err := s.store.UpdateRecommendationStatus(r.Context(), id, req.Status); err != nil {
		writeStoreError(w, err)
		return
	}
	rec.Status = req.Status
	writeJSON(w, http.StatusOK, rec)
}
