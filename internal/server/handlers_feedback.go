package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/giftwise/giftwise/pkg/models"
)

type feedbackRequest struct {
	UserID           int64    `json:"user_id"`
	ProductID        int64    `json:"product_id"`
	RecipientID      *int64   `json:"recipient_id"`
	RecommendationID *int64   `json:"recommendation_id"`
	Type             string   `json:"type"`
	Reasons          []string `json:"reasons"`
	SessionID        string   `json:"session_id"`
	TimeSpentMS      int64    `json:"time_spent_ms"`
}

func (s *Service) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID <= 0 || req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id and product_id are required")
		return
	}
	feedbackType := models.FeedbackType(req.Type)
	if !feedbackType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown feedback type")
		return
	}
	if _, err := s.store.GetProduct(r.Context(), req.ProductID); err != nil {
		writeStoreError(w, err)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	event := &models.UserFeedback{
		UserID:           req.UserID,
		ProductID:        req.ProductID,
		RecipientID:      req.RecipientID,
		RecommendationID: req.RecommendationID,
		Type:             feedbackType,
		Value:            feedbackType.Weight(),
		Reasons:          models.JSONStringArray(req.Reasons),
		SessionID:        sessionID,
		TimeSpentMS:      req.TimeSpentMS,
	}
	if err := s.store.CreateFeedback(r.Context(), event); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (s *Service) handleFeedbackSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "userId")
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}
	productID, err := queryInt64(r, "productId")
	if err != nil || productID <= 0 {
		writeError(w, http.StatusBadRequest, "productId query parameter is required")
		return
	}

	summary, err := s.adjuster.Summarize(r.Context(), userID, productID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type purchaseRequest struct {
	UserID      int64  `json:"user_id"`
	ProductID   int64  `json:"product_id"`
	RecipientID *int64 `json:"recipient_id"`
	Occasion    string `json:"occasion"`
}

func (s *Service) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID <= 0 || req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id and product_id are required")
		return
	}
	if _, err := s.store.GetProduct(r.Context(), req.ProductID); err != nil {
		writeStoreError(w, err)
		return
	}

	purchase := &models.PurchaseRecord{
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		RecipientID: req.RecipientID,
		Occasion:    req.Occasion,
	}
	if err := s.store.CreatePurchase(r.Context(), purchase); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

func (s *Service) handleSimilarityRebuild(w http.ResponseWriter, r *http.Request) {
	rebuilt, err := s.collaborative.RebuildSimilarities(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"users_rebuilt": rebuilt})
}
