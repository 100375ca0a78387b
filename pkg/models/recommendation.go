package models

import "time"

// RecommendationStatus is the lifecycle state of a recommendation.
type RecommendationStatus string

// Recommendation lifecycle: new -> viewed -> approved | dismissed.
const (
	RecommendationNew       RecommendationStatus = "new"
	RecommendationViewed    RecommendationStatus = "viewed"
	RecommendationApproved  RecommendationStatus = "approved"
	RecommendationDismissed RecommendationStatus = "dismissed"
)

// Valid reports whether s is a known status.
func (s RecommendationStatus) Valid() bool {
	switch s {
	case RecommendationNew, RecommendationViewed, RecommendationApproved, RecommendationDismissed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Status only ever advances; terminal states never change.
func (s RecommendationStatus) CanTransitionTo(next RecommendationStatus) bool {
	switch s {
	case RecommendationNew:
		return next == RecommendationViewed || next == RecommendationApproved || next == RecommendationDismissed
	case RecommendationViewed:
		return next == RecommendationApproved || next == RecommendationDismissed
	default:
		return false
	}
}

// Algorithm labels recorded on recommendations.
const (
	AlgorithmContent       = "content"
	AlgorithmCollaborative = "collaborative"
	AlgorithmAI            = "ai"
	AlgorithmHybrid        = "hybrid"
)

// Recommendation is a scored (user, recipient, product) suggestion.
// Created by one of the scorers; only the status advances afterwards.
type Recommendation struct {
	ID          int64                `json:"id"`
	UserID      int64                `json:"user_id"`
	RecipientID int64                `json:"recipient_id"`
	ProductID   int64                `json:"product_id"`
	Score       float64              `json:"score"`
	Confidence  float64              `json:"confidence"`
	Reasoning   string               `json:"reasoning,omitempty"`
	Status      RecommendationStatus `json:"status"`
	Algorithm   string               `json:"algorithm"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	// Product is populated on read paths that join the catalog entry.
	Product *Product `json:"product,omitempty"`
}
