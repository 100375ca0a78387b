package models

import "time"

// FeedbackType is an explicit user signal on a product.
type FeedbackType string

// Known feedback types.
const (
	FeedbackPurchase      FeedbackType = "purchase"
	FeedbackLike          FeedbackType = "like"
	FeedbackShare         FeedbackType = "share"
	FeedbackClick         FeedbackType = "click"
	FeedbackView          FeedbackType = "view"
	FeedbackDislike       FeedbackType = "dislike"
	FeedbackHide          FeedbackType = "hide"
	FeedbackNotInterested FeedbackType = "not_interested"
)

// feedbackWeights maps each feedback type to its numeric value in [-1, 1].
var feedbackWeights = map[FeedbackType]float64{
	FeedbackPurchase:      1.0,
	FeedbackLike:          0.8,
	FeedbackShare:         0.6,
	FeedbackClick:         0.3,
	FeedbackView:          0.1,
	FeedbackDislike:       -0.8,
	FeedbackHide:          -0.5,
	FeedbackNotInterested: -0.3,
}

// Valid reports whether t is a known feedback type.
func (t FeedbackType) Valid() bool {
	_, ok := feedbackWeights[t]
	return ok
}

// Weight returns the numeric value for t. The mapping is pure and
// independent of call order; unknown types map to 0.
func (t FeedbackType) Weight() float64 {
	return feedbackWeights[t]
}

// UserFeedback is an append-only feedback event. Never mutated after
// creation; used as input to similarity and score-adjustment passes.
type UserFeedback struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	ProductID        int64           `json:"product_id"`
	RecipientID      *int64          `json:"recipient_id,omitempty"`
	RecommendationID *int64          `json:"recommendation_id,omitempty"`
	Type             FeedbackType    `json:"type"`
	Value            float64         `json:"value"`
	Reasons          JSONStringArray `json:"reasons,omitempty"`
	SessionID        string          `json:"session_id,omitempty"`
	TimeSpentMS      int64           `json:"time_spent_ms,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
