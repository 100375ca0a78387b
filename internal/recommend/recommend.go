// Package recommend implements the recommendation pipeline: the
// content-based scorer, the collaborative scorer, the AI scorer, the
// hybrid blender that merges them, and the feedback adjustment
// applied on top.
package recommend

import (
	"context"

	"github.com/giftwise/giftwise/pkg/models"
)

// Default limits per endpoint.
const (
	DefaultLimit       = 5
	DefaultHybridLimit = 10
)

// Request identifies who the recommendations are for and how to
// narrow them.
type Request struct {
	UserID      int64                 `json:"user_id"`
	RecipientID int64                 `json:"recipient_id"`
	Limit       int                   `json:"limit,omitempty"`
	Options     models.ScoringOptions `json:"options"`
}

// Scorer ranks catalog products for one recipient. Implementations
// return at most limit recommendations, best first. An empty result
// is a valid cold-start answer, not an error.
type Scorer interface {
	Score(ctx context.Context, req Request, limit int) ([]*models.Recommendation, error)
}
