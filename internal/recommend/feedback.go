package recommend

import (
	"context"
	"fmt"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

// Adjustment thresholds over the mean feedback value for a product.
const (
	dislikeThreshold = -0.3
	likeThreshold    = 0.3

	// dislikeMultiplier nearly removes a product the user keeps
	// rejecting without hard-deleting it from the ranking.
	dislikeMultiplier = 0.1
)

// AdjustOptions control the feedback adjustment.
type AdjustOptions struct {
	ExcludeDisliked bool `json:"exclude_disliked"`
	BoostLiked      bool `json:"boost_liked"`
}

// Adjuster scales recommendation scores by the mean of the user's
// recorded feedback per product. The mean is recomputed from full
// history on every call; there is no decay.
type Adjuster struct {
	store db.FeedbackStore
}

// NewAdjuster builds a feedback adjuster.
func NewAdjuster(store db.FeedbackStore) *Adjuster {
	return &Adjuster{store: store}
}

// Multiplier returns the score multiplier for a product with the
// given mean feedback value. Pure.
func Multiplier(mean float64, opts AdjustOptions) float64 {
	switch {
	case mean < dislikeThreshold && opts.ExcludeDisliked:
		return dislikeMultiplier
	case mean > likeThreshold && opts.BoostLiked:
		return 1 + mean
	default:
		return 1 + mean*0.5
	}
}

// Apply rescales each recommendation's score in place by the user's
// mean feedback for its product. Products with no feedback keep their
// score (mean 0 gives multiplier 1).
func (a *Adjuster) Apply(ctx context.Context, userID int64, recs []*models.Recommendation, opts AdjustOptions) error {
	if len(recs) == 0 {
		return nil
	}
	events, err := a.store.ListFeedback(ctx, userID)
	if err != nil {
		return fmt.Errorf("list feedback: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, e := range events {
		sums[e.ProductID] += e.Value
		counts[e.ProductID]++
	}

	for _, r := range recs {
		n := counts[r.ProductID]
		if n == 0 {
			continue
		}
		mean := sums[r.ProductID] / float64(n)
		r.Score *= Multiplier(mean, opts)
	}
	return nil
}

// Summary aggregates a user's feedback for one product.
type Summary struct {
	ProductID int64   `json:"product_id"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
}

// Summarize returns the mean feedback value a user has recorded for a
// product. Zero events yields a zero-count summary, not an error.
func (a *Adjuster) Summarize(ctx context.Context, userID, productID int64) (*Summary, error) {
	events, err := a.store.ListFeedbackForProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("list feedback for product: %w", err)
	}
	s := &Summary{ProductID: productID, Count: len(events)}
	if len(events) == 0 {
		return s, nil
	}
	var sum float64
	for _, e := range events {
		sum += e.Value
	}
	s.Mean = sum / float64(len(events))
	return s, nil
}
