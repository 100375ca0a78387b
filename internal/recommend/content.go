package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

// ContentScorer ranks products by additive preference/demographic
// overlap with the recipient.
type ContentScorer struct {
	store   db.Store
	weights models.ScoringWeights
}

// NewContentScorer builds a content scorer. Zero weights fall back to
// the defaults.
func NewContentScorer(store db.Store, weights models.ScoringWeights) *ContentScorer {
	if weights == (models.ScoringWeights{}) {
		weights = models.DefaultScoringWeights()
	}
	return &ContentScorer{store: store, weights: weights}
}

// ScoreProduct computes the additive match score for one product.
// Pure: no store access, no randomness. Zero overlap scores zero; the
// product is never excluded here.
func ScoreProduct(recipient *models.Recipient, prefs []*models.Preference, product *models.Product, opts models.ScoringOptions, w models.ScoringWeights) models.ScoreBreakdown {
	var b models.ScoreBreakdown

	if opts.HasPriceRange() && opts.PriceInRange(product.Price) {
		b.Price = w.PriceInRange
	}

	for _, p := range prefs {
		if p.Type != models.PreferenceInterest {
			continue
		}
		if product.Tags.ContainsFold(p.Value) {
			b.Interests += w.InterestMatch
		}
	}

	for _, cat := range opts.Categories {
		if product.Categories.ContainsFold(cat) || strings.EqualFold(product.Category, cat) {
			b.Categories += w.CategoryMatch
		}
	}

	if opts.Occasion != "" && product.Occasions.ContainsFold(opts.Occasion) {
		b.Occasion = w.OccasionMatch
	}
	if opts.Mood != "" && product.Moods.ContainsFold(opts.Mood) {
		b.Mood = w.MoodMatch
	}
	if recipient.Relationship != "" && product.Relationships.ContainsFold(recipient.Relationship) {
		b.Relationship = w.RelationshipMatch
	}
	if product.AgeRanges.ContainsFold(recipient.AgeBucket()) {
		b.AgeRange = w.AgeRangeMatch
	}
	if matchesGender(recipient.Gender, product.Genders) {
		b.Gender = w.GenderMatch
	}

	b.Total = b.Price + b.Interests + b.Categories + b.Occasion + b.Mood +
		b.Relationship + b.AgeRange + b.Gender
	return b
}

func matchesGender(gender string, genders models.JSONStringArray) bool {
	if genders.ContainsFold("unisex") || genders.ContainsFold("any") {
		return true
	}
	return gender != "" && genders.ContainsFold(gender)
}

// Score ranks the catalog for the recipient and returns the top limit
// products as recommendations. A missing recipient is an error;
// missing preferences just contribute nothing.
func (s *ContentScorer) Score(ctx context.Context, req Request, limit int) ([]*models.Recommendation, error) {
	recipient, err := s.store.GetRecipient(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("get recipient %d: %w", req.RecipientID, err)
	}
	prefs, err := s.store.ListPreferences(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	products, err := s.store.ListProducts(ctx, db.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	type scored struct {
		product   *models.Product
		breakdown models.ScoreBreakdown
		order     int
	}
	candidates := make([]scored, 0, len(products))
	for i, p := range products {
		b := ScoreProduct(recipient, prefs, p, req.Options, s.weights)
		candidates = append(candidates, scored{product: p, breakdown: b, order: i})
	}

	// Stable on catalog order so ties are deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].breakdown.Total > candidates[j].breakdown.Total
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]*models.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, &models.Recommendation{
			UserID:      req.UserID,
			RecipientID: req.RecipientID,
			ProductID:   c.product.ID,
			Score:       c.breakdown.Total,
			Confidence:  contentConfidence(c.breakdown.Total),
			Reasoning:   contentReasoning(c.breakdown),
			Status:      models.RecommendationNew,
			Algorithm:   models.AlgorithmContent,
			Product:     c.product,
		})
	}
	return out, nil
}

// contentConfidence maps a point total onto [0,1] for display only.
// The stored score keeps the raw point scale.
func contentConfidence(total float64) float64 {
	const saturation = 50.0
	if total >= saturation {
		return 1.0
	}
	if total <= 0 {
		return 0
	}
	return total / saturation
}

func contentReasoning(b models.ScoreBreakdown) string {
	parts := make([]string, 0, 4)
	if b.Interests > 0 {
		parts = append(parts, "matches interests")
	}
	if b.Relationship > 0 {
		parts = append(parts, "fits the relationship")
	}
	if b.Occasion > 0 {
		parts = append(parts, "suits the occasion")
	}
	if b.Mood > 0 {
		parts = append(parts, "matches the mood")
	}
	if b.AgeRange > 0 {
		parts = append(parts, "age appropriate")
	}
	if len(parts) == 0 {
		return "general catalog match"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
