package models

// ScoringOptions narrows a recommendation request: an occasion/mood to
// favour, price bounds, and a category whitelist. Zero values mean
// "no constraint".
type ScoringOptions struct {
	Occasion   string   `json:"occasion,omitempty"`
	Mood       string   `json:"mood,omitempty"`
	MinPrice   float64  `json:"min_price,omitempty"`
	MaxPrice   float64  `json:"max_price,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// HasPriceRange reports whether a price window was requested.
func (o ScoringOptions) HasPriceRange() bool {
	return o.MinPrice > 0 || o.MaxPrice > 0
}

// PriceInRange reports whether price falls inside the requested window.
// An unset bound is open on that side.
func (o ScoringOptions) PriceInRange(price float64) bool {
	if o.MinPrice > 0 && price < o.MinPrice {
		return false
	}
	if o.MaxPrice > 0 && price > o.MaxPrice {
		return false
	}
	return true
}

// ScoringWeights holds the additive point values the content scorer
// awards per matching signal.
type ScoringWeights struct {
	PriceInRange      float64 `json:"price_in_range"`
	InterestMatch     float64 `json:"interest_match"`
	CategoryMatch     float64 `json:"category_match"`
	OccasionMatch     float64 `json:"occasion_match"`
	MoodMatch         float64 `json:"mood_match"`
	RelationshipMatch float64 `json:"relationship_match"`
	AgeRangeMatch     float64 `json:"age_range_match"`
	GenderMatch       float64 `json:"gender_match"`
}

// DefaultScoringWeights returns the tuned point values.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		PriceInRange:      5,
		InterestMatch:     10,
		CategoryMatch:     8,
		OccasionMatch:     12,
		MoodMatch:         15,
		RelationshipMatch: 20,
		AgeRangeMatch:     8,
		GenderMatch:       5,
	}
}

// ScoreBreakdown exposes the per-signal contributions of a content
// score. Useful for debugging and for explaining scores to users.
type ScoreBreakdown struct {
	Price        float64 `json:"price"`
	Interests    float64 `json:"interests"`
	Categories   float64 `json:"categories"`
	Occasion     float64 `json:"occasion"`
	Mood         float64 `json:"mood"`
	Relationship float64 `json:"relationship"`
	AgeRange     float64 `json:"age_range"`
	Gender       float64 `json:"gender"`
	Total        float64 `json:"total"`
}
