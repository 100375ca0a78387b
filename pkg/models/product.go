package models

import "time"

// Product sources.
const (
	// ProductSourceCatalog marks products loaded from the catalog.
	ProductSourceCatalog = "catalog"
	// ProductSourceAI marks products created from AI suggestions that
	// had no exact-name match in the catalog.
	ProductSourceAI = "ai"
)

// Product is a catalog entry. The free-text tag sets are scoring
// features only; nothing validates them against a vocabulary.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         float64         `json:"price"`
	Category      string          `json:"category"`
	Categories    JSONStringArray `json:"categories"`
	Tags          JSONStringArray `json:"tags"`
	Occasions     JSONStringArray `json:"occasions"`
	Moods         JSONStringArray `json:"moods"`
	Relationships JSONStringArray `json:"relationships"`
	AgeRanges     JSONStringArray `json:"age_ranges"`
	Genders       JSONStringArray `json:"genders"`
	ImageURL      string          `json:"image_url,omitempty"`
	Source        string          `json:"source"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Tag sources.
const (
	TagSourceManual = "manual"
	TagSourceAI     = "ai"
)

// ProductTag is a supplementary annotation on a product, added by an
// admin or by the auto-tagger. Lifecycle is independent from the
// product's own tag sets.
type ProductTag struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	Tag        string    `json:"tag"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"` // 1.0 for manual tags
	CreatedAt  time.Time `json:"created_at"`
}

// ProductClassification is the result of one auto-tagging pass over a
// product: a category plus attribute labels, with the model that
// produced them.
type ProductClassification struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Category   string          `json:"category"`
	Attributes JSONStringArray `json:"attributes"`
	Model      string          `json:"model"`
	Confidence float64         `json:"confidence"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PurchaseRecord is one purchase in a user's history. Purchase
// histories feed the collaborative scorer.
type PurchaseRecord struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProductID   int64     `json:"product_id"`
	RecipientID *int64    `json:"recipient_id,omitempty"`
	Occasion    string    `json:"occasion,omitempty"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// UserSimilarity is the Jaccard score between two users' purchase
// histories. Rows are a cache artifact: recomputed wholesale, safely
// rebuildable at any time.
type UserSimilarity struct {
	UserID      int64     `json:"user_id"`
	OtherUserID int64     `json:"other_user_id"`
	Score       float64   `json:"score"`
	ComputedAt  time.Time `json:"computed_at"`
}
