// Package db defines the storage contracts the service depends on.
// Two implementations exist: the gorm/PostgreSQL store for production
// and the in-memory store used by tests and dev mode.
package db

import (
	"context"
	"errors"

	"github.com/giftwise/giftwise/pkg/models"
)

// ErrNotFound is returned when a requested entity does not exist.
// Handlers map it to a 404; scorers propagate it unchanged.
var ErrNotFound = errors.New("not found")

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Source   string
	Limit    int
}

// UserStore manages user identities.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// RecipientStore manages recipients and their preferences/occasions.
// DeleteRecipient cascades to preferences, occasions and
// recommendations.
type RecipientStore interface {
	CreateRecipient(ctx context.Context, r *models.Recipient) error
	GetRecipient(ctx context.Context, id int64) (*models.Recipient, error)
	ListRecipients(ctx context.Context, userID int64) ([]*models.Recipient, error)
	UpdateRecipient(ctx context.Context, r *models.Recipient) error
	DeleteRecipient(ctx context.Context, id int64) error

	CreatePreference(ctx context.Context, p *models.Preference) error
	ListPreferences(ctx context.Context, recipientID int64) ([]*models.Preference, error)
	UpdatePreference(ctx context.Context, p *models.Preference) error
	DeletePreference(ctx context.Context, id int64) error

	CreateOccasion(ctx context.Context, o *models.Occasion) error
	ListOccasions(ctx context.Context, recipientID int64) ([]*models.Occasion, error)
	DeleteOccasion(ctx context.Context, id int64) error
}

// ProductStore manages the catalog and its annotations.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	// GetProductByName does an exact-name lookup, used to dedupe
	// AI-suggested products against the catalog.
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error

	AddTag(ctx context.Context, t *models.ProductTag) error
	ListTags(ctx context.Context, productID int64) ([]*models.ProductTag, error)
	DeleteTag(ctx context.Context, id int64) error

	CreateClassification(ctx context.Context, c *models.ProductClassification) error
	ListClassifications(ctx context.Context, productID int64) ([]*models.ProductClassification, error)
}

// RecommendationStore manages scored suggestions.
type RecommendationStore interface {
	CreateRecommendation(ctx context.Context, r *models.Recommendation) error
	GetRecommendation(ctx context.Context, id int64) (*models.Recommendation, error)
	ListRecommendations(ctx context.Context, userID, recipientID int64) ([]*models.Recommendation, error)
	UpdateRecommendationStatus(ctx context.Context, id int64, status models.RecommendationStatus) error
}

// FeedbackStore records feedback events. Events are append-only.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *models.UserFeedback) error
	ListFeedbackForProduct(ctx context.Context, userID, productID int64) ([]*models.UserFeedback, error)
	ListFeedback(ctx context.Context, userID int64) ([]*models.UserFeedback, error)
}

// PurchaseStore manages purchase histories.
type PurchaseStore interface {
	CreatePurchase(ctx context.Context, p *models.PurchaseRecord) error
	ListPurchases(ctx context.Context, userID int64) ([]*models.PurchaseRecord, error)
	// ListPurchasers returns the IDs of every user with at least one
	// purchase, for the wholesale similarity rebuild.
	ListPurchasers(ctx context.Context) ([]int64, error)
}

// SimilarityStore caches the user-similarity matrix. Rows for a user
// are replaced wholesale on rebuild.
type SimilarityStore interface {
	ReplaceSimilarities(ctx context.Context, userID int64, sims []models.UserSimilarity) error
	TopSimilar(ctx context.Context, userID int64, limit int, minScore float64) ([]models.UserSimilarity, error)
}

// Store is the full persistence collaborator.
type Store interface {
	UserStore
	RecipientStore
	ProductStore
	RecommendationStore
	FeedbackStore
	PurchaseStore
	SimilarityStore

	Ping(ctx context.Context) error
	Close() error
}
