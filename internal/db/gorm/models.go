package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/giftwise/giftwise/pkg/models"
)

// GORM models. JSON array columns use models.JSONStringArray, which
// implements sql.Scanner and driver.Valuer.

// User row.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string { return "users" }

// Recipient row.
type Recipient struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	UserID       int64  `gorm:"index:idx_recipients_user;not null"`
	Name         string `gorm:"not null"`
	Relationship string
	Age          int
	Gender       string
	Notes        string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Recipient) TableName() string { return "recipients" }

// Preference row.
type Preference struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	RecipientID int64  `gorm:"index:idx_preferences_recipient;not null"`
	Type        string `gorm:"index;not null"`
	Value       string `gorm:"not null"`
	Importance  int    `gorm:"default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Preference) TableName() string { return "preferences" }

// Occasion row.
type Occasion struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	RecipientID  int64  `gorm:"index:idx_occasions_recipient;not null"`
	Name         string `gorm:"not null"`
	Date         time.Time
	Recurring    bool      `gorm:"default:false"`
	ReminderDays int       `gorm:"default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Occasion) TableName() string { return "occasions" }

// Product row. Tag sets are JSON text columns; they are scoring
// features, never join targets, so no separate rows.
type Product struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"index:idx_products_name;not null"`
	Description   string `gorm:"type:text"`
	Price         float64
	Category      string                 `gorm:"index:idx_products_category"`
	Categories    models.JSONStringArray `gorm:"type:text"`
	Tags          models.JSONStringArray `gorm:"type:text"`
	Occasions     models.JSONStringArray `gorm:"type:text"`
	Moods         models.JSONStringArray `gorm:"type:text"`
	Relationships models.JSONStringArray `gorm:"type:text"`
	AgeRanges     models.JSONStringArray `gorm:"type:text"`
	Genders       models.JSONStringArray `gorm:"type:text"`
	ImageURL      string
	Source        string    `gorm:"default:'catalog';index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// ProductTag row.
type ProductTag struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	ProductID  int64  `gorm:"index:idx_product_tags_product;not null"`
	Tag        string `gorm:"not null"`
	Source     string `gorm:"type:text;check:source IN ('manual', 'ai');default:'manual'"`
	Confidence float64   `gorm:"default:1.0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ProductTag) TableName() string { return "product_tags" }

// ProductClassification row.
type ProductClassification struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	ProductID  int64  `gorm:"index:idx_classifications_product;not null"`
	Category   string
	Attributes models.JSONStringArray `gorm:"type:text"`
	Model      string
	Confidence float64
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ProductClassification) TableName() string { return "product_classifications" }

// Recommendation row.
type Recommendation struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	UserID      int64   `gorm:"index:idx_recommendations_user;not null"`
	RecipientID int64   `gorm:"index:idx_recommendations_recipient;not null"`
	ProductID   int64   `gorm:"not null"`
	Score       float64 `gorm:"index:idx_recommendations_score,sort:desc"`
	Confidence  float64
	Reasoning   string    `gorm:"type:text"`
	Status      string    `gorm:"type:text;check:status IN ('new', 'viewed', 'approved', 'dismissed');default:'new';index"`
	Algorithm   string    `gorm:"index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Recommendation) TableName() string { return "recommendations" }

// BeforeCreate hook to ensure the status default is set.
func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = string(models.RecommendationNew)
	}
	return nil
}

// UserFeedback row. Append-only; no update path exists.
type UserFeedback struct {
	ID               int64 `gorm:"primaryKey;autoIncrement"`
	UserID           int64 `gorm:"index:idx_feedback_user;index:idx_feedback_user_product,priority:1;not null"`
	ProductID        int64 `gorm:"index:idx_feedback_user_product,priority:2;not null"`
	RecipientID      *int64
	RecommendationID *int64
	Type             string  `gorm:"not null"`
	Value            float64 `gorm:"not null"`
	Reasons          models.JSONStringArray `gorm:"type:text"`
	SessionID        string                 `gorm:"index"`
	TimeSpentMS      int64
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (UserFeedback) TableName() string { return "user_feedback" }

// PurchaseRecord row.
type PurchaseRecord struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	UserID      int64 `gorm:"index:idx_purchases_user;not null"`
	ProductID   int64 `gorm:"not null"`
	RecipientID *int64
	Occasion    string
	PurchasedAt time.Time `gorm:"autoCreateTime"`
}

func (PurchaseRecord) TableName() string { return "purchase_records" }

// UserSimilarity row. A cache artifact: rows for a user are replaced
// wholesale on rebuild.
type UserSimilarity struct {
	UserID      int64   `gorm:"primaryKey;autoIncrement:false"`
	OtherUserID int64   `gorm:"primaryKey;autoIncrement:false"`
	Score       float64 `gorm:"index:idx_similarity_score,sort:desc"`
	ComputedAt  time.Time
}

func (UserSimilarity) TableName() string { return "user_similarities" }
