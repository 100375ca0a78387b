package gorm

import "github.com/giftwise/giftwise/pkg/models"

// Converters between rows and domain types. Kept mechanical on
// purpose; any behavior belongs in the stores or the domain.

func toUser(r *User) *models.User {
	return &models.User{ID: r.ID, Email: r.Email, Name: r.Name, CreatedAt: r.CreatedAt}
}

func fromRecipient(m *models.Recipient) *Recipient {
	return &Recipient{
		ID: m.ID, UserID: m.UserID, Name: m.Name, Relationship: m.Relationship,
		Age: m.Age, Gender: m.Gender, Notes: m.Notes,
	}
}

func toRecipient(r *Recipient) *models.Recipient {
	return &models.Recipient{
		ID: r.ID, UserID: r.UserID, Name: r.Name, Relationship: r.Relationship,
		Age: r.Age, Gender: r.Gender, Notes: r.Notes,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toPreference(r *Preference) *models.Preference {
	return &models.Preference{
		ID: r.ID, RecipientID: r.RecipientID, Type: r.Type, Value: r.Value,
		Importance: r.Importance, CreatedAt: r.CreatedAt,
	}
}

func toOccasion(r *Occasion) *models.Occasion {
	return &models.Occasion{
		ID: r.ID, RecipientID: r.RecipientID, Name: r.Name, Date: r.Date,
		Recurring: r.Recurring, ReminderDays: r.ReminderDays, CreatedAt: r.CreatedAt,
	}
}

func fromProduct(m *models.Product) *Product {
	return &Product{
		ID: m.ID, Name: m.Name, Description: m.Description, Price: m.Price,
		Category: m.Category, Categories: m.Categories, Tags: m.Tags,
		Occasions: m.Occasions, Moods: m.Moods, Relationships: m.Relationships,
		AgeRanges: m.AgeRanges, Genders: m.Genders, ImageURL: m.ImageURL,
		Source: m.Source,
	}
}

func toProduct(r *Product) *models.Product {
	return &models.Product{
		ID: r.ID, Name: r.Name, Description: r.Description, Price: r.Price,
		Category: r.Category, Categories: r.Categories, Tags: r.Tags,
		Occasions: r.Occasions, Moods: r.Moods, Relationships: r.Relationships,
		AgeRanges: r.AgeRanges, Genders: r.Genders, ImageURL: r.ImageURL,
		Source: r.Source, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toProductTag(r *ProductTag) *models.ProductTag {
	return &models.ProductTag{
		ID: r.ID, ProductID: r.ProductID, Tag: r.Tag, Source: r.Source,
		Confidence: r.Confidence, CreatedAt: r.CreatedAt,
	}
}

func toClassification(r *ProductClassification) *models.ProductClassification {
	return &models.ProductClassification{
		ID: r.ID, ProductID: r.ProductID, Category: r.Category,
		Attributes: r.Attributes, Model: r.Model, Confidence: r.Confidence,
		CreatedAt: r.CreatedAt,
	}
}

func toRecommendation(r *Recommendation) *models.Recommendation {
	return &models.Recommendation{
		ID: r.ID, UserID: r.UserID, RecipientID: r.RecipientID, ProductID: r.ProductID,
		Score: r.Score, Confidence: r.Confidence, Reasoning: r.Reasoning,
		Status: models.RecommendationStatus(r.Status), Algorithm: r.Algorithm,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toFeedback(r *UserFeedback) *models.UserFeedback {
	return &models.UserFeedback{
		ID: r.ID, UserID: r.UserID, ProductID: r.ProductID,
		RecipientID: r.RecipientID, RecommendationID: r.RecommendationID,
		Type: models.FeedbackType(r.Type), Value: r.Value, Reasons: r.Reasons,
		SessionID: r.SessionID, TimeSpentMS: r.TimeSpentMS, CreatedAt: r.CreatedAt,
	}
}

func toPurchase(r *PurchaseRecord) *models.PurchaseRecord {
	return &models.PurchaseRecord{
		ID: r.ID, UserID: r.UserID, ProductID: r.ProductID,
		RecipientID: r.RecipientID, Occasion: r.Occasion, PurchasedAt: r.PurchasedAt,
	}
}
