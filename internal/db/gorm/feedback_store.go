package gorm

import (
	"context"

	"github.com/giftwise/giftwise/pkg/models"
)

// CreateFeedback appends a feedback event. The value is derived from
// the type before insert; events are never updated afterwards.
func (s *Store) CreateFeedback(ctx context.Context, f *models.UserFeedback) error {
	if f.Value == 0 {
		f.Value = f.Type.Weight()
	}
	row := &UserFeedback{
		UserID:           f.UserID,
		ProductID:        f.ProductID,
		RecipientID:      f.RecipientID,
		RecommendationID: f.RecommendationID,
		Type:             string(f.Type),
		Value:            f.Value,
		Reasons:          f.Reasons,
		SessionID:        f.SessionID,
		TimeSpentMS:      f.TimeSpentMS,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	f.ID = row.ID
	f.CreatedAt = row.CreatedAt
	return nil
}

// ListFeedbackForProduct returns one user's feedback events on one
// product, oldest first.
func (s *Store) ListFeedbackForProduct(ctx context.Context, userID, productID int64) ([]*models.UserFeedback, error) {
	var rows []UserFeedback
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*models.UserFeedback, len(rows))
	for i := range rows {
		out[i] = toFeedback(&rows[i])
	}
	return out, nil
}

// ListFeedback returns all of a user's feedback events, oldest first.
func (s *Store) ListFeedback(ctx context.Context, userID int64) ([]*models.UserFeedback, error) {
	var rows []UserFeedback
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*models.UserFeedback, len(rows))
	for i := range rows {
		out[i] = toFeedback(&rows[i])
	}
	return out, nil
}
