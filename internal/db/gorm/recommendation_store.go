package gorm

import (
	"context"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

// CreateRecommendation inserts a recommendation and backfills the
// generated ID and timestamps.
func (s *Store) CreateRecommendation(ctx context.Context, r *models.Recommendation) error {
	row := &Recommendation{
		UserID:      r.UserID,
		RecipientID: r.RecipientID,
		ProductID:   r.ProductID,
		Score:       r.Score,
		Confidence:  r.Confidence,
		Reasoning:   r.Reasoning,
		Status:      string(r.Status),
		Algorithm:   r.Algorithm,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	r.ID = row.ID
	r.Status = models.RecommendationStatus(row.Status)
	r.CreatedAt = row.CreatedAt
	r.UpdatedAt = row.UpdatedAt
	return nil
}

// GetRecommendation fetches a recommendation with its product joined.
func (s *Store) GetRecommendation(ctx context.Context, id int64) (*models.Recommendation, error) {
	var row Recommendation
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	rec := toRecommendation(&row)

	var prod Product
	if err := s.db.WithContext(ctx).First(&prod, row.ProductID).Error; err == nil {
		rec.Product = toProduct(&prod)
	}
	return rec, nil
}

// ListRecommendations returns recommendations for a user, optionally
// narrowed to one recipient, highest score first, products joined.
func (s *Store) ListRecommendations(ctx context.Context, userID, recipientID int64) ([]*models.Recommendation, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if recipientID > 0 {
		q = q.Where("recipient_id = ?", recipientID)
	}

	var rows []Recommendation
	if err := q.Order("score DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*models.Recommendation{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ProductID)
	}
	var prods []Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&prods).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Product, len(prods))
	for i := range prods {
		byID[prods[i].ID] = toProduct(&prods[i])
	}

	out := make([]*models.Recommendation, len(rows))
	for i := range rows {
		rec := toRecommendation(&rows[i])
		rec.Product = byID[rows[i].ProductID]
		out[i] = rec
	}
	return out, nil
}

// UpdateRecommendationStatus sets the status of a recommendation.
// Transition validity is checked by the caller; the store only
// persists.
func (s *Store) UpdateRecommendationStatus(ctx context.Context, id int64, status models.RecommendationStatus) error {
	res := s.db.WithContext(ctx).Model(&Recommendation{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}
