package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/giftwise/giftwise/pkg/models"
)

// CreatePurchase records one purchase in a user's history.
func (s *Store) CreatePurchase(ctx context.Context, p *models.PurchaseRecord) error {
	row := &PurchaseRecord{
		UserID:      p.UserID,
		ProductID:   p.ProductID,
		RecipientID: p.RecipientID,
		Occasion:    p.Occasion,
	}
	if !p.PurchasedAt.IsZero() {
		row.PurchasedAt = p.PurchasedAt
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	p.ID = row.ID
	p.PurchasedAt = row.PurchasedAt
	return nil
}

// ListPurchases returns a user's purchase history, oldest first.
func (s *Store) ListPurchases(ctx context.Context, userID int64) ([]*models.PurchaseRecord, error) {
	var rows []PurchaseRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*models.PurchaseRecord, len(rows))
	for i := range rows {
		out[i] = toPurchase(&rows[i])
	}
	return out, nil
}

// ListPurchasers returns the distinct IDs of users with at least one
// purchase.
func (s *Store) ListPurchasers(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Model(&PurchaseRecord{}).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReplaceSimilarities swaps a user's similarity rows wholesale in one
// transaction, so readers never see a half-rebuilt matrix for a user.
func (s *Store) ReplaceSimilarities(ctx context.Context, userID int64, sims []models.UserSimilarity) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&UserSimilarity{}).Error; err != nil {
			return err
		}
		if len(sims) == 0 {
			return nil
		}
		rows := make([]UserSimilarity, len(sims))
		for i, sim := range sims {
			computed := sim.ComputedAt
			if computed.IsZero() {
				computed = now
			}
			rows[i] = UserSimilarity{
				UserID:      userID,
				OtherUserID: sim.OtherUserID,
				Score:       sim.Score,
				ComputedAt:  computed,
			}
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

// TopSimilar returns up to limit neighbors of a user with score at or
// above minScore, best match first.
func (s *Store) TopSimilar(ctx context.Context, userID int64, limit int, minScore float64) ([]models.UserSimilarity, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ? AND score >= ?", userID, minScore).
		Order("score DESC, other_user_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []UserSimilarity
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.UserSimilarity, len(rows))
	for i, r := range rows {
		out[i] = models.UserSimilarity{
			UserID:      r.UserID,
			OtherUserID: r.OtherUserID,
			Score:       r.Score,
			ComputedAt:  r.ComputedAt,
		}
	}
	return out, nil
}
