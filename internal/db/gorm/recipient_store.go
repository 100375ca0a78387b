package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

// CreateRecipient inserts a recipient and backfills the generated ID
// and timestamps.
func (s *Store) CreateRecipient(ctx context.Context, r *models.Recipient) error {
	row := fromRecipient(r)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	r.ID = row.ID
	r.CreatedAt = row.CreatedAt
	r.UpdatedAt = row.UpdatedAt
	return nil
}

// GetRecipient fetches a recipient by ID.
func (s *Store) GetRecipient(ctx context.Context, id int64) (*models.Recipient, error) {
	var row Recipient
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toRecipient(&row), nil
}

// ListRecipients returns a user's recipients, oldest first.
func (s *Store) ListRecipients(ctx context.Context, userID int64) ([]*models.Recipient, error) {
	var rows []Recipient
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*models.Recipient, len(rows))
	for i := range rows {
		out[i] = toRecipient(&rows[i])
	}
	return out, nil
}

// UpdateRecipient updates the mutable fields of a recipient.
func (s *Store) UpdateRecipient(ctx context.Context, r *models.Recipient) error {
	res := s.db.WithContext(ctx).Model(&Recipient{}).
		Where("id = ?", r.ID).
		Updates(map[string]any{
			"name":         r.Name,
			"relationship": r.Relationship,
			"age":          r.Age,
			"gender":       r.Gender,
			"notes":        r.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeleteRecipient removes a recipient along with its preferences,
// occasions and recommendations in one transaction.
func (s *Store) DeleteRecipient(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Recipient{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return db.ErrNotFound
		}
		if err := tx.Where("recipient_id = ?", id).Delete(&Preference{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipient_id = ?", id).Delete(&Occasion{}).Error; err != nil {
			return err
		}
		return tx.Where("recipient_id = ?", id).Delete(&Recommendation{}).Error
	})
}

// CreatePreference inserts a preference and backfills the generated ID.
func (s *Store) CreatePreference(ctx context.Context, p *models.Preference) error {
	row := &Preference{
		RecipientID: p.RecipientID,
		Type:        p.Type,
		Value:       p.Value,
		Importance:  p.Importance,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	p.ID = row.ID
	p.CreatedAt = row.CreatedAt
	return nil
}

// ListPreferences returns a recipient's preferences, oldest first.
func (s *Store) ListPreferences(ctx context.Context, recipientID int64) ([]*models.Preference, error) {
	var rows []Preference
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*models.Preference, len(rows))
	for i := range rows {
		out[i] = toPreference(&rows[i])
	}
	return out, nil
}

// UpdatePreference updates the value and importance of a preference.
func (s *Store) UpdatePreference(ctx context.Context, p *models.Preference) error {
	res := s.db.WithContext(ctx).Model(&Preference{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"type":       p.Type,
			"value":      p.Value,
			"importance": p.Importance,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeletePreference removes a preference.
func (s *Store) DeletePreference(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&Preference{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

// CreateOccasion inserts an occasion and backfills the generated ID.
func (s *Store) CreateOccasion(ctx context.Context, o *models.Occasion) error {
	row := &Occasion{
		RecipientID:  o.RecipientID,
		Name:         o.Name,
		Date:         o.Date,
		Recurring:    o.Recurring,
		ReminderDays: o.ReminderDays,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	o.ID = row.ID
	o.CreatedAt = row.CreatedAt
	return nil
}

// ListOccasions returns a recipient's occasions ordered by date.
func (s *Store) ListOccasions(ctx context.Context, recipientID int64) ([]*models.Occasion, error) {
	var rows []Occasion
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*models.Occasion, len(rows))
	for i := range rows {
		out[i] = toOccasion(&rows[i])
	}
	return out, nil
}

// DeleteOccasion removes an occasion.
func (s *Store) DeleteOccasion(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&Occasion{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}
