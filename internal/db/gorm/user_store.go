package gorm

import (
	"context"

	"github.com/giftwise/giftwise/pkg/models"
)

// CreateUser inserts a user and backfills the generated ID.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	row := &User{Email: u.Email, Name: u.Name}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	return nil
}

// GetUser fetches a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var row User
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toUser(&row), nil
}
