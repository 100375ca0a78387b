package gorm

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: identity and recipient tables
		{
			ID: "001_users_recipients",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&User{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&Recipient{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&Preference{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&Occasion{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("occasions", "preferences", "recipients", "users")
			},
		},

		// Migration 002: catalog tables
		{
			ID: "002_catalog",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&Product{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&ProductTag{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&ProductClassification{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("product_classifications", "product_tags", "products")
			},
		},

		// Migration 003: recommendation and signal tables
		{
			ID: "003_recommendations_signals",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&Recommendation{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&UserFeedback{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&PurchaseRecord{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&UserSimilarity{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("user_similarities", "purchase_records", "user_feedback", "recommendations")
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("run gormigrate migrations: %w", err)
	}
	return nil
}
