// Package main seeds a giftwise store with a demo catalog, a few
// users with gift recipients, and enough purchase history to exercise
// collaborative filtering.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/giftwise/giftwise/internal/config"
	"github.com/giftwise/giftwise/internal/db"
	gormstore "github.com/giftwise/giftwise/internal/db/gorm"
	"github.com/giftwise/giftwise/internal/db/memory"
	"github.com/giftwise/giftwise/internal/recommend"
	"github.com/giftwise/giftwise/pkg/models"
)

func main() {
	configPath := flag.String("config", "", "Path to settings file (YAML)")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	var store db.Store
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		store, err = gormstore.NewStore(gormstore.Config{
			DSN:      cfg.DatabaseDSN,
			MaxConns: cfg.MaxConns,
			LogLevel: logger.Silent,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open store")
		}
	default:
		log.Warn().Msg("Seeding the in-memory backend; data is gone when this process exits")
		store = memory.NewStore()
	}
	defer store.Close()

	ctx := context.Background()
	if err := seed(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("Seed failed")
	}

	collaborative := recommend.NewCollaborativeScorer(store, nil)
	n, err := collaborative.RebuildSimilarities(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Similarity rebuild failed")
	}
	log.Info().Int("users", n).Msg("Seed complete")
}

func seed(ctx context.Context, store db.Store) error {
	products := []*models.Product{
		{
			Name: "Cookbook: Weeknight Pasta", Price: 24, Category: "books",
			Description: "Sixty pasta recipes built around pantry staples",
			Tags:        models.JSONStringArray{"cooking", "reading"},
			Occasions:   models.JSONStringArray{"birthday", "christmas"},
			Moods:       models.JSONStringArray{"thoughtful"},
			AgeRanges:   models.JSONStringArray{"20s", "30s", "40s"},
			Genders:     models.JSONStringArray{"unisex"},
		},
		{
			Name: "Cast Iron Skillet", Price: 45, Category: "kitchen",
			Description: "Pre-seasoned 10-inch skillet",
			Tags:        models.JSONStringArray{"cooking"},
			Occasions:   models.JSONStringArray{"housewarming", "wedding"},
			Relationships: models.JSONStringArray{"partner", "parent"},
			AgeRanges:   models.JSONStringArray{"30s", "40s", "50s"},
			Genders:     models.JSONStringArray{"unisex"},
		},
		{
			Name: "Wireless Earbuds", Price: 79, Category: "electronics",
			Description: "Noise-isolating earbuds with charging case",
			Tags:        models.JSONStringArray{"music", "fitness", "commuting"},
			Occasions:   models.JSONStringArray{"birthday", "graduation"},
			Moods:       models.JSONStringArray{"practical"},
			AgeRanges:   models.JSONStringArray{"10s", "20s", "30s"},
			Genders:     models.JSONStringArray{"unisex"},
		},
		{
			Name: "Board Game: Harvest Valley", Price: 38, Category: "games",
			Description: "Tile-laying game for two to five players",
			Tags:        models.JSONStringArray{"games", "family"},
			Occasions:   models.JSONStringArray{"christmas", "birthday"},
			Moods:       models.JSONStringArray{"fun"},
			Relationships: models.JSONStringArray{"sibling", "friend"},
			AgeRanges:   models.JSONStringArray{"10s", "20s", "30s", "40s"},
			Genders:     models.JSONStringArray{"any"},
		},
		{
			Name: "Yoga Mat", Price: 32, Category: "fitness",
			Description: "Non-slip 6mm mat with carry strap",
			Tags:        models.JSONStringArray{"fitness", "yoga", "wellness"},
			Moods:       models.JSONStringArray{"relaxing"},
			AgeRanges:   models.JSONStringArray{"20s", "30s", "40s", "50s"},
			Genders:     models.JSONStringArray{"unisex"},
		},
		{
			Name: "Scented Candle Set", Price: 28, Category: "home",
			Description: "Three soy candles, cedar, vanilla and sea salt",
			Tags:        models.JSONStringArray{"wellness", "home"},
			Occasions:   models.JSONStringArray{"housewarming", "valentines"},
			Moods:       models.JSONStringArray{"romantic", "relaxing"},
			Relationships: models.JSONStringArray{"partner", "friend"},
			Genders:     models.JSONStringArray{"female", "unisex"},
		},
		{
			Name: "Travel Journal", Price: 18, Category: "stationery",
			Description: "Hardcover journal with maps and packing lists",
			Tags:        models.JSONStringArray{"travel", "writing", "reading"},
			Occasions:   models.JSONStringArray{"graduation", "farewell"},
			Moods:       models.JSONStringArray{"thoughtful"},
			AgeRanges:   models.JSONStringArray{"20s", "30s"},
			Genders:     models.JSONStringArray{"unisex"},
		},
		{
			Name: "Espresso Tumbler", Price: 22, Category: "kitchen",
			Description: "Insulated 12oz tumbler for coffee on the move",
			Tags:        models.JSONStringArray{"coffee", "commuting"},
			Occasions:   models.JSONStringArray{"birthday"},
			Moods:       models.JSONStringArray{"practical"},
			Genders:     models.JSONStringArray{"unisex"},
		},
	}
	for _, p := range products {
		if err := store.CreateProduct(ctx, p); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(products)).Msg("Seeded products")

	users := []*models.User{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Ben", Email: "ben@example.com"},
		{Name: "Chloe", Email: "chloe@example.com"},
	}
	for _, u := range users {
		if err := store.CreateUser(ctx, u); err != nil {
			return err
		}
	}

	recipients := []*models.Recipient{
		{UserID: users[0].ID, Name: "Mum", Relationship: "parent", Age: 58, Gender: "female"},
		{UserID: users[0].ID, Name: "Sam", Relationship: "partner", Age: 34, Gender: "male"},
		{UserID: users[1].ID, Name: "Priya", Relationship: "friend", Age: 27, Gender: "female"},
	}
	for _, r := range recipients {
		if err := store.CreateRecipient(ctx, r); err != nil {
			return err
		}
	}

	prefs := []*models.Preference{
		{RecipientID: recipients[0].ID, Type: models.PreferenceInterest, Value: "cooking", Importance: 9},
		{RecipientID: recipients[0].ID, Type: models.PreferenceInterest, Value: "reading", Importance: 6},
		{RecipientID: recipients[1].ID, Type: models.PreferenceInterest, Value: "coffee", Importance: 8},
		{RecipientID: recipients[1].ID, Type: models.PreferenceInterest, Value: "music", Importance: 7},
		{RecipientID: recipients[2].ID, Type: models.PreferenceInterest, Value: "yoga", Importance: 8},
		{RecipientID: recipients[2].ID, Type: models.PreferenceInterest, Value: "travel", Importance: 5},
	}
	for _, p := range prefs {
		if err := store.CreatePreference(ctx, p); err != nil {
			return err
		}
	}

	occasions := []*models.Occasion{
		{RecipientID: recipients[0].ID, Name: "Birthday", Date: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), Recurring: true, ReminderDays: 14},
		{RecipientID: recipients[1].ID, Name: "Anniversary", Date: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), Recurring: true, ReminderDays: 7},
	}
	for _, o := range occasions {
		if err := store.CreateOccasion(ctx, o); err != nil {
			return err
		}
	}
	log.Info().Int("users", len(users)).Int("recipients", len(recipients)).Msg("Seeded profiles")

	// Overlapping baskets so the Jaccard rebuild has neighbors to find.
	purchases := map[int64][]int64{
		users[0].ID: {products[0].ID, products[1].ID, products[7].ID},
		users[1].ID: {products[0].ID, products[7].ID, products[2].ID},
		users[2].ID: {products[4].ID, products[6].ID, products[0].ID},
	}
	for userID, productIDs := range purchases {
		for _, pid := range productIDs {
			err := store.CreatePurchase(ctx, &models.PurchaseRecord{UserID: userID, ProductID: pid})
			if err != nil {
				return err
			}
		}
	}
	log.Info().Msg("Seeded purchase history")
	return nil
}
