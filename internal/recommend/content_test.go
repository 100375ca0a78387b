package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/internal/db/memory"
	"github.com/giftwise/giftwise/pkg/models"
)

func seedRecipient(t *testing.T, store *memory.Store, interests ...string) *models.Recipient {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Email: "shopper@example.com", Name: "Shopper"}
	require.NoError(t, store.CreateUser(ctx, user))

	recipient := &models.Recipient{
		UserID:       user.ID,
		Name:         "Jordan",
		Relationship: "friend",
		Age:          28,
		Gender:       "female",
	}
	require.NoError(t, store.CreateRecipient(ctx, recipient))

	for _, interest := range interests {
		require.NoError(t, store.CreatePreference(ctx, &models.Preference{
			RecipientID: recipient.ID,
			Type:        models.PreferenceInterest,
			Value:       interest,
		}))
	}
	return recipient
}

// TestScoreProduct_ExampleScenario verifies the additive total for
// the age-28 reader: price (5) + interest (10) + occasion (12) + age
// bucket (8) = 35 when the occasion is requested.
func TestScoreProduct_ExampleScenario(t *testing.T) {
	recipient := &models.Recipient{Age: 28, Relationship: "friend"}
	prefs := []*models.Preference{
		{Type: models.PreferenceInterest, Value: "reading"},
		{Type: models.PreferenceInterest, Value: "hiking"},
	}
	product := &models.Product{
		Name:       "Illustrated Novel",
		Price:      150,
		Categories: models.JSONStringArray{"books"},
		Tags:       models.JSONStringArray{"reading"},
		Occasions:  models.JSONStringArray{"birthday"},
		AgeRanges:  models.JSONStringArray{"20s"},
	}
	weights := models.DefaultScoringWeights()

	withOccasion := ScoreProduct(recipient, prefs, product, models.ScoringOptions{
		MinPrice: 100, MaxPrice: 200, Occasion: "birthday",
	}, weights)
	assert.Equal(t, 5.0, withOccasion.Price)
	assert.Equal(t, 10.0, withOccasion.Interests)
	assert.Equal(t, 12.0, withOccasion.Occasion)
	assert.Equal(t, 8.0, withOccasion.AgeRange)
	assert.Equal(t, 35.0, withOccasion.Total)

	withoutOccasion := ScoreProduct(recipient, prefs, product, models.ScoringOptions{
		MinPrice: 100, MaxPrice: 200,
	}, weights)
	assert.Equal(t, 23.0, withoutOccasion.Total)
}

// TestScoreProduct_RelationshipAndGender covers the two demographic
// bonuses.
func TestScoreProduct_RelationshipAndGender(t *testing.T) {
	recipient := &models.Recipient{Age: 40, Gender: "male", Relationship: "father"}
	product := &models.Product{
		Relationships: models.JSONStringArray{"father"},
		Genders:       models.JSONStringArray{"male"},
	}

	b := ScoreProduct(recipient, nil, product, models.ScoringOptions{}, models.DefaultScoringWeights())
	assert.Equal(t, 20.0, b.Relationship)
	assert.Equal(t, 5.0, b.Gender)
	assert.Equal(t, 25.0, b.Total)
}

// TestScoreProduct_UnisexMatchesAnyRecipient verifies the gender
// wildcard values.
func TestScoreProduct_UnisexMatchesAnyRecipient(t *testing.T) {
	recipient := &models.Recipient{Age: 30, Gender: "female"}
	weights := models.DefaultScoringWeights()

	for _, wildcard := range []string{"unisex", "any"} {
		product := &models.Product{Genders: models.JSONStringArray{wildcard}}
		b := ScoreProduct(recipient, nil, product, models.ScoringOptions{}, weights)
		assert.Equal(t, weights.GenderMatch, b.Gender, "wildcard %q", wildcard)
	}
}

// TestScoreProduct_ZeroSignal verifies a product with no overlap
// scores zero but is not an error case.
func TestScoreProduct_ZeroSignal(t *testing.T) {
	recipient := &models.Recipient{Age: 55, Gender: "male"}
	product := &models.Product{Name: "Glitter Pen", Price: 3}

	b := ScoreProduct(recipient, nil, product, models.ScoringOptions{}, models.DefaultScoringWeights())
	assert.Equal(t, 0.0, b.Total)
}

// TestContentScorer_Score covers ordering, limit and the inclusion of
// zero-score products.
func TestContentScorer_Score(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	recipient := seedRecipient(t, store, "reading")

	books := &models.Product{
		Name: "Novel", Price: 20,
		Tags:      models.JSONStringArray{"reading"},
		AgeRanges: models.JSONStringArray{"20s"},
	}
	socks := &models.Product{Name: "Socks", Price: 8}
	require.NoError(t, store.CreateProduct(ctx, books))
	require.NoError(t, store.CreateProduct(ctx, socks))

	scorer := NewContentScorer(store, models.ScoringWeights{})
	recs, err := scorer.Score(ctx, Request{UserID: recipient.UserID, RecipientID: recipient.ID}, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, books.ID, recs[0].ProductID)
	assert.Equal(t, 18.0, recs[0].Score)
	assert.Equal(t, models.AlgorithmContent, recs[0].Algorithm)
	assert.Equal(t, socks.ID, recs[1].ProductID)
	assert.Equal(t, 0.0, recs[1].Score)

	// Limit is a hard cap.
	capped, err := scorer.Score(ctx, Request{UserID: recipient.UserID, RecipientID: recipient.ID}, 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)
}

// TestContentScorer_TiesKeepCatalogOrder verifies the stable sort.
func TestContentScorer_TiesKeepCatalogOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	recipient := seedRecipient(t, store)

	first := &models.Product{Name: "First", Price: 10}
	second := &models.Product{Name: "Second", Price: 10}
	require.NoError(t, store.CreateProduct(ctx, first))
	require.NoError(t, store.CreateProduct(ctx, second))

	scorer := NewContentScorer(store, models.ScoringWeights{})
	recs, err := scorer.Score(ctx, Request{UserID: recipient.UserID, RecipientID: recipient.ID}, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, first.ID, recs[0].ProductID)
	assert.Equal(t, second.ID, recs[1].ProductID)
}

// TestContentScorer_MissingRecipient verifies the not-found error
// surfaces instead of an empty result.
func TestContentScorer_MissingRecipient(t *testing.T) {
	store := memory.NewStore()
	scorer := NewContentScorer(store, models.ScoringWeights{})

	_, err := scorer.Score(context.Background(), Request{UserID: 1, RecipientID: 999}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
