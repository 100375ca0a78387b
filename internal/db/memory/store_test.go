package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

func TestStore_RecipientCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	r := &models.Recipient{UserID: 1, Name: "Maya", Relationship: "sister", Age: 28, Gender: "female"}
	require.NoError(t, s.CreateRecipient(ctx, r))
	require.NotZero(t, r.ID)

	got, err := s.GetRecipient(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maya", got.Name)
	assert.Equal(t, "20s", got.AgeBucket())

	got.Notes = "loves hiking"
	require.NoError(t, s.UpdateRecipient(ctx, got))

	list, err := s.ListRecipients(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "loves hiking", list[0].Notes)
}

func TestStore_GetRecipient_NotFound(t *testing.T) {
	s := NewStore()
	_, err := s.GetRecipient(context.Background(), 42)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestStore_DeleteRecipient_Cascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	r := &models.Recipient{UserID: 1, Name: "Maya"}
	require.NoError(t, s.CreateRecipient(ctx, r))
	require.NoError(t, s.CreatePreference(ctx, &models.Preference{RecipientID: r.ID, Type: models.PreferenceInterest, Value: "reading"}))
	require.NoError(t, s.CreateOccasion(ctx, &models.Occasion{RecipientID: r.ID, Name: "birthday"}))

	p := &models.Product{Name: "Novel", Price: 20}
	require.NoError(t, s.CreateProduct(ctx, p))
	require.NoError(t, s.CreateRecommendation(ctx, &models.Recommendation{
		UserID: 1, RecipientID: r.ID, ProductID: p.ID, Score: 10, Algorithm: models.AlgorithmContent,
	}))

	require.NoError(t, s.DeleteRecipient(ctx, r.ID))

	prefs, err := s.ListPreferences(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, prefs)

	occs, err := s.ListOccasions(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, occs)

	recs, err := s.ListRecommendations(ctx, 1, r.ID)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_ProductByName_ExactMatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.CreateProduct(ctx, &models.Product{Name: "Trail Map Set", Price: 35}))

	got, err := s.GetProductByName(ctx, "Trail Map Set")
	require.NoError(t, err)
	assert.Equal(t, "Trail Map Set", got.Name)

	// Lookup is exact, not fuzzy.
	_, err = s.GetProductByName(ctx, "trail map set")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestStore_ListProducts_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.CreateProduct(ctx, &models.Product{Name: name, Price: 10}))
	}

	list, err := s.ListProducts(ctx, db.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "c", list[2].Name)
}

func TestStore_CreateRecommendation_RequiresProduct(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.CreateRecommendation(ctx, &models.Recommendation{UserID: 1, RecipientID: 1, ProductID: 999})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestStore_TopSimilar_ThresholdAndLimit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.ReplaceSimilarities(ctx, 1, []models.UserSimilarity{
		{UserID: 1, OtherUserID: 2, Score: 0.5},
		{UserID: 1, OtherUserID: 3, Score: 0.05},
		{UserID: 1, OtherUserID: 4, Score: 0.9},
	}))

	top, err := s.TopSimilar(ctx, 1, 10, 0.1)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(4), top[0].OtherUserID)
	assert.Equal(t, int64(2), top[1].OtherUserID)

	one, err := s.TopSimilar(ctx, 1, 1, 0.1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, int64(4), one[0].OtherUserID)
}
