package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwise/giftwise/internal/db/memory"
	"github.com/giftwise/giftwise/pkg/models"
)

func seedPurchases(t *testing.T, store *memory.Store, userID int64, productIDs ...int64) {
	t.Helper()
	ctx := context.Background()
	for _, pid := range productIDs {
		require.NoError(t, store.CreatePurchase(ctx, &models.PurchaseRecord{UserID: userID, ProductID: pid}))
	}
}

func seedCatalog(t *testing.T, store *memory.Store, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Product{Name: "Product " + string(rune('A'+i)), Price: float64(10 + i)}
		require.NoError(t, store.CreateProduct(ctx, p))
		ids = append(ids, p.ID)
	}
	return ids
}

// TestRebuildSimilarities verifies the {1,2,3} vs {2,3,4} example:
// Jaccard = 2/4 = 0.5, stored symmetrically.
func TestRebuildSimilarities(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ids := seedCatalog(t, store, 4)

	seedPurchases(t, store, 1, ids[0], ids[1], ids[2])
	seedPurchases(t, store, 2, ids[1], ids[2], ids[3])

	scorer := NewCollaborativeScorer(store, nil)
	rebuilt, err := scorer.RebuildSimilarities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rebuilt)

	sims, err := store.TopSimilar(ctx, 1, 10, SimilarityThreshold)
	require.NoError(t, err)
	require.Len(t, sims, 1)
	assert.Equal(t, int64(2), sims[0].OtherUserID)
	assert.InDelta(t, 0.5, sims[0].Score, 1e-9)

	reverse, err := store.TopSimilar(ctx, 2, 10, SimilarityThreshold)
	require.NoError(t, err)
	require.Len(t, reverse, 1)
	assert.InDelta(t, 0.5, reverse[0].Score, 1e-9)
}

// TestRebuildSimilarities_DropsWeakNeighbors verifies pairs under the
// 0.1 threshold are not stored.
func TestRebuildSimilarities_DropsWeakNeighbors(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ids := seedCatalog(t, store, 12)

	// One shared product out of twelve: Jaccard 1/12 < 0.1.
	seedPurchases(t, store, 1, ids[:6]...)
	seedPurchases(t, store, 2, append([]int64{ids[5]}, ids[6:]...)...)

	scorer := NewCollaborativeScorer(store, nil)
	_, err := scorer.RebuildSimilarities(ctx)
	require.NoError(t, err)

	sims, err := store.TopSimilar(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, sims)
}

// TestCollaborativeScorer_Score verifies similarity accumulates onto
// unseen products and owned products are excluded.
func TestCollaborativeScorer_Score(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ids := seedCatalog(t, store, 5)

	seedPurchases(t, store, 1, ids[0], ids[1], ids[2])
	seedPurchases(t, store, 2, ids[1], ids[2], ids[3])
	seedPurchases(t, store, 3, ids[0], ids[1], ids[2], ids[4])

	scorer := NewCollaborativeScorer(store, nil)
	_, err := scorer.RebuildSimilarities(ctx)
	require.NoError(t, err)

	recs, err := scorer.Score(ctx, Request{UserID: 1, RecipientID: 1}, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// User 3 (similarity 3/4) recommends ids[4]; user 2 (similarity
	// 1/2) recommends ids[3].
	assert.Equal(t, ids[4], recs[0].ProductID)
	assert.InDelta(t, 0.75, recs[0].Score, 1e-9)
	assert.Equal(t, ids[3], recs[1].ProductID)
	assert.InDelta(t, 0.5, recs[1].Score, 1e-9)

	for _, r := range recs {
		assert.Equal(t, models.AlgorithmCollaborative, r.Algorithm)
		assert.NotContains(t, []int64{ids[0], ids[1], ids[2]}, r.ProductID)
	}
}

// TestCollaborativeScorer_ColdStart verifies a user with no history
// gets an empty list, not an error.
func TestCollaborativeScorer_ColdStart(t *testing.T) {
	store := memory.NewStore()
	scorer := NewCollaborativeScorer(store, nil)

	recs, err := scorer.Score(context.Background(), Request{UserID: 42, RecipientID: 1}, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// TestCollaborativeScorer_NoNeighbors verifies history without any
// similar users also yields empty.
func TestCollaborativeScorer_NoNeighbors(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ids := seedCatalog(t, store, 2)
	seedPurchases(t, store, 1, ids[0])

	scorer := NewCollaborativeScorer(store, nil)
	recs, err := scorer.Score(ctx, Request{UserID: 1, RecipientID: 1}, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
