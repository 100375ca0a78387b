package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwise/giftwise/internal/config"
	"github.com/giftwise/giftwise/internal/db/memory"
	"github.com/giftwise/giftwise/internal/recommend"
	"github.com/giftwise/giftwise/pkg/models"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.AuthEnabled = false
	cfg.RateLimitRPS = 1000
	cfg.RateLimitBurst = 1000

	store := memory.NewStore()
	content := recommend.NewContentScorer(store, cfg.ScoringWeights)
	collaborative := recommend.NewCollaborativeScorer(store, nil)
	adjuster := recommend.NewAdjuster(store)
	hybrid := recommend.NewHybridScorer(nil, content, collaborative, adjuster)

	svc, err := NewService(cfg, Deps{
		Store:         store,
		Content:       content,
		Collaborative: collaborative,
		Hybrid:        hybrid,
		Adjuster:      adjuster,
	}, "test")
	require.NoError(t, err)
	return svc, store
}

func doJSON(t *testing.T, svc *Service, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// TestHealthAndReady verifies the probe endpoints.
func TestHealthAndReady(t *testing.T) {
	svc, _ := newTestService(t)

	w := doJSON(t, svc, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, "ready", body["status"])

	w = doJSON(t, svc, http.MethodGet, "/api/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestRecipientCRUD walks the recipient lifecycle including the
// cascade delete.
func TestRecipientCRUD(t *testing.T) {
	svc, store := newTestService(t)

	// Create
	w := doJSON(t, svc, http.MethodPost, "/api/recipients", map[string]any{
		"user_id": 1, "name": "Jordan", "relationship": "friend", "age": 28, "gender": "female",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[models.Recipient](t, w)
	require.NotZero(t, created.ID)

	// Validation
	w = doJSON(t, svc, http.MethodPost, "/api/recipients", map[string]any{"user_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Read
	w = doJSON(t, svc, http.MethodGet, "/api/recipients/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, svc, http.MethodGet, "/api/recipients/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// List
	w = doJSON(t, svc, http.MethodGet, "/api/recipients?userId=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.Recipient](t, w), 1)

	// Update
	w = doJSON(t, svc, http.MethodPut, "/api/recipients/1", map[string]any{
		"user_id": 1, "name": "Jordan B", "age": 29,
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody[models.Recipient](t, w)
	assert.Equal(t, "Jordan B", updated.Name)
	assert.Equal(t, 29, updated.Age)

	// Preferences attach to the recipient
	w = doJSON(t, svc, http.MethodPost, "/api/recipients/1/preferences", map[string]any{
		"type": "interest", "value": "reading", "importance": 8,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Delete cascades
	w = doJSON(t, svc, http.MethodDelete, "/api/recipients/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	prefs, err := store.ListPreferences(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, prefs)
}

// TestProductAndTags covers catalog CRUD plus manual tags.
func TestProductAndTags(t *testing.T) {
	svc, _ := newTestService(t)

	w := doJSON(t, svc, http.MethodPost, "/api/products", map[string]any{
		"name": "Novel", "price": 20.0, "category": "books",
		"tags": []string{"reading"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	product := decodeBody[models.Product](t, w)
	assert.Equal(t, models.ProductSourceCatalog, product.Source)

	w = doJSON(t, svc, http.MethodPost, "/api/products/1/tags", map[string]any{"tag": "cozy"})
	require.Equal(t, http.StatusCreated, w.Code)
	tag := decodeBody[models.ProductTag](t, w)
	assert.Equal(t, models.TagSourceManual, tag.Source)

	w = doJSON(t, svc, http.MethodGet, "/api/products/1/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.ProductTag](t, w), 1)

	// Price filter
	w = doJSON(t, svc, http.MethodGet, "/api/products?minPrice=50", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[[]models.Product](t, w))
}

// TestClassifyWithoutLLM verifies the tagger endpoints answer 503
// when no LLM is configured.
func TestClassifyWithoutLLM(t *testing.T) {
	svc, _ := newTestService(t)

	w := doJSON(t, svc, http.MethodPost, "/api/products/1/classify", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w = doJSON(t, svc, http.MethodPost, "/api/recommendations/ai", map[string]any{
		"user_id": 1, "recipient_id": 1,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func seedRecommendFixture(t *testing.T, svc *Service, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateRecipient(ctx, &models.Recipient{
		UserID: 1, Name: "Jordan", Relationship: "friend", Age: 28, Gender: "female",
	}))
	require.NoError(t, store.CreatePreference(ctx, &models.Preference{
		RecipientID: 1, Type: models.PreferenceInterest, Value: "reading",
	}))
	require.NoError(t, store.CreateProduct(ctx, &models.Product{
		Name: "Novel", Price: 20,
		Tags:      models.JSONStringArray{"reading"},
		AgeRanges: models.JSONStringArray{"20s"},
	}))
	require.NoError(t, store.CreateProduct(ctx, &models.Product{Name: "Socks", Price: 8}))
}

// TestRecommendContentEndpoint verifies scoring plus persistence.
func TestRecommendContentEndpoint(t *testing.T) {
	svc, store := newTestService(t)
	seedRecommendFixture(t, svc, store)

	w := doJSON(t, svc, http.MethodPost, "/api/recommendations/content", map[string]any{
		"user_id": 1, "recipient_id": 1, "limit": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)
	recs := decodeBody[[]models.Recommendation](t, w)
	require.Len(t, recs, 2)
	assert.Equal(t, 18.0, recs[0].Score)

	// Persisted for later listing
	w = doJSON(t, svc, http.MethodGet, "/api/recipients/1/recommendations?userId=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.Recommendation](t, w), 2)
}

// TestRecommendHybridEndpoint verifies blending with no AI scorer
// configured and the duplicate-free guarantee.
func TestRecommendHybridEndpoint(t *testing.T) {
	svc, store := newTestService(t)
	seedRecommendFixture(t, svc, store)

	w := doJSON(t, svc, http.MethodPost, "/api/recommendations/hybrid", map[string]any{
		"user_id": 1, "recipient_id": 1, "limit": 10,
	})
	require.Equal(t, http.StatusOK, w.Code)
	recs := decodeBody[[]models.Recommendation](t, w)
	require.NotEmpty(t, recs)

	seen := make(map[int64]bool)
	for _, rec := range recs {
		assert.False(t, seen[rec.ProductID], "duplicate product %d", rec.ProductID)
		seen[rec.ProductID] = true
		assert.Equal(t, models.AlgorithmHybrid, rec.Algorithm)
	}
}

// TestRecommendValidation verifies missing identifiers are a 400 and
// unknown recipients a 404.
func TestRecommendValidation(t *testing.T) {
	svc, _ := newTestService(t)

	w := doJSON(t, svc, http.MethodPost, "/api/recommendations/content", map[string]any{"user_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, svc, http.MethodPost, "/api/recommendations/content", map[string]any{
		"user_id": 1, "recipient_id": 42,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestRecommendationStatusTransitions verifies the lifecycle rules at
// the HTTP boundary.
func TestRecommendationStatusTransitions(t *testing.T) {
	svc, store := newTestService(t)
	seedRecommendFixture(t, svc, store)
	ctx := context.Background()
	rec := &models.Recommendation{
		UserID: 1, RecipientID: 1, ProductID: 1, Score: 10,
		Status: models.RecommendationNew, Algorithm: models.AlgorithmContent,
	}
	require.NoError(t, store.CreateRecommendation(ctx, rec))

	w := doJSON(t, svc, http.MethodPost, "/api/recommendations/1/status", map[string]any{"status": "viewed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, svc, http.MethodPost, "/api/recommendations/1/status", map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	// Terminal states never change.
	w = doJSON(t, svc, http.MethodPost, "/api/recommendations/1/status", map[string]any{"status": "dismissed"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, svc, http.MethodPost, "/api/recommendations/1/status", map[string]any{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestFeedbackFlow verifies recording and summarizing feedback.
func TestFeedbackFlow(t *testing.T) {
	svc, store := newTestService(t)
	require.NoError(t, store.CreateProduct(context.Background(), &models.Product{Name: "Novel", Price: 20}))

	w := doJSON(t, svc, http.MethodPost, "/api/feedback", map[string]any{
		"user_id": 1, "product_id": 1, "type": "like",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	event := decodeBody[models.UserFeedback](t, w)
	assert.Equal(t, 0.8, event.Value)
	assert.NotEmpty(t, event.SessionID)

	w = doJSON(t, svc, http.MethodPost, "/api/feedback", map[string]any{
		"user_id": 1, "product_id": 1, "type": "frown",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, svc, http.MethodGet, "/api/feedback/summary?userId=1&productId=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decodeBody[recommend.Summary](t, w)
	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 0.8, summary.Mean, 1e-9)
}

// TestPurchaseAndRebuild verifies the purchase feed and the admin
// similarity rebuild.
func TestPurchaseAndRebuild(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C", "D"} {
		require.NoError(t, store.CreateProduct(ctx, &models.Product{Name: name, Price: 10}))
	}

	for _, pid := range []int64{1, 2, 3} {
		w := doJSON(t, svc, http.MethodPost, "/api/purchases", map[string]any{
			"user_id": 1, "product_id": pid,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	for _, pid := range []int64{2, 3, 4} {
		w := doJSON(t, svc, http.MethodPost, "/api/purchases", map[string]any{
			"user_id": 2, "product_id": pid,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, svc, http.MethodPost, "/api/admin/similarity/rebuild", nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := decodeBody[map[string]int](t, w)
	assert.Equal(t, 2, out["users_rebuilt"])

	sims, err := store.TopSimilar(ctx, 1, 10, 0.1)
	require.NoError(t, err)
	require.Len(t, sims, 1)
	assert.InDelta(t, 0.5, sims[0].Score, 1e-9)
}
