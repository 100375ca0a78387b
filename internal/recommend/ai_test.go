package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/internal/db/memory"
	"github.com/giftwise/giftwise/pkg/models"
)

type fakeCompleter struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	f.lastPrompt = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCompleter) Model() string { return "fake-model" }

const aiThreeGifts = `{"recommendations":[
  {"product":{"name":"Leather Journal","price":35,"description":"A5 notebook"},"reasoning":"She journals daily","category":"stationery"},
  {"product":{"name":"Trail Map Set","price":25,"description":"Local hiking maps"},"reasonText":"Loves hiking","category":"outdoors"},
  {"product":{"name":"Tea Sampler","price":40,"description":"12 loose-leaf teas"},"reasoning":"Cozy evenings","mood":"relaxing","category":"food"}
]}`

// TestAIScorer_Score verifies suggestions become recommendations with
// the fixed score/confidence and ai-sourced products.
func TestAIScorer_Score(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	recipient := seedRecipient(t, store, "reading", "hiking")

	llm := &fakeCompleter{response: aiThreeGifts}
	scorer := NewAIScorer(store, llm)

	recs, err := scorer.Score(ctx, Request{UserID: recipient.UserID, RecipientID: recipient.ID}, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	for _, r := range recs {
		assert.Equal(t, AIScore, r.Score)
		assert.Equal(t, AIConfidence, r.Confidence)
		assert.Equal(t, models.AlgorithmAI, r.Algorithm)
		assert.NotZero(t, r.ProductID)
	}
	assert.Equal(t, "She journals daily", recs[0].Reasoning)
	// reasonText fills in when reasoning is absent.
	assert.Equal(t, "Loves hiking", recs[1].Reasoning)

	created, err := store.GetProductByName(ctx, "Leather Journal")
	require.NoError(t, err)
	assert.Equal(t, models.ProductSourceAI, created.Source)
	assert.Equal(t, 35.0, created.Price)

	// The prompt carries the recipient profile.
	assert.Contains(t, llm.lastPrompt, "friend")
	assert.Contains(t, llm.lastPrompt, "reading")
}

// TestAIScorer_ExactNameReusesProduct verifies the dedupe path: an
// existing catalog product is reused, not duplicated.
func TestAIScorer_ExactNameReusesProduct(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	recipient := seedRecipient(t, store)

	existing := &models.Product{Name: "Leather Journal", Price: 30, Category: "stationery"}
	require.NoError(t, store.CreateProduct(ctx, existing))

	scorer := NewAIScorer(store, &fakeCompleter{response: aiThreeGifts})
	recs, err := scorer.Score(ctx, Request{UserID: recipient.UserID, RecipientID: recipient.ID}, 3)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, recs[0].ProductID)
	// Catalog entry keeps its own price and source.
	reused, err := store.GetProduct(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, reused.Price)
	assert.Equal(t, models.ProductSourceCatalog, reused.Source)
}

// TestAIScorer_LimitCapsSuggestions verifies extra suggestions are
// dropped.
func TestAIScorer_LimitCapsSuggestions(t *testing.T) {
	store := memory.NewStore()
	recipient := seedRecipient(t, store)

	scorer := NewAIScorer(store, &fakeCompleter{response: aiThreeGifts})
	recs, err := scorer.Score(context.Background(), Request{UserID: recipient.UserID, RecipientID: recipient.ID}, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

// TestAIScorer_Failures verifies API errors, malformed JSON and empty
// responses all propagate as errors.
func TestAIScorer_Failures(t *testing.T) {
	store := memory.NewStore()
	recipient := seedRecipient(t, store)
	req := Request{UserID: recipient.UserID, RecipientID: recipient.ID}

	tests := []struct {
		name string
		llm  *fakeCompleter
	}{
		{"api error", &fakeCompleter{err: errors.New("upstream down")}},
		{"malformed json", &fakeCompleter{response: `not json at all`}},
		{"empty recommendations", &fakeCompleter{response: `{"recommendations":[]}`}},
		{"nameless products", &fakeCompleter{response: `{"recommendations":[{"product":{"name":"  "}}]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAIScorer(store, tt.llm).Score(context.Background(), req, 3)
			require.Error(t, err)
		})
	}
}

// TestAIScorer_MissingRecipient verifies not-found surfaces before
// any LLM call.
func TestAIScorer_MissingRecipient(t *testing.T) {
	store := memory.NewStore()
	llm := &fakeCompleter{response: aiThreeGifts}
	scorer := NewAIScorer(store, llm)

	_, err := scorer.Score(context.Background(), Request{UserID: 1, RecipientID: 77}, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Empty(t, llm.lastPrompt)
}
