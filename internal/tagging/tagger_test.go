package tagging

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
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCompleter) Model() string { return "fake-model" }

const classifyJSON = `{"category":"kitchen","attributes":["ceramic","handmade"],"tags":["cooking","cozy"],"confidence":0.85}`

// TestClassify verifies the classification row and ai tags are
// stored.
func TestClassify(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	product := &models.Product{Name: "Ceramic Mug", Price: 18, Description: "Hand-thrown mug"}
	require.NoError(t, store.CreateProduct(ctx, product))

	tagger := New(store, &fakeCompleter{response: classifyJSON})
	c, err := tagger.Classify(ctx, product.ID)
	require.NoError(t, err)

	assert.Equal(t, "kitchen", c.Category)
	assert.Equal(t, models.JSONStringArray{"ceramic", "handmade"}, c.Attributes)
	assert.Equal(t, "fake-model", c.Model)
	assert.InDelta(t, 0.85, c.Confidence, 1e-9)

	tags, err := store.ListTags(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	for _, tag := range tags {
		assert.Equal(t, models.TagSourceAI, tag.Source)
		assert.InDelta(t, 0.85, tag.Confidence, 1e-9)
	}

	history, err := store.ListClassifications(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

// TestClassify_SkipsExistingTags verifies duplicate tags are not
// re-added, case-insensitively.
func TestClassify_SkipsExistingTags(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	product := &models.Product{Name: "Ceramic Mug", Price: 18}
	require.NoError(t, store.CreateProduct(ctx, product))
	require.NoError(t, store.AddTag(ctx, &models.ProductTag{
		ProductID: product.ID, Tag: "Cooking", Source: models.TagSourceManual,
	}))

	tagger := New(store, &fakeCompleter{response: classifyJSON})
	_, err := tagger.Classify(ctx, product.ID)
	require.NoError(t, err)

	tags, err := store.ListTags(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2) // manual "Cooking" + ai "cozy"
}

// TestClassify_Failures covers missing product, API error and bad
// responses.
func TestClassify_Failures(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	product := &models.Product{Name: "Ceramic Mug", Price: 18}
	require.NoError(t, store.CreateProduct(ctx, product))

	tagger := New(store, &fakeCompleter{response: classifyJSON})
	_, err := tagger.Classify(ctx, 999)
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = New(store, &fakeCompleter{err: errors.New("down")}).Classify(ctx, product.ID)
	require.Error(t, err)

	_, err = New(store, &fakeCompleter{response: `{"attributes":[]}`}).Classify(ctx, product.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing category")
}

// TestClassifyAll verifies failures are skipped and the count only
// reflects successes.
func TestClassifyAll(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, name := range []string{"Mug", "Scarf", "Puzzle"} {
		require.NoError(t, store.CreateProduct(ctx, &models.Product{Name: name, Price: 10}))
	}

	llm := &fakeCompleter{response: classifyJSON}
	n, err := New(store, llm).ClassifyAll(ctx, db.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, llm.calls)
}
