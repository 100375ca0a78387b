// Package tagging classifies catalog products with the LLM, recording
// a ProductClassification and attaching ai-sourced tags.
package tagging

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

// ChatCompleter is the slice of the OpenAI client the tagger needs.
type ChatCompleter interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
	Model() string
}

// Tagger runs LLM classification passes over products.
type Tagger struct {
	store db.Store
	llm   ChatCompleter
}

// New builds a Tagger.
func New(store db.Store, llm ChatCompleter) *Tagger {
	return &Tagger{store: store, llm: llm}
}

const taggerSystemPrompt = `You are a product categorization assistant. Given a product, respond with JSON only in this exact shape:
{"category":"...","attributes":["..."],"tags":["..."],"confidence":0.0}
Category is a single word; attributes describe the product; tags are short lowercase gift-matching keywords; confidence is your certainty in [0,1].`

type classifyResponse struct {
	Category   string   `json:"category"`
	Attributes []string `json:"attributes"`
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
}

// Classify runs one classification pass over a product: stores the
// classification row and attaches any new ai tags. Returns the stored
// classification.
func (t *Tagger) Classify(ctx context.Context, productID int64) (*models.ProductClassification, error) {
	product, err := t.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", product.Name)
	if product.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", product.Description)
	}
	if product.Category != "" {
		fmt.Fprintf(&b, "Current category: %s\n", product.Category)
	}
	fmt.Fprintf(&b, "Price: %.2f\n", product.Price)

	raw, err := t.llm.CompleteJSON(ctx, taggerSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("classify completion: %w", err)
	}

	var parsed classifyResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse classification: %w", err)
	}
	if parsed.Category == "" {
		return nil, fmt.Errorf("classification missing category")
	}
	if parsed.Confidence <= 0 || parsed.Confidence > 1 {
		parsed.Confidence = 0.5
	}

	classification := &models.ProductClassification{
		ProductID:  productID,
		Category:   parsed.Category,
		Attributes: models.JSONStringArray(parsed.Attributes),
		Model:      t.llm.Model(),
		Confidence: parsed.Confidence,
	}
	if err := t.store.CreateClassification(ctx, classification); err != nil {
		return nil, fmt.Errorf("store classification: %w", err)
	}

	if err := t.attachTags(ctx, productID, parsed.Tags, parsed.Confidence); err != nil {
		return nil, err
	}
	log.Debug().Int64("product_id", productID).
		Str("category", parsed.Category).
		Int("tags", len(parsed.Tags)).
		Msg("product classified")
	return classification, nil
}

// attachTags adds ai tags the product does not already carry.
// Comparison is case-insensitive across both existing annotation rows
// and the product's own tag set.
func (t *Tagger) attachTags(ctx context.Context, productID int64, tags []string, confidence float64) error {
	existing, err := t.store.ListTags(ctx, productID)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, tag := range existing {
		have[strings.ToLower(tag.Tag)] = true
	}

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || have[strings.ToLower(tag)] {
			continue
		}
		have[strings.ToLower(tag)] = true
		err := t.store.AddTag(ctx, &models.ProductTag{
			ProductID:  productID,
			Tag:        tag,
			Source:     models.TagSourceAI,
			Confidence: confidence,
		})
		if err != nil {
			return fmt.Errorf("add tag %q: %w", tag, err)
		}
	}
	return nil
}

// ClassifyAll runs Classify over every product matching the filter,
// skipping individual failures. Returns how many products were
// classified.
func (t *Tagger) ClassifyAll(ctx context.Context, filter db.ProductFilter) (int, error) {
	products, err := t.store.ListProducts(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}

	classified := 0
	for _, p := range products {
		if ctx.Err() != nil {
			return classified, ctx.Err()
		}
		if _, err := t.Classify(ctx, p.ID); err != nil {
			log.Warn().Err(err).Int64("product_id", p.ID).Msg("classification skipped")
			continue
		}
		classified++
	}
	return classified, nil
}
