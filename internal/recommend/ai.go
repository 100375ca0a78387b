package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

// Fixed score/confidence for AI-sourced recommendations. The model
// explains itself in text; numeric ranking comes from the blender.
const (
	AIScore      = 0.95
	AIConfidence = 0.90

	// DefaultAISuggestions is how many gifts the prompt asks for when
	// the caller does not bound the request.
	DefaultAISuggestions = 3
)

// ChatCompleter is the slice of the OpenAI client the AI scorer
// needs.
type ChatCompleter interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
	Model() string
}

// AIScorer asks an LLM for gift ideas and maps them onto catalog
// products, creating rows for suggestions with no exact-name match.
type AIScorer struct {
	store db.Store
	llm   ChatCompleter
}

// NewAIScorer builds an AI scorer.
func NewAIScorer(store db.Store, llm ChatCompleter) *AIScorer {
	return &AIScorer{store: store, llm: llm}
}

type aiSuggestion struct {
	Product struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
	} `json:"product"`
	Reasoning           string `json:"reasoning"`
	ReasonText          string `json:"reasonText"`
	RelationshipContext string `json:"relationshipContext"`
	Mood                string `json:"mood"`
	Category            string `json:"category"`
}

type aiResponse struct {
	Recommendations []aiSuggestion `json:"recommendations"`
}

const aiSystemPrompt = `You are a thoughtful gift advisor. Given a recipient profile you suggest specific, purchasable gifts. Respond with JSON only, in this exact shape:
{"recommendations":[{"product":{"name":"...","price":0,"description":"..."},"reasoning":"...","reasonText":"...","relationshipContext":"...","mood":"...","category":"..."}]}`

// Score asks the model for suggestions and persists unmatched ones as
// ai-sourced products. Any API or parse failure is returned to the
// caller; the hybrid blender decides whether to degrade.
func (s *AIScorer) Score(ctx context.Context, req Request, limit int) ([]*models.Recommendation, error) {
	recipient, err := s.store.GetRecipient(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("get recipient %d: %w", req.RecipientID, err)
	}
	prefs, err := s.store.ListPreferences(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}

	count := limit
	if count <= 0 {
		count = DefaultAISuggestions
	}
	prompt := buildPrompt(recipient, prefs, req.Options, count)

	raw, err := s.llm.CompleteJSON(ctx, aiSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai completion: %w", err)
	}

	var parsed aiResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse ai response: %w", err)
	}
	if len(parsed.Recommendations) == 0 {
		return nil, fmt.Errorf("ai response contained no recommendations")
	}

	suggestions := parsed.Recommendations
	if len(suggestions) > count {
		suggestions = suggestions[:count]
	}

	out := make([]*models.Recommendation, 0, len(suggestions))
	for _, sug := range suggestions {
		name := strings.TrimSpace(sug.Product.Name)
		if name == "" {
			continue
		}
		product, err := s.lookupOrCreate(ctx, name, &sug)
		if err != nil {
			return nil, err
		}
		reasoning := sug.Reasoning
		if reasoning == "" {
			reasoning = sug.ReasonText
		}
		out = append(out, &models.Recommendation{
			UserID:      req.UserID,
			RecipientID: req.RecipientID,
			ProductID:   product.ID,
			Score:       AIScore,
			Confidence:  AIConfidence,
			Reasoning:   reasoning,
			Status:      models.RecommendationNew,
			Algorithm:   models.AlgorithmAI,
			Product:     product,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ai response contained no usable products")
	}
	return out, nil
}

// lookupOrCreate dedupes a suggestion against the catalog by exact
// name; misses become ai-sourced products.
func (s *AIScorer) lookupOrCreate(ctx context.Context, name string, sug *aiSuggestion) (*models.Product, error) {
	product, err := s.store.GetProductByName(ctx, name)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("lookup product %q: %w", name, err)
	}

	product = &models.Product{
		Name:        name,
		Description: sug.Product.Description,
		Price:       sug.Product.Price,
		Category:    sug.Category,
		Source:      models.ProductSourceAI,
	}
	if sug.Category != "" {
		product.Categories = models.JSONStringArray{sug.Category}
	}
	if sug.Mood != "" {
		product.Moods = models.JSONStringArray{sug.Mood}
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create ai product %q: %w", name, err)
	}
	log.Debug().Str("name", name).Str("model", s.llm.Model()).Msg("created ai-sourced product")
	return product, nil
}

func buildPrompt(recipient *models.Recipient, prefs []*models.Preference, opts models.ScoringOptions, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d gifts for this recipient.\n", count)
	fmt.Fprintf(&b, "Relationship: %s\n", orUnknown(recipient.Relationship))
	fmt.Fprintf(&b, "Age: %d\n", recipient.Age)
	fmt.Fprintf(&b, "Gender: %s\n", orUnknown(recipient.Gender))

	var interests []string
	var budget string
	for _, p := range prefs {
		switch p.Type {
		case models.PreferenceInterest:
			interests = append(interests, p.Value)
		case models.PreferenceBudget:
			budget = p.Value
		}
	}
	if len(interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(interests, ", "))
	}
	if budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", budget)
	}
	if opts.HasPriceRange() {
		fmt.Fprintf(&b, "Price range: %.2f to %.2f\n", opts.MinPrice, opts.MaxPrice)
	}
	if opts.Occasion != "" {
		fmt.Fprintf(&b, "Occasion: %s\n", opts.Occasion)
	}
	if opts.Mood != "" {
		fmt.Fprintf(&b, "Desired mood: %s\n", opts.Mood)
	}
	if recipient.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", recipient.Notes)
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
