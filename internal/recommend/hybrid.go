package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/giftwise/giftwise/pkg/models"
)

// HybridScorer merges the AI, content and collaborative rankings into
// one de-duplicated list. Scores keep each scorer's native scale; the
// final sort is over the stored scores as-is.
type HybridScorer struct {
	ai            Scorer
	content       Scorer
	collaborative Scorer
	adjuster      *Adjuster
}

// NewHybridScorer builds a hybrid blender. The ai scorer may be nil
// when no LLM is configured; the blend then runs on the other two.
func NewHybridScorer(ai, content, collaborative Scorer, adjuster *Adjuster) *HybridScorer {
	return &HybridScorer{
		ai:            ai,
		content:       content,
		collaborative: collaborative,
		adjuster:      adjuster,
	}
}

// Score blends the three scorers. AI gets ceil(limit/2) slots,
// content ceil(limit/3), collaborative ceil(limit/4); earlier sources
// win product-ID ties. An AI failure degrades the blend to the
// remaining scorers instead of failing the request.
func (s *HybridScorer) Score(ctx context.Context, req Request, limit int) ([]*models.Recommendation, error) {
	if limit <= 0 {
		limit = DefaultHybridLimit
	}

	merged := make([]*models.Recommendation, 0, limit*2)
	present := make(map[int64]bool)

	if s.ai != nil {
		aiRecs, err := s.ai.Score(ctx, req, ceilDiv(limit, 2))
		if err != nil {
			log.Warn().Err(err).Int64("recipient_id", req.RecipientID).
				Msg("ai scorer failed, degrading to content+collaborative")
		} else {
			merged = appendNew(merged, present, aiRecs)
		}
	}

	contentRecs, err := s.content.Score(ctx, req, ceilDiv(limit, 3))
	if err != nil {
		return nil, fmt.Errorf("content scorer: %w", err)
	}
	merged = appendNew(merged, present, contentRecs)

	collabRecs, err := s.collaborative.Score(ctx, req, ceilDiv(limit, 4))
	if err != nil {
		return nil, fmt.Errorf("collaborative scorer: %w", err)
	}
	merged = appendNew(merged, present, collabRecs)

	merged = applyPostFilters(merged, req.Options)

	if s.adjuster != nil {
		if err := s.adjuster.Apply(ctx, req.UserID, merged, AdjustOptions{ExcludeDisliked: true, BoostLiked: true}); err != nil {
			return nil, fmt.Errorf("feedback adjustment: %w", err)
		}
	}

	for _, r := range merged {
		r.Algorithm = models.AlgorithmHybrid
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func ceilDiv(n, d int) int {
	return int(math.Ceil(float64(n) / float64(d)))
}

func appendNew(dst []*models.Recommendation, present map[int64]bool, recs []*models.Recommendation) []*models.Recommendation {
	for _, r := range recs {
		if present[r.ProductID] {
			continue
		}
		present[r.ProductID] = true
		dst = append(dst, r)
	}
	return dst
}

// applyPostFilters drops merged entries outside the requested price
// window or category list. Entries without a joined product cannot be
// checked and pass through.
func applyPostFilters(recs []*models.Recommendation, opts models.ScoringOptions) []*models.Recommendation {
	if !opts.HasPriceRange() && len(opts.Categories) == 0 {
		return recs
	}
	out := recs[:0]
	for _, r := range recs {
		if r.Product == nil {
			out = append(out, r)
			continue
		}
		if opts.HasPriceRange() && !opts.PriceInRange(r.Product.Price) {
			continue
		}
		if len(opts.Categories) > 0 && !matchesAnyCategory(r.Product, opts.Categories) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesAnyCategory(p *models.Product, categories []string) bool {
	for _, c := range categories {
		if p.Categories.ContainsFold(c) || strings.EqualFold(p.Category, c) {
			return true
		}
	}
	return false
}
