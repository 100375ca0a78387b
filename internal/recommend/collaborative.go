package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/giftwise/giftwise/internal/cache"
	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
	"github.com/giftwise/giftwise/pkg/similarity"
)

const (
	// SimilarUserCount is how many neighbors feed a recommendation.
	SimilarUserCount = 10
	// SimilarityThreshold filters out weak neighbors.
	SimilarityThreshold = 0.1

	rebuildConcurrency = 8
)

// CollaborativeScorer ranks products by weighted popularity among
// users with overlapping purchase histories. The cache is optional;
// nil falls through to the store.
type CollaborativeScorer struct {
	store db.Store
	cache *cache.SimilarityCache
}

// NewCollaborativeScorer builds a collaborative scorer.
func NewCollaborativeScorer(store db.Store, c *cache.SimilarityCache) *CollaborativeScorer {
	return &CollaborativeScorer{store: store, cache: c}
}

// Score accumulates neighbor similarity onto every product a neighbor
// purchased that the requesting user has not. Cold start (no history,
// no neighbors above threshold) returns empty, never an error.
func (s *CollaborativeScorer) Score(ctx context.Context, req Request, limit int) ([]*models.Recommendation, error) {
	own, err := s.store.ListPurchases(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	if len(own) == 0 {
		return []*models.Recommendation{}, nil
	}
	seen := make(map[int64]bool, len(own))
	for _, p := range own {
		seen[p.ProductID] = true
	}

	neighbors, err := s.topSimilar(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("top similar users: %w", err)
	}
	if len(neighbors) == 0 {
		return []*models.Recommendation{}, nil
	}

	scores := make(map[int64]float64)
	var productOrder []int64
	for _, n := range neighbors {
		purchases, err := s.store.ListPurchases(ctx, n.OtherUserID)
		if err != nil {
			return nil, fmt.Errorf("list purchases for user %d: %w", n.OtherUserID, err)
		}
		counted := make(map[int64]bool, len(purchases))
		for _, p := range purchases {
			if seen[p.ProductID] || counted[p.ProductID] {
				continue
			}
			counted[p.ProductID] = true
			if _, ok := scores[p.ProductID]; !ok {
				productOrder = append(productOrder, p.ProductID)
			}
			scores[p.ProductID] += n.Score
		}
	}

	sort.SliceStable(productOrder, func(i, j int) bool {
		return scores[productOrder[i]] > scores[productOrder[j]]
	})
	if limit > 0 && len(productOrder) > limit {
		productOrder = productOrder[:limit]
	}

	out := make([]*models.Recommendation, 0, len(productOrder))
	for _, pid := range productOrder {
		product, err := s.store.GetProduct(ctx, pid)
		if err != nil {
			// Purchases may reference products removed from the
			// catalog; skip them.
			continue
		}
		out = append(out, &models.Recommendation{
			UserID:      req.UserID,
			RecipientID: req.RecipientID,
			ProductID:   pid,
			Score:       scores[pid],
			Confidence:  collaborativeConfidence(scores[pid]),
			Reasoning:   "popular with shoppers like you",
			Status:      models.RecommendationNew,
			Algorithm:   models.AlgorithmCollaborative,
			Product:     product,
		})
	}
	return out, nil
}

func (s *CollaborativeScorer) topSimilar(ctx context.Context, userID int64) ([]models.UserSimilarity, error) {
	if sims, err := s.cache.GetTopSimilar(ctx, userID); err == nil {
		return sims, nil
	}
	sims, err := s.store.TopSimilar(ctx, userID, SimilarUserCount, SimilarityThreshold)
	if err != nil {
		return nil, err
	}
	s.cache.SetTopSimilar(ctx, userID, sims)
	return sims, nil
}

// collaborativeConfidence maps an accumulated similarity total onto
// [0,1] for display only.
func collaborativeConfidence(score float64) float64 {
	const saturation = 3.0
	if score >= saturation {
		return 1.0
	}
	if score <= 0 {
		return 0
	}
	return score / saturation
}

// RebuildSimilarities recomputes the whole similarity matrix from
// purchase histories, replacing each user's rows wholesale. Returns
// the number of users rebuilt.
func (s *CollaborativeScorer) RebuildSimilarities(ctx context.Context) (int, error) {
	start := time.Now()

	userIDs, err := s.store.ListPurchasers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list purchasers: %w", err)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	// Load every history once up front; pairwise Jaccard is pure
	// in-memory arithmetic after that.
	histories := make(map[int64]map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		purchases, err := s.store.ListPurchases(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("list purchases for user %d: %w", id, err)
		}
		set := make(map[int64]bool, len(purchases))
		for _, p := range purchases {
			set[p.ProductID] = true
		}
		histories[id] = set
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)
	for _, id := range userIDs {
		id := id
		g.Go(func() error {
			sims := make([]models.UserSimilarity, 0, len(userIDs)-1)
			for _, other := range userIDs {
				if other == id {
					continue
				}
				score := similarity.Jaccard(histories[id], histories[other])
				if score < SimilarityThreshold {
					continue
				}
				sims = append(sims, models.UserSimilarity{
					UserID:      id,
					OtherUserID: other,
					Score:       score,
				})
			}
			if err := s.store.ReplaceSimilarities(gctx, id, sims); err != nil {
				return fmt.Errorf("replace similarities for user %d: %w", id, err)
			}
			s.cache.Invalidate(gctx, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	log.Info().Int("users", len(userIDs)).
		Dur("elapsed", time.Since(start)).
		Msg("similarity matrix rebuilt")
	return len(userIDs), nil
}
