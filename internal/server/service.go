// Package server provides the giftwise HTTP service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/giftwise/giftwise/internal/config"
	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/internal/recommend"
	"github.com/giftwise/giftwise/internal/tagging"
)

// Service configuration constants.
const (
	// DefaultHTTPTimeout is the per-request timeout.
	DefaultHTTPTimeout = 60 * time.Second

	// MaxRequestBody caps incoming request bodies.
	MaxRequestBody = 1 << 20 // 1 MiB

	shutdownTimeout = 10 * time.Second
)

// Service is the HTTP service orchestrator: it owns the store, the
// scorers and the router.
type Service struct {
	version string
	config  *config.Config

	store db.Store

	content       *recommend.ContentScorer
	collaborative *recommend.CollaborativeScorer
	ai            *recommend.AIScorer
	hybrid        *recommend.HybridScorer
	adjuster      *recommend.Adjuster
	tagger        *tagging.Tagger

	auth    *TokenAuth
	limiter *PerClientRateLimiter
	metrics *metrics

	router    *chi.Mux
	server    *http.Server
	startTime time.Time
	ready     atomic.Bool
}

// Deps are the collaborators the service routes requests to. AI and
// Tagger are nil when no LLM is configured; their endpoints then
// return 503.
type Deps struct {
	Store         db.Store
	Content       *recommend.ContentScorer
	Collaborative *recommend.CollaborativeScorer
	AI            *recommend.AIScorer
	Hybrid        *recommend.HybridScorer
	Adjuster      *recommend.Adjuster
	Tagger        *tagging.Tagger
}

// NewService wires the router, middleware and routes. The service is
// ready as soon as it is constructed; requireReady exists for the
// store-swap path during shutdown.
func NewService(cfg *config.Config, deps Deps, version string) (*Service, error) {
	auth, err := NewTokenAuth(cfg.AuthEnabled)
	if err != nil {
		return nil, fmt.Errorf("init token auth: %w", err)
	}

	svc := &Service{
		version:       version,
		config:        cfg,
		store:         deps.Store,
		content:       deps.Content,
		collaborative: deps.Collaborative,
		ai:            deps.AI,
		hybrid:        deps.Hybrid,
		adjuster:      deps.Adjuster,
		tagger:        deps.Tagger,
		auth:          auth,
		limiter:       NewPerClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		metrics:       newMetrics(),
		router:        chi.NewRouter(),
		startTime:     time.Now(),
	}

	svc.setupMiddleware()
	svc.setupRoutes()
	svc.ready.Store(true)

	if auth.IsEnabled() {
		log.Info().Str("token", auth.Token()).Msg("API token generated")
	}
	return svc, nil
}

func (s *Service) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(DefaultHTTPTimeout))
	s.router.Use(middleware.RealIP)
	s.router.Use(SecurityHeaders)
	s.router.Use(MaxBodySize(MaxRequestBody))
	s.router.Use(s.metrics.countRequests)
	s.router.Use(RateLimitMiddleware(s.limiter))
	s.router.Use(s.auth.Middleware)
}

func (s *Service) setupRoutes() {
	// Health endpoints respond even while not ready.
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/ready", s.handleReady)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireReady)

		r.Get("/api/stats", s.handleStats)

		// Recipients and their preferences/occasions
		r.Post("/api/recipients", s.handleCreateRecipient)
		r.Get("/api/recipients", s.handleListRecipients)
		r.Get("/api/recipients/{id}", s.handleGetRecipient)
		r.Put("/api/recipients/{id}", s.handleUpdateRecipient)
		r.Delete("/api/recipients/{id}", s.handleDeleteRecipient)
		r.Get("/api/recipients/{id}/preferences", s.handleListPreferences)
		r.Post("/api/recipients/{id}/preferences", s.handleCreatePreference)
		r.Put("/api/preferences/{id}", s.handleUpdatePreference)
		r.Delete("/api/preferences/{id}", s.handleDeletePreference)
		r.Get("/api/recipients/{id}/occasions", s.handleListOccasions)
		r.Post("/api/recipients/{id}/occasions", s.handleCreateOccasion)
		r.Delete("/api/occasions/{id}", s.handleDeleteOccasion)

		// Catalog
		r.Get("/api/products", s.handleListProducts)
		r.Post("/api/products", s.handleCreateProduct)
		r.Get("/api/products/{id}", s.handleGetProduct)
		r.Put("/api/products/{id}", s.handleUpdateProduct)
		r.Get("/api/products/{id}/tags", s.handleListTags)
		r.Post("/api/products/{id}/tags", s.handleAddTag)
		r.Delete("/api/tags/{id}", s.handleDeleteTag)
		r.Post("/api/products/{id}/classify", s.handleClassifyProduct)
		r.Post("/api/admin/products/auto-tag", s.handleAutoTagAll)

		// Recommendations
		r.Post("/api/recommendations/hybrid", s.handleRecommendHybrid)
		r.Post("/api/recommendations/content", s.handleRecommendContent)
		r.Post("/api/recommendations/collaborative", s.handleRecommendCollaborative)
		r.Post("/api/recommendations/ai", s.handleRecommendAI)
		r.Get("/api/recipients/{id}/recommendations", s.handleListRecommendations)
		r.Post("/api/recommendations/{id}/status", s.handleRecommendationStatus)

		// Feedback
		r.Post("/api/feedback", s.handleCreateFeedback)
		r.Get("/api/feedback/summary", s.handleFeedbackSummary)

		// Purchases feed the collaborative scorer
		r.Post("/api/purchases", s.handleCreatePurchase)

		// Similarity admin
		r.Post("/api/admin/similarity/rebuild", s.handleSimilarityRebuild)
	})
}

// requireReady returns 503 while the service is not serving.
func (s *Service) requireReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			writeError(w, http.StatusServiceUnavailable, "service not ready")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Router exposes the chi mux for tests.
func (s *Service) Router() http.Handler { return s.router }

// AuthToken returns the generated API token, empty when auth is
// disabled.
func (s *Service) AuthToken() string { return s.auth.Token() }

// Start runs the HTTP server until ListenAndServe returns.
func (s *Service) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", addr).Str("version", s.version).Msg("giftwise listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, drains in-flight ones and closes
// the store.
func (s *Service) Shutdown(ctx context.Context) error {
	s.ready.Store(false)

	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	log.Info().Dur("uptime", time.Since(s.startTime)).Msg("giftwise stopped")
	return nil
}
