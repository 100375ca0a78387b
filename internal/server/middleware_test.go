package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwise/giftwise/internal/config"
	"github.com/giftwise/giftwise/internal/db/memory"
	"github.com/giftwise/giftwise/internal/recommend"
)

func newAuthedService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimitRPS = 1000
	cfg.RateLimitBurst = 1000

	store := memory.NewStore()
	content := recommend.NewContentScorer(store, cfg.ScoringWeights)
	collaborative := recommend.NewCollaborativeScorer(store, nil)
	adjuster := recommend.NewAdjuster(store)

	svc, err := NewService(cfg, Deps{
		Store:         store,
		Content:       content,
		Collaborative: collaborative,
		Hybrid:        recommend.NewHybridScorer(nil, content, collaborative, adjuster),
		Adjuster:      adjuster,
	}, "test")
	require.NoError(t, err)
	return svc
}

// TestTokenAuth verifies authenticated routes reject missing or wrong
// tokens while health probes stay open.
func TestTokenAuth(t *testing.T) {
	svc := newAuthedService(t)
	token := svc.AuthToken()
	require.Len(t, token, 64)

	get := func(path string, header, value string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set(header, value)
		}
		w := httptest.NewRecorder()
		svc.Router().ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/health", "", ""))
	assert.Equal(t, http.StatusOK, get("/api/ready", "", ""))

	assert.Equal(t, http.StatusUnauthorized, get("/api/products", "", ""))
	assert.Equal(t, http.StatusUnauthorized, get("/api/products", "X-Auth-Token", "wrong"))
	assert.Equal(t, http.StatusOK, get("/api/products", "X-Auth-Token", token))
	assert.Equal(t, http.StatusOK, get("/api/products", "Authorization", "Bearer "+token))
}

// TestSecurityHeaders verifies the baseline response headers and the
// localhost CORS preflight.
func TestSecurityHeaders(t *testing.T) {
	svc, _ := newTestService(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, req)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	req = httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	svc.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

// TestRateLimiter verifies the per-client token bucket refills over
// time.
func TestRateLimiter(t *testing.T) {
	rl := NewPerClientRateLimiter(10, 2)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Other clients are unaffected.
	assert.True(t, rl.Allow("5.6.7.8"))

	time.Sleep(150 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"))
}
