package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the service's OpenTelemetry instruments. The global
// meter provider is a no-op unless the host process installs one.
type metrics struct {
	requests        metric.Int64Counter
	recommendations metric.Int64Counter
	aiFailures      metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.GetMeterProvider().Meter("github.com/giftwise/giftwise")

	requests, err := meter.Int64Counter("giftwise.http.requests",
		metric.WithDescription("HTTP requests served"))
	if err != nil {
		log.Warn().Err(err).Msg("requests counter unavailable")
	}
	recommendations, err := meter.Int64Counter("giftwise.recommendations.generated",
		metric.WithDescription("Recommendations generated, by algorithm"))
	if err != nil {
		log.Warn().Err(err).Msg("recommendations counter unavailable")
	}
	aiFailures, err := meter.Int64Counter("giftwise.ai.failures",
		metric.WithDescription("AI scorer and tagger call failures"))
	if err != nil {
		log.Warn().Err(err).Msg("ai failures counter unavailable")
	}

	return &metrics{
		requests:        requests,
		recommendations: recommendations,
		aiFailures:      aiFailures,
	}
}

func (m *metrics) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if m.requests != nil {
			m.requests.Add(r.Context(), 1,
				metric.WithAttributes(
					attribute.String("method", r.Method),
					attribute.String("status", strconv.Itoa(ww.Status())),
				))
		}
	})
}

func (m *metrics) recordRecommendations(r *http.Request, algorithm string, count int) {
	if m.recommendations == nil || count == 0 {
		return
	}
	m.recommendations.Add(r.Context(), int64(count),
		metric.WithAttributes(attribute.String("algorithm", algorithm)))
}

func (m *metrics) recordAIFailure(r *http.Request) {
	if m.aiFailures == nil {
		return
	}
	m.aiFailures.Add(r.Context(), 1)
}
