package density

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/census-map/internal/config"
	"github.com/sells-group/census-map/internal/metrics"
	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/region"
	"github.com/sells-group/census-map/internal/resilience"
	"github.com/sells-group/census-map/pkg/anthropic"
)

// Origin names where a density set came from.
type Origin string

// Origins.
const (
	OriginRemote   Origin = "remote"
	OriginFallback Origin = "fallback"
)

// Reason explains why a fetch was served from the fallback. Empty for
// remote results.
type Reason string

// Fallback reasons.
const (
	ReasonNone         Reason = ""
	ReasonNoCredential Reason = "no_credential"
	ReasonTransport    Reason = "transport"
	ReasonMalformed    Reason = "malformed"
	ReasonBreakerOpen  Reason = "breaker_open"
	ReasonRateLimited  Reason = "rate_limited"
)

// Result is the outcome of one fetch.
type Result struct {
	Scores []model.DensityScore `json:"scores"`
	Origin Origin               `json:"origin"`
	Reason Reason               `json:"reason,omitempty"`
}

// Adapter is the density source callers use. It tries the remote source at
// most once per fetch and serves the fallback whenever the remote is
// unavailable, so FetchDensities never fails.
type Adapter struct {
	remote   Source
	fallback Source
	breaker  *resilience.Breaker
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithBreaker gates remote calls behind b.
func WithBreaker(b *resilience.Breaker) Option {
	return func(a *Adapter) { a.breaker = b }
}

// WithLimiter rejects remote calls that exceed l. The call is not delayed.
func WithLimiter(l *rate.Limiter) Option {
	return func(a *Adapter) { a.limiter = l }
}

// WithMetrics records fetch outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

// New creates an Adapter. A nil remote means no credential is configured.
func New(remote, fallback Source, opts ...Option) *Adapter {
	a := &Adapter{remote: remote, fallback: fallback}
	for _, o := range opts {
		o(a)
	}
	return a
}

// NewFromConfig wires the remote source when an API key is configured and
// always wires the fallback.
func NewFromConfig(cfg config.AnthropicConfig, cat *region.Catalog, m *metrics.Metrics) *Adapter {
	fallback := NewFallbackSource(cat, nil)
	if cfg.Key == "" {
		zap.L().Info("density: no inference key configured, using fallback source")
		return New(nil, fallback, WithMetrics(m))
	}

	remote := NewRemoteSource(anthropic.NewClient(cfg.Key), cat, RemoteOptions{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
	})

	bcfg := resilience.FromConfig(cfg.BreakerFailures, cfg.BreakerResetSecs)
	bcfg.OnStateChange = func(from, to resilience.State) {
		zap.L().Warn("density: inference breaker state change",
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
		m.BreakerState(int(to))
	}

	opts := []Option{WithBreaker(resilience.NewBreaker(bcfg)), WithMetrics(m)}
	if cfg.RequestsPerMinute > 0 {
		burst := min(cfg.RequestsPerMinute, 5)
		opts = append(opts, WithLimiter(rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), burst)))
	}
	return New(remote, fallback, opts...)
}

// HasRemote reports whether a remote source is configured.
func (a *Adapter) HasRemote() bool { return a.remote != nil }

// FetchDensities returns densities for attr. It never returns an error.
func (a *Adapter) FetchDensities(ctx context.Context, profile model.Profile, attr model.Attribute) Result {
	log := zap.L().With(zap.String("component", "density"), zap.String("attribute", attr.Key))

	if a.remote == nil {
		return a.serveFallback(ctx, profile, attr, ReasonNoCredential)
	}
	if a.limiter != nil && !a.limiter.Allow() {
		log.Warn("density: inference rate limit exceeded, using fallback")
		return a.serveFallback(ctx, profile, attr, ReasonRateLimited)
	}
	if a.breaker != nil {
		if err := a.breaker.Allow(); err != nil {
			log.Warn("density: inference breaker open, using fallback")
			return a.serveFallback(ctx, profile, attr, ReasonBreakerOpen)
		}
	}

	start := time.Now()
	scores, err := a.remote.FetchDensities(ctx, profile, attr)
	a.metrics.InferenceObserved(time.Since(start).Seconds())
	if a.breaker != nil {
		a.breaker.Record(err)
	}

	if err != nil {
		reason := ReasonTransport
		if errors.Is(err, ErrMalformedResponse) {
			reason = ReasonMalformed
		}
		log.Warn("density: inference unavailable, using fallback",
			zap.String("reason", string(reason)),
			zap.Error(err),
		)
		return a.serveFallback(ctx, profile, attr, reason)
	}

	a.metrics.DensityFetched(string(OriginRemote), string(ReasonNone))
	return Result{Scores: scores, Origin: OriginRemote}
}

func (a *Adapter) serveFallback(ctx context.Context, profile model.Profile, attr model.Attribute, reason Reason) Result {
	a.metrics.DensityFetched(string(OriginFallback), string(reason))

	scores, err := a.fallback.FetchDensities(ctx, profile, attr)
	if err != nil {
		zap.L().Error("density: fallback source failed", zap.Error(err))
		scores = nil
	}
	return Result{Scores: scores, Origin: OriginFallback, Reason: reason}
}
