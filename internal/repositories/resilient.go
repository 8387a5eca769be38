package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"weather-bot/internal/models"
	"weather-bot/pkg/logger"
)

// ResilientConfig controls rate limiting and circuit breaking around a provider.
type ResilientConfig struct {
	RPS             float64
	Burst           int
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// ResilientRepository wraps a ForecastRepository with a token-bucket limiter
// and a circuit breaker. Unknown locations do not trip the breaker.
type ResilientRepository struct {
	repo    ForecastRepository
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker
	l       *logger.Logger
}

func NewResilientRepository(repo ForecastRepository, cfg ResilientConfig, l *logger.Logger) *ResilientRepository {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:        repo.Name(),
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrLocationNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warning("circuit breaker state changed", map[string]any{
				"repo": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	}

	return &ResilientRepository{
		repo:    repo,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cb:      gobreaker.NewCircuitBreaker(settings),
		l:       l,
	}
}

func (r *ResilientRepository) Name() string {
	return r.repo.Name()
}

func (r *ResilientRepository) FetchForecast(ctx context.Context, location string) (models.ForecastRecord, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.ForecastRecord{}, fmt.Errorf("%w: rate limit wait canceled: %w", ErrProviderUnavailable, err)
	}

	result, err := r.cb.Execute(func() (interface{}, error) {
		return r.repo.FetchForecast(ctx, location)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return models.ForecastRecord{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if err != nil {
		return models.ForecastRecord{}, err
	}

	return result.(models.ForecastRecord), nil
}

// State reports the circuit breaker state, mostly for health output and tests.
func (r *ResilientRepository) State() gobreaker.State {
	return r.cb.State()
}
