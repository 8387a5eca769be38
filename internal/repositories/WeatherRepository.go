package repositories

import (
	"context"
	"errors"
	"net/http"

	"weather-bot/internal/models"
)

var (
	// ErrLocationNotFound means the provider could not resolve the location name.
	ErrLocationNotFound = errors.New("location not found")
	// ErrProviderUnavailable covers timeouts, transport failures and unusable responses.
	ErrProviderUnavailable = errors.New("weather provider unavailable")
)

// HTTPClient is the subset of *http.Client the providers need.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ForecastRepository looks a location up by name and returns its forecast.
// Failures wrap ErrLocationNotFound or ErrProviderUnavailable.
type ForecastRepository interface {
	Name() string
	FetchForecast(ctx context.Context, location string) (models.ForecastRecord, error)
}
