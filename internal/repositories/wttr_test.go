package repositories

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-bot/internal/models"
	"weather-bot/pkg/logger"
)

func newTestWttr(t *testing.T, handler http.HandlerFunc, lang string, timeout time.Duration) *WttrRepository {
	t.Helper()
	mockServer := httptest.NewServer(handler)
	t.Cleanup(mockServer.Close)

	return NewWttrRepository(mockServer.URL, lang, timeout, logger.NewZapLogger("test-app"), mockServer.Client())
}

func TestWttrRepository_FetchForecast_Success(t *testing.T) {
	var gotPath, gotFormat, gotLang string
	repo := newTestWttr(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFormat = r.URL.Query().Get("format")
		gotLang = r.URL.Query().Get("lang")
		w.Header().Set("Content-Type", "application/json")
		w.Write(wttrFixture(3))
	}, "ru", time.Second)

	record, err := repo.FetchForecast(context.Background(), "  London ")
	require.NoError(t, err)

	assert.Equal(t, "/London", gotPath)
	assert.Equal(t, "j1", gotFormat)
	assert.Equal(t, "ru", gotLang)

	assert.Equal(t, "London, United Kingdom", record.Location)
	assert.Equal(t, models.Condition{
		Status:         "Солнечно",
		TempC:          17,
		FeelsLikeC:     16,
		WindSpeedKmph:  10,
		WindDir16Point: "SW",
		VisibilityKm:   10,
		HumidityPct:    72,
	}, record.Current)
	require.Len(t, record.Days, 3)
	assert.Equal(t, "2025-07-26", record.Days[1].Date)
	require.Len(t, record.Days[1].Slots, 8)

	evening, err := record.Days[1].Part(models.Evening)
	require.NoError(t, err)
	assert.Equal(t, 17, evening.TempC) // 10 + day 1 + hour 6
	assert.Equal(t, "Переменная облачность", evening.Status)
	assert.False(t, record.FetchedAt.IsZero())
}

func TestWttrRepository_FetchForecast_EnglishStatus(t *testing.T) {
	repo := newTestWttr(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(wttrFixture(3))
	}, "en", time.Second)

	record, err := repo.FetchForecast(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "Sunny", record.Current.Status)
}

func TestWttrRepository_FetchForecast_EscapesLocation(t *testing.T) {
	var gotPath string
	repo := newTestWttr(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(wttrFixture(3))
	}, "ru", time.Second)

	_, err := repo.FetchForecast(context.Background(), "Нижний Новгород")
	require.NoError(t, err)
	assert.Equal(t, "/Нижний Новгород", gotPath)
}

func TestWttrRepository_FetchForecast_NotFound(t *testing.T) {
	repo := newTestWttr(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Unknown location; please try ~Atlantis"))
	}, "ru", time.Second)

	_, err := repo.FetchForecast(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocationNotFound))
	assert.False(t, errors.Is(err, ErrProviderUnavailable))
}

func TestWttrRepository_FetchForecast_EmptyLocation(t *testing.T) {
	called := false
	repo := newTestWttr(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "ru", time.Second)

	_, err := repo.FetchForecast(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.False(t, called)
}

func TestWttrRepository_FetchForecast_TooFewDays(t *testing.T) {
	repo := newTestWttr(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(wttrFixture(1))
	}, "ru", time.Second)

	_, err := repo.FetchForecast(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestWttrRepository_FetchForecast_ProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("invalid json"))
			},
		},
		{
			name: "non numeric field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				body := []byte(`{"current_condition":[{"temp_C":"warm"}],"weather":[{},{},{}]}`)
				w.Write(body)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestWttr(t, tt.handler, "ru", time.Second)

			_, err := repo.FetchForecast(context.Background(), "London")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrProviderUnavailable)
		})
	}
}

func TestWttrRepository_FetchForecast_Timeout(t *testing.T) {
	release := make(chan struct{})
	repo := newTestWttr(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, "ru", 20*time.Millisecond)
	defer close(release)

	_, err := repo.FetchForecast(context.Background(), "London")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWttrRepository_Name(t *testing.T) {
	repo := &WttrRepository{}
	assert.Equal(t, "wttr.in", repo.Name())
}
