package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weather-bot/internal/models"
	"weather-bot/pkg/logger"
)

const (
	WttrBaseURL = "https://wttr.in"
	// wttr.in answers with ~10KB of JSON; anything far beyond that is not a forecast.
	maxWttrBody = 2 << 20
)

// WttrRepository queries wttr.in's JSON (j1) format.
type WttrRepository struct {
	BaseURL    string
	Lang       string
	Timeout    time.Duration
	httpClient HTTPClient
	now        func() time.Time
	l          *logger.Logger
}

func NewWttrRepository(baseURL, lang string, timeout time.Duration, l *logger.Logger, httpClient HTTPClient) *WttrRepository {
	if baseURL == "" {
		baseURL = WttrBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WttrRepository{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Lang:       lang,
		Timeout:    timeout,
		httpClient: httpClient,
		now:        time.Now,
		l:          l,
	}
}

func (w *WttrRepository) Name() string {
	return "wttr.in"
}

type wttrValue struct {
	Value string `json:"value"`
}

type wttrCondition struct {
	TempC          string      `json:"temp_C"`
	HourlyTempC    string      `json:"tempC"`
	FeelsLikeC     string      `json:"FeelsLikeC"`
	WindSpeedKmph  string      `json:"windspeedKmph"`
	WindDir16Point string      `json:"winddir16Point"`
	Visibility     string      `json:"visibility"`
	Humidity       string      `json:"humidity"`
	WeatherDesc    []wttrValue `json:"weatherDesc"`
	LangRu         []wttrValue `json:"lang_ru"`
}

type wttrDay struct {
	Date   string          `json:"date"`
	Hourly []wttrCondition `json:"hourly"`
}

type wttrArea struct {
	AreaName []wttrValue `json:"areaName"`
	Country  []wttrValue `json:"country"`
}

type WttrResponse struct {
	CurrentCondition []wttrCondition `json:"current_condition"`
	NearestArea      []wttrArea      `json:"nearest_area"`
	Weather          []wttrDay       `json:"weather"`
}

func (w *WttrRepository) FetchForecast(ctx context.Context, location string) (models.ForecastRecord, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return models.ForecastRecord{}, fmt.Errorf("%w: empty location", ErrLocationNotFound)
	}

	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	query := url.Values{}
	query.Set("format", "j1")
	if w.Lang != "" {
		query.Set("lang", w.Lang)
	}
	reqURL := fmt.Sprintf("%s/%s?%s", w.BaseURL, url.PathEscape(location), query.Encode())

	w.l.Info("making wttr.in API request", map[string]any{
		"location": location,
		"lang":     w.Lang,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.ForecastRecord{}, fmt.Errorf("%w: failed to create request: %w", ErrProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return models.ForecastRecord{}, fmt.Errorf("%w: failed to do request: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	w.l.Info("received wttr.in API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWttrBody))
	if err != nil {
		return models.ForecastRecord{}, fmt.Errorf("%w: failed to read response body: %w", ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.ForecastRecord{}, fmt.Errorf("%w: %s", ErrLocationNotFound, location)
	case resp.StatusCode != http.StatusOK:
		return models.ForecastRecord{}, fmt.Errorf("%w: HTTP error (status %d): %s", ErrProviderUnavailable, resp.StatusCode, resp.Status)
	}

	var response WttrResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.ForecastRecord{}, fmt.Errorf("%w: failed to parse JSON response: %w", ErrProviderUnavailable, err)
	}

	w.l.Debug("parsed API response", map[string]any{
		"days": len(response.Weather),
	})

	if len(response.CurrentCondition) == 0 || len(response.Weather) < models.ForecastDays {
		return models.ForecastRecord{}, fmt.Errorf("%w: no forecast data for %s", ErrLocationNotFound, location)
	}

	record, err := w.buildRecord(location, response)
	if err != nil {
		return models.ForecastRecord{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	return record, nil
}

func (w *WttrRepository) buildRecord(location string, response WttrResponse) (models.ForecastRecord, error) {
	current, err := w.convertCondition(response.CurrentCondition[0], false)
	if err != nil {
		return models.ForecastRecord{}, fmt.Errorf("current condition: %w", err)
	}

	record := models.ForecastRecord{
		Location:  resolvedName(location, response.NearestArea),
		Current:   current,
		FetchedAt: w.now(),
	}

	for _, day := range response.Weather[:models.ForecastDays] {
		forecastDay := models.DayForecast{Date: day.Date}
		for _, hour := range day.Hourly {
			slot, err := w.convertCondition(hour, true)
			if err != nil {
				return models.ForecastRecord{}, fmt.Errorf("day %s: %w", day.Date, err)
			}
			forecastDay.Slots = append(forecastDay.Slots, slot)
		}
		record.Days = append(record.Days, forecastDay)
	}

	if err := record.Validate(); err != nil {
		return models.ForecastRecord{}, err
	}

	return record, nil
}

func (w *WttrRepository) convertCondition(c wttrCondition, hourly bool) (models.Condition, error) {
	temp := c.TempC
	if hourly {
		temp = c.HourlyTempC
	}

	var p intParser
	condition := models.Condition{
		Status:         w.status(c),
		TempC:          p.parse("temperature", temp),
		FeelsLikeC:     p.parse("feels like", c.FeelsLikeC),
		WindSpeedKmph:  p.parse("wind speed", c.WindSpeedKmph),
		WindDir16Point: c.WindDir16Point,
		VisibilityKm:   p.parse("visibility", c.Visibility),
		HumidityPct:    p.parse("humidity", c.Humidity),
	}
	if p.err != nil {
		return models.Condition{}, p.err
	}

	return condition, nil
}

// status prefers the localized description and falls back to the English one.
func (w *WttrRepository) status(c wttrCondition) string {
	if w.Lang == "ru" && len(c.LangRu) > 0 && c.LangRu[0].Value != "" {
		return strings.TrimSpace(c.LangRu[0].Value)
	}
	if len(c.WeatherDesc) > 0 {
		return strings.TrimSpace(c.WeatherDesc[0].Value)
	}
	return ""
}

func resolvedName(requested string, areas []wttrArea) string {
	if len(areas) == 0 || len(areas[0].AreaName) == 0 || areas[0].AreaName[0].Value == "" {
		return requested
	}
	name := areas[0].AreaName[0].Value
	if len(areas[0].Country) > 0 && areas[0].Country[0].Value != "" {
		name += ", " + areas[0].Country[0].Value
	}
	return name
}

// intParser keeps the first conversion error so a condition can be parsed in one expression.
type intParser struct {
	err error
}

func (p *intParser) parse(name, raw string) int {
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return n
}
