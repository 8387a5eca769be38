package models

import (
	"fmt"
	"time"
)

// ForecastDays is the number of days every forecast record carries:
// today, tomorrow and the day after tomorrow.
const ForecastDays = 3

// DayPart is one of the four sub-divisions of a day forecast.
type DayPart int

const (
	Night DayPart = iota
	Morning
	Day
	Evening
)

// DayParts lists the day parts in report order.
var DayParts = []DayPart{Night, Morning, Day, Evening}

// SlotIndex maps the day part to its index in the 3-hourly slot sequence.
func (p DayPart) SlotIndex() int {
	return int(p) * 2
}

func (p DayPart) String() string {
	switch p {
	case Night:
		return "night"
	case Morning:
		return "morning"
	case Day:
		return "day"
	case Evening:
		return "evening"
	}
	return fmt.Sprintf("DayPart(%d)", int(p))
}

type DayForecast struct {
	Date  string      `json:"date" example:"2025-07-25"`
	Slots []Condition `json:"slots"`
}

// Part returns the condition for the given day part.
func (d DayForecast) Part(p DayPart) (Condition, error) {
	i := p.SlotIndex()
	if i < 0 || i >= len(d.Slots) {
		return Condition{}, fmt.Errorf("day %s has %d slots, no slot for %s", d.Date, len(d.Slots), p)
	}
	return d.Slots[i], nil
}

// ForecastRecord is the structured weather data for one location.
type ForecastRecord struct {
	Location  string        `json:"location" example:"London"`
	Current   Condition     `json:"current"`
	Days      []DayForecast `json:"days"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Day returns the i-th day of the forecast (0 is today).
func (f *ForecastRecord) Day(i int) (DayForecast, error) {
	if i < 0 || i >= len(f.Days) {
		return DayForecast{}, fmt.Errorf("forecast for %q has %d days, no day %d", f.Location, len(f.Days), i)
	}
	return f.Days[i], nil
}

// Validate checks the record carries exactly ForecastDays days with every day part present.
func (f *ForecastRecord) Validate() error {
	if len(f.Days) != ForecastDays {
		return fmt.Errorf("expected %d forecast days, got %d", ForecastDays, len(f.Days))
	}
	for _, d := range f.Days {
		for _, p := range DayParts {
			if _, err := d.Part(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *ForecastRecord) RequestParams() string {
	return fmt.Sprintf("location: %s days: %d", f.Location, len(f.Days))
}
