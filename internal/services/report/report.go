package report

import (
	"fmt"
	"strconv"
	"strings"

	"weather-bot/internal/models"
)

// Formatter renders forecast records as text tables. It holds no mutable
// state, so one instance serves every conversation.
type Formatter struct {
	labels Labels
}

func NewFormatter(labels Labels) *Formatter {
	return &Formatter{labels: labels}
}

// Format renders the table for the requested time slot. The output is a
// pure function of record and slot.
func (f *Formatter) Format(record *models.ForecastRecord, slot models.TimeSlot) (string, error) {
	if record == nil {
		return "", fmt.Errorf("no forecast to format")
	}

	if slot == models.Now {
		return f.CurrentTable(record.Current), nil
	}

	day, err := record.Day(slot.DayIndex())
	if err != nil {
		return "", err
	}
	return f.DayTable(day)
}

// CurrentTable renders one labeled row per measurement.
func (f *Formatter) CurrentTable(c models.Condition) string {
	rows := f.measurements(c)
	return Render(rows, ColumnWidths(rows))
}

// DayTable renders one row per day part with all measurements in the
// second column, separated by dash rules sized to the columns.
func (f *Formatter) DayTable(day models.DayForecast) (string, error) {
	rows := make([][]string, 0, len(models.DayParts))
	for _, part := range models.DayParts {
		c, err := day.Part(part)
		if err != nil {
			return "", err
		}
		rows = append(rows, []string{f.partLabel(part), f.cell(c)})
	}

	separator := Separator(SegmentWidths(ColumnWidths(rows)))

	withSeparators := make([][]string, 0, 2*len(rows)-1)
	for i, row := range rows {
		if i > 0 {
			withSeparators = append(withSeparators, separator)
		}
		withSeparators = append(withSeparators, row)
	}

	return Render(withSeparators, ColumnWidths(withSeparators)), nil
}

func (f *Formatter) measurements(c models.Condition) [][]string {
	return [][]string{
		{f.labels.Status, c.Status},
		{f.labels.Temperature, strconv.Itoa(c.TempC)},
		{f.labels.FeelsLike, strconv.Itoa(c.FeelsLikeC)},
		{f.labels.WindSpeed, strconv.Itoa(c.WindSpeedMS())},
		{f.labels.WindDir, c.WindDir16Point},
		{f.labels.Visibility, strconv.Itoa(c.VisibilityKm)},
		{f.labels.Humidity, strconv.Itoa(c.HumidityPct)},
	}
}

// cell stacks the measurements as "label: value" lines.
func (f *Formatter) cell(c models.Condition) string {
	rows := f.measurements(c)
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = row[0] + ": " + row[1]
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) partLabel(p models.DayPart) string {
	switch p {
	case models.Night:
		return f.labels.Night
	case models.Morning:
		return f.labels.Morning
	case models.Day:
		return f.labels.Day
	default:
		return f.labels.Evening
	}
}
