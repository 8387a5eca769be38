package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-bot/internal/models"
)

func TestLocale_Slot(t *testing.T) {
	slot, ok := Russian.Slot("Послезавтра")
	require.True(t, ok)
	assert.Equal(t, models.DayAfterTomorrow, slot)

	slot, ok = English.Slot("Now")
	require.True(t, ok)
	assert.Equal(t, models.Now, slot)

	_, ok = Russian.Slot("Now")
	assert.False(t, ok)
	_, ok = Russian.Slot(Russian.ChangePlace)
	assert.False(t, ok)
}

func TestLocale_TimeChoicesCoverEverySlot(t *testing.T) {
	for _, locale := range []Locale{Russian, English} {
		var labels []string
		for _, row := range locale.TimeChoices() {
			labels = append(labels, row...)
		}
		assert.Len(t, labels, len(models.TimeSlots)+1)
		assert.Contains(t, labels, locale.ChangePlace)
		for _, slot := range models.TimeSlots {
			assert.Contains(t, labels, locale.SlotLabels[slot])
		}
	}
}

func TestLocaleFor(t *testing.T) {
	l, err := LocaleFor("ru")
	require.NoError(t, err)
	assert.Equal(t, "Когда?", l.AskWhen)

	l, err = LocaleFor("en")
	require.NoError(t, err)
	assert.Equal(t, "When?", l.AskWhen)

	_, err = LocaleFor("de")
	assert.Error(t, err)
}

func TestIsStartCommand(t *testing.T) {
	for text, want := range map[string]bool{
		"/start":             true,
		"/start@weather_bot": true,
		"/start deep-link":   true,
		"/starting":          false,
		"start":              false,
		"":                   false,
	} {
		assert.Equal(t, want, isStartCommand(text), text)
	}
}
