package conversation

import (
	"fmt"

	"weather-bot/internal/models"
	"weather-bot/internal/services/report"
)

const StartCommand = "/start"

// Locale is the fixed set of prompts and button labels of one language.
type Locale struct {
	Lang string

	AskPlace      string
	PlaceNotFound string
	AskWhen       string
	ReportFailed  string
	ChangePlace   string

	// SlotLabels are the button captions, indexed by models.TimeSlot.
	SlotLabels [4]string

	Report report.Labels
}

var Russian = Locale{
	Lang:          "ru",
	AskPlace:      "Введите населенный пункт",
	PlaceNotFound: "Населенный пункт не найден, попробуйте заново",
	AskWhen:       "Когда?",
	ReportFailed:  "Не удалось построить прогноз, попробуйте еще раз",
	ChangePlace:   "Изменить населенный пункт",
	SlotLabels:    [4]string{"Сейчас", "Сегодня", "Завтра", "Послезавтра"},
	Report:        report.RussianLabels,
}

var English = Locale{
	Lang:          "en",
	AskPlace:      "Enter a place name",
	PlaceNotFound: "Place not found, please try again",
	AskWhen:       "When?",
	ReportFailed:  "Could not build the forecast, please try again",
	ChangePlace:   "Change place",
	SlotLabels:    [4]string{"Now", "Today", "Tomorrow", "Day after tomorrow"},
	Report:        report.EnglishLabels,
}

func LocaleFor(lang string) (Locale, error) {
	switch lang {
	case "ru":
		return Russian, nil
	case "en":
		return English, nil
	}
	return Locale{}, fmt.Errorf("unsupported locale %q", lang)
}

// Slot maps a button caption back to its time slot.
func (l Locale) Slot(label string) (models.TimeSlot, bool) {
	for _, slot := range models.TimeSlots {
		if l.SlotLabels[slot] == label {
			return slot, true
		}
	}
	return 0, false
}

// TimeChoices is the keyboard offered once a place is known.
func (l Locale) TimeChoices() [][]string {
	return [][]string{
		{l.SlotLabels[models.Now], l.SlotLabels[models.Today]},
		{l.SlotLabels[models.Tomorrow], l.SlotLabels[models.DayAfterTomorrow]},
		{l.ChangePlace},
	}
}
