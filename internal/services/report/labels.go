package report

import "fmt"

// Labels are the fixed captions of a report in one language.
type Labels struct {
	Status      string
	Temperature string
	FeelsLike   string
	WindSpeed   string
	WindDir     string
	Visibility  string
	Humidity    string

	Night   string
	Morning string
	Day     string
	Evening string
}

var RussianLabels = Labels{
	Status:      "Статус",
	Temperature: "Температура, С",
	FeelsLike:   "По ощущению, С",
	WindSpeed:   "Скорость ветра, м/с",
	WindDir:     "Направление ветра",
	Visibility:  "Видимость, км",
	Humidity:    "Влажность, %",

	Night:   "Ночь",
	Morning: "Утро",
	Day:     "День",
	Evening: "Вечер",
}

var EnglishLabels = Labels{
	Status:      "Status",
	Temperature: "Temperature, C",
	FeelsLike:   "Feels like, C",
	WindSpeed:   "Wind speed, m/s",
	WindDir:     "Wind direction",
	Visibility:  "Visibility, km",
	Humidity:    "Humidity, %",

	Night:   "Night",
	Morning: "Morning",
	Day:     "Day",
	Evening: "Evening",
}

func LabelsFor(lang string) (Labels, error) {
	switch lang {
	case "ru":
		return RussianLabels, nil
	case "en":
		return EnglishLabels, nil
	}
	return Labels{}, fmt.Errorf("no report labels for language %q", lang)
}
