package repositories

import (
	"encoding/json"
	"strconv"
)

func hourlyFixture(day, hour int) map[string]any {
	return map[string]any{
		"time":           strconv.Itoa(hour * 300),
		"tempC":          strconv.Itoa(10 + day + hour),
		"FeelsLikeC":     strconv.Itoa(9 + day + hour),
		"windspeedKmph":  strconv.Itoa(7 + hour),
		"winddir16Point": "NNW",
		"visibility":     "10",
		"humidity":       strconv.Itoa(60 + hour),
		"weatherDesc":    []map[string]string{{"value": "Partly cloudy"}},
		"lang_ru":        []map[string]string{{"value": "Переменная облачность"}},
	}
}

func wttrFixture(days int) []byte {
	weather := make([]map[string]any, 0, days)
	for d := 0; d < days; d++ {
		hourly := make([]map[string]any, 0, 8)
		for h := 0; h < 8; h++ {
			hourly = append(hourly, hourlyFixture(d, h))
		}
		weather = append(weather, map[string]any{
			"date":   "2025-07-2" + strconv.Itoa(5+d),
			"hourly": hourly,
		})
	}

	body, _ := json.Marshal(map[string]any{
		"current_condition": []map[string]any{{
			"temp_C":         "17",
			"FeelsLikeC":     "16",
			"windspeedKmph":  "10",
			"winddir16Point": "SW",
			"visibility":     "10",
			"humidity":       "72",
			"weatherDesc":    []map[string]string{{"value": "Sunny"}},
			"lang_ru":        []map[string]string{{"value": "Солнечно"}},
		}},
		"nearest_area": []map[string]any{{
			"areaName": []map[string]string{{"value": "London"}},
			"country":  []map[string]string{{"value": "United Kingdom"}},
		}},
		"weather": weather,
	})
	return body
}
