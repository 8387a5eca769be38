package models

import "math"

const kmphPerMS = 3.6

// Condition is a single weather observation: either the current conditions
// or one hourly slot of a day forecast.
type Condition struct {
	Status         string `json:"status" example:"Переменная облачность"`
	TempC          int    `json:"temp_c" example:"17"`
	FeelsLikeC     int    `json:"feels_like_c" example:"16"`
	WindSpeedKmph  int    `json:"wind_speed_kmph" example:"10"`
	WindDir16Point string `json:"wind_dir_16_point" example:"NNW"`
	VisibilityKm   int    `json:"visibility_km" example:"10"`
	HumidityPct    int    `json:"humidity_pct" example:"72"`
}

// WindSpeedMS converts the wind speed to meters per second, rounding half to even.
func (c Condition) WindSpeedMS() int {
	return int(math.RoundToEven(float64(c.WindSpeedKmph) / kmphPerMS))
}
