// Package openweather fetches current conditions and forecasts from the
// OpenWeatherMap 2.5 API.
package openweather

import (
	"context"
	"errors"

	"github.com/ngmaloney/city-weather-terminal/internal/models"
)

var (
	// ErrUnexpectedStatus is returned when the provider answers with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedResponse is returned when the body cannot be decoded
	ErrMalformedResponse = errors.New("malformed response")
)

// WeatherClient defines the interface for fetching weather by city name
type WeatherClient interface {
	// GetCurrent retrieves current conditions in the requested units
	GetCurrent(ctx context.Context, city string, units models.Units) (*models.WeatherSnapshot, error)

	// GetForecast retrieves the 3-hourly forecast in the requested units
	GetForecast(ctx context.Context, city string, units models.Units) (*models.Forecast, error)
}
