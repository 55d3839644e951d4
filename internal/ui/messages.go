package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/city-weather-terminal/internal/catalog"
	"github.com/ngmaloney/city-weather-terminal/internal/models"
	"github.com/ngmaloney/city-weather-terminal/internal/openweather"
)

// Message types for async operations. Every fetch result carries the id of
// the tab that asked for it and the generation it was issued under; results
// from an older generation are dropped on arrival.

// citiesLoadedMsg is sent when the city catalog has been fetched
type citiesLoadedMsg struct {
	tabID  int
	gen    int
	cities []models.City
	err    error
}

// currentWeatherMsg is sent when current conditions have been fetched
type currentWeatherMsg struct {
	tabID    int
	gen      int
	snapshot *models.WeatherSnapshot
	err      error
}

// forecastMsg is sent when the forecast has been fetched
type forecastMsg struct {
	tabID    int
	gen      int
	forecast *models.Forecast
	err      error
}

// FavoritesChangedMsg tells the program the favorite set changed.
// Send it from a favorites.Store subscription.
type FavoritesChangedMsg struct {
	Names []string
}

// fetchCities loads the city catalog in the background
func fetchCities(ctx context.Context, client catalog.Client, tabID, gen int) tea.Cmd {
	return func() tea.Msg {
		cities, err := client.FetchCities(ctx)
		return citiesLoadedMsg{tabID: tabID, gen: gen, cities: cities, err: err}
	}
}

// fetchCurrentWeather fetches current conditions for a city
func fetchCurrentWeather(ctx context.Context, client openweather.WeatherClient, tabID, gen int, city string, units models.Units) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := client.GetCurrent(ctx, city, units)
		return currentWeatherMsg{tabID: tabID, gen: gen, snapshot: snapshot, err: err}
	}
}

// fetchForecast fetches the forecast for a city
func fetchForecast(ctx context.Context, client openweather.WeatherClient, tabID, gen int, city string, units models.Units) tea.Cmd {
	return func() tea.Msg {
		forecast, err := client.GetForecast(ctx, city, units)
		return forecastMsg{tabID: tabID, gen: gen, forecast: forecast, err: err}
	}
}
