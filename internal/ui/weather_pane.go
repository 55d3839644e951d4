package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/city-weather-terminal/internal/models"
)

// forecastDays is the number of daily cards shown under current conditions
const forecastDays = 6

// fetchStatus tracks one fetch of the weather view
type fetchStatus int

const (
	statusIdle fetchStatus = iota
	statusLoading
	statusLoaded
	statusFailed
)

// weatherView is the state behind the "/weather/:city" route
type weatherView struct {
	city  string
	units models.Units

	gen    int
	cancel context.CancelFunc

	current        *models.WeatherSnapshot
	forecast       *models.Forecast
	currentStatus  fetchStatus
	forecastStatus fetchStatus
}

// loading reports whether either fetch is still in flight
func (v *weatherView) loading() bool {
	return v.currentStatus == statusLoading || v.forecastStatus == statusLoading
}

// startWeather begins a new generation for the tab's city and units.
// Any in-flight requests of the previous generation are cancelled.
func (m Model) startWeather(t *tab, city string, units models.Units) tea.Cmd {
	v := &t.weather
	if v.cancel != nil {
		v.cancel()
	}

	v.gen++
	v.city = city
	v.units = units
	v.current = nil
	v.forecast = nil
	v.currentStatus = statusLoading
	v.forecastStatus = statusLoading

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	v.cancel = cancel

	m.logger.Debug("fetching weather", "tab", t.id, "gen", v.gen, "city", city, "units", units)

	return tea.Batch(
		fetchCurrentWeather(ctx, m.weatherClient, t.id, v.gen, city, units),
		fetchForecast(ctx, m.weatherClient, t.id, v.gen, city, units),
	)
}

// settle releases the generation's context once both fetches finished
func (v *weatherView) settle() {
	if !v.loading() && v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// handleWeather handles keyboard input on the weather view
func (m Model) handleWeather(t *tab, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		return m.navigate(t, CitiesRoute())
	case "u":
		return m, m.startWeather(t, t.weather.city, t.weather.units.Toggle())
	case "ctrl+f":
		m.toggleFavorite(t.weather.city)
		return m, nil
	case "ctrl+g":
		return m.navigate(t, FavoritesRoute())
	}
	return m, nil
}

// viewWeather renders the weather view. Until current conditions arrive
// only a loading placeholder is shown.
func (m Model) viewWeather(t *tab) string {
	v := &t.weather
	if v.current == nil {
		return fmt.Sprintf("%s Loading...", m.spinner.View())
	}
	w := v.current

	var sections []string

	icon := w.Condition.Icon()
	header := titleStyle.Render(fmt.Sprintf("%s  Weather for: %s", icon.Glyph, v.city))
	if m.favorites.IsFavorite(v.city) {
		header += " " + favoriteStyle.Render(favoriteGlyph)
	}
	sections = append(sections, header)
	sections = append(sections, mutedStyle.Render(fmt.Sprintf("Units: %s", w.Units.Label())), "")

	temp := w.Units.TemperatureSymbol()
	sections = append(sections,
		renderField("Temperature", fmt.Sprintf("%.1f %s", w.Temperature, temp)),
		renderField("Weather Description", w.Description),
		renderField("Humidity", fmt.Sprintf("%.0f%%", w.Humidity)),
		renderField("Wind Speed", fmt.Sprintf("%.2f %s", w.WindSpeed, w.Units.SpeedSymbol())),
		renderField("Atmospheric Pressure", fmt.Sprintf("%.0f hPa", w.Pressure)),
		renderField("High Temperature", fmt.Sprintf("%.1f %s", w.TempMax, temp)),
		renderField("Low Temperature", fmt.Sprintf("%.1f %s", w.TempMin, temp)),
	)

	// Location in place of an embedded map
	sections = append(sections,
		"",
		renderField("Location", fmt.Sprintf("%.4f, %.4f", w.Latitude, w.Longitude)),
		mutedStyle.Render(osmLink(w.Latitude, w.Longitude)),
	)

	sections = append(sections,
		sectionHeaderStyle.Render(fmt.Sprintf("%d-DAY FORECAST", forecastDays)),
		m.renderForecast(v),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderForecast renders one card per day, or its own placeholder
func (m Model) renderForecast(v *weatherView) string {
	if v.forecast == nil {
		return fmt.Sprintf("%s Loading forecast...", m.spinner.View())
	}

	days := v.forecast.Daily(forecastDays)
	if len(days) == 0 {
		return mutedStyle.Render("No forecast available")
	}

	cards := make([]string, len(days))
	for i, day := range days {
		cards[i] = cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			labelStyle.Render(formatDay(day)),
			valueStyle.Render(fmt.Sprintf("%.1f %s", day.Temperature, v.forecast.Units.TemperatureSymbol())),
			day.Description,
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderField(label, value string) string {
	return labelStyle.Render(label+": ") + valueStyle.Render(value)
}

// formatDay formats a forecast entry's date, e.g. "Wed, May 1"
func formatDay(entry models.ForecastEntry) string {
	date := entry.Date()
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Mon, Jan 2")
}

// osmLink returns an OpenStreetMap URL centred on the coordinates
func osmLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.4f&mlon=%.4f#map=10/%.4f/%.4f",
		lat, lon, lat, lon)
}
