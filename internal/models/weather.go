package models

import "time"

// WeatherSnapshot is the current weather for one city at one instant
type WeatherSnapshot struct {
	City        string
	Temperature float64
	Description string // e.g. "light rain"
	Humidity    float64 // percent
	WindSpeed   float64 // m/s (metric) or mph (imperial)
	Pressure    float64 // hPa
	TempMax     float64
	TempMin     float64
	Condition   Condition
	Latitude    float64
	Longitude   float64
	Units       Units // Units the values were fetched in
	FetchedAt   time.Time
}

// ForecastEntry is a single 3-hour forecast slot
type ForecastEntry struct {
	Time        time.Time
	DateText    string // Provider's "dt_txt", e.g. "2024-05-01 03:00:00"
	Description string
	Temperature float64
}

// Date returns the calendar date of the entry as YYYY-MM-DD
func (e ForecastEntry) Date() string {
	if len(e.DateText) >= 10 {
		return e.DateText[:10]
	}
	if !e.Time.IsZero() {
		return e.Time.UTC().Format("2006-01-02")
	}
	return ""
}

// Forecast is the provider's multi-day forecast for a city
type Forecast struct {
	City      string
	Units     Units
	Entries   []ForecastEntry // Ordered as returned by the provider
	FetchedAt time.Time
}

// Daily reduces the forecast to one entry per calendar date. The first entry
// seen for each date wins, and at most maxDays dates are returned in the
// order they first appear. A non-positive maxDays means no cap.
func (f *Forecast) Daily(maxDays int) []ForecastEntry {
	if f == nil {
		return nil
	}

	seen := make(map[string]bool)
	var days []ForecastEntry
	for _, entry := range f.Entries {
		date := entry.Date()
		if seen[date] {
			continue
		}
		seen[date] = true
		days = append(days, entry)
		if maxDays > 0 && len(days) == maxDays {
			break
		}
	}
	return days
}
