package models

import "fmt"

// Units is the measurement system requested from the weather provider
type Units string

const (
	Metric   Units = "metric"   // Celsius, m/s
	Imperial Units = "imperial" // Fahrenheit, mph
)

// ParseUnits parses a units string as accepted by the provider
func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case Metric, Imperial:
		return Units(s), nil
	}
	return "", fmt.Errorf("unknown units %q (want metric or imperial)", s)
}

// Toggle returns the other unit system
func (u Units) Toggle() Units {
	if u == Imperial {
		return Metric
	}
	return Imperial
}

// TemperatureSymbol returns the display suffix for temperatures
func (u Units) TemperatureSymbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedSymbol returns the display suffix for wind speed
func (u Units) SpeedSymbol() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// Label returns a human readable name, e.g. "Metric (°C)"
func (u Units) Label() string {
	if u == Imperial {
		return "Imperial (°F)"
	}
	return "Metric (°C)"
}
