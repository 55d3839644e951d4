package models

// Condition is the coarse weather category reported by the provider
// (weather[0].main). Only the categories that select a distinct icon are
// modelled; everything else is ConditionUnknown.
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionRain         Condition = "Rain"
	ConditionClouds       Condition = "Clouds"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionUnknown      Condition = "Unknown"
)

// Icon identifies the artwork shown for a condition
type Icon struct {
	ID    string
	Glyph string
}

var conditionIcons = map[Condition]Icon{
	ConditionClear:        {ID: "sunny", Glyph: "☀"},
	ConditionRain:         {ID: "rainy", Glyph: "🌧"},
	ConditionClouds:       {ID: "cloudy", Glyph: "☁"},
	ConditionThunderstorm: {ID: "stormy", Glyph: "⛈"},
	ConditionUnknown:      {ID: "default", Glyph: "🌡"},
}

// ParseCondition maps a provider category to a Condition by exact match
func ParseCondition(main string) Condition {
	c := Condition(main)
	if _, ok := conditionIcons[c]; ok {
		return c
	}
	return ConditionUnknown
}

// Icon returns the icon for the condition
func (c Condition) Icon() Icon {
	if icon, ok := conditionIcons[c]; ok {
		return icon
	}
	return conditionIcons[ConditionUnknown]
}
