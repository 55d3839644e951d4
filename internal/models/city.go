package models

// City represents a single record from the city catalog.
// Cities carry no identifier beyond their name.
type City struct {
	Name     string `json:"name"`     // ASCII city name (e.g. "Mumbai")
	Country  string `json:"country"`  // English country name (e.g. "India")
	Timezone string `json:"timezone"` // IANA timezone (e.g. "Asia/Kolkata")
}

// CityRow is a city joined with its favorite status for rendering
type CityRow struct {
	City
	Favorite bool
}

// SortOrder controls the ordering of the city list
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// String returns a short label for the sort order
func (o SortOrder) String() string {
	if o == Descending {
		return "Z-A"
	}
	return "A-Z"
}

// Toggle returns the opposite sort order
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}
