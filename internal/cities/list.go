// Package cities holds the state behind the city list view: the loaded
// catalog, the search query and the sort order. It performs no I/O.
package cities

import (
	"slices"
	"strings"

	"github.com/ngmaloney/city-weather-terminal/internal/models"
)

// List is the city list controller
type List struct {
	cities []models.City
	query  string
	order  models.SortOrder
}

// NewList creates an empty list sorted ascending
func NewList() *List {
	return &List{order: models.Ascending}
}

// SetCities replaces the loaded cities, keeping catalog order
func (l *List) SetCities(cities []models.City) {
	l.cities = slices.Clone(cities)
}

// Len returns the number of loaded cities, ignoring the query
func (l *List) Len() int {
	return len(l.cities)
}

// SetQuery sets the search query
func (l *List) SetQuery(q string) {
	l.query = q
}

// Query returns the current search query
func (l *List) Query() string {
	return l.query
}

// SetSortOrder sets the sort order
func (l *List) SetSortOrder(o models.SortOrder) {
	l.order = o
}

// ToggleSortOrder flips the sort order and returns the new one
func (l *List) ToggleSortOrder() models.SortOrder {
	l.order = l.order.Toggle()
	return l.order
}

// SortOrder returns the current sort order
func (l *List) SortOrder() models.SortOrder {
	return l.order
}

// Visible returns the filtered, sorted cities
func (l *List) Visible() []models.City {
	return Sort(Filter(l.cities, l.query), l.order)
}

// Rows joins the visible cities with their favorite status
func (l *List) Rows(isFavorite func(name string) bool) []models.CityRow {
	visible := l.Visible()
	rows := make([]models.CityRow, len(visible))
	for i, city := range visible {
		rows[i] = models.CityRow{City: city}
		if isFavorite != nil {
			rows[i].Favorite = isFavorite(city.Name)
		}
	}
	return rows
}

// Filter returns the cities whose name contains q, ignoring case.
// A blank query returns every city; otherwise q is matched as typed,
// surrounding spaces included.
func Filter(cities []models.City, q string) []models.City {
	if strings.TrimSpace(q) == "" {
		return slices.Clone(cities)
	}
	q = strings.ToLower(q)

	var matches []models.City
	for _, city := range cities {
		if strings.Contains(strings.ToLower(city.Name), q) {
			matches = append(matches, city)
		}
	}
	return matches
}

// Sort returns a copy of cities ordered by name, ignoring case.
// Cities with equal names keep their relative order.
func Sort(cities []models.City, order models.SortOrder) []models.City {
	sorted := slices.Clone(cities)
	slices.SortStableFunc(sorted, func(a, b models.City) int {
		cmp := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		if order == models.Descending {
			return -cmp
		}
		return cmp
	})
	return sorted
}
