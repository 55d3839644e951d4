package cities

import (
	"slices"
	"strings"
	"testing"

	"github.com/ngmaloney/city-weather-terminal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCities() []models.City {
	return []models.City{
		{Name: "Mumbai", Country: "India", Timezone: "Asia/Kolkata"},
		{Name: "Agra", Country: "India", Timezone: "Asia/Kolkata"},
		{Name: "Chennai", Country: "India", Timezone: "Asia/Kolkata"},
		{Name: "New Delhi", Country: "India", Timezone: "Asia/Kolkata"},
		{Name: "Bhopal", Country: "India", Timezone: "Asia/Kolkata"},
	}
}

func names(cities []models.City) []string {
	out := make([]string, len(cities))
	for i, c := range cities {
		out[i] = c.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps everything", "", []string{"Mumbai", "Agra", "Chennai", "New Delhi", "Bhopal"}},
		{"whitespace query keeps everything", "   ", []string{"Mumbai", "Agra", "Chennai", "New Delhi", "Bhopal"}},
		{"case insensitive", "MUM", []string{"Mumbai"}},
		{"substring in the middle", "del", []string{"New Delhi"}},
		{"several matches keep order", "a", []string{"Mumbai", "Agra", "Chennai", "Bhopal"}},
		{"no match", "zzz", nil},
		{"leading space is part of the query", " delhi", []string{"New Delhi"}},
		{"trailing space is part of the query", "new ", []string{"New Delhi"}},
		{"trailing space after a whole name", "mumbai ", nil},
		{"leading space before a whole name", " agra", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Filter(sampleCities(), tt.query))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_IsSubsequence(t *testing.T) {
	all := sampleCities()
	for _, q := range []string{"a", "i", "ne", "bho", "x"} {
		filtered := Filter(all, q)
		next := 0
		for _, city := range filtered {
			idx := slices.Index(all[next:], city)
			require.GreaterOrEqual(t, idx, 0, "query %q: %s out of order", q, city.Name)
			next += idx + 1
		}
	}
}

func TestFilter_ResultsContainQuery(t *testing.T) {
	all := append(sampleCities(),
		models.City{Name: "Delhi"},
		models.City{Name: "Newcastle"},
	)
	for _, q := range []string{" delhi", "new ", "DEL", " ", "a b"} {
		filtered := Filter(all, q)
		if strings.TrimSpace(q) == "" {
			assert.Len(t, filtered, len(all), "blank query %q", q)
			continue
		}
		for _, city := range filtered {
			assert.Contains(t, strings.ToLower(city.Name), strings.ToLower(q), "query %q", q)
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	all := sampleCities()
	_ = Filter(all, "a")
	assert.Equal(t, sampleCities(), all)
}

func TestSort(t *testing.T) {
	asc := names(Sort(sampleCities(), models.Ascending))
	assert.Equal(t, []string{"Agra", "Bhopal", "Chennai", "Mumbai", "New Delhi"}, asc)

	desc := names(Sort(sampleCities(), models.Descending))
	reversed := slices.Clone(asc)
	slices.Reverse(reversed)
	assert.Equal(t, reversed, desc)
}

func TestSort_CaseInsensitiveAndStable(t *testing.T) {
	cities := []models.City{
		{Name: "delhi", Timezone: "first"},
		{Name: "Agra"},
		{Name: "Delhi", Timezone: "second"},
	}

	sorted := Sort(cities, models.Ascending)
	require.Len(t, sorted, 3)
	assert.Equal(t, "Agra", sorted[0].Name)
	assert.Equal(t, "first", sorted[1].Timezone)
	assert.Equal(t, "second", sorted[2].Timezone)
}

func TestSort_KeepsRecordsTogether(t *testing.T) {
	cities := []models.City{
		{Name: "Zurich", Country: "Switzerland", Timezone: "Europe/Zurich"},
		{Name: "Agra", Country: "India", Timezone: "Asia/Kolkata"},
	}

	sorted := Sort(cities, models.Ascending)
	assert.Equal(t, models.City{Name: "Agra", Country: "India", Timezone: "Asia/Kolkata"}, sorted[0])
	assert.Equal(t, models.City{Name: "Zurich", Country: "Switzerland", Timezone: "Europe/Zurich"}, sorted[1])
}

func TestList_SearchSortAndRows(t *testing.T) {
	list := NewList()
	list.SetCities(sampleCities())
	assert.Equal(t, 5, list.Len())
	assert.Equal(t, models.Ascending, list.SortOrder())

	list.SetQuery("mum")
	assert.Equal(t, "mum", list.Query())

	favorites := map[string]bool{"Mumbai": true}
	rows := list.Rows(func(name string) bool { return favorites[name] })
	require.Len(t, rows, 1)
	assert.Equal(t, models.CityRow{
		City:     models.City{Name: "Mumbai", Country: "India", Timezone: "Asia/Kolkata"},
		Favorite: true,
	}, rows[0])

	list.SetQuery("")
	assert.Equal(t, models.Descending, list.ToggleSortOrder())
	assert.Equal(t, []string{"New Delhi", "Mumbai", "Chennai", "Bhopal", "Agra"}, names(list.Visible()))

	list.SetSortOrder(models.Ascending)
	assert.Equal(t, "Agra", list.Visible()[0].Name)
}

func TestList_RowsWithoutLookup(t *testing.T) {
	list := NewList()
	list.SetCities(sampleCities())

	for _, row := range list.Rows(nil) {
		assert.False(t, row.Favorite)
	}
}

func TestList_SetCitiesCopies(t *testing.T) {
	input := sampleCities()
	list := NewList()
	list.SetCities(input)

	input[0].Name = "Changed"
	assert.Equal(t, "Agra", list.Visible()[0].Name)
	assert.Contains(t, names(list.Visible()), "Mumbai")
}
