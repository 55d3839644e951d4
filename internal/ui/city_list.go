package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/city-weather-terminal/internal/cities"
	"github.com/ngmaloney/city-weather-terminal/internal/models"
)

const (
	favoriteGlyph    = "♥"
	notFavoriteGlyph = "♡"
)

// cityView is the state behind the "/" route
type cityView struct {
	list    *cities.List
	search  textinput.Model
	table   table.Model
	loading bool
	gen     int
	cancel  context.CancelFunc
}

func newCityView() cityView {
	ti := textinput.New()
	ti.Placeholder = "Search for a city..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()

	return cityView{
		list:   cities.NewList(),
		search: ti,
		table:  createCityTable(nil, 20),
	}
}

// createCityTable creates a table.Model for city rows
func createCityTable(rows []models.CityRow, height int) table.Model {
	columns := []table.Column{
		{Title: favoriteGlyph, Width: 2},
		{Title: "City Name", Width: 24},
		{Title: "Country", Width: 16},
		{Title: "Time Zone", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(cityTableRows(rows)),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorPrimary).
		Bold(false)
	t.SetStyles(s)

	return t
}

func cityTableRows(rows []models.CityRow) []table.Row {
	out := make([]table.Row, len(rows))
	for i, row := range rows {
		glyph := notFavoriteGlyph
		if row.Favorite {
			glyph = favoriteGlyph
		}
		out[i] = table.Row{glyph, row.Name, row.Country, row.Timezone}
	}
	return out
}

// refreshRows rebuilds the table from the list and the favorite set
func (v *cityView) refreshRows(isFavorite func(string) bool) {
	v.table.SetRows(cityTableRows(v.list.Rows(isFavorite)))
	if v.table.Cursor() >= len(v.table.Rows()) {
		v.table.GotoBottom()
	}
}

// selected returns the city under the cursor
func (v *cityView) selected() (models.City, bool) {
	visible := v.list.Visible()
	cursor := v.table.Cursor()
	if cursor < 0 || cursor >= len(visible) {
		return models.City{}, false
	}
	return visible[cursor], true
}

// handleCityList handles keyboard input on the city list
func (m Model) handleCityList(t *tab, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &t.cities

	switch msg.String() {
	case "enter":
		if city, ok := v.selected(); ok {
			return m.navigate(t, WeatherRoute(city.Name))
		}
		return m, nil

	case "ctrl+o":
		if city, ok := v.selected(); ok {
			return m.openTab(WeatherRoute(city.Name))
		}
		return m, nil

	case "ctrl+f":
		if city, ok := v.selected(); ok {
			m.toggleFavorite(city.Name)
		}
		return m, nil

	case "ctrl+s":
		v.list.ToggleSortOrder()
		v.refreshRows(m.favorites.IsFavorite)
		return m, nil

	case "ctrl+g":
		return m.navigate(t, FavoritesRoute())

	case "up":
		v.table.MoveUp(1)
		return m, nil
	case "down":
		v.table.MoveDown(1)
		return m, nil
	case "pgup":
		v.table.MoveUp(v.table.Height())
		return m, nil
	case "pgdown":
		v.table.MoveDown(v.table.Height())
		return m, nil
	case "ctrl+home":
		v.table.GotoTop()
		return m, nil
	case "ctrl+end":
		v.table.GotoBottom()
		return m, nil
	}

	// Everything else, home and end included, edits the search box
	var cmd tea.Cmd
	before := v.search.Value()
	v.search, cmd = v.search.Update(msg)
	if v.search.Value() != before {
		v.list.SetQuery(v.search.Value())
		v.table.GotoTop()
		v.refreshRows(m.favorites.IsFavorite)
	}
	return m, cmd
}

// viewCityList renders the city list
func (m Model) viewCityList(t *tab) string {
	v := &t.cities

	title := titleStyle.Render("LIST OF CITIES")

	sortLabel := mutedStyle.Render(fmt.Sprintf("Sort: %s", v.list.SortOrder()))
	searchRow := lipgloss.JoinHorizontal(lipgloss.Center,
		searchBoxStyle.Render(v.search.View()),
		"  ",
		sortLabel,
	)

	var body string
	switch {
	case v.loading:
		body = fmt.Sprintf("%s %s", m.spinner.View(), mutedStyle.Render("Loading cities..."))
	case len(v.table.Rows()) == 0:
		body = mutedStyle.Render("No cities found for the search query.")
	default:
		count := mutedStyle.Render(fmt.Sprintf("%d of %d cities", len(v.table.Rows()), v.list.Len()))
		body = lipgloss.JoinVertical(lipgloss.Left, v.table.View(), count)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		searchRow,
		"",
		body,
	)
}
