package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// favoriteItem wraps a city name for use in a list
type favoriteItem struct {
	name string
}

// FilterValue implements list.Item
func (f favoriteItem) FilterValue() string {
	return f.name
}

// Title implements list.DefaultItem
func (f favoriteItem) Title() string {
	return f.name
}

// Description implements list.DefaultItem
func (f favoriteItem) Description() string {
	return favoriteGlyph + " favorite"
}

// createFavoritesList creates a list.Model from favorite names
func createFavoritesList(names []string, width, height int) list.Model {
	l := list.New(favoriteItems(names), list.NewDefaultDelegate(), width, height)
	l.Title = "Favorite Locations"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return l
}

func favoriteItems(names []string) []list.Item {
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = favoriteItem{name: name}
	}
	return items
}

// selectedFavorite returns the name under the cursor
func selectedFavorite(l list.Model) (string, bool) {
	item, ok := l.SelectedItem().(favoriteItem)
	if !ok {
		return "", false
	}
	return item.name, true
}

// handleFavorites handles keyboard input on the favorites list
func (m Model) handleFavorites(t *tab, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		return m.navigate(t, CitiesRoute())
	case "enter":
		if name, ok := selectedFavorite(t.favorites); ok {
			return m.navigate(t, WeatherRoute(name))
		}
		return m, nil
	case "ctrl+o":
		if name, ok := selectedFavorite(t.favorites); ok {
			return m.openTab(WeatherRoute(name))
		}
		return m, nil
	case "ctrl+f", "delete", "x":
		if name, ok := selectedFavorite(t.favorites); ok {
			m.toggleFavorite(name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	t.favorites, cmd = t.favorites.Update(msg)
	return m, cmd
}

// viewFavorites renders the favorites list
func (m Model) viewFavorites(t *tab) string {
	if len(t.favorites.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Favorite Locations"),
			"",
			mutedStyle.Render("No favorite locations yet. Press Ctrl+F on a city to add one."),
		)
	}
	return t.favorites.View()
}
