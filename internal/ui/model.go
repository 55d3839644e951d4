package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/city-weather-terminal/internal/catalog"
	"github.com/ngmaloney/city-weather-terminal/internal/favorites"
	"github.com/ngmaloney/city-weather-terminal/internal/logging"
	"github.com/ngmaloney/city-weather-terminal/internal/models"
	"github.com/ngmaloney/city-weather-terminal/internal/openweather"
)

const defaultRequestTimeout = 30 * time.Second

// Options configures a Model
type Options struct {
	Catalog        catalog.Client
	Weather        openweather.WeatherClient
	Favorites      *favorites.Store
	Logger         *slog.Logger
	DefaultUnits   models.Units
	RequestTimeout time.Duration
	StartRoute     Route
}

// tab is one open route with the state of the view it renders
type tab struct {
	id        int
	route     Route
	cities    cityView
	weather   weatherView
	favorites list.Model
}

// cancelFetches cancels the tab's in-flight requests and invalidates
// their results
func (t *tab) cancelFetches() {
	if t.cities.cancel != nil {
		t.cities.cancel()
		t.cities.cancel = nil
	}
	t.cities.gen++

	if t.weather.cancel != nil {
		t.weather.cancel()
		t.weather.cancel = nil
	}
	t.weather.gen++
}

// Model represents the application's state
type Model struct {
	width  int
	height int

	// Tabs
	tabs      []*tab
	active    int
	nextTabID int

	// Dependencies
	catalogClient catalog.Client
	weatherClient openweather.WeatherClient
	favorites     *favorites.Store
	logger        *slog.Logger
	units         models.Units
	timeout       time.Duration

	spinner spinner.Model
}

// NewModel creates a new application model with one tab on opts.StartRoute
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		catalogClient: opts.Catalog,
		weatherClient: opts.Weather,
		favorites:     opts.Favorites,
		logger:        opts.Logger,
		units:         opts.DefaultUnits,
		timeout:       opts.RequestTimeout,
		spinner:       s,
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.units == "" {
		m.units = models.Metric
	}
	if m.timeout <= 0 {
		m.timeout = defaultRequestTimeout
	}

	m.tabs = []*tab{m.newTab(opts.StartRoute)}
	m.nextTabID = 1
	return m
}

func (m Model) newTab(r Route) *tab {
	return &tab{
		id:     m.nextTabID,
		route:  r,
		cities: newCityView(),
	}
}

// Init enters the start route
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.enter(m.activeTab()))
}

func (m Model) activeTab() *tab {
	return m.tabs[m.active]
}

func (m Model) tabByID(id int) *tab {
	for _, t := range m.tabs {
		if t.id == id {
			return t
		}
	}
	return nil
}

// enter (re)runs the fetches of the tab's route
func (m Model) enter(t *tab) tea.Cmd {
	t.cancelFetches()

	switch t.route.Kind {
	case RouteCities:
		return m.startCities(t)
	case RouteWeather:
		return m.startWeather(t, t.route.City, m.units)
	case RouteFavorites:
		t.favorites = createFavoritesList(m.favorites.List(), m.listWidth(), m.listHeight())
	}
	return nil
}

// resume re-runs the fetches of a tab being switched back to. The city
// list keeps its query, sort order and cursor; the weather view keeps the
// units it was showing.
func (m Model) resume(t *tab) tea.Cmd {
	switch t.route.Kind {
	case RouteCities:
		t.cancelFetches()
		return m.loadCities(t)
	case RouteWeather:
		units := m.units
		if t.weather.city == t.route.City && t.weather.units != "" {
			units = t.weather.units
		}
		t.cancelFetches()
		return m.startWeather(t, t.route.City, units)
	}
	return m.enter(t)
}

// startCities resets the city list and loads the catalog
func (m Model) startCities(t *tab) tea.Cmd {
	gen := t.cities.gen
	t.cities = newCityView()
	t.cities.gen = gen
	return m.loadCities(t)
}

// loadCities fetches the catalog into the tab's current city list. The
// placeholder is only shown while there is nothing to display yet.
func (m Model) loadCities(t *tab) tea.Cmd {
	v := &t.cities
	v.loading = v.list.Len() == 0
	v.table.SetHeight(m.tableHeight())

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	v.cancel = cancel

	return tea.Batch(
		fetchCities(ctx, m.catalogClient, t.id, v.gen),
		textinput.Blink,
	)
}

// navigate replaces the tab's route in place
func (m Model) navigate(t *tab, r Route) (tea.Model, tea.Cmd) {
	m.logger.Debug("navigate", "tab", t.id, "from", t.route.Path(), "to", r.Path())
	t.route = r
	return m, m.enter(t)
}

// openTab opens r in a new background tab. Its fetches run once it is
// switched to.
func (m Model) openTab(r Route) (tea.Model, tea.Cmd) {
	t := m.newTab(r)
	m.nextTabID++
	m.tabs = append(m.tabs, t)
	m.logger.Debug("opened tab", "tab", t.id, "route", r.Path())
	return m, nil
}

func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	if len(m.tabs) < 2 {
		return m, nil
	}
	m.active = (m.active + delta + len(m.tabs)) % len(m.tabs)
	return m, m.resume(m.activeTab())
}

// closeTab closes the active tab unless it is the last one
func (m Model) closeTab() (tea.Model, tea.Cmd) {
	if len(m.tabs) < 2 {
		return m, nil
	}

	m.activeTab().cancelFetches()

	tabs := make([]*tab, 0, len(m.tabs)-1)
	tabs = append(tabs, m.tabs[:m.active]...)
	tabs = append(tabs, m.tabs[m.active+1:]...)
	m.tabs = tabs
	if m.active >= len(m.tabs) {
		m.active = len(m.tabs) - 1
	}
	return m, m.resume(m.activeTab())
}

// toggleFavorite flips a city's membership and re-renders every view
func (m Model) toggleFavorite(name string) {
	favorite := m.favorites.Toggle(name)
	m.logger.Info("toggled favorite", "city", name, "favorite", favorite)
	m.refreshFavorites()
}

// refreshFavorites re-renders favorite membership in every tab
func (m Model) refreshFavorites() {
	names := m.favorites.List()
	for _, t := range m.tabs {
		t.cities.refreshRows(m.favorites.IsFavorite)
		if t.route.Kind == RouteFavorites {
			t.favorites.SetItems(favoriteItems(names))
		}
	}
}

func (m Model) tableHeight() int {
	return max(m.height-14, 5)
}

func (m Model) listWidth() int {
	return max(m.width-4, 20)
}

func (m Model) listHeight() int {
	return max(m.height-8, 5)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, t := range m.tabs {
			t.cities.table.SetHeight(m.tableHeight())
			if t.route.Kind == RouteFavorites {
				t.favorites.SetSize(m.listWidth(), m.listHeight())
			}
		}
		return m, nil

	case citiesLoadedMsg:
		m.handleCitiesLoaded(msg)
		return m, nil

	case currentWeatherMsg:
		m.handleCurrentWeather(msg)
		return m, nil

	case forecastMsg:
		m.handleForecast(msg)
		return m, nil

	case FavoritesChangedMsg:
		m.refreshFavorites()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Forward anything else (cursor blink etc.) to the active view
	t := m.activeTab()
	switch t.route.Kind {
	case RouteCities:
		t.cities.search, cmd = t.cities.search.Update(msg)
	case RouteFavorites:
		t.favorites, cmd = t.favorites.Update(msg)
	}
	return m, cmd
}

// handleKey handles global keys, then hands off to the active view
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.switchTab(1)
	case "shift+tab":
		return m.switchTab(-1)
	case "ctrl+w":
		return m.closeTab()
	}

	t := m.activeTab()
	switch t.route.Kind {
	case RouteCities:
		return m.handleCityList(t, msg)
	case RouteWeather:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m.handleWeather(t, msg)
	case RouteFavorites:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m.handleFavorites(t, msg)
	}
	return m, nil
}

func (m Model) handleCitiesLoaded(msg citiesLoadedMsg) {
	t := m.tabByID(msg.tabID)
	if t == nil || msg.gen != t.cities.gen {
		m.logger.Debug("dropping stale city list", "tab", msg.tabID, "gen", msg.gen)
		return
	}

	v := &t.cities
	v.loading = false
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}

	if msg.err != nil {
		m.logger.Error("failed to load cities", "error", msg.err)
		return
	}

	v.list.SetCities(msg.cities)
	v.refreshRows(m.favorites.IsFavorite)
	m.logger.Debug("loaded cities", "tab", t.id, "count", len(msg.cities))
}

func (m Model) handleCurrentWeather(msg currentWeatherMsg) {
	t := m.tabByID(msg.tabID)
	if t == nil || msg.gen != t.weather.gen {
		m.logger.Debug("dropping stale weather", "tab", msg.tabID, "gen", msg.gen)
		return
	}

	v := &t.weather
	if msg.err != nil {
		v.currentStatus = statusFailed
		m.logger.Error("failed to fetch current weather", "city", v.city, "units", v.units, "error", msg.err)
	} else {
		v.current = msg.snapshot
		v.currentStatus = statusLoaded
	}
	v.settle()
}

func (m Model) handleForecast(msg forecastMsg) {
	t := m.tabByID(msg.tabID)
	if t == nil || msg.gen != t.weather.gen {
		m.logger.Debug("dropping stale forecast", "tab", msg.tabID, "gen", msg.gen)
		return
	}

	v := &t.weather
	if msg.err != nil {
		v.forecastStatus = statusFailed
		m.logger.Error("failed to fetch forecast", "city", v.city, "units", v.units, "error", msg.err)
	} else {
		v.forecast = msg.forecast
		v.forecastStatus = statusLoaded
	}
	v.settle()
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	t := m.activeTab()

	var content, help string
	switch t.route.Kind {
	case RouteCities:
		content = m.viewCityList(t)
		help = "↑/↓: Navigate • Ctrl+Home/End: Jump • Enter: Weather • Ctrl+O: New tab • Ctrl+F: Favorite • Ctrl+S: Sort • Ctrl+G: Favorites • Ctrl+C: Quit"
	case RouteWeather:
		content = m.viewWeather(t)
		help = "U: Switch units • Ctrl+F: Favorite • B/Esc: Back • Ctrl+G: Favorites • Q: Quit"
	case RouteFavorites:
		content = m.viewFavorites(t)
		help = "↑/↓: Navigate • Enter: Weather • Ctrl+O: New tab • X: Remove • B/Esc: Back • Q: Quit"
	}

	if len(m.tabs) > 1 {
		help += " • Tab: Next tab • Ctrl+W: Close tab"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabBar(),
		"",
		content,
		helpStyle.Render(help),
	)
}

// renderTabBar renders one label per open tab
func (m Model) renderTabBar() string {
	labels := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.route.Title())
		if i == m.active {
			labels[i] = activeTabStyle.Render(label)
		} else {
			labels[i] = tabStyle.Render(label)
		}
	}
	return strings.Join(labels, " ")
}
