package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/city-weather-terminal/internal/catalog"
	"github.com/ngmaloney/city-weather-terminal/internal/config"
	"github.com/ngmaloney/city-weather-terminal/internal/logging"
	"github.com/ngmaloney/city-weather-terminal/internal/models"
	"github.com/ngmaloney/city-weather-terminal/internal/openweather"
	"github.com/ngmaloney/city-weather-terminal/internal/telemetry"
	"github.com/ngmaloney/city-weather-terminal/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configPath string
	startRoute string
)

var rootCmd = &cobra.Command{
	Use:   "city-weather",
	Short: "Browse cities and their weather in the terminal",
	Long: `city-weather lists cities from the OpenDataSoft geonames catalog,
lets you search, sort and favorite them, and shows current weather and a
short forecast from OpenWeatherMap.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&startRoute, "route", "/", `start route, e.g. "/favorite" or "/weather/Mumbai"`)
}

// app holds the resources shared by every subcommand
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func() error
}

// setup loads configuration and opens the log file
func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := logging.OpenFile(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		closers: []func() error{logFile.Close},
	}, nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("error during shutdown", "error", err)
		}
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	route, err := ui.ParseRoute(startRoute)
	if err != nil {
		return err
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.OpenWeatherAPIKey == "" {
		a.logger.Warn("OPENWEATHER_API_KEY is not set; weather requests will fail")
	}

	shutdown, err := telemetry.Setup(a.cfg.ZipkinURL)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdown(ctx)
	})

	store, err := a.openFavorites()
	if err != nil {
		return err
	}

	units, err := models.ParseUnits(a.cfg.DefaultUnits)
	if err != nil {
		return err
	}

	model := ui.NewModel(ui.Options{
		Catalog:        catalog.NewClient(a.cfg.CatalogBaseURL, catalogQuery(a.cfg), a.logger),
		Weather:        openweather.NewClient(a.cfg.WeatherBaseURL, a.cfg.OpenWeatherAPIKey, a.logger),
		Favorites:      store,
		Logger:         a.logger,
		DefaultUnits:   units,
		RequestTimeout: a.cfg.RequestTimeout,
		StartRoute:     route,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	unsubscribe := store.Subscribe(func(names []string) {
		go p.Send(ui.FavoritesChangedMsg{Names: names})
	})
	defer unsubscribe()

	a.logger.Info("starting", "route", route.Path(), "units", units, "favorites_backend", a.cfg.FavoritesBackend)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// catalogQuery converts configured refinements into a catalog query
func catalogQuery(cfg *config.Config) catalog.Query {
	q := catalog.Query{Limit: cfg.CatalogLimit}
	for _, r := range cfg.CatalogRefine {
		q.Refine = append(q.Refine, catalog.Refinement{Field: r.Field, Value: r.Value})
	}
	return q
}
