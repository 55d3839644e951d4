package main

import (
	"fmt"

	"github.com/ngmaloney/city-weather-terminal/internal/database"
	"github.com/ngmaloney/city-weather-terminal/internal/favorites"
	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Inspect or change favorite cities",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print favorite cities in the order they were added",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		store, err := a.openFavorites()
		if err != nil {
			return err
		}

		names := store.List()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No favorite locations.")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <city>",
	Short: "Add a city to favorites, or remove it if already present",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		store, err := a.openFavorites()
		if err != nil {
			return err
		}

		if store.Toggle(args[0]) {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s to favorites\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s from favorites\n", args[0])
		}
		return nil
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd, favoritesToggleCmd)
	rootCmd.AddCommand(favoritesCmd)
}

// openFavorites opens the configured backend and loads the store from it
func (a *app) openFavorites() (*favorites.Store, error) {
	var backend favorites.Backend

	switch a.cfg.FavoritesBackend {
	case "bolt":
		b, err := favorites.OpenBolt(a.cfg.BoltPath())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, b.Close)
		backend = b
	case "sqlite":
		db, err := database.Open(a.cfg.DBPath())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		backend = favorites.NewSQLiteBackend(db)
	default:
		return nil, fmt.Errorf("unknown favorites backend %q", a.cfg.FavoritesBackend)
	}

	return favorites.New(backend, a.logger), nil
}
