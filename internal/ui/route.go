package ui

import (
	"fmt"
	"net/url"
	"strings"
)

// RouteKind identifies which view a route renders
type RouteKind int

const (
	RouteCities    RouteKind = iota // "/"
	RouteWeather                    // "/weather/:city"
	RouteFavorites                  // "/favorite"
)

const weatherPrefix = "/weather/"

// Route is a location inside the application
type Route struct {
	Kind RouteKind
	City string // Unescaped city name, only set for RouteWeather
}

// CitiesRoute returns the city list route
func CitiesRoute() Route {
	return Route{Kind: RouteCities}
}

// WeatherRoute returns the weather route for a city
func WeatherRoute(city string) Route {
	return Route{Kind: RouteWeather, City: city}
}

// FavoritesRoute returns the favorites list route
func FavoritesRoute() Route {
	return Route{Kind: RouteFavorites}
}

// ParseRoute parses a path such as "/weather/New%20Delhi"
func ParseRoute(path string) (Route, error) {
	switch {
	case path == "" || path == "/":
		return CitiesRoute(), nil
	case path == "/favorite":
		return FavoritesRoute(), nil
	case strings.HasPrefix(path, weatherPrefix):
		segment := strings.TrimPrefix(path, weatherPrefix)
		if segment == "" || strings.Contains(segment, "/") {
			return Route{}, fmt.Errorf("invalid weather route: %q", path)
		}
		city, err := url.PathUnescape(segment)
		if err != nil {
			return Route{}, fmt.Errorf("invalid city in route %q: %w", path, err)
		}
		return WeatherRoute(city), nil
	}
	return Route{}, fmt.Errorf("unknown route: %q", path)
}

// Path returns the route as a path with the city escaped as one segment
func (r Route) Path() string {
	switch r.Kind {
	case RouteWeather:
		return weatherPrefix + url.PathEscape(r.City)
	case RouteFavorites:
		return "/favorite"
	}
	return "/"
}

// Title returns a short label for the tab bar
func (r Route) Title() string {
	switch r.Kind {
	case RouteWeather:
		return r.City
	case RouteFavorites:
		return "Favorites"
	}
	return "Cities"
}
