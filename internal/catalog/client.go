// Package catalog fetches city records from the OpenDataSoft geonames dataset.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ngmaloney/city-weather-terminal/internal/models"
	"github.com/ngmaloney/city-weather-terminal/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrUnexpectedStatus is returned when the catalog answers with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedResponse is returned when the body cannot be decoded
	ErrMalformedResponse = errors.New("malformed response")
)

// Client defines the interface for loading the city list
type Client interface {
	// FetchCities retrieves one page of cities in catalog order
	FetchCities(ctx context.Context) ([]models.City, error)
}

// Refinement narrows the query to records whose field equals value
type Refinement struct {
	Field string
	Value string
}

func (r Refinement) String() string {
	return fmt.Sprintf("%s:%q", r.Field, r.Value)
}

// Query describes the page of cities to request
type Query struct {
	Limit  int
	Refine []Refinement
}

// OpenDataSoftClient implements Client using the OpenDataSoft explore API
type OpenDataSoftClient struct {
	baseURL    string
	query      Query
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewClient creates a catalog client for the records endpoint at baseURL
func NewClient(baseURL string, query Query, logger *slog.Logger) *OpenDataSoftClient {
	return &OpenDataSoftClient{
		baseURL: baseURL,
		query:   query,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "CityWeatherTerminal/1.0 (github.com/ngmaloney/city-weather-terminal)",
		logger:    logger,
		tracer:    telemetry.Tracer("catalog"),
	}
}

// requestURL builds the records URL with limit and refine parameters
func (c *OpenDataSoftClient) requestURL() string {
	params := url.Values{}
	params.Add("limit", strconv.Itoa(c.query.Limit))
	for _, r := range c.query.Refine {
		params.Add("refine", r.String())
	}
	return fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
}

// FetchCities implements Client
func (c *OpenDataSoftClient) FetchCities(ctx context.Context) ([]models.City, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.fetch-cities")
	defer span.End()

	requestURL := c.requestURL()
	span.SetAttributes(attribute.Int("catalog.limit", c.query.Limit))

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching cities", "url", requestURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to fetch cities: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: catalog returned status %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}

	var recordsResp recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&recordsResp); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if recordsResp.Results == nil {
		return nil, fmt.Errorf("%w: missing results array", ErrMalformedResponse)
	}

	cities := make([]models.City, 0, len(recordsResp.Results))
	for _, r := range recordsResp.Results {
		cities = append(cities, models.City{
			Name:     r.ASCIIName,
			Country:  r.CountryName,
			Timezone: r.Timezone,
		})
	}

	span.SetAttributes(attribute.Int("catalog.results", len(cities)))
	return cities, nil
}

// Internal types for OpenDataSoft API responses

type recordsResponse struct {
	Results []struct {
		ASCIIName   string `json:"ascii_name"`
		CountryName string `json:"cou_name_en"`
		Timezone    string `json:"timezone"`
	} `json:"results"`
}
