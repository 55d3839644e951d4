package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ngmaloney/city-weather-terminal/internal/models"
	"github.com/ngmaloney/city-weather-terminal/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OWMClient implements WeatherClient using the OpenWeatherMap API
type OWMClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewClient creates a new OpenWeatherMap client
func NewClient(baseURL, apiKey string, logger *slog.Logger) *OWMClient {
	return &OWMClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
		tracer: telemetry.Tracer("openweather"),
		now:    time.Now,
	}
}

// GetCurrent implements WeatherClient
func (c *OWMClient) GetCurrent(ctx context.Context, city string, units models.Units) (*models.WeatherSnapshot, error) {
	ctx, span := c.tracer.Start(ctx, "openweather.current")
	defer span.End()
	span.SetAttributes(attribute.String("city", city), attribute.String("units", string(units)))

	var currentResp currentResponse
	if err := c.get(ctx, span, "weather", city, units, &currentResp); err != nil {
		return nil, err
	}

	snapshot := &models.WeatherSnapshot{
		City:        city,
		Temperature: currentResp.Main.Temp,
		Humidity:    currentResp.Main.Humidity,
		Pressure:    currentResp.Main.Pressure,
		TempMax:     currentResp.Main.TempMax,
		TempMin:     currentResp.Main.TempMin,
		WindSpeed:   currentResp.Wind.Speed,
		Latitude:    currentResp.Coord.Lat,
		Longitude:   currentResp.Coord.Lon,
		Condition:   models.ConditionUnknown,
		Units:       units,
		FetchedAt:   c.now(),
	}

	// Only the first weather element is meaningful
	if len(currentResp.Weather) > 0 {
		snapshot.Condition = models.ParseCondition(currentResp.Weather[0].Main)
		snapshot.Description = currentResp.Weather[0].Description
	}

	return snapshot, nil
}

// GetForecast implements WeatherClient
func (c *OWMClient) GetForecast(ctx context.Context, city string, units models.Units) (*models.Forecast, error) {
	ctx, span := c.tracer.Start(ctx, "openweather.forecast")
	defer span.End()
	span.SetAttributes(attribute.String("city", city), attribute.String("units", string(units)))

	var forecastResp forecastResponse
	if err := c.get(ctx, span, "forecast", city, units, &forecastResp); err != nil {
		return nil, err
	}

	forecast := &models.Forecast{
		City:      city,
		Units:     units,
		Entries:   make([]models.ForecastEntry, 0, len(forecastResp.List)),
		FetchedAt: c.now(),
	}

	for _, item := range forecastResp.List {
		entry := models.ForecastEntry{
			Time:        time.Unix(item.Dt, 0).UTC(),
			DateText:    item.DtTxt,
			Temperature: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
		}
		forecast.Entries = append(forecast.Entries, entry)
	}

	span.SetAttributes(attribute.Int("forecast.entries", len(forecast.Entries)))
	return forecast, nil
}

// get performs GET {baseURL}/{endpoint}?q=&units=&appid= and decodes the body into out
func (c *OWMClient) get(ctx context.Context, span trace.Span, endpoint, city string, units models.Units, out any) error {
	params := url.Values{}
	params.Add("q", city)
	params.Add("units", string(units))
	params.Add("appid", c.apiKey)

	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching weather", "endpoint", endpoint, "city", city, "units", units)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned status %d: %s", ErrUnexpectedStatus, endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: decoding %s: %v", ErrMalformedResponse, endpoint, err)
	}

	return nil
}

// Internal types for OpenWeatherMap API responses

type weatherElement struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []weatherElement `json:"weather"`
	Main    struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Pressure float64 `json:"pressure"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []weatherElement `json:"weather"`
		DtTxt   string           `json:"dt_txt"`
	} `json:"list"`
}
