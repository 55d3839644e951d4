package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ngmaloney/city-weather-terminal/internal/logging"
	"github.com/ngmaloney/city-weather-terminal/internal/models"
)

var defaultQuery = Query{
	Limit: 100,
	Refine: []Refinement{
		{Field: "timezone", Value: "Asia"},
		{Field: "cou_name_en", Value: "India"},
	},
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://example.test/records", defaultQuery, logging.Discard())

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.userAgent == "" {
		t.Error("userAgent should not be empty")
	}
}

func TestOpenDataSoftClient_RequestParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Error("Accept header should be application/json")
		}

		q := r.URL.Query()
		if got := q.Get("limit"); got != "100" {
			t.Errorf("limit = %s, want 100", got)
		}
		refine := q["refine"]
		if len(refine) != 2 || refine[0] != `timezone:"Asia"` || refine[1] != `cou_name_en:"India"` {
			t.Errorf("refine = %v, want [timezone:\"Asia\" cou_name_en:\"India\"]", refine)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, defaultQuery, logging.Discard())
	cities, err := client.FetchCities(context.Background())
	if err != nil {
		t.Fatalf("FetchCities() error = %v", err)
	}
	if len(cities) != 0 {
		t.Errorf("len(cities) = %d, want 0", len(cities))
	}
}

func TestOpenDataSoftClient_FetchCities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := os.ReadFile("../../testdata/catalog_records_response.json")
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer server.Close()

	client := NewClient(server.URL, defaultQuery, logging.Discard())
	cities, err := client.FetchCities(context.Background())
	if err != nil {
		t.Fatalf("FetchCities() error = %v", err)
	}

	want := []models.City{
		{Name: "Mumbai", Country: "India", Timezone: "Asia/Kolkata"},
		{Name: "New Delhi", Country: "India", Timezone: "Asia/Kolkata"},
	}
	if len(cities) != len(want) {
		t.Fatalf("len(cities) = %d, want %d", len(cities), len(want))
	}
	for i := range want {
		if cities[i] != want[i] {
			t.Errorf("cities[%d] = %+v, want %+v", i, cities[i], want[i])
		}
	}
}

func TestOpenDataSoftClient_ErrorHandling(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
	}{
		{"404 not found", http.StatusNotFound, "error", ErrUnexpectedStatus},
		{"500 server error", http.StatusInternalServerError, "error", ErrUnexpectedStatus},
		{"invalid json", http.StatusOK, "{not json", ErrMalformedResponse},
		{"missing results", http.StatusOK, `{"total_count":0}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, defaultQuery, logging.Discard())
			_, err := client.FetchCities(context.Background())

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenDataSoftClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, defaultQuery, logging.Discard())
	if _, err := client.FetchCities(context.Background()); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestRefinement_String(t *testing.T) {
	r := Refinement{Field: "cou_name_en", Value: "India"}
	if got := r.String(); got != `cou_name_en:"India"` {
		t.Errorf("String() = %s, want cou_name_en:\"India\"", got)
	}
}
