package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, threshold int) *OpenMeteoClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewOpenMeteoClient(OpenMeteoConfig{
		ClientConfig: ClientConfig{
			Timeout:        5 * time.Second,
			Threshold:      threshold,
			BreakerTimeout: time.Minute,
		},
		ForecastURL:  srv.URL + "/v1/forecast",
		GeocodingURL: srv.URL + "/v1/search",
	}, zap.NewNop())
	c.now = func() time.Time {
		return time.Date(2024, 6, 10, 14, 37, 12, 0, time.UTC)
	}
	return c
}

func TestGetForecast(t *testing.T) {
	fixture, err := os.ReadFile("../../internal/models/testdata/forecast.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	var query map[string]string
	var header http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Errorf("path = %s", r.URL.Path)
		}
		header = r.Header.Clone()
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(fixture)
	}, 3)

	resp, err := c.GetForecast(context.Background(), 50.08, 14.42, "Europe/Prague")
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if len(resp.Hourly.Time) != 3 || len(resp.Daily.Time) != 8 {
		t.Errorf("decoded %d hours and %d days", len(resp.Hourly.Time), len(resp.Daily.Time))
	}

	want := map[string]string{
		"latitude":   "50.08",
		"longitude":  "14.42",
		"timezone":   "Europe/Prague",
		"format":     "json",
		"timeformat": "iso8601",
		"start_hour": "2024-06-10T14:00",
		"end_hour":   "2024-06-11T13:00",
		"start_date": "2024-06-10",
		"end_date":   "2024-06-19",
	}
	for k, v := range want {
		if query[k] != v {
			t.Errorf("query %s = %q, want %q", k, query[k], v)
		}
	}
	if !strings.Contains(query["hourly"], "precipitation_probability") {
		t.Errorf("hourly = %q", query["hourly"])
	}
	if !strings.HasSuffix(query["daily"], "uv_index_max") {
		t.Errorf("daily = %q", query["daily"])
	}

	if got := header.Get("User-Agent"); got != "Open-Meteo Lite v."+Version {
		t.Errorf("User-Agent = %q", got)
	}
	if got := header.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}
}

func TestSearchLocation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("name") {
		case "Prague":
			w.Write([]byte(`{"results":[{"id":3067696,"name":"Prague","latitude":50.08804,` +
				`"longitude":14.42076,"timezone":"Europe/Prague","country_code":"CZ","country":"Czechia"}]}`))
		default:
			w.Write([]byte(`{"generationtime_ms":0.5}`))
		}
	}, 3)

	results, err := c.SearchLocation(context.Background(), "Prague")
	if err != nil {
		t.Fatalf("SearchLocation() error = %v", err)
	}
	if len(results) != 1 || results[0].Timezone != "Europe/Prague" {
		t.Fatalf("SearchLocation() = %+v", results)
	}

	results, err = c.SearchLocation(context.Background(), "Nowhere")
	if err != nil {
		t.Fatalf("SearchLocation() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("SearchLocation(Nowhere) = %#v, want empty slice", results)
	}
}

func TestStatusErrorIsReturned(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`))
	}, 3)

	_, err := c.GetForecast(context.Background(), 100, 0, "UTC")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest || !strings.Contains(statusErr.Body, "Latitude") {
		t.Errorf("StatusError = %+v", statusErr)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, 2)

	for i := 0; i < 2; i++ {
		if _, err := c.SearchLocation(context.Background(), "x"); err == nil {
			t.Fatal("expected an error")
		}
	}
	_, err := c.SearchLocation(context.Background(), "x")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want open breaker", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("upstream calls = %d, want 2 (single attempt per request)", got)
	}
}
