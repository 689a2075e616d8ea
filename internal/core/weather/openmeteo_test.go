package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v1/forecast") {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("latitude") != "5.6" || q.Get("longitude") != "-0.19" {
			t.Errorf("coords = %s,%s", q.Get("latitude"), q.Get("longitude"))
		}
		if q.Get("current") != "temperature_2m,wind_speed_10m" {
			t.Errorf("current = %q", q.Get("current"))
		}
		w.Write([]byte(`{"current":{"time":"2026-08-01T12:00","temperature_2m":28.4,"wind_speed_10m":11.2}}`))
	}))
	defer server.Close()

	obs, err := NewClient(server.URL).Current(context.Background(), 5.6, -0.19)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if obs.Temperature != 28.4 {
		t.Errorf("Temperature = %v", obs.Temperature)
	}
	if obs.WindSpeed != 11.2 {
		t.Errorf("WindSpeed = %v", obs.WindSpeed)
	}
	if obs.Time != "2026-08-01T12:00" {
		t.Errorf("Time = %q", obs.Time)
	}
}

func TestCurrentUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).Current(context.Background(), 999, 999); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
