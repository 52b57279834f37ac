package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

type payload struct {
	Value string `json:"value"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*JSONCache, *time.Time) {
	t.Helper()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	c := NewJSONCache(t.TempDir(), "get_forecast", ttl, zap.NewNop())
	c.now = func() time.Time { return now }
	return c, &now
}

func TestJSONCacheHitMissExpiry(t *testing.T) {
	c, now := newTestCache(t, time.Hour)

	var got payload
	if c.Get("k", &got) {
		t.Fatal("expected a miss on an empty cache")
	}
	if err := c.Set("k", payload{Value: "v1"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !c.Get("k", &got) || got.Value != "v1" {
		t.Fatalf("Get() = %+v, want hit with v1", got)
	}

	*now = now.Add(59 * time.Minute)
	if !c.Get("k", &got) {
		t.Error("entry expired too early")
	}

	*now = now.Add(time.Minute)
	if c.Get("k", &got) {
		t.Error("entry still fresh at exactly the ttl")
	}

	stats := c.GetStats()
	if stats["hits"] != 2 || stats["misses"] != 2 {
		t.Errorf("stats = %v", stats)
	}
}

func TestJSONCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	first := NewJSONCache(dir, "get_forecast", time.Hour, zap.NewNop())
	first.now = func() time.Time { return now }
	if err := first.Set("(50.08, 14.42, 'Europe/Prague')", payload{Value: "prague"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "get_forecast_cache.json")); err != nil {
		t.Fatalf("cache file missing: %v", err)
	}

	second := NewJSONCache(dir, "get_forecast", time.Hour, zap.NewNop())
	second.now = func() time.Time { return now.Add(time.Minute) }
	var got payload
	if !second.Get("(50.08, 14.42, 'Europe/Prague')", &got) || got.Value != "prague" {
		t.Errorf("Get() from fresh instance = %+v", got)
	}
}

func TestJSONCacheCorruptFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "get_forecast_cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewJSONCache(dir, "get_forecast", time.Hour, zap.NewNop())
	var got payload
	if c.Get("k", &got) {
		t.Fatal("expected a miss on a corrupt file")
	}
	if err := c.Set("k", payload{Value: "ok"}); err != nil {
		t.Fatalf("Set() after corrupt file error = %v", err)
	}
	if !c.Get("k", &got) || got.Value != "ok" {
		t.Errorf("Get() = %+v", got)
	}
}

func TestJSONCacheCleanup(t *testing.T) {
	c, now := newTestCache(t, 10*time.Minute)

	if err := c.Set("old", payload{Value: "a"}); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(6 * time.Minute)
	if err := c.Set("new", payload{Value: "b"}); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(5 * time.Minute)

	if got := c.Cleanup(); got != 1 {
		t.Errorf("Cleanup() = %d, want 1", got)
	}
	var p payload
	if !c.Get("new", &p) {
		t.Error("fresh entry was removed")
	}
}
