package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/openmeteo-lite/internal/models"
	"github.com/bobby-s-dev/openmeteo-lite/internal/settings"
)

// ErrNotFetched is returned for a location that has not been populated yet.
var ErrNotFetched = errors.New("weather not fetched for location")

type ForecastClient interface {
	SearchLocation(ctx context.Context, name string) ([]models.GeoLocation, error)
	GetForecast(ctx context.Context, latitude, longitude float64, timezone string) (*models.ForecastResponse, error)
}

type LocationStore interface {
	Location(id string) (models.Location, error)
	SaveLocation(id string, loc models.Location) error
	Locations() []settings.Slot
}

type WeatherService struct {
	client    ForecastClient
	store     LocationStore
	cache     *JSONCache
	presenter *Presenter
	logger    *zap.Logger

	mu            sync.RWMutex
	properties    map[string]*PropertySet
	generations   map[string]uint64
	lastFetchTime time.Time
	successCount  int
	failureCount  int
}

func NewWeatherService(client ForecastClient, store LocationStore, cache *JSONCache, presenter *Presenter, logger *zap.Logger) *WeatherService {
	return &WeatherService{
		client:      client,
		store:       store,
		cache:       cache,
		presenter:   presenter,
		logger:      logger,
		properties:  make(map[string]*PropertySet),
		generations: make(map[string]uint64),
	}
}

// PopulateLocation fetches the forecast of a configured slot, going through
// the cache, and replaces that slot's properties.
func (s *WeatherService) PopulateLocation(ctx context.Context, locationID string) error {
	s.mu.RLock()
	generation := s.generations[locationID]
	s.mu.RUnlock()

	loc, err := s.store.Location(locationID)
	if err != nil {
		s.recordFailure()
		return err
	}

	resp, err := s.forecast(ctx, loc)
	if err != nil {
		s.recordFailure()
		return fmt.Errorf("failed to fetch forecast for %s: %w", locationID, err)
	}

	forecast, err := models.NewForecast(resp)
	if err != nil {
		s.recordFailure()
		return fmt.Errorf("failed to read forecast for %s: %w", locationID, err)
	}

	props := NewPropertySet()
	s.presenter.Populate(props, loc.Name, forecast)

	s.mu.Lock()
	// the slot was reassigned while fetching
	if s.generations[locationID] != generation {
		s.mu.Unlock()
		s.logger.Debug("Discarding forecast of replaced location",
			zap.String("location_id", locationID),
			zap.String("location", loc.Name))
		return nil
	}
	s.properties[locationID] = props
	s.lastFetchTime = time.Now()
	s.successCount++
	s.mu.Unlock()

	s.logger.Info("Weather populated",
		zap.String("location_id", locationID),
		zap.String("location", loc.Name),
		zap.Int("hours", len(forecast.Hourly)),
		zap.Int("days", len(forecast.Daily)))
	return nil
}

func (s *WeatherService) forecast(ctx context.Context, loc models.Location) (*models.ForecastResponse, error) {
	key := forecastCacheKey(loc)

	var cached models.ForecastResponse
	if s.cache != nil && s.cache.Get(key, &cached) {
		s.logger.Debug("Cache hit for forecast", zap.String("key", key))
		return &cached, nil
	}

	resp, err := s.client.GetForecast(ctx, loc.Latitude, loc.Longitude, loc.Timezone)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(key, resp); err != nil {
			s.logger.Warn("Failed to cache forecast", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

func forecastCacheKey(loc models.Location) string {
	return "(" + strconv.FormatFloat(loc.Latitude, 'f', -1, 64) + ", " +
		strconv.FormatFloat(loc.Longitude, 'f', -1, 64) + ", '" + loc.Timezone + "')"
}

// RefreshAll populates every configured location concurrently.
func (s *WeatherService) RefreshAll(ctx context.Context) error {
	slots := s.store.Locations()
	if len(slots) == 0 {
		s.logger.Info("No locations configured, nothing to refresh")
		return nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(slots))
	startTime := time.Now()

	for _, slot := range slots {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.PopulateLocation(ctx, id); err != nil {
				s.logger.Error("Failed to populate location",
					zap.String("location_id", id),
					zap.Error(err))
				errs <- err
			}
		}(slot.ID)
	}

	wg.Wait()
	close(errs)

	failed := len(errs)
	s.logger.Info("Weather refresh completed",
		zap.Int("locations", len(slots)),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(startTime)))

	if failed > 0 {
		return fmt.Errorf("%d of %d locations failed to refresh", failed, len(slots))
	}
	return nil
}

// Properties returns a copy of the last populated properties.
func (s *WeatherService) Properties(locationID string) (map[string]string, error) {
	if !settings.ValidID(locationID) {
		return nil, fmt.Errorf("%w: %q", settings.ErrUnknownLocation, locationID)
	}

	s.mu.RLock()
	props, ok := s.properties[locationID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFetched, locationID)
	}
	return props.Snapshot(), nil
}

func (s *WeatherService) SearchLocations(ctx context.Context, query string) ([]models.GeoLocation, error) {
	return s.client.SearchLocation(ctx, query)
}

// SetLocation stores loc in a slot. Properties of the old location are
// dropped, including those of a populate still in flight, so they are never
// shown under the new name.
func (s *WeatherService) SetLocation(locationID string, loc models.Location) error {
	if err := s.store.SaveLocation(locationID, loc); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.properties, locationID)
	s.generations[locationID]++
	s.mu.Unlock()
	return nil
}

func (s *WeatherService) Locations() []settings.Slot {
	return s.store.Locations()
}

func (s *WeatherService) GetLastFetchTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFetchTime
}

func (s *WeatherService) GetStats() map[string]interface{} {
	s.mu.RLock()
	stats := map[string]interface{}{
		"success_count":       s.successCount,
		"failure_count":       s.failureCount,
		"populated_locations": len(s.properties),
		"last_fetch":          s.lastFetchTime,
	}
	s.mu.RUnlock()

	if s.cache != nil {
		stats["cache"] = s.cache.GetStats()
	}
	return stats
}

func (s *WeatherService) recordFailure() {
	s.mu.Lock()
	s.failureCount++
	s.mu.Unlock()
}
