package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/openmeteo-lite/internal/models"
)

// MaxLocations is the number of location slots, location1 to location5.
const MaxLocations = 5

const slotPrefix = "location"

var (
	ErrLocationNotConfigured = errors.New("location is not configured")
	ErrUnknownLocation       = errors.New("unknown location id")
)

// Slot is a configured location together with its id.
type Slot struct {
	ID       string          `json:"id"`
	Location models.Location `json:"location"`
}

// Store keeps location slots in a YAML file. Viper is not safe for
// concurrent use, so every access goes through mu.
type Store struct {
	mu     sync.RWMutex
	v      *viper.Viper
	path   string
	logger *zap.Logger
}

// Open reads path if it exists. A missing file is an empty store and is
// created on the first save.
func Open(path string, logger *zap.Logger) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat settings file: %w", err)
	} else {
		logger.Info("No settings file found, starting without locations", zap.String("file", path))
	}

	return &Store{v: v, path: path, logger: logger}, nil
}

// ValidID reports whether id names one of the location slots.
func ValidID(id string) bool {
	n, err := strconv.Atoi(strings.TrimPrefix(id, slotPrefix))
	return strings.HasPrefix(id, slotPrefix) && err == nil && n >= 1 && n <= MaxLocations
}

// IDs lists every slot id in order.
func IDs() []string {
	ids := make([]string, 0, MaxLocations)
	for i := 1; i <= MaxLocations; i++ {
		ids = append(ids, slotPrefix+strconv.Itoa(i))
	}
	return ids
}

func (s *Store) Location(id string) (models.Location, error) {
	if !ValidID(id) {
		return models.Location{}, fmt.Errorf("%w: %q", ErrUnknownLocation, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location(id)
}

func (s *Store) location(id string) (models.Location, error) {
	if s.v.GetString(id+".name") == "" {
		return models.Location{}, fmt.Errorf("%w: %s", ErrLocationNotConfigured, id)
	}
	var loc models.Location
	if err := s.v.UnmarshalKey(id, &loc); err != nil {
		return models.Location{}, fmt.Errorf("failed to decode %s: %w", id, err)
	}
	return loc, nil
}

// SaveLocation validates loc, stores it under id and rewrites the file.
func (s *Store) SaveLocation(id string, loc models.Location) error {
	if !ValidID(id) {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, id)
	}
	if err := loc.Validate(); err != nil {
		return fmt.Errorf("invalid location: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(id, map[string]interface{}{
		"name":      loc.Name,
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"timezone":  loc.Timezone,
	})

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	s.logger.Info("Location saved",
		zap.String("id", id),
		zap.String("name", loc.Name),
		zap.Float64("latitude", loc.Latitude),
		zap.Float64("longitude", loc.Longitude))
	return nil
}

// Locations returns the configured slots in id order.
func (s *Store) Locations() []Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var slots []Slot
	for _, id := range IDs() {
		loc, err := s.location(id)
		if err != nil {
			if !errors.Is(err, ErrLocationNotConfigured) {
				s.logger.Warn("Skipping unreadable location", zap.String("id", id), zap.Error(err))
			}
			continue
		}
		slots = append(slots, Slot{ID: id, Location: loc})
	}
	return slots
}
