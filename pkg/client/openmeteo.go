package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/openmeteo-lite/internal/models"
)

const (
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
)

const (
	currentVariables = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation," +
		"weather_code,wind_speed_10m,wind_direction_10m,is_day"
	hourlyVariables = "temperature_2m,relative_humidity_2m,dew_point_2m,apparent_temperature," +
		"precipitation_probability,weather_code,surface_pressure," +
		"wind_speed_10m,wind_direction_10m,cloud_cover,is_day"
	dailyVariables = "weather_code,temperature_2m_max,temperature_2m_min,sunrise,sunset," +
		"precipitation_probability_mean,wind_speed_10m_max,wind_direction_10m_dominant,uv_index_max"
)

const (
	defaultHourlyHours  = 24
	defaultForecastDays = 10
)

type OpenMeteoClient struct {
	*BaseClient
	forecastURL  string
	geocodingURL string
	hours        int
	days         int
	now          func() time.Time
}

type OpenMeteoConfig struct {
	ClientConfig
	ForecastURL  string
	GeocodingURL string
	HourlyHours  int
	ForecastDays int
}

func NewOpenMeteoClient(config OpenMeteoConfig, logger *zap.Logger) *OpenMeteoClient {
	forecastURL := config.ForecastURL
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	geocodingURL := config.GeocodingURL
	if geocodingURL == "" {
		geocodingURL = DefaultGeocodingURL
	}
	hours := config.HourlyHours
	if hours <= 0 {
		hours = defaultHourlyHours
	}
	days := config.ForecastDays
	if days <= 0 {
		days = defaultForecastDays
	}
	return &OpenMeteoClient{
		BaseClient:   NewBaseClient("openmeteo", config.ClientConfig, logger),
		forecastURL:  forecastURL,
		geocodingURL: geocodingURL,
		hours:        hours,
		days:         days,
		now:          time.Now,
	}
}

// SearchLocation queries the geocoding API by place name. No match is an
// empty slice, not an error.
func (c *OpenMeteoClient) SearchLocation(ctx context.Context, name string) ([]models.GeoLocation, error) {
	data, err := c.Get(ctx, c.geocodingURL, url.Values{"name": {name}})
	if err != nil {
		return nil, fmt.Errorf("failed to search location: %w", err)
	}

	var response models.GeocodingResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}
	if response.Results == nil {
		return []models.GeoLocation{}, nil
	}
	return response.Results, nil
}

// GetForecast fetches the configured number of hours (24 by default) from
// the current hour and days (10 by default) from today.
func (c *OpenMeteoClient) GetForecast(ctx context.Context, latitude, longitude float64, timezone string) (*models.ForecastResponse, error) {
	now := c.now()
	startHour := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	endHour := startHour.Add(time.Duration(c.hours-1) * time.Hour)
	startDate := startHour
	endDate := startDate.AddDate(0, 0, c.days-1)

	params := url.Values{
		"latitude":   {strconv.FormatFloat(latitude, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(longitude, 'f', -1, 64)},
		"timezone":   {timezone},
		"current":    {currentVariables},
		"hourly":     {hourlyVariables},
		"daily":      {dailyVariables},
		"format":     {"json"},
		"timeformat": {"iso8601"},
		"start_hour": {startHour.Format(models.DateTimeLayout)},
		"end_hour":   {endHour.Format(models.DateTimeLayout)},
		"start_date": {startDate.Format(models.DateLayout)},
		"end_date":   {endDate.Format(models.DateLayout)},
	}

	data, err := c.Get(ctx, c.forecastURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	var response models.ForecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}
	return &response, nil
}
