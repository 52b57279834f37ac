package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bobby-s-dev/openmeteo-lite/internal/conditions"
)

// Open-Meteo iso8601 layouts, in the forecast location's local time.
const (
	DateTimeLayout = "2006-01-02T15:04"
	DateLayout     = "2006-01-02"
)

// ErrInvalidPayload marks a forecast response that cannot be turned into
// typed records.
var ErrInvalidPayload = errors.New("invalid forecast payload")

var validate = validator.New()

type CurrentWeather struct {
	Time          time.Time
	Temperature   int
	Humidity      int `validate:"gte=0,lte=100"`
	FeelsLike     int
	Precipitation float64 `validate:"gte=0"`
	WeatherCode   conditions.ProviderWeatherCode
	WindSpeed     float64 `validate:"gte=0"`
	WindDirection float64 `validate:"gte=0,lte=360"`
	IsDay         bool
}

type HourlyWeather struct {
	Time                     time.Time
	Temperature              int
	Humidity                 int `validate:"gte=0,lte=100"`
	DewPoint                 int
	FeelsLike                int
	PrecipitationProbability int `validate:"gte=0,lte=100"`
	WeatherCode              conditions.ProviderWeatherCode
	Pressure                 int     `validate:"gte=0"`
	WindSpeed                float64 `validate:"gte=0"`
	WindDirection            float64 `validate:"gte=0,lte=360"`
	CloudCover               int     `validate:"gte=0,lte=100"`
	IsDay                    bool
}

type DailyWeather struct {
	Date                     time.Time
	WeatherCode              conditions.ProviderWeatherCode
	HighTemperature          int
	LowTemperature           int `validate:"ltefield=HighTemperature"`
	Sunrise                  time.Time
	Sunset                   time.Time
	PrecipitationProbability int     `validate:"gte=0,lte=100"`
	WindSpeedMax             float64 `validate:"gte=0"`
	WindDirection            float64 `validate:"gte=0,lte=360"`
	UVIndexMax               float64 `validate:"gte=0"`
}

// Forecast is the validated, typed view of a ForecastResponse.
type Forecast struct {
	Location *time.Location
	Current  CurrentWeather
	Hourly   []HourlyWeather
	Daily    []DailyWeather
}

// NewForecast checks resp once and converts it. Floats that are displayed
// as whole numbers are rounded half to even.
func NewForecast(resp *ForecastResponse) (*Forecast, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidPayload)
	}

	loc := time.UTC
	if resp.Timezone != "" {
		name := resp.TimezoneAbbreviation
		if name == "" {
			name = resp.Timezone
		}
		loc = time.FixedZone(name, resp.UTCOffsetSeconds)
	}

	current, err := newCurrent(resp.Current, loc)
	if err != nil {
		return nil, err
	}
	hourly, err := newHourly(resp.Hourly, loc)
	if err != nil {
		return nil, err
	}
	daily, err := newDaily(resp.Daily, loc)
	if err != nil {
		return nil, err
	}

	return &Forecast{
		Location: loc,
		Current:  current,
		Hourly:   hourly,
		Daily:    daily,
	}, nil
}

func newCurrent(c CurrentBlock, loc *time.Location) (CurrentWeather, error) {
	t, err := parseTime("current.time", DateTimeLayout, c.Time, loc)
	if err != nil {
		return CurrentWeather{}, err
	}
	w := CurrentWeather{
		Time:          t,
		Temperature:   round(c.Temperature2m),
		Humidity:      round(c.RelativeHumidity2m),
		FeelsLike:     round(c.ApparentTemperature),
		Precipitation: c.Precipitation,
		WeatherCode:   conditions.ProviderWeatherCode(c.WeatherCode),
		WindSpeed:     c.WindSpeed10m,
		WindDirection: c.WindDirection10m,
		IsDay:         c.IsDay != 0,
	}
	if err := validate.Struct(w); err != nil {
		return CurrentWeather{}, fmt.Errorf("%w: current: %v", ErrInvalidPayload, err)
	}
	return w, nil
}

func newHourly(h HourlyColumns, loc *time.Location) ([]HourlyWeather, error) {
	n := len(h.Time)
	err := checkColumns("hourly", n, map[string]int{
		"temperature_2m":            len(h.Temperature2m),
		"relative_humidity_2m":      len(h.RelativeHumidity2m),
		"dew_point_2m":              len(h.DewPoint2m),
		"apparent_temperature":      len(h.ApparentTemperature),
		"precipitation_probability": len(h.PrecipitationProbability),
		"weather_code":              len(h.WeatherCode),
		"surface_pressure":          len(h.SurfacePressure),
		"wind_speed_10m":            len(h.WindSpeed10m),
		"wind_direction_10m":        len(h.WindDirection10m),
		"cloud_cover":               len(h.CloudCover),
		"is_day":                    len(h.IsDay),
	})
	if err != nil {
		return nil, err
	}

	out := make([]HourlyWeather, 0, n)
	for i := 0; i < n; i++ {
		t, err := parseTime(fmt.Sprintf("hourly.time[%d]", i), DateTimeLayout, h.Time[i], loc)
		if err != nil {
			return nil, err
		}
		w := HourlyWeather{
			Time:                     t,
			Temperature:              round(h.Temperature2m[i]),
			Humidity:                 round(h.RelativeHumidity2m[i]),
			DewPoint:                 round(h.DewPoint2m[i]),
			FeelsLike:                round(h.ApparentTemperature[i]),
			PrecipitationProbability: round(h.PrecipitationProbability[i]),
			WeatherCode:              conditions.ProviderWeatherCode(h.WeatherCode[i]),
			Pressure:                 round(h.SurfacePressure[i]),
			WindSpeed:                h.WindSpeed10m[i],
			WindDirection:            h.WindDirection10m[i],
			CloudCover:               round(h.CloudCover[i]),
			IsDay:                    h.IsDay[i] != 0,
		}
		if err := validate.Struct(w); err != nil {
			return nil, fmt.Errorf("%w: hourly[%d]: %v", ErrInvalidPayload, i, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func newDaily(d DailyColumns, loc *time.Location) ([]DailyWeather, error) {
	n := len(d.Time)
	err := checkColumns("daily", n, map[string]int{
		"weather_code":                   len(d.WeatherCode),
		"temperature_2m_max":             len(d.Temperature2mMax),
		"temperature_2m_min":             len(d.Temperature2mMin),
		"sunrise":                        len(d.Sunrise),
		"sunset":                         len(d.Sunset),
		"precipitation_probability_mean": len(d.PrecipitationProbabilityMean),
		"wind_speed_10m_max":             len(d.WindSpeed10mMax),
		"wind_direction_10m_dominant":    len(d.WindDirection10mDominant),
		"uv_index_max":                   len(d.UVIndexMax),
	})
	if err != nil {
		return nil, err
	}

	out := make([]DailyWeather, 0, n)
	for i := 0; i < n; i++ {
		date, err := parseTime(fmt.Sprintf("daily.time[%d]", i), DateLayout, d.Time[i], loc)
		if err != nil {
			return nil, err
		}
		sunrise, err := parseTime(fmt.Sprintf("daily.sunrise[%d]", i), DateTimeLayout, d.Sunrise[i], loc)
		if err != nil {
			return nil, err
		}
		sunset, err := parseTime(fmt.Sprintf("daily.sunset[%d]", i), DateTimeLayout, d.Sunset[i], loc)
		if err != nil {
			return nil, err
		}
		w := DailyWeather{
			Date:                     date,
			WeatherCode:              conditions.ProviderWeatherCode(d.WeatherCode[i]),
			HighTemperature:          round(d.Temperature2mMax[i]),
			LowTemperature:           round(d.Temperature2mMin[i]),
			Sunrise:                  sunrise,
			Sunset:                   sunset,
			PrecipitationProbability: round(d.PrecipitationProbabilityMean[i]),
			WindSpeedMax:             d.WindSpeed10mMax[i],
			WindDirection:            d.WindDirection10mDominant[i],
			UVIndexMax:               d.UVIndexMax[i],
		}
		if err := validate.Struct(w); err != nil {
			return nil, fmt.Errorf("%w: daily[%d]: %v", ErrInvalidPayload, i, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func checkColumns(block string, n int, columns map[string]int) error {
	for name, l := range columns {
		if l != n {
			return fmt.Errorf("%w: %s.%s has %d values, time has %d", ErrInvalidPayload, block, name, l, n)
		}
	}
	return nil
}

func parseTime(field, layout, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, field, err)
	}
	return t, nil
}

func round(v float64) int {
	return int(math.RoundToEven(v))
}
