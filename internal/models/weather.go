package models

// ForecastResponse is the Open-Meteo forecast payload as decoded from JSON.
// Hourly and daily blocks are column oriented: one slice per variable, all
// of the same length as Time.
type ForecastResponse struct {
	Latitude             float64       `json:"latitude"`
	Longitude            float64       `json:"longitude"`
	Timezone             string        `json:"timezone"`
	TimezoneAbbreviation string        `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int           `json:"utc_offset_seconds"`
	Current              CurrentBlock  `json:"current"`
	Hourly               HourlyColumns `json:"hourly"`
	Daily                DailyColumns  `json:"daily"`
}

type CurrentBlock struct {
	Time                string  `json:"time"`
	Temperature2m       float64 `json:"temperature_2m"`
	RelativeHumidity2m  float64 `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	Precipitation       float64 `json:"precipitation"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed10m        float64 `json:"wind_speed_10m"`
	WindDirection10m    float64 `json:"wind_direction_10m"`
	IsDay               int     `json:"is_day"`
}

type HourlyColumns struct {
	Time                     []string  `json:"time"`
	Temperature2m            []float64 `json:"temperature_2m"`
	RelativeHumidity2m       []float64 `json:"relative_humidity_2m"`
	DewPoint2m               []float64 `json:"dew_point_2m"`
	ApparentTemperature      []float64 `json:"apparent_temperature"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	WeatherCode              []int     `json:"weather_code"`
	SurfacePressure          []float64 `json:"surface_pressure"`
	WindSpeed10m             []float64 `json:"wind_speed_10m"`
	WindDirection10m         []float64 `json:"wind_direction_10m"`
	CloudCover               []float64 `json:"cloud_cover"`
	IsDay                    []int     `json:"is_day"`
}

type DailyColumns struct {
	Time                         []string  `json:"time"`
	WeatherCode                  []int     `json:"weather_code"`
	Temperature2mMax             []float64 `json:"temperature_2m_max"`
	Temperature2mMin             []float64 `json:"temperature_2m_min"`
	Sunrise                      []string  `json:"sunrise"`
	Sunset                       []string  `json:"sunset"`
	PrecipitationProbabilityMean []float64 `json:"precipitation_probability_mean"`
	WindSpeed10mMax              []float64 `json:"wind_speed_10m_max"`
	WindDirection10mDominant     []float64 `json:"wind_direction_10m_dominant"`
	UVIndexMax                   []float64 `json:"uv_index_max"`
}

// GeoLocation is one result of the geocoding search.
type GeoLocation struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Elevation   float64 `json:"elevation"`
	Timezone    string  `json:"timezone"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country"`
	Admin1      string  `json:"admin1,omitempty"`
	Admin2      string  `json:"admin2,omitempty"`
}

// Location converts a search result into a storable location. The display
// name carries the region and country the way the search list shows them.
func (g GeoLocation) Location() Location {
	name := g.Name
	for _, part := range []string{g.Admin1, g.Country} {
		if part != "" && part != g.Name {
			name += ", " + part
		}
	}
	return Location{
		Name:      name,
		Latitude:  g.Latitude,
		Longitude: g.Longitude,
		Timezone:  g.Timezone,
	}
}

type GeocodingResponse struct {
	Results []GeoLocation `json:"results"`
}

// Location is a configured forecast location.
type Location struct {
	Name      string  `json:"name" mapstructure:"name" validate:"required"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" mapstructure:"longitude" validate:"gte=-180,lte=180"`
	Timezone  string  `json:"timezone" mapstructure:"timezone" validate:"required"`
}

// Validate checks coordinate ranges and required fields.
func (l Location) Validate() error {
	return validate.Struct(l)
}
