package services

import (
	"encoding/json"
	"os"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/openmeteo-lite/internal/i18n"
	"github.com/bobby-s-dev/openmeteo-lite/internal/models"
	"github.com/bobby-s-dev/openmeteo-lite/internal/units"
)

var testFormats = DisplayFormats{
	TimeLayout:      "15:04",
	ShortDateLayout: "02/01/2006",
	LongDateLayout:  "Monday, 2 January 2006",
	TemperatureUnit: units.Celsius,
	SpeedUnit:       units.MetersPerSecond,
}

var testProvider = Provider{Name: "Open-Meteo Lite", Logo: "resources/images/icon.png"}

func loadForecastResponse(t *testing.T) *models.ForecastResponse {
	t.Helper()
	data, err := os.ReadFile("testdata/forecast.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var resp models.ForecastResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return &resp
}

func populateFixture(t *testing.T, lang string, formats DisplayFormats) map[string]string {
	t.Helper()
	forecast, err := models.NewForecast(loadForecastResponse(t))
	if err != nil {
		t.Fatalf("NewForecast() error = %v", err)
	}
	presenter := NewPresenter(i18n.NewCatalog("", lang, zap.NewNop()), formats, testProvider)
	props := NewPropertySet()
	presenter.Populate(props, "Prague, Czechia", forecast)
	return props.Snapshot()
}

func TestPresenterPopulate(t *testing.T) {
	props := populateFixture(t, "en_gb", testFormats)

	want := map[string]string{
		"Current.Condition":     "Cloudy",
		"Current.Temperature":   "22",
		"Current.Wind":          "12.3",
		"Current.WindDirection": "SW",
		"Current.Humidity":      "48",
		"Current.FeelsLike":     "20",
		"Current.OutlookIcon":   "30.png",
		"Current.FanartCode":    "30",
		"Current.DewPoint":      "10",
		"Current.Precipitation": "10%",
		"Current.Cloudiness":    "60%",
		"Current.UVIndex":       "6.15",

		"Hourly.1.LongDate":      "Monday, 10 June 2024",
		"Hourly.1.ShortDate":     "10/06/2024",
		"Hourly.2.Time":          "15:00",
		"Hourly.2.Outlook":       "Light rain",
		"Hourly.2.OutlookIcon":   "40.png",
		"Hourly.2.FanartCode":    "40",
		"Hourly.2.WindSpeed":     "10m/s",
		"Hourly.2.WindDirection": "W",
		"Hourly.2.Humidity":      "45",
		"Hourly.2.Temperature":   "22°C",
		"Hourly.2.DewPoint":      "10",
		"Hourly.2.FeelsLike":     "22°C",
		"Hourly.2.Pressure":      "987",
		"Hourly.2.Precipitation": "35%",
		"Hourly.3.Outlook":       "Clear",
		"Hourly.3.FanartCode":    "31",
		"Hourly.3.Temperature":   "0°C",

		"Today.Sunrise":           "04:52",
		"Today.Sunset":            "21:08",
		"Daily.1.ShortDay":        "Mon",
		"Daily.1.HighTemperature": "25°C",
		"Daily.1.LowTemperature":  "12°C",
		"Daily.1.Outlook":         "Cloudy",
		"Daily.1.OutlookIcon":     "30.png",
		"Daily.1.WindSpeed":       "5m/s",
		"Daily.1.WindDirection":   "SW",
		"Daily.1.Precipitation":   "12%",
		"Daily.2.ShortDate":       "11/06/2024",
		"Daily.5.Outlook":         "Thunderstorm",
		"Daily.5.FanartCode":      "4",
		"Daily.8.Outlook":         "Rain showers",

		"Day0.Title":       "Monday",
		"Day0.HighTemp":    "25°C",
		"Day0.LowTemp":     "12°C",
		"Day6.Title":       "Sunday",
		"Day6.Outlook":     "Fog",
		"Day6.OutlookIcon": "20.png",

		"Location":            "Prague, Czechia",
		"Current.Location":    "Prague, Czechia",
		"WeatherProvider":     "Open-Meteo Lite",
		"WeatherProviderLogo": "resources/images/icon.png",
		"Weather.IsFetched":   "true",
		"Current.IsFetched":   "true",
		"Hourly.IsFetched":    "true",
		"Daily.IsFetched":     "true",
	}

	for key, value := range want {
		got, ok := props[key]
		if !ok {
			t.Errorf("%s missing", key)
			continue
		}
		if got != value {
			t.Errorf("%s = %q, want %q", key, got, value)
		}
	}

	for _, key := range []string{"Day7.Title", "Hourly.4.Time", "Daily.9.Outlook", "Day-1.Title"} {
		if _, ok := props[key]; ok {
			t.Errorf("unexpected property %s", key)
		}
	}
}

func TestPresenterPropertyCounts(t *testing.T) {
	props := populateFixture(t, "en_gb", testFormats)

	// 8 current + 3 first-hour + 14 per hour + 3 first-day + 10 per day
	// + 6 per aliased day + 8 general
	want := 8 + 3 + 14*3 + 3 + 10*8 + 6*7 + 8
	if len(props) != want {
		t.Errorf("len(props) = %d, want %d", len(props), want)
	}
}

func TestPresenterDailyUsesDaytimeVariant(t *testing.T) {
	resp := loadForecastResponse(t)
	resp.Daily.WeatherCode[0] = 0
	forecast, err := models.NewForecast(resp)
	if err != nil {
		t.Fatal(err)
	}

	props := NewPropertySet()
	NewPresenter(nil, testFormats, testProvider).Populate(props, "x", forecast)

	if got, _ := props.Get("Daily.1.Outlook"); got != "Sunny" {
		t.Errorf("Daily.1.Outlook = %q, want Sunny", got)
	}
	if got, _ := props.Get("Daily.1.FanartCode"); got != "32" {
		t.Errorf("Daily.1.FanartCode = %q, want 32", got)
	}
}

func TestPresenterLocalisesLabelsAndDirections(t *testing.T) {
	formats := testFormats
	formats.TemperatureUnit = units.Fahrenheit
	formats.SpeedUnit = units.Beaufort
	props := populateFixture(t, "de_de", formats)

	want := map[string]string{
		"Current.Condition":       "Bewölkt",
		"Hourly.2.Outlook":        "Leichter Regen",
		"Daily.4.WindDirection":   "O",
		"Daily.1.HighTemperature": "77°F",
		"Hourly.2.WindSpeed":      "5 Beaufort",
	}
	for key, value := range want {
		if got := props[key]; got != value {
			t.Errorf("%s = %q, want %q", key, got, value)
		}
	}
}

func TestPropertySetSnapshotIsCopy(t *testing.T) {
	p := NewPropertySet()
	p.SetProperty("a", "1")

	snap := p.Snapshot()
	snap["a"] = "changed"
	snap["b"] = "2"

	if got, _ := p.Get("a"); got != "1" {
		t.Errorf("Get(a) = %q after mutating snapshot", got)
	}
	if keys := p.Keys(); len(keys) != 1 {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestPropertySetConcurrentWrites(t *testing.T) {
	p := NewPropertySet()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			for j := 0; j < 100; j++ {
				p.SetProperty("k"+strconv.Itoa(i), strconv.Itoa(j))
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	if got := len(p.Snapshot()); got != 8 {
		t.Errorf("len(Snapshot()) = %d, want 8", got)
	}
}
