package services

import (
	"sort"
	"strconv"
	"sync"

	"github.com/bobby-s-dev/openmeteo-lite/internal/conditions"
	"github.com/bobby-s-dev/openmeteo-lite/internal/models"
	"github.com/bobby-s-dev/openmeteo-lite/internal/units"
)

// PropertyWriter receives flat display properties such as "Daily.1.Outlook".
type PropertyWriter interface {
	SetProperty(key, value string)
}

// PropertySet is an in-memory PropertyWriter.
type PropertySet struct {
	mu    sync.RWMutex
	props map[string]string
}

func NewPropertySet() *PropertySet {
	return &PropertySet{props: make(map[string]string)}
}

func (p *PropertySet) SetProperty(key, value string) {
	p.mu.Lock()
	p.props[key] = value
	p.mu.Unlock()
}

func (p *PropertySet) Get(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.props[key]
	return v, ok
}

// Snapshot returns a copy safe to hand out.
func (p *PropertySet) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]string, len(p.props))
	for k, v := range p.props {
		out[k] = v
	}
	return out
}

func (p *PropertySet) Keys() []string {
	p.mu.RLock()
	keys := make([]string, 0, len(p.props))
	for k := range p.props {
		keys = append(keys, k)
	}
	p.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// DisplayFormats are the caller's regional settings. Layouts use Go's
// reference time.
type DisplayFormats struct {
	TimeLayout      string
	ShortDateLayout string
	LongDateLayout  string
	TemperatureUnit units.TemperatureUnit
	SpeedUnit       units.SpeedUnit
}

// Provider identifies the weather source in the general properties.
type Provider struct {
	Name string
	Logo string
}

// dailyAliasDays is how many days are also published as Day0..Day6.
const dailyAliasDays = 7

// Presenter turns a typed forecast into display properties.
type Presenter struct {
	translator *conditions.Translator
	localizer  conditions.Localizer
	formats    DisplayFormats
	provider   Provider
}

func NewPresenter(localizer conditions.Localizer, formats DisplayFormats, provider Provider) *Presenter {
	return &Presenter{
		translator: conditions.NewTranslator(localizer),
		localizer:  localizer,
		formats:    formats,
		provider:   provider,
	}
}

// Populate writes every property for one location.
func (p *Presenter) Populate(w PropertyWriter, locationName string, f *models.Forecast) {
	p.populateCurrent(w, f.Current)
	p.populateHourly(w, f.Hourly)
	p.populateDaily(w, f.Daily)
	p.populateGeneral(w, locationName)
}

func (p *Presenter) populateCurrent(w PropertyWriter, c models.CurrentWeather) {
	code := p.translator.DisplayCode(c.WeatherCode, c.IsDay)

	w.SetProperty("Current.Condition", p.translator.ConditionLabel(c.WeatherCode, c.IsDay))
	w.SetProperty("Current.Temperature", strconv.Itoa(c.Temperature))
	w.SetProperty("Current.Wind", formatFloat(c.WindSpeed))
	w.SetProperty("Current.WindDirection", p.direction(c.WindDirection))
	w.SetProperty("Current.Humidity", strconv.Itoa(c.Humidity))
	w.SetProperty("Current.FeelsLike", strconv.Itoa(c.FeelsLike))
	w.SetProperty("Current.OutlookIcon", code.IconFile())
	w.SetProperty("Current.FanartCode", code.Icon())
}

func (p *Presenter) populateHourly(w PropertyWriter, hours []models.HourlyWeather) {
	for i, h := range hours {
		if i == 0 {
			w.SetProperty("Current.DewPoint", strconv.Itoa(h.DewPoint))
			w.SetProperty("Current.Precipitation", percent(h.PrecipitationProbability))
			w.SetProperty("Current.Cloudiness", percent(h.CloudCover))
		}

		prefix := "Hourly." + strconv.Itoa(i+1) + "."
		code := p.translator.DisplayCode(h.WeatherCode, h.IsDay)

		w.SetProperty(prefix+"Time", h.Time.Format(p.formats.TimeLayout))
		w.SetProperty(prefix+"LongDate", h.Time.Format(p.formats.LongDateLayout))
		w.SetProperty(prefix+"ShortDate", h.Time.Format(p.formats.ShortDateLayout))
		w.SetProperty(prefix+"Outlook", p.translator.ConditionLabel(h.WeatherCode, h.IsDay))
		w.SetProperty(prefix+"OutlookIcon", code.IconFile())
		w.SetProperty(prefix+"FanartCode", code.Icon())
		w.SetProperty(prefix+"WindSpeed", units.FormatWindSpeed(h.WindSpeed, p.formats.SpeedUnit))
		w.SetProperty(prefix+"WindDirection", p.direction(h.WindDirection))
		w.SetProperty(prefix+"Humidity", strconv.Itoa(h.Humidity))
		w.SetProperty(prefix+"Temperature", units.FormatTemperature(h.Temperature, p.formats.TemperatureUnit))
		w.SetProperty(prefix+"DewPoint", strconv.Itoa(h.DewPoint))
		w.SetProperty(prefix+"FeelsLike", units.FormatTemperature(h.FeelsLike, p.formats.TemperatureUnit))
		w.SetProperty(prefix+"Pressure", strconv.Itoa(h.Pressure))
		w.SetProperty(prefix+"Precipitation", percent(h.PrecipitationProbability))
	}
}

// Daily outlooks always use the daytime variant.
func (p *Presenter) populateDaily(w PropertyWriter, days []models.DailyWeather) {
	for i, d := range days {
		if i == 0 {
			w.SetProperty("Today.Sunrise", d.Sunrise.Format(p.formats.TimeLayout))
			w.SetProperty("Today.Sunset", d.Sunset.Format(p.formats.TimeLayout))
			w.SetProperty("Current.UVIndex", formatFloat(d.UVIndexMax))
		}

		prefix := "Daily." + strconv.Itoa(i+1) + "."
		code := p.translator.DisplayCode(d.WeatherCode, true)
		outlook := p.translator.ConditionLabel(d.WeatherCode, true)
		high := units.FormatTemperature(d.HighTemperature, p.formats.TemperatureUnit)
		low := units.FormatTemperature(d.LowTemperature, p.formats.TemperatureUnit)

		w.SetProperty(prefix+"ShortDate", d.Date.Format(p.formats.ShortDateLayout))
		w.SetProperty(prefix+"ShortDay", d.Date.Format("Mon"))
		w.SetProperty(prefix+"HighTemperature", high)
		w.SetProperty(prefix+"LowTemperature", low)
		w.SetProperty(prefix+"Outlook", outlook)
		w.SetProperty(prefix+"OutlookIcon", code.IconFile())
		w.SetProperty(prefix+"FanartCode", code.Icon())
		w.SetProperty(prefix+"WindSpeed", units.FormatWindSpeed(d.WindSpeedMax, p.formats.SpeedUnit))
		w.SetProperty(prefix+"WindDirection", p.direction(d.WindDirection))
		w.SetProperty(prefix+"Precipitation", percent(d.PrecipitationProbability))

		if i < dailyAliasDays {
			// some skins read DayN instead of Daily.N
			alias := "Day" + strconv.Itoa(i) + "."
			w.SetProperty(alias+"Title", d.Date.Format("Monday"))
			w.SetProperty(alias+"Outlook", outlook)
			w.SetProperty(alias+"OutlookIcon", code.IconFile())
			w.SetProperty(alias+"FanartCode", code.Icon())
			w.SetProperty(alias+"HighTemp", high)
			w.SetProperty(alias+"LowTemp", low)
		}
	}
}

func (p *Presenter) populateGeneral(w PropertyWriter, locationName string) {
	w.SetProperty("Location", locationName)
	w.SetProperty("Current.Location", locationName)
	w.SetProperty("WeatherProvider", p.provider.Name)
	w.SetProperty("WeatherProviderLogo", p.provider.Logo)
	for _, key := range []string{"Weather.IsFetched", "Current.IsFetched", "Hourly.IsFetched", "Daily.IsFetched"} {
		w.SetProperty(key, "true")
	}
}

func (p *Presenter) direction(degrees float64) string {
	dir := string(units.ResolveCompassDirection(degrees))
	if p.localizer == nil {
		return dir
	}
	return p.localizer.Gettext(dir)
}

func percent(v int) string {
	return strconv.Itoa(v) + "%"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
