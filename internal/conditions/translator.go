package conditions

// NotAvailableLabel is returned for codes missing from the label table. It is
// deliberately not passed through localisation.
const NotAvailableLabel = "N/A"

// variant holds either one value for all times of day or a day/night pair.
type variant[T any] struct {
	day   T
	night T
}

func same[T any](v T) variant[T] {
	return variant[T]{day: v, night: v}
}

func pair[T any](day, night T) variant[T] {
	return variant[T]{day: day, night: night}
}

func (v variant[T]) pick(isDay bool) T {
	if isDay {
		return v.day
	}
	return v.night
}

var displayCodes = map[ProviderWeatherCode]variant[DisplayCode]{
	Clear:                 pair(Sunny, ClearNight),
	MainlyClear:           pair(FairDay, FairNight),
	PartlyCloudy:          pair(PartlyCloudyDay, PartlyCloudyNight),
	Overcast:              pair(MostlyCloudyDay, MostlyCloudyNight),
	Fog:                   same(Foggy),
	FogWithRime:           same(Foggy),
	DrizzleLight:          same(Drizzle),
	DrizzleModerate:       same(Drizzle),
	DrizzleDense:          same(Drizzle),
	FreezingDrizzleLight:  same(FreezingDrizzle),
	FreezingDrizzleDense:  same(FreezingDrizzle),
	RainSlight:            same(ScatteredShowers),
	RainModerate:          same(Showers),
	RainHeavy:             same(Showers),
	FreezingRainLight:     same(FreezingRain),
	FreezingRainHeavy:     same(FreezingRain),
	SnowSlight:            same(Snow),
	SnowModerate:          same(Snow),
	SnowHeavy:             same(HeavySnow),
	SnowGrains:            same(Sleet),
	RainShowersSlight:     same(Showers),
	RainShowersModerate:   same(Showers),
	RainShowersViolent:    same(Showers),
	SnowShowersSlight:     same(SnowShowers),
	SnowShowersHeavy:      same(SnowShowers),
	Thunderstorm:          same(Thunderstorms),
	ThunderstormHailLight: same(ThunderstormHail),
	ThunderstormHailHeavy: same(ThunderstormHail),
}

var conditionLabels = map[ProviderWeatherCode]variant[string]{
	Clear:                 pair("Sunny", "Clear"),
	MainlyClear:           same("Fair"),
	PartlyCloudy:          same("Cloudy"),
	Overcast:              same("Overcast"),
	Fog:                   same("Fog"),
	FogWithRime:           same("Fog with rime"),
	DrizzleLight:          same("Light drizzle"),
	DrizzleModerate:       same("Drizzle"),
	DrizzleDense:          same("Heavy drizzle"),
	FreezingDrizzleLight:  same("Freezing drizzle"),
	FreezingDrizzleDense:  same("Freezing drizzle"),
	RainSlight:            same("Light rain"),
	RainModerate:          same("Rain"),
	RainHeavy:             same("Heavy rain"),
	FreezingRainLight:     same("Freezing rain"),
	FreezingRainHeavy:     same("Freezing rain"),
	SnowSlight:            same("Light snow"),
	SnowModerate:          same("Snow"),
	SnowHeavy:             same("Heavy snow"),
	SnowGrains:            same("Snow grains"),
	RainShowersSlight:     same("Rain showers"),
	RainShowersModerate:   same("Rain showers"),
	RainShowersViolent:    same("Rain showers"),
	SnowShowersSlight:     same("Snow showers"),
	SnowShowersHeavy:      same("Snow showers"),
	Thunderstorm:          same("Thunderstorm"),
	ThunderstormHailLight: same("Thunderstorm with hail"),
	ThunderstormHailHeavy: same("Thunderstorm with hail"),
}

// ResolveDisplayCode maps a provider code to a display code. Unknown codes
// map to NotAvailable.
func ResolveDisplayCode(code ProviderWeatherCode, isDay bool) DisplayCode {
	v, ok := displayCodes[code]
	if !ok {
		return NotAvailable
	}
	return v.pick(isDay)
}

// ResolveConditionLabel returns the English source label for a provider code,
// or NotAvailableLabel when the code is unknown.
func ResolveConditionLabel(code ProviderWeatherCode, isDay bool) string {
	v, ok := conditionLabels[code]
	if !ok {
		return NotAvailableLabel
	}
	return v.pick(isDay)
}

// Known reports whether code has a table entry.
func Known(code ProviderWeatherCode) bool {
	_, ok := displayCodes[code]
	return ok
}

// Localizer translates English source strings.
type Localizer interface {
	Gettext(msgid string) string
}

// Translator resolves display codes and localised condition labels.
type Translator struct {
	localizer Localizer
}

func NewTranslator(localizer Localizer) *Translator {
	return &Translator{localizer: localizer}
}

func (t *Translator) DisplayCode(code ProviderWeatherCode, isDay bool) DisplayCode {
	return ResolveDisplayCode(code, isDay)
}

// ConditionLabel localises mapped labels. The NotAvailableLabel fallback is
// returned as is.
func (t *Translator) ConditionLabel(code ProviderWeatherCode, isDay bool) string {
	label := ResolveConditionLabel(code, isDay)
	if !Known(code) || t.localizer == nil {
		return label
	}
	return t.localizer.Gettext(label)
}
