package conditions

// ProviderWeatherCode is a WMO weather interpretation code as returned by Open-Meteo.
type ProviderWeatherCode int

const (
	Clear                 ProviderWeatherCode = 0
	MainlyClear           ProviderWeatherCode = 1
	PartlyCloudy          ProviderWeatherCode = 2
	Overcast              ProviderWeatherCode = 3
	Fog                   ProviderWeatherCode = 45
	FogWithRime           ProviderWeatherCode = 48
	DrizzleLight          ProviderWeatherCode = 51
	DrizzleModerate       ProviderWeatherCode = 53
	DrizzleDense          ProviderWeatherCode = 55
	FreezingDrizzleLight  ProviderWeatherCode = 56
	FreezingDrizzleDense  ProviderWeatherCode = 57
	RainSlight            ProviderWeatherCode = 61
	RainModerate          ProviderWeatherCode = 62
	RainHeavy             ProviderWeatherCode = 63
	FreezingRainLight     ProviderWeatherCode = 66
	FreezingRainHeavy     ProviderWeatherCode = 67
	SnowSlight            ProviderWeatherCode = 71
	SnowModerate          ProviderWeatherCode = 73
	SnowHeavy             ProviderWeatherCode = 75
	SnowGrains            ProviderWeatherCode = 77
	RainShowersSlight     ProviderWeatherCode = 80
	RainShowersModerate   ProviderWeatherCode = 81
	RainShowersViolent    ProviderWeatherCode = 82
	SnowShowersSlight     ProviderWeatherCode = 85
	SnowShowersHeavy      ProviderWeatherCode = 86
	Thunderstorm          ProviderWeatherCode = 95
	ThunderstormHailLight ProviderWeatherCode = 96
	ThunderstormHailHeavy ProviderWeatherCode = 99
)

// DisplayCode selects an icon and fanart set in the presentation layer.
type DisplayCode string

const (
	NotAvailable      DisplayCode = "not-available"
	Sunny             DisplayCode = "sunny"
	ClearNight        DisplayCode = "clear-night"
	FairDay           DisplayCode = "fair-day"
	FairNight         DisplayCode = "fair-night"
	PartlyCloudyDay   DisplayCode = "partly-cloudy-day"
	PartlyCloudyNight DisplayCode = "partly-cloudy-night"
	MostlyCloudyDay   DisplayCode = "mostly-cloudy-day"
	MostlyCloudyNight DisplayCode = "mostly-cloudy-night"
	Foggy             DisplayCode = "fog"
	Drizzle           DisplayCode = "drizzle"
	FreezingDrizzle   DisplayCode = "freezing-drizzle"
	ScatteredShowers  DisplayCode = "scattered-showers"
	FreezingRain      DisplayCode = "freezing-rain"
	LightSnowShowers  DisplayCode = "light-snow-showers"
	Snow              DisplayCode = "snow"
	HeavySnow         DisplayCode = "heavy-snow"
	Sleet             DisplayCode = "sleet"
	Showers           DisplayCode = "showers"
	SnowShowers       DisplayCode = "snow-showers"
	Thunderstorms     DisplayCode = "thunderstorm"
	ThunderstormHail  DisplayCode = "thunderstorm-hail"
)

// Numeric codes of the classic weather icon pack. Clear night and partly
// cloudy night share one glyph.
var iconCodes = map[DisplayCode]string{
	NotAvailable:      "na",
	Sunny:             "32",
	ClearNight:        "31",
	FairDay:           "34",
	FairNight:         "33",
	PartlyCloudyDay:   "30",
	PartlyCloudyNight: "31",
	MostlyCloudyDay:   "28",
	MostlyCloudyNight: "27",
	Foggy:             "20",
	Drizzle:           "9",
	FreezingDrizzle:   "8",
	ScatteredShowers:  "40",
	FreezingRain:      "10",
	LightSnowShowers:  "14",
	Snow:              "16",
	HeavySnow:         "41",
	Sleet:             "18",
	Showers:           "12",
	SnowShowers:       "46",
	Thunderstorms:     "4",
	ThunderstormHail:  "17",
}

// Icon returns the icon pack code, e.g. "32" for Sunny. Used both as the
// OutlookIcon file stem and as the FanartCode.
func (d DisplayCode) Icon() string {
	if icon, ok := iconCodes[d]; ok {
		return icon
	}
	return iconCodes[NotAvailable]
}

// IconFile returns the outlook icon file name.
func (d DisplayCode) IconFile() string {
	return d.Icon() + ".png"
}
