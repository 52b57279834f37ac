package units

import (
	"math"
	"strconv"
	"strings"
)

// SpeedUnit is a wind speed display unit. Open-Meteo reports km/h.
type SpeedUnit string

const (
	KilometersPerHour SpeedUnit = "km/h"
	MetersPerSecond   SpeedUnit = "m/s"
	MilesPerHour      SpeedUnit = "mph"
	Beaufort          SpeedUnit = "Beaufort"
)

const kmhToMph = 0.621

// ParseSpeedUnit normalises common spellings. Unknown values fall back to km/h.
func ParseSpeedUnit(s string) SpeedUnit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m/s", "ms", "mps":
		return MetersPerSecond
	case "mph":
		return MilesPerHour
	case "beaufort", "bft":
		return Beaufort
	default:
		return KilometersPerHour
	}
}

// upper bounds (inclusive) for Beaufort forces 1..11; force 0 is below 1 km/h
var beaufortBounds = [...]float64{5, 11, 19, 28, 38, 49, 61, 74, 88, 102, 117}

// BeaufortScale converts km/h to a Beaufort force in 0..12.
func BeaufortScale(kmh float64) int {
	if kmh < 1 {
		return 0
	}
	for i, bound := range beaufortBounds {
		if kmh <= bound {
			return i + 1
		}
	}
	return 12
}

// FormatWindSpeed renders a km/h reading in the requested unit.
func FormatWindSpeed(kmh float64, unit SpeedUnit) string {
	switch unit {
	case MetersPerSecond:
		return strconv.Itoa(int(math.RoundToEven(kmh/3.6))) + string(MetersPerSecond)
	case MilesPerHour:
		mph := math.RoundToEven(kmh*kmhToMph*10) / 10
		return formatFloat(mph) + string(MilesPerHour)
	case Beaufort:
		return strconv.Itoa(BeaufortScale(kmh)) + " " + string(Beaufort)
	default:
		return formatFloat(kmh) + string(KilometersPerHour)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
