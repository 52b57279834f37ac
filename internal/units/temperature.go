package units

import (
	"math"
	"strconv"
	"strings"
)

// TemperatureUnit is the display symbol of a temperature unit as supplied by
// the caller's locale.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "°C"
	Fahrenheit TemperatureUnit = "°F"
)

// ParseTemperatureUnit accepts a symbol or a unit name. Anything that is not
// Fahrenheit is treated as the native Celsius.
func ParseTemperatureUnit(s string) TemperatureUnit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "°f", "f", "fahrenheit":
		return Fahrenheit
	default:
		return Celsius
	}
}

// FormatTemperature renders a Celsius reading in the requested unit.
func FormatTemperature(celsius int, unit TemperatureUnit) string {
	if unit == Fahrenheit {
		f := math.RoundToEven(float64(celsius)*9/5 + 32)
		return strconv.Itoa(int(f)) + string(unit)
	}
	return strconv.Itoa(celsius) + string(Celsius)
}
