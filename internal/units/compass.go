package units

import "math"

// CompassDirection is an 8-point compass abbreviation.
type CompassDirection string

const (
	North     CompassDirection = "N"
	NorthEast CompassDirection = "NE"
	East      CompassDirection = "E"
	SouthEast CompassDirection = "SE"
	South     CompassDirection = "S"
	SouthWest CompassDirection = "SW"
	West      CompassDirection = "W"
	NorthWest CompassDirection = "NW"
)

const sectorWidth = 22.5

// 16 sectors of 22.5°, adjacent pairs folded onto one abbreviation.
var sectors = [16]CompassDirection{
	North,
	NorthEast, NorthEast,
	East, East,
	SouthEast, SouthEast,
	South, South,
	SouthWest, SouthWest,
	West, West,
	NorthWest, NorthWest,
	North,
}

// ResolveCompassDirection quantises an angle in degrees. The sector table is a
// ring, so 360° and any multiple of it resolve to North like 0°.
func ResolveCompassDirection(degrees float64) CompassDirection {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return North
	}
	sector := int(math.Mod(math.RoundToEven(degrees/sectorWidth), float64(len(sectors))))
	if sector < 0 {
		sector += len(sectors)
	}
	return sectors[sector]
}
