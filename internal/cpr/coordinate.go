package cpr

import (
	"errors"
	"fmt"
	"math"
)

// Encoding widths
const (
	AirborneBits    = 17
	CoarseTisbBits  = 12
	airborneZone    = 360.0
	surfaceZone     = 90.0
	evenLatZones    = 60
	oddLatZones     = 59
	maxLatitudeDeg  = 90.0
	normalizeThresh = 270.0
)

var (
	// ErrIncompatiblePair is returned when a global decode is attempted on two
	// coordinates of the same parity or of different encodings.
	ErrIncompatiblePair = errors.New("cpr: coordinates cannot be paired")
	// ErrZoneMismatch is returned when the two frames of a pair fall in
	// different longitude zone counts, so the pair is ambiguous.
	ErrZoneMismatch = errors.New("cpr: frames straddle a latitude zone boundary")
	// ErrNoReference is returned for surface decodes without a reference.
	ErrNoReference = errors.New("cpr: surface decode needs a reference position")
	// ErrInvalidLatitude is returned when the recovered latitude is outside -90..90.
	ErrInvalidLatitude = errors.New("cpr: latitude out of range")
	// ErrTooFar is returned by LocalDecode when the result is more than half
	// a zone away from the reference.
	ErrTooFar = errors.New("cpr: reference too far from position")
)

// Coordinate is a raw CPR encoded position as found in a squitter
type Coordinate struct {
	Latitude  uint32
	Longitude uint32
	IsOdd     bool
	Bits      int
	Surface   bool
}

// Position is a decoded WGS84 position in degrees
type Position struct {
	Latitude  float64
	Longitude float64
}

func (p Position) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Latitude, p.Longitude)
}

func (c Coordinate) bits() int {
	if c.Bits == 0 {
		return AirborneBits
	}
	return c.Bits
}

func (c Coordinate) scale() float64 {
	return float64(uint32(1) << uint(c.bits()))
}

func (c Coordinate) fflag() int {
	if c.IsOdd {
		return 1
	}
	return 0
}

func zoneSpan(surface bool) float64 {
	if surface {
		return surfaceZone
	}
	return airborneZone
}

// latZoneSize returns the latitude zone size in degrees
func latZoneSize(odd, surface bool) float64 {
	if odd {
		return zoneSpan(surface) / oddLatZones
	}
	return zoneSpan(surface) / evenLatZones
}

// modInt performs always positive MOD operation
func modInt(a, b int) int {
	res := a % b
	if res < 0 {
		res += b
	}
	return res
}

func modFloat(a, b float64) float64 {
	res := a - b*math.Floor(a/b)
	if res < 0 {
		res += b
	}
	return res
}

// normalizeLongitude folds lon into -180..180
func normalizeLongitude(lon float64) float64 {
	return lon - math.Floor((lon+180)/360)*360
}
