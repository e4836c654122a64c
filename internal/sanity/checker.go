package sanity

import (
	"errors"
	"fmt"
	"time"

	"modescore/internal/cpr"
	"modescore/internal/geo"
)

var (
	// ErrSpeedExceeded is returned when two fixes imply an impossible speed
	ErrSpeedExceeded = errors.New("implied speed exceeds ceiling")
	// ErrOutsideRange is returned for positions beyond the receiver range
	ErrOutsideRange = errors.New("position outside receiver range")
)

// minElapsed floors the time between two fixes
const minElapsed = time.Second

// Class selects the speed ceiling for a pair of fixes
type Class int

const (
	ClassAirborne Class = iota
	ClassTransition
	ClassSurface
)

func (c Class) String() string {
	switch c {
	case ClassAirborne:
		return "airborne"
	case ClassTransition:
		return "transition"
	case ClassSurface:
		return "surface"
	}
	return "unknown"
}

// Fix is a decoded position with its reception time
type Fix struct {
	Position cpr.Position
	At       time.Time
	Surface  bool
}

// Config holds speed ceilings in km/h and the receiver location
type Config struct {
	AirborneKmh   float64
	TransitionKmh float64
	SurfaceKmh    float64

	// Receiver is nil when the receiver location is unknown
	Receiver           *cpr.Position
	RangeKm            float64
	SuppressRangeCheck bool
}

// DefaultConfig returns the default speed ceilings with no receiver location
func DefaultConfig() Config {
	return Config{
		AirborneKmh:   2800,
		TransitionKmh: 1000,
		SurfaceKmh:    300,
		RangeKm:       500,
	}
}

// Checker rejects positions that cannot be right
type Checker struct {
	cfg Config
}

// New creates a new position sanity checker
func New(cfg Config) *Checker {
	return &Checker{cfg: cfg}
}

// ClassOf picks the speed class for two consecutive fixes
func ClassOf(prev, next Fix) Class {
	switch {
	case prev.Surface && next.Surface:
		return ClassSurface
	case prev.Surface != next.Surface:
		return ClassTransition
	}
	return ClassAirborne
}

// Ceiling returns the configured speed ceiling for class in km/h
func (c *Checker) Ceiling(class Class) float64 {
	switch class {
	case ClassSurface:
		return c.cfg.SurfaceKmh
	case ClassTransition:
		return c.cfg.TransitionKmh
	}
	return c.cfg.AirborneKmh
}

// CheckSpeed returns ErrSpeedExceeded when moving from prev to next implies a
// ground speed above the ceiling for their class. The elapsed time is
// floored at one second.
func (c *Checker) CheckSpeed(prev, next Fix) error {
	class := ClassOf(prev, next)
	ceiling := c.Ceiling(class)
	if ceiling <= 0 {
		return nil
	}

	distance := geo.DistanceKm(prev.Position.Latitude, prev.Position.Longitude, next.Position.Latitude, next.Position.Longitude)
	speed := geo.SpeedKmh(distance, next.At.Sub(prev.At), minElapsed)
	if speed > ceiling {
		return fmt.Errorf("%w: %.0f km/h over %.1f km, %s ceiling %.0f km/h", ErrSpeedExceeded, speed, distance, class, ceiling)
	}
	return nil
}

// CheckRange returns ErrOutsideRange when p is further from the receiver
// than its declared range. It does nothing when the check is suppressed or
// the receiver location is unknown.
func (c *Checker) CheckRange(p cpr.Position) error {
	if c.cfg.SuppressRangeCheck || c.cfg.Receiver == nil || c.cfg.RangeKm <= 0 {
		return nil
	}
	distance := geo.DistanceKm(c.cfg.Receiver.Latitude, c.cfg.Receiver.Longitude, p.Latitude, p.Longitude)
	if distance > c.cfg.RangeKm {
		return fmt.Errorf("%w: %.1f km from receiver, range %.0f km", ErrOutsideRange, distance, c.cfg.RangeKm)
	}
	return nil
}
