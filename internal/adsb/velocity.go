package adsb

import (
	"math"

	"modescore/internal/modes"
)

// AirspeedType distinguishes indicated from true airspeed
type AirspeedType uint8

const (
	AirspeedIndicated AirspeedType = iota
	AirspeedTrue
)

func (a AirspeedType) String() string {
	if a == AirspeedTrue {
		return "TAS"
	}
	return "IAS"
}

// VerticalRateSource tells whether the vertical rate came from GNSS or the barometer
type VerticalRateSource uint8

const (
	VerticalRateGnss VerticalRateSource = iota
	VerticalRateBarometric
)

func (v VerticalRateSource) String() string {
	if v == VerticalRateBarometric {
		return "Baro"
	}
	return "GNSS"
}

// AirborneVelocity is the TC19 record. Subtypes 1 and 2 carry a ground
// speed vector, subtypes 3 and 4 carry heading and airspeed.
type AirborneVelocity struct {
	Subtype                    uint8
	Supersonic                 bool
	IntentChange               bool
	IfrCapability              bool
	NavigationAccuracyVelocity uint8

	Velocity *VectorVelocity

	Heading          *float64
	Airspeed         *int
	AirspeedExceeded bool
	AirspeedType     AirspeedType

	VerticalRateSource   VerticalRateSource
	VerticalRate         *int
	VerticalRateExceeded bool

	// GnssBaroDifference is GNSS height minus barometric altitude in feet
	GnssBaroDifference         *int
	GnssBaroDifferenceExceeded bool
}

func (*AirborneVelocity) Format() MessageFormat { return FormatAirborneVelocity }

// GroundSpeed returns the speed over ground in knots for vector subtypes
func (v *AirborneVelocity) GroundSpeed() (float64, bool) {
	if v.Velocity == nil {
		return 0, false
	}
	return v.Velocity.Speed(), true
}

func decodeAirborneVelocity(me []byte) (*AirborneVelocity, bool) {
	subtype := uint8(modes.Bits(me, 6, 8))
	if subtype < 1 || subtype > 4 {
		return nil, false
	}

	v := &AirborneVelocity{
		Subtype:                    subtype,
		Supersonic:                 subtype == 2 || subtype == 4,
		IntentChange:               modes.Bit(me, 9),
		IfrCapability:              modes.Bit(me, 10),
		NavigationAccuracyVelocity: uint8(modes.Bits(me, 11, 13)),
	}
	multiplier := 1.0
	if v.Supersonic {
		multiplier = supersonicMultiplier
	}

	if subtype <= 2 {
		ew, ewExceeded, ewOK := velocityComponent(modes.Bits(me, 15, 24), multiplier)
		ns, nsExceeded, nsOK := velocityComponent(modes.Bits(me, 26, 35), multiplier)
		if ewOK && nsOK {
			vv := NewVectorVelocity(ew, ns, modes.Bit(me, 14), modes.Bit(me, 25)).
				WithEastWestExceeded(ewExceeded).
				WithNorthSouthExceeded(nsExceeded)
			v.Velocity = &vv
		}
	} else {
		if modes.Bit(me, 14) {
			heading := float64(modes.Bits(me, 15, 24)) * headingResolution
			v.Heading = &heading
		}
		if modes.Bit(me, 25) {
			v.AirspeedType = AirspeedTrue
		}
		if raw := modes.Bits(me, 26, 35); raw != 0 {
			speed := int(float64(raw-1) * multiplier)
			v.Airspeed = &speed
			v.AirspeedExceeded = raw == velocityComponentMax
		}
	}

	if modes.Bit(me, 36) {
		v.VerticalRateSource = VerticalRateBarometric
	}
	if raw := modes.Bits(me, 38, 46); raw != 0 {
		rate := int(raw-1) * verticalRateResolution
		if modes.Bit(me, 37) {
			rate = -rate
		}
		v.VerticalRate = &rate
		v.VerticalRateExceeded = raw == verticalRateMax
	}

	if raw := modes.Bits(me, 50, 56); raw != 0 {
		diff := int(raw-1) * gnssBaroDifferenceStepFt
		if modes.Bit(me, 49) {
			diff = -diff
		}
		v.GnssBaroDifference = &diff
		v.GnssBaroDifferenceExceeded = raw == gnssBaroDifferenceMax
	}

	return v, true
}

// velocityComponent decodes a 10-bit speed component. An exceeded value is
// pegged at the top of the scale.
func velocityComponent(raw uint32, multiplier float64) (speed float64, exceeded, ok bool) {
	switch raw {
	case 0:
		return 0, false, false
	case velocityComponentMax:
		return velocityComponentPegged * multiplier, true, true
	}
	return float64(raw-1) * multiplier, false, true
}

// VectorVelocity is a ground speed vector split into east/west and
// north/south magnitudes. It is immutable; the With methods return a copy,
// and Speed and Bearing are derived from the current components on read.
type VectorVelocity struct {
	eastWest           float64
	northSouth         float64
	westerly           bool
	southerly          bool
	eastWestExceeded   bool
	northSouthExceeded bool
}

// NewVectorVelocity builds a vector from unsigned magnitudes in knots and
// direction flags.
func NewVectorVelocity(eastWest, northSouth float64, westerly, southerly bool) VectorVelocity {
	return VectorVelocity{
		eastWest:   math.Abs(eastWest),
		northSouth: math.Abs(northSouth),
		westerly:   westerly,
		southerly:  southerly,
	}
}

func (v VectorVelocity) EastWest() float64          { return v.eastWest }
func (v VectorVelocity) NorthSouth() float64        { return v.northSouth }
func (v VectorVelocity) IsWesterlyVelocity() bool   { return v.westerly }
func (v VectorVelocity) IsSoutherlyVelocity() bool  { return v.southerly }
func (v VectorVelocity) EastWestExceeded() bool     { return v.eastWestExceeded }
func (v VectorVelocity) NorthSouthExceeded() bool   { return v.northSouthExceeded }
func (v VectorVelocity) AnyComponentExceeded() bool { return v.eastWestExceeded || v.northSouthExceeded }

// Speed returns the ground speed in knots, the unit of the east/west and
// north/south components. Multiply by 1.852 for km/h.
func (v VectorVelocity) Speed() float64 {
	speed, _ := VelocityToPolar(v.eastWest, v.northSouth, v.westerly, v.southerly)
	return speed
}

// Bearing returns the track over ground in degrees, nil when stationary
func (v VectorVelocity) Bearing() *float64 {
	_, bearing := VelocityToPolar(v.eastWest, v.northSouth, v.westerly, v.southerly)
	return bearing
}

func (v VectorVelocity) WithEastWest(knots float64) VectorVelocity {
	v.eastWest = math.Abs(knots)
	return v
}

func (v VectorVelocity) WithNorthSouth(knots float64) VectorVelocity {
	v.northSouth = math.Abs(knots)
	return v
}

func (v VectorVelocity) WithWesterly(westerly bool) VectorVelocity {
	v.westerly = westerly
	return v
}

func (v VectorVelocity) WithSoutherly(southerly bool) VectorVelocity {
	v.southerly = southerly
	return v
}

func (v VectorVelocity) WithEastWestExceeded(exceeded bool) VectorVelocity {
	v.eastWestExceeded = exceeded
	return v
}

func (v VectorVelocity) WithNorthSouthExceeded(exceeded bool) VectorVelocity {
	v.northSouthExceeded = exceeded
	return v
}

// VelocityToPolar converts orthogonal speed components to speed and bearing.
// The bearing is measured clockwise from true north in [0, 360) and is nil
// when both components are zero.
func VelocityToPolar(eastWest, northSouth float64, westerly, southerly bool) (float64, *float64) {
	x := math.Abs(eastWest)
	y := math.Abs(northSouth)
	if x == 0 && y == 0 {
		return 0, nil
	}
	if westerly {
		x = -x
	}
	if southerly {
		y = -y
	}

	speed := math.Hypot(x, y)
	bearing := math.Mod(math.Atan2(x, y)*180/math.Pi+360, 360)
	if bearing >= 360 {
		bearing = 0
	}
	return speed, &bearing
}
