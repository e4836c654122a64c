package adsb

import (
	"math"

	"modescore/internal/cpr"
	"modescore/internal/modes"
)

// AirbornePosition is the TC9-18 (barometric) and TC20-22 (GNSS) record
type AirbornePosition struct {
	SurveillanceStatus SurveillanceStatus
	NicSupplementB     bool
	// Altitude in feet; GNSS heights are converted from metres
	Altitude            *int
	AltitudeIsGeometric bool
	TimeSynchronized    bool
	Coordinate          cpr.Coordinate
	// NavigationIntegrity is the NIC implied by the type code alone
	NavigationIntegrity uint8
}

func (*AirbornePosition) Format() MessageFormat { return FormatAirbornePosition }

// SurfacePosition is the TC5-8 record
type SurfacePosition struct {
	// GroundSpeed in knots, nil when unavailable
	GroundSpeed         *float64
	GroundSpeedExceeded bool
	// GroundTrack in degrees true, nil when the status bit is clear
	GroundTrack         *float64
	TimeSynchronized    bool
	Coordinate          cpr.Coordinate
	NavigationIntegrity uint8
}

func (*SurfacePosition) Format() MessageFormat { return FormatSurfacePosition }

// CoarseTisbAirbornePosition is carried in DF18 with CF=3
type CoarseTisbAirbornePosition struct {
	SurveillanceStatus SurveillanceStatus
	ServiceVolumeID    uint8
	Altitude           *int
	GroundTrack        *float64
	GroundSpeed        *int
	Coordinate         cpr.Coordinate
}

func (*CoarseTisbAirbornePosition) Format() MessageFormat { return FormatCoarseTisbAirbornePosition }

// NoPositionInformation is the TC0 record, which may still carry a barometric altitude
type NoPositionInformation struct {
	Altitude *int
}

func (*NoPositionInformation) Format() MessageFormat { return FormatNoPositionInformation }

// navigation integrity category by type code, ignoring the supplement bits
var nicByTypeCode = map[uint8]uint8{
	5: 11, 6: 10, 7: 8, 8: 0,
	9: 11, 10: 10, 11: 8, 12: 7, 13: 6, 14: 5, 15: 4, 16: 2, 17: 1, 18: 0,
	20: 11, 21: 10, 22: 0,
}

func decodeAirbornePosition(me []byte, typeCode uint8) *AirbornePosition {
	p := &AirbornePosition{
		SurveillanceStatus:  SurveillanceStatus(modes.Bits(me, 6, 7)),
		NicSupplementB:      modes.Bit(me, 8),
		TimeSynchronized:    modes.Bit(me, 21),
		Coordinate:          decodeCoordinate(me, false),
		NavigationIntegrity: nicByTypeCode[typeCode],
	}

	field := modes.Bits(me, 9, 20)
	if typeCode >= typeAirborneGnssMin {
		p.AltitudeIsGeometric = true
		if field != 0 {
			alt := int(math.Round(float64(field) * metersToFeet))
			p.Altitude = &alt
		}
	} else {
		p.Altitude = modes.DecodeAC12(field)
	}
	return p
}

func decodeSurfacePosition(me []byte, typeCode uint8) *SurfacePosition {
	p := &SurfacePosition{
		TimeSynchronized:    modes.Bit(me, 21),
		Coordinate:          decodeCoordinate(me, true),
		NavigationIntegrity: nicByTypeCode[typeCode],
	}
	p.GroundSpeed, p.GroundSpeedExceeded = decodeMovement(modes.Bits(me, 6, 12))
	if modes.Bit(me, 13) {
		track := float64(modes.Bits(me, 14, 20)) * surfaceTrackResolution
		p.GroundTrack = &track
	}
	return p
}

func decodeCoordinate(me []byte, surface bool) cpr.Coordinate {
	return cpr.Coordinate{
		Latitude:  modes.Bits(me, 23, 39),
		Longitude: modes.Bits(me, 40, 56),
		IsOdd:     modes.Bit(me, 22),
		Bits:      cpr.AirborneBits,
		Surface:   surface,
	}
}

// decodeMovement converts the non-linear surface movement field to knots
func decodeMovement(m uint32) (*float64, bool) {
	var speed float64
	switch {
	case m == 0 || m > 124:
		return nil, false
	case m == 1:
		speed = 0
	case m <= 8:
		speed = 0.125 * float64(m-1)
	case m <= 12:
		speed = 1 + 0.25*float64(m-9)
	case m <= 38:
		speed = 2 + 0.5*float64(m-13)
	case m <= 93:
		speed = 15 + float64(m-39)
	case m <= 108:
		speed = 70 + 2*float64(m-94)
	case m <= 123:
		speed = 100 + 5*float64(m-109)
	default:
		speed = 175
		return &speed, true
	}
	return &speed, false
}

func decodeCoarseTisb(me []byte) *CoarseTisbAirbornePosition {
	p := &CoarseTisbAirbornePosition{
		SurveillanceStatus: SurveillanceStatus(modes.Bits(me, 2, 3)),
		ServiceVolumeID:    uint8(modes.Bits(me, 4, 7)),
		Altitude:           modes.DecodeAC12(modes.Bits(me, 8, 19)),
		Coordinate: cpr.Coordinate{
			Latitude:  modes.Bits(me, 33, 44),
			Longitude: modes.Bits(me, 45, 56),
			IsOdd:     modes.Bit(me, 32),
			Bits:      cpr.CoarseTisbBits,
		},
	}
	if modes.Bit(me, 20) {
		track := float64(modes.Bits(me, 21, 25)) * coarseTrackResolution
		p.GroundTrack = &track
	}
	if gs := modes.Bits(me, 26, 31); gs != 0 {
		speed := int(gs) * coarseGroundSpeedStepKt
		p.GroundSpeed = &speed
	}
	return p
}
