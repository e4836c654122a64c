package adsb

import "modescore/internal/modes"

// Operational status subtypes
const (
	operationalStatusAirborne = 0
	operationalStatusSurface  = 1
)

// AircraftOperationalStatus is the TC31 record
type AircraftOperationalStatus struct {
	Surface bool
	Version uint8

	CapabilityClass uint16
	// Airborne capability class
	TcasOperational        bool
	Es1090In               bool
	AirReferencedVelocity  bool
	TargetStateReport      bool
	TrajectoryChangeReport uint8
	UatIn                  bool
	// Surface capability class
	PositionOffsetApplied      bool
	B2Low                      bool
	NavigationAccuracyVelocity uint8
	NicSupplementC             bool
	LengthWidthCode            *uint8

	OperationalMode              uint16
	TcasResolutionAdvisoryActive bool
	IdentSwitchActive            bool
	ReceivingAtcServices         bool
	SingleAntenna                bool
	SystemDesignAssurance        uint8
	GpsAntennaOffset             uint8

	NicSupplementA               bool
	NavigationAccuracyPosition   uint8
	GeometricVerticalAccuracy    uint8
	SourceIntegrityLevel         uint8
	NicBaro                      bool
	TrackAngleHeading            bool
	HorizontalReferenceDirection bool
	SilSupplement                bool
}

func (*AircraftOperationalStatus) Format() MessageFormat { return FormatAircraftOperationalStatus }

func decodeOperationalStatus(me []byte) (*AircraftOperationalStatus, bool) {
	subtype := modes.Bits(me, 6, 8)
	if subtype != operationalStatusAirborne && subtype != operationalStatusSurface {
		return nil, false
	}

	s := &AircraftOperationalStatus{
		Surface:                      subtype == operationalStatusSurface,
		Version:                      uint8(modes.Bits(me, 41, 43)),
		OperationalMode:              uint16(modes.Bits(me, 25, 40)),
		TcasResolutionAdvisoryActive: modes.Bit(me, 27),
		IdentSwitchActive:            modes.Bit(me, 28),
		ReceivingAtcServices:         modes.Bit(me, 29),
		SingleAntenna:                modes.Bit(me, 30),
		SystemDesignAssurance:        uint8(modes.Bits(me, 31, 32)),
		NicSupplementA:               modes.Bit(me, 44),
		NavigationAccuracyPosition:   uint8(modes.Bits(me, 45, 48)),
		SourceIntegrityLevel:         uint8(modes.Bits(me, 51, 52)),
		HorizontalReferenceDirection: modes.Bit(me, 54),
		SilSupplement:                modes.Bit(me, 55),
	}

	if s.Surface {
		s.CapabilityClass = uint16(modes.Bits(me, 9, 20))
		s.PositionOffsetApplied = modes.Bit(me, 11)
		s.Es1090In = modes.Bit(me, 12)
		s.B2Low = modes.Bit(me, 15)
		s.UatIn = modes.Bit(me, 16)
		s.NavigationAccuracyVelocity = uint8(modes.Bits(me, 17, 19))
		s.NicSupplementC = modes.Bit(me, 20)
		lw := uint8(modes.Bits(me, 21, 24))
		s.LengthWidthCode = &lw
		s.GpsAntennaOffset = uint8(modes.Bits(me, 33, 40))
		s.TrackAngleHeading = modes.Bit(me, 53)
	} else {
		s.CapabilityClass = uint16(modes.Bits(me, 9, 24))
		s.TcasOperational = modes.Bit(me, 11)
		s.Es1090In = modes.Bit(me, 12)
		s.AirReferencedVelocity = modes.Bit(me, 15)
		s.TargetStateReport = modes.Bit(me, 16)
		s.TrajectoryChangeReport = uint8(modes.Bits(me, 17, 18))
		s.UatIn = modes.Bit(me, 19)
		s.GeometricVerticalAccuracy = uint8(modes.Bits(me, 49, 50))
		s.NicBaro = modes.Bit(me, 53)
	}
	return s, true
}
