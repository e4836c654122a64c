package adsb

import "modescore/internal/modes"

// Target state and status subtypes
const (
	targetStateVersion1 = 0
	targetStateVersion2 = 1
)

// SelectedAltitudeType tells which system the selected altitude came from
type SelectedAltitudeType uint8

const (
	SelectedAltitudeMcpFcu SelectedAltitudeType = iota
	SelectedAltitudeFms
)

// TargetStateAndStatusVersion2 is the TC29 subtype 1 record
type TargetStateAndStatusVersion2 struct {
	SilSupplement        bool
	SelectedAltitudeType SelectedAltitudeType
	// SelectedAltitude in feet
	SelectedAltitude *int
	// BarometricPressureSetting in millibars
	BarometricPressureSetting *float64
	SelectedHeading           *float64

	NavigationAccuracyPosition uint8
	NicBaro                    bool
	SourceIntegrityLevel       uint8

	ModeIndicatorsValid bool
	Autopilot           bool
	VnavMode            bool
	AltitudeHoldMode    bool
	ApproachMode        bool
	TcasOperational     bool
	LnavMode            bool
}

func (*TargetStateAndStatusVersion2) Format() MessageFormat { return FormatTargetStateAndStatus }

// ModeIndicator is the vertical or horizontal mode of a version 1 target state
type ModeIndicator uint8

const (
	ModeUnknown ModeIndicator = iota
	ModeAcquiring
	ModeCapturingOrMaintaining
	ModeReserved
)

// TargetStateAndStatusVersion1 is the TC29 subtype 0 record
type TargetStateAndStatusVersion1 struct {
	VerticalDataSource          uint8
	TargetAltitudeIsFlightLevel bool
	TargetAltitudeCapability    uint8
	VerticalMode                ModeIndicator
	TargetAltitude              *int

	HorizontalDataSource uint8
	TargetHeading        *int
	TargetIsTrack        bool
	HorizontalMode       ModeIndicator

	NavigationAccuracyPosition uint8
	NicBaro                    bool
	SourceIntegrityLevel       uint8
	TcasCapability             uint8
	Emergency                  EmergencyState
}

func (*TargetStateAndStatusVersion1) Format() MessageFormat { return FormatTargetStateAndStatus }

func decodeTargetStateAndStatus(me []byte) (Payload, bool) {
	switch modes.Bits(me, 6, 7) {
	case targetStateVersion1:
		return decodeTargetStateVersion1(me), true
	case targetStateVersion2:
		return decodeTargetStateVersion2(me), true
	}
	return nil, false
}

func decodeTargetStateVersion2(me []byte) *TargetStateAndStatusVersion2 {
	t := &TargetStateAndStatusVersion2{
		SilSupplement:              modes.Bit(me, 8),
		SelectedAltitudeType:       SelectedAltitudeType(modes.Bits(me, 9, 9)),
		NavigationAccuracyPosition: uint8(modes.Bits(me, 40, 43)),
		NicBaro:                    modes.Bit(me, 44),
		SourceIntegrityLevel:       uint8(modes.Bits(me, 45, 46)),
		ModeIndicatorsValid:        modes.Bit(me, 47),
	}

	if raw := modes.Bits(me, 10, 20); raw != 0 {
		alt := int(raw-1) * selectedAltitudeStepFt
		t.SelectedAltitude = &alt
	}
	if raw := modes.Bits(me, 21, 29); raw != 0 {
		qnh := baroSettingBaseMb + float64(raw-1)*baroSettingStepMb
		t.BarometricPressureSetting = &qnh
	}
	if modes.Bit(me, 30) {
		heading := float64(modes.Bits(me, 31, 39)) * targetStateHeadingScale
		t.SelectedHeading = &heading
	}
	if t.ModeIndicatorsValid {
		t.Autopilot = modes.Bit(me, 48)
		t.VnavMode = modes.Bit(me, 49)
		t.AltitudeHoldMode = modes.Bit(me, 50)
		t.ApproachMode = modes.Bit(me, 52)
		t.LnavMode = modes.Bit(me, 54)
	}
	t.TcasOperational = modes.Bit(me, 53)
	return t
}

func decodeTargetStateVersion1(me []byte) *TargetStateAndStatusVersion1 {
	t := &TargetStateAndStatusVersion1{
		VerticalDataSource:          uint8(modes.Bits(me, 8, 9)),
		TargetAltitudeIsFlightLevel: !modes.Bit(me, 10),
		TargetAltitudeCapability:    uint8(modes.Bits(me, 12, 13)),
		VerticalMode:                ModeIndicator(modes.Bits(me, 14, 15)),
		HorizontalDataSource:        uint8(modes.Bits(me, 26, 27)),
		TargetIsTrack:               modes.Bit(me, 37),
		HorizontalMode:              ModeIndicator(modes.Bits(me, 38, 39)),
		NavigationAccuracyPosition:  uint8(modes.Bits(me, 40, 43)),
		NicBaro:                     modes.Bit(me, 44),
		SourceIntegrityLevel:        uint8(modes.Bits(me, 45, 46)),
		TcasCapability:              uint8(modes.Bits(me, 52, 53)),
		Emergency:                   EmergencyState(modes.Bits(me, 54, 56)),
	}

	if t.VerticalDataSource != 0 {
		if raw := modes.Bits(me, 16, 25); raw <= targetAltitudeMaxRaw {
			alt := targetAltitudeOffsetFt + int(raw)*targetAltitudeStepFt
			t.TargetAltitude = &alt
		}
	}
	if t.HorizontalDataSource != 0 {
		if raw := modes.Bits(me, 28, 36); raw < 360 {
			heading := int(raw)
			t.TargetHeading = &heading
		}
	}
	return t
}
