package adsb

// MessageFormat identifies which ADS-B record a squitter carried
type MessageFormat int

const (
	FormatNone MessageFormat = iota
	FormatNoPositionInformation
	FormatIdentificationAndCategory
	FormatSurfacePosition
	FormatAirbornePosition
	FormatAirborneVelocity
	FormatSurfaceSystemStatus
	FormatTargetStateAndStatus
	FormatAircraftStatus
	FormatAircraftOperationalStatus
	FormatCoarseTisbAirbornePosition
	FormatTestMessage
)

// MessageFormatCount is the number of MessageFormat values, for sizing counters.
const MessageFormatCount = int(FormatTestMessage) + 1

var messageFormatNames = [...]string{
	FormatNone:                       "None",
	FormatNoPositionInformation:      "NoPositionInformation",
	FormatIdentificationAndCategory:  "IdentificationAndCategory",
	FormatSurfacePosition:            "SurfacePosition",
	FormatAirbornePosition:           "AirbornePosition",
	FormatAirborneVelocity:           "AirborneVelocity",
	FormatSurfaceSystemStatus:        "SurfaceSystemStatus",
	FormatTargetStateAndStatus:       "TargetStateAndStatus",
	FormatAircraftStatus:             "AircraftStatus",
	FormatAircraftOperationalStatus:  "AircraftOperationalStatus",
	FormatCoarseTisbAirbornePosition: "CoarseTisbAirbornePosition",
	FormatTestMessage:                "TestMessage",
}

func (f MessageFormat) String() string {
	if f < 0 || int(f) >= len(messageFormatNames) {
		return "Unknown"
	}
	return messageFormatNames[f]
}

// SurveillanceStatus is the SS field of airborne position squitters
type SurveillanceStatus uint8

const (
	SurveillanceNoCondition SurveillanceStatus = iota
	SurveillancePermanentAlert
	SurveillanceTemporaryAlert
	SurveillanceSpi
)

func (s SurveillanceStatus) String() string {
	switch s {
	case SurveillanceNoCondition:
		return "NoCondition"
	case SurveillancePermanentAlert:
		return "PermanentAlert"
	case SurveillanceTemporaryAlert:
		return "TemporaryAlert"
	case SurveillanceSpi:
		return "Spi"
	}
	return "Unknown"
}
