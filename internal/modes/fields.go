package modes

import "fmt"

// DownlinkFormat is the 5-bit DF field that opens every Mode S reply
type DownlinkFormat uint8

// Downlink formats understood by the decoder
const (
	ShortAirToAirSurveillance      DownlinkFormat = 0
	SurveillanceAltitudeReply      DownlinkFormat = 4
	SurveillanceIdentityReply      DownlinkFormat = 5
	AllCallReply                   DownlinkFormat = 11
	LongAirToAirSurveillance       DownlinkFormat = 16
	ExtendedSquitter               DownlinkFormat = 17
	ExtendedSquitterNonTransponder DownlinkFormat = 18
	MilitaryExtendedSquitter       DownlinkFormat = 19
	CommBAltitudeReply             DownlinkFormat = 20
	CommBIdentityReply             DownlinkFormat = 21
	CommD                          DownlinkFormat = 24
)

var downlinkFormatNames = map[DownlinkFormat]string{
	ShortAirToAirSurveillance:      "ShortAirToAirSurveillance",
	SurveillanceAltitudeReply:      "SurveillanceAltitudeReply",
	SurveillanceIdentityReply:      "SurveillanceIdentityReply",
	AllCallReply:                   "AllCallReply",
	LongAirToAirSurveillance:       "LongAirToAirSurveillance",
	ExtendedSquitter:               "ExtendedSquitter",
	ExtendedSquitterNonTransponder: "ExtendedSquitterNonTransponder",
	MilitaryExtendedSquitter:       "MilitaryExtendedSquitter",
	CommBAltitudeReply:             "CommBAltitudeReply",
	CommBIdentityReply:             "CommBIdentityReply",
	CommD:                          "CommD",
}

func (df DownlinkFormat) String() string {
	if name, ok := downlinkFormatNames[df]; ok {
		return name
	}
	return fmt.Sprintf("DF%d", uint8(df))
}

// IsSupported reports whether the decoder knows the layout of df
func (df DownlinkFormat) IsSupported() bool {
	_, ok := downlinkFormatNames[df]
	return ok
}

// BitLength returns the frame length in bits for df
func (df DownlinkFormat) BitLength() int {
	if df >= 16 {
		return LongFrameBits
	}
	return ShortFrameBits
}

// Frame sizes
const (
	ShortFrameBits  = 56
	LongFrameBits   = 112
	ShortFrameBytes = ShortFrameBits / 8
	LongFrameBytes  = LongFrameBits / 8
)

// Capability is the CA field of DF11 and DF17
type Capability uint8

const (
	CapabilityLevel1              Capability = 0
	CapabilityLevel2OnGround      Capability = 4
	CapabilityLevel2Airborne      Capability = 5
	CapabilityLevel2OnGroundOrAir Capability = 6
	CapabilityDownlinkRequest     Capability = 7
)

func (c Capability) String() string {
	switch c {
	case CapabilityLevel1:
		return "Level1"
	case CapabilityLevel2OnGround:
		return "Level2OnGround"
	case CapabilityLevel2Airborne:
		return "Level2Airborne"
	case CapabilityLevel2OnGroundOrAir:
		return "Level2OnGroundOrAirborne"
	case CapabilityDownlinkRequest:
		return "DownlinkRequest"
	}
	return "Reserved"
}

// ControlField is the CF field of DF18
type ControlField uint8

const (
	ControlFieldAdsbIcao        ControlField = 0
	ControlFieldAdsbNonIcao     ControlField = 1
	ControlFieldFineTisb        ControlField = 2
	ControlFieldCoarseTisb      ControlField = 3
	ControlFieldTisbManagement  ControlField = 4
	ControlFieldFineTisbNonIcao ControlField = 5
	ControlFieldAdsbRebroadcast ControlField = 6
	ControlFieldReserved        ControlField = 7
)

func (cf ControlField) String() string {
	switch cf {
	case ControlFieldAdsbIcao:
		return "AdsbIcao"
	case ControlFieldAdsbNonIcao:
		return "AdsbNonIcao"
	case ControlFieldFineTisb:
		return "FineTisb"
	case ControlFieldCoarseTisb:
		return "CoarseTisb"
	case ControlFieldTisbManagement:
		return "TisbManagement"
	case ControlFieldFineTisbNonIcao:
		return "FineTisbNonIcao"
	case ControlFieldAdsbRebroadcast:
		return "AdsbRebroadcast"
	}
	return "Reserved"
}

// FlightStatus is the FS field of DF4, DF5, DF20 and DF21
type FlightStatus uint8

const (
	FlightStatusAirborne      FlightStatus = 0
	FlightStatusOnGround      FlightStatus = 1
	FlightStatusAlertAirborne FlightStatus = 2
	FlightStatusAlertOnGround FlightStatus = 3
	FlightStatusAlertSpi      FlightStatus = 4
	FlightStatusSpi           FlightStatus = 5
)

// IsOnGround reports whether the status positively identifies a grounded aircraft
func (fs FlightStatus) IsOnGround() bool {
	return fs == FlightStatusOnGround || fs == FlightStatusAlertOnGround
}

// HasAlert reports whether the Mode A code has changed or an emergency is squawked
func (fs FlightStatus) HasAlert() bool {
	return fs == FlightStatusAlertAirborne || fs == FlightStatusAlertOnGround || fs == FlightStatusAlertSpi
}

// HasSpi reports whether the special position identification pulse is set
func (fs FlightStatus) HasSpi() bool {
	return fs == FlightStatusAlertSpi || fs == FlightStatusSpi
}

// ParityKind classifies how the ICAO address of a frame was obtained
type ParityKind uint8

const (
	// ParityNone means the address was recovered from address/parity overlay,
	// so it cannot be checked and may be noise.
	ParityNone ParityKind = iota
	// ParityValid means the frame carried a parity field that checked out.
	ParityValid
	// ParityInvalid means the frame carried a parity field that did not check out.
	ParityInvalid
)

func (p ParityKind) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityValid:
		return "valid"
	case ParityInvalid:
		return "invalid"
	}
	return "unknown"
}
