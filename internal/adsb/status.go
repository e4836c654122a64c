package adsb

import "modescore/internal/modes"

// EmergencyState is the emergency/priority code of TC28 subtype 1
type EmergencyState uint8

const (
	EmergencyNone EmergencyState = iota
	EmergencyGeneral
	EmergencyLifeguard
	EmergencyMinimumFuel
	EmergencyNoCommunications
	EmergencyUnlawfulInterference
	EmergencyDownedAircraft
	EmergencyReserved
)

var emergencyStateNames = [...]string{
	"None", "General", "Lifeguard", "MinimumFuel", "NoCommunications", "UnlawfulInterference", "DownedAircraft", "Reserved",
}

func (e EmergencyState) String() string {
	if int(e) < len(emergencyStateNames) {
		return emergencyStateNames[e]
	}
	return "Unknown"
}

// AircraftStatus subtypes
const (
	AircraftStatusEmergency          = 1
	AircraftStatusResolutionAdvisory = 2
)

// AircraftStatus is the TC28 record. Subtype 1 reports emergency state and
// Mode A code, subtype 2 a TCAS resolution advisory.
type AircraftStatus struct {
	Subtype            uint8
	Emergency          EmergencyState
	ModeA              *int
	ResolutionAdvisory *TcasResolutionAdvisory
}

func (*AircraftStatus) Format() MessageFormat { return FormatAircraftStatus }

func decodeAircraftStatus(me []byte) (*AircraftStatus, bool) {
	s := &AircraftStatus{Subtype: uint8(modes.Bits(me, 6, 8))}
	switch s.Subtype {
	case AircraftStatusEmergency:
		s.Emergency = EmergencyState(modes.Bits(me, 9, 11))
		squawk := modes.DecodeID13(modes.Bits(me, 12, 24))
		s.ModeA = &squawk
	case AircraftStatusResolutionAdvisory:
		s.ResolutionAdvisory = decodeResolutionAdvisory(me)
	default:
		return nil, false
	}
	return s, true
}

// SurfaceSystemStatus is the TC24 record. Its content is not standardised
// beyond the subtype.
type SurfaceSystemStatus struct {
	Subtype uint8
	Data    []byte
}

func (*SurfaceSystemStatus) Format() MessageFormat { return FormatSurfaceSystemStatus }

// TestMessage is the TC23 record. Subtype 7 carries the Mode A code.
type TestMessage struct {
	Subtype uint8
	ModeA   *int
	Data    []byte
}

func (*TestMessage) Format() MessageFormat { return FormatTestMessage }

const testMessageModeASubtype = 7

func decodeTestMessage(me []byte) *TestMessage {
	t := &TestMessage{Subtype: uint8(modes.Bits(me, 6, 8)), Data: append([]byte(nil), me...)}
	if t.Subtype == testMessageModeASubtype {
		squawk := modes.DecodeID13(modes.Bits(me, 9, 21))
		t.ModeA = &squawk
	}
	return t
}
