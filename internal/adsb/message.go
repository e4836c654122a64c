package adsb

import "modescore/internal/modes"

// Payload is implemented by every ADS-B record. A Message holds at most one.
type Payload interface {
	Format() MessageFormat
}

// Message is a decoded ADS-B or TIS-B squitter. It references, but does not
// own, the Mode S message it was decoded from.
type Message struct {
	ModeS  *modes.Message
	Format MessageFormat
	Type   uint8

	// TisbIcaoModeAFlag is the IMF bit of TIS-B and ADS-R messages. When set
	// the address field is a Mode A code or track number, not an ICAO address.
	TisbIcaoModeAFlag *bool

	payload Payload
}

// Payload returns the decoded record, or nil for FormatNone.
func (m *Message) Payload() Payload {
	return m.payload
}

// IsTisb reports whether the message was relayed by a ground station.
func (m *Message) IsTisb() bool {
	if m.ModeS == nil || m.ModeS.DownlinkFormat != modes.ExtendedSquitterNonTransponder {
		return false
	}
	switch m.ModeS.ControlField {
	case modes.ControlFieldFineTisb, modes.ControlFieldCoarseTisb, modes.ControlFieldFineTisbNonIcao, modes.ControlFieldAdsbRebroadcast:
		return true
	}
	return false
}

func (m *Message) IdentificationAndCategory() (*IdentifierAndCategory, bool) {
	p, ok := m.payload.(*IdentifierAndCategory)
	return p, ok
}

func (m *Message) SurfacePosition() (*SurfacePosition, bool) {
	p, ok := m.payload.(*SurfacePosition)
	return p, ok
}

func (m *Message) AirbornePosition() (*AirbornePosition, bool) {
	p, ok := m.payload.(*AirbornePosition)
	return p, ok
}

func (m *Message) AirborneVelocity() (*AirborneVelocity, bool) {
	p, ok := m.payload.(*AirborneVelocity)
	return p, ok
}

func (m *Message) AircraftStatus() (*AircraftStatus, bool) {
	p, ok := m.payload.(*AircraftStatus)
	return p, ok
}

func (m *Message) TargetStateAndStatusVersion1() (*TargetStateAndStatusVersion1, bool) {
	p, ok := m.payload.(*TargetStateAndStatusVersion1)
	return p, ok
}

func (m *Message) TargetStateAndStatusVersion2() (*TargetStateAndStatusVersion2, bool) {
	p, ok := m.payload.(*TargetStateAndStatusVersion2)
	return p, ok
}

func (m *Message) AircraftOperationalStatus() (*AircraftOperationalStatus, bool) {
	p, ok := m.payload.(*AircraftOperationalStatus)
	return p, ok
}

func (m *Message) CoarseTisbAirbornePosition() (*CoarseTisbAirbornePosition, bool) {
	p, ok := m.payload.(*CoarseTisbAirbornePosition)
	return p, ok
}

func (m *Message) SurfaceSystemStatus() (*SurfaceSystemStatus, bool) {
	p, ok := m.payload.(*SurfaceSystemStatus)
	return p, ok
}

func (m *Message) TestMessage() (*TestMessage, bool) {
	p, ok := m.payload.(*TestMessage)
	return p, ok
}

func (m *Message) NoPositionInformation() (*NoPositionInformation, bool) {
	p, ok := m.payload.(*NoPositionInformation)
	return p, ok
}
