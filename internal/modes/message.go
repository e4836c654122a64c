package modes

import (
	"errors"
	"fmt"
)

// ErrMalformedFrame is returned for frames whose length is not a Mode S frame
// length or does not match the length implied by their downlink format.
var ErrMalformedFrame = errors.New("malformed frame")

// Message is a parsed Mode S downlink frame. It is built once by Parse and
// must be treated as read-only afterwards; slices are private copies.
type Message struct {
	DownlinkFormat DownlinkFormat
	Icao24         uint32

	// ParityInterrogatorIdentifier is the PI field residual of formats that
	// carry one (DF11/17/18/19). It is nil for address/parity formats where
	// the ICAO address itself was recovered from the parity.
	ParityInterrogatorIdentifier *uint32
	Parity                       ParityKind

	Payload   []byte
	BitLength int

	Capability       Capability
	ControlField     ControlField
	ApplicationField uint8

	FlightStatus        FlightStatus
	DownlinkRequest     uint8
	UtilityMessage      uint8
	VerticalStatus      uint8
	CrossLinkCapability bool
	SensitivityLevel    uint8
	ReplyInformation    uint8

	Altitude         *int
	AltitudeIsMetric bool
	Identity         *int

	ExtendedSquitter []byte
	CommB            []byte
	AcasMV           []byte
}

// Parse decodes a raw 7 or 14 byte frame.
func Parse(frame []byte) (*Message, error) {
	if len(frame) != ShortFrameBytes && len(frame) != LongFrameBytes {
		return nil, fmt.Errorf("%w: length %d bytes", ErrMalformedFrame, len(frame))
	}

	df := DownlinkFormat(frame[0] >> 3)
	// DF24 only uses the first two bits
	if df >= 24 {
		df = CommD
	}
	if df.IsSupported() && df.BitLength() != len(frame)*8 {
		return nil, fmt.Errorf("%w: %s in %d bit frame", ErrMalformedFrame, df, len(frame)*8)
	}

	payload := make([]byte, len(frame))
	copy(payload, frame)

	msg := &Message{
		DownlinkFormat: df,
		Payload:        payload,
		BitLength:      len(frame) * 8,
	}

	residual := Residual(payload)

	switch df {
	case ShortAirToAirSurveillance:
		msg.VerticalStatus = uint8(Bits(payload, 6, 6))
		msg.CrossLinkCapability = Bit(payload, 7)
		msg.SensitivityLevel = uint8(Bits(payload, 9, 11))
		msg.ReplyInformation = uint8(Bits(payload, 14, 17))
		msg.Altitude, msg.AltitudeIsMetric = DecodeAC13(Bits(payload, 20, 32))
		msg.addressParity(residual)

	case SurveillanceAltitudeReply, CommBAltitudeReply:
		msg.surveillanceHeader()
		msg.Altitude, msg.AltitudeIsMetric = DecodeAC13(Bits(payload, 20, 32))
		if df == CommBAltitudeReply {
			msg.CommB = field56(payload)
		}
		msg.addressParity(residual)

	case SurveillanceIdentityReply, CommBIdentityReply:
		msg.surveillanceHeader()
		squawk := DecodeID13(Bits(payload, 20, 32))
		msg.Identity = &squawk
		if df == CommBIdentityReply {
			msg.CommB = field56(payload)
		}
		msg.addressParity(residual)

	case AllCallReply:
		msg.Capability = Capability(Bits(payload, 6, 8))
		msg.Icao24 = Bits(payload, 9, 32)
		msg.ParityInterrogatorIdentifier = &residual
		// The low seven bits carry the interrogator code
		if residual&0xffff80 == 0 {
			msg.Parity = ParityValid
		} else {
			msg.Parity = ParityInvalid
		}

	case LongAirToAirSurveillance:
		msg.VerticalStatus = uint8(Bits(payload, 6, 6))
		msg.SensitivityLevel = uint8(Bits(payload, 9, 11))
		msg.ReplyInformation = uint8(Bits(payload, 14, 17))
		msg.Altitude, msg.AltitudeIsMetric = DecodeAC13(Bits(payload, 20, 32))
		msg.AcasMV = field56(payload)
		msg.addressParity(residual)

	case ExtendedSquitter:
		msg.Capability = Capability(Bits(payload, 6, 8))
		msg.squitter(residual)

	case ExtendedSquitterNonTransponder:
		msg.ControlField = ControlField(Bits(payload, 6, 8))
		msg.squitter(residual)

	case MilitaryExtendedSquitter:
		msg.ApplicationField = uint8(Bits(payload, 6, 8))
		if msg.ApplicationField == 0 {
			msg.squitter(residual)
		}

	case CommD:
		msg.addressParity(residual)
	}

	return msg, nil
}

// FormattedIcao24 returns the address as six uppercase hex digits.
func (m *Message) FormattedIcao24() string {
	return fmt.Sprintf("%06X", m.Icao24)
}

// HasValidParity reports whether the frame carried a parity field that checked out.
func (m *Message) HasValidParity() bool {
	return m.Parity == ParityValid
}

func (m *Message) surveillanceHeader() {
	m.FlightStatus = FlightStatus(Bits(m.Payload, 6, 8))
	m.DownlinkRequest = uint8(Bits(m.Payload, 9, 13))
	m.UtilityMessage = uint8(Bits(m.Payload, 14, 19))
}

func (m *Message) addressParity(residual uint32) {
	m.Icao24 = residual
	m.Parity = ParityNone
}

func (m *Message) squitter(residual uint32) {
	m.Icao24 = Bits(m.Payload, 9, 32)
	m.ParityInterrogatorIdentifier = &residual
	if residual == 0 {
		m.Parity = ParityValid
	} else {
		m.Parity = ParityInvalid
	}
	m.ExtendedSquitter = field56(m.Payload)
}

// field56 copies the 56-bit ME/MB/MV field at bits 33..88
func field56(payload []byte) []byte {
	if len(payload) < LongFrameBytes {
		return nil
	}
	out := make([]byte, 7)
	copy(out, payload[4:11])
	return out
}
