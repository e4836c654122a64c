package adsb

import (
	"github.com/sirupsen/logrus"

	"modescore/internal/modes"
)

// Counter receives one call per decoded squitter. FormatNone marks a
// squitter that could not be decoded.
type Counter interface {
	CountAdsbMessage(format MessageFormat, typeCode uint8)
}

// Decoder turns extended squitter payloads into typed ADS-B records
type Decoder struct {
	logger  *logrus.Logger
	counter Counter
}

// NewDecoder creates a new decoder. counter may be nil.
func NewDecoder(logger *logrus.Logger, counter Counter) *Decoder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Decoder{
		logger:  logger,
		counter: counter,
	}
}

// CarriesAdsb reports whether msg holds an ADS-B or TIS-B payload: DF17,
// DF18 with CF 0,1,2,3,5 or 6, and DF19 with AF 0.
func CarriesAdsb(msg *modes.Message) bool {
	if msg == nil || len(msg.ExtendedSquitter) != 7 {
		return false
	}
	switch msg.DownlinkFormat {
	case modes.ExtendedSquitter:
		return true
	case modes.ExtendedSquitterNonTransponder:
		return msg.ControlField != modes.ControlFieldTisbManagement && msg.ControlField != modes.ControlFieldReserved
	case modes.MilitaryExtendedSquitter:
		return msg.ApplicationField == 0
	}
	return false
}

// Decode decodes the extended squitter of msg. It returns nil when msg does
// not carry one, and a Message with FormatNone when the type code or
// subtype is not recognised.
func (d *Decoder) Decode(msg *modes.Message) *Message {
	if !CarriesAdsb(msg) {
		return nil
	}

	me := msg.ExtendedSquitter
	out := &Message{
		ModeS: msg,
		Type:  uint8(modes.Bits(me, 1, 5)),
	}

	if msg.DownlinkFormat == modes.ExtendedSquitterNonTransponder && msg.ControlField == modes.ControlFieldCoarseTisb {
		imf := modes.Bit(me, 1)
		out.TisbIcaoModeAFlag = &imf
		out.payload = decodeCoarseTisb(me)
	} else {
		out.payload = d.dispatch(out, me)
	}

	if out.payload != nil {
		out.Format = out.payload.Format()
	}

	if out.Format == FormatNone {
		d.logger.WithFields(logrus.Fields{
			"icao": msg.FormattedIcao24(),
			"df":   msg.DownlinkFormat,
			"tc":   out.Type,
		}).Debug("Unrecognised extended squitter")
	}
	if d.counter != nil {
		d.counter.CountAdsbMessage(out.Format, out.Type)
	}
	return out
}

func (d *Decoder) dispatch(out *Message, me []byte) Payload {
	tc := out.Type
	imfCarrier := out.IsTisb()

	switch {
	case tc == typeNoPosition:
		if alt := modes.DecodeAC12(modes.Bits(me, 9, 20)); alt != nil {
			return &NoPositionInformation{Altitude: alt}
		}
		return &NoPositionInformation{}

	case tc >= typeIdentificationMin && tc <= typeIdentificationMax:
		return decodeIdentification(me, tc)

	case tc >= typeSurfaceMin && tc <= typeSurfaceMax:
		p := decodeSurfacePosition(me, tc)
		if imfCarrier {
			imf := p.TimeSynchronized
			out.TisbIcaoModeAFlag = &imf
			p.TimeSynchronized = false
		}
		return p

	case tc >= typeAirborneBaroMin && tc <= typeAirborneBaroMax,
		tc >= typeAirborneGnssMin && tc <= typeAirborneGnssMax:
		p := decodeAirbornePosition(me, tc)
		if imfCarrier {
			imf := p.NicSupplementB
			out.TisbIcaoModeAFlag = &imf
			p.NicSupplementB = false
		}
		return p

	case tc == typeAirborneVelocity:
		v, ok := decodeAirborneVelocity(me)
		if !ok {
			return nil
		}
		if imfCarrier {
			imf := v.IntentChange
			out.TisbIcaoModeAFlag = &imf
			v.IntentChange = false
		}
		return v

	case tc == typeTestMessage:
		return decodeTestMessage(me)

	case tc == typeSurfaceSystem:
		return &SurfaceSystemStatus{Subtype: uint8(modes.Bits(me, 6, 8)), Data: append([]byte(nil), me...)}

	case tc == typeAircraftStatus:
		if s, ok := decodeAircraftStatus(me); ok {
			return s
		}

	case tc == typeTargetStateStatus:
		if p, ok := decodeTargetStateAndStatus(me); ok {
			if _, isV2 := p.(*TargetStateAndStatusVersion2); isV2 && imfCarrier {
				imf := modes.Bit(me, 51)
				out.TisbIcaoModeAFlag = &imf
			}
			return p
		}

	case tc == typeOperationalStatus:
		if s, ok := decodeOperationalStatus(me); ok {
			return s
		}
	}

	return nil
}
