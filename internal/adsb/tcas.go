package adsb

import (
	"fmt"

	"modescore/internal/modes"
)

// ThreatIdentityType is the TTI field: how the threat identity is encoded
type ThreatIdentityType uint8

const (
	ThreatIdentityNone ThreatIdentityType = iota
	ThreatIdentityIcao24
	ThreatIdentityPosition
	ThreatIdentityReserved
)

// SingleThreatResolutionAdvisory holds the ARA bits when one threat is present
type SingleThreatResolutionAdvisory struct {
	Corrective       bool
	DownwardSense    bool
	IncreasedRate    bool
	SenseReversal    bool
	AltitudeCrossing bool
	Positive         bool
}

// MultipleThreatResolutionAdvisory holds the ARA bits for multiple threat encounters
type MultipleThreatResolutionAdvisory struct {
	CorrectionUpwards   bool
	PositiveClimb       bool
	CorrectionDownwards bool
	PositiveDescend     bool
	AltitudeCrossing    bool
	SenseReversal       bool
}

// ResolutionAdvisoryComplement is the RAC field
type ResolutionAdvisoryComplement struct {
	DoNotPassBelow bool
	DoNotPassAbove bool
	DoNotTurnLeft  bool
	DoNotTurnRight bool
}

// TcasResolutionAdvisory is an ACAS RA report, from TC28 subtype 2 or a DF16 MV field
type TcasResolutionAdvisory struct {
	ActiveResolutionAdvisory uint16

	SingleThreatResolutionAdvisory   *SingleThreatResolutionAdvisory
	MultipleThreatResolutionAdvisory *MultipleThreatResolutionAdvisory
	ResolutionAdvisoryComplement     ResolutionAdvisoryComplement
	ResolutionAdvisoryTerminated     bool
	MultipleThreatEncounter          bool

	ThreatIdentityType  ThreatIdentityType
	ThreatIcao24        uint32
	ThreatAltitude      *int
	ThreatRange         *float64
	ThreatRangeExceeded bool
	ThreatBearing       *int
}

// FormattedThreatIcao24 returns the threat address as six uppercase hex
// digits, or false when no address was reported.
func (r *TcasResolutionAdvisory) FormattedThreatIcao24() (string, bool) {
	if r.ThreatIcao24 == 0 {
		return "", false
	}
	return fmt.Sprintf("%06X", r.ThreatIcao24), true
}

// decodeResolutionAdvisory reads an RA from a 56-bit field laid out as the
// TC28 ME or DF16 MV field, where the ARA starts at bit 9.
func decodeResolutionAdvisory(field []byte) *TcasResolutionAdvisory {
	ra := &TcasResolutionAdvisory{
		ActiveResolutionAdvisory:     uint16(modes.Bits(field, 9, 22)),
		ResolutionAdvisoryTerminated: modes.Bit(field, 27),
		MultipleThreatEncounter:      modes.Bit(field, 28),
		ThreatIdentityType:           ThreatIdentityType(modes.Bits(field, 29, 30)),
	}

	rac := modes.Bits(field, 23, 26)
	ra.ResolutionAdvisoryComplement = ResolutionAdvisoryComplement{
		DoNotPassBelow: rac&8 != 0,
		DoNotPassAbove: rac&4 != 0,
		DoNotTurnLeft:  rac&2 != 0,
		DoNotTurnRight: rac&1 != 0,
	}

	switch {
	case modes.Bit(field, 9):
		ra.SingleThreatResolutionAdvisory = &SingleThreatResolutionAdvisory{
			Corrective:       modes.Bit(field, 10),
			DownwardSense:    modes.Bit(field, 11),
			IncreasedRate:    modes.Bit(field, 12),
			SenseReversal:    modes.Bit(field, 13),
			AltitudeCrossing: modes.Bit(field, 14),
			Positive:         modes.Bit(field, 15),
		}
	case ra.MultipleThreatEncounter:
		ra.MultipleThreatResolutionAdvisory = &MultipleThreatResolutionAdvisory{
			CorrectionUpwards:   modes.Bit(field, 10),
			PositiveClimb:       modes.Bit(field, 11),
			CorrectionDownwards: modes.Bit(field, 12),
			PositiveDescend:     modes.Bit(field, 13),
			AltitudeCrossing:    modes.Bit(field, 14),
			SenseReversal:       modes.Bit(field, 15),
		}
	}

	switch ra.ThreatIdentityType {
	case ThreatIdentityIcao24:
		ra.ThreatIcao24 = modes.Bits(field, 31, 54)
	case ThreatIdentityPosition:
		ra.ThreatAltitude, _ = modes.DecodeAC13(modes.Bits(field, 31, 43))
		if raw := modes.Bits(field, 44, 50); raw != 0 {
			nm := float64(raw-1) / 10
			ra.ThreatRange = &nm
			ra.ThreatRangeExceeded = raw == tcasRangeExceededRaw
		}
		if raw := modes.Bits(field, 51, 56); raw >= 1 && raw <= tcasBearingMaxRaw {
			bearing := int(raw-1) * tcasBearingStepDeg
			ra.ThreatBearing = &bearing
		}
	}

	return ra
}

// DecodeAcas extracts a resolution advisory from a DF16 long air-air
// surveillance reply. It returns false unless the MV field holds an RA report.
func DecodeAcas(msg *modes.Message) (*TcasResolutionAdvisory, bool) {
	if msg == nil || msg.DownlinkFormat != modes.LongAirToAirSurveillance || len(msg.AcasMV) != 7 {
		return nil, false
	}
	if msg.AcasMV[0] != acasResolutionAdvisoryVds {
		return nil, false
	}
	return decodeResolutionAdvisory(msg.AcasMV), true
}
