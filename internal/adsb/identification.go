package adsb

import (
	"fmt"
	"strings"

	"modescore/internal/modes"
)

// EmitterCategory is the aircraft category from an identification message.
// Set is 'A' to 'D', derived from the type code; Code is the 3-bit category.
type EmitterCategory struct {
	Set  byte
	Code uint8
}

var emitterCategoryDescriptions = map[byte][8]string{
	'A': {"No information", "Light", "Small", "Large", "High vortex large", "Heavy", "High performance", "Rotorcraft"},
	'B': {"No information", "Glider", "Lighter than air", "Parachutist", "Ultralight", "Reserved", "Unmanned aerial vehicle", "Space vehicle"},
	'C': {"No information", "Emergency vehicle", "Service vehicle", "Point obstacle", "Cluster obstacle", "Line obstacle", "Reserved", "Reserved"},
	'D': {"No information", "Reserved", "Reserved", "Reserved", "Reserved", "Reserved", "Reserved", "Reserved"},
}

func (c EmitterCategory) String() string {
	return fmt.Sprintf("%c%d", c.Set, c.Code)
}

// Description returns a human readable category name
func (c EmitterCategory) Description() string {
	descriptions, ok := emitterCategoryDescriptions[c.Set]
	if !ok || c.Code > 7 {
		return "Unknown"
	}
	return descriptions[c.Code]
}

// IdentifierAndCategory is the TC1-4 identification record
type IdentifierAndCategory struct {
	Category EmitterCategory
	Callsign string
}

func (*IdentifierAndCategory) Format() MessageFormat { return FormatIdentificationAndCategory }

func decodeIdentification(me []byte, typeCode uint8) *IdentifierAndCategory {
	return &IdentifierAndCategory{
		Category: EmitterCategory{
			Set:  byte('A' + (typeIdentificationMax - typeCode)),
			Code: uint8(modes.Bits(me, 6, 8)),
		},
		Callsign: decodeCallsign(me, 9),
	}
}

// decodeCallsign reads eight 6-bit characters starting at firstBit
func decodeCallsign(data []byte, firstBit int) string {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		start := firstBit + i*6
		sb.WriteByte(callsignCharset[modes.Bits(data, start, start+5)])
	}
	return strings.TrimRight(sb.String(), " ")
}

// DecodeCommBIdentification extracts a callsign from a DF20/21 reply whose
// MB field holds an aircraft identification report (BDS 2,0).
func DecodeCommBIdentification(msg *modes.Message) (string, bool) {
	if msg == nil || len(msg.CommB) != 7 || msg.CommB[0] != commBIdentificationBds {
		return "", false
	}
	callsign := decodeCallsign(msg.CommB, 9)
	if strings.ContainsRune(callsign, '#') {
		return "", false
	}
	return callsign, true
}
