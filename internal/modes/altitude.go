package modes

// Squawk digit multipliers used when folding the four octal Mode A digits
// into a single decimal-looking integer (7700 for an emergency squawk).
const (
	squawkAMultiplier = 1000
	squawkBMultiplier = 100
	squawkCMultiplier = 10
	squawkDMultiplier = 1
)

// Field masks
const (
	ac13MetricBit = 0x0040
	ac13QBit      = 0x0010
	ac12QBit      = 0x0010
)

// DecodeAC13 decodes the 13-bit altitude code of DF0/4/16/20. It returns the
// altitude in feet and whether the metric bit was set. Metric altitudes and
// unavailable or invalid codes yield a nil altitude.
func DecodeAC13(field uint32) (*int, bool) {
	field &= 0x1fff
	if field == 0 {
		return nil, false
	}
	if field&ac13MetricBit != 0 {
		return nil, true
	}

	if field&ac13QBit != 0 {
		n := int((field&0x1f80)>>2 | (field&0x0020)>>1 | field&0x000f)
		alt := n*25 - 1000
		return &alt, false
	}

	hundreds, ok := GillhamToHundreds(hexGillham(field))
	if !ok {
		return nil, false
	}
	alt := hundreds * 100
	return &alt, false
}

// DecodeAC12 decodes the 12-bit altitude code carried by airborne position
// squitters. The field has no metric bit.
func DecodeAC12(field uint32) *int {
	field &= 0x0fff
	if field == 0 {
		return nil
	}

	if field&ac12QBit != 0 {
		n := int((field&0x0fe0)>>1 | field&0x000f)
		alt := n*25 - 1000
		return &alt
	}

	// Re-insert M=0 at bit 6 to get the 13-bit Gillham layout
	ac13 := (field&0x0fc0)<<1 | field&0x003f
	hundreds, ok := GillhamToHundreds(hexGillham(ac13))
	if !ok {
		return nil
	}
	alt := hundreds * 100
	return &alt
}

// DecodeID13 decodes the 13-bit identity field of DF5/21 into a squawk such as
// 7700. A zero field is a valid squawk of 0000.
func DecodeID13(field uint32) int {
	h := hexGillham(field & 0x1fff)
	a := int(h>>12) & 7
	b := int(h>>8) & 7
	c := int(h>>4) & 7
	d := int(h) & 7
	return a*squawkAMultiplier + b*squawkBMultiplier + c*squawkCMultiplier + d*squawkDMultiplier
}

// hexGillham reorders the interleaved C1 A1 C2 A2 C4 A4 X B1 D1 B2 D2 B4 D4
// pulses of a 13-bit field into 0xABCD nibbles, one octal digit per nibble.
func hexGillham(field uint32) uint32 {
	var h uint32
	pulses := []struct {
		in, out uint32
	}{
		{0x1000, 0x0010}, // C1
		{0x0800, 0x1000}, // A1
		{0x0400, 0x0020}, // C2
		{0x0200, 0x2000}, // A2
		{0x0100, 0x0040}, // C4
		{0x0080, 0x4000}, // A4
		{0x0020, 0x0100}, // B1
		{0x0010, 0x0001}, // D1
		{0x0008, 0x0200}, // B2
		{0x0004, 0x0002}, // D2
		{0x0002, 0x0400}, // B4
		{0x0001, 0x0004}, // D4
	}
	for _, p := range pulses {
		if field&p.in != 0 {
			h |= p.out
		}
	}
	return h
}

// GillhamToHundreds converts a Gillham code in 0xABCD nibble layout into an
// altitude in hundreds of feet. It reports false for codes that cannot occur.
func GillhamToHundreds(code uint32) (int, bool) {
	// D1 never carries altitude and at least one C pulse is required
	if code&0xffff8889 != 0 || code&0x00f0 == 0 {
		return 0, false
	}

	var oneHundreds, fiveHundreds uint32
	if code&0x0010 != 0 {
		oneHundreds ^= 0x007
	}
	if code&0x0020 != 0 {
		oneHundreds ^= 0x003
	}
	if code&0x0040 != 0 {
		oneHundreds ^= 0x001
	}
	// Swap 5 and 7
	if oneHundreds&5 == 5 {
		oneHundreds ^= 2
	}
	if oneHundreds > 5 {
		return 0, false
	}

	steps := []struct {
		bit, flip uint32
	}{
		{0x0002, 0x0ff}, // D2
		{0x0004, 0x07f}, // D4
		{0x1000, 0x03f}, // A1
		{0x2000, 0x01f}, // A2
		{0x4000, 0x00f}, // A4
		{0x0100, 0x007}, // B1
		{0x0200, 0x003}, // B2
		{0x0400, 0x001}, // B4
	}
	for _, s := range steps {
		if code&s.bit != 0 {
			fiveHundreds ^= s.flip
		}
	}

	if fiveHundreds&1 != 0 {
		oneHundreds = 6 - oneHundreds
	}

	n := int(fiveHundreds*5+oneHundreds) - 13
	if n < -12 {
		return 0, false
	}
	return n, true
}
