package modes

// Bits extracts bits firstBit..lastBit (1-based, inclusive, MSB first) from data.
// Out of range requests yield 0.
func Bits(data []byte, firstBit, lastBit int) uint32 {
	if firstBit < 1 || lastBit < firstBit || lastBit-firstBit >= 32 {
		return 0
	}

	// Convert to 0-based indexing
	fbi := firstBit - 1
	lbi := lastBit - 1
	nbi := lastBit - firstBit + 1

	fby := fbi / 8
	lby := lbi / 8
	if lby >= len(data) {
		return 0
	}

	shift := 7 - (lbi % 8)
	topMask := uint8(0xFF >> (fbi % 8))

	var result uint64
	for i := fby; i <= lby; i++ {
		if i == fby {
			result = uint64(data[i] & topMask)
		} else {
			result = (result << 8) | uint64(data[i])
		}
	}

	return uint32((result >> shift) & ((1 << nbi) - 1))
}

// Bit reports whether the single 1-based bit n of data is set.
func Bit(data []byte, n int) bool {
	return Bits(data, n, n) == 1
}
