package modes

// Mode S CRC-24 generator polynomial
const generatorPoly = 0xfff409

// Pre-computed CRC table for byte-at-a-time division
var crcTable [256]uint32

func init() {
	for i := 0; i < 256; i++ {
		c := uint32(i) << 16
		for j := 0; j < 8; j++ {
			if c&0x800000 != 0 {
				c = (c << 1) ^ generatorPoly
			} else {
				c = c << 1
			}
		}
		crcTable[i] = c & 0x00ffffff
	}
}

// Checksum calculates the Mode S CRC-24 of data. Passing the payload without
// its trailing 24 parity bits yields the parity a transmitter would append.
func Checksum(data []byte) uint32 {
	var rem uint32
	for _, b := range data {
		rem = (rem << 8) ^ crcTable[uint32(b)^((rem&0xff0000)>>16)]
		rem &= 0xffffff
	}
	return rem
}

// Residual returns the parity residual of a complete frame: the checksum of the
// payload XORed with the transmitted parity field. It is zero for an undamaged
// extended squitter and the ICAO address for address/parity formats.
func Residual(frame []byte) uint32 {
	if len(frame) < 4 {
		return 0
	}
	n := len(frame) - 3
	parity := uint32(frame[n])<<16 | uint32(frame[n+1])<<8 | uint32(frame[n+2])
	return Checksum(frame[:n]) ^ parity
}

// AppendParity returns payload with the correct 24-bit parity appended, using
// overlay as the address/interrogator field XORed into the parity (0 for PI=0).
func AppendParity(payload []byte, overlay uint32) []byte {
	crc := Checksum(payload) ^ (overlay & 0xffffff)
	out := make([]byte, 0, len(payload)+3)
	out = append(out, payload...)
	return append(out, byte(crc>>16), byte(crc>>8), byte(crc))
}
