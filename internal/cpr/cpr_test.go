package cpr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-4

var (
	evenFrame = Coordinate{Latitude: 93000, Longitude: 51372, Bits: AirborneBits}
	oddFrame  = Coordinate{Latitude: 74158, Longitude: 50194, IsOdd: true, Bits: AirborneBits}
)

// TestNL tests the longitude zone lookup table
func TestNL(t *testing.T) {
	tests := []struct {
		name     string
		latitude float64
		expected int
	}{
		{name: "Equator", latitude: 0, expected: 59},
		{name: "Just below first boundary", latitude: 10.47, expected: 59},
		{name: "Just above first boundary", latitude: 10.4705, expected: 58},
		{name: "Amsterdam", latitude: 52.25, expected: 36},
		{name: "Southern hemisphere mirrors north", latitude: -52.25, expected: 36},
		{name: "Polar", latitude: 87, expected: 1},
		{name: "Pole", latitude: 90, expected: 1},
		{name: "Last zone", latitude: 86.9, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NL(tt.latitude))
		})
	}
}

func TestNFunction(t *testing.T) {
	assert.Equal(t, 59, nFunction(0, 0))
	assert.Equal(t, 58, nFunction(0, 1))
	assert.Equal(t, 1, nFunction(89, 1))
	assert.InDelta(t, 360.0/59, dlonFunction(0, 0, false), 1e-9)
	assert.InDelta(t, 90.0/58, dlonFunction(0, 1, true), 1e-9)
}

// TestGlobalDecodeAirborne tests the reference even/odd pair for 40621D
func TestGlobalDecodeAirborne(t *testing.T) {
	tests := []struct {
		name        string
		oddIsLatest bool
		lat         float64
		lon         float64
	}{
		{name: "Even received last", oddIsLatest: false, lat: 52.25720, lon: 3.91937},
		{name: "Odd received last", oddIsLatest: true, lat: 52.26578, lon: 3.93891},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := GlobalDecode(evenFrame, oddFrame, tt.oddIsLatest, nil)
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, pos.Latitude, tolerance)
			assert.InDelta(t, tt.lon, pos.Longitude, tolerance)
		})
	}
}

// TestGlobalDecodeDeterministic tests that the same pair always yields the
// same answer whichever order the frames are passed in
func TestGlobalDecodeDeterministic(t *testing.T) {
	surfaceEven := Encode(-33.89, 151.18, false, true, AirborneBits)
	surfaceOdd := Encode(-33.89, 151.18, true, true, AirborneBits)
	sydney := &Position{Latitude: -33.9, Longitude: 151.2}

	tests := []struct {
		name      string
		even      Coordinate
		odd       Coordinate
		reference *Position
	}{
		{name: "Airborne", even: evenFrame, odd: oddFrame},
		{name: "Surface", even: surfaceEven, odd: surfaceOdd, reference: sydney},
	}

	for _, tt := range tests {
		for _, oddIsLatest := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/oddIsLatest=%t", tt.name, oddIsLatest), func(t *testing.T) {
				first, err := GlobalDecode(tt.even, tt.odd, oddIsLatest, tt.reference)
				require.NoError(t, err)

				swapped, err := GlobalDecode(tt.odd, tt.even, oddIsLatest, tt.reference)
				require.NoError(t, err)
				assert.Equal(t, first, swapped)

				for i := 0; i < 10; i++ {
					again, err := GlobalDecode(tt.even, tt.odd, oddIsLatest, tt.reference)
					require.NoError(t, err)
					assert.Equal(t, first, again)
				}
			})
		}
	}
}

func TestGlobalDecodeErrors(t *testing.T) {
	surfaceEven := Encode(51.99, 4.37, false, true, AirborneBits)
	surfaceOdd := Encode(51.99, 4.37, true, true, AirborneBits)

	tests := []struct {
		name      string
		earlier   Coordinate
		later     Coordinate
		reference *Position
		err       error
	}{
		{name: "Two even frames", earlier: evenFrame, later: evenFrame, err: ErrIncompatiblePair},
		{name: "Two odd frames", earlier: oddFrame, later: oddFrame, err: ErrIncompatiblePair},
		{name: "Surface and airborne", earlier: evenFrame, later: surfaceOdd, reference: &Position{}, err: ErrIncompatiblePair},
		{name: "Different widths", earlier: evenFrame, later: Coordinate{IsOdd: true, Bits: CoarseTisbBits}, err: ErrIncompatiblePair},
		{name: "Surface without reference", earlier: surfaceEven, later: surfaceOdd, err: ErrNoReference},
		{
			name:    "Pair straddles zone boundary",
			earlier: Coordinate{Latitude: 97539, Longitude: 36409, Bits: AirborneBits},
			later:   Coordinate{Latitude: 93966, Longitude: 21845, IsOdd: true, Bits: AirborneBits},
			err:     ErrZoneMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GlobalDecode(tt.earlier, tt.later, tt.later.IsOdd, tt.reference)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// TestGlobalDecodeSurface tests quadrant resolution against a reference
func TestGlobalDecodeSurface(t *testing.T) {
	tests := []struct {
		name      string
		reference Position
		lat       float64
		lon       float64
	}{
		{name: "Schiphol", reference: Position{Latitude: 51.99, Longitude: 4.37}, lat: 52.0, lon: 4.35},
		{name: "Sydney", reference: Position{Latitude: -33.9, Longitude: 151.2}, lat: -33.89, lon: 151.18},
		{name: "JFK", reference: Position{Latitude: 40.6, Longitude: -73.8}, lat: 40.61, lon: -73.82},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			even := Encode(tt.lat, tt.lon, false, true, AirborneBits)
			odd := Encode(tt.lat, tt.lon, true, true, AirborneBits)
			ref := tt.reference

			pos, err := GlobalDecode(even, odd, true, &ref)
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, pos.Latitude, tolerance)
			assert.InDelta(t, tt.lon, pos.Longitude, tolerance)
		})
	}
}

// TestLocalDecode tests single frame decoding against a nearby reference
func TestLocalDecode(t *testing.T) {
	pos, err := LocalDecode(evenFrame, Position{Latitude: 52.258, Longitude: 3.918})
	require.NoError(t, err)
	assert.InDelta(t, 52.25720, pos.Latitude, tolerance)
	assert.InDelta(t, 3.91937, pos.Longitude, tolerance)

	surface := Encode(-33.89, 151.18, false, true, AirborneBits)
	pos, err = LocalDecode(surface, Position{Latitude: -33.9, Longitude: 151.2})
	require.NoError(t, err)
	assert.InDelta(t, -33.89, pos.Latitude, tolerance)
	assert.InDelta(t, 151.18, pos.Longitude, tolerance)
}

func TestLocalDecodeInvalidLatitude(t *testing.T) {
	c := Coordinate{Latitude: 1311, Longitude: 0, Bits: AirborneBits}
	_, err := LocalDecode(c, Position{Latitude: 89.9, Longitude: 0})
	assert.ErrorIs(t, err, ErrInvalidLatitude)
}

// TestEncodeDecodeRoundTrip tests encoder output against both decoders. The
// longitude tolerance is one 17 bit step of the zone, which widens near the poles.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	positions := []Position{
		{Latitude: 52.2572, Longitude: 3.91937},
		{Latitude: -33.9, Longitude: 151.2},
		{Latitude: 40.6, Longitude: -73.8},
		{Latitude: -22.9, Longitude: -43.2},
		{Latitude: 0.05, Longitude: -0.05},
		{Latitude: 85.5, Longitude: 179.9},
	}

	for _, p := range positions {
		t.Run(p.String(), func(t *testing.T) {
			even := Encode(p.Latitude, p.Longitude, false, false, AirborneBits)
			odd := Encode(p.Latitude, p.Longitude, true, false, AirborneBits)

			for _, oddIsLatest := range []bool{false, true} {
				latest := even
				if oddIsLatest {
					latest = odd
				}
				lonTolerance := dlonFunction(p.Latitude, latest.fflag(), false) / (1 << AirborneBits)

				pos, err := GlobalDecode(even, odd, oddIsLatest, nil)
				require.NoError(t, err)
				assert.InDelta(t, p.Latitude, pos.Latitude, tolerance)
				assert.InDelta(t, p.Longitude, pos.Longitude, lonTolerance)
			}

			ref := Position{Latitude: p.Latitude + 1, Longitude: p.Longitude - 1}
			pos, err := LocalDecode(even, ref)
			require.NoError(t, err)
			assert.InDelta(t, p.Latitude, pos.Latitude, tolerance)
			assert.InDelta(t, p.Longitude, pos.Longitude, dlonFunction(p.Latitude, 0, false)/(1<<AirborneBits))
		})
	}
}

func TestEncodeKnownFrames(t *testing.T) {
	assert.Equal(t, evenFrame, Encode(52.2572, 3.91937, false, false, AirborneBits))
	assert.Equal(t, oddFrame, Encode(52.26578, 3.93890, true, false, AirborneBits))
}

// TestCoarseTisb tests the 12 bit encoding
func TestCoarseTisb(t *testing.T) {
	even := Encode(52.2572, 3.91937, false, false, CoarseTisbBits)
	odd := Encode(52.2572, 3.91937, true, false, CoarseTisbBits)
	assert.Equal(t, uint32(2906), even.Latitude)
	assert.Equal(t, uint32(1561), odd.Longitude)

	pos, err := GlobalDecode(even, odd, true, nil)
	require.NoError(t, err)
	// 12 bits gives roughly 0.1 nm resolution
	assert.InDelta(t, 52.2572, pos.Latitude, 0.005)
	assert.InDelta(t, 3.91937, pos.Longitude, 0.005)
}
