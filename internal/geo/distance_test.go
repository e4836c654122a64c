package geo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expected               float64
		delta                  float64
	}{
		{name: "Same point", lat1: 51.5, lon1: -0.1, lat2: 51.5, lon2: -0.1, expected: 0, delta: 1e-9},
		{name: "One degree of latitude", lat1: 0, lon1: 0, lat2: 1, lon2: 0, expected: 111.195, delta: 0.01},
		{name: "London to Paris", lat1: 51.5074, lon1: -0.1278, lat2: 48.8566, lon2: 2.3522, expected: 343.5, delta: 1},
		{name: "Across the dateline", lat1: 0, lon1: 179.5, lat2: 0, lon2: -179.5, expected: 111.195, delta: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2), tt.delta)
		})
	}
}

func TestDistanceNM(t *testing.T) {
	km := DistanceKm(52.0, 4.0, 53.0, 5.0)
	nm := DistanceNM(52.0, 4.0, 53.0, 5.0)
	assert.InDelta(t, km/KmPerNM, nm, 0.05)
}

func TestSpeedKmh(t *testing.T) {
	assert.InDelta(t, 100.0, SpeedKmh(100, time.Hour, time.Second), 1e-9)
	// Floored to one second
	assert.InDelta(t, 3600.0, SpeedKmh(1, 0, time.Second), 1e-9)
	assert.InDelta(t, 3600.0, SpeedKmh(1, -5*time.Second, time.Second), 1e-9)
	assert.True(t, math.IsInf(SpeedKmh(1, 0, 0), 1))
}
