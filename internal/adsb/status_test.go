package adsb

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modescore/internal/modes"
)

// TestDecodeEmergencyStatus tests TC28 subtype 1
func TestDecodeEmergencyStatus(t *testing.T) {
	msg := decodeHex(t, "8D3C6586E12AAA000000009F2403")
	status, ok := msg.AircraftStatus()
	require.True(t, ok)

	assert.Equal(t, uint8(AircraftStatusEmergency), status.Subtype)
	assert.Equal(t, EmergencyGeneral, status.Emergency)
	assert.Equal(t, "General", status.Emergency.String())
	assert.Equal(t, intPtr(7700), status.ModeA)
	assert.Nil(t, status.ResolutionAdvisory)
}

// TestDecodeResolutionAdvisory tests TC28 subtype 2 with both threat identity encodings
func TestDecodeResolutionAdvisory(t *testing.T) {
	t.Run("Threat by address", func(t *testing.T) {
		msg := decodeHex(t, "8D3C6586E2E00206AF048C45C5CC")
		status, ok := msg.AircraftStatus()
		require.True(t, ok)
		ra := status.ResolutionAdvisory
		require.NotNil(t, ra)

		require.NotNil(t, ra.SingleThreatResolutionAdvisory)
		assert.Nil(t, ra.MultipleThreatResolutionAdvisory)
		assert.True(t, ra.SingleThreatResolutionAdvisory.Corrective)
		assert.True(t, ra.SingleThreatResolutionAdvisory.DownwardSense)
		assert.False(t, ra.SingleThreatResolutionAdvisory.IncreasedRate)
		assert.Equal(t, ResolutionAdvisoryComplement{DoNotPassBelow: true}, ra.ResolutionAdvisoryComplement)
		assert.False(t, ra.ResolutionAdvisoryTerminated)
		assert.False(t, ra.MultipleThreatEncounter)
		assert.Equal(t, ThreatIdentityIcao24, ra.ThreatIdentityType)
		assert.Equal(t, uint32(0xABC123), ra.ThreatIcao24)

		formatted, ok := ra.FormattedThreatIcao24()
		assert.True(t, ok)
		assert.Equal(t, "ABC123", formatted)
	})

	t.Run("Threat by position", func(t *testing.T) {
		msg := decodeHex(t, "8D3C6586E26000FB070690EA7A0B")
		status, ok := msg.AircraftStatus()
		require.True(t, ok)
		ra := status.ResolutionAdvisory
		require.NotNil(t, ra)

		assert.Nil(t, ra.SingleThreatResolutionAdvisory)
		require.NotNil(t, ra.MultipleThreatResolutionAdvisory)
		assert.True(t, ra.MultipleThreatResolutionAdvisory.CorrectionUpwards)
		assert.True(t, ra.MultipleThreatResolutionAdvisory.PositiveClimb)
		assert.False(t, ra.MultipleThreatResolutionAdvisory.CorrectionDownwards)
		assert.Equal(t, ResolutionAdvisoryComplement{DoNotTurnLeft: true, DoNotTurnRight: true}, ra.ResolutionAdvisoryComplement)
		assert.True(t, ra.ResolutionAdvisoryTerminated)
		assert.True(t, ra.MultipleThreatEncounter)
		assert.Equal(t, ThreatIdentityPosition, ra.ThreatIdentityType)
		assert.Equal(t, intPtr(38000), ra.ThreatAltitude)
		require.NotNil(t, ra.ThreatRange)
		assert.InDelta(t, 2.5, *ra.ThreatRange, 1e-9)
		assert.False(t, ra.ThreatRangeExceeded)
		assert.Equal(t, intPtr(90), ra.ThreatBearing)

		_, ok = ra.FormattedThreatIcao24()
		assert.False(t, ok)
	})
}

func TestFormattedThreatIcao24(t *testing.T) {
	tests := []struct {
		icao     uint32
		expected string
		ok       bool
	}{
		{icao: 0, expected: "", ok: false},
		{icao: 0x1, expected: "000001", ok: true},
		{icao: 0xabcdef, expected: "ABCDEF", ok: true},
	}

	for _, tt := range tests {
		ra := &TcasResolutionAdvisory{ThreatIcao24: tt.icao}
		formatted, ok := ra.FormattedThreatIcao24()
		assert.Equal(t, tt.expected, formatted)
		assert.Equal(t, tt.ok, ok)
	}
}

// TestDecodeAcas tests RA extraction from a DF16 reply
func TestDecodeAcas(t *testing.T) {
	raw, err := hex.DecodeString("80E0D83830E00206AF048C089AD9")
	require.NoError(t, err)
	msg, err := modes.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3C6586), msg.Icao24)
	assert.Equal(t, intPtr(38000), msg.Altitude)

	ra, ok := DecodeAcas(msg)
	require.True(t, ok)
	assert.Equal(t, uint32(0xABC123), ra.ThreatIcao24)
	require.NotNil(t, ra.SingleThreatResolutionAdvisory)
	assert.True(t, ra.ResolutionAdvisoryComplement.DoNotPassBelow)

	// Other VDS values carry no RA
	other, err := hex.DecodeString("80E0D83800000000000000E39206")
	require.NoError(t, err)
	msg, err = modes.Parse(other)
	require.NoError(t, err)
	_, ok = DecodeAcas(msg)
	assert.False(t, ok)

	_, ok = DecodeAcas(nil)
	assert.False(t, ok)
}

// TestDecodeTargetStateVersion2 tests a DO-260B target state report
func TestDecodeTargetStateVersion2(t *testing.T) {
	msg := decodeHex(t, "8DA05629EA21485CBF3F8CADAEEB")
	tss, ok := msg.TargetStateAndStatusVersion2()
	require.True(t, ok)
	_, isV1 := msg.TargetStateAndStatusVersion1()
	assert.False(t, isV1)

	assert.Equal(t, SelectedAltitudeMcpFcu, tss.SelectedAltitudeType)
	assert.Equal(t, intPtr(16992), tss.SelectedAltitude)
	require.NotNil(t, tss.BarometricPressureSetting)
	assert.InDelta(t, 1012.8, *tss.BarometricPressureSetting, 1e-6)
	require.NotNil(t, tss.SelectedHeading)
	assert.InDelta(t, 66.8, *tss.SelectedHeading, 0.01)
	assert.Equal(t, uint8(9), tss.NavigationAccuracyPosition)
	assert.True(t, tss.NicBaro)
	assert.Equal(t, uint8(3), tss.SourceIntegrityLevel)
	assert.True(t, tss.ModeIndicatorsValid)
	assert.True(t, tss.Autopilot)
	assert.True(t, tss.VnavMode)
	assert.False(t, tss.AltitudeHoldMode)
	assert.False(t, tss.ApproachMode)
	assert.True(t, tss.TcasOperational)
	assert.True(t, tss.LnavMode)
}

// TestDecodeTargetStateVersion1 tests a DO-260A target state report
func TestDecodeTargetStateVersion1(t *testing.T) {
	msg := decodeHex(t, "8D3C6586E88CB430ED380869980E")
	tss, ok := msg.TargetStateAndStatusVersion1()
	require.True(t, ok)

	assert.Equal(t, uint8(1), tss.VerticalDataSource)
	assert.True(t, tss.TargetAltitudeIsFlightLevel)
	assert.Equal(t, uint8(1), tss.TargetAltitudeCapability)
	assert.Equal(t, ModeCapturingOrMaintaining, tss.VerticalMode)
	assert.Equal(t, intPtr(35000), tss.TargetAltitude)
	assert.Equal(t, uint8(1), tss.HorizontalDataSource)
	assert.Equal(t, intPtr(270), tss.TargetHeading)
	assert.True(t, tss.TargetIsTrack)
	assert.Equal(t, ModeCapturingOrMaintaining, tss.HorizontalMode)
	assert.Equal(t, uint8(9), tss.NavigationAccuracyPosition)
	assert.True(t, tss.NicBaro)
	assert.Equal(t, uint8(2), tss.SourceIntegrityLevel)
	assert.Equal(t, uint8(1), tss.TcasCapability)
	assert.Equal(t, EmergencyNone, tss.Emergency)
}

// TestDecodeOperationalStatus tests the airborne and surface subtypes
func TestDecodeOperationalStatus(t *testing.T) {
	t.Run("Airborne", func(t *testing.T) {
		msg := decodeHex(t, "8D3C6586F8330012004AB86DABF2")
		s, ok := msg.AircraftOperationalStatus()
		require.True(t, ok)

		assert.False(t, s.Surface)
		assert.Equal(t, uint8(2), s.Version)
		assert.True(t, s.TcasOperational)
		assert.True(t, s.Es1090In)
		assert.True(t, s.AirReferencedVelocity)
		assert.True(t, s.TargetStateReport)
		assert.False(t, s.UatIn)
		assert.True(t, s.IdentSwitchActive)
		assert.False(t, s.TcasResolutionAdvisoryActive)
		assert.Equal(t, uint8(2), s.SystemDesignAssurance)
		assert.Equal(t, uint8(10), s.NavigationAccuracyPosition)
		assert.Equal(t, uint8(2), s.GeometricVerticalAccuracy)
		assert.Equal(t, uint8(3), s.SourceIntegrityLevel)
		assert.True(t, s.NicBaro)
		assert.Nil(t, s.LengthWidthCode)
	})

	t.Run("Surface", func(t *testing.T) {
		msg := decodeHex(t, "8E484175F9304A0242493A11A6B4")
		s, ok := msg.AircraftOperationalStatus()
		require.True(t, ok)

		assert.True(t, s.Surface)
		assert.Equal(t, uint8(2), s.Version)
		assert.True(t, s.PositionOffsetApplied)
		assert.True(t, s.Es1090In)
		assert.Equal(t, uint8(2), s.NavigationAccuracyVelocity)
		require.NotNil(t, s.LengthWidthCode)
		assert.Equal(t, uint8(10), *s.LengthWidthCode)
		assert.Equal(t, uint8(0x42), s.GpsAntennaOffset)
		assert.Equal(t, uint8(9), s.NavigationAccuracyPosition)
		assert.Equal(t, uint8(3), s.SourceIntegrityLevel)
		assert.True(t, s.TrackAngleHeading)
		assert.True(t, s.SilSupplement)
		assert.False(t, s.NicBaro)
	})
}
