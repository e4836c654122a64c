package adsb

// ADS-B 6-bit character set used in callsign encoding. Codes outside
// space, A-Z and 0-9 are invalid and shown as '#'.
const callsignCharset = "#ABCDEFGHIJKLMNOPQRSTUVWXYZ##### ###############0123456789######"

// Velocity field constants
const (
	velocityComponentMax      = 1023   // raw value meaning "exceeded"
	velocityComponentPegged   = 1021.5 // knots, raw scale
	supersonicMultiplier      = 4
	headingResolution         = 360.0 / 1024.0
	verticalRateMax           = 511
	verticalRateResolution    = 64 // ft/min
	gnssBaroDifferenceMax     = 127
	gnssBaroDifferenceStepFt  = 25
	surfaceTrackResolution    = 360.0 / 128.0
	coarseTrackResolution     = 11.25
	coarseGroundSpeedStepKt   = 16
	metersToFeet              = 3.28084
	selectedAltitudeStepFt    = 32
	baroSettingBaseMb         = 800.0
	baroSettingStepMb         = 0.8
	targetStateHeadingScale   = 180.0 / 256.0
	targetAltitudeStepFt      = 100
	targetAltitudeOffsetFt    = -1000
	targetAltitudeMaxRaw      = 1010
	tcasRangeExceededRaw      = 127
	tcasBearingStepDeg        = 6
	tcasBearingMaxRaw         = 60
	acasResolutionAdvisoryVds = 0x30
	commBIdentificationBds    = 0x20
)

// Type code ranges
const (
	typeNoPosition        = 0
	typeIdentificationMin = 1
	typeIdentificationMax = 4
	typeSurfaceMin        = 5
	typeSurfaceMax        = 8
	typeAirborneBaroMin   = 9
	typeAirborneBaroMax   = 18
	typeAirborneVelocity  = 19
	typeAirborneGnssMin   = 20
	typeAirborneGnssMax   = 22
	typeTestMessage       = 23
	typeSurfaceSystem     = 24
	typeAircraftStatus    = 28
	typeTargetStateStatus = 29
	typeOperationalStatus = 31
)
