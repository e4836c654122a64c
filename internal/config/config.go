package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"modescore/internal/acceptance"
	"modescore/internal/cpr"
	"modescore/internal/pipeline"
	"modescore/internal/sanity"
)

// EnvPrefix prefixes environment variables, e.g. MODES_RECEIVER_LATITUDE
const EnvPrefix = "MODES"

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the decoder configuration
type Config struct {
	Receiver   ReceiverConfig   `mapstructure:"receiver" yaml:"receiver"`
	CPR        CPRConfig        `mapstructure:"cpr" yaml:"cpr"`
	Acceptance AcceptanceConfig `mapstructure:"acceptance" yaml:"acceptance"`
	Speed      SpeedConfig      `mapstructure:"speed" yaml:"speed"`
	Tracking   TrackingConfig   `mapstructure:"tracking" yaml:"tracking"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`

	ReportIntervalSeconds int `mapstructure:"report_interval_seconds" yaml:"report_interval_seconds"`
}

// ReceiverConfig locates the receiver. Latitude and Longitude are nil when
// the location is unknown.
type ReceiverConfig struct {
	Latitude           *float64 `mapstructure:"latitude" yaml:"latitude,omitempty"`
	Longitude          *float64 `mapstructure:"longitude" yaml:"longitude,omitempty"`
	RangeKm            float64  `mapstructure:"range_km" yaml:"range_km"`
	SuppressRangeCheck bool     `mapstructure:"suppress_range_check" yaml:"suppress_range_check"`
}

// CPRConfig controls position decoding. Limits are in seconds.
type CPRConfig struct {
	UseLocalDecodeForInitialPosition bool `mapstructure:"use_local_decode_for_initial_position" yaml:"use_local_decode_for_initial_position"`
	AirborneGlobalPositionLimit      int  `mapstructure:"airborne_global_position_limit" yaml:"airborne_global_position_limit"`
	FastSurfaceGlobalPositionLimit   int  `mapstructure:"fast_surface_global_position_limit" yaml:"fast_surface_global_position_limit"`
	SlowSurfaceGlobalPositionLimit   int  `mapstructure:"slow_surface_global_position_limit" yaml:"slow_surface_global_position_limit"`
}

// AcceptanceConfig holds the ICAO acceptance thresholds
type AcceptanceConfig struct {
	NonParityCount      int `mapstructure:"non_parity_count" yaml:"non_parity_count"`
	NonParitySeconds    int `mapstructure:"non_parity_seconds" yaml:"non_parity_seconds"`
	Parity0Count        int `mapstructure:"parity0_count" yaml:"parity0_count"`
	Parity0Seconds      int `mapstructure:"parity0_seconds" yaml:"parity0_seconds"`
	TrustTimeoutSeconds int `mapstructure:"trust_timeout_seconds" yaml:"trust_timeout_seconds"`
}

// SpeedConfig holds the speed ceilings in km/h
type SpeedConfig struct {
	AirborneKmh   float64 `mapstructure:"airborne_kmh" yaml:"airborne_kmh"`
	TransitionKmh float64 `mapstructure:"transition_kmh" yaml:"transition_kmh"`
	SurfaceKmh    float64 `mapstructure:"surface_kmh" yaml:"surface_kmh"`
}

// TrackingConfig bounds the per-feed aircraft state
type TrackingConfig struct {
	MaxAircraft            int `mapstructure:"max_aircraft" yaml:"max_aircraft"`
	AircraftTimeoutSeconds int `mapstructure:"aircraft_timeout_seconds" yaml:"aircraft_timeout_seconds"`
}

// LogConfig configures logging. An empty File logs to stderr.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Receiver: ReceiverConfig{
			RangeKm: 500,
		},
		CPR: CPRConfig{
			AirborneGlobalPositionLimit:    10,
			FastSurfaceGlobalPositionLimit: 25,
			SlowSurfaceGlobalPositionLimit: 50,
		},
		Acceptance: AcceptanceConfig{
			NonParityCount:      5,
			NonParitySeconds:    5,
			Parity0Count:        1,
			Parity0Seconds:      1,
			TrustTimeoutSeconds: 60,
		},
		Speed: SpeedConfig{
			AirborneKmh:   2800,
			TransitionKmh: 1000,
			SurfaceKmh:    300,
		},
		Tracking: TrackingConfig{
			MaxAircraft:            4096,
			AircraftTimeoutSeconds: 300,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 7,
		},
		ReportIntervalSeconds: 30,
	}
}

// defaults flattens Default into viper keys
var defaults = map[string]interface{}{
	"receiver.range_km":                         Default().Receiver.RangeKm,
	"receiver.suppress_range_check":             false,
	"cpr.use_local_decode_for_initial_position": false,
	"cpr.airborne_global_position_limit":        Default().CPR.AirborneGlobalPositionLimit,
	"cpr.fast_surface_global_position_limit":    Default().CPR.FastSurfaceGlobalPositionLimit,
	"cpr.slow_surface_global_position_limit":    Default().CPR.SlowSurfaceGlobalPositionLimit,
	"acceptance.non_parity_count":               Default().Acceptance.NonParityCount,
	"acceptance.non_parity_seconds":             Default().Acceptance.NonParitySeconds,
	"acceptance.parity0_count":                  Default().Acceptance.Parity0Count,
	"acceptance.parity0_seconds":                Default().Acceptance.Parity0Seconds,
	"acceptance.trust_timeout_seconds":          Default().Acceptance.TrustTimeoutSeconds,
	"speed.airborne_kmh":                        Default().Speed.AirborneKmh,
	"speed.transition_kmh":                      Default().Speed.TransitionKmh,
	"speed.surface_kmh":                         Default().Speed.SurfaceKmh,
	"tracking.max_aircraft":                     Default().Tracking.MaxAircraft,
	"tracking.aircraft_timeout_seconds":         Default().Tracking.AircraftTimeoutSeconds,
	"log.level":                                 Default().Log.Level,
	"log.file":                                  Default().Log.File,
	"log.max_size_mb":                           Default().Log.MaxSizeMB,
	"log.max_backups":                           Default().Log.MaxBackups,
	"log.compress":                              false,
	"report_interval_seconds":                   Default().ReportIntervalSeconds,
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"lat":             "receiver.latitude",
	"lon":             "receiver.longitude",
	"range":           "receiver.range_km",
	"no-range-check":  "receiver.suppress_range_check",
	"local-initial":   "cpr.use_local_decode_for_initial_position",
	"max-aircraft":    "tracking.max_aircraft",
	"log-level":       "log.level",
	"log-file":        "log.file",
	"report-interval": "report_interval_seconds",
}

// AddFlags registers the command line flags that override configuration keys
func AddFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.Float64("lat", 0, "Receiver latitude (degrees)")
	flags.Float64("lon", 0, "Receiver longitude (degrees)")
	flags.Float64("range", d.Receiver.RangeKm, "Receiver range (km)")
	flags.Bool("no-range-check", false, "Accept positions beyond the receiver range")
	flags.Bool("local-initial", false, "Take the first position of an aircraft from a local decode against the receiver")
	flags.Int("max-aircraft", d.Tracking.MaxAircraft, "Maximum aircraft tracked per feed")
	flags.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	flags.String("log-file", d.Log.File, "Log file, rotated by size (empty for stderr)")
	flags.Int("report-interval", d.ReportIntervalSeconds, "Statistics report interval in seconds (0 disables)")
}

// Load reads the configuration from defaults, an optional YAML file, MODES_
// environment variables and flags, in increasing order of precedence.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"receiver.latitude", "receiver.longitude"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// Unchanged flag defaults do not locate the receiver. A coordinate set
	// without its partner is left for Validate to report.
	if !v.IsSet("receiver.latitude") {
		cfg.Receiver.Latitude = nil
	}
	if !v.IsSet("receiver.longitude") {
		cfg.Receiver.Longitude = nil
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the decoder cannot use
func (c Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	r := c.Receiver
	check((r.Latitude == nil) == (r.Longitude == nil), "receiver latitude and longitude must be set together")
	if r.Latitude != nil {
		check(*r.Latitude >= -90 && *r.Latitude <= 90, "receiver.latitude %v out of range", *r.Latitude)
	}
	if r.Longitude != nil {
		check(*r.Longitude >= -180 && *r.Longitude <= 180, "receiver.longitude %v out of range", *r.Longitude)
	}
	check(r.RangeKm > 0, "receiver.range_km must be positive")

	check(c.CPR.AirborneGlobalPositionLimit > 0, "cpr.airborne_global_position_limit must be positive")
	check(c.CPR.FastSurfaceGlobalPositionLimit > 0, "cpr.fast_surface_global_position_limit must be positive")
	check(c.CPR.SlowSurfaceGlobalPositionLimit > 0, "cpr.slow_surface_global_position_limit must be positive")

	a := c.Acceptance
	check(a.NonParityCount >= 0, "acceptance.non_parity_count must not be negative")
	check(a.Parity0Count >= 0, "acceptance.parity0_count must not be negative")
	check(a.NonParityCount == 0 || a.NonParitySeconds > 0, "acceptance.non_parity_seconds must be positive")
	check(a.Parity0Count == 0 || a.Parity0Seconds > 0, "acceptance.parity0_seconds must be positive")
	check(a.TrustTimeoutSeconds > 0, "acceptance.trust_timeout_seconds must be positive")

	check(c.Speed.AirborneKmh > 0, "speed.airborne_kmh must be positive")
	check(c.Speed.TransitionKmh > 0, "speed.transition_kmh must be positive")
	check(c.Speed.SurfaceKmh > 0, "speed.surface_kmh must be positive")

	check(c.Tracking.MaxAircraft > 0, "tracking.max_aircraft must be positive")
	check(c.Tracking.AircraftTimeoutSeconds > 0, "tracking.aircraft_timeout_seconds must be positive")

	_, err := logrus.ParseLevel(c.Log.Level)
	check(err == nil, "log.level %q is not a level", c.Log.Level)
	check(c.Log.MaxSizeMB >= 0, "log.max_size_mb must not be negative")
	check(c.Log.MaxBackups >= 0, "log.max_backups must not be negative")

	check(c.ReportIntervalSeconds >= 0, "report_interval_seconds must not be negative")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ReceiverPosition returns the receiver location, or nil when unknown
func (c Config) ReceiverPosition() *cpr.Position {
	if c.Receiver.Latitude == nil || c.Receiver.Longitude == nil {
		return nil
	}
	return &cpr.Position{Latitude: *c.Receiver.Latitude, Longitude: *c.Receiver.Longitude}
}

// ReportInterval returns the statistics report interval
func (c Config) ReportInterval() time.Duration {
	return seconds(c.ReportIntervalSeconds)
}

// Pipeline converts the configuration into pipeline settings
func (c Config) Pipeline() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.Receiver = c.ReceiverPosition()
	cfg.UseLocalDecodeForInitialPosition = c.CPR.UseLocalDecodeForInitialPosition
	cfg.AirborneGlobalPositionLimit = seconds(c.CPR.AirborneGlobalPositionLimit)
	cfg.FastSurfaceGlobalPositionLimit = seconds(c.CPR.FastSurfaceGlobalPositionLimit)
	cfg.SlowSurfaceGlobalPositionLimit = seconds(c.CPR.SlowSurfaceGlobalPositionLimit)

	cfg.Acceptance = acceptance.Config{
		NonParity:     acceptance.Window{Count: c.Acceptance.NonParityCount, Duration: seconds(c.Acceptance.NonParitySeconds)},
		Parity0:       acceptance.Window{Count: c.Acceptance.Parity0Count, Duration: seconds(c.Acceptance.Parity0Seconds)},
		TrustTimeout:  seconds(c.Acceptance.TrustTimeoutSeconds),
		MaxCandidates: c.Tracking.MaxAircraft,
	}

	cfg.Sanity = sanity.Config{
		AirborneKmh:        c.Speed.AirborneKmh,
		TransitionKmh:      c.Speed.TransitionKmh,
		SurfaceKmh:         c.Speed.SurfaceKmh,
		Receiver:           cfg.Receiver,
		RangeKm:            c.Receiver.RangeKm,
		SuppressRangeCheck: c.Receiver.SuppressRangeCheck,
	}

	cfg.MaxAircraft = c.Tracking.MaxAircraft
	cfg.AircraftTimeout = seconds(c.Tracking.AircraftTimeoutSeconds)
	return cfg
}

// Dump writes the configuration as YAML
func (c Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
