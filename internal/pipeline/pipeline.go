package pipeline

import (
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"modescore/internal/acceptance"
	"modescore/internal/adsb"
	"modescore/internal/cpr"
	"modescore/internal/modes"
	"modescore/internal/sanity"
	"modescore/internal/stats"
)

// ErrInvalidParity is returned for extended squitters whose parity did not check out
var ErrInvalidParity = errors.New("extended squitter with invalid parity")

// PositionSource tells how a position was resolved
type PositionSource int

const (
	SourceNone PositionSource = iota
	SourceGlobal
	SourceLocal
)

func (s PositionSource) String() string {
	switch s {
	case SourceGlobal:
		return "global"
	case SourceLocal:
		return "local"
	}
	return "none"
}

// Config configures a pipeline
type Config struct {
	// Receiver is nil when the receiver location is unknown
	Receiver                         *cpr.Position
	UseLocalDecodeForInitialPosition bool

	// Maximum age difference between an odd and even frame for a global decode
	AirborneGlobalPositionLimit    time.Duration
	FastSurfaceGlobalPositionLimit time.Duration
	SlowSurfaceGlobalPositionLimit time.Duration

	Acceptance acceptance.Config
	Sanity     sanity.Config

	MaxAircraft     int
	AircraftTimeout time.Duration

	// RejectionLogInterval throttles the warnings logged for rejected positions
	RejectionLogInterval time.Duration
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() Config {
	return Config{
		AirborneGlobalPositionLimit:    10 * time.Second,
		FastSurfaceGlobalPositionLimit: 25 * time.Second,
		SlowSurfaceGlobalPositionLimit: 50 * time.Second,
		Acceptance:                     acceptance.DefaultConfig(),
		Sanity:                         sanity.DefaultConfig(),
		MaxAircraft:                    4096,
		AircraftTimeout:                5 * time.Minute,
		RejectionLogInterval:           10 * time.Second,
	}
}

// Result is the outcome of processing one frame
type Result struct {
	ModeS *modes.Message
	// Adsb is nil when the frame carries no extended squitter
	Adsb *adsb.Message
	// Position is nil unless this frame produced a new fix
	Position       *cpr.Position
	PositionSource PositionSource
	// IcaoTrusted is false while the address has not passed the acceptance heuristic
	IcaoTrusted bool
}

// Pipeline decodes the frames of a single feed. It owns the per-aircraft
// state and is not safe for concurrent use; run one pipeline per feed.
type Pipeline struct {
	cfg        Config
	logger     *logrus.Logger
	stats      *stats.Statistics
	decoder    *adsb.Decoder
	acceptance *acceptance.Heuristic
	checker    *sanity.Checker
	aircraft   *lru.Cache[uint32, *aircraft]
	rejections *rate.Limiter
}

// New creates a new pipeline reporting into statistics
func New(cfg Config, statistics *stats.Statistics, logger *logrus.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if statistics == nil {
		statistics = stats.New()
	}

	heuristic, err := acceptance.New(cfg.Acceptance)
	if err != nil {
		return nil, fmt.Errorf("failed to create acceptance heuristic: %w", err)
	}

	size := cfg.MaxAircraft
	if size <= 0 {
		size = DefaultConfig().MaxAircraft
	}
	arena, err := lru.New[uint32, *aircraft](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create aircraft cache: %w", err)
	}

	checks := cfg.Sanity
	checks.Receiver = cfg.Receiver

	limit := rate.Inf
	if cfg.RejectionLogInterval > 0 {
		limit = rate.Every(cfg.RejectionLogInterval)
	}

	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		stats:      statistics,
		decoder:    adsb.NewDecoder(logger, statistics),
		acceptance: heuristic,
		checker:    sanity.New(checks),
		aircraft:   arena,
		rejections: rate.NewLimiter(limit, 1),
	}, nil
}

// Process decodes one frame received at the given time
func (p *Pipeline) Process(frame []byte, at time.Time) (*Result, error) {
	msg, err := modes.Parse(frame)
	if err != nil {
		p.stats.RecordMalformed(len(frame))
		return nil, err
	}
	p.stats.RecordFrame(msg)

	if msg.Parity == modes.ParityInvalid &&
		(msg.DownlinkFormat == modes.ExtendedSquitter || msg.DownlinkFormat == modes.ExtendedSquitterNonTransponder) {
		return nil, fmt.Errorf("%w: %s from %s", ErrInvalidParity, msg.DownlinkFormat, msg.FormattedIcao24())
	}

	result := &Result{ModeS: msg}
	if msg.Icao24 != 0 {
		result.IcaoTrusted = p.acceptance.Observe(msg.Icao24, msg.Parity, at)
		if !result.IcaoTrusted {
			p.stats.RecordUntrustedIcao()
		}
	}

	result.Adsb = p.decoder.Decode(msg)
	if result.Adsb == nil || !result.IcaoTrusted {
		return result, nil
	}

	ac := p.lookup(msg.Icao24, at)
	p.trackGroundSpeed(ac, result.Adsb)

	if coordinate, ok := positionCoordinate(result.Adsb); ok {
		result.Position, result.PositionSource = p.resolvePosition(ac, &cprFrame{coordinate: coordinate, at: at})
	}
	return result, nil
}

func (p *Pipeline) lookup(icao uint32, at time.Time) *aircraft {
	ac, ok := p.aircraft.Get(icao)
	if !ok {
		ac = &aircraft{icao: icao}
		p.aircraft.Add(icao, ac)
	}
	ac.lastSeen = at
	return ac
}

func (p *Pipeline) trackGroundSpeed(ac *aircraft, msg *adsb.Message) {
	if velocity, ok := msg.AirborneVelocity(); ok {
		if speed, ok := velocity.GroundSpeed(); ok {
			ac.groundSpeed = &speed
		}
		return
	}
	if surface, ok := msg.SurfacePosition(); ok && surface.GroundSpeed != nil {
		speed := *surface.GroundSpeed
		ac.groundSpeed = &speed
	}
}

func positionCoordinate(msg *adsb.Message) (cpr.Coordinate, bool) {
	if p, ok := msg.AirbornePosition(); ok {
		return p.Coordinate, true
	}
	if p, ok := msg.SurfacePosition(); ok {
		return p.Coordinate, true
	}
	if p, ok := msg.CoarseTisbAirbornePosition(); ok {
		return p.Coordinate, true
	}
	return cpr.Coordinate{}, false
}

// window returns how far apart an odd and even frame may be for a global decode
func (p *Pipeline) window(ac *aircraft, surface bool) time.Duration {
	if !surface {
		return p.cfg.AirborneGlobalPositionLimit
	}
	if ac.fastOnSurface() {
		return p.cfg.FastSurfaceGlobalPositionLimit
	}
	return p.cfg.SlowSurfaceGlobalPositionLimit
}

// reference returns the best known location near the aircraft
func (p *Pipeline) reference(ac *aircraft) *cpr.Position {
	if ac.lastFix != nil {
		position := ac.lastFix.Position
		return &position
	}
	return p.cfg.Receiver
}

func (p *Pipeline) resolvePosition(ac *aircraft, latest *cprFrame) (*cpr.Position, PositionSource) {
	ac.store(latest)
	surface := latest.coordinate.Surface

	var (
		position cpr.Position
		source   PositionSource
		err      error
	)

	earlier, later, paired := ac.pair()
	if paired && later.at.Sub(earlier.at) <= p.window(ac, surface) {
		position, err = cpr.GlobalDecode(earlier.coordinate, later.coordinate, later.coordinate.IsOdd, p.reference(ac))
		switch {
		case err == nil:
			source = SourceGlobal
		case errors.Is(err, cpr.ErrZoneMismatch):
			p.stats.RecordZoneMismatch()
			ac.keepOnly(latest)
			p.reject(ac, err)
			return nil, SourceNone
		case errors.Is(err, cpr.ErrNoReference):
		default:
			ac.keepOnly(latest)
			p.reject(ac, err)
			return nil, SourceNone
		}
	}

	if source == SourceNone {
		reference := p.localReference(ac, latest.at)
		if reference == nil {
			return nil, SourceNone
		}
		position, err = cpr.LocalDecode(latest.coordinate, *reference)
		if err != nil {
			p.reject(ac, err)
			return nil, SourceNone
		}
		source = SourceLocal
	}

	if err := p.checker.CheckRange(position); err != nil {
		p.stats.RecordOutsideRange()
		p.stats.RecordPositionReset()
		ac.resetTrack(latest)
		p.reject(ac, err)
		return nil, SourceNone
	}

	fix := sanity.Fix{Position: position, At: latest.at, Surface: surface}
	if ac.lastFix != nil {
		if err := p.checker.CheckSpeed(*ac.lastFix, fix); err != nil {
			p.stats.RecordSpeedExceeded()
			p.stats.RecordPositionReset()
			ac.resetTrack(latest)
			p.reject(ac, err)
			return nil, SourceNone
		}
	}

	ac.lastFix = &fix
	if source == SourceGlobal {
		p.stats.RecordGlobalPosition()
	} else {
		p.stats.RecordLocalPosition()
	}

	p.logger.WithFields(logrus.Fields{
		"icao":      fmt.Sprintf("%06X", ac.icao),
		"latitude":  position.Latitude,
		"longitude": position.Longitude,
		"source":    source,
	}).Debug("Position decoded")

	return &position, source
}

// localReference returns what a single frame may be decoded against: the
// previous fix while it is recent, otherwise the receiver when initial
// positions may come from a local decode.
func (p *Pipeline) localReference(ac *aircraft, at time.Time) *cpr.Position {
	if ac.lastFix != nil {
		if p.cfg.AircraftTimeout <= 0 || at.Sub(ac.lastFix.At) <= p.cfg.AircraftTimeout {
			position := ac.lastFix.Position
			return &position
		}
		ac.lastFix = nil
	}
	if p.cfg.UseLocalDecodeForInitialPosition && p.cfg.Receiver != nil {
		return p.cfg.Receiver
	}
	return nil
}

// reject logs a discarded position, at warning level when the limiter allows
func (p *Pipeline) reject(ac *aircraft, err error) {
	entry := p.logger.WithFields(logrus.Fields{
		"icao": fmt.Sprintf("%06X", ac.icao),
	}).WithError(err)

	if p.rejections.Allow() {
		entry.Warn("Position rejected")
		return
	}
	entry.Debug("Position rejected")
}

// ResetAircraft forgets everything known about icao, including its trust
func (p *Pipeline) ResetAircraft(icao uint32) {
	p.aircraft.Remove(icao)
	p.acceptance.Forget(icao)
}

// Expire drops aircraft idle for longer than the configured timeout and
// returns how many were dropped
func (p *Pipeline) Expire(at time.Time) int {
	p.acceptance.Expire(at)
	if p.cfg.AircraftTimeout <= 0 {
		return 0
	}

	removed := 0
	for _, icao := range p.aircraft.Keys() {
		ac, ok := p.aircraft.Peek(icao)
		if ok && at.Sub(ac.lastSeen) > p.cfg.AircraftTimeout {
			p.aircraft.Remove(icao)
			removed++
		}
	}
	return removed
}

// Aircraft returns the number of tracked aircraft
func (p *Pipeline) Aircraft() int {
	return p.aircraft.Len()
}

// LastPosition returns the last accepted fix for icao
func (p *Pipeline) LastPosition(icao uint32) (sanity.Fix, bool) {
	ac, ok := p.aircraft.Peek(icao)
	if !ok || ac.lastFix == nil {
		return sanity.Fix{}, false
	}
	return *ac.lastFix, true
}

// Close releases all per-aircraft state
func (p *Pipeline) Close() {
	p.aircraft.Purge()
	p.acceptance.Purge()
}
