package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"modescore/internal/adsb"
	"modescore/internal/modes"
)

const fiveBitValues = 32

// Statistics aggregates decoder counters across every feed. Counter updates
// hold the read lock so they can run concurrently, while ResetMessageCounters
// and Snapshot hold the write lock and therefore never observe a
// half-applied update.
type Statistics struct {
	mu      sync.RWMutex
	now     func() time.Time
	resetAt time.Time

	downlinkFormats [fiveBitValues]atomic.Uint64
	adsbFormats     [adsb.MessageFormatCount]atomic.Uint64
	adsbTypes       [fiveBitValues]atomic.Uint64

	shortFrames     atomic.Uint64
	longFrames      atomic.Uint64
	bytesReceived   atomic.Uint64
	malformedFrames atomic.Uint64

	parityNone    atomic.Uint64
	parityValid   atomic.Uint64
	parityInvalid atomic.Uint64

	adsbMessages atomic.Uint64
	adsbRejected atomic.Uint64

	globalPositions        atomic.Uint64
	localPositions         atomic.Uint64
	zoneMismatches         atomic.Uint64
	positionsReset         atomic.Uint64
	positionsOutsideRange  atomic.Uint64
	positionsExceededSpeed atomic.Uint64
	untrustedIcaoFrames    atomic.Uint64
}

// New creates a new statistics aggregator
func New() *Statistics {
	return NewWithClock(time.Now)
}

// NewWithClock creates a statistics aggregator that reads time from now
func NewWithClock(now func() time.Time) *Statistics {
	return &Statistics{
		now:     now,
		resetAt: now(),
	}
}

// RecordFrame counts a parsed Mode S frame
func (s *Statistics) RecordFrame(msg *modes.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.downlinkFormats[uint8(msg.DownlinkFormat)%fiveBitValues].Add(1)
	if msg.BitLength == modes.LongFrameBits {
		s.longFrames.Add(1)
	} else {
		s.shortFrames.Add(1)
	}
	s.bytesReceived.Add(uint64(len(msg.Payload)))

	switch msg.Parity {
	case modes.ParityNone:
		s.parityNone.Add(1)
	case modes.ParityValid:
		s.parityValid.Add(1)
	case modes.ParityInvalid:
		s.parityInvalid.Add(1)
	}
}

// RecordMalformed counts a frame that could not be parsed
func (s *Statistics) RecordMalformed(size int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.malformedFrames.Add(1)
	s.bytesReceived.Add(uint64(size))
}

// CountAdsbMessage counts one decoded squitter. FormatNone counts as rejected.
func (s *Statistics) CountAdsbMessage(format adsb.MessageFormat, typeCode uint8) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.adsbMessages.Add(1)
	if int(format) >= 0 && int(format) < adsb.MessageFormatCount {
		s.adsbFormats[format].Add(1)
	}
	s.adsbTypes[typeCode%fiveBitValues].Add(1)
	if format == adsb.FormatNone {
		s.adsbRejected.Add(1)
	}
}

func (s *Statistics) add(counter *atomic.Uint64) {
	s.mu.RLock()
	counter.Add(1)
	s.mu.RUnlock()
}

// RecordGlobalPosition counts a position from an even/odd pair
func (s *Statistics) RecordGlobalPosition() { s.add(&s.globalPositions) }

// RecordLocalPosition counts a position decoded against a reference
func (s *Statistics) RecordLocalPosition() { s.add(&s.localPositions) }

// RecordZoneMismatch counts a pair that straddled a latitude zone boundary
func (s *Statistics) RecordZoneMismatch() { s.add(&s.zoneMismatches) }

// RecordPositionReset counts a track that had to be re-established
func (s *Statistics) RecordPositionReset() { s.add(&s.positionsReset) }

// RecordOutsideRange counts a position beyond the receiver range
func (s *Statistics) RecordOutsideRange() { s.add(&s.positionsOutsideRange) }

// RecordSpeedExceeded counts a position that failed the speed check
func (s *Statistics) RecordSpeedExceeded() { s.add(&s.positionsExceededSpeed) }

// RecordUntrustedIcao counts a frame whose address has not been accepted yet
func (s *Statistics) RecordUntrustedIcao() { s.add(&s.untrustedIcaoFrames) }

// ResetMessageCounters zeroes every counter and restarts the throughput clock
func (s *Statistics) ResetMessageCounters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.downlinkFormats {
		s.downlinkFormats[i].Store(0)
	}
	for i := range s.adsbFormats {
		s.adsbFormats[i].Store(0)
	}
	for i := range s.adsbTypes {
		s.adsbTypes[i].Store(0)
	}
	for _, c := range s.scalars() {
		c.Store(0)
	}
	s.resetAt = s.now()
}

func (s *Statistics) scalars() []*atomic.Uint64 {
	return []*atomic.Uint64{
		&s.shortFrames, &s.longFrames, &s.bytesReceived, &s.malformedFrames,
		&s.parityNone, &s.parityValid, &s.parityInvalid,
		&s.adsbMessages, &s.adsbRejected,
		&s.globalPositions, &s.localPositions, &s.zoneMismatches,
		&s.positionsReset, &s.positionsOutsideRange, &s.positionsExceededSpeed,
		&s.untrustedIcaoFrames,
	}
}

// Snapshot is a consistent copy of the counters
type Snapshot struct {
	Since   time.Time
	Elapsed time.Duration

	DownlinkFormats map[modes.DownlinkFormat]uint64
	AdsbFormats     map[adsb.MessageFormat]uint64
	AdsbTypes       map[uint8]uint64

	ShortFrames     uint64
	LongFrames      uint64
	BytesReceived   uint64
	MalformedFrames uint64

	ParityNone    uint64
	ParityValid   uint64
	ParityInvalid uint64

	AdsbMessages uint64
	AdsbRejected uint64

	GlobalPositions        uint64
	LocalPositions         uint64
	ZoneMismatches         uint64
	PositionsReset         uint64
	PositionsOutsideRange  uint64
	PositionsExceededSpeed uint64
	UntrustedIcaoFrames    uint64
}

// Snapshot returns a consistent copy of all counters
func (s *Statistics) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	snap := Snapshot{
		Since:           s.resetAt,
		Elapsed:         now.Sub(s.resetAt),
		DownlinkFormats: make(map[modes.DownlinkFormat]uint64),
		AdsbFormats:     make(map[adsb.MessageFormat]uint64),
		AdsbTypes:       make(map[uint8]uint64),

		ShortFrames:     s.shortFrames.Load(),
		LongFrames:      s.longFrames.Load(),
		BytesReceived:   s.bytesReceived.Load(),
		MalformedFrames: s.malformedFrames.Load(),

		ParityNone:    s.parityNone.Load(),
		ParityValid:   s.parityValid.Load(),
		ParityInvalid: s.parityInvalid.Load(),

		AdsbMessages: s.adsbMessages.Load(),
		AdsbRejected: s.adsbRejected.Load(),

		GlobalPositions:        s.globalPositions.Load(),
		LocalPositions:         s.localPositions.Load(),
		ZoneMismatches:         s.zoneMismatches.Load(),
		PositionsReset:         s.positionsReset.Load(),
		PositionsOutsideRange:  s.positionsOutsideRange.Load(),
		PositionsExceededSpeed: s.positionsExceededSpeed.Load(),
		UntrustedIcaoFrames:    s.untrustedIcaoFrames.Load(),
	}

	for i := range s.downlinkFormats {
		if n := s.downlinkFormats[i].Load(); n > 0 {
			snap.DownlinkFormats[modes.DownlinkFormat(i)] = n
		}
	}
	for i := range s.adsbFormats {
		if n := s.adsbFormats[i].Load(); n > 0 {
			snap.AdsbFormats[adsb.MessageFormat(i)] = n
		}
	}
	for i := range s.adsbTypes {
		if n := s.adsbTypes[i].Load(); n > 0 {
			snap.AdsbTypes[uint8(i)] = n
		}
	}
	return snap
}

// Frames returns the number of parsed frames
func (s Snapshot) Frames() uint64 {
	return s.ShortFrames + s.LongFrames
}

// ValidParityRatio returns the share of parsed frames whose parity checked out
func (s Snapshot) ValidParityRatio() float64 {
	return ratio(s.ParityValid, s.ParityValid+s.ParityInvalid)
}

// AdsbRejectedRatio returns the share of squitters that could not be decoded
func (s Snapshot) AdsbRejectedRatio() float64 {
	return ratio(s.AdsbRejected, s.AdsbMessages)
}

// BytesPerSecond returns the throughput since the last reset
func (s Snapshot) BytesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.BytesReceived) / s.Elapsed.Seconds()
}

// Fields renders the headline counters for a log line
func (s Snapshot) Fields() logrus.Fields {
	return logrus.Fields{
		"frames":          s.Frames(),
		"malformed":       s.MalformedFrames,
		"parity_none":     s.ParityNone,
		"parity_valid":    s.ParityValid,
		"parity_invalid":  s.ParityInvalid,
		"adsb":            s.AdsbMessages,
		"adsb_rejected":   s.AdsbRejected,
		"positions":       s.GlobalPositions + s.LocalPositions,
		"position_resets": s.PositionsReset,
		"outside_range":   s.PositionsOutsideRange,
		"speed_exceeded":  s.PositionsExceededSpeed,
		"untrusted_icao":  s.UntrustedIcaoFrames,
		"bytes_per_sec":   int64(s.BytesPerSecond()),
	}
}

func ratio(n, d uint64) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
