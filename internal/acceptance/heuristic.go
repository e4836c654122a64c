package acceptance

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"modescore/internal/modes"
)

// Window is a sighting threshold: Count sightings within Duration. A Count
// of zero accepts on the first sighting.
type Window struct {
	Count    int
	Duration time.Duration
}

// Config configures the acceptance heuristic
type Config struct {
	// NonParity applies to addresses recovered from address/parity overlay
	NonParity Window
	// Parity0 applies to frames whose parity checked out with a zero residual
	Parity0 Window
	// TrustTimeout is how long a trusted address stays trusted without a sighting
	TrustTimeout time.Duration
	// MaxCandidates bounds the number of addresses tracked
	MaxCandidates int
}

// DefaultConfig returns the default acceptance thresholds
func DefaultConfig() Config {
	return Config{
		NonParity:     Window{Count: 5, Duration: 5 * time.Second},
		Parity0:       Window{Count: 1, Duration: time.Second},
		TrustTimeout:  time.Minute,
		MaxCandidates: 4096,
	}
}

type sightings struct {
	nonParity []time.Time
	parity0   []time.Time
	trusted   bool
	lastSeen  time.Time
}

// Heuristic decides whether an ICAO address is real before frames carrying it
// are attributed to an aircraft. Addresses recovered from parity can be noise,
// so they must be seen repeatedly before they are trusted. It is not safe for
// concurrent use.
type Heuristic struct {
	cfg        Config
	candidates *lru.Cache[uint32, *sightings]
}

// New creates a new acceptance heuristic
func New(cfg Config) (*Heuristic, error) {
	size := cfg.MaxCandidates
	if size <= 0 {
		size = DefaultConfig().MaxCandidates
	}
	cache, err := lru.New[uint32, *sightings](size)
	if err != nil {
		return nil, err
	}
	return &Heuristic{cfg: cfg, candidates: cache}, nil
}

// Observe records a sighting of icao and reports whether it is trusted
// afterwards. Frames with invalid parity are never counted.
func (h *Heuristic) Observe(icao uint32, parity modes.ParityKind, at time.Time) bool {
	if icao == 0 {
		return false
	}

	s, ok := h.candidates.Get(icao)
	if !ok {
		if parity == modes.ParityInvalid {
			return false
		}
		s = &sightings{}
		h.candidates.Add(icao, s)
	}
	h.expireTrust(s, at)

	switch parity {
	case modes.ParityNone:
		s.nonParity = record(s.nonParity, at, h.cfg.NonParity)
		s.trusted = s.trusted || len(s.nonParity) >= h.cfg.NonParity.Count
	case modes.ParityValid:
		s.parity0 = record(s.parity0, at, h.cfg.Parity0)
		s.trusted = s.trusted || len(s.parity0) >= h.cfg.Parity0.Count
	default:
		return s.trusted
	}

	if at.After(s.lastSeen) {
		s.lastSeen = at
	}
	return s.trusted
}

// IsTrusted reports whether icao is currently trusted
func (h *Heuristic) IsTrusted(icao uint32, at time.Time) bool {
	s, ok := h.candidates.Peek(icao)
	if !ok {
		return false
	}
	h.expireTrust(s, at)
	return s.trusted
}

// Forget drops everything known about icao
func (h *Heuristic) Forget(icao uint32) {
	h.candidates.Remove(icao)
}

// Expire drops addresses not seen for longer than the trust timeout and
// returns how many were removed.
func (h *Heuristic) Expire(at time.Time) int {
	removed := 0
	for _, icao := range h.candidates.Keys() {
		s, ok := h.candidates.Peek(icao)
		if ok && h.idle(s, at) {
			h.candidates.Remove(icao)
			removed++
		}
	}
	return removed
}

// Purge drops every tracked address
func (h *Heuristic) Purge() {
	h.candidates.Purge()
}

// Len returns the number of tracked addresses
func (h *Heuristic) Len() int {
	return h.candidates.Len()
}

func (h *Heuristic) idle(s *sightings, at time.Time) bool {
	timeout := h.cfg.TrustTimeout
	for _, w := range []Window{h.cfg.NonParity, h.cfg.Parity0} {
		if w.Duration > timeout {
			timeout = w.Duration
		}
	}
	return at.Sub(s.lastSeen) > timeout
}

func (h *Heuristic) expireTrust(s *sightings, at time.Time) {
	if s.trusted && h.cfg.TrustTimeout > 0 && at.Sub(s.lastSeen) > h.cfg.TrustTimeout {
		s.trusted = false
		s.nonParity = s.nonParity[:0]
		s.parity0 = s.parity0[:0]
	}
}

// record appends at and drops sightings that fell out of the window. Only
// the most recent Count sightings are kept.
func record(times []time.Time, at time.Time, w Window) []time.Time {
	cutoff := at.Add(-w.Duration)
	kept := times[:0]
	for _, t := range times {
		if !t.Before(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, at)
	if w.Count > 0 && len(kept) > w.Count {
		kept = kept[len(kept)-w.Count:]
	}
	return kept
}
