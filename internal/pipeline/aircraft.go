package pipeline

import (
	"time"

	"modescore/internal/cpr"
	"modescore/internal/sanity"
)

// fastSurfaceKnots separates slow and fast surface movement when choosing the
// global decode window
const fastSurfaceKnots = 25.0

// cprFrame is a position coordinate and its reception time
type cprFrame struct {
	coordinate cpr.Coordinate
	at         time.Time
}

// aircraft is the per-address decoding state owned by a pipeline
type aircraft struct {
	icao uint32

	even *cprFrame
	odd  *cprFrame

	lastFix *sanity.Fix
	// groundSpeed in knots from the latest velocity or surface movement
	groundSpeed *float64
	lastSeen    time.Time
}

// store keeps frame as the latest frame of its parity. A frame of the other
// kind (surface against airborne, or a different resolution) can never pair
// with it, so it is dropped.
func (a *aircraft) store(frame *cprFrame) {
	if frame.coordinate.IsOdd {
		a.odd = frame
		if a.even != nil && !compatible(a.even.coordinate, frame.coordinate) {
			a.even = nil
		}
		return
	}
	a.even = frame
	if a.odd != nil && !compatible(a.odd.coordinate, frame.coordinate) {
		a.odd = nil
	}
}

// pair returns the stored frames ordered by reception time
func (a *aircraft) pair() (earlier, later *cprFrame, ok bool) {
	if a.even == nil || a.odd == nil {
		return nil, nil, false
	}
	if a.odd.at.Before(a.even.at) {
		return a.odd, a.even, true
	}
	return a.even, a.odd, true
}

// keepOnly discards every stored frame except latest
func (a *aircraft) keepOnly(latest *cprFrame) {
	if latest.coordinate.IsOdd {
		a.even = nil
		a.odd = latest
	} else {
		a.odd = nil
		a.even = latest
	}
}

// resetTrack forgets the last fix and all but the newest frame
func (a *aircraft) resetTrack(latest *cprFrame) {
	a.lastFix = nil
	a.keepOnly(latest)
}

func (a *aircraft) fastOnSurface() bool {
	return a.groundSpeed != nil && *a.groundSpeed > fastSurfaceKnots
}

func compatible(a, b cpr.Coordinate) bool {
	return a.Surface == b.Surface && a.Bits == b.Bits
}
