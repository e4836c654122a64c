package app

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidLine is returned for lines that do not hold a hex frame
var ErrInvalidLine = errors.New("invalid frame line")

// mlatClockHz is the tick rate of the 48-bit timestamp on "@" lines
const mlatClockHz = 12_000_000

// mlatTimestampDigits is the length of the "@" line timestamp in hex digits
const mlatTimestampDigits = 12

// lineExtractor pulls frames out of text lines in the forms
//
//	*8D4840D6202CC371C32CE0576098;
//	@0000DEADBEEF8D4840D6202CC371C32CE0576098;
//	8D4840D6202CC371C32CE0576098
//
// Timestamped lines are placed on the feed's own clock, starting from the
// wall time of the first one, so that replayed files keep their spacing.
type lineExtractor struct {
	now func() time.Time

	base       time.Time
	firstTicks uint64
	timed      bool
}

func newLineExtractor(now func() time.Time) *lineExtractor {
	if now == nil {
		now = time.Now
	}
	return &lineExtractor{now: now}
}

// extract returns the frame held by line and its reception time. ok is false
// for blank and comment lines.
func (e *lineExtractor) extract(line string) (frame []byte, at time.Time, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, time.Time{}, false, nil
	}
	line = strings.TrimSuffix(line, ";")
	if line == "" {
		return nil, time.Time{}, false, fmt.Errorf("%w: empty frame", ErrInvalidLine)
	}

	at = time.Time{}
	switch line[0] {
	case '*':
		line = line[1:]
	case '@':
		if len(line) < 1+mlatTimestampDigits {
			return nil, time.Time{}, false, fmt.Errorf("%w: timestamp too short", ErrInvalidLine)
		}
		ticks, err := strconv.ParseUint(line[1:1+mlatTimestampDigits], 16, 64)
		if err != nil {
			return nil, time.Time{}, false, fmt.Errorf("%w: timestamp: %v", ErrInvalidLine, err)
		}
		at = e.feedTime(ticks)
		line = line[1+mlatTimestampDigits:]
	}

	frame, err = hex.DecodeString(line)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}
	if len(frame) == 0 {
		return nil, time.Time{}, false, fmt.Errorf("%w: empty frame", ErrInvalidLine)
	}

	if at.IsZero() {
		at = e.now()
	}
	return frame, at, true, nil
}

func (e *lineExtractor) feedTime(ticks uint64) time.Time {
	if !e.timed {
		e.timed = true
		e.firstTicks = ticks
		e.base = e.now()
	}
	elapsed := int64(ticks) - int64(e.firstTicks)
	whole, fraction := elapsed/mlatClockHz, elapsed%mlatClockHz
	return e.base.Add(time.Duration(whole)*time.Second + time.Duration(fraction)*time.Second/mlatClockHz)
}
