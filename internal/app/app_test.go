package app

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modescore/internal/config"
	"modescore/internal/logging"
)

const (
	identificationFrame = "8D4840D6202CC371C32CE0576098"
	evenPositionFrame   = "8D4CA7E858C382D690C8AC9AE387"
	oddPositionFrame    = "8D4CA7E858C38641ECC3192BD43A"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestApplication(t *testing.T, out *bytes.Buffer) *Application {
	t.Helper()
	logger, err := logging.New(logging.Options{Level: "panic"})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.ReportIntervalSeconds = 0

	app := NewApplication(cfg, logger, out)
	app.now = func() time.Time { return t0 }
	return app
}

// TestOpenFeeds tests feed selection from command line arguments
func TestOpenFeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frames.txt")
	require.NoError(t, os.WriteFile(path, []byte(identificationFrame+"\n"), 0o644))
	stdin := strings.NewReader("")

	feeds, err := OpenFeeds(nil, stdin)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, StdinFeed, feeds[0].Name)
	assert.NoError(t, feeds[0].Close())

	feeds, err = OpenFeeds([]string{path, StdinFeed}, stdin)
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.Equal(t, path, feeds[0].Name)
	assert.Equal(t, StdinFeed, feeds[1].Name)
	for _, feed := range feeds {
		assert.NoError(t, feed.Close())
	}

	_, err = OpenFeeds([]string{path, filepath.Join(dir, "missing.txt")}, stdin)
	assert.Error(t, err)
}

// TestLineExtractor tests the supported line formats
func TestLineExtractor(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		frame   string
		skipped bool
		wantErr bool
	}{
		{name: "Raw", line: "*" + identificationFrame + ";", frame: identificationFrame},
		{name: "Plain", line: identificationFrame, frame: identificationFrame},
		{name: "Plain with whitespace", line: "  " + strings.ToLower(identificationFrame) + "  ", frame: identificationFrame},
		{name: "Timestamped", line: "@0000DEADBEEF" + identificationFrame + ";", frame: identificationFrame},
		{name: "Short frame", line: "*5D4840D6F8740F;", frame: "5D4840D6F8740F"},
		{name: "Blank", line: "", skipped: true},
		{name: "Comment", line: "# recorded at EHAM", skipped: true},
		{name: "Not hex", line: "*8D4840D6202CZZ;", wantErr: true},
		{name: "Odd length", line: "8D4840D", wantErr: true},
		{name: "Short timestamp", line: "@0000DEAD", wantErr: true},
		{name: "Empty frame", line: "*;", wantErr: true},
		{name: "Terminator only", line: ";", wantErr: true},
		{name: "Padded terminator", line: "  ; ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newLineExtractor(func() time.Time { return t0 })
			frame, at, ok, err := e.extract(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLine)
				return
			}
			require.NoError(t, err)
			if tt.skipped {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.frame, strings.ToUpper(hex.EncodeToString(frame)))
			assert.Equal(t, t0, at)
		})
	}
}

// TestLineExtractorTimestamps tests that timestamped lines keep their spacing
func TestLineExtractorTimestamps(t *testing.T) {
	wall := t0
	e := newLineExtractor(func() time.Time { return wall })

	_, first, _, err := e.extract("@000001000000" + identificationFrame + ";")
	require.NoError(t, err)
	assert.Equal(t, t0, first)

	wall = t0.Add(time.Hour)
	_, second, _, err := e.extract("@000002C9C380" + identificationFrame + ";")
	require.NoError(t, err)
	assert.Equal(t, t0.Add(2500*time.Millisecond), second, "30,000,000 ticks of a 12 MHz clock")

	_, plain, _, err := e.extract(identificationFrame)
	require.NoError(t, err)
	assert.Equal(t, wall, plain, "untimed lines use the wall clock")
}

// TestRun tests decoding two feeds concurrently
func TestRun(t *testing.T) {
	var out bytes.Buffer
	app := newTestApplication(t, &out)

	feeds := []Feed{
		{Name: "positions", Reader: strings.NewReader(strings.Join([]string{
			"# position pair",
			"*" + evenPositionFrame + ";",
			"*" + oddPositionFrame + ";",
		}, "\n"))},
		{Name: "identification", Reader: strings.NewReader(strings.Join([]string{
			"*" + identificationFrame + ";",
			"not a frame",
			"*8D4840D6;",
		}, "\n"))},
	}

	require.NoError(t, app.Run(context.Background(), feeds))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, out.String(), "12:00:00.000 4840D6 ExtendedSquitter IdentificationAndCategory callsign=KLM1023 category=A0")
	assert.Contains(t, out.String(), "4CA7E8 ExtendedSquitter AirbornePosition alt=38000 lat=52.25721 lon=3.91937 pos=global")

	snap := app.Statistics().Snapshot()
	assert.Equal(t, uint64(3), snap.LongFrames)
	assert.Equal(t, uint64(1), snap.MalformedFrames)
	assert.Equal(t, uint64(1), snap.GlobalPositions)
	assert.Equal(t, uint64(3), snap.AdsbMessages)
}

// TestRunCancelled tests that a cancelled context stops the feeds
func TestRunCancelled(t *testing.T) {
	var out bytes.Buffer
	app := newTestApplication(t, &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	feeds := []Feed{{Name: "cancelled", Reader: strings.NewReader(identificationFrame + "\n")}}
	assert.ErrorIs(t, app.Run(ctx, feeds), context.Canceled)
	assert.Empty(t, out.String())
}

// TestStart tests a complete run over finite feeds
func TestStart(t *testing.T) {
	var out bytes.Buffer
	app := newTestApplication(t, &out)

	feeds := []Feed{{Name: "identification", Reader: strings.NewReader(identificationFrame + "\n")}}
	require.NoError(t, app.Start(feeds))
	assert.Contains(t, out.String(), "callsign=KLM1023")
}

// TestShowVersion tests the version banner
func TestShowVersion(t *testing.T) {
	var buf bytes.Buffer
	ShowVersion(&buf)
	assert.Contains(t, buf.String(), "Version: "+Version)
	assert.Contains(t, buf.String(), "Git Commit: "+GitCommit)
}
