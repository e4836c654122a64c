package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modescore/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(strings.NewReader(stdin), &out)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

// TestVersionCommand tests the version subcommand
func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:")
}

// TestConfigCommand tests that flags reach the dumped configuration
func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "", "config", "--lat", "52.31", "--lon", "4.76", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "latitude: 52.31")
	assert.Contains(t, out, "longitude: 4.76")
	assert.Contains(t, out, "level: debug")
}

// TestConfigCommandFile tests loading a configuration file
func TestConfigCommandFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracking:\n  max_aircraft: 256\n"), 0o644))

	out, err := execute(t, "", "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "max_aircraft: 256")
}

// TestConfigCommandInvalid tests that invalid settings are reported
func TestConfigCommandInvalid(t *testing.T) {
	_, err := execute(t, "", "config", "--range", "0")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

// TestDecodeStdin tests decoding frames piped to stdin
func TestDecodeStdin(t *testing.T) {
	stdin := "*8D4840D6202CC371C32CE0576098;\n*5D4840D6F8740F;\n"
	out, err := execute(t, stdin, "--log-level", "panic", "--report-interval", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "4840D6 ExtendedSquitter IdentificationAndCategory callsign=KLM1023")
	assert.Contains(t, out, "4840D6 AllCallReply")
}

// TestDecodeFiles tests decoding files as separate feeds
func TestDecodeFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	require.NoError(t, os.WriteFile(first, []byte("*8D4CA7E858C382D690C8AC9AE387;\n*8D4CA7E858C38641ECC3192BD43A;\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("8D4840D6202CC371C32CE0576098\n"), 0o644))

	out, err := execute(t, "", "--log-level", "panic", "--report-interval", "0", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "lat=52.25721 lon=3.91937 pos=global")
	assert.Contains(t, out, "callsign=KLM1023")
}

// TestDecodeStdinArgument tests that "-" selects stdin next to files
func TestDecodeStdinArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.txt")
	require.NoError(t, os.WriteFile(path, []byte("*5D4840D6F8740F;\n"), 0o644))

	out, err := execute(t, "8D4840D6202CC371C32CE0576098\n", "--log-level", "panic", "--report-interval", "0", path, "-")
	require.NoError(t, err)
	assert.Contains(t, out, "callsign=KLM1023")
	assert.Contains(t, out, "4840D6 AllCallReply")
}

// TestDecodeMissingFile tests that a missing feed is an error
func TestDecodeMissingFile(t *testing.T) {
	_, err := execute(t, "", "--log-level", "panic", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
