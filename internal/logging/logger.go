package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger. An empty File logs to stderr.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

// Logger is a logrus logger that may own a size-rotated log file
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New creates a new logger
func New(opts Options) (*Logger, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	l := &Logger{Logger: logger}
	if opts.File == "" {
		logger.SetOutput(os.Stderr)
		return l, nil
	}

	l.file = &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   opts.Compress,
	}
	logger.SetOutput(l.file)
	// File logs are read back by tools, so skip the terminal colours
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return l, nil
}

// Filename returns the log file, or "" when logging to stderr
func (l *Logger) Filename() string {
	if l.file == nil {
		return ""
	}
	return l.file.Filename
}

// Rotate closes the current log file and starts a new one
func (l *Logger) Rotate() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Rotate(); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return nil
}

// Close closes the log file. Later entries go to stderr.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.Logger.SetOutput(io.Discard)
	err := l.file.Close()
	l.Logger.SetOutput(os.Stderr)
	l.file = nil
	return err
}
