package app

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Application defaults
const (
	// DefaultExpireInterval is how often idle aircraft are dropped, in feed time
	DefaultExpireInterval = time.Minute
	// StdinFeed names the feed read from standard input
	StdinFeed = "-"
)

// Feed is one source of frames. Each feed gets its own pipeline.
type Feed struct {
	Name   string
	Reader io.Reader
	closer io.Closer
}

// Close closes the underlying file, if the feed owns one
func (f Feed) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// OpenFeeds opens one feed per path. "-" or no paths at all read stdin.
func OpenFeeds(paths []string, stdin io.Reader) ([]Feed, error) {
	if len(paths) == 0 {
		return []Feed{{Name: StdinFeed, Reader: stdin}}, nil
	}

	feeds := make([]Feed, 0, len(paths))
	for _, path := range paths {
		if path == StdinFeed {
			feeds = append(feeds, Feed{Name: StdinFeed, Reader: stdin})
			continue
		}
		file, err := os.Open(path)
		if err != nil {
			for _, feed := range feeds {
				feed.Close()
			}
			return nil, fmt.Errorf("failed to open feed %s: %w", path, err)
		}
		feeds = append(feeds, Feed{Name: path, Reader: file, closer: file})
	}
	return feeds, nil
}
