package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"modescore/internal/config"
	"modescore/internal/logging"
	"modescore/internal/pipeline"
	"modescore/internal/stats"
)

// Application represents the main application
type Application struct {
	config config.Config
	logger *logging.Logger
	stats  *stats.Statistics
	now    func() time.Time

	out   io.Writer
	outMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplication creates a new application instance writing decoded frames to out
func NewApplication(cfg config.Config, logger *logging.Logger, out io.Writer) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	return &Application{
		config: cfg,
		logger: logger,
		stats:  stats.New(),
		now:    time.Now,
		out:    out,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Statistics returns the counters shared by every feed
func (app *Application) Statistics() *stats.Statistics {
	return app.stats
}

// Start decodes every feed until all are exhausted or a shutdown signal arrives
func (app *Application) Start(feeds []Feed) error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
		"feeds":      len(feeds),
	}).Info("Starting Mode S decoder")

	ctx, stop := signal.NotifyContext(app.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Closing the feeds unblocks readers on shutdown
	go func() {
		<-ctx.Done()
		for _, feed := range feeds {
			feed.Close()
		}
	}()

	err := app.Run(ctx, feeds)
	if ctx.Err() != nil {
		app.logger.Info("Received shutdown signal")
		err = nil
	} else if err != nil {
		app.logger.WithError(err).Error("Application error")
	}

	app.shutdown()
	return err
}

// Run decodes the feeds concurrently, one pipeline per feed, and reports
// statistics while they run
func (app *Application) Run(ctx context.Context, feeds []Feed) error {
	reportCtx, stopReports := context.WithCancel(ctx)
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportStatistics(reportCtx)
	}()

	g, gctx := errgroup.WithContext(ctx)
	for _, feed := range feeds {
		feed := feed
		g.Go(func() error {
			return app.processFeed(gctx, feed)
		})
	}
	err := g.Wait()

	stopReports()
	app.wg.Wait()
	app.logger.WithFields(app.stats.Snapshot().Fields()).Info("Final decoder statistics")
	return err
}

// processFeed runs one feed through its own pipeline
func (app *Application) processFeed(ctx context.Context, feed Feed) error {
	p, err := pipeline.New(app.config.Pipeline(), app.stats, app.logger.Logger)
	if err != nil {
		return fmt.Errorf("failed to create pipeline for feed %s: %w", feed.Name, err)
	}
	defer p.Close()

	log := app.logger.WithField("feed", feed.Name)
	log.Info("Feed started")

	extractor := newLineExtractor(app.now)
	scanner := bufio.NewScanner(feed.Reader)

	var lastExpire time.Time
	lines, frames := 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lines++

		frame, at, ok, err := extractor.extract(scanner.Text())
		if err != nil {
			log.WithField("line", lines).WithError(err).Debug("Skipping line")
			continue
		}
		if !ok {
			continue
		}
		frames++

		result, err := p.Process(frame, at)
		if err != nil {
			log.WithField("line", lines).WithError(err).Debug("Frame rejected")
			continue
		}
		app.write(formatResult(result, at))

		switch {
		case lastExpire.IsZero():
			lastExpire = at
		case at.Sub(lastExpire) >= DefaultExpireInterval:
			if n := p.Expire(at); n > 0 {
				log.WithField("aircraft", n).Debug("Expired idle aircraft")
			}
			lastExpire = at
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to read feed %s: %w", feed.Name, err)
	}

	log.WithFields(logrus.Fields{
		"lines":    lines,
		"frames":   frames,
		"aircraft": p.Aircraft(),
	}).Info("Feed finished")
	return nil
}

func (app *Application) write(line string) {
	app.outMu.Lock()
	defer app.outMu.Unlock()
	fmt.Fprintln(app.out, line)
}

// reportStatistics reports decoder statistics periodically
func (app *Application) reportStatistics(ctx context.Context) {
	interval := app.config.ReportInterval()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := app.stats.Snapshot()
			app.logger.WithFields(snap.Fields()).WithFields(logrus.Fields{
				"valid_parity_ratio":  fmt.Sprintf("%.2f%%", snap.ValidParityRatio()*100),
				"adsb_rejected_ratio": fmt.Sprintf("%.2f%%", snap.AdsbRejectedRatio()*100),
			}).Info("Decoder statistics")
		}
	}
}

// shutdown gracefully shuts down the application
func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")
	app.cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	app.logger.Info("Shutdown completed")
	if err := app.logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
	}
}
