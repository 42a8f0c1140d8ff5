package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/poragchowdhury/logtool/internal/domain"
	"github.com/poragchowdhury/logtool/internal/engine"
	"github.com/poragchowdhury/logtool/internal/event"
	"github.com/poragchowdhury/logtool/internal/infra"
	"github.com/poragchowdhury/logtool/internal/sink"
	"github.com/poragchowdhury/logtool/internal/source"
)

// Overrides carries command-line flags that win over the config file.
type Overrides struct {
	LegacyAsks  bool
	UsePrevBook bool
}

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config   *infra.Config
	Metrics  *infra.Metrics
	Analyzer *engine.Analyzer

	log        *slog.Logger
	out        sink.Sink
	outputPath string
	outErr     error
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, sets up logging and the output sink, and
// builds the engine. An output that cannot be opened does not abort:
// the stream is still drained through a discard sink, and Run reports
// the failure when it finishes.
func (b *Bootstrap) Initialize(configPath, outputPath string, ov Overrides) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg).With(slog.String("run", uuid.NewString()))
	slog.SetDefault(logger)
	b.log = logger

	b.Metrics = infra.NewMetrics()
	event.Warmup()

	if ov.LegacyAsks {
		cfg.Analyzer.LegacyAsks = true
	}
	if ov.UsePrevBook {
		cfg.Analyzer.UsePrevBook = true
	}

	b.outputPath = outputPath
	out, err := openSink(cfg.Output.Format, outputPath)
	if err != nil {
		b.outErr = err
		logger.Error("cannot open output, draining without writing",
			slog.String("path", outputPath), slog.Any("error", err))
		out = sink.Discard{}
	}
	b.out = out

	b.Analyzer = engine.NewAnalyzer(engine.Options{
		InboxSize:              cfg.Analyzer.InboxSize,
		DefaultOpenTimeslots:   cfg.Analyzer.OpenTimeslots,
		DefaultDeactivateAhead: cfg.Analyzer.DeactivateTimeslotsAhead,
		MaxLeadTimes:           cfg.Analyzer.MaxLeadTimes,
		LegacyAsks:             cfg.Analyzer.LegacyAsks,
		UsePrevBook:            cfg.Analyzer.UsePrevBook,
	}, out, logger, b.Metrics)

	return nil
}

// openSink picks the sink for the output path. FormatAuto routes .db
// and .sqlite paths to the database sink, everything else to CSV.
func openSink(format, path string) (sink.Sink, error) {
	if format == infra.FormatAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite":
			format = infra.FormatSQLite
		default:
			format = infra.FormatCSV
		}
	}
	if format == infra.FormatSQLite {
		return sink.NewSQLiteSink(path)
	}
	return sink.NewCSVSink(path)
}

// Run streams the input through the engine, then finalizes the output.
// The returned error is non-nil when the output could not be produced.
func (b *Bootstrap) Run(ctx context.Context, locator string) error {
	src := source.New(locator, b.Analyzer.Inbox(), b.log, b.Metrics)

	srcErr := make(chan error, 1)
	go func() {
		srcErr <- src.Run(ctx)
	}()

	b.Analyzer.Run(ctx)

	if err := <-srcErr; err != nil && ctx.Err() == nil {
		b.log.Error("input stream failed", slog.Any("error", err))
	}

	return b.finish()
}

func (b *Bootstrap) finish() error {
	if b.Config.Output.LeadTimeReport && b.outErr == nil {
		if lt := b.Analyzer.LeadTracker(); lt != nil {
			path := b.outputPath + ".leadtimes.csv"
			if err := lt.WriteCSV(path); err != nil {
				b.log.Error("lead-time report failed",
					slog.String("path", path), slog.Any("error", err))
			} else {
				b.log.Info("lead-time report written", slog.String("path", path))
			}
		}
	}

	if err := b.out.Close(); err != nil {
		b.log.Error("closing output failed", slog.Any("error", err))
		if b.outErr == nil {
			b.outErr = err
		}
	}

	if b.outErr != nil {
		return b.outErr
	}
	if b.Analyzer.OutputFailed() {
		return domain.ErrOutputUnavailable
	}
	return nil
}
