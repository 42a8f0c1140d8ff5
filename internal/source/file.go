package source

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/poragchowdhury/logtool/internal/event"
	"github.com/poragchowdhury/logtool/internal/infra"
)

// FileSource streams records from a file. Malformed lines are counted
// and skipped; the rest of the file is still delivered.
type FileSource struct {
	path    string
	inbox   chan<- event.Event
	log     *slog.Logger
	metrics *infra.Metrics
}

// NewFileSource creates a reader for the given path.
func NewFileSource(path string, inbox chan<- event.Event, log *slog.Logger, metrics *infra.Metrics) *FileSource {
	return &FileSource{path: path, inbox: inbox, log: log, metrics: metrics}
}

// Run reads the file to the end, then closes the inbox.
func (s *FileSource) Run(ctx context.Context) error {
	defer close(s.inbox)

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	// Order book lines can be long.
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		ev, err := ParseRecord(sc.Text())
		if err != nil {
			s.metrics.RecordDecodeError()
			s.log.Warn("skipping malformed record",
				slog.Int("line", lineNo), slog.Any("error", err))
			continue
		}
		if ev == nil {
			continue
		}
		select {
		case s.inbox <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
