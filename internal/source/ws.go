package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/poragchowdhury/logtool/internal/event"
	"github.com/poragchowdhury/logtool/internal/infra"
)

const handshakeTimeout = 10 * time.Second

// WSSource streams records from a live simulator over a websocket. Each
// text message carries one or more newline-separated records. The stream
// ends on a normal close from the peer.
type WSSource struct {
	url     string
	inbox   chan<- event.Event
	log     *slog.Logger
	metrics *infra.Metrics
}

// NewWSSource creates a reader for the given ws:// or wss:// URL.
func NewWSSource(url string, inbox chan<- event.Event, log *slog.Logger, metrics *infra.Metrics) *WSSource {
	return &WSSource{url: url, inbox: inbox, log: log, metrics: metrics}
}

// Run reads until the peer closes or the context is cancelled, then
// closes the inbox.
func (s *WSSource) Run(ctx context.Context) error {
	defer close(s.inbox)

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}
	defer conn.Close()
	s.log.Info("stream connected", slog.String("url", s.url))

	// Unblock ReadMessage on cancellation.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}
		for _, line := range strings.Split(string(msg), "\n") {
			ev, err := ParseRecord(line)
			if err != nil {
				s.metrics.RecordDecodeError()
				s.log.Warn("skipping malformed record", slog.Any("error", err))
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
	}
}
