package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger at Debug level, or at Warn
// level for failed calls.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("call_id", event.CallID),
		slog.String("category", event.Category.String()),
		slog.String("operation", event.Operation.String()),
		slog.String("status", fmt.Sprintf("0x%08X", uint32(event.Status))),
	}
	if event.NodeID != "" {
		attrs = append(attrs, slog.String("node_id", event.NodeID))
	}
	if event.Value != nil {
		attrs = append(attrs, slog.Any("value", event.Value))
	}
	if event.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", event.Duration))
	}

	level := slog.LevelDebug
	if event.Failed() {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.Message))
	}

	a.logger.LogAttrs(context.Background(), level, "call", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
