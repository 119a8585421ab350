package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// LogEntry is one captured log record for a job.
type LogEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata"`
}

// MemoryLogHandler is a slog.Handler that captures records in memory so a
// job's log trail can be served back over the API.
type MemoryLogHandler struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewMemoryLogHandler() *MemoryLogHandler {
	return &MemoryLogHandler{}
}

func (h *MemoryLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *MemoryLogHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]interface{})
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	metaJSON, err := json.Marshal(attrs)
	if err != nil {
		metaJSON = []byte("{}")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, LogEntry{
		Timestamp: r.Time,
		Level:     r.Level.String(),
		Message:   r.Message,
		Metadata:  metaJSON,
	})
	return nil
}

// Entries returns a copy of the captured records in append order.
func (h *MemoryLogHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LogEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *MemoryLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Attribute chaining is not needed for the job log trail.
	return h
}

func (h *MemoryLogHandler) WithGroup(name string) slog.Handler {
	return h
}
