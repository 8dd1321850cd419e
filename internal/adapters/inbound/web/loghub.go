package web

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LogEntry is one log record forwarded to websocket subscribers.
type LogEntry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// LogHub fans log entries out to subscribers. Slow subscribers drop entries
// rather than block the logger.
type LogHub struct {
	mu   sync.Mutex
	subs map[chan LogEntry]struct{}
}

func NewLogHub() *LogHub {
	return &LogHub{subs: make(map[chan LogEntry]struct{})}
}

// Subscribe registers a buffered channel. The returned func unsubscribes and
// must be called exactly once.
func (h *LogHub) Subscribe() (<-chan LogEntry, func()) {
	ch := make(chan LogEntry, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

func (h *LogHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *LogHub) Publish(e LogEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Handler returns a slog.Handler that publishes every record to the hub and
// then passes it on to next.
func (h *LogHub) Handler(next slog.Handler) slog.Handler {
	return &hubHandler{next: next, hub: h}
}

type hubHandler struct {
	next  slog.Handler
	hub   *LogHub
	attrs []slog.Attr
}

func (h *hubHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *hubHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := LogEntry{Time: r.Time, Level: r.Level.String(), Message: r.Message}
	if n := len(h.attrs) + r.NumAttrs(); n > 0 {
		entry.Attrs = make(map[string]any, n)
		for _, a := range h.attrs {
			entry.Attrs[a.Key] = a.Value.String()
		}
		r.Attrs(func(a slog.Attr) bool {
			entry.Attrs[a.Key] = a.Value.String()
			return true
		})
	}
	h.hub.Publish(entry)
	return h.next.Handle(ctx, r)
}

func (h *hubHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &hubHandler{next: h.next.WithAttrs(attrs), hub: h.hub, attrs: merged}
}

func (h *hubHandler) WithGroup(name string) slog.Handler {
	return &hubHandler{next: h.next.WithGroup(name), hub: h.hub, attrs: h.attrs}
}
