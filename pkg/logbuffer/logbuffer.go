// Package logbuffer retains the most recent log records in memory so an
// admin endpoint can show what a long-running background task has been
// doing without log-file access.
package logbuffer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const DefaultCapacity = 500

// Buffer is a fixed-capacity ring of formatted log lines. Safe for
// concurrent use.
type Buffer struct {
	mu       sync.Mutex
	lines    []string
	start    int
	count    int
	capacity int
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		lines:    make([]string, capacity),
		capacity: capacity,
	}
}

// Add appends one line, evicting the oldest when full.
func (b *Buffer) Add(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.start + b.count) % b.capacity
	b.lines[idx] = line
	if b.count < b.capacity {
		b.count++
	} else {
		b.start = (b.start + 1) % b.capacity
	}
}

// Recent returns up to limit of the newest lines in chronological order.
// limit <= 0 means everything retained.
func (b *Buffer) Recent(limit int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.count
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]string, n)
	first := b.start + b.count - n
	for i := 0; i < n; i++ {
		out[i] = b.lines[(first+i)%b.capacity]
	}
	return out
}

// Handler is a slog.Handler that mirrors every record into a Buffer
// before delegating to the wrapped handler.
type Handler struct {
	inner  slog.Handler
	buffer *Buffer
	attrs  []slog.Attr
}

var _ slog.Handler = (*Handler)(nil)

func NewHandler(inner slog.Handler, buffer *Buffer) *Handler {
	return &Handler{inner: inner, buffer: buffer}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	h.buffer.Add(formatRecord(record, h.attrs))
	return h.inner.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		inner:  h.inner.WithAttrs(attrs),
		buffer: h.buffer,
		attrs:  append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		inner:  h.inner.WithGroup(name),
		buffer: h.buffer,
		attrs:  h.attrs,
	}
}

func formatRecord(record slog.Record, bound []slog.Attr) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %s",
		record.Time.Format(time.RFC3339), record.Level, record.Message)

	for _, attr := range bound {
		fmt.Fprintf(&sb, " %s=%v", attr.Key, attr.Value)
	}
	record.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", attr.Key, attr.Value)
		return true
	})
	return sb.String()
}
