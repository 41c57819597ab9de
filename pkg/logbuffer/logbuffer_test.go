package logbuffer

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferEvictsOldest(t *testing.T) {
	b := NewBuffer(3)
	for _, line := range []string{"a", "b", "c", "d"} {
		b.Add(line)
	}

	assert.Equal(t, []string{"b", "c", "d"}, b.Recent(0))
	assert.Equal(t, []string{"c", "d"}, b.Recent(2))
}

func TestBufferRecentBelowCapacity(t *testing.T) {
	b := NewBuffer(10)
	b.Add("only")

	assert.Equal(t, []string{"only"}, b.Recent(0))
	assert.Equal(t, []string{"only"}, b.Recent(100))
}

func TestHandlerMirrorsRecords(t *testing.T) {
	buffer := NewBuffer(DefaultCapacity)
	inner := slog.NewTextHandler(io.Discard, nil)
	logger := slog.New(NewHandler(inner, buffer))

	logger.Info("statute ingested", "year", 2020)
	logger.Error("fetch failed", "status", 503)

	lines := buffer.Recent(0)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO statute ingested")
	assert.Contains(t, lines[0], "year=2020")
	assert.Contains(t, lines[1], "ERROR fetch failed")
	assert.Contains(t, lines[1], "status=503")
}

func TestHandlerWithAttrsKeepsSharedBuffer(t *testing.T) {
	buffer := NewBuffer(DefaultCapacity)
	inner := slog.NewTextHandler(io.Discard, nil)
	logger := slog.New(NewHandler(inner, buffer)).With("component", "crawler")

	logger.Info("started")

	lines := buffer.Recent(0)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "component=crawler")
}
