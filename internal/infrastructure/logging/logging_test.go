package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	ctx := WithRequestID(context.Background(), "abc-123")
	logger.InfoContext(ctx, "relayed", "host", "example.com")

	assert.Contains(t, buf.String(), "request_id=abc-123")
	assert.Contains(t, buf.String(), "host=example.com")
}

func TestNew_WithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo).With("component", "relay")

	logger.InfoContext(context.Background(), "hello")

	assert.NotContains(t, buf.String(), "request_id")
	assert.Contains(t, buf.String(), "component=relay")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestRequestID_Empty(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
