package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/logger"
)

type deliveryKey struct{}

func deliveryExtractor(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(deliveryKey{}).(string); ok && v != "" {
		return slog.String("delivery_id", v), true
	}
	return slog.Attr{}, false
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNewWithHandler_Extractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithHandler(slog.NewJSONHandler(&buf, nil), deliveryExtractor, nil)

	ctx := context.WithValue(context.Background(), deliveryKey{}, "d-1")
	log.InfoContext(ctx, "email written to sink")

	rec := decode(t, &buf)
	assert.Equal(t, "d-1", rec["delivery_id"])
	assert.Equal(t, "email written to sink", rec["msg"])
}

func TestNewWithHandler_NoValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithHandler(slog.NewJSONHandler(&buf, nil), deliveryExtractor)
	log.Info("no context value")

	assert.NotContains(t, decode(t, &buf), "delivery_id")
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithHandler(slog.NewJSONHandler(&buf, nil), deliveryExtractor).
		With(slog.String("extension", "courier-mail")).
		WithGroup("mail")

	ctx := context.WithValue(context.Background(), deliveryKey{}, "d-2")
	log.InfoContext(ctx, "sent", slog.String("transport", "smtp"))

	rec := decode(t, &buf)
	assert.Equal(t, "courier-mail", rec["extension"])
	group, ok := rec["mail"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "smtp", group["transport"])
	assert.Equal(t, "d-2", group["delivery_id"])
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestNewWithSentry_NoDSN(t *testing.T) {
	t.Parallel()

	log := logger.NewWithSentry(logger.SentryConfig{})
	require.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.NoError(t, logger.Flush(context.Background()))
}
