package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelgrid/entitlements/pkg/logger"
)

type tenantKey struct{}

func TestNew_JSONWithStaticAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Format: "json"},
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "entitlements")))

	log.Info("quota consumed", "kind", "unit", "quantity", 5)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "quota consumed", rec["msg"])
	assert.Equal(t, "entitlements", rec["service"])
	assert.Equal(t, "unit", rec["kind"])
}

func TestNew_ContextValueExtraction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: "json"},
		logger.WithOutput(&buf),
		logger.WithContextValue("tenant_id", tenantKey{}))

	tenantID := uuid.New()
	ctx := context.WithValue(context.Background(), tenantKey{}, tenantID.String())
	log.InfoContext(ctx, "enforcement decision", "reason", "ALLOWED")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, tenantID.String(), rec["tenant_id"])

	// Without the value in context the attribute is simply absent.
	buf.Reset()
	log.Info("enforcement decision")
	rec = map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotContains(t, rec, "tenant_id")
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Format: "text"}, logger.WithOutput(&buf))

	log.Info("below threshold")
	assert.Zero(t, buf.Len())

	log.Warn("soft limit exceeded")
	assert.Contains(t, buf.String(), "soft limit exceeded")
}

func TestNew_BadConfigFallsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "shouting", Format: "xml"}, logger.WithOutput(&buf))

	log.Info("still logs")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "unknown format falls back to JSON")
	assert.Equal(t, "still logs", rec["msg"])
}
