package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_WritesToFileAndTeesExtraCores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.log")
	core, recorded := observer.New(zapcore.InfoLevel)

	l, err := New(&Config{Level: "info", Format: "json", Output: path}, core, nil)
	require.NoError(t, err)

	l.Info("bill created", zap.String("bill_number", "INV-1"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bill_number":"INV-1"`)
	assert.Equal(t, 1, recorded.FilterMessage("bill created").Len())
}

func TestNew_DefaultsWhenConfigNil(t *testing.T) {
	l, err := New(nil)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestContextFields(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "admin-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "admin-1", GetUserID(ctx))

	fields := Fields(ctx)
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	assert.ElementsMatch(t, []string{"request_id", "user_id"}, keys)

	assert.Empty(t, Fields(context.Background()))
}

func TestL_PrefersContextLogger(t *testing.T) {
	baseCore, baseLogs := observer.New(zapcore.InfoLevel)
	ctxCore, ctxLogs := observer.New(zapcore.InfoLevel)

	ctx := WithContext(context.Background(), zap.New(ctxCore))
	ctx = WithRequestID(ctx, "req-9")

	L(ctx, zap.New(baseCore)).Info("hello")
	assert.Equal(t, 0, baseLogs.Len())
	require.Equal(t, 1, ctxLogs.Len())
	assert.Equal(t, "req-9", ctxLogs.All()[0].ContextMap()["request_id"])

	L(context.Background(), zap.New(baseCore)).Info("fallback")
	assert.Equal(t, 1, baseLogs.Len())

	assert.NotPanics(t, func() { L(context.Background(), nil).Info("nop") })
	assert.NotNil(t, FromContext(context.Background()))
}
