package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture redirects l to a buffer and returns a function decoding the last
// written entry.
func capture(t *testing.T, l *Logger) func() map[string]any {
	t.Helper()
	var buf bytes.Buffer
	l.Logger = l.Output(&buf)

	return func() map[string]any {
		t.Helper()
		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		var entry map[string]any
		require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
		return entry
	}
}

func TestNewLogger_EntryShape(t *testing.T) {
	l := NewLogger("go-vault-sync")
	last := capture(t, l)

	l.Info().Str("driver", "memory").Msg("storage ready")

	entry := last()
	assert.Equal(t, "go-vault-sync", entry["role"])
	assert.Equal(t, "storage ready", entry["message"])
	assert.Equal(t, "memory", entry["driver"])
	assert.Contains(t, entry, "time")
	assert.Equal(t, "func", zerolog.CallerFieldName)
}

func TestNewLogger_Level(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "", want: zerolog.DebugLevel},
		{level: "info", want: zerolog.InfoLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "loud", want: zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			NewLogger("level", WithLevel(tt.level))
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestNewLogger_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.log")

	l := NewLogger("file-role", WithFile(path), WithoutStdout())
	l.Warn().Msg("purge finished with errors")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "file-role", entry["role"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNewClientLogger_WithoutFileIsSilent(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, NewClientLogger("client", "").GetLevel())
}

func TestNop(t *testing.T) {
	l := Nop()
	var buf bytes.Buffer
	l.Logger = l.Output(&buf)

	l.Error().Msg("dropped")

	assert.Empty(t, buf.String())
}

func TestGetChildLogger(t *testing.T) {
	parent := NewLogger("parent-role")
	last := capture(t, parent)

	child := parent.GetChildLogger()
	child.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Int64("user_id", 7)
	})
	require.NotSame(t, parent, child)

	child.Info().Msg("from child")
	entry := last()
	assert.Equal(t, "parent-role", entry["role"])
	assert.Equal(t, float64(7), entry["user_id"])

	parent.Info().Msg("from parent")
	assert.NotContains(t, last(), "user_id")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).With().Str("trace_id", "abc").Logger().WithContext(context.Background())

	FromContext(ctx).Info().Msg("traced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["trace_id"])
}

func TestFromContext_WithoutLogger(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}

func TestFromRequest(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).With().Str("trace_id", "req-1").Logger().WithContext(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil).WithContext(ctx)

	FromRequest(req).Info().Msg("handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["trace_id"])
}
