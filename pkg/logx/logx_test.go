package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(format Format, level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: level, Format: format, Output: &buf, TimeFormat: time.RFC3339})
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelDebug, ParseLevel(" debug "))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, "ERROR", LevelError.String())
}

func TestJSONFormatter_ContextFieldsAndError(t *testing.T) {
	l, buf := newTestLogger(FormatJSON, LevelInfo)

	ctx := ContextWithFields(context.Background(), Fields{"request_id": "req-1"})
	ctx = ContextWithFields(ctx, Fields{"user_id": 42})

	newEntry(l).WithContext(ctx).WithField("event", "otp_issued").WithError(errors.New("boom")).Info("issued")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "INFO", got["level"])
	assert.Equal(t, "issued", got["message"])
	assert.Equal(t, "req-1", got["request_id"])
	assert.EqualValues(t, 42, got["user_id"])
	assert.Equal(t, "otp_issued", got["event"])
	assert.Equal(t, "boom", got["error"])
	assert.Equal(t, "2026-01-02T03:04:05Z", got["timestamp"])
}

func TestCloudWatchFormatter_UsesShortKeys(t *testing.T) {
	l, buf := newTestLogger(FormatCloudWatch, LevelInfo)
	l.WithField("k", "v").Warn("careful")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "careful", got["msg"])
	assert.Contains(t, got, "time")
}

func TestLogger_RespectsLevel(t *testing.T) {
	l, buf := newTestLogger(FormatConsole, LevelWarn)
	l.WithField("a", 1).Info("hidden")
	assert.Zero(t, buf.Len())

	l.SetLevel(LevelDebug)
	l.WithFields(Fields{"b": 2, "a": 1}).Debug("shown")
	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "[DEBUG] shown a=1 b=2")
}

func TestEntryFieldsWinOverContext(t *testing.T) {
	l, buf := newTestLogger(FormatJSON, LevelInfo)
	ctx := ContextWithFields(context.Background(), Fields{"user_id": 1})

	newEntry(l).WithField("user_id", 2).WithContext(ctx).Info("x")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.EqualValues(t, 2, got["user_id"])
	assert.Nil(t, FieldsFromContext(context.Background()))
}
