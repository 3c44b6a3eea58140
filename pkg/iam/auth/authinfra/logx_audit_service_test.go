package authinfra

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/Abraxas-365/storefront/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logx.GetDefaultLogger()
	cfg := logx.DefaultConfig()
	cfg.Format = logx.FormatJSON
	cfg.Output = &buf
	logx.SetDefaultLogger(logx.NewLogger(cfg))
	t.Cleanup(func() { logx.SetDefaultLogger(prev) })
	return &buf
}

func TestLogxAuditService_CarriesRequestFields(t *testing.T) {
	buf := captureLogs(t)
	ctx := logx.ContextWithFields(context.Background(), logx.Fields{"request_id": "req-1"})

	NewLogxAuditService().LogUserChange(ctx,
		kernel.Identity{ID: 1, Role: kernel.RoleOwner}, 5, "role_changed",
		map[string]any{"from": "user", "to": "admin"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "user_role_changed", line["audit_event"])
	assert.Equal(t, "owner", line["actor_role"])
	assert.Equal(t, "admin", line["to"])
}

func TestLogxAuditService_FailedSignInIsWarning(t *testing.T) {
	buf := captureLogs(t)

	NewLogxAuditService().LogSignIn(context.Background(), "ana@shop.com", 0, "password", false, "inactive")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "inactive", line["reason"])
	assert.NotContains(t, line, "user_id")
}
