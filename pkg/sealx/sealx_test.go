package sealx_test

import (
	"encoding/base64"
	"testing"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/sealx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, secret string) *sealx.Codec {
	t.Helper()
	c, err := sealx.NewCodec(secret)
	require.NoError(t, err)
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newCodec(t, "s3cret")

	for _, in := range []string{
		"",
		"a",
		`{"timestamp":"2026-01-01T00:00:00Z","email":"a@x.com","otp_id":17}`,
		"ünïcødé ✓",
	} {
		tok, err := c.Encode(in)
		require.NoError(t, err)

		out, err := c.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestCodec_Deterministic(t *testing.T) {
	c := newCodec(t, "s3cret")

	a, _ := c.Encode("payload")
	b, _ := c.Encode("payload")
	other, _ := c.Encode("payload2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
}

func TestCodec_RejectsForeignTokens(t *testing.T) {
	c := newCodec(t, "s3cret")
	tok, err := c.Encode(`{"email":"a@x.com"}`)
	require.NoError(t, err)

	raw, _ := base64.RawURLEncoding.DecodeString(tok)
	raw[len(raw)-1] ^= 0x01
	flipped := base64.RawURLEncoding.EncodeToString(raw)

	otherKey, _ := newCodec(t, "different").Encode(`{"email":"a@x.com"}`)

	for name, bad := range map[string]string{
		"empty":       "",
		"not base64":  "***",
		"truncated":   tok[:10],
		"bit flipped": flipped,
		"other key":   otherKey,
		"plain json":  base64.RawURLEncoding.EncodeToString([]byte(`{"email":"a@x.com","otp_id":1}`)),
	} {
		_, err := c.Decode(bad)
		require.Error(t, err, name)
		assert.True(t, errx.HasCode(err, sealx.CodeDecode), name)
		assert.True(t, errx.IsType(err, errx.TypeValidation), name)
	}
}

func TestCodec_JSON(t *testing.T) {
	c := newCodec(t, "s3cret")

	type payload struct {
		Email string `json:"email"`
		ID    int64  `json:"otp_id"`
	}

	tok, err := c.EncodeJSON(payload{Email: "a@x.com", ID: 9})
	require.NoError(t, err)

	var got payload
	require.NoError(t, c.DecodeJSON(tok, &got))
	assert.Equal(t, payload{Email: "a@x.com", ID: 9}, got)

	notJSON, _ := c.Encode("not json")
	assert.Error(t, c.DecodeJSON(notJSON, &got))
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	_, err := sealx.NewCodec("")
	assert.True(t, errx.HasCode(err, sealx.CodeKey))
}
