// Package sealx turns short plaintexts into opaque, tamper-evident strings and back.
//
// A Codec encrypts with AES-256-GCM. The nonce is derived from an HMAC of the
// plaintext, so equal inputs produce equal tokens under the same key and any
// edit to a token fails authentication on Decode.
package sealx

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/Abraxas-365/storefront/pkg/errx"
)

const nonceSize = 12

var ErrRegistry = errx.NewRegistry("SEAL")

var (
	CodeDecode = ErrRegistry.Register("DECODE", errx.TypeValidation, http.StatusBadRequest, "Verification key is malformed or was not issued by this server")
	CodeKey    = ErrRegistry.Register("KEY", errx.TypeInternal, http.StatusInternalServerError, "Codec key is not usable")
)

// ErrDecode is returned for any token that does not authenticate.
func ErrDecode() *errx.Error { return ErrRegistry.New(CodeDecode) }

// Codec is safe for concurrent use.
type Codec struct {
	aead   cipher.AEAD
	macKey []byte
}

// NewCodec derives independent encryption and nonce keys from secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrRegistry.New(CodeKey).WithDetail("reason", "empty secret")
	}

	encKey := derive(secret, "sealx/enc")
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeKey, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeKey, err)
	}

	return &Codec{aead: aead, macKey: derive(secret, "sealx/nonce")}, nil
}

func derive(secret, label string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(label))
	return mac.Sum(nil)
}

// Encode seals plaintext into a base64url token.
func (c *Codec) Encode(plaintext string) (string, error) {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write([]byte(plaintext))
	nonce := mac.Sum(nil)[:nonceSize]

	out := make([]byte, 0, nonceSize+len(plaintext)+c.aead.Overhead())
	out = append(out, nonce...)
	out = c.aead.Seal(out, nonce, []byte(plaintext), nil)

	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Decode reverses Encode. It fails with ErrDecode when the token is not valid
// base64url, is truncated, or does not authenticate under this key.
func (c *Codec) Decode(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrDecode().WithCause(err)
	}
	if len(raw) < nonceSize+c.aead.Overhead() {
		return "", ErrDecode().WithDetail("reason", "truncated")
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", ErrDecode().WithCause(err)
	}
	return string(plaintext), nil
}

// EncodeJSON marshals v and encodes the result.
func (c *Codec) EncodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errx.Wrap(err, "failed to marshal sealed payload", errx.TypeInternal)
	}
	return c.Encode(string(data))
}

// DecodeJSON decodes token and unmarshals it into v.
func (c *Codec) DecodeJSON(token string, v any) error {
	plaintext, err := c.Decode(token)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(plaintext), v); err != nil {
		return ErrDecode().WithCause(err)
	}
	return nil
}
