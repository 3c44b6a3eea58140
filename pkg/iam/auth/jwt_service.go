package auth

import (
	"errors"
	"time"

	"github.com/Abraxas-365/storefront/pkg/iam"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

type signer struct {
	secret   []byte
	ttl      time.Duration
	audience string
}

// JWTService implements TokenService with HS256. Access and refresh tokens
// use separate secrets and audiences, so neither verifies as the other.
type JWTService struct {
	access  signer
	refresh signer
	issuer  string
	now     func() time.Time
}

// NewJWTService applies the defaults: 15m access, 7d refresh.
func NewJWTService(cfg JWTConfig) *JWTService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "storefront"
	}

	return &JWTService{
		access:  signer{secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL, audience: cfg.Issuer + "-access"},
		refresh: signer{secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL, audience: cfg.Issuer + "-refresh"},
		issuer:  cfg.Issuer,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying.
func (j *JWTService) WithClock(now func() time.Time) *JWTService {
	j.now = now
	return j
}

func (j *JWTService) AccessTTL() time.Duration  { return j.access.ttl }
func (j *JWTService) RefreshTTL() time.Duration { return j.refresh.ttl }

// Claims is the token body: the identity plus registered claims.
type Claims struct {
	ID   kernel.UserID `json:"id"`
	Role kernel.Role   `json:"role"`
	jwt.RegisteredClaims
}

func (j *JWTService) IssueAccess(id kernel.Identity) (string, error) {
	return j.issue(id, j.access)
}

func (j *JWTService) IssueRefresh(id kernel.Identity) (string, error) {
	return j.issue(id, j.refresh)
}

func (j *JWTService) issue(id kernel.Identity, s signer) (string, error) {
	now := j.now()

	claims := Claims{
		ID:   id.ID,
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.issuer,
			Subject:   id.ID.String(),
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(s.ttl))),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithCause(err)
	}
	return token, nil
}

// ceilSecond rounds t up to the whole second NumericDate encodes, so a token
// never expires before its full lifetime.
func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}

// Verify checks signature, algorithm, issuer, audience and expiry. An
// elapsed expiry is TokenExpired; every other failure is InvalidToken.
func (j *JWTService) Verify(token string, kind TokenKind) (kernel.Identity, error) {
	s := j.access
	if kind == TokenRefresh {
		s = j.refresh
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return kernel.Identity{}, iam.ErrTokenExpired().WithCause(err)
		}
		return kernel.Identity{}, iam.ErrInvalidToken().WithCause(err)
	}

	if claims.ID.IsZero() || !claims.Role.IsValid() {
		return kernel.Identity{}, iam.ErrInvalidToken().WithDetail("reason", "missing identity")
	}

	return kernel.Identity{ID: claims.ID, Role: claims.Role}, nil
}
