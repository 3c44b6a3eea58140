package authapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/iam/auth"
	"github.com/Abraxas-365/storefront/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/storefront/pkg/iam/auth/authsrv"
	"github.com/Abraxas-365/storefront/pkg/iam/otp/otpsrv"
	"github.com/Abraxas-365/storefront/pkg/iam/otp/otptest"
	"github.com/Abraxas-365/storefront/pkg/iam/user"
	"github.com/Abraxas-365/storefront/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/storefront/pkg/iam/user/usertest"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/Abraxas-365/storefront/pkg/sealx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "Str0ng!pass"

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Code       string          `json:"code"`
	Error      string          `json:"error"`
}

type fixture struct {
	app      *fiber.App
	users    *usertest.MemoryRepository
	notifier *otptest.Notifier
	tokens   *auth.JWTService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:    usertest.NewMemoryRepository(),
		notifier: &otptest.Notifier{},
		tokens:   auth.NewJWTService(auth.JWTConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"}),
	}

	codec, err := sealx.NewCodec("verification-secret")
	require.NoError(t, err)

	audit := authinfra.NewLogxAuditService()
	otps := otpsrv.NewOTPService(otptest.NewMemoryRepository(), f.notifier, otpsrv.Config{})
	creds := authsrv.NewCredentialService(f.users, usertest.PlainHasher{}, otps, codec, f.tokens, audit)
	users := usersrv.NewUserService(f.users, usertest.PlainHasher{}, audit)

	f.app = fiber.New(fiber.Config{ErrorHandler: errx.WriteFiber})
	NewHandlers(creds, users, auth.NewMiddleware(f.tokens), auth.CookieConfig{MaxAge: 24 * time.Hour}).
		RegisterRoutes(f.app)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func (f *fixture) bearer(t *testing.T, id kernel.UserID, role kernel.Role) map[string]string {
	t.Helper()
	tok, err := f.tokens.IssueAccess(kernel.Identity{ID: id, Role: role})
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignUpToProfile(t *testing.T) {
	f := newFixture(t)
	creds := map[string]string{"email": "ana@shop.com", "password": password}

	resp, env := f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"email": "ana@shop.com", "password": password, "first_name": "Ana"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	assert.Equal(t, http.StatusCreated, env.StatusCode)

	var verification authsrv.VerificationResponse
	require.NoError(t, json.Unmarshal(env.Data, &verification))
	require.NotEmpty(t, verification.VerificationKey)

	resp, env = f.do(t, http.MethodPost, "/auth/signin", creds, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_INACTIVE_ACCOUNT", env.Code)
	assert.Nil(t, cookieNamed(resp, auth.RefreshCookieUser))

	resp, env = f.do(t, http.MethodPost, "/auth/confirm-otp", map[string]string{
		"verification_key": verification.VerificationKey,
		"email":            "ana@shop.com",
		"otp":              f.notifier.Code("ana@shop.com"),
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	resp, env = f.do(t, http.MethodPost, "/auth/signin", creds, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	cookie := cookieNamed(resp, auth.RefreshCookieUser)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)

	var signIn struct {
		AccessToken string       `json:"access_token"`
		User        user.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &signIn))

	resp, env = f.do(t, http.MethodGet, "/auth/me", nil, map[string]string{"Authorization": "Bearer " + signIn.AccessToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me user.Profile
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "ana@shop.com", me.Email)
	assert.True(t, me.IsActive)

	resp, env = f.do(t, http.MethodPost, "/auth/refresh", nil, map[string]string{"Cookie": cookie.Name + "=" + cookie.Value})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	assert.Contains(t, string(env.Data), "access_token")
}

func TestConfirmOTP_WrongEmail(t *testing.T) {
	f := newFixture(t)
	_, env := f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"email": "ana@shop.com", "password": password, "first_name": "Ana"}, nil)
	var verification authsrv.VerificationResponse
	require.NoError(t, json.Unmarshal(env.Data, &verification))

	resp, env := f.do(t, http.MethodPost, "/auth/confirm-otp", map[string]string{
		"verification_key": verification.VerificationKey,
		"email":            "eve@shop.com",
		"otp":              f.notifier.Code("ana@shop.com"),
	}, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OTP_EMAIL_MISMATCH", env.Code)
	assert.Equal(t, "Bad Request", env.Error)
}

func TestSignUp_BadBody(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignInAdmin_SetsAdminCookie(t *testing.T) {
	f := newFixture(t)
	f.users.Seed(user.User{Email: "ana@shop.com", PasswordHash: "plain:" + password, Role: kernel.RoleUser, IsActive: true})
	f.users.Seed(user.User{Email: "adam@shop.com", PasswordHash: "plain:" + password, Role: kernel.RoleAdmin, IsActive: true})

	resp, env := f.do(t, http.MethodPost, "/auth/signin-admin", map[string]string{"email": "ana@shop.com", "password": password}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "IAM_FORBIDDEN", env.Code)

	resp, _ = f.do(t, http.MethodPost, "/auth/signin-admin", map[string]string{"email": "adam@shop.com", "password": password}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, cookieNamed(resp, auth.RefreshCookieAdmin))
	assert.Nil(t, cookieNamed(resp, auth.RefreshCookieUser))
}

func TestRefresh_WithoutCookie(t *testing.T) {
	resp, env := newFixture(t).do(t, http.MethodPost, "/auth/refresh", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_MISSING_REFRESH_TOKEN", env.Code)
}

func TestLogout_ClearsCookies(t *testing.T) {
	resp, _ := newFixture(t).do(t, http.MethodPost, "/auth/logout", nil, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, name := range []string{auth.RefreshCookieUser, auth.RefreshCookieAdmin} {
		c := cookieNamed(resp, name)
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value)
	}
}

func TestSetActive_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.users.Seed(user.User{Email: "boss@shop.com", Role: kernel.RoleOwner, IsActive: true})
	admin := f.users.Seed(user.User{Email: "adam@shop.com", Role: kernel.RoleAdmin, IsActive: true})
	ana := f.users.Seed(user.User{Email: "ana@shop.com", Role: kernel.RoleUser})
	body := map[string]bool{"is_active": true}

	resp, _ := f.do(t, http.MethodPatch, "/auth/active/"+ana.String(), body, f.bearer(t, admin, kernel.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := f.do(t, http.MethodPatch, "/auth/active/"+ana.String(), body, f.bearer(t, owner, kernel.RoleOwner))
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var p user.Profile
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.True(t, p.IsActive)

	resp, env = f.do(t, http.MethodPatch, "/auth/active/"+owner.String(), body, f.bearer(t, owner, kernel.RoleOwner))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "USER_OWNER_PROTECTED", env.Code)
}
