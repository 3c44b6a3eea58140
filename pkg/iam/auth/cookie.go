package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Refresh cookie names. Admin sessions use their own cookie so a shop user
// and the back office can be signed in from one browser.
const (
	RefreshCookieUser  = "refreshTokenUser"
	RefreshCookieAdmin = "refreshTokenSuperAdmin"
)

type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

// SetRefreshCookie writes an http-only, strict same-site cookie.
func SetRefreshCookie(c *fiber.Ctx, name, token string, cfg CookieConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearRefreshCookie expires the named cookie.
func ClearRefreshCookie(c *fiber.Ctx, name string, cfg CookieConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
