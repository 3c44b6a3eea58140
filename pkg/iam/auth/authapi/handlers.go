// Package authapi exposes the credential flows over HTTP.
package authapi

import (
	"context"

	"github.com/Abraxas-365/storefront/pkg/iam"
	"github.com/Abraxas-365/storefront/pkg/iam/auth"
	"github.com/Abraxas-365/storefront/pkg/iam/auth/authsrv"
	"github.com/Abraxas-365/storefront/pkg/iam/iamapi"
	"github.com/Abraxas-365/storefront/pkg/iam/user"
	"github.com/Abraxas-365/storefront/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	creds  *authsrv.CredentialService
	users  *usersrv.UserService
	mw     *auth.Middleware
	cookie auth.CookieConfig
}

func NewHandlers(creds *authsrv.CredentialService, users *usersrv.UserService, mw *auth.Middleware, cookie auth.CookieConfig) *Handlers {
	return &Handlers{creds: creds, users: users, mw: mw, cookie: cookie}
}

// RegisterRoutes mounts the /auth group.
func (h *Handlers) RegisterRoutes(r fiber.Router) {
	g := r.Group("/auth")

	g.Post("/signup", h.SignUp)
	g.Post("/new-otp", h.RequestOTP)
	g.Post("/confirm-otp", h.ConfirmOTP)
	g.Post("/signin", h.SignIn)
	g.Post("/signin-admin", h.SignInAdmin)
	g.Post("/refresh", h.Refresh)
	g.Post("/logout", h.Logout)

	g.Get("/me", h.mw.Authenticate(), h.Me)
	g.Patch("/active/:id", h.mw.Authenticate(), h.mw.RequireRoles(kernel.RoleOwner), h.SetActive)
}

type requestOTPBody struct {
	Email string `json:"email"`
}

type confirmOTPBody struct {
	VerificationKey string `json:"verification_key"`
	Email           string `json:"email"`
	OTP             string `json:"otp"`
}

type signInBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInData struct {
	AccessToken string       `json:"access_token"`
	User        user.Profile `json:"user"`
}

type setActiveBody struct {
	IsActive *bool `json:"is_active"`
}

func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req authsrv.SignUpRequest
	if err := iamapi.BindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.creds.SignUp(c.UserContext(), req)
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusCreated, resp.Message, resp)
}

func (h *Handlers) RequestOTP(c *fiber.Ctx) error {
	var body requestOTPBody
	if err := iamapi.BindJSON(c, &body); err != nil {
		return err
	}

	resp, err := h.creds.RequestOTP(c.UserContext(), body.Email)
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, resp.Message, resp)
}

func (h *Handlers) ConfirmOTP(c *fiber.Ctx) error {
	var body confirmOTPBody
	if err := iamapi.BindJSON(c, &body); err != nil {
		return err
	}

	profile, err := h.creds.ConfirmOTP(c.UserContext(), body.VerificationKey, body.Email, body.OTP)
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, "Account verified", profile)
}

func (h *Handlers) SignIn(c *fiber.Ctx) error {
	return h.signIn(c, h.creds.SignIn, auth.RefreshCookieUser)
}

func (h *Handlers) SignInAdmin(c *fiber.Ctx) error {
	return h.signIn(c, h.creds.SignInAdmin, auth.RefreshCookieAdmin)
}

type signInFunc func(ctx context.Context, email, password string) (*authsrv.SignInResult, error)

func (h *Handlers) signIn(c *fiber.Ctx, fn signInFunc, cookie string) error {
	var body signInBody
	if err := iamapi.BindJSON(c, &body); err != nil {
		return err
	}

	res, err := fn(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return err
	}

	auth.SetRefreshCookie(c, cookie, res.Tokens.RefreshToken, h.cookie)
	return iamapi.Respond(c, fiber.StatusOK, "Signed in", signInData{
		AccessToken: res.Tokens.AccessToken,
		User:        res.Profile,
	})
}

// Refresh reads the user cookie, or the admin cookie when ?admin=true.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	name := auth.RefreshCookieUser
	if c.QueryBool("admin", false) {
		name = auth.RefreshCookieAdmin
	}

	access, err := h.creds.Refresh(c.UserContext(), c.Cookies(name))
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, "Token refreshed", fiber.Map{"access_token": access})
}

func (h *Handlers) Logout(c *fiber.Ctx) error {
	auth.ClearRefreshCookie(c, auth.RefreshCookieUser, h.cookie)
	auth.ClearRefreshCookie(c, auth.RefreshCookieAdmin, h.cookie)
	h.creds.Logout(c.UserContext())
	return iamapi.Respond(c, fiber.StatusOK, "Signed out", nil)
}

func (h *Handlers) Me(c *fiber.Ctx) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	profile, err := h.creds.GetProfile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, "Profile", profile)
}

func (h *Handlers) SetActive(c *fiber.Ctx) error {
	actor, _ := auth.IdentityFrom(c)

	id, err := iamapi.UserIDParam(c, "id")
	if err != nil {
		return err
	}

	var body setActiveBody
	if err := iamapi.BindJSON(c, &body); err != nil {
		return err
	}
	if body.IsActive == nil {
		return user.ErrNothingToUpdate().WithDetail("field", "is_active")
	}

	profile, err := h.users.SetActive(c.UserContext(), actor, id, *body.IsActive)
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, "Account status updated", profile)
}
