// Package userapi exposes account management over HTTP.
package userapi

import (
	"github.com/Abraxas-365/storefront/pkg/iam/auth"
	"github.com/Abraxas-365/storefront/pkg/iam/iamapi"
	"github.com/Abraxas-365/storefront/pkg/iam/user"
	"github.com/Abraxas-365/storefront/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	users *usersrv.UserService
	mw    *auth.Middleware
}

func NewHandlers(users *usersrv.UserService, mw *auth.Middleware) *Handlers {
	return &Handlers{users: users, mw: mw}
}

// RegisterRoutes mounts the /user group. Every route requires a valid
// access token.
func (h *Handlers) RegisterRoutes(r fiber.Router) {
	g := r.Group("/user", h.mw.Authenticate())

	g.Get("/", h.mw.RequireRoles(kernel.RoleAdmin), h.List)
	g.Patch("/role/:id", h.mw.RequireRoles(kernel.RoleOwner), h.UpdateRole)
	g.Get("/:id", h.mw.RequireRoles(kernel.RoleAdmin), h.Get)
	g.Patch("/:id", h.mw.RequireSelfOrRoles("id", kernel.RoleAdmin), h.UpdateProfile)
	g.Delete("/:id", h.mw.RequireRoles(kernel.RoleOwner), h.Delete)
}

type updateRoleBody struct {
	Role string `json:"role"`
}

func (h *Handlers) List(c *fiber.Ctx) error {
	page, err := h.users.List(c.UserContext(), iamapi.PageQuery(c))
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, "Users", page)
}

func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := iamapi.UserIDParam(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, "User", profile)
}

func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	actor, _ := auth.IdentityFrom(c)

	id, err := iamapi.UserIDParam(c, "id")
	if err != nil {
		return err
	}

	var req user.UpdateProfileRequest
	if err := iamapi.BindJSON(c, &req); err != nil {
		return err
	}

	profile, err := h.users.UpdateProfile(c.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, "User updated", profile)
}

func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	actor, _ := auth.IdentityFrom(c)

	id, err := iamapi.UserIDParam(c, "id")
	if err != nil {
		return err
	}

	var body updateRoleBody
	if err := iamapi.BindJSON(c, &body); err != nil {
		return err
	}

	profile, err := h.users.UpdateRole(c.UserContext(), actor, id, body.Role)
	if err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, "Role updated", profile)
}

func (h *Handlers) Delete(c *fiber.Ctx) error {
	actor, _ := auth.IdentityFrom(c)

	id, err := iamapi.UserIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return iamapi.Respond(c, fiber.StatusOK, "User deleted", nil)
}
