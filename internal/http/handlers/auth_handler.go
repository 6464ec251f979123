package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "sugarstudio/internal/log"
	"sugarstudio/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// Register creates a staff account. Admin-only; the seed admin creates
// the first accounts.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	u, err := h.Auth.Register(req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID, "role": u.Role})
	return created(c, "user registered", u)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	token, u, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.failed", map[string]any{"email": req.Email})
		return fail(c, err)
	}
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return ok(c, "login successful", fiber.Map{"token": token, "user": u})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	u := currentUser(c)
	profile, err := h.Auth.Profile(u.ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "profile", profile)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"full_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	u := currentUser(c)
	profile, err := h.Auth.UpdateProfile(u.ID, req.FullName)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "auth.profile.update", map[string]any{"user_id": u.ID})
	return ok(c, "profile updated", profile)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	u := currentUser(c)
	if err := h.Auth.ChangePassword(u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "auth.password.change", map[string]any{"user_id": u.ID})
	return ok(c, "password changed", nil)
}
