package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sugarstudio/internal/domain"
	applog "sugarstudio/internal/log"
	"sugarstudio/internal/services"
)

// Every endpoint answers the same envelope: status is "success" or
// "error", message is human-readable, data carries the payload.

func ok(c *fiber.Ctx, message string, data any) error {
	return c.JSON(fiber.Map{"status": "success", "message": message, "data": data})
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "message": message, "data": data})
}

// fail maps the error taxonomy onto HTTP codes. Storage errors hide
// the driver detail from clients; the log keeps it.
func fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrBadCreds) {
		return failWith(c, fiber.StatusUnauthorized, err.Error())
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return failWith(c, fiber.StatusBadRequest, err.Error())
	case domain.KindNotFound:
		return failWith(c, fiber.StatusNotFound, err.Error())
	case domain.KindState:
		return failWith(c, fiber.StatusConflict, err.Error())
	default:
		applog.Error(c, "storage", err, nil)
		return failWith(c, fiber.StatusInternalServerError, err.Error())
	}
}

func failWith(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{"status": "error", "message": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return failWith(c, fiber.StatusBadRequest, message)
}
