package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"support-widget/internal/apperr"
)

// ErrorHandler is the single mapping point from the error taxonomy to HTTP
// responses. Internal detail is logged server-side; callers only ever see the
// safe message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status := apperr.HTTPStatus(appErr.Kind)
		if status >= fiber.StatusInternalServerError {
			log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
		}
		return c.Status(status).JSON(fiber.Map{"detail": appErr.Msg})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"detail": fiberErr.Message})
	}

	log.Printf("[HTTP] %s %s unhandled error: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "internal server error"})
}
