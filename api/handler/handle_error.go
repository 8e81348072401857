package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/easy-cert-batch/type/response"
)

// HandleError renders fiber errors with their own status and hides the
// text of anything else behind a 500.
func HandleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(
			response.Error(fiberErr.Message),
		)
	}

	slog.Error("Unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(
		response.Error("Internal server error"),
	)
}
