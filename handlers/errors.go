// handlers/errors.go
package handlers

import (
	"errors"

	"stars-referral-system/services"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps a domain error to its HTTP status. Every expected
// failure gets a distinct, non-generic body; anything unmapped is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrChannelNotFound),
		errors.Is(err, services.ErrWithdrawalNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrAlreadyRewarded),
		errors.Is(err, services.ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrTaskInactive),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrSelfReferral):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotEligible),
		errors.Is(err, services.ErrUserBanned):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrQuotaExceeded):
		return fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrProviderUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	body := fiber.Map{"error": err.Error()}
	if status == fiber.StatusServiceUnavailable {
		body["retry"] = true
	}
	if status == fiber.StatusInternalServerError {
		body["error"] = "internal error"
	}
	return c.Status(status).JSON(body)
}
