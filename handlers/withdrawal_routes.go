// handlers/withdrawal_routes.go
package handlers

import (
	"stars-referral-system/middleware"
	"stars-referral-system/models"
	"stars-referral-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWithdrawalRoutes(app *fiber.App, withdrawals *services.WithdrawalService) {
	secured := app.Group("/withdrawals", middleware.UserContextMiddleware())

	secured.Post("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		var req struct {
			Amount      float64 `json:"amount"`
			PaymentInfo string  `json:"payment_info"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.PaymentInfo == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment_info is required"})
		}

		withdrawal, err := withdrawals.Request(userID, models.FromFloat(req.Amount), req.PaymentInfo)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(withdrawal)
	})
}
