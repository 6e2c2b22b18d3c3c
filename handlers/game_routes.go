// handlers/game_routes.go
package handlers

import (
	"stars-referral-system/middleware"
	"stars-referral-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, games *services.GameService) {
	secured := app.Group("/games", middleware.UserContextMiddleware())

	secured.Post("/dice", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		result, err := games.PlayDice(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"face":   result.Face,
			"reward": result.Reward.Float64(),
		})
	})

	secured.Post("/slots", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		result, err := games.PlaySlots(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"reels":  result.Reels,
			"reward": result.Reward.Float64(),
		})
	})

	secured.Post("/steal", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		result, err := games.Steal(userID)
		if err != nil {
			return fail(c, err)
		}
		if result.Amount == 0 {
			return c.JSON(fiber.Map{"stolen": 0, "message": "no stars could be stolen this time"})
		}
		return c.JSON(fiber.Map{
			"stolen":    result.Amount.Float64(),
			"victim_id": result.VictimID,
		})
	})
}
