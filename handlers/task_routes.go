// handlers/task_routes.go
package handlers

import (
	"stars-referral-system/middleware"
	"stars-referral-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, tasks *services.TaskService) {
	secured := app.Group("/tasks", middleware.UserContextMiddleware())

	// Active tasks with the caller's completion state, the bot's task list.
	secured.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		list, completed, err := tasks.ActiveTasksFor(userID)
		if err != nil {
			return fail(c, err)
		}

		type entry struct {
			ID          string  `json:"id"`
			Slug        string  `json:"slug"`
			Description string  `json:"description"`
			Reward      float64 `json:"reward"`
			Completed   bool    `json:"completed"`
		}
		res := make([]entry, len(list))
		for i, t := range list {
			res[i] = entry{
				ID:          t.ID,
				Slug:        t.Slug,
				Description: t.Description,
				Reward:      t.Reward.Float64(),
				Completed:   completed[t.ID],
			}
		}
		return c.JSON(res)
	})

	secured.Post("/:id/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		reward, err := tasks.CompleteTask(userID, c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"rewarded": reward.Float64()})
	})
}
