// handlers/admin_routes.go
package handlers

import (
	"stars-referral-system/middleware"
	"stars-referral-system/models"
	"stars-referral-system/services"
	"stars-referral-system/workers"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the elevated-privilege surface. Admin calls hit the
// ledger primitives directly with no eligibility gating; the route group is
// restricted to the configured admin ids.
func SetupAdminRoutes(
	app *fiber.App,
	users *services.UserService,
	ledger *services.LedgerService,
	tasks *services.TaskService,
	withdrawals *services.WithdrawalService,
	settings *services.SettingsService,
	channels *services.ChannelService,
	exchanges *services.ExchangeService,
	broadcaster *workers.BroadcastWorker,
) {
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.AdminOnly())

	// --- Tasks ---

	admin.Get("/tasks", func(c *fiber.Ctx) error {
		list, err := tasks.AllTasks()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(list)
	})

	admin.Post("/tasks", func(c *fiber.Ctx) error {
		var req struct {
			Description string  `json:"description"`
			Reward      float64 `json:"reward"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Description == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "description is required"})
		}

		task, err := tasks.CreateTask(req.Description, models.FromFloat(req.Reward))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	})

	admin.Post("/tasks/:id/toggle", func(c *fiber.Ctx) error {
		task, err := tasks.ToggleTask(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(task)
	})

	// --- Withdrawals ---

	admin.Get("/withdrawals/pending", func(c *fiber.Ctx) error {
		queue, err := withdrawals.PendingWithdrawals()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(queue)
	})

	admin.Post("/withdrawals/:id/process", func(c *fiber.Ctx) error {
		var req struct {
			Approve bool `json:"approve"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		withdrawal, err := withdrawals.Process(c.Params("id"), req.Approve)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(withdrawal)
	})

	// --- Settings ---

	admin.Get("/settings", func(c *fiber.Ctx) error {
		cfg, err := settings.Get()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(cfg)
	})

	admin.Patch("/settings", func(c *fiber.Ctx) error {
		var patch services.SettingsPatch
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		cfg, err := settings.Update(patch)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(cfg)
	})

	// --- Users / ledger ---

	admin.Post("/users/:id/balance", func(c *fiber.Ctx) error {
		userID, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		var req struct {
			Delta float64 `json:"delta"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if err := ledger.AdjustBalance(int64(userID), models.FromFloat(req.Delta)); err != nil {
			return fail(c, err)
		}
		balance, err := ledger.Balance(int64(userID))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"balance": balance.Float64()})
	})

	admin.Post("/balance-reset", func(c *fiber.Ctx) error {
		count, err := ledger.ResetAllBalances()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"reset": count})
	})

	admin.Post("/users/:id/ban", func(c *fiber.Ctx) error {
		userID, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		var req struct {
			Banned bool `json:"banned"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if err := users.SetBanned(int64(userID), req.Banned); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"user_id": userID, "banned": req.Banned})
	})

	admin.Delete("/users/:id", func(c *fiber.Ctx) error {
		userID, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		if err := users.DeleteUser(int64(userID)); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"deleted": userID})
	})

	// --- Channels ---

	admin.Post("/channels", func(c *fiber.Ctx) error {
		var req struct {
			ChannelID string  `json:"channel_id"`
			Name      string  `json:"name"`
			Reward    float64 `json:"reward"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.ChannelID == "" || req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "channel_id and name are required"})
		}

		channel, err := channels.AddChannel(req.ChannelID, req.Name, models.FromFloat(req.Reward))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(channel)
	})

	admin.Patch("/channels/:id", func(c *fiber.Ctx) error {
		var req struct {
			Reward float64 `json:"reward"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if err := channels.UpdateChannelReward(c.Params("id"), models.FromFloat(req.Reward)); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"updated": c.Params("id")})
	})

	admin.Delete("/channels/:id", func(c *fiber.Ctx) error {
		if err := channels.RemoveChannel(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"deleted": c.Params("id")})
	})

	// --- Exchanges / broadcast ---

	admin.Get("/exchanges/stats", func(c *fiber.Ctx) error {
		stats, err := exchanges.Stats()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(stats)
	})

	admin.Post("/broadcast", func(c *fiber.Ctx) error {
		var req struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Text == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
		}

		report, err := broadcaster.Broadcast(c.Context(), req.Text)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(report)
	})
}
