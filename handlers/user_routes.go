// handlers/user_routes.go
package handlers

import (
	"time"

	"stars-referral-system/middleware"
	"stars-referral-system/models"
	"stars-referral-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes wires the bot-facing user surface. Amounts cross the wire
// in whole stars (fractional allowed); milli-star fixed point stays internal.
func SetupUserRoutes(
	app *fiber.App,
	users *services.UserService,
	referrals *services.ReferralService,
	settings *services.SettingsService,
	channels *services.ChannelService,
	exchanges *services.ExchangeService,
	withdrawals *services.WithdrawalService,
	sponsor *services.SponsorClient,
) {
	secured := app.Group("/user", middleware.UserContextMiddleware())

	secured.Post("/register", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		var req struct {
			Username   string `json:"username"`
			FullName   string `json:"full_name"`
			ReferrerID *int64 `json:"referrer_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		reg, err := referrals.RegisterUser(userID, req.Username, req.FullName, req.ReferrerID)
		if err != nil {
			return fail(c, err)
		}
		status := fiber.StatusOK
		if reg.Created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(reg)
	})

	secured.Get("/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		user, err := users.GetUser(userID)
		if err != nil {
			return fail(c, err)
		}
		cfg, err := settings.Get()
		if err != nil {
			return fail(c, err)
		}
		_ = users.TouchActivity(userID)

		today := services.Today(time.Now())
		return c.JSON(fiber.Map{
			"user":            user,
			"stars":           user.Stars.Float64(),
			"can_withdraw":    services.CanWithdraw(user, cfg),
			"can_steal":       services.CanSteal(user, cfg, today),
			"games_remaining": services.GamesRemaining(user, cfg, today),
		})
	})

	secured.Get("/top", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		top, err := users.TopUsers(limit)
		if err != nil {
			return fail(c, err)
		}

		type entry struct {
			UserID   int64   `json:"user_id"`
			Username string  `json:"username"`
			FullName string  `json:"full_name"`
			Stars    float64 `json:"stars"`
		}
		res := make([]entry, len(top))
		for i, u := range top {
			res[i] = entry{UserID: u.UserID, Username: u.Username, FullName: u.FullName, Stars: u.Stars.Float64()}
		}
		return c.JSON(res)
	})

	secured.Get("/offers", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)
		chatID := int64(c.QueryInt("chat_id", 0))

		offers, err := sponsor.FetchOffers(c.Context(), userID, chatID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"offers": offers})
	})

	secured.Get("/channels", func(c *fiber.Ctx) error {
		list, err := channels.ListChannels()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(list)
	})

	secured.Post("/channels/:id/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)
		amount, err := channels.GrantSubscriptionReward(userID, c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"rewarded": amount.Float64()})
	})

	secured.Post("/exchange", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		var req struct {
			Amount float64 `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		exchange, err := exchanges.Exchange(userID, models.FromFloat(req.Amount))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(exchange)
	})

	secured.Get("/withdrawals", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)
		rows, err := withdrawals.UserWithdrawals(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(rows)
	})
}
