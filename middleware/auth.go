// middleware/auth.go
package middleware

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the bot user identity forwarded by the
// gateway. The id is the opaque numeric account id from the bot transport.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-User-ID")
		if raw == "" {
			log.Printf("❌ [USER_CTX] X-User-ID missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "X-User-ID must be a numeric user id",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// AdminOnly restricts a route group to the ids listed in ADMIN_IDS
// (comma-separated). Admin operations bypass eligibility gates, so the list
// is read once at startup and misconfiguration is fatal.
func AdminOnly() fiber.Handler {
	rawIDs := os.Getenv("ADMIN_IDS")
	if rawIDs == "" {
		log.Fatal("❌ ADMIN_IDS is not set — admin surface cannot be secured")
	}
	admins := map[int64]bool{}
	for _, part := range strings.Split(rawIDs, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			log.Fatalf("❌ ADMIN_IDS contains a non-numeric id: %q", part)
		}
		admins[id] = true
	}

	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(int64)
		if !ok || !admins[userID] {
			log.Printf("🚫 [ADMIN] User %v refused on %s", c.Locals("user_id"), c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin privileges required",
			})
		}
		return c.Next()
	}
}
