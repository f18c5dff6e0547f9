package middleware

import (
	"net/http"
	"strings"

	"office-planner/internal/planner/models"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Identity Middleware
// ============================================================

// Заголовки, которые выставляет прокси авторизации перед сервисом.
const (
	HeaderUserID        = "X-User-Id"
	HeaderUserCity      = "X-User-City"
	HeaderUserFirstname = "X-User-Firstname"
	HeaderUserLastname  = "X-User-Lastname"
	HeaderUserRole      = "X-User-Role"
)

const userKey = "user"

// Identity кладёт вызывающего пользователя в Locals. Без X-User-Id - 401.
func Identity() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(HeaderUserID))
		if id == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		c.Locals(userKey, models.User{
			ID:        id,
			City:      c.Get(HeaderUserCity),
			FirstName: c.Get(HeaderUserFirstname),
			LastName:  c.Get(HeaderUserLastname),
			IsAdmin:   strings.EqualFold(c.Get(HeaderUserRole), "admin"),
		})
		return c.Next()
	}
}

// CurrentUser достаёт пользователя, положенного Identity.
func CurrentUser(c fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(userKey).(models.User)
	return user, ok
}
