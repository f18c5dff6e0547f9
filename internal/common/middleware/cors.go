package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS пускает только фронтенд, с cookie прокси авторизации.
func CORS(frontendURL string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowHeaders: []string{
			"Content-Type",
			HeaderUserID, HeaderUserCity, HeaderUserFirstname, HeaderUserLastname, HeaderUserRole,
		},
		AllowMethods:     []string{"GET", "PUT", "PATCH", "POST", "DELETE", "OPTIONS"},
		AllowCredentials: true,
	})
}
