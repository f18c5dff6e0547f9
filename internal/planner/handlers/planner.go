package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"office-planner/internal/common/middleware"
	"office-planner/internal/planner/models"
	"office-planner/internal/planner/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Planner Handler
// ============================================================

type PlannerHandler struct {
	planner *service.Planner
	openapi []byte
}

func NewPlannerHandler(planner *service.Planner, openapi []byte) *PlannerHandler {
	return &PlannerHandler{
		planner: planner,
		openapi: openapi,
	}
}

// Register вешает маршруты сервиса. Всё, кроме документации, требует
// заголовков пользователя.
func (h *PlannerHandler) Register(app *fiber.App) {
	app.Get(openAPIRoute, h.OpenAPISpec)
	app.Get("/docs", h.SwaggerUI)

	api := app.Group("", middleware.Identity())

	api.Get("/auth", h.Auth)

	api.Get("/location/floorCount", h.FloorCount)
	api.Put("/location", h.PutLocation)
	api.Get("/location/:floor", h.GetLocation)
	api.Post("/location/:floor/walls", h.EditWalls)
	api.Post("/location/:floor/import", h.ImportSVG)
	api.Get("/location/:floor/svg", h.ExportSVG)
	api.Get("/location/:floor/geojson", h.ExportGeoJSON)

	api.Put("/table", h.Reserve)
	api.Patch("/table", h.Move)
	api.Delete("/table", h.Cancel)
	api.Get("/table/:tableId/:date", h.TableDay)

	api.Get("/floor/:floor/:date", h.FloorDay)
}

// Auth отдаёт состояние входа вызывающего пользователя.
func (h *PlannerHandler) Auth(c fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"isAdmin":    ok && user.IsAdmin,
		"isLoggedIn": ok,
	})
}

// ============================================================
// Helpers
// ============================================================

func currentUser(c fiber.Ctx) (models.User, bool) {
	return middleware.CurrentUser(c)
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

func intParam(c fiber.Ctx, name string) (int, bool) {
	v, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, false
	}
	return v, true
}

// fail переводит ошибку сервиса в HTTP-ответ.
func fail(c fiber.Ctx, tag string, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		log.Printf("[%s] error: %v", tag, err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
