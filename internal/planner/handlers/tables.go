package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"office-planner/internal/planner/models"
	"office-planner/internal/planner/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Table Handlers
// ============================================================

func (h *PlannerHandler) Reserve(c fiber.Ctx) error {
	return h.reservation(c, "RESERVE", h.planner.Reserve)
}

func (h *PlannerHandler) Move(c fiber.Ctx) error {
	return h.reservation(c, "MOVE", h.planner.Move)
}

func (h *PlannerHandler) Cancel(c fiber.Ctx) error {
	return h.reservation(c, "CANCEL", h.planner.Cancel)
}

func (h *PlannerHandler) reservation(c fiber.Ctx, tag string, apply func(ctx context.Context, user models.User, req service.ReservationRequest) error) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}
	var req service.ReservationRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	if err := apply(c.Context(), user, req); err != nil {
		return fail(c, tag, err)
	}
	return c.SendStatus(http.StatusOK)
}

// TableDay отдаёт состояние стола на дату.
func (h *PlannerHandler) TableDay(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	tableID, ok := intParam(c, "tableId")
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid table id"})
	}

	details, err := h.planner.TableDay(c.Context(), user, tableID, c.Params("date"))
	if err != nil {
		return fail(c, "TABLE", err)
	}
	return c.JSON(details)
}

// FloorDay отдаёт столы этажа с состоянием на дату.
func (h *PlannerHandler) FloorDay(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	floor, ok := intParam(c, "floor")
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid floor"})
	}

	tables, err := h.planner.FloorDay(c.Context(), user, floor, c.Params("date"))
	if err != nil {
		return fail(c, "FLOOR", err)
	}
	return c.JSON(tables)
}
