package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"office-planner/internal/planner/blueprint"
	"office-planner/internal/planner/models"
	"office-planner/internal/planner/render"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Location Handlers
// ============================================================

type putLocationRequest struct {
	Floor     int              `json:"floor"`
	Structure models.Structure `json:"structure"`
}

type editWallsRequest struct {
	Operations []blueprint.WallOp `json:"operations"`
}

// FloorCount возвращает число этажей локации пользователя.
func (h *PlannerHandler) FloorCount(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	n, err := h.planner.FloorCount(c.Context(), user)
	if err != nil {
		return fail(c, "LOCATION", err)
	}
	return c.JSON(n)
}

// GetLocation отдаёт этаж: граф стен и комнаты со столами.
func (h *PlannerHandler) GetLocation(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	floor, ok := intParam(c, "floor")
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid floor"})
	}

	loc, err := h.planner.GetFloor(c.Context(), user, floor)
	if err != nil {
		return fail(c, "LOCATION", err)
	}
	return c.JSON(loc)
}

// PutLocation сохраняет этаж целиком (только администратор).
func (h *PlannerHandler) PutLocation(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	if !user.IsAdmin {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}
	var req putLocationRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Floor == 0 {
		req.Floor = 1
	}

	loc, err := h.planner.SaveFloor(c.Context(), user, req.Floor, req.Structure)
	if err != nil {
		return fail(c, "LOCATION", err)
	}
	return c.JSON(loc)
}

// EditWalls применяет к этажу операции рисования и стирания стен.
func (h *PlannerHandler) EditWalls(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	floor, ok := intParam(c, "floor")
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid floor"})
	}

	var req editWallsRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	res, err := h.planner.EditWalls(c.Context(), user, floor, req.Operations)
	if err != nil {
		return fail(c, "WALLS", err)
	}
	return c.JSON(res)
}

// ImportSVG строит этаж из загруженного SVG (multipart, поле file).
func (h *PlannerHandler) ImportSVG(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	floor, ok := intParam(c, "floor")
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid floor"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("[IMPORT] FormFile error: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	log.Printf("[IMPORT] File received: %s (%d bytes)", file.Filename, file.Size)

	src, err := file.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "cannot read file"})
	}
	defer src.Close()

	res, err := h.planner.ImportSVG(c.Context(), user, floor, src)
	if err != nil {
		return fail(c, "IMPORT", err)
	}
	return c.JSON(res)
}

// ExportSVG рисует этаж. С ?date= столы раскрашены по броням этого дня.
func (h *PlannerHandler) ExportSVG(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	floor, ok := intParam(c, "floor")
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid floor"})
	}

	loc, err := h.planner.FloorView(c.Context(), user, floor, c.Query("date"))
	if err != nil {
		return fail(c, "EXPORT", err)
	}

	var buf bytes.Buffer
	if err := render.SVG(&buf, loc); err != nil {
		return fail(c, "EXPORT", err)
	}
	c.Set("Content-Type", "image/svg+xml")
	c.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("%s-%d.svg", loc.Location, floor)))
	return c.Send(buf.Bytes())
}

// ExportGeoJSON отдаёт комнаты и столы этажа как FeatureCollection.
func (h *PlannerHandler) ExportGeoJSON(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	floor, ok := intParam(c, "floor")
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid floor"})
	}

	loc, err := h.planner.FloorView(c.Context(), user, floor, c.Query("date"))
	if err != nil {
		return fail(c, "EXPORT", err)
	}

	data, err := render.GeoJSON(loc).MarshalJSON()
	if err != nil {
		return fail(c, "EXPORT", err)
	}
	c.Set("Content-Type", "application/geo+json")
	return c.Send(data)
}
