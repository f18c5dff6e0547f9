package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"office-planner/internal/planner/blueprint"
	"office-planner/internal/planner/models"
	"office-planner/internal/planner/parser"
	"office-planner/internal/planner/repository"
	"office-planner/internal/planner/rooms"
)

// ============================================================
// Floors
// ============================================================

// FloorCount - число этажей локации. Локация без этажей считается одноэтажной.
func (p *Planner) FloorCount(ctx context.Context, user models.User) (int, error) {
	n, err := p.repo.CountFloors(ctx, LocationOf(user))
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 1, nil
	}
	return n, nil
}

func (p *Planner) GetFloor(ctx context.Context, user models.User, floor int) (*models.Location, error) {
	loc, err := p.repo.GetFloor(ctx, LocationOf(user), floor)
	if err != nil {
		return nil, notFound(err)
	}
	return loc, nil
}

// SaveFloor заменяет этаж присланной структурой. Граф стен проверяется,
// комнаты пересчитываются, столы раскладываются по комнатам заново.
func (p *Planner) SaveFloor(ctx context.Context, user models.User, floor int, structure models.Structure) (*models.Location, error) {
	if !user.IsAdmin {
		return nil, ErrForbidden
	}
	if floor < 1 {
		return nil, invalid("floor %d", floor)
	}

	bp, err := blueprint.Load(structure.Nodes, structure.Edges)
	if err != nil {
		return nil, invalid("%v", err)
	}

	tables := structure.Tables()
	if err := uniqueTables(tables); err != nil {
		return nil, err
	}

	previous := structure.Rooms
	if stored, err := p.repo.GetFloor(ctx, LocationOf(user), floor); err == nil {
		previous = append(previous, stored.Structure.Rooms...)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	loc, unplaced := p.buildFloor(user, floor, bp, previous, tables)
	if len(unplaced) > 0 {
		return nil, invalid("table %d is outside of every room", unplaced[0].TableID)
	}
	for _, r := range loc.Structure.Rooms {
		for _, t := range r.Tables {
			if err := rooms.CheckTable(t, loc.Structure.Rooms); err != nil {
				return nil, invalid("%v", err)
			}
		}
	}

	if err := p.repo.UpsertFloor(ctx, loc); err != nil {
		return nil, err
	}
	log.Printf("[PLANNER] floor %s/%d saved: %d rooms, %d tables", loc.Location, loc.Floor, len(loc.Structure.Rooms), len(tables))
	return loc, nil
}

// EditResult - этаж после правки и столы, оставшиеся вне комнат.
type EditResult struct {
	Location   *models.Location     `json:"location"`
	Operations []blueprint.OpResult `json:"operations,omitempty"`
	Unplaced   []models.Table       `json:"unplaced"`
}

// EditWalls применяет операции редактора к сохранённому этажу.
// Столы, оказавшиеся вне комнат, снимаются с плана и возвращаются в Unplaced.
func (p *Planner) EditWalls(ctx context.Context, user models.User, floor int, ops []blueprint.WallOp) (*EditResult, error) {
	if !user.IsAdmin {
		return nil, ErrForbidden
	}
	if floor < 1 {
		return nil, invalid("floor %d", floor)
	}
	if len(ops) == 0 {
		return nil, invalid("no wall operations")
	}

	stored, err := p.repo.GetFloor(ctx, LocationOf(user), floor)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		stored = &models.Location{Location: LocationOf(user), Floor: floor}
	case err != nil:
		return nil, err
	}

	bp, err := blueprint.Load(stored.Structure.Nodes, stored.Structure.Edges)
	if err != nil {
		return nil, fmt.Errorf("stored floor %s/%d: %w", stored.Location, floor, err)
	}
	results := bp.Apply(ops)

	loc, unplaced := p.buildFloor(user, floor, bp, stored.Structure.Rooms, stored.Structure.Tables())
	if err := p.repo.UpsertFloor(ctx, loc); err != nil {
		return nil, err
	}
	return &EditResult{Location: loc, Operations: results, Unplaced: nonNil(unplaced)}, nil
}

// ImportSVG строит этаж из SVG-плана: стены рисуются по одной, как в редакторе.
func (p *Planner) ImportSVG(ctx context.Context, user models.User, floor int, r io.Reader) (*EditResult, error) {
	if !user.IsAdmin {
		return nil, ErrForbidden
	}
	if floor < 1 {
		return nil, invalid("floor %d", floor)
	}

	plan, err := parser.Import(r)
	if err != nil {
		return nil, invalid("%v", err)
	}

	bp := blueprint.New()
	for _, wall := range plan.Walls {
		if _, err := bp.DrawWall(wall); err != nil {
			log.Printf("[PLANNER] import: wall %v skipped: %v", wall, err)
		}
	}

	var previous []models.Room
	if stored, err := p.repo.GetFloor(ctx, LocationOf(user), floor); err == nil {
		previous = stored.Structure.Rooms
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	loc, unplaced := p.buildFloor(user, floor, bp, previous, plan.Tables)
	if err := p.repo.UpsertFloor(ctx, loc); err != nil {
		return nil, err
	}
	log.Printf("[PLANNER] floor %s/%d imported: %d walls, %d rooms", loc.Location, floor, len(plan.Walls), len(loc.Structure.Rooms))
	return &EditResult{Location: loc, Unplaced: nonNil(unplaced)}, nil
}

func (p *Planner) buildFloor(user models.User, floor int, bp *blueprint.Blueprint, previous []models.Room, tables []models.Table) (*models.Location, []models.Table) {
	for i := range tables {
		tables[i].State = ""
		tables[i].IsItMe = false
		tables[i].UserID = ""
	}
	built, unplaced := rooms.Build(bp.Cycles(), previous, tables, p.now())

	return &models.Location{
		Location: LocationOf(user),
		Floor:    floor,
		Structure: models.Structure{
			Nodes: bp.Nodes(),
			Edges: bp.Edges(),
			Rooms: built,
		},
		UpdatedAt: p.now().UTC(),
	}, unplaced
}

func uniqueTables(tables []models.Table) error {
	seen := make(map[int]struct{}, len(tables))
	for _, t := range tables {
		if t.TableID <= 0 {
			return invalid("table id %d", t.TableID)
		}
		if t.Width <= 0 || t.Height <= 0 {
			return invalid("table %d has no size", t.TableID)
		}
		if _, dup := seen[t.TableID]; dup {
			return invalid("duplicate table id %d", t.TableID)
		}
		seen[t.TableID] = struct{}{}
	}
	return nil
}

func nonNil(tables []models.Table) []models.Table {
	if tables == nil {
		return []models.Table{}
	}
	return tables
}
