package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"office-planner/internal/planner/models"
)

// ============================================================
// Locations
// ============================================================

func (r *Repository) GetFloor(ctx context.Context, location string, floor int) (*models.Location, error) {
	row := r.q.QueryRowContext(ctx, `
        SELECT location, floor, structure, updated_at
        FROM locations
        WHERE location = ? AND floor = ?
    `, location, floor)

	loc, err := scanLocation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("floor %s/%d: %w", location, floor, ErrNotFound)
		}
		return nil, err
	}
	return loc, nil
}

// ListFloors возвращает все этажи локации по возрастанию номера.
func (r *Repository) ListFloors(ctx context.Context, location string) ([]models.Location, error) {
	rows, err := r.q.QueryContext(ctx, `
        SELECT location, floor, structure, updated_at
        FROM locations
        WHERE location = ?
        ORDER BY floor
    `, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var floors []models.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		floors = append(floors, *loc)
	}
	return floors, rows.Err()
}

func (r *Repository) CountFloors(ctx context.Context, location string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations WHERE location = ?`, location).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// UpsertFloor сохраняет этаж целиком, заменяя прежнюю структуру.
func (r *Repository) UpsertFloor(ctx context.Context, loc *models.Location) error {
	structure, err := json.Marshal(loc.Structure)
	if err != nil {
		return fmt.Errorf("marshal structure: %w", err)
	}
	if loc.UpdatedAt.IsZero() {
		loc.UpdatedAt = time.Now().UTC()
	}

	_, err = r.q.ExecContext(ctx, `
        INSERT INTO locations (location, floor, structure, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (location, floor) DO UPDATE SET
            structure = excluded.structure,
            updated_at = excluded.updated_at
    `, loc.Location, loc.Floor, string(structure), loc.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("upsert floor: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(s scanner) (*models.Location, error) {
	var (
		loc       models.Location
		structure string
		updatedAt string
	)
	if err := s.Scan(&loc.Location, &loc.Floor, &structure, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(structure), &loc.Structure); err != nil {
		return nil, fmt.Errorf("decode structure %s/%d: %w", loc.Location, loc.Floor, err)
	}
	t, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode updated_at: %w", err)
	}
	loc.UpdatedAt = t
	return &loc, nil
}
