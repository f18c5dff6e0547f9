package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"office-planner/internal/planner/models"
)

// ============================================================
// Reservations
// ============================================================

// ReservationFilter - условия выборки. Пустые поля не ограничивают выборку,
// ActiveOn оставляет только брони, занимающие стол в этот день.
type ReservationFilter struct {
	Location  string
	Floor     *int
	TableID   *int
	UserID    string
	Permanent *bool
	ActiveOn  string
}

func (r *Repository) InsertReservation(ctx context.Context, res *models.Reservation) error {
	weekdays, excluded, err := encodeReservation(res)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
        INSERT INTO reservations (id, location, floor, table_id, reserved_for_date, weekdays, exclude_dates, user_id, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		res.ID,
		res.Location,
		res.Floor,
		res.TableID,
		nullString(res.ReservedForDate),
		weekdays,
		excluded,
		res.UserID,
		res.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// UpdateReservation перезаписывает изменяемые поля брони по id.
func (r *Repository) UpdateReservation(ctx context.Context, res *models.Reservation) error {
	weekdays, excluded, err := encodeReservation(res)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, `
        UPDATE reservations
        SET table_id = ?, reserved_for_date = ?, weekdays = ?, exclude_dates = ?, created_at = ?
        WHERE id = ?
    `,
		res.TableID,
		nullString(res.ReservedForDate),
		weekdays,
		excluded,
		res.CreatedAt.UTC().Format(timeLayout),
		res.ID,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return expectOne(result, res.ID)
}

func (r *Repository) DeleteReservation(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return expectOne(result, id)
}

// ListReservations возвращает брони по фильтру, старые первыми.
func (r *Repository) ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	var (
		where []string
		args  []any
	)
	if f.Location != "" {
		where = append(where, "location = ?")
		args = append(args, f.Location)
	}
	if f.Floor != nil {
		where = append(where, "floor = ?")
		args = append(args, *f.Floor)
	}
	if f.TableID != nil {
		where = append(where, "table_id = ?")
		args = append(args, *f.TableID)
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Permanent != nil {
		if *f.Permanent {
			where = append(where, "weekdays IS NOT NULL")
		} else {
			where = append(where, "weekdays IS NULL")
		}
	}

	query := `SELECT id, location, floor, table_id, reserved_for_date, weekdays, exclude_dates, user_id, created_at FROM reservations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []models.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		if f.ActiveOn != "" && !res.ActiveOn(f.ActiveOn) {
			continue
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ============================================================
// Encoding
// ============================================================

func encodeReservation(res *models.Reservation) (weekdays sql.NullString, excluded string, err error) {
	if res.Permanent != nil {
		data, err := json.Marshal(res.Permanent.Weekdays)
		if err != nil {
			return weekdays, "", fmt.Errorf("marshal weekdays: %w", err)
		}
		weekdays = sql.NullString{String: string(data), Valid: true}
	}

	dates := res.ExcludeDates
	if dates == nil {
		dates = []string{}
	}
	data, err := json.Marshal(dates)
	if err != nil {
		return weekdays, "", fmt.Errorf("marshal exclude dates: %w", err)
	}
	return weekdays, string(data), nil
}

func scanReservation(s scanner) (models.Reservation, error) {
	var (
		res       models.Reservation
		date      sql.NullString
		weekdays  sql.NullString
		excluded  string
		createdAt string
	)
	err := s.Scan(&res.ID, &res.Location, &res.Floor, &res.TableID, &date, &weekdays, &excluded, &res.UserID, &createdAt)
	if err != nil {
		return res, err
	}

	res.ReservedForDate = date.String
	if weekdays.Valid {
		res.Permanent = &models.Permanent{}
		if err := json.Unmarshal([]byte(weekdays.String), &res.Permanent.Weekdays); err != nil {
			return res, fmt.Errorf("decode weekdays of %s: %w", res.ID, err)
		}
	}
	if err := json.Unmarshal([]byte(excluded), &res.ExcludeDates); err != nil {
		return res, fmt.Errorf("decode exclude dates of %s: %w", res.ID, err)
	}
	if res.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return res, fmt.Errorf("decode created_at of %s: %w", res.ID, err)
	}
	return res, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectOne(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	return nil
}
