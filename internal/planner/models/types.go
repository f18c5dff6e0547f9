package models

import (
	"time"

	"office-planner/internal/planner/cycles"
	"office-planner/internal/planner/geometry"
)

// ============================================================
// Floor documents
// ============================================================

// Location - сохранённый этаж локации: граф стен и вычисленные комнаты.
type Location struct {
	Location  string    `json:"location"`
	Floor     int       `json:"floor"`
	Structure Structure `json:"structure"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

type Structure struct {
	Nodes []geometry.Point `json:"nodes"`
	Edges []cycles.Edge    `json:"edges"`
	Rooms []Room           `json:"rooms"`
}

// Tables возвращает столы всех комнат этажа.
func (s Structure) Tables() []Table {
	var tables []Table
	for _, r := range s.Rooms {
		tables = append(tables, r.Tables...)
	}
	return tables
}

// Room - комната, найденная как минимальный цикл графа стен.
// Площадь в квадратных метрах.
type Room struct {
	RoomID        int              `json:"roomId"`
	RoomName      string           `json:"roomName"`
	RoomNumber    int              `json:"roomNumber"`
	Area          float64          `json:"area"`
	Points        []geometry.Point `json:"points"`
	IsDirectChild bool             `json:"isDirectChild"`
	RoomsInside   []int            `json:"roomsInside"`
	Tables        []Table          `json:"tables"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ============================================================
// Tables
// ============================================================

type TableState string

const (
	TableGreen     TableState = "Green"
	TableAvailable TableState = "Available"
	TableOccupied  TableState = "Occupied"
)

// Table - стол на плане. Position - левый верхний угол.
type Table struct {
	TableID  int            `json:"tableId"`
	Position geometry.Point `json:"position"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	State    TableState     `json:"state,omitempty"`
	IsItMe   bool           `json:"isItMe,omitempty"`
	UserID   string         `json:"userId,omitempty"`
}

// Corners - контур стола по часовой стрелке (ось Y вниз).
func (t Table) Corners() []geometry.Point {
	x, y := t.Position.X, t.Position.Y
	return []geometry.Point{
		{X: x, Y: y},
		{X: x + t.Width, Y: y},
		{X: x + t.Width, Y: y + t.Height},
		{X: x, Y: y + t.Height},
	}
}

func (t Table) Center() geometry.Point {
	return geometry.Point{X: t.Position.X + t.Width/2, Y: t.Position.Y + t.Height/2}
}

// ============================================================
// Reservations
// ============================================================

// DateLayout - формат дат бронирования.
const DateLayout = "2006-01-02"

// Permanent - постоянная бронь по дням недели (0 - воскресенье).
type Permanent struct {
	Weekdays []int `json:"weekdays"`
}

// Reservation - бронь стола: либо на дату, либо постоянная по дням недели.
type Reservation struct {
	ID              string     `json:"id"`
	Location        string     `json:"location"`
	Floor           int        `json:"floor"`
	TableID         int        `json:"tableId"`
	ReservedForDate string     `json:"reservedForDate,omitempty"`
	Permanent       *Permanent `json:"permanent,omitempty"`
	ExcludeDates    []string   `json:"excludeDates"`
	UserID          string     `json:"userId"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ActiveOn проверяет, занимает ли бронь стол в день date (формат DateLayout).
func (r Reservation) ActiveOn(date string) bool {
	if r.ReservedForDate == date {
		return true
	}
	if r.Permanent == nil {
		return false
	}

	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	for _, d := range r.ExcludeDates {
		if d == date {
			return false
		}
	}
	return r.HasWeekday(int(day.Weekday()))
}

func (r Reservation) HasWeekday(weekday int) bool {
	if r.Permanent == nil {
		return false
	}
	for _, w := range r.Permanent.Weekdays {
		if w == weekday {
			return true
		}
	}
	return false
}
