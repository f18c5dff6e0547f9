package rooms

import (
	"testing"
	"time"

	"office-planner/internal/planner/geometry"
	"office-planner/internal/planner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) []geometry.Point {
	return []geometry.Point{{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size}}
}

func table(id int, x, y float64) models.Table {
	return models.Table{TableID: id, Position: geometry.Point{X: x, Y: y}, Width: 20, Height: 10}
}

func TestArea(t *testing.T) {
	cases := []struct {
		name   string
		points []geometry.Point
		want   float64
	}{
		{"square", square(0, 0, 100), 4},
		{"reversed", []geometry.Point{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 0}}, 4},
		{"triangle", []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}}, 2},
		{"empty", nil, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, Area(c.points), 1e-9)
		})
	}
}

func TestBuildNestingAndTables(t *testing.T) {
	now := time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)
	cycles := [][]geometry.Point{square(0, 0, 500), square(100, 100, 100)}
	tables := []models.Table{table(1, 140, 145), table(2, 300, 300), table(3, 1000, 1000)}

	rooms, unplaced := Build(cycles, nil, tables, now)

	require.Len(t, rooms, 2)
	outer, inner := rooms[0], rooms[1]

	assert.Equal(t, 1, outer.RoomID)
	assert.Equal(t, 2, inner.RoomID)
	assert.Equal(t, "Room 2", inner.RoomName)
	assert.Equal(t, now, inner.CreatedAt)

	assert.InDelta(t, 100.0, outer.Area, 1e-9)
	assert.InDelta(t, 4.0, inner.Area, 1e-9)

	assert.True(t, outer.IsDirectChild)
	assert.False(t, inner.IsDirectChild)
	assert.Equal(t, []int{2}, outer.RoomsInside)
	assert.Empty(t, inner.RoomsInside)

	require.Len(t, inner.Tables, 1)
	assert.Equal(t, 1, inner.Tables[0].TableID)
	require.Len(t, outer.Tables, 1)
	assert.Equal(t, 2, outer.Tables[0].TableID)
	require.Len(t, unplaced, 1)
	assert.Equal(t, 3, unplaced[0].TableID)
}

func TestBuildKeepsPreviousRooms(t *testing.T) {
	created := time.Date(2029, 5, 1, 0, 0, 0, 0, time.UTC)
	previous := []models.Room{{
		RoomID:     7,
		RoomName:   "Kitchen",
		RoomNumber: 12,
		// тот же контур, другая начальная вершина и дробные координаты
		Points:    []geometry.Point{{X: 100.4, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100.3}, {X: 0, Y: 0}},
		CreatedAt: created,
	}}

	rooms, _ := Build([][]geometry.Point{square(0, 0, 100), square(200, 0, 100)}, previous, nil, time.Now())

	require.Len(t, rooms, 2)
	assert.Equal(t, 7, rooms[0].RoomID)
	assert.Equal(t, "Kitchen", rooms[0].RoomName)
	assert.Equal(t, 12, rooms[0].RoomNumber)
	assert.Equal(t, created, rooms[0].CreatedAt)

	assert.Equal(t, 8, rooms[1].RoomID)
	assert.Equal(t, "Room 8", rooms[1].RoomName)
	assert.True(t, rooms[0].IsDirectChild)
	assert.True(t, rooms[1].IsDirectChild)
}

func TestIndexLocatesInnermostRoom(t *testing.T) {
	rooms, _ := Build([][]geometry.Point{square(100, 100, 100), square(0, 0, 500)}, nil, nil, time.Now())
	ix := NewIndex(rooms)

	assert.Equal(t, 0, ix.Locate(geometry.Point{X: 150, Y: 150}))
	assert.Equal(t, 1, ix.Locate(geometry.Point{X: 400, Y: 400}))
	assert.Equal(t, -1, ix.Locate(geometry.Point{X: 600, Y: 50}))
}

func TestCheckTable(t *testing.T) {
	rooms, _ := Build([][]geometry.Point{square(0, 0, 100)}, nil, nil, time.Now())

	cases := []struct {
		name  string
		table models.Table
		err   error
	}{
		{"inside", table(1, 10, 10), nil},
		{"crosses wall", table(2, 90, 10), ErrTableCrossesWall},
		{"outside", table(3, 300, 300), ErrTableOutsideRooms},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := CheckTable(c.table, rooms)
			if c.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, c.err)
		})
	}
}
