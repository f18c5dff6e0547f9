package rooms

import (
	"errors"
	"fmt"
	"math"
	"time"

	"office-planner/internal/planner/geometry"
	"office-planner/internal/planner/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// PixelsPerMetre - масштаб редактора плана.
const PixelsPerMetre = 50.0

var (
	ErrTableCrossesWall  = errors.New("table crosses a wall")
	ErrTableOutsideRooms = errors.New("table is outside of every room")
)

// ============================================================
// Area
// ============================================================

// Ring переводит контур комнаты в замкнутое кольцо orb.
func Ring(points []geometry.Point) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(points) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Area - площадь контура в квадратных метрах, два знака после запятой.
func Area(points []geometry.Point) float64 {
	px := math.Abs(planar.Area(Ring(points)))
	m2 := px / (PixelsPerMetre * PixelsPerMetre)
	return math.Round(m2*100) / 100
}

// ============================================================
// Build
// ============================================================

// Build собирает комнаты из циклов графа стен. Комнаты с тем же контуром,
// что и в previous, сохраняют идентификатор, имя и номер. Столы попадают
// в самую внутреннюю комнату, содержащую их центр, остальные возвращаются
// в unplaced.
func Build(cycles [][]geometry.Point, previous []models.Room, tables []models.Table, now time.Time) (rooms []models.Room, unplaced []models.Table) {
	nextID := 1
	for _, r := range previous {
		if r.RoomID >= nextID {
			nextID = r.RoomID + 1
		}
	}

	rooms = make([]models.Room, 0, len(cycles))
	for _, cycle := range cycles {
		room := models.Room{
			Points:      append([]geometry.Point(nil), cycle...),
			Area:        Area(cycle),
			RoomsInside: []int{},
			Tables:      []models.Table{},
		}

		if prev, ok := findSame(previous, cycle); ok {
			room.RoomID = prev.RoomID
			room.RoomName = prev.RoomName
			room.RoomNumber = prev.RoomNumber
			room.CreatedAt = prev.CreatedAt
		} else {
			room.RoomID = nextID
			room.RoomNumber = nextID
			room.RoomName = fmt.Sprintf("Room %d", nextID)
			room.CreatedAt = now
			nextID++
		}
		rooms = append(rooms, room)
	}

	nest(rooms)

	index := NewIndex(rooms)
	for _, t := range tables {
		idx := index.Locate(t.Center())
		if idx == -1 {
			unplaced = append(unplaced, t)
			continue
		}
		rooms[idx].Tables = append(rooms[idx].Tables, t)
	}

	return rooms, unplaced
}

func findSame(previous []models.Room, cycle []geometry.Point) (models.Room, bool) {
	for _, r := range previous {
		if samePolygon(r.Points, cycle) {
			return r, true
		}
	}
	return models.Room{}, false
}

func samePolygon(a, b []geometry.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for _, p := range a {
		found := false
		for _, q := range b {
			if p.Matches(q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// nest заполняет RoomsInside и IsDirectChild. Комната, не лежащая ни в одной
// другой, считается прямым потомком этажа.
func nest(rooms []models.Room) {
	contained := make([]bool, len(rooms))
	for i := range rooms {
		for j := range rooms {
			if i == j || rooms[j].Area >= rooms[i].Area {
				continue
			}
			if geometry.PolygonInPolygon(rooms[j].Points, rooms[i].Points) {
				rooms[i].RoomsInside = append(rooms[i].RoomsInside, rooms[j].RoomID)
				contained[j] = true
			}
		}
	}
	for i := range rooms {
		rooms[i].IsDirectChild = !contained[i]
	}
}

// ============================================================
// Table checks
// ============================================================

// CheckTable проверяет, что стол целиком стоит внутри одной комнаты.
func CheckTable(t models.Table, rooms []models.Room) error {
	corners := t.Corners()
	for _, r := range rooms {
		if geometry.PolygonsIntersect(corners, r.Points) {
			return fmt.Errorf("table %d, room %d: %w", t.TableID, r.RoomID, ErrTableCrossesWall)
		}
	}
	if NewIndex(rooms).Locate(t.Center()) == -1 {
		return fmt.Errorf("table %d: %w", t.TableID, ErrTableOutsideRooms)
	}
	return nil
}
