package rooms

import (
	"office-planner/internal/planner/geometry"
	"office-planner/internal/planner/models"

	"github.com/dhconnelly/rtreego"
)

// ============================================================
// Spatial index
// ============================================================

// pointTolerance - сторона прямоугольника запроса вокруг точки.
const pointTolerance = 0.01

type roomEntry struct {
	idx  int
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *roomEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// Index ищет комнату по точке: R-tree по ограничивающим прямоугольникам,
// затем точная проверка контура.
type Index struct {
	tree  *rtreego.Rtree
	rooms []models.Room
}

func NewIndex(rooms []models.Room) *Index {
	tree := rtreego.NewTree(2, 25, 50)

	for i, r := range rooms {
		bbox, err := boundingBox(r.Points)
		if err != nil {
			continue
		}
		tree.Insert(&roomEntry{idx: i, bbox: bbox})
	}

	return &Index{tree: tree, rooms: rooms}
}

// Locate возвращает индекс самой маленькой комнаты, содержащей p, или -1.
func (ix *Index) Locate(p geometry.Point) int {
	query, err := rtreego.NewRect(
		rtreego.Point{p.X - pointTolerance/2, p.Y - pointTolerance/2},
		[]float64{pointTolerance, pointTolerance},
	)
	if err != nil {
		return -1
	}

	best := -1
	for _, item := range ix.tree.SearchIntersect(query) {
		idx := item.(*roomEntry).idx
		room := ix.rooms[idx]
		if !geometry.PointInPolygon(p, room.Points) {
			continue
		}
		if best == -1 || room.Area < ix.rooms[best].Area {
			best = idx
		}
	}
	return best
}

func boundingBox(points []geometry.Point) (rtreego.Rect, error) {
	min, max := geometry.Bounds(points)
	return rtreego.NewRect(
		rtreego.Point{min.X, min.Y},
		[]float64{max.X - min.X, max.Y - min.Y},
	)
}
