package render

import (
	"fmt"
	"io"

	"office-planner/internal/planner/geometry"
	"office-planner/internal/planner/models"
	"office-planner/internal/planner/rooms"

	svg "github.com/ajstarks/svgo/float"
	"github.com/paulmach/orb/planar"
)

// ============================================================
// Renderer
// ============================================================

const (
	margin        = 20.0
	wallStyle     = "stroke:#222;stroke-width:6;stroke-linecap:round"
	roomStyle     = "fill:#f4f1ea;stroke:none"
	labelStyle    = "font-family:sans-serif;font-size:14px;text-anchor:middle;fill:#555"
	tableFree     = "fill:#d9d9d9;stroke:#888;stroke-width:1"
	tableGreen    = "fill:#8fd19e;stroke:#3c8d50;stroke-width:1"
	tableOccupied = "fill:#e88c8c;stroke:#a33;stroke-width:1"
)

// SVG рисует этаж: комнаты с подписями, стены и столы. Стены и столы
// получают id Wall_<n> и Table_<id>, так что файл можно импортировать обратно.
func SVG(w io.Writer, loc *models.Location) error {
	if loc == nil {
		return fmt.Errorf("location is nil")
	}
	s := loc.Structure

	min, max := bounds(s)
	width := max.X - min.X + 2*margin
	height := max.Y - min.Y + 2*margin

	canvas := svg.New(w)
	canvas.Startview(width, height, min.X-margin, min.Y-margin, width, height)
	canvas.Title(fmt.Sprintf("%s, floor %d", loc.Location, loc.Floor))

	canvas.Gid("rooms")
	for _, r := range s.Rooms {
		xs, ys := split(r.Points)
		canvas.Polygon(xs, ys, fmt.Sprintf(`id="Room_%d"`, r.RoomID), roomStyle)
	}
	for _, r := range s.Rooms {
		c, _ := planar.CentroidArea(rooms.Ring(r.Points))
		canvas.Text(c[0], c[1], fmt.Sprintf("%s (%.2f m²)", r.RoomName, r.Area), labelStyle)
	}
	canvas.Gend()

	canvas.Gid("walls")
	for i, e := range s.Edges {
		if e[0] >= len(s.Nodes) || e[1] >= len(s.Nodes) {
			return fmt.Errorf("edge %v: index out of range", e)
		}
		a, b := s.Nodes[e[0]], s.Nodes[e[1]]
		canvas.Line(a.X, a.Y, b.X, b.Y, fmt.Sprintf(`id="Wall_%d"`, i+1), wallStyle)
	}
	canvas.Gend()

	canvas.Gid("tables")
	for _, t := range s.Tables() {
		canvas.Rect(t.Position.X, t.Position.Y, t.Width, t.Height, fmt.Sprintf(`id="Table_%d"`, t.TableID), tableStyle(t.State))
	}
	canvas.Gend()

	canvas.End()
	return nil
}

func tableStyle(state models.TableState) string {
	switch state {
	case models.TableOccupied:
		return tableOccupied
	case models.TableGreen:
		return tableGreen
	}
	return tableFree
}

func split(points []geometry.Point) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// bounds - охват всех узлов, комнат и столов этажа.
func bounds(s models.Structure) (min, max geometry.Point) {
	points := append([]geometry.Point{}, s.Nodes...)
	for _, r := range s.Rooms {
		points = append(points, r.Points...)
	}
	for _, t := range s.Tables() {
		points = append(points, t.Corners()...)
	}
	if len(points) == 0 {
		return geometry.Point{}, geometry.Point{X: 1000, Y: 1000}
	}
	return geometry.Bounds(points)
}
