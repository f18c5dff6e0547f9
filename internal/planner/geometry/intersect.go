package geometry

import "math"

// ============================================================
// Segment intersection
// ============================================================

// SegmentIntersect находит точку пересечения двух отрезков (параметрическая форма).
// Вырожденные и параллельные отрезки не пересекаются. Точка должна лежать
// на обоих отрезках, а не на их продолжениях.
func SegmentIntersect(a, b Segment) (Point, bool) {
	if !a.Start.finite() || !a.End.finite() || !b.Start.finite() || !b.End.finite() {
		return Point{}, false
	}
	if a.Degenerate() || b.Degenerate() {
		return Point{}, false
	}

	denominator := (b.End.Y-b.Start.Y)*(a.End.X-a.Start.X) - (b.End.X-b.Start.X)*(a.End.Y-a.Start.Y)
	if denominator == 0 {
		return Point{}, false
	}

	ua := ((b.End.X-b.Start.X)*(a.Start.Y-b.Start.Y) - (b.End.Y-b.Start.Y)*(a.Start.X-b.Start.X)) / denominator
	ub := ((a.End.X-a.Start.X)*(a.Start.Y-b.Start.Y) - (a.End.Y-a.Start.Y)*(a.Start.X-b.Start.X)) / denominator

	if ua < 0 || ua > 1 || ub < 0 || ub > 1 {
		return Point{}, false
	}

	x := a.Start.X + ua*(a.End.X-a.Start.X)
	y := a.Start.Y + ua*(a.End.Y-a.Start.Y)
	return NewPoint(x, y), true
}

// ============================================================
// Polygons
// ============================================================

// PointInPolygon - ray casting. Совпадение с вершиной считается попаданием.
func PointInPolygon(p Point, polygon []Point) bool {
	inside := false

	for i, j := 0, len(polygon)-1; i < len(polygon); j, i = i, i+1 {
		pi, pj := polygon[i], polygon[j]

		if (pi.X == p.X && pi.Y == p.Y) || (pj.X == p.X && pj.Y == p.Y) {
			return true
		}

		crosses := (pi.Y >= p.Y) != (pj.Y >= p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X
		if crosses {
			inside = !inside
		}
	}

	return inside
}

// PolygonInPolygon проверяет, что все вершины inner лежат внутри outer.
func PolygonInPolygon(inner, outer []Point) bool {
	for _, p := range inner {
		if !PointInPolygon(p, outer) {
			return false
		}
	}
	return true
}

// PolygonsIntersect проверяет пересечение границ двух многоугольников.
func PolygonsIntersect(a, b []Point) bool {
	for i := range a {
		edgeA := Segment{Start: a[i], End: a[(i+1)%len(a)]}
		for j := range b {
			edgeB := Segment{Start: b[j], End: b[(j+1)%len(b)]}
			if _, ok := SegmentIntersect(edgeA, edgeB); ok {
				return true
			}
		}
	}
	return false
}

// ============================================================
// Snapping
// ============================================================

// Crossing - стена, пересечённая рисуемым отрезком, и точка пересечения.
type Crossing struct {
	Wall  Segment `json:"wall"`
	Point Point   `json:"point"`
}

// Snap - значимые пересечения рисуемого отрезка: стена в его начале
// и ближайшая к началу пересечённая стена.
type Snap struct {
	Start *Crossing `json:"start,omitempty"`
	End   *Crossing `json:"end,omitempty"`
}

// NearestIntersection ищет пересечения отрезка со стенами для привязки концов.
func NearestIntersection(seg Segment, walls []Segment) Snap {
	var snap Snap
	best := math.Inf(1)

	for _, wall := range walls {
		if wall == seg {
			continue
		}
		p, ok := SegmentIntersect(wall, seg)
		if !ok {
			continue
		}

		d := round2(Distance(seg.Start, p))
		if d >= best {
			continue
		}
		if d == 0 {
			snap.Start = &Crossing{Wall: wall, Point: p}
			continue
		}
		best = d
		snap.End = &Crossing{Wall: wall, Point: p}
	}

	return snap
}
