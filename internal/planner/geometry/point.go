package geometry

import "math"

// ============================================================
// Point
// ============================================================

// Point - точка плана в координатах редактора (пиксели, ось Y вниз).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint округляет координаты до двух знаков после запятой.
func NewPoint(x, y float64) Point {
	return Point{X: round2(x), Y: round2(y)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Matches сравнивает точки по целой части координат.
// По этому правилу узлы графа находятся при вставке и удалении стен.
func (p Point) Matches(q Point) bool {
	return math.Trunc(p.X) == math.Trunc(q.X) && math.Trunc(p.Y) == math.Trunc(q.Y)
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Cross - псевдоскалярное произведение (dot-perp) двух векторов.
func Cross(a, b Point) float64 {
	return a.X*b.Y - b.X*a.Y
}

func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func Midpoint(a, b Point) Point {
	return NewPoint((a.X+b.X)/2, (a.Y+b.Y)/2)
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// ============================================================
// Segment
// ============================================================

// Segment - отрезок стены.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func NewSegment(x1, y1, x2, y2 float64) Segment {
	return Segment{Start: NewPoint(x1, y1), End: NewPoint(x2, y2)}
}

// Degenerate - отрезок нулевой длины.
func (s Segment) Degenerate() bool {
	return s.Start.X == s.End.X && s.Start.Y == s.End.Y
}

func (s Segment) Length() float64 {
	return Distance(s.Start, s.End)
}

// Reversed меняет местами начало и конец.
func (s Segment) Reversed() Segment {
	return Segment{Start: s.End, End: s.Start}
}

// ============================================================
// Bounds
// ============================================================

// Bounds возвращает ограничивающий прямоугольник набора точек.
func Bounds(points []Point) (min, max Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}
