package parser

import (
	"fmt"
	"io"
	"math"

	"office-planner/internal/planner/geometry"
	"office-planner/internal/planner/models"
)

// ============================================================
// Plan Builder
// ============================================================

const mergeTolerance = 8.0    // Радиус склейки близких концов стен
const axisSnapTolerance = 4.0 // Насколько расходиться от оси, чтобы зафиксировать координату

// Plan - стены и столы импортированного плана.
type Plan struct {
	Walls  []geometry.Segment `json:"walls"`
	Tables []models.Table     `json:"tables"`
}

// Import читает SVG и собирает из него план.
func Import(r io.Reader) (Plan, error) {
	elements, err := ParseSVG(r)
	if err != nil {
		return Plan{}, err
	}
	return BuildPlan(elements)
}

// BuildPlan переводит элементы SVG в отрезки стен и столы.
// Близкие концы стен склеиваются, почти горизонтальные и вертикальные
// стены выравниваются по осям.
func BuildPlan(elements []models.SVGElement) (Plan, error) {
	var raw []geometry.Segment
	var tables []models.Table
	seen := make(map[int]struct{})

	for _, el := range elements {
		switch el.Kind {
		case models.ElementWall:
			segs, err := wallSegments(el)
			if err != nil {
				return Plan{}, fmt.Errorf("wall %s: %w", el.ID, err)
			}
			raw = append(raw, segs...)

		case models.ElementTable:
			rect, ok := el.Geometry.(models.RectGeometry)
			if !ok {
				continue
			}
			id, err := TableID(el.ID)
			if err != nil {
				return Plan{}, err
			}
			if _, dup := seen[id]; dup {
				return Plan{}, fmt.Errorf("duplicate table id %d", id)
			}
			seen[id] = struct{}{}

			tables = append(tables, models.Table{
				TableID:  id,
				Position: geometry.NewPoint(rect.X, rect.Y),
				Width:    rect.Width,
				Height:   rect.Height,
			})
		}
	}

	return Plan{Walls: connect(raw), Tables: tables}, nil
}

func wallSegments(el models.SVGElement) ([]geometry.Segment, error) {
	switch geom := el.Geometry.(type) {
	case models.RectGeometry:
		return []geometry.Segment{rectCenterLine(geom)}, nil

	case models.LineGeometry:
		return []geometry.Segment{{
			Start: geometry.Point{X: geom.X1, Y: geom.Y1},
			End:   geometry.Point{X: geom.X2, Y: geom.Y2},
		}}, nil

	case models.PathGeometry:
		points, err := ParsePath(geom.D)
		if err != nil {
			return nil, err
		}
		var segs []geometry.Segment
		for i := 1; i < len(points); i++ {
			segs = append(segs, geometry.Segment{Start: points[i-1], End: points[i]})
		}
		return segs, nil
	}
	return nil, nil
}

// rectCenterLine - стена, нарисованная прямоугольником, превращается
// в среднюю линию по длинной стороне.
func rectCenterLine(rect models.RectGeometry) geometry.Segment {
	if rect.Width > rect.Height {
		// Горизонтальная линия
		y := rect.Y + rect.Height/2
		return geometry.Segment{Start: geometry.Point{X: rect.X, Y: y}, End: geometry.Point{X: rect.X + rect.Width, Y: y}}
	}
	// Вертикальная линия
	x := rect.X + rect.Width/2
	return geometry.Segment{Start: geometry.Point{X: x, Y: rect.Y}, End: geometry.Point{X: x, Y: rect.Y + rect.Height}}
}

// ============================================================
// Wall segments connection
// ============================================================

// connect склеивает концы стен и выравнивает их по осям.
func connect(raw []geometry.Segment) []geometry.Segment {
	var vertices []geometry.Point
	vertexOf := func(p geometry.Point) int {
		for i, v := range vertices {
			if geometry.Distance(p, v) <= mergeTolerance {
				return i
			}
		}
		vertices = append(vertices, p)
		return len(vertices) - 1
	}

	var pairs []pair
	seen := make(map[pair]struct{})
	for _, s := range raw {
		a, b := vertexOf(s.Start), vertexOf(s.End)
		if a == b {
			continue
		}
		key := pair{a: a, b: b}
		if a > b {
			key = pair{a: b, b: a}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pairs = append(pairs, pair{a: a, b: b})
	}

	snapAxisAligned(vertices, pairs)

	walls := make([]geometry.Segment, 0, len(pairs))
	for _, p := range pairs {
		start := geometry.NewPoint(vertices[p.a].X, vertices[p.a].Y)
		end := geometry.NewPoint(vertices[p.b].X, vertices[p.b].Y)
		if start.Matches(end) {
			continue
		}
		walls = append(walls, geometry.Segment{Start: start, End: end})
	}
	return walls
}

type pair struct{ a, b int }

// snapAxisAligned фиксирует координаты вершин по осям для почти горизонтальных/вертикальных линий.
func snapAxisAligned(vertices []geometry.Point, pairs []pair) {
	type agg struct {
		sumX float64
		cntX int
		sumY float64
		cntY int
	}
	aggs := make([]agg, len(vertices))

	for _, p := range pairs {
		a, b := p.a, p.b
		v1, v2 := vertices[a], vertices[b]
		dx := v1.X - v2.X
		dy := v1.Y - v2.Y

		if math.Abs(dy) <= axisSnapTolerance {
			targetY := (v1.Y + v2.Y) / 2
			for _, i := range []int{a, b} {
				aggs[i].sumY += targetY
				aggs[i].cntY++
			}
		} else if math.Abs(dx) <= axisSnapTolerance {
			targetX := (v1.X + v2.X) / 2
			for _, i := range []int{a, b} {
				aggs[i].sumX += targetX
				aggs[i].cntX++
			}
		}
	}

	for i, a := range aggs {
		if a.cntX > 0 {
			vertices[i].X = a.sumX / float64(a.cntX)
		}
		if a.cntY > 0 {
			vertices[i].Y = a.sumY / float64(a.cntY)
		}
	}
}
