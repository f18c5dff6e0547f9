package blueprint

import (
	"errors"
	"fmt"
	"sort"

	"office-planner/internal/planner/cycles"
	"office-planner/internal/planner/geometry"
)

// ============================================================
// Blueprint
// ============================================================

// Blueprint - сеанс редактирования стен одного этажа поверх графа стен.
// Повторяет то, что делает редактор плана: новая стена режет
// пересечённые стены и вставляется кусками между точками пересечения.
type Blueprint struct {
	graph *cycles.Extractor
}

func New() *Blueprint {
	return &Blueprint{graph: cycles.New()}
}

// Load восстанавливает сеанс из сохранённого графа этажа.
func Load(nodes []geometry.Point, edges []cycles.Edge) (*Blueprint, error) {
	b := New()
	if err := b.graph.Load(nodes, edges); err != nil {
		return nil, fmt.Errorf("load blueprint: %w", err)
	}
	return b, nil
}

func (b *Blueprint) Nodes() []geometry.Point {
	return b.graph.Nodes()
}

func (b *Blueprint) Edges() []cycles.Edge {
	return b.graph.Edges()
}

// Walls возвращает рёбра графа в виде отрезков.
func (b *Blueprint) Walls() []geometry.Segment {
	nodes := b.graph.Nodes()
	edges := b.graph.Edges()

	walls := make([]geometry.Segment, 0, len(edges))
	for _, e := range edges {
		walls = append(walls, geometry.Segment{Start: nodes[e[0]], End: nodes[e[1]]})
	}
	return walls
}

// Cycles - контуры всех комнат текущего графа.
func (b *Blueprint) Cycles() [][]geometry.Point {
	return b.graph.Run()
}

// ============================================================
// Drawing
// ============================================================

// DrawResult - сколько рёбер вставлено и сколько существующих стен разрезано.
type DrawResult struct {
	Inserted int `json:"inserted"`
	Split    int `json:"split"`
}

// DrawWall добавляет стену. Каждая пересечённая стена разрезается в точке
// пересечения, сама новая стена вставляется отрезками между этими точками.
func (b *Blueprint) DrawWall(seg geometry.Segment) (DrawResult, error) {
	var res DrawResult
	if seg.Start.Matches(seg.End) {
		return res, cycles.ErrDegenerateSegment
	}

	cuts := []geometry.Point{seg.Start, seg.End}
	for _, wall := range b.Walls() {
		p, ok := geometry.SegmentIntersect(wall, seg)
		if !ok {
			continue
		}
		cuts = append(cuts, p)

		if p.Matches(wall.Start) || p.Matches(wall.End) {
			continue
		}
		b.graph.AddNode(p)
		if err := b.graph.SplitEdge(wall, p); err != nil {
			return res, fmt.Errorf("split wall at %v: %w", p, err)
		}
		res.Split++
	}

	sort.SliceStable(cuts, func(i, j int) bool {
		return geometry.Distance(seg.Start, cuts[i]) < geometry.Distance(seg.Start, cuts[j])
	})

	for i := 1; i < len(cuts); i++ {
		piece := geometry.Segment{Start: cuts[i-1], End: cuts[i]}
		if piece.Start.Matches(piece.End) {
			continue
		}
		if _, err := b.graph.InsertEdge(piece); err != nil {
			return res, fmt.Errorf("insert wall piece: %w", err)
		}
		res.Inserted++
	}

	return res, nil
}

// EraseWall удаляет стену, заданную концами существующего ребра.
func (b *Blueprint) EraseWall(seg geometry.Segment) error {
	return b.graph.RemoveEdge(seg)
}

// ============================================================
// Batch
// ============================================================

type OpKind string

const (
	OpDraw  OpKind = "draw"
	OpErase OpKind = "erase"
)

var ErrUnknownOp = errors.New("unknown wall operation")

// WallOp - одна операция редактора над стеной.
type WallOp struct {
	Op   OpKind           `json:"op"`
	Wall geometry.Segment `json:"wall"`
}

// OpResult - итог операции. Отклонённая операция граф не меняет.
type OpResult struct {
	Op      OpKind     `json:"op"`
	Applied bool       `json:"applied"`
	Draw    DrawResult `json:"draw,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Apply выполняет операции по порядку. Ошибка одной операции не прерывает пакет.
func (b *Blueprint) Apply(ops []WallOp) []OpResult {
	results := make([]OpResult, 0, len(ops))

	for _, op := range ops {
		r := OpResult{Op: op.Op}

		var err error
		switch op.Op {
		case OpDraw:
			r.Draw, err = b.DrawWall(op.Wall)
		case OpErase:
			err = b.EraseWall(op.Wall)
		default:
			err = ErrUnknownOp
		}

		if err != nil {
			r.Error = err.Error()
		} else {
			r.Applied = true
		}
		results = append(results, r)
	}

	return results
}
