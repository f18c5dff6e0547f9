package cycles

import (
	"errors"
	"fmt"

	"office-planner/internal/planner/geometry"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrEdgeNotFound      = errors.New("edge not found")
	ErrDegenerateSegment = errors.New("degenerate segment")
)

// ============================================================
// Graph state
// ============================================================

// Edge - пара индексов узлов, всегда Edge[0] < Edge[1].
type Edge [2]int

func canonical(u, v int) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{u, v}
}

// Extractor хранит граф стен одного этажа и извлекает из него комнаты.
// Идентичность узла - его позиция в списке узлов.
type Extractor struct {
	nodes []geometry.Point
	edges []Edge
}

func New() *Extractor {
	return &Extractor{}
}

// Load заменяет граф сохранённым состоянием этажа.
func (e *Extractor) Load(nodes []geometry.Point, edges []Edge) error {
	seen := make(map[Edge]struct{}, len(edges))
	for i, edge := range edges {
		if edge[0] < 0 || edge[1] >= len(nodes) {
			return fmt.Errorf("edge %d %v: index out of range", i, edge)
		}
		if edge[0] >= edge[1] {
			return fmt.Errorf("edge %d %v: not canonical", i, edge)
		}
		if _, dup := seen[edge]; dup {
			return fmt.Errorf("edge %d %v: duplicate", i, edge)
		}
		seen[edge] = struct{}{}
	}

	e.nodes = append([]geometry.Point(nil), nodes...)
	e.edges = append([]Edge(nil), edges...)
	return nil
}

func (e *Extractor) Reset() {
	e.nodes = nil
	e.edges = nil
}

// Nodes возвращает копию списка узлов (индекс = идентификатор узла).
func (e *Extractor) Nodes() []geometry.Point {
	return append([]geometry.Point{}, e.nodes...)
}

// Edges возвращает копию списка рёбер.
func (e *Extractor) Edges() []Edge {
	return append([]Edge{}, e.edges...)
}

// ============================================================
// Incremental edits
// ============================================================

func (e *Extractor) findNode(p geometry.Point) int {
	for i, n := range e.nodes {
		if n.Matches(p) {
			return i
		}
	}
	return -1
}

func (e *Extractor) findEdge(edge Edge) int {
	for i, existing := range e.edges {
		if existing == edge {
			return i
		}
	}
	return -1
}

// AddNode находит узел в точке p или создаёт новый.
func (e *Extractor) AddNode(p geometry.Point) int {
	if idx := e.findNode(p); idx != -1 {
		return idx
	}
	e.nodes = append(e.nodes, geometry.NewPoint(p.X, p.Y))
	return len(e.nodes) - 1
}

func (e *Extractor) addEdge(u, v int) Edge {
	edge := canonical(u, v)
	if e.findEdge(edge) == -1 {
		e.edges = append(e.edges, edge)
	}
	return edge
}

func (e *Extractor) removeEdgeAt(i int) {
	e.edges = append(e.edges[:i], e.edges[i+1:]...)
}

// InsertEdge добавляет стену. Повторная вставка того же ребра ничего не меняет.
func (e *Extractor) InsertEdge(seg geometry.Segment) (Edge, error) {
	if seg.Start.Matches(seg.End) {
		return Edge{}, ErrDegenerateSegment
	}

	u := e.AddNode(seg.Start)
	v := e.AddNode(seg.End)
	return e.addEdge(u, v), nil
}

// SplitEdge разбивает существующее ребро seg узлом mid,
// когда новая стена пересекает старую.
func (e *Extractor) SplitEdge(seg geometry.Segment, mid geometry.Point) error {
	first := e.findNode(seg.Start)
	second := e.findNode(seg.End)
	between := e.findNode(mid)
	if first == -1 || second == -1 || between == -1 {
		return ErrNodeNotFound
	}
	if between == first || between == second {
		return ErrDegenerateSegment
	}

	idx := e.findEdge(canonical(first, second))
	if idx == -1 {
		return ErrEdgeNotFound
	}

	e.removeEdgeAt(idx)
	e.addEdge(first, between)
	e.addEdge(between, second)
	return nil
}

// RemoveEdge удаляет стену. Узлы, у которых не осталось рёбер, удаляются,
// индексы в рёбрах сдвигаются. Сначала обрабатывается больший индекс,
// иначе сдвиг испортит меньший.
func (e *Extractor) RemoveEdge(seg geometry.Segment) error {
	first := e.findNode(seg.Start)
	second := e.findNode(seg.End)
	if first == -1 || second == -1 {
		return ErrNodeNotFound
	}

	edge := canonical(first, second)
	idx := e.findEdge(edge)
	if idx == -1 {
		return ErrEdgeNotFound
	}
	e.removeEdgeAt(idx)

	e.dropIfIsolated(edge[1])
	e.dropIfIsolated(edge[0])
	return nil
}

func (e *Extractor) degree(node int) int {
	n := 0
	for _, edge := range e.edges {
		if edge[0] == node || edge[1] == node {
			n++
		}
	}
	return n
}

func (e *Extractor) dropIfIsolated(node int) {
	if e.degree(node) != 0 {
		return
	}

	for i := range e.edges {
		for j := range e.edges[i] {
			if e.edges[i][j] >= node {
				e.edges[i][j]--
			}
		}
	}
	e.nodes = append(e.nodes[:node], e.nodes[node+1:]...)
}
