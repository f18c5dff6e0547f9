package cycles

import "office-planner/internal/planner/geometry"

// ============================================================
// Cycle extraction
// ============================================================

// vertex - узел рабочего графа, существующего только во время Run.
type vertex struct {
	point geometry.Point
	adj   []*vertex
}

// Run извлекает все минимальные циклы (комнаты) текущего графа.
// Рабочий граф строится заново и разрушается по ходу обхода,
// сохранённые узлы и рёбра не меняются.
func (e *Extractor) Run() [][]geometry.Point {
	working := make([]*vertex, len(e.nodes))
	for i, p := range e.nodes {
		working[i] = &vertex{point: p}
	}
	for _, edge := range e.edges {
		v1, v2 := working[edge[0]], working[edge[1]]
		v1.adj = append(v1.adj, v2)
		v2.adj = append(v2.adj, v1)
	}

	// Обход не может пройти больше направленных рёбер, чем есть в графе.
	maxSteps := 2*len(e.edges) + 1

	var found [][]*vertex
	for len(working) > 0 {
		v := pivot(working)
		if len(v.adj) == 0 {
			working = without(working, v)
			continue
		}

		path, closed := closedPathFrom(v, maxSteps)
		if closed {
			path = reducePath(path)
			if len(path) > 2 {
				found = append(found, path)
			}
		}

		unlink(path[0], path[1])
		working = pruneFrom(path[0], working)
		working = pruneFrom(path[1], working)
	}

	result := make([][]geometry.Point, 0, len(found))
	for _, cycle := range found {
		points := make([]geometry.Point, len(cycle))
		for i, v := range cycle {
			points[i] = v.point
		}
		result = append(result, points)
	}
	return result
}

// pivot выбирает узел с минимальным x, при равенстве - с минимальным y.
// Такой узел лежит на внешней границе своей компоненты.
func pivot(nodes []*vertex) *vertex {
	m := nodes[0]
	for _, v := range nodes[1:] {
		dx := v.point.X - m.point.X
		if dx < 0 || (dx == 0 && v.point.Y < m.point.Y) {
			m = v
		}
	}
	return m
}

// closedPathFrom идёт от v по правилу getNext, пока не вернётся в v.
// Путь всегда содержит хотя бы v и его соседа.
func closedPathFrom(v *vertex, maxSteps int) ([]*vertex, bool) {
	path := []*vertex{v}
	curr, prev := next(v, nil), v
	for steps := 0; curr != v; steps++ {
		if steps >= maxSteps {
			return path, false
		}
		path = append(path, curr)
		curr, prev = next(curr, prev), curr
	}
	return path, true
}

// reducePath вырезает повторные петли, чтобы цикл был простым.
func reducePath(w []*vertex) []*vertex {
	for i := 1; i < len(w); i++ {
		dup := lastIndex(w, w[i])
		if dup > i {
			w = append(w[:i+1], w[dup+1:]...)
		}
	}
	return w
}

func lastIndex(w []*vertex, v *vertex) int {
	for i := len(w) - 1; i >= 0; i-- {
		if w[i] == v {
			return i
		}
	}
	return -1
}

func without(nodes []*vertex, v *vertex) []*vertex {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != v {
			out = append(out, n)
		}
	}
	return out
}

func unlink(a, b *vertex) {
	a.adj = without(a.adj, b)
	b.adj = without(b.adj, a)
}

// pruneFrom удаляет узлы степени < 2, начиная с v и дальше по висячей цепочке.
func pruneFrom(v *vertex, nodes []*vertex) []*vertex {
	for curr := v; curr != nil && len(curr.adj) < 2; {
		nodes = without(nodes, curr)

		var following *vertex
		if len(curr.adj) == 1 {
			following = curr.adj[0]
			unlink(curr, following)
		}
		curr = following
	}
	return nodes
}

// ============================================================
// Direction rule
// ============================================================

// next выбирает следующий узел обхода. Единственный сосед берётся сразу,
// иначе - крайний поворот относительно входящего направления: на первом шаге
// (prev == nil) по одному правилу, дальше по противоположному.
func next(v, prev *vertex) *vertex {
	if len(v.adj) == 1 {
		return v.adj[0]
	}

	followUp := prev != nil
	candidates := v.adj
	dCurrent := geometry.Point{X: 0, Y: -1}
	if followUp {
		dCurrent = v.point.Sub(prev.point)
		candidates = without(candidates, prev)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best, v, dCurrent, followUp) {
			best = c
		}
	}
	return best
}

func better(cand, soFar, curr *vertex, dCurrent geometry.Point, followUp bool) bool {
	d := cand.point.Sub(curr.point)
	dSoFar := soFar.point.Sub(curr.point)

	isConvex := geometry.Cross(dSoFar, dCurrent) > 0
	currToCand := geometry.Cross(dCurrent, d)
	soFarToCand := geometry.Cross(dSoFar, d)

	if followUp {
		return (isConvex && (currToCand >= 0 || soFarToCand >= 0)) ||
			(!isConvex && currToCand >= 0 && soFarToCand >= 0)
	}
	return (!isConvex && (currToCand < 0 || soFarToCand < 0)) ||
		(isConvex && currToCand < 0 && soFarToCand < 0)
}
