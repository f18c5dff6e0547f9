package cycles

import (
	"testing"

	"office-planner/internal/planner/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(x1, y1, x2, y2 float64) geometry.Segment {
	return geometry.NewSegment(x1, y1, x2, y2)
}

func pt(x, y float64) geometry.Point {
	return geometry.NewPoint(x, y)
}

func insertAll(t *testing.T, e *Extractor, walls ...geometry.Segment) {
	t.Helper()
	for _, w := range walls {
		_, err := e.InsertEdge(w)
		require.NoError(t, err)
	}
}

func square(x, y, size float64) []geometry.Segment {
	return []geometry.Segment{
		seg(x, y, x+size, y),
		seg(x+size, y, x+size, y+size),
		seg(x+size, y+size, x, y+size),
		seg(x, y+size, x, y),
	}
}

func assertCanonical(t *testing.T, e *Extractor) {
	t.Helper()
	n := len(e.Nodes())
	for _, edge := range e.Edges() {
		assert.Less(t, edge[0], edge[1], "edge %v", edge)
		assert.GreaterOrEqual(t, edge[0], 0, "edge %v", edge)
		assert.Less(t, edge[1], n, "edge %v", edge)
	}
}

// ============================================================
// Incremental edits
// ============================================================

func TestInsertEdgeIsIdempotent(t *testing.T) {
	e := New()
	insertAll(t, e, seg(0, 0, 10, 0))
	insertAll(t, e, seg(0, 0, 10, 0))
	insertAll(t, e, seg(10, 0, 0, 0))

	assert.Len(t, e.Nodes(), 2)
	assert.Equal(t, []Edge{{0, 1}}, e.Edges())
}

func TestInsertEdgeKeepsCanonicalOrder(t *testing.T) {
	e := New()
	insertAll(t, e, seg(0, 0, 10, 0), seg(5, 5, 0, 0), seg(20, 20, 10, 0))

	assert.Equal(t, []Edge{{0, 1}, {0, 2}, {1, 3}}, e.Edges())
	assertCanonical(t, e)
}

func TestInsertEdgeMatchesByTruncation(t *testing.T) {
	e := New()
	insertAll(t, e, seg(0, 0, 10, 0))

	edge, err := e.InsertEdge(seg(10.7, 0.4, 10.2, 20))
	require.NoError(t, err)

	assert.Equal(t, Edge{1, 2}, edge)
	assert.Len(t, e.Nodes(), 3)
}

func TestInsertEdgeRejectsDegenerate(t *testing.T) {
	e := New()

	_, err := e.InsertEdge(seg(0.2, 0, 0.7, 0.5))

	assert.ErrorIs(t, err, ErrDegenerateSegment)
	assert.Empty(t, e.Nodes())
	assert.Empty(t, e.Edges())
}

func TestSplitEdge(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)
	before := len(e.Edges())

	mid := e.AddNode(pt(5, 0))
	require.NoError(t, e.SplitEdge(seg(0, 0, 10, 0), pt(5, 0)))

	assert.Len(t, e.Edges(), before+1)
	assert.Contains(t, e.Edges(), Edge{0, mid})
	assert.Contains(t, e.Edges(), Edge{1, mid})
	assert.NotContains(t, e.Edges(), Edge{0, 1})
	assertCanonical(t, e)

	cycles := e.Run()
	require.Len(t, cycles, 1)
	assert.Equal(t, []geometry.Point{pt(0, 0), pt(5, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, cycles[0])
}

func TestSplitEdgeFailures(t *testing.T) {
	cases := []struct {
		name string
		old  geometry.Segment
		mid  geometry.Point
		err  error
	}{
		{"unknown midpoint", seg(0, 0, 10, 0), pt(5, 0), ErrNodeNotFound},
		{"unknown endpoint", seg(0, 0, 30, 0), pt(10, 10), ErrNodeNotFound},
		{"not an edge", seg(0, 0, 10, 10), pt(10, 0), ErrEdgeNotFound},
		{"midpoint at endpoint", seg(0, 0, 10, 0), pt(10, 0), ErrDegenerateSegment},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := New()
			insertAll(t, e, square(0, 0, 10)...)
			edges := e.Edges()

			err := e.SplitEdge(c.old, c.mid)

			assert.ErrorIs(t, err, c.err)
			assert.Equal(t, edges, e.Edges())
		})
	}
}

func TestSplitEdgeWithoutEdge(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)
	e.AddNode(pt(5, 5))
	edges := e.Edges()

	err := e.SplitEdge(seg(0, 0, 10, 10), pt(5, 5))

	assert.ErrorIs(t, err, ErrEdgeNotFound)
	assert.Equal(t, edges, e.Edges())
}

func TestRemoveEdgeReindexes(t *testing.T) {
	e := New()
	insertAll(t, e, seg(100, 100, 200, 100))
	insertAll(t, e, square(0, 0, 10)...)
	require.Equal(t, []Edge{{0, 1}, {2, 3}, {3, 4}, {4, 5}, {2, 5}}, e.Edges())

	require.NoError(t, e.RemoveEdge(seg(100, 100, 200, 100)))

	assert.Equal(t, []geometry.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, e.Nodes())
	assert.Equal(t, []Edge{{0, 1}, {1, 2}, {2, 3}, {0, 3}}, e.Edges())
	assertCanonical(t, e)
	assert.Len(t, e.Run(), 1)
}

func TestRemoveEdgeKeepsConnectedNodes(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)

	require.NoError(t, e.RemoveEdge(seg(10, 0, 0, 0)))

	assert.Len(t, e.Nodes(), 4)
	assert.Len(t, e.Edges(), 3)
	assertCanonical(t, e)
	assert.Empty(t, e.Run())
}

func TestRemoveEdgeDropsSingleIsolatedNode(t *testing.T) {
	e := New()
	insertAll(t, e, seg(50, 50, 10, 10))
	insertAll(t, e, square(0, 0, 10)...)
	// (10,10) is shared by the tail and the square, (50,50) is node 0.

	require.NoError(t, e.RemoveEdge(seg(10, 10, 50, 50)))

	assert.Len(t, e.Nodes(), 4)
	assert.Equal(t, pt(10, 10), e.Nodes()[0])
	assertCanonical(t, e)
	require.Len(t, e.Run(), 1)
}

func TestRemoveEdgeFailures(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)
	nodes, edges := e.Nodes(), e.Edges()

	assert.ErrorIs(t, e.RemoveEdge(seg(0, 0, 30, 30)), ErrNodeNotFound)
	assert.ErrorIs(t, e.RemoveEdge(seg(0, 0, 10, 10)), ErrEdgeNotFound)

	assert.Equal(t, nodes, e.Nodes())
	assert.Equal(t, edges, e.Edges())
}

// ============================================================
// Load
// ============================================================

func TestLoad(t *testing.T) {
	nodes := []geometry.Point{pt(0, 0), pt(10, 0), pt(10, 10)}

	cases := []struct {
		name  string
		edges []Edge
		ok    bool
	}{
		{"valid", []Edge{{0, 1}, {1, 2}, {0, 2}}, true},
		{"out of range", []Edge{{0, 3}}, false},
		{"negative", []Edge{{-1, 1}}, false},
		{"not canonical", []Edge{{1, 0}}, false},
		{"self loop", []Edge{{1, 1}}, false},
		{"duplicate", []Edge{{0, 1}, {0, 1}}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := New()
			err := e.Load(nodes, c.edges)
			if c.ok {
				require.NoError(t, err)
				assert.Len(t, e.Run(), 1)
				return
			}
			assert.Error(t, err)
			assert.Empty(t, e.Nodes())
		})
	}
}

func TestReset(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)

	e.Reset()

	assert.Empty(t, e.Nodes())
	assert.Empty(t, e.Edges())
	assert.Empty(t, e.Run())
}

// ============================================================
// Run
// ============================================================

func TestRunSquare(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)

	cycles := e.Run()

	require.Len(t, cycles, 1)
	assert.Equal(t, []geometry.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, cycles[0])
}

func TestRunDanglingSegment(t *testing.T) {
	e := New()
	insertAll(t, e, seg(0, 0, 10, 0))

	assert.Empty(t, e.Run())
}

func TestRunIgnoresTail(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)
	insertAll(t, e, seg(10, 10, 30, 30), seg(30, 30, 40, 30))

	cycles := e.Run()

	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0], 4)
}

func TestRunAdjacentSquares(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)
	insertAll(t, e, square(10, 0, 10)...)

	cycles := e.Run()

	require.Len(t, cycles, 2)
	assert.Equal(t, []geometry.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, cycles[0])
	assert.Equal(t, []geometry.Point{pt(10, 0), pt(20, 0), pt(20, 10), pt(10, 10)}, cycles[1])
}

func TestRunSharedVertex(t *testing.T) {
	e := New()
	insertAll(t, e,
		seg(0, 0, 10, 10), seg(10, 10, 0, 20), seg(0, 20, 0, 0),
		seg(10, 10, 20, 0), seg(20, 0, 20, 20), seg(20, 20, 10, 10),
	)

	cycles := e.Run()

	require.Len(t, cycles, 2)
	assert.Equal(t, []geometry.Point{pt(0, 0), pt(10, 10), pt(0, 20)}, cycles[0])
	assert.Equal(t, []geometry.Point{pt(10, 10), pt(20, 0), pt(20, 20)}, cycles[1])
}

func TestRunDisconnectedRooms(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 100)...)
	insertAll(t, e, square(40, 40, 20)...)

	cycles := e.Run()

	require.Len(t, cycles, 2)
	assert.Equal(t, pt(0, 0), cycles[0][0])
	assert.Equal(t, pt(40, 40), cycles[1][0])
}

func TestRunDiagonal(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)
	insertAll(t, e, seg(0, 0, 10, 10))

	cycles := e.Run()

	require.Len(t, cycles, 2)
	for _, c := range cycles {
		assert.Len(t, c, 3)
	}
}

func TestRunKeepsPersistentGraph(t *testing.T) {
	e := New()
	insertAll(t, e, square(0, 0, 10)...)
	insertAll(t, e, square(10, 0, 10)...)
	nodes, edges := e.Nodes(), e.Edges()

	first := e.Run()
	second := e.Run()

	assert.Equal(t, nodes, e.Nodes())
	assert.Equal(t, edges, e.Edges())
	assert.Equal(t, first, second)
}

func TestReducePath(t *testing.T) {
	a, b, c, d, x := &vertex{}, &vertex{}, &vertex{}, &vertex{}, &vertex{}

	reduced := reducePath([]*vertex{a, b, c, d, b, x})

	assert.Equal(t, []*vertex{a, b, x}, reduced)
}
