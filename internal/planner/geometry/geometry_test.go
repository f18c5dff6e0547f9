package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPointRounds(t *testing.T) {
	p := NewPoint(1.23456, -7.891)
	assert.Equal(t, 1.23, p.X)
	assert.Equal(t, -7.89, p.Y)
}

func TestPointMatchesTruncates(t *testing.T) {
	cases := []struct {
		name string
		a, b Point
		want bool
	}{
		{"same", Point{4, 4}, Point{4, 4}, true},
		{"within unit", Point{4.1, 4.9}, Point{4.8, 4.2}, true},
		{"across integer boundary", Point{3.99, 4}, Point{4.01, 4}, false},
		{"different y", Point{1, 1}, Point{1, 2}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.a.Matches(c.b))
		})
	}
}

func TestSegmentIntersect(t *testing.T) {
	cases := []struct {
		name string
		a, b Segment
		want Point
		ok   bool
	}{
		{
			name: "crossing",
			a:    NewSegment(0, 5, 10, 5),
			b:    NewSegment(5, 0, 5, 10),
			want: Point{5, 5},
			ok:   true,
		},
		{
			name: "shared endpoint",
			a:    NewSegment(0, 0, 10, 0),
			b:    NewSegment(10, 0, 10, 10),
			want: Point{10, 0},
			ok:   true,
		},
		{
			name: "parallel",
			a:    NewSegment(0, 0, 10, 0),
			b:    NewSegment(0, 5, 10, 5),
		},
		{
			name: "collinear overlap",
			a:    NewSegment(0, 0, 10, 0),
			b:    NewSegment(5, 0, 15, 0),
		},
		{
			name: "extension only",
			a:    NewSegment(0, 0, 10, 0),
			b:    NewSegment(20, -5, 20, 5),
		},
		{
			name: "degenerate",
			a:    NewSegment(3, 3, 3, 3),
			b:    NewSegment(0, 0, 10, 10),
		},
		{
			name: "nan",
			a:    Segment{Start: Point{math.NaN(), 0}, End: Point{10, 0}},
			b:    NewSegment(5, -5, 5, 5),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, ok := SegmentIntersect(c.a, c.b)
			require.Equal(t, c.ok, ok)
			if c.ok {
				assert.Equal(t, c.want, p)
			}
		})
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	assert.True(t, PointInPolygon(Point{5, 5}, square))
	assert.True(t, PointInPolygon(Point{10, 10}, square), "vertex counts as inside")
	assert.False(t, PointInPolygon(Point{15, 5}, square))
	assert.False(t, PointInPolygon(Point{-1, -1}, square))
	assert.False(t, PointInPolygon(Point{1, 1}, nil))
}

func TestPolygonInPolygon(t *testing.T) {
	outer := []Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	inner := []Point{{10, 10}, {20, 10}, {20, 20}, {10, 20}}
	overlapping := []Point{{90, 90}, {110, 90}, {110, 110}, {90, 110}}

	assert.True(t, PolygonInPolygon(inner, outer))
	assert.False(t, PolygonInPolygon(outer, inner))
	assert.False(t, PolygonInPolygon(overlapping, outer))
}

func TestPolygonsIntersect(t *testing.T) {
	a := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	b := []Point{{5, 5}, {15, 5}, {15, 15}, {5, 15}}
	c := []Point{{20, 20}, {30, 20}, {30, 30}, {20, 30}}

	assert.True(t, PolygonsIntersect(a, b))
	assert.False(t, PolygonsIntersect(a, c))
}

func TestNearestIntersection(t *testing.T) {
	walls := []Segment{
		NewSegment(0, 0, 0, 100),
		NewSegment(50, 0, 50, 100),
		NewSegment(80, 0, 80, 100),
	}

	snap := NearestIntersection(NewSegment(0, 50, 100, 50), walls)

	require.NotNil(t, snap.Start)
	assert.Equal(t, walls[0], snap.Start.Wall)
	require.NotNil(t, snap.End)
	assert.Equal(t, walls[1], snap.End.Wall)
	assert.Equal(t, Point{50, 50}, snap.End.Point)
}

func TestBounds(t *testing.T) {
	min, max := Bounds([]Point{{3, 7}, {-1, 2}, {5, -4}})
	assert.Equal(t, Point{-1, -4}, min)
	assert.Equal(t, Point{5, 7}, max)
}
