package parser

import (
	"strings"
	"testing"

	"office-planner/internal/planner/geometry"
	"office-planner/internal/planner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floorSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="600" height="400">
  <rect id="Wall_1" x="0" y="-5" width="300" height="10"/>
  <line id="Wall_2" x1="302" y1="2" x2="300" y2="200"/>
  <g id="layer">
    <path id="Wall_3" d="M300 200 H0 V0"/>
  </g>
  <rect id="Table_4" x="50" y="50" width="40" height="20"/>
  <rect id="Decoration" x="0" y="0" width="5" height="5"/>
</svg>`

func TestParsePath(t *testing.T) {
	cases := []struct {
		name string
		d    string
		want []geometry.Point
	}{
		{
			name: "absolute",
			d:    "M0 0 L10 0 L10 10",
			want: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		},
		{
			name: "implicit lineto",
			d:    "M0,0 10,0 10,10",
			want: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		},
		{
			name: "relative closed",
			d:    "m10 10 l5 0 v5 h-5 z",
			want: []geometry.Point{{X: 10, Y: 10}, {X: 15, Y: 10}, {X: 15, Y: 15}, {X: 10, Y: 15}, {X: 10, Y: 10}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			points, err := ParsePath(c.d)
			require.NoError(t, err)
			assert.Equal(t, c.want, points)
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	_, err := ParsePath("   ")
	assert.Error(t, err)

	_, err = ParsePath("Z")
	assert.Error(t, err)
}

func TestParseSVG(t *testing.T) {
	elements, err := ParseSVG(strings.NewReader(floorSVG))
	require.NoError(t, err)

	require.Len(t, elements, 4)
	kinds := map[string]models.ElementKind{}
	for _, el := range elements {
		kinds[el.ID] = el.Kind
	}
	assert.Equal(t, map[string]models.ElementKind{
		"Wall_1":  models.ElementWall,
		"Wall_2":  models.ElementWall,
		"Wall_3":  models.ElementWall,
		"Table_4": models.ElementTable,
	}, kinds)
}

func TestParseSVGInvalid(t *testing.T) {
	_, err := ParseSVG(strings.NewReader("<svg><rect"))
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	plan, err := Import(strings.NewReader(floorSVG))
	require.NoError(t, err)

	assert.Equal(t, []geometry.Segment{
		geometry.NewSegment(0, 0, 300, 0),
		geometry.NewSegment(300, 0, 300, 200),
		geometry.NewSegment(300, 200, 0, 200),
		geometry.NewSegment(0, 200, 0, 0),
	}, plan.Walls)

	require.Len(t, plan.Tables, 1)
	assert.Equal(t, models.Table{
		TableID:  4,
		Position: geometry.Point{X: 50, Y: 50},
		Width:    40,
		Height:   20,
	}, plan.Tables[0])
}

func TestBuildPlanSnapsToAxis(t *testing.T) {
	plan, err := BuildPlan([]models.SVGElement{
		{ID: "Wall_a", Kind: models.ElementWall, Geometry: models.LineGeometry{X1: 0, Y1: 0, X2: 100, Y2: 3}},
		{ID: "Wall_b", Kind: models.ElementWall, Geometry: models.LineGeometry{X1: 100, Y1: 3, X2: 102, Y2: 100}},
	})
	require.NoError(t, err)

	require.Len(t, plan.Walls, 2)
	assert.Equal(t, geometry.NewSegment(0, 1.5, 101, 1.5), plan.Walls[0])
	assert.Equal(t, geometry.NewSegment(101, 1.5, 101, 100), plan.Walls[1])
}

func TestBuildPlanDropsCollapsedWalls(t *testing.T) {
	plan, err := BuildPlan([]models.SVGElement{
		{ID: "Wall_a", Kind: models.ElementWall, Geometry: models.LineGeometry{X1: 0, Y1: 0, X2: 5, Y2: 0}},
		{ID: "Wall_b", Kind: models.ElementWall, Geometry: models.LineGeometry{X1: 0, Y1: 0, X2: 100, Y2: 0}},
		{ID: "Wall_c", Kind: models.ElementWall, Geometry: models.LineGeometry{X1: 100, Y1: 0, X2: 0, Y2: 0}},
	})
	require.NoError(t, err)

	assert.Equal(t, []geometry.Segment{geometry.NewSegment(0, 0, 100, 0)}, plan.Walls)
}

func TestBuildPlanTableErrors(t *testing.T) {
	cases := []struct {
		name     string
		elements []models.SVGElement
	}{
		{"bad id", []models.SVGElement{
			{ID: "Table_x", Kind: models.ElementTable, Geometry: models.RectGeometry{Width: 1, Height: 1}},
		}},
		{"duplicate", []models.SVGElement{
			{ID: "Table_1", Kind: models.ElementTable, Geometry: models.RectGeometry{Width: 1, Height: 1}},
			{ID: "Table_1", Kind: models.ElementTable, Geometry: models.RectGeometry{Width: 1, Height: 1}},
		}},
		{"bad path", []models.SVGElement{
			{ID: "Wall_1", Kind: models.ElementWall, Geometry: models.PathGeometry{D: ""}},
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := BuildPlan(c.elements)
			assert.Error(t, err)
		})
	}
}
