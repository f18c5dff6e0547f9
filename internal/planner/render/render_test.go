package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"office-planner/internal/planner/cycles"
	"office-planner/internal/planner/geometry"
	"office-planner/internal/planner/models"
	"office-planner/internal/planner/parser"
	"office-planner/internal/planner/rooms"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFloor(t *testing.T) *models.Location {
	t.Helper()
	nodes := []geometry.Point{{X: 0, Y: 0}, {X: 300, Y: 0}, {X: 300, Y: 300}, {X: 0, Y: 300}}
	edges := []cycles.Edge{{0, 1}, {1, 2}, {2, 3}, {0, 3}}
	tables := []models.Table{{
		TableID:  5,
		Position: geometry.Point{X: 40, Y: 60},
		Width:    80,
		Height:   40,
		State:    models.TableOccupied,
	}}

	built, unplaced := rooms.Build([][]geometry.Point{nodes}, nil, tables, time.Now())
	require.Empty(t, unplaced)

	return &models.Location{
		Location:  "Berlin",
		Floor:     2,
		Structure: models.Structure{Nodes: nodes, Edges: edges, Rooms: built},
	}
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sampleFloor(t)))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `id="Room_1"`)
	assert.Contains(t, out, "Room 1 (36.00 m²)")
	assert.Contains(t, out, `id="Wall_4"`)
	assert.Contains(t, out, tableOccupied)
	assert.Contains(t, out, "</svg>")
}

func TestSVGCanBeImportedBack(t *testing.T) {
	floor := sampleFloor(t)

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, floor))

	plan, err := parser.Import(&buf)
	require.NoError(t, err)

	assert.Equal(t, []geometry.Segment{
		geometry.NewSegment(0, 0, 300, 0),
		geometry.NewSegment(300, 0, 300, 300),
		geometry.NewSegment(300, 300, 0, 300),
		geometry.NewSegment(0, 0, 0, 300),
	}, plan.Walls)

	require.Len(t, plan.Tables, 1)
	assert.Equal(t, 5, plan.Tables[0].TableID)
	assert.Equal(t, geometry.Point{X: 40, Y: 60}, plan.Tables[0].Position)
}

func TestSVGErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, SVG(&buf, nil))

	broken := &models.Location{Structure: models.Structure{
		Nodes: []geometry.Point{{X: 0, Y: 0}},
		Edges: []cycles.Edge{{0, 3}},
	}}
	assert.Error(t, SVG(&buf, broken))
}

func TestGeoJSON(t *testing.T) {
	fc := GeoJSON(sampleFloor(t))

	require.Len(t, fc.Features, 2)

	room := fc.Features[0]
	assert.Equal(t, "room", room.Properties["kind"])
	assert.Equal(t, 1, room.Properties["roomId"])
	assert.Equal(t, 36.0, room.Properties["area"])
	poly, ok := room.Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.Len(t, poly[0], 5)

	table := fc.Features[1]
	assert.Equal(t, "table", table.Properties["kind"])
	assert.Equal(t, 5, table.Properties["tableId"])
	assert.Equal(t, "Occupied", table.Properties["state"])

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestGeoJSONNil(t *testing.T) {
	assert.Empty(t, GeoJSON(nil).Features)
}
