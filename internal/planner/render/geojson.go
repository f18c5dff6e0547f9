package render

import (
	"office-planner/internal/planner/models"
	"office-planner/internal/planner/rooms"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ============================================================
// GeoJSON
// ============================================================

// GeoJSON выгружает комнаты и столы этажа как FeatureCollection
// в координатах плана (пиксели).
func GeoJSON(loc *models.Location) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if loc == nil {
		return fc
	}

	for _, r := range loc.Structure.Rooms {
		f := geojson.NewFeature(orb.Polygon{rooms.Ring(r.Points)})
		f.Properties["kind"] = "room"
		f.Properties["roomId"] = r.RoomID
		f.Properties["roomName"] = r.RoomName
		f.Properties["roomNumber"] = r.RoomNumber
		f.Properties["area"] = r.Area
		f.Properties["isDirectChild"] = r.IsDirectChild
		fc.Append(f)

		for _, t := range r.Tables {
			tf := geojson.NewFeature(orb.Polygon{rooms.Ring(t.Corners())})
			tf.Properties["kind"] = "table"
			tf.Properties["tableId"] = t.TableID
			tf.Properties["roomId"] = r.RoomID
			if t.State != "" {
				tf.Properties["state"] = string(t.State)
			}
			fc.Append(tf)
		}
	}

	return fc
}
