package streetnet

import (
	"sort"

	geojson "github.com/paulmach/go.geojson"
)

// annotatePoints fills derived attributes on every point retained in the
// graph. Annotation is additive: it never creates or removes points or edges.
func annotatePoints(graph *Graph) {
	for _, pt := range graph.Points {
		// Single documented match; other `public_transport` values (platform,
		// station, ...) are not stop positions
		if pt.Tags.Find("public_transport") == "stop_position" {
			pt.TransitStop = true
			pt.StopName = pt.Tags.Find("name")
			if pt.StopName == "" {
				// Some stop positions carry no name
				pt.StopName = "unknown"
			}
		}
		if crossing := pt.Tags.Find("crossing"); crossing != "" {
			pt.Crossing = crossing
		} else if pt.Tags.Has("highway") {
			// Generic marker for untyped highway nodes on a carriageway
			pt.Crossing = "true"
		}
	}
}

// TransitStops returns GeoJSON point features for every transit stop
// position in the graph, ordered by point identifier
func TransitStops(graph *Graph) []*geojson.Feature {
	stops := []*geojson.Feature{}
	for _, pt := range graph.Points {
		if !pt.TransitStop {
			continue
		}
		feature := geojson.NewPointFeature([]float64{pt.Lon, pt.Lat})
		feature.SetProperty("name", pt.StopName)
		feature.SetProperty("id", pt.ID)
		stops = append(stops, feature)
	}
	sort.Slice(stops, func(i, j int) bool {
		return stops[i].Properties["id"].(string) < stops[j].Properties["id"].(string)
	})
	return stops
}

// MapCenter returns the centroid of all graph points, used by the rendering
// collaborator as initial map center
func MapCenter(graph *Graph) GeoPoint {
	pts := make([]GeoPoint, 0, len(graph.Points))
	for _, pt := range graph.Points {
		pts = append(pts, pt.GeoPoint())
	}
	return findCentroid(pts)
}
