package streetnet

import (
	"testing"
)

func testAnnotatedGraph() *Graph {
	graph := &Graph{
		Points: map[string]*Point{
			"1": {ID: "1", Lon: 37.0, Lat: 55.0, Tags: Tags{"public_transport": "stop_position", "name": "Central"}},
			"2": {ID: "2", Lon: 37.001, Lat: 55.001, Tags: Tags{"public_transport": "stop_position"}},
			"3": {ID: "3", Lon: 37.002, Lat: 55.002, Tags: Tags{"crossing": "traffic_signals"}},
			"4": {ID: "4", Lon: 37.003, Lat: 55.003, Tags: Tags{"highway": "turning_circle"}},
			"5": {ID: "5", Lon: 37.004, Lat: 55.004, Tags: Tags{"public_transport": "platform"}},
		},
		outgoing: map[string][]*Edge{},
	}
	annotatePoints(graph)
	return graph
}

func TestAnnotateTransitStops(t *testing.T) {
	graph := testAnnotatedGraph()
	if !graph.Points["1"].TransitStop {
		t.Error("stop_position point must be marked as transit stop")
	}
	if graph.Points["1"].StopName != "Central" {
		t.Errorf("Stop name should be 'Central', but got '%s'", graph.Points["1"].StopName)
	}
	if graph.Points["2"].StopName != "unknown" {
		t.Errorf("Nameless stop should fall back to 'unknown', but got '%s'", graph.Points["2"].StopName)
	}
	// Other public_transport values are not stop positions
	if graph.Points["5"].TransitStop {
		t.Error("platform point must not be marked as transit stop")
	}
}

func TestAnnotateCrossings(t *testing.T) {
	graph := testAnnotatedGraph()
	if graph.Points["3"].Crossing != "traffic_signals" {
		t.Errorf("Crossing value should be copied verbatim, but got '%s'", graph.Points["3"].Crossing)
	}
	if graph.Points["4"].Crossing != "true" {
		t.Errorf("Highway point without crossing tag should default to 'true', but got '%s'", graph.Points["4"].Crossing)
	}
	if graph.Points["1"].Crossing != "" {
		t.Errorf("Point without highway or crossing tags should stay unmarked, but got '%s'", graph.Points["1"].Crossing)
	}
}

func TestTransitStops(t *testing.T) {
	graph := testAnnotatedGraph()
	stops := TransitStops(graph)
	if len(stops) != 2 {
		t.Fatalf("Expected 2 transit stop features, but got %d", len(stops))
	}
	// Ordered by point identifier
	if stops[0].Properties["name"] != "Central" {
		t.Errorf("First stop should be 'Central', but got '%v'", stops[0].Properties["name"])
	}
	coords := stops[0].Geometry.Point
	if coords[0] != 37.0 || coords[1] != 55.0 {
		t.Errorf("Stop coordinates should be (37, 55), but got (%f, %f)", coords[0], coords[1])
	}
	if stops[1].Properties["name"] != "unknown" {
		t.Errorf("Second stop should be 'unknown', but got '%v'", stops[1].Properties["name"])
	}
}

func TestMapCenter(t *testing.T) {
	graph := &Graph{
		Points: map[string]*Point{
			"1": {ID: "1", Lon: 10.0, Lat: 20.0},
		},
	}
	center := MapCenter(graph)
	if center.Lon != 10.0 || center.Lat != 20.0 {
		t.Errorf("Center of a single point should be the point itself, but got %v", center)
	}
}
