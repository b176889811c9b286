package streetnet

import (
	"math"
	"strings"
	"testing"
)

func testDocument(ways ...*Way) *Document {
	doc := &Document{
		Points: map[string]*Point{
			"a": {ID: "a", Lon: 37.0, Lat: 55.0, Tags: Tags{}},
			"b": {ID: "b", Lon: 37.001, Lat: 55.001, Tags: Tags{}},
			"c": {ID: "c", Lon: 37.002, Lat: 55.002, Tags: Tags{}},
			"d": {ID: "d", Lon: 37.003, Lat: 55.001, Tags: Tags{}},
		},
		Ways: ways,
	}
	return doc
}

func TestBuildGraphOneway(t *testing.T) {
	doc := testDocument(&Way{
		ID:    "10",
		Nodes: []string{"a", "b", "c"},
		Tags:  Tags{"highway": "residential", "oneway": "yes"},
	})
	graph, err := NewParser().buildGraph(doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(graph.Edges) != 2 {
		t.Fatalf("Oneway 3-point segment must produce 2 edges, but got %d", len(graph.Edges))
	}
	for _, edge := range graph.Edges {
		if edge.From >= edge.To {
			t.Errorf("Oneway edges must follow point order, got %s -> %s", edge.From, edge.To)
		}
	}
}

func TestBuildGraphOnewayOtherValues(t *testing.T) {
	// Only the exact value `yes` makes a way one-directional
	for _, value := range []string{"no", "-1", "YES", "true"} {
		doc := testDocument(&Way{
			ID:    "10",
			Nodes: []string{"a", "b"},
			Tags:  Tags{"highway": "residential", "oneway": value},
		})
		graph, err := NewParser().buildGraph(doc)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if len(graph.Edges) != 2 {
			t.Errorf("oneway=%s must keep both directions, but got %d edges", value, len(graph.Edges))
		}
	}
}

func TestBuildGraphTwoWay(t *testing.T) {
	doc := testDocument(&Way{
		ID:    "10",
		Nodes: []string{"a", "b", "c"},
		Tags:  Tags{"highway": "residential"},
	})
	graph, err := NewParser().buildGraph(doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(graph.Edges) != 4 {
		t.Fatalf("Two-way 3-point segment must produce 4 edges, but got %d", len(graph.Edges))
	}
	forward := map[string]*Edge{}
	for _, edge := range graph.Edges {
		forward[edge.From+"->"+edge.To] = edge
	}
	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}} {
		fwd, ok := forward[pair[0]+"->"+pair[1]]
		if !ok {
			t.Fatalf("Missing forward edge %s -> %s", pair[0], pair[1])
		}
		rev, ok := forward[pair[1]+"->"+pair[0]]
		if !ok {
			t.Fatalf("Missing reverse edge %s -> %s", pair[1], pair[0])
		}
		if fwd.WayID != rev.WayID {
			t.Errorf("Paired edges must share way ID: '%s' != '%s'", fwd.WayID, rev.WayID)
		}
		// Occupant registries are independent per direction
		fwd.Cars["car-1"] = 10
		if len(rev.Cars) != 0 {
			t.Error("Occupant registries of paired edges must be independent")
		}
		delete(fwd.Cars, "car-1")
	}
}

func TestBuildGraphMaxSpeed(t *testing.T) {
	cases := []struct {
		maxspeed string
		expected float64
	}{
		{"30", 30.0 / 3.6},
		{"", 50.0 / 3.6},
		{"fast", 50.0 / 3.6},
	}
	for _, c := range cases {
		tags := Tags{"highway": "residential"}
		if c.maxspeed != "" {
			tags["maxspeed"] = c.maxspeed
		}
		doc := testDocument(&Way{ID: "10", Nodes: []string{"a", "b"}, Tags: tags})
		graph, err := NewParser().buildGraph(doc)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		for _, edge := range graph.Edges {
			if math.Abs(edge.MaxSpeed-c.expected) > 1e-9 {
				t.Errorf("maxspeed='%s': expected %f m/s, but got %f", c.maxspeed, c.expected, edge.MaxSpeed)
			}
		}
	}
}

func TestBuildGraphRoadsOnlyFilter(t *testing.T) {
	doc := testDocument(
		&Way{ID: "10", Nodes: []string{"a", "b"}, Tags: Tags{"highway": "residential"}},
		&Way{ID: "11", Nodes: []string{"b", "c"}, Tags: Tags{"highway": "footway"}},
		&Way{ID: "12", Nodes: []string{"c", "d"}, Tags: Tags{"waterway": "river"}},
	)
	graph, err := NewParser(WithRoadsOnly(true)).buildGraph(doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(graph.Edges) != 2 {
		t.Fatalf("Only the residential way should survive the filter, but got %d edges", len(graph.Edges))
	}
	for _, edge := range graph.Edges {
		if edge.WayID != "10" {
			t.Errorf("Unexpected edge from way '%s'", edge.WayID)
		}
	}
}

func TestBuildGraphMultipleEdgesBetweenSamePair(t *testing.T) {
	doc := testDocument(
		&Way{ID: "10", Nodes: []string{"a", "b"}, Tags: Tags{"highway": "residential", "oneway": "yes"}},
		&Way{ID: "11", Nodes: []string{"a", "b"}, Tags: Tags{"highway": "service", "oneway": "yes"}},
	)
	graph, err := NewParser().buildGraph(doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(graph.Edges) != 2 {
		t.Fatalf("Distinct ways may produce parallel edges, expected 2, but got %d", len(graph.Edges))
	}
	if graph.Edges[0].WayID == graph.Edges[1].WayID {
		t.Error("Parallel edges must originate from distinct ways")
	}
}

func TestBuildGraphEdgeEndpointsExist(t *testing.T) {
	doc := testDocument(&Way{
		ID:    "10",
		Nodes: []string{"a", "b", "c"},
		Tags:  Tags{"highway": "residential"},
	})
	graph, err := NewParser().buildGraph(doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, edge := range graph.Edges {
		if _, ok := graph.Points[edge.From]; !ok {
			t.Errorf("Edge source '%s' missing from point set", edge.From)
		}
		if _, ok := graph.Points[edge.To]; !ok {
			t.Errorf("Edge target '%s' missing from point set", edge.To)
		}
		if edge.LengthMeters < 0 {
			t.Errorf("Edge length must be non-negative, got %f", edge.LengthMeters)
		}
		if len(edge.Cars) != 0 {
			t.Error("Occupant registry must be initialized empty")
		}
	}
}

func TestCreateStreetNetworkEndToEnd(t *testing.T) {
	// Three-point way A-B-C with B shared with another way: expect the split
	// at B and 4 directed edges from the residential way
	const tile = `<osm>
	<node id="1" lat="55.0" lon="37.0"/>
	<node id="2" lat="55.001" lon="37.001"/>
	<node id="3" lat="55.002" lon="37.002"/>
	<node id="4" lat="55.001" lon="37.003"/>
	<way id="10">
		<nd ref="1"/><nd ref="2"/><nd ref="3"/>
		<tag k="highway" v="residential"/>
	</way>
	<way id="20">
		<nd ref="2"/><nd ref="4"/>
		<tag k="highway" v="service"/>
	</way>
</osm>`
	graph, _, err := CreateStreetNetwork(strings.NewReader(tile))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	residential := []*Edge{}
	for _, edge := range graph.Edges {
		if edge.WayID == "10" {
			residential = append(residential, edge)
		}
	}
	if len(residential) != 4 {
		t.Fatalf("Expected 4 directed edges from way '10', but got %d", len(residential))
	}
	expectedSpeed := 50.0 / 3.6
	for _, edge := range residential {
		if math.Abs(edge.MaxSpeed-expectedSpeed) > 1e-9 {
			t.Errorf("Edge %s->%s should default to %f m/s, but got %f", edge.From, edge.To, expectedSpeed, edge.MaxSpeed)
		}
		expectedLength := greatCircleDistance(graph.Points[edge.From].GeoPoint(), graph.Points[edge.To].GeoPoint())
		if math.Abs(edge.LengthMeters-expectedLength) > 1e-9 {
			t.Errorf("Edge %s->%s should be weighted by haversine distance %f, but got %f", edge.From, edge.To, expectedLength, edge.LengthMeters)
		}
	}

	directions := map[string]bool{}
	for _, edge := range residential {
		directions[edge.From+"->"+edge.To] = true
	}
	for _, expected := range []string{"1->2", "2->1", "2->3", "3->2"} {
		if !directions[expected] {
			t.Errorf("Missing expected edge %s", expected)
		}
	}
}
