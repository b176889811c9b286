package streetnet

import (
	"io"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// CreateStreetNetwork reads an OSM XML document from the given stream and
// builds the directed street graph plus transit stop features.
//
// The build is all-or-nothing: a structural parse failure returns an error
// and no partial graph. Data-quality issues (degenerate ways, dangling
// references, unparsable optional tags) are absorbed with documented
// fallbacks.
func CreateStreetNetwork(r io.Reader, options ...func(*Parser)) (*Graph, []*geojson.Feature, error) {
	parser := NewParser(options...)
	doc, err := parser.Decode(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't parse document")
	}
	graph, err := parser.buildGraph(doc)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't build graph")
	}
	return graph, TransitStops(graph), nil
}

// CreateStreetNetworkFromFile builds the street graph from an OSM file
// (XML or PBF, picked by extension).
func CreateStreetNetworkFromFile(filename string, options ...func(*Parser)) (*Graph, []*geojson.Feature, error) {
	parser := NewParser(options...)
	doc, err := parser.DecodeFile(filename)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't parse file")
	}
	graph, err := parser.buildGraph(doc)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't build graph")
	}
	return graph, TransitStops(graph), nil
}
