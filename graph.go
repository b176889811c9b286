package streetnet

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const (
	// Default maximum legal speed (km/h) applied when the `maxspeed` tag is
	// absent or unparsable
	defaultMaxSpeedKmh = 50.0
	kmhToMetersPerSec  = 1.0 / 3.6
)

// Edge is one travel-direction instance of a road segment between two
// adjacent points. Directionality is determined once at build time and is
// immutable afterwards.
type Edge struct {
	From  string
	To    string
	WayID string
	Tags  Tags

	// MaxSpeed is maximum legal speed in meters per second
	MaxSpeed float64
	// LengthMeters is great-circle distance between the endpoints
	LengthMeters float64
	// Cars is the occupant registry: car identifier -> meters travelled
	// along the edge. Initialized empty and maintained by the simulation
	// collaborator, never by the graph builder.
	Cars map[string]float64
}

// Graph is a directed street network: points with attributes plus directed
// distance-weighted edges between them.
type Graph struct {
	Points map[string]*Point
	Edges  []*Edge

	outgoing map[string][]*Edge
}

// Outgoing returns edges leaving given point
func (graph *Graph) Outgoing(pointID string) []*Edge {
	return graph.outgoing[pointID]
}

func (graph *Graph) addEdge(edge *Edge) {
	graph.Edges = append(graph.Edges, edge)
	graph.outgoing[edge.From] = append(graph.outgoing[edge.From], edge)
}

// buildGraph assembles the directed graph from split segments: applies the
// road-class filter, directionality and speed rules, and weights every edge
// with the great-circle distance between its endpoints.
func (parser *Parser) buildGraph(doc *Document) (*Graph, error) {
	if parser.verbose {
		fmt.Printf("Building graph... ")
	}
	st := time.Now()

	segments := splitWays(doc)
	graph := &Graph{
		Points:   make(map[string]*Point),
		outgoing: make(map[string][]*Edge),
	}
	for _, segment := range segments {
		if parser.roadsOnly {
			highway := segment.Tags.Find("highway")
			if highway == "" || isHighwayNegligible(highway) {
				continue
			}
		}
		// Present-but-unparsable `maxspeed` falls back to the default, same
		// as an absent tag
		maxSpeed := segment.Tags.FindFloat("maxspeed", defaultMaxSpeedKmh) * kmhToMetersPerSec
		oneway := segment.Tags.Find("oneway") == "yes"

		for i := 1; i < len(segment.Nodes); i++ {
			source, ok := doc.Points[segment.Nodes[i-1]]
			if !ok {
				return nil, errors.Errorf("Missing node with id: %s", segment.Nodes[i-1])
			}
			target, ok := doc.Points[segment.Nodes[i]]
			if !ok {
				return nil, errors.Errorf("Missing node with id: %s", segment.Nodes[i])
			}
			graph.Points[source.ID] = source
			graph.Points[target.ID] = target

			length := greatCircleDistance(source.GeoPoint(), target.GeoPoint())
			graph.addEdge(&Edge{
				From:         source.ID,
				To:           target.ID,
				WayID:        segment.WayID,
				Tags:         segment.Tags,
				MaxSpeed:     maxSpeed,
				LengthMeters: length,
				Cars:         make(map[string]float64),
			})
			if !oneway {
				graph.addEdge(&Edge{
					From:         target.ID,
					To:           source.ID,
					WayID:        segment.WayID,
					Tags:         segment.Tags,
					MaxSpeed:     maxSpeed,
					LengthMeters: greatCircleDistance(target.GeoPoint(), source.GeoPoint()),
					Cars:         make(map[string]float64),
				})
			}
		}
	}

	annotatePoints(graph)

	if parser.verbose {
		fmt.Printf("Done in %v\n\tPoints: %d\n\tEdges: %d\n", time.Since(st), len(graph.Points), len(graph.Edges))
	}
	return graph, nil
}
