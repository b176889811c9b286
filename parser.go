package streetnet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// OSMScanner is a pull-based scanner over a stream of OSM objects
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// Parser folds a stream of OSM objects into a Document. A parser value is
// safe to reuse, but each Decode call works on its own Document, so separate
// tiles may be decoded concurrently with separate parsers.
type Parser struct {
	roadsOnly bool
	verbose   bool
}

// NewParser returns parser with provided options applied
func NewParser(options ...func(*Parser)) *Parser {
	parser := &Parser{
		roadsOnly: false,
		verbose:   false,
	}
	for _, option := range options {
		option(parser)
	}
	return parser
}

// WithRoadsOnly enables the road-class filter: ways without a `highway` tag
// and ways of non-motor classes are excluded from the graph
func WithRoadsOnly(roadsOnly bool) func(*Parser) {
	return func(parser *Parser) {
		parser.roadsOnly = roadsOnly
	}
}

// WithVerbose enables stage progress output
func WithVerbose(verbose bool) func(*Parser) {
	return func(parser *Parser) {
		parser.verbose = verbose
	}
}

// Decode reads a single OSM XML document from the given stream
func (parser *Parser) Decode(r io.Reader) (*Document, error) {
	scanner := osmxml.New(context.Background(), r)
	defer scanner.Close()
	return parser.scan(scanner)
}

// DecodeFile reads a single OSM document from file. Scanner is picked by
// file extension: *.osm / *.xml / *.map as XML, *.pbf as Protocolbuffer
// Binary Format
func (parser *Parser) DecodeFile(filename string) (*Document, error) {
	if parser.verbose {
		fmt.Printf("Opening file: '%s'...\n", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer file.Close()

	var scanner OSMScanner
	ext := filepath.Ext(filename)
	switch ext {
	case ".osm", ".xml", ".map":
		scanner = osmxml.New(context.Background(), file)
	case ".pbf":
		scanner = osmpbf.New(context.Background(), file, 4)
	default:
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
	defer scanner.Close()
	return parser.scan(scanner)
}

// scan consumes the scanner strictly once, front to back, keeping nodes and
// ways and skipping every other object kind (relations, changesets).
func (parser *Parser) scan(scanner OSMScanner) (*Document, error) {
	if parser.verbose {
		fmt.Printf("Scanning nodes and ways... ")
	}
	st := time.Now()

	doc := &Document{
		Points: make(map[string]*Point),
	}
	for scanner.Scan() {
		obj := scanner.Object()
		switch obj.ObjectID().Type() {
		case "node":
			node := obj.(*osm.Node)
			id := strconv.FormatInt(int64(node.ID), 10)
			doc.Points[id] = &Point{
				ID:   id,
				Lon:  node.Lon,
				Lat:  node.Lat,
				Tags: tagsOf(node.Tags),
			}
		case "way":
			way := obj.(*osm.Way)
			preparedWay := &Way{
				ID:    strconv.FormatInt(int64(way.ID), 10),
				Nodes: make([]string, 0, len(way.Nodes)),
				Tags:  tagsOf(way.Tags),
			}
			for _, wayNode := range way.Nodes {
				preparedWay.Nodes = append(preparedWay.Nodes, strconv.FormatInt(int64(wayNode.ID), 10))
			}
			doc.Ways = append(doc.Ways, preparedWay)
		default:
			// Unknown element kinds are forwarded past, not an error
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Scanner error")
	}
	if parser.verbose {
		fmt.Printf("Done in %v\n\tNodes: %d\n\tWays: %d\n", time.Since(st), len(doc.Points), len(doc.Ways))
	}

	doc.sanitize(parser.verbose)
	return doc, nil
}

// tagsOf copies OSM element tags into plain mapping
func tagsOf(tags osm.Tags) Tags {
	result := make(Tags, len(tags))
	for _, tag := range tags {
		result[tag.Key] = tag.Value
	}
	return result
}
