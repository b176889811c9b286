package streetnet

import (
	"fmt"
)

// Way is a raw polyline: an ordered list of point references plus tags.
// Reference order defines travel direction as drawn.
type Way struct {
	ID    string
	Nodes []string
	Tags  Tags
}

// Document holds points and ways parsed from a single tile. It is built once
// per input stream and is read-only after the graph build finishes.
type Document struct {
	Points map[string]*Point
	Ways   []*Way
}

// sanitize drops references to points missing from the parsed point set and
// then drops degenerate ways (fewer than 2 references left). A dangling
// reference costs only itself, not the whole way: tiles clipped to a bounding
// box truncate ways at the border all the time.
func (doc *Document) sanitize(verbose bool) {
	kept := make([]*Way, 0, len(doc.Ways))
	for _, way := range doc.Ways {
		nodes := way.Nodes[:0]
		for _, ndID := range way.Nodes {
			if _, ok := doc.Points[ndID]; !ok {
				if verbose {
					fmt.Printf("\t[WARNING]: Dropping reference to unknown node '%s'. Way ID: '%s'\n", ndID, way.ID)
				}
				continue
			}
			nodes = append(nodes, ndID)
		}
		way.Nodes = nodes
		if len(way.Nodes) < 2 {
			if verbose {
				fmt.Printf("\t[WARNING]: Way with %d nodes met. Way ID: '%s'\n", len(way.Nodes), way.ID)
			}
			continue
		}
		kept = append(kept, way)
	}
	doc.Ways = kept
}

// referenceCounts builds the node use histogram over all retained ways. Every
// reference counts, including repeated references within a single way.
func (doc *Document) referenceCounts() map[string]int {
	histogram := make(map[string]int, len(doc.Points))
	for _, way := range doc.Ways {
		for _, ndID := range way.Nodes {
			histogram[ndID]++
		}
	}
	return histogram
}
