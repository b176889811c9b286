package streetnet

import (
	"fmt"
)

// Segment is a fragment of a way bounded by true intersections: no interior
// point of a segment is referenced by any other way.
type Segment struct {
	ID    string
	WayID string
	Nodes []string
	Tags  Tags
}

// splitWay cuts given way at every interior point referenced more than once
// in the histogram. Endpoints never cut; a 2-point way has no interior and
// passes through whole. Segment identifiers get a zero-based suffix appended
// to the way identifier, tags and point order are inherited from the way.
//
// The scan is iterative: cut indices are collected first, then segments are
// materialized from consecutive index pairs, so arbitrarily long ways do not
// recurse.
func splitWay(way *Way, histogram map[string]int) []*Segment {
	if len(way.Nodes) < 2 {
		return nil
	}
	last := len(way.Nodes) - 1
	bounds := []int{0}
	for i := 1; i < last; i++ {
		if histogram[way.Nodes[i]] > 1 {
			bounds = append(bounds, i)
		}
	}
	bounds = append(bounds, last)

	segments := make([]*Segment, 0, len(bounds)-1)
	for i := 1; i < len(bounds); i++ {
		from, to := bounds[i-1], bounds[i]
		nodes := make([]string, to-from+1)
		copy(nodes, way.Nodes[from:to+1])
		segments = append(segments, &Segment{
			ID:    fmt.Sprintf("%s-%d", way.ID, i-1),
			WayID: way.ID,
			Nodes: nodes,
			Tags:  way.Tags,
		})
	}
	return segments
}

// splitWays splits every retained way of the document. The histogram is
// built here and discarded with the call frame: it is not a graph attribute.
func splitWays(doc *Document) []*Segment {
	histogram := doc.referenceCounts()
	segments := []*Segment{}
	for _, way := range doc.Ways {
		segments = append(segments, splitWay(way, histogram)...)
	}
	return segments
}
