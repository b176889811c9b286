package streetnet

// The consuming simulation models motor-vehicle traffic only, so ways of
// non-motor highway classes are negligible when the road filter is enabled.
var negligibleHighwayTags = map[string]struct{}{
	"cycleway":     {},
	"path":         {},
	"corridor":     {},
	"steps":        {},
	"bridleway":    {},
	"footway":      {},
	"bus_guideway": {},
	"raceway":      {},
	"pedestrian":   {},
	"service":      {},
	"sidewalk":     {},
	"proposed":     {},
	"construction": {},
}

func isHighwayNegligible(highway string) bool {
	_, ok := negligibleHighwayTags[highway]
	return ok
}
