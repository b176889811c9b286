package streetnet

import (
	"strconv"
)

// Tags is a mapping of tag keys to values for a single OSM element.
type Tags map[string]string

// Has reports whether given key is present
func (tags Tags) Has(key string) bool {
	_, ok := tags[key]
	return ok
}

// Find returns value for given key. Returns empty string if key is not present
func (tags Tags) Find(key string) string {
	return tags[key]
}

// FindFloat returns numeric value for given key. Falls back to provided
// default when the tag is absent or its value is not a number
func (tags Tags) FindFloat(key string, fallback float64) float64 {
	value, ok := tags[key]
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// Point is a single geolocated node of the input document.
type Point struct {
	ID   string
	Lon  float64
	Lat  float64
	Tags Tags

	// Derived attributes, filled during graph finalization
	TransitStop bool
	StopName    string
	Crossing    string
}

// GeoPoint returns coordinates of the point
func (pt *Point) GeoPoint() GeoPoint {
	return GeoPoint{Lon: pt.Lon, Lat: pt.Lat}
}
