// Package geofence validates coordinates against the service region, an
// axis-aligned bounding box loaded from configuration.
package geofence

import (
	"strconv"
	"strings"
)

// Region is an inclusive latitude/longitude bounding box.
type Region struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// Nepal is the default service region.
var Nepal = Region{
	MinLatitude:  26.347,
	MaxLatitude:  30.447,
	MinLongitude: 80.058,
	MaxLongitude: 88.201,
}

// Contains reports whether the point lies inside the region. Boundary values
// are inside.
func (r Region) Contains(latitude, longitude float64) bool {
	return latitude >= r.MinLatitude && latitude <= r.MaxLatitude &&
		longitude >= r.MinLongitude && longitude <= r.MaxLongitude
}

// ContainsStrings parses decimal-degree strings and reports whether the point
// lies inside the region. Unparseable or empty input is out of region; it
// never returns an error.
func (r Region) ContainsStrings(latitude, longitude string) bool {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latitude), 64)
	if err != nil {
		return false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(longitude), 64)
	if err != nil {
		return false
	}
	return r.Contains(lat, lng)
}
