package models

// Viewport is the rectangular geographic region currently visible on the
// map, plus the zoom-derived coordinate deltas reported by the map view.
// Bounds are expected to satisfy North >= South and East >= West; the map
// this serves never crosses the antimeridian, so no wraparound handling.
type Viewport struct {
	North          float64 `json:"north"`
	South          float64 `json:"south"`
	East           float64 `json:"east"`
	West           float64 `json:"west"`
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

// Contains reports whether the coordinate lies within the viewport, edges
// inclusive.
func (v Viewport) Contains(c Coordinate) bool {
	return c.Latitude >= v.South && c.Latitude <= v.North &&
		c.Longitude >= v.West && c.Longitude <= v.East
}

// Valid reports whether the bounds are ordered correctly.
func (v Viewport) Valid() bool {
	return v.North >= v.South && v.East >= v.West
}
