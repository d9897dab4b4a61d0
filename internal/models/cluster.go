package models

// PriceRange is the min/max of a cluster's member prices. Both bounds are
// zero when no member carries a usable price.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PropertyCluster is a group of spatially-proximate properties rendered as
// a single aggregate marker. Clusters are recomputed from scratch on every
// viewport or data change and are never patched incrementally.
type PropertyCluster struct {
	ID         string     `json:"id"`
	Centroid   Coordinate `json:"centroid"`
	Properties []Property `json:"properties"`
	Count      int        `json:"count"`
	PriceRange PriceRange `json:"priceRange"`
}

// Density is a coarse classification of how many properties are visible,
// used by renderers to pick a marker strategy.
type Density string

const (
	DensityLow    Density = "low"
	DensityMedium Density = "medium"
	DensityHigh   Density = "high"
)

// SelectionKind discriminates the selection union.
type SelectionKind string

const (
	SelectionNone     SelectionKind = "none"
	SelectionProperty SelectionKind = "property"
	SelectionCluster  SelectionKind = "cluster"
)

// Selection is the engine's current selection: nothing, one property, or
// one cluster. The kinds are mutually exclusive; setting one clears the
// other.
type Selection struct {
	Kind       SelectionKind    `json:"kind"`
	PropertyID string           `json:"propertyId,omitempty"`
	Cluster    *PropertyCluster `json:"cluster,omitempty"`
}

// MapState is everything the map screen renders from in one payload.
type MapState struct {
	Visible     []Property        `json:"visible"`
	Clusters    []PropertyCluster `json:"clusters"`
	Unclustered []Property        `json:"unclustered"`
	Density     Density           `json:"density"`
	Selection   Selection         `json:"selection"`
	TotalCount  int               `json:"totalCount"`
}
