package service

import (
	"math"

	"compass-api/internal/models"
)

// clusterProperties groups visible properties whose planar distance falls
// within threshold using a single greedy pass. Grouping is order-dependent
// on purpose: iteration order is the caller's property order, which keeps
// cluster membership stable across recomputations and re-renders. Groups
// smaller than minSize are not emitted; their members stay standalone.
//
// O(n^2) over the visible set, which is viewport-bounded and small.
func clusterProperties(visible []models.Property, threshold float64, minSize int) []models.PropertyCluster {
	var clusters []models.PropertyCluster
	processed := make(map[string]bool, len(visible))

	for i, p := range visible {
		if processed[p.ID] {
			continue
		}
		processed[p.ID] = true

		group := []models.Property{p}
		for _, other := range visible[i+1:] {
			if processed[other.ID] {
				continue
			}
			dLat := other.Location.Latitude - p.Location.Latitude
			dLng := other.Location.Longitude - p.Location.Longitude
			if math.Hypot(dLat, dLng) <= threshold {
				group = append(group, other)
				processed[other.ID] = true
			}
		}

		if len(group) >= minSize {
			clusters = append(clusters, buildCluster(group))
		}
	}

	return clusters
}

// buildCluster aggregates a non-empty group into a cluster: centroid is the
// arithmetic mean of member coordinates, the price range spans the members'
// representative prices (contact and zero prices excluded), and the ID is
// derived from the seed member so it stays stable for a given grouping.
func buildCluster(members []models.Property) models.PropertyCluster {
	var sumLat, sumLng float64
	var priceRange models.PriceRange
	havePrice := false

	for _, m := range members {
		sumLat += m.Location.Latitude
		sumLng += m.Location.Longitude

		low, high, ok := m.Price.Bounds()
		if !ok {
			continue
		}
		if !havePrice || low < priceRange.Min {
			priceRange.Min = low
		}
		if !havePrice || high > priceRange.Max {
			priceRange.Max = high
		}
		havePrice = true
	}

	n := float64(len(members))
	return models.PropertyCluster{
		ID: "cluster-" + members[0].ID,
		Centroid: models.Coordinate{
			Latitude:  sumLat / n,
			Longitude: sumLng / n,
		},
		Properties: members,
		Count:      len(members),
		PriceRange: priceRange,
	}
}
