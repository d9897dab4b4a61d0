package service

import (
	"testing"

	"compass-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterProperties_GreedyGrouping(t *testing.T) {
	// a-b and b-c are each within the threshold, a-c is not. The greedy
	// pass seeds from a, absorbs b, and leaves c standalone: grouping is
	// first-come in iteration order, not globally optimal, and stays
	// deterministic across recomputations.
	a := located("a", 0, 0, fixed(100))
	b := located("b", 0, 0.009, fixed(200))
	c := located("c", 0, 0.018, fixed(300))

	clusters := clusterProperties([]models.Property{a, b, c}, 0.01, 2)
	require.Len(t, clusters, 1)
	assert.Equal(t, "cluster-a", clusters[0].ID)
	assert.Equal(t, 2, clusters[0].Count)

	// Same input, same result.
	again := clusterProperties([]models.Property{a, b, c}, 0.01, 2)
	assert.Equal(t, clusters, again)

	// Reversed order seeds from c instead.
	reversed := clusterProperties([]models.Property{c, b, a}, 0.01, 2)
	require.Len(t, reversed, 1)
	assert.Equal(t, "cluster-c", reversed[0].ID)
}

func TestClusterProperties_MinimumSize(t *testing.T) {
	a := located("a", 0, 0, fixed(100))
	b := located("b", 0, 0.001, fixed(200))
	c := located("c", 0, 0.002, fixed(300))

	// With a minimum size of 4, no group is large enough to emit.
	assert.Empty(t, clusterProperties([]models.Property{a, b, c}, 0.01, 4))

	// At the default minimum of 2 the trio forms one cluster.
	clusters := clusterProperties([]models.Property{a, b, c}, 0.01, 2)
	require.Len(t, clusters, 1)
	assert.Equal(t, 3, clusters[0].Count)
}

func TestClusterProperties_ThresholdEdge(t *testing.T) {
	a := located("a", 0, 0, fixed(100))
	b := located("b", 0, 0.01, fixed(200))

	// Distance exactly at the threshold still groups.
	clusters := clusterProperties([]models.Property{a, b}, 0.01, 2)
	assert.Len(t, clusters, 1)

	// Just beyond it does not.
	clusters = clusterProperties([]models.Property{a, b}, 0.0099, 2)
	assert.Empty(t, clusters)
}

func TestClusterProperties_Empty(t *testing.T) {
	assert.Empty(t, clusterProperties(nil, 0.01, 2))
	assert.Empty(t, clusterProperties([]models.Property{}, 0.01, 2))
}

func TestBuildCluster_PriceRange(t *testing.T) {
	min := 400000.0
	max := 900000.0

	tests := []struct {
		name     string
		members  []models.Property
		expected models.PriceRange
	}{
		{
			name: "fixed prices",
			members: []models.Property{
				located("a", 0, 0, fixed(500000)),
				located("b", 0, 0, fixed(750000)),
			},
			expected: models.PriceRange{Min: 500000, Max: 750000},
		},
		{
			name: "range price widens the bounds",
			members: []models.Property{
				located("a", 0, 0, fixed(500000)),
				located("b", 0, 0, models.Price{Type: models.PriceTypeRange, MinAmount: &min, MaxAmount: &max}),
			},
			expected: models.PriceRange{Min: 400000, Max: 900000},
		},
		{
			name: "contact prices are ignored",
			members: []models.Property{
				located("a", 0, 0, fixed(500000)),
				located("b", 0, 0, models.Price{Type: models.PriceTypeContact}),
			},
			expected: models.PriceRange{Min: 500000, Max: 500000},
		},
		{
			name: "all contact prices yield zero bounds",
			members: []models.Property{
				located("a", 0, 0, models.Price{Type: models.PriceTypeContact}),
				located("b", 0, 0, models.Price{Type: models.PriceTypeContact}),
			},
			expected: models.PriceRange{},
		},
		{
			name: "zero fixed amounts are excluded",
			members: []models.Property{
				located("a", 0, 0, fixed(0)),
				located("b", 0, 0, fixed(650000)),
			},
			expected: models.PriceRange{Min: 650000, Max: 650000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cluster := buildCluster(tt.members)
			assert.Equal(t, tt.expected, cluster.PriceRange)
		})
	}
}

func TestBuildCluster_Centroid(t *testing.T) {
	cluster := buildCluster([]models.Property{
		located("a", 10, 20, fixed(100)),
		located("b", 20, 40, fixed(200)),
		located("c", 30, 60, fixed(300)),
	})

	assert.InDelta(t, 20, cluster.Centroid.Latitude, 1e-9)
	assert.InDelta(t, 40, cluster.Centroid.Longitude, 1e-9)
	assert.Equal(t, "cluster-a", cluster.ID)
	assert.Equal(t, 3, cluster.Count)
}
