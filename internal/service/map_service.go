package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"compass-api/internal/models"
)

// ErrClusterNotFound is returned when a cluster ID does not match any
// cluster in the current computation pass.
var ErrClusterNotFound = errors.New("service: cluster not found")

// Defaults for the clustering parameters and the latitude delta assumed
// before the map has reported its first layout.
const (
	defaultClusterRadius      = 60
	defaultMinClusterSize     = 2
	defaultMaxClusteringDelta = 0.01
	defaultLatitudeDelta      = 0.1

	// The pixel radius is converted to a coordinate-space threshold
	// relative to this nominal viewport height, so the same radius groups
	// the same perceived area at every zoom level.
	radiusScaleDivisor = 500
)

// PropertyRepository interface for dependency injection
type PropertyRepository interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
}

// Options tune the clustering behavior. Zero values fall back to the
// defaults above.
type Options struct {
	ClusterRadius      float64 // grouping radius in pixel-equivalent units
	MinClusterSize     int     // smallest group emitted as a cluster
	MaxClusteringDelta float64 // clustering is skipped below this latitude delta
}

func (o Options) withDefaults() Options {
	if o.ClusterRadius <= 0 {
		o.ClusterRadius = defaultClusterRadius
	}
	if o.MinClusterSize <= 0 {
		o.MinClusterSize = defaultMinClusterSize
	}
	if o.MaxClusteringDelta <= 0 {
		o.MaxClusteringDelta = defaultMaxClusteringDelta
	}
	return o
}

// MapService is the viewport/cluster engine behind the discovery map. It
// owns the property set, the live viewport and the selection; everything
// else (visible subset, clusters, density) is derived on demand from those
// three, never cached, so a derived value can never go stale.
type MapService struct {
	repo PropertyRepository
	opts Options

	mu         sync.RWMutex
	properties []models.Property
	viewport   *models.Viewport // nil until the map reports its first region
	selection  models.Selection
}

// NewMapService creates a new map service. repo may be nil when the caller
// supplies properties directly through SetProperties.
func NewMapService(repo PropertyRepository, opts Options) *MapService {
	return &MapService{
		repo:      repo,
		opts:      opts.withDefaults(),
		selection: models.Selection{Kind: models.SelectionNone},
	}
}

// LoadProperties replaces the property set with the repository's current
// contents and returns how many properties were loaded.
func (s *MapService) LoadProperties(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("service: no property repository configured")
	}
	properties, err := s.repo.ListProperties(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: failed to load properties: %w", err)
	}
	s.SetProperties(properties)
	return len(properties), nil
}

// SetProperties replaces the engine's property set wholesale.
func (s *MapService) SetProperties(properties []models.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = properties
}

// UpdateViewport replaces the current viewport atomically. If the selected
// cluster has no member left inside the new viewport, the selection is
// cleared: a selection must never reference off-screen data.
func (s *MapService) UpdateViewport(v models.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewport = &v

	if s.selection.Kind != models.SelectionCluster || s.selection.Cluster == nil {
		return
	}
	for _, m := range s.selection.Cluster.Properties {
		if m.Location != nil && v.Contains(*m.Location) {
			return
		}
	}
	s.selection = models.Selection{Kind: models.SelectionNone}
}

// Viewport returns the current viewport, or nil before the first update.
func (s *MapService) Viewport() *models.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewport == nil {
		return nil
	}
	v := *s.viewport
	return &v
}

// IsInViewport reports whether the coordinate is inside the current
// viewport. Before the first viewport update everything is considered
// visible, so the map is never empty before first layout.
func (s *MapService) IsInViewport(c models.Coordinate) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inViewportLocked(c)
}

func (s *MapService) inViewportLocked(c models.Coordinate) bool {
	if s.viewport == nil {
		return true
	}
	return s.viewport.Contains(c)
}

// AllProperties returns the full unfiltered property set.
func (s *MapService) AllProperties() []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.Property, len(s.properties))
	copy(all, s.properties)
	return all
}

// VisibleProperties returns the properties that have a coordinate and lie
// inside the current viewport, in input order.
func (s *MapService) VisibleProperties() []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleLocked()
}

func (s *MapService) visibleLocked() []models.Property {
	visible := make([]models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		if p.Location == nil {
			continue
		}
		if s.inViewportLocked(*p.Location) {
			visible = append(visible, p)
		}
	}
	return visible
}

// Clusters recomputes the cluster set for the current viewport. Clustering
// is skipped entirely once the viewport is zoomed in past the configured
// latitude-delta cutoff; at that zoom markers are far enough apart that
// grouping them would only confuse the display.
func (s *MapService) Clusters() []models.PropertyCluster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clustersLocked()
}

func (s *MapService) clustersLocked() []models.PropertyCluster {
	if s.viewport != nil && s.viewport.LatitudeDelta < s.opts.MaxClusteringDelta {
		return nil
	}
	return clusterProperties(s.visibleLocked(), s.thresholdLocked(), s.opts.MinClusterSize)
}

// thresholdLocked converts the configured pixel radius into an approximate
// coordinate-space distance for the current zoom level.
func (s *MapService) thresholdLocked() float64 {
	latDelta := defaultLatitudeDelta
	if s.viewport != nil {
		latDelta = s.viewport.LatitudeDelta
	}
	return latDelta * s.opts.ClusterRadius / radiusScaleDivisor
}

// Density classifies the visible count for renderers: under 10 is low,
// under 50 medium, anything else high.
func (s *MapService) Density() models.Density {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return densityOf(len(s.visibleLocked()))
}

func densityOf(visibleCount int) models.Density {
	switch {
	case visibleCount < 10:
		return models.DensityLow
	case visibleCount < 50:
		return models.DensityMedium
	default:
		return models.DensityHigh
	}
}

// Selection returns the current selection.
func (s *MapService) Selection() models.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// SelectProperty selects a single property, clearing any cluster
// selection. An empty id clears the selection entirely.
func (s *MapService) SelectProperty(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selection = models.Selection{Kind: models.SelectionNone}
		return
	}
	s.selection = models.Selection{Kind: models.SelectionProperty, PropertyID: id}
}

// SelectCluster selects a cluster, clearing any property selection. A nil
// cluster clears the selection entirely.
func (s *MapService) SelectCluster(cluster *models.PropertyCluster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cluster == nil {
		s.selection = models.Selection{Kind: models.SelectionNone}
		return
	}
	s.selection = models.Selection{Kind: models.SelectionCluster, Cluster: cluster}
}

// SelectClusterByID resolves a cluster from the current computation pass
// and selects it. An empty id clears the selection.
func (s *MapService) SelectClusterByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selection = models.Selection{Kind: models.SelectionNone}
		return nil
	}
	cluster := s.findClusterLocked(id)
	if cluster == nil {
		return ErrClusterNotFound
	}
	s.selection = models.Selection{Kind: models.SelectionCluster, Cluster: cluster}
	return nil
}

func (s *MapService) findClusterLocked(id string) *models.PropertyCluster {
	for _, c := range s.clustersLocked() {
		if c.ID == id {
			cluster := c
			return &cluster
		}
	}
	return nil
}

// ExpandCluster zooms into a cluster: the viewport deltas shrink by a
// factor of 3 and the bounds recenter on the centroid at centroid +/-
// delta/6 of the new deltas. The cluster selection is cleared; the next
// clustering pass reveals the individual members once they no longer meet
// the grouping threshold at the tighter zoom.
func (s *MapService) ExpandCluster(cluster models.PropertyCluster) models.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expandLocked(cluster)
}

func (s *MapService) expandLocked(cluster models.PropertyCluster) models.Viewport {
	latDelta := defaultLatitudeDelta
	lngDelta := defaultLatitudeDelta
	if s.viewport != nil {
		latDelta = s.viewport.LatitudeDelta
		lngDelta = s.viewport.LongitudeDelta
	}
	latDelta /= 3
	lngDelta /= 3

	v := models.Viewport{
		North:          cluster.Centroid.Latitude + latDelta/6,
		South:          cluster.Centroid.Latitude - latDelta/6,
		East:           cluster.Centroid.Longitude + lngDelta/6,
		West:           cluster.Centroid.Longitude - lngDelta/6,
		LatitudeDelta:  latDelta,
		LongitudeDelta: lngDelta,
	}
	s.viewport = &v

	if s.selection.Kind == models.SelectionCluster {
		s.selection = models.Selection{Kind: models.SelectionNone}
	}
	return v
}

// ExpandClusterByID resolves a cluster from the current computation pass
// and expands it, returning the new viewport.
func (s *MapService) ExpandClusterByID(id string) (models.Viewport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cluster := s.findClusterLocked(id)
	if cluster == nil {
		return models.Viewport{}, ErrClusterNotFound
	}
	return s.expandLocked(*cluster), nil
}

// FitToProperties returns the coordinates of the located properties among
// the given IDs, in the order the IDs were given. Unknown or unlocated IDs
// are dropped. Used by the map view to compute a bounding region to
// animate into view.
func (s *MapService) FitToProperties(ids []string) []models.Coordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[string]*models.Coordinate, len(s.properties))
	for _, p := range s.properties {
		byID[p.ID] = p.Location
	}

	coords := make([]models.Coordinate, 0, len(ids))
	for _, id := range ids {
		if loc, ok := byID[id]; ok && loc != nil {
			coords = append(coords, *loc)
		}
	}
	return coords
}

// CenterOnProperty returns the property's coordinate, or nil when the
// property is unknown or has no location.
func (s *MapService) CenterOnProperty(id string) *models.Coordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.properties {
		if p.ID == id && p.Location != nil {
			loc := *p.Location
			return &loc
		}
	}
	return nil
}

// State assembles the full render payload for the map screen in a single
// consistent pass: visible properties, clusters, the visible properties
// left out of every cluster, density, selection and the total count.
func (s *MapService) State() models.MapState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := s.visibleLocked()
	clusters := s.clustersLocked()

	clustered := make(map[string]bool)
	for _, c := range clusters {
		for _, m := range c.Properties {
			clustered[m.ID] = true
		}
	}
	unclustered := make([]models.Property, 0, len(visible))
	for _, p := range visible {
		if !clustered[p.ID] {
			unclustered = append(unclustered, p)
		}
	}

	return models.MapState{
		Visible:     visible,
		Clusters:    clusters,
		Unclustered: unclustered,
		Density:     densityOf(len(visible)),
		Selection:   s.selection,
		TotalCount:  len(s.properties),
	}
}
