package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"compass-api/internal/models"
	"compass-api/internal/service"

	"github.com/gin-gonic/gin"
)

// MapHandler handles the map screen's requests
type MapHandler struct {
	service MapService
}

// Service interface for dependency injection
type MapService interface {
	State() models.MapState
	UpdateViewport(v models.Viewport)
	SelectProperty(id string)
	SelectClusterByID(id string) error
	ExpandClusterByID(id string) (models.Viewport, error)
	FitToProperties(ids []string) []models.Coordinate
	CenterOnProperty(id string) *models.Coordinate
	AllProperties() []models.Property
	LoadProperties(ctx context.Context) (int, error)
}

// NewMapHandler creates a new map handler
func NewMapHandler(svc MapService) *MapHandler {
	return &MapHandler{service: svc}
}

// State handles GET /map/state requests
func (h *MapHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.State())
}

// UpdateViewport handles PUT /map/viewport requests
func (h *MapHandler) UpdateViewport(c *gin.Context) {
	var v models.Viewport
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid viewport payload"})
		return
	}
	if !v.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "viewport bounds out of order"})
		return
	}

	h.service.UpdateViewport(v)
	c.JSON(http.StatusOK, h.service.State())
}

type selectPropertyRequest struct {
	ID string `json:"id"`
}

// SelectProperty handles POST /map/selection/property requests. An empty
// or absent id clears the selection.
func (h *MapHandler) SelectProperty(c *gin.Context) {
	var req selectPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid selection payload"})
		return
	}

	h.service.SelectProperty(req.ID)
	c.JSON(http.StatusOK, h.service.State().Selection)
}

type selectClusterRequest struct {
	ID string `json:"id"`
}

// SelectCluster handles POST /map/selection/cluster requests. An empty or
// absent id clears the selection.
func (h *MapHandler) SelectCluster(c *gin.Context) {
	var req selectClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid selection payload"})
		return
	}

	if err := h.service.SelectClusterByID(req.ID); err != nil {
		if errors.Is(err, service.ErrClusterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cluster not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, h.service.State().Selection)
}

// ExpandCluster handles POST /map/clusters/:id/expand requests and returns
// the new viewport.
func (h *MapHandler) ExpandCluster(c *gin.Context) {
	id := c.Param("id")

	viewport, err := h.service.ExpandClusterByID(id)
	if err != nil {
		if errors.Is(err, service.ErrClusterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cluster not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, viewport)
}

// FitToProperties handles GET /map/fit requests
func (h *MapHandler) FitToProperties(c *gin.Context) {
	idsParam := c.Query("ids")
	if idsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'ids'"})
		return
	}

	ids := strings.Split(idsParam, ",")
	c.JSON(http.StatusOK, h.service.FitToProperties(ids))
}

// CenterOnProperty handles GET /map/center requests
func (h *MapHandler) CenterOnProperty(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'id'"})
		return
	}

	coord := h.service.CenterOnProperty(id)
	if coord == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found or has no location"})
		return
	}
	c.JSON(http.StatusOK, coord)
}

// ListProperties handles GET /properties requests
func (h *MapHandler) ListProperties(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.AllProperties())
}

// RefreshProperties handles POST /properties/refresh requests, reloading
// the engine's property set from the repository.
func (h *MapHandler) RefreshProperties(c *gin.Context) {
	count, err := h.service.LoadProperties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"loaded": count})
}
