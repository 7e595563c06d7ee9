package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fieldforce/internal/middleware"
	"fieldforce/internal/models"
	"fieldforce/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GeofenceHandler struct {
	fenceRepo *repository.GeofenceRepository
	eventRepo *repository.EventRepository
}

func NewGeofenceHandler(fenceRepo *repository.GeofenceRepository, eventRepo *repository.EventRepository) *GeofenceHandler {
	return &GeofenceHandler{fenceRepo: fenceRepo, eventRepo: eventRepo}
}

type GeofenceRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=128"`
	CenterLat    float64 `json:"center_lat" binding:"min=-90,max=90"`
	CenterLng    float64 `json:"center_lng" binding:"min=-180,max=180"`
	RadiusMeters float64 `json:"radius_meters" binding:"required,gt=0"`
	IsActive     *bool   `json:"is_active"`
}

func (h *GeofenceHandler) Create(c *gin.Context) {
	var req GeofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fence := &models.Geofence{
		Name:         req.Name,
		CenterLat:    req.CenterLat,
		CenterLng:    req.CenterLng,
		RadiusMeters: req.RadiusMeters,
		IsActive:     true,
		CreatedByID:  middleware.GetUserID(c),
	}
	if req.IsActive != nil {
		fence.IsActive = *req.IsActive
	}
	if err := h.fenceRepo.Create(fence); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"geofence": fence})
}

func (h *GeofenceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fence, err := h.fenceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	var req GeofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fence.Name = req.Name
	fence.CenterLat = req.CenterLat
	fence.CenterLng = req.CenterLng
	fence.RadiusMeters = req.RadiusMeters
	if req.IsActive != nil {
		fence.IsActive = *req.IsActive
	}
	if err := h.fenceRepo.Update(fence); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"geofence": fence})
}

func (h *GeofenceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.fenceRepo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GeofenceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fence, err := h.fenceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"geofence": fence})
}

func (h *GeofenceHandler) List(c *gin.Context) {
	fences, err := h.fenceRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"geofences": fences})
}

// Events lists recent enter/exit events for one fence.
func (h *GeofenceHandler) Events(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	events, err := h.eventRepo.ListByGeofence(id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
