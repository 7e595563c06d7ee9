package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fieldforce/internal/domain"
	"fieldforce/internal/middleware"
	"fieldforce/internal/repository"
	"fieldforce/internal/service"
	"fieldforce/pkg/geo"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LocationHandler struct {
	tracking  *service.TrackingService
	analytics *service.AnalyticsService
	locRepo   *repository.LocationRepository
}

func NewLocationHandler(tracking *service.TrackingService, analytics *service.AnalyticsService, locRepo *repository.LocationRepository) *LocationHandler {
	return &LocationHandler{tracking: tracking, analytics: analytics, locRepo: locRepo}
}

type SampleRequest struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	RecordedAt     string   `json:"recorded_at" binding:"required"` // RFC3339
	AccuracyMeters *float64 `json:"accuracy_meters"`
	SpeedMps       *float64 `json:"speed_mps"`
	HeadingDeg     *float64 `json:"heading_deg"`
	BatteryPercent *float64 `json:"battery_percent"`
}

// Ingest accepts one position sample from the field app.
func (h *LocationHandler) Ingest(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recordedAt, err := time.Parse(time.RFC3339, req.RecordedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recorded_at (use RFC3339)"})
		return
	}
	transitions, err := h.tracking.Ingest(c.Request.Context(), userID, service.SampleInput{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		RecordedAt:     recordedAt,
		AccuracyMeters: req.AccuracyMeters,
		SpeedMps:       req.SpeedMps,
		HeadingDeg:     req.HeadingDeg,
		BatteryPercent: req.BatteryPercent,
	})
	if err != nil {
		var invalid *geo.InvalidSampleError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "kind": invalid.Kind})
			return
		}
		if errors.Is(err, service.ErrStaleSample) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store sample"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "transitions": transitions})
}

// Latest returns the caller's last known position.
func (h *LocationHandler) Latest(c *gin.Context) {
	h.latestFor(c, middleware.GetUserID(c))
}

// LatestOf returns the last known position of any user. Supervisor/admin only.
func (h *LocationHandler) LatestOf(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	h.latestFor(c, userID)
}

func (h *LocationHandler) latestFor(c *gin.Context, userID uint) {
	loc, err := h.locRepo.GetLatest(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no location recorded"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

// Trace returns a user's raw location records within a window.
func (h *LocationHandler) Trace(c *gin.Context) {
	userID, ok := h.traceTarget(c)
	if !ok {
		return
	}
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	records, err := h.analytics.Trace(userID, from, to)
	if err != nil {
		if errors.Is(err, service.ErrWindowTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "trace lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "from": from, "to": to})
}

// MovementStats returns aggregated movement analytics for a window.
func (h *LocationHandler) MovementStats(c *gin.Context) {
	userID, ok := h.traceTarget(c)
	if !ok {
		return
	}
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	stats, err := h.analytics.MovementStats(userID, from, to)
	if err != nil {
		if errors.Is(err, service.ErrWindowTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var invalid *geo.InvalidSampleError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalid.Error(), "kind": invalid.Kind})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "from": from, "to": to})
}

// traceTarget resolves whose data to read: employees read their own,
// supervisors and admins may pass ?user_id= to read anyone's.
func (h *LocationHandler) traceTarget(c *gin.Context) (uint, bool) {
	callerID := middleware.GetUserID(c)
	role := middleware.GetRole(c)
	raw := c.Query("user_id")
	if raw == "" {
		return callerID, true
	}
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	target := uint(id64)
	if target != callerID && role != domain.RoleAdmin && role != domain.RoleSupervisor {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot read other users' data"})
		return 0, false
	}
	return target, true
}

// parseWindow reads from/to query params (RFC3339); defaults to the last
// 24 hours when absent.
func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from, to := now.Add(-24*time.Hour), now
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from (use RFC3339)"})
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to (use RFC3339)"})
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id64), true
}
