package handler

import (
	"net/http"
	"time"

	"fieldforce/internal/middleware"
	"fieldforce/internal/models"
	"fieldforce/internal/repository"

	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	repo *repository.PresenceRepository
}

func NewPresenceHandler(repo *repository.PresenceRepository) *PresenceHandler {
	return &PresenceHandler{repo: repo}
}

type PresenceRequest struct {
	Status string `json:"status" binding:"required,oneof=ONLINE OFFLINE ON_SITE DRIVING"`
}

// Update sets the caller's presence status.
func (h *PresenceHandler) Update(c *gin.Context) {
	var req PresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	presence, _ := h.repo.GetByUserID(userID)
	if presence == nil {
		presence = &models.UserPresence{UserID: userID}
	}
	presence.Status = req.Status
	presence.IsOnline = req.Status != "OFFLINE"
	presence.LastSeenAt = time.Now()
	if err := h.repo.Upsert(presence); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"presence": presence})
}

// ListOnline lists everyone currently online. Supervisor/admin only.
func (h *PresenceHandler) ListOnline(c *gin.Context) {
	online, err := h.repo.ListOnline()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"online": online})
}
