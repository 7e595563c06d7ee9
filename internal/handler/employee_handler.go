package handler

import (
	"errors"
	"fmt"
	"net/http"

	"fieldforce/internal/middleware"
	"fieldforce/internal/repository"
	"fieldforce/internal/ws"
	"fieldforce/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeHandler serves the supervisor/admin workforce overview and
// profile maintenance.
type EmployeeHandler struct {
	userRepo *repository.UserRepository
	trackHub *ws.TrackHub
	cloud    cloudinary.Client
}

func NewEmployeeHandler(userRepo *repository.UserRepository, trackHub *ws.TrackHub, cloud cloudinary.Client) *EmployeeHandler {
	return &EmployeeHandler{userRepo: userRepo, trackHub: trackHub, cloud: cloud}
}

// List returns all employees with presence and last known position.
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.userRepo.ListEmployees()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// Markers returns the current live map snapshot without opening a socket.
func (h *EmployeeHandler) Markers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"markers": h.trackHub.GetMarkers()})
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	u, err := h.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type AssignSupervisorRequest struct {
	SupervisorID *uint `json:"supervisor_id"` // null clears the assignment
}

// AssignSupervisor links an employee to a supervisor. Admin only.
func (h *EmployeeHandler) AssignSupervisor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AssignSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if req.SupervisorID != nil {
		sup, err := h.userRepo.GetByID(*req.SupervisorID)
		if err != nil || !sup.IsSupervisor() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "supervisor_id must reference a SUPERVISOR"})
			return
		}
	}
	u.SupervisorID = req.SupervisorID
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UploadAvatar stores a profile photo for the caller.
func (h *EmployeeHandler) UploadAvatar(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer f.Close()
	publicID := fmt.Sprintf("avatar_%d_%s", userID, uuid.NewString())
	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, "avatars", publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	u.AvatarURL = url
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
