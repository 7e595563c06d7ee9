package handler

import (
	"errors"
	"net/http"
	"time"

	"fieldforce/internal/domain"
	"fieldforce/internal/middleware"
	"fieldforce/internal/models"
	"fieldforce/internal/repository"
	"fieldforce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MeetingHandler struct {
	meetingRepo *repository.MeetingRepository
	userRepo    *repository.UserRepository
	notifier    *service.NotificationService
}

func NewMeetingHandler(meetingRepo *repository.MeetingRepository, userRepo *repository.UserRepository, notifier *service.NotificationService) *MeetingHandler {
	return &MeetingHandler{meetingRepo: meetingRepo, userRepo: userRepo, notifier: notifier}
}

type MeetingRequest struct {
	Title          string `json:"title" binding:"required,min=1,max=255"`
	ScheduledAt    string `json:"scheduled_at" binding:"required"` // RFC3339
	ParticipantIDs []uint `json:"participant_ids" binding:"required,min=1"`
}

func (h *MeetingHandler) Create(c *gin.Context) {
	var req MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_at (use RFC3339)"})
		return
	}
	hostID := middleware.GetUserID(c)
	meeting := &models.Meeting{
		RoomCode:    uuid.NewString(),
		Title:       req.Title,
		HostID:      hostID,
		Status:      domain.MeetingScheduled,
		ScheduledAt: scheduledAt,
	}
	if err := h.meetingRepo.Create(meeting); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	_ = h.meetingRepo.AddParticipant(&models.MeetingParticipant{MeetingID: meeting.ID, UserID: hostID})
	host, _ := h.userRepo.GetByID(hostID)
	hostName := ""
	if host != nil {
		hostName = host.Name
	}
	for _, uid := range req.ParticipantIDs {
		if uid == hostID {
			continue
		}
		if err := h.meetingRepo.AddParticipant(&models.MeetingParticipant{MeetingID: meeting.ID, UserID: uid}); err != nil {
			continue
		}
		if h.notifier != nil {
			_ = h.notifier.NotifyMeetingInvite(uid, meeting.ID, meeting.Title, hostName)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"meeting": meeting})
}

func (h *MeetingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	meeting, err := h.meetingRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	isP, _ := h.meetingRepo.IsParticipant(id, middleware.GetUserID(c))
	if !isP && middleware.GetRole(c) != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

// GetByCode resolves an invite room code to its meeting.
func (h *MeetingHandler) GetByCode(c *gin.Context) {
	meeting, err := h.meetingRepo.GetByRoomCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	isP, _ := h.meetingRepo.IsParticipant(meeting.ID, middleware.GetUserID(c))
	if !isP && middleware.GetRole(c) != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

func (h *MeetingHandler) ListMine(c *gin.Context) {
	meetings, err := h.meetingRepo.ListForUser(middleware.GetUserID(c), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

// Join marks the caller as joined and flips the meeting LIVE on first join.
func (h *MeetingHandler) Join(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	meeting, err := h.meetingRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	isP, _ := h.meetingRepo.IsParticipant(id, userID)
	if !isP {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return
	}
	if meeting.Status == domain.MeetingEnded {
		c.JSON(http.StatusConflict, gin.H{"error": "meeting has ended"})
		return
	}
	now := time.Now()
	if meeting.Status == domain.MeetingScheduled {
		meeting.Status = domain.MeetingLive
		meeting.StartedAt = &now
		_ = h.meetingRepo.Update(meeting)
	}
	_ = h.meetingRepo.MarkJoined(id, userID, now)
	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

func (h *MeetingHandler) Leave(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	_ = h.meetingRepo.MarkLeft(id, middleware.GetUserID(c), time.Now())
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// End closes the meeting; host only.
func (h *MeetingHandler) End(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	meeting, err := h.meetingRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if meeting.HostID != middleware.GetUserID(c) && middleware.GetRole(c) != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the host can end the meeting"})
		return
	}
	now := time.Now()
	meeting.Status = domain.MeetingEnded
	meeting.EndedAt = &now
	if err := h.meetingRepo.Update(meeting); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

// CanJoin implements the signaling access check: only participants of a
// meeting that has not ended may open its room.
func (h *MeetingHandler) CanJoin(userID, meetingID uint) bool {
	meeting, err := h.meetingRepo.GetByID(meetingID)
	if err != nil || meeting.Status == domain.MeetingEnded {
		return false
	}
	isP, err := h.meetingRepo.IsParticipant(meetingID, userID)
	return err == nil && isP
}
