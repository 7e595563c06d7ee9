package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fieldforce/internal/domain"
	"fieldforce/internal/middleware"
	"fieldforce/internal/models"
	"fieldforce/internal/repository"
	"fieldforce/internal/service"
	"fieldforce/internal/taskflow"
	"fieldforce/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	svc      *service.TaskService
	taskRepo *repository.TaskRepository
	cloud    cloudinary.Client
}

func NewTaskHandler(svc *service.TaskService, taskRepo *repository.TaskRepository, cloud cloudinary.Client) *TaskHandler {
	return &TaskHandler{svc: svc, taskRepo: taskRepo, cloud: cloud}
}

type TaskRequest struct {
	Title             string   `json:"title" binding:"required,min=1,max=255"`
	Description       string   `json:"description"`
	Priority          string   `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssigneeID        uint     `json:"assignee_id" binding:"required"`
	StartDate         string   `json:"start_date" binding:"required"` // RFC3339
	EndDate           string   `json:"end_date" binding:"required"`
	DueDate           string   `json:"due_date"` // defaults to end_date
	TimeBudgetMinutes int      `json:"time_budget_minutes" binding:"omitempty,min=0"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	GeofenceID        *uint    `json:"geofence_id"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date (use RFC3339)"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date (use RFC3339)"})
		return
	}
	var due time.Time
	if req.DueDate != "" {
		due, err = time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (use RFC3339)"})
			return
		}
	}
	task, err := h.svc.Create(service.TaskInput{
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		AssigneeID:        req.AssigneeID,
		StartDate:         start,
		EndDate:           end,
		DueDate:           due,
		TimeBudgetMinutes: req.TimeBudgetMinutes,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		GeofenceID:        req.GeofenceID,
	}, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadWindow):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "assignee or geofence not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	task, err := h.taskRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if !h.canView(c, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// ListMine lists the caller's tasks, optionally filtered by status.
func (h *TaskHandler) ListMine(c *gin.Context) {
	tasks, err := h.taskRepo.ListByAssignee(middleware.GetUserID(c), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// ListAll lists every task, for supervisors and admins.
func (h *TaskHandler) ListAll(c *gin.Context) {
	limit, offset := 50, 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	tasks, err := h.taskRepo.ListAll(c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.taskRepo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TaskHandler) Start(c *gin.Context) {
	h.transition(c, h.svc.Start)
}

func (h *TaskHandler) Pause(c *gin.Context) {
	h.transition(c, h.svc.Pause)
}

func (h *TaskHandler) Resume(c *gin.Context) {
	h.transition(c, h.svc.Resume)
}

func (h *TaskHandler) Complete(c *gin.Context) {
	h.transition(c, h.svc.Complete)
}

func (h *TaskHandler) transition(c *gin.Context, op func(taskID, userID uint) (*models.Task, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	task, err := op(id, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, service.ErrNotAssignee):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNoLocation), errors.Is(err, service.ErrOutsideGeofence):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, taskflow.ErrNotStartable),
			errors.Is(err, taskflow.ErrNotPausable),
			errors.Is(err, taskflow.ErrNotResumable),
			errors.Is(err, taskflow.ErrNotCompleting):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transition failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// AddAttachment uploads photo evidence for a task.
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage not configured"})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	task, err := h.taskRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	userID := middleware.GetUserID(c)
	if !h.canView(c, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your task"})
		return
	}
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
	publicID := fmt.Sprintf("task_%d_%s", task.ID, uuid.NewString())
	url, thumb, err := h.cloud.UploadImage(c.Request.Context(), f, "task_attachments", publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	attachment := &models.TaskAttachment{
		TaskID:       task.ID,
		UploadedByID: userID,
		URL:          url,
		ThumbnailURL: thumb,
		FileName:     fileHeader.Filename,
	}
	if err := h.taskRepo.AddAttachment(attachment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"attachment": attachment})
}

// canView allows the assignee plus supervisors and admins.
func (h *TaskHandler) canView(c *gin.Context, task *models.Task) bool {
	role := middleware.GetRole(c)
	if role == domain.RoleAdmin || role == domain.RoleSupervisor {
		return true
	}
	return task.AssigneeID == middleware.GetUserID(c)
}
