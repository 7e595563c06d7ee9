package handler

import (
	"net/http"
	"time"

	"fieldforce/internal/domain"
	"fieldforce/internal/middleware"
	"fieldforce/internal/models"
	"fieldforce/internal/repository"
	"fieldforce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	svc          *service.AuthService
	presenceRepo *repository.PresenceRepository
	userRepo     *repository.UserRepository
}

func NewAuthHandler(svc *service.AuthService, presenceRepo *repository.PresenceRepository, userRepo *repository.UserRepository) *AuthHandler {
	return &AuthHandler{svc: svc, presenceRepo: presenceRepo, userRepo: userRepo}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=128"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=EMPLOYEE SUPERVISOR"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.svc.Register(req.Name, req.Email, req.Username, req.Password, req.Role)
	if err != nil {
		switch err {
		case service.ErrEmailExists, service.ErrUsernameExists:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case service.ErrInvalidRole:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).WithField("email", req.Email).Error("auth: register")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}
	h.setPresence(u.ID, domain.PresenceOnline, true)
	c.JSON(http.StatusCreated, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCreds {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("auth: login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	h.setPresence(u.ID, domain.PresenceOnline, true)
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID != 0 {
		h.setPresence(userID, domain.PresenceOffline, false)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type UpdateFCMTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

func (h *AuthHandler) UpdateFCMToken(c *gin.Context) {
	var req UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	u.FCMToken = req.FCMToken
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		if err == service.ErrInvalidCreds {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	access, refresh, err := h.svc.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) setPresence(userID uint, status string, online bool) {
	if h.presenceRepo == nil {
		return
	}
	presence, _ := h.presenceRepo.GetByUserID(userID)
	if presence == nil {
		presence = &models.UserPresence{UserID: userID}
	}
	presence.Status = status
	presence.IsOnline = online
	presence.LastSeenAt = time.Now()
	_ = h.presenceRepo.Upsert(presence)
}
