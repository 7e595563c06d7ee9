package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"fieldforce/internal/domain"
	"fieldforce/internal/middleware"
	"fieldforce/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Generate builds an activity report PDF for one employee over a window.
// Employees may generate their own; supervisors and admins anyone's.
// ?format=pdf streams the document, otherwise the report record is
// returned as JSON.
func (h *ReportHandler) Generate(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	role := middleware.GetRole(c)
	target := callerID
	if raw := c.Query("user_id"); raw != "" {
		id64, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		target = uint(id64)
	}
	if target != callerID && role != domain.RoleAdmin && role != domain.RoleSupervisor {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot report on other users"})
		return
	}
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	report, pdfBytes, err := h.svc.Generate(c.Request.Context(), target, from, to, callerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}
	if c.Query("format") == "pdf" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%d.pdf"`, report.ID))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// List returns past reports for a user.
func (h *ReportHandler) List(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	role := middleware.GetRole(c)
	target := callerID
	if raw := c.Query("user_id"); raw != "" {
		id64, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		target = uint(id64)
	}
	if target != callerID && role != domain.RoleAdmin && role != domain.RoleSupervisor {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot read other users' reports"})
		return
	}
	reports, err := h.svc.ListByUser(target, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
