package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"fieldforce/internal/metrics"
	"fieldforce/internal/models"
	"fieldforce/internal/repository"
	"fieldforce/pkg/cloudinary"
	"fieldforce/pkg/geo"

	"codeberg.org/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReportService renders per-employee activity reports as PDF and archives
// them in object storage.
type ReportService struct {
	reports   *repository.ReportRepository
	tasks     *repository.TaskRepository
	users     *repository.UserRepository
	analytics *AnalyticsService
	cloud     cloudinary.Client
	notifier  *NotificationService
}

func NewReportService(
	reports *repository.ReportRepository,
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	analytics *AnalyticsService,
	cloud cloudinary.Client,
	notifier *NotificationService,
) *ReportService {
	return &ReportService{reports: reports, tasks: tasks, users: users, analytics: analytics, cloud: cloud, notifier: notifier}
}

// Generate builds the PDF, uploads it when storage is configured, records
// the report, and returns the raw bytes for direct download.
func (s *ReportService) Generate(ctx context.Context, userID uint, from, to time.Time, requestedBy uint) (*models.Report, []byte, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.tasks.ListByAssigneeInWindow(userID, from, to)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.analytics.MovementStats(userID, from, to)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.analytics.GeofenceEvents(userID, from, to)
	if err != nil {
		return nil, nil, err
	}

	pdfBytes, err := renderPDF(user, tasks, stats, len(events), from, to)
	if err != nil {
		return nil, nil, err
	}

	report := &models.Report{
		UserID:        userID,
		RequestedByID: requestedBy,
		PeriodStart:   from,
		PeriodEnd:     to,
	}
	if s.cloud != nil {
		publicID := fmt.Sprintf("report_%d_%s", userID, uuid.NewString())
		url, err := s.cloud.UploadRaw(ctx, bytes.NewReader(pdfBytes), "reports", publicID)
		if err != nil {
			// Keep the download path working even when archival fails.
			logrus.WithError(err).Warn("report: upload to storage")
		} else {
			report.URL = url
		}
	}
	if err := s.reports.Create(report); err != nil {
		return nil, nil, err
	}
	metrics.ReportsGenerated.Inc()
	if s.notifier != nil && report.URL != "" {
		_ = s.notifier.NotifyReportReady(requestedBy, report.ID, report.URL)
	}
	return report, pdfBytes, nil
}

func (s *ReportService) ListByUser(userID uint, limit int) ([]models.Report, error) {
	return s.reports.ListByUser(userID, limit)
}

func renderPDF(user *models.User, tasks []models.Task, stats geo.MovementStats, eventCount int, from, to time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Field Activity Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Field Activity Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Employee: %s (%s)", user.Name, user.Email))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Movement")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Distance travelled: %.2f km", stats.TotalDistanceKm))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Average speed: %.1f km/h", stats.AverageSpeedKmh))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Active time: %d min, idle time: %d min (%d samples)",
		stats.ActiveMinutes, stats.IdleMinutes, stats.SampleCount))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Geofence events: %d", eventCount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Tasks (%d)", len(tasks)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(80, 6, "Title", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Status", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, "Priority", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, "Due", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, t := range tasks {
		title := t.Title
		if len(title) > 45 {
			title = title[:42] + "..."
		}
		pdf.CellFormat(80, 6, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, t.Status, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, t.Priority, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, t.DueDate.Format("2006-01-02"), "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
