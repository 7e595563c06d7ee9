package service

import (
	"context"
	"encoding/json"
	"fmt"

	"fieldforce/internal/domain"
	"fieldforce/internal/models"
	"fieldforce/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	s.sendPush(userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
}

func (s *NotificationService) NotifyTaskAssigned(assigneeID uint, taskID uint, title string) error {
	return s.Notify(assigneeID, domain.NotifTaskAssigned, "New task", "You have been assigned: "+title,
		map[string]interface{}{"task_id": taskID})
}

func (s *NotificationService) NotifyTaskOverdue(assigneeID uint, taskID uint, title string) error {
	return s.Notify(assigneeID, domain.NotifTaskOverdue, "Task overdue",
		title+" passed its deadline and was forwarded by 24 hours",
		map[string]interface{}{"task_id": taskID})
}

func (s *NotificationService) NotifyTaskCompleted(supervisorID uint, taskID uint, title, employeeName string) error {
	return s.Notify(supervisorID, domain.NotifTaskCompleted, "Task completed",
		employeeName+" completed "+title,
		map[string]interface{}{"task_id": taskID})
}

// NotifyGeofence informs a supervisor/admin about an employee crossing a
// fence boundary.
func (s *NotificationService) NotifyGeofence(recipientID uint, employeeName, fenceName, event string, geofenceID uint) error {
	notifType := domain.NotifGeofenceEnter
	verb := "entered"
	if event == domain.GeofenceEventExit {
		notifType = domain.NotifGeofenceExit
		verb = "left"
	}
	return s.Notify(recipientID, notifType, "Geofence "+event,
		fmt.Sprintf("%s %s %s", employeeName, verb, fenceName),
		map[string]interface{}{"geofence_id": geofenceID})
}

func (s *NotificationService) NotifyMeetingInvite(userID uint, meetingID uint, title, hostName string) error {
	return s.Notify(userID, domain.NotifMeetingInvite, "Meeting invite",
		hostName+" invited you to "+title,
		map[string]interface{}{"meeting_id": meetingID})
}

func (s *NotificationService) NotifyReportReady(userID uint, reportID uint, url string) error {
	return s.Notify(userID, domain.NotifReportReady, "Report ready", "Your PDF report is ready to download",
		map[string]interface{}{"report_id": reportID, "url": url})
}
