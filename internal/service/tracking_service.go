package service

import (
	"context"
	"errors"
	"time"

	"fieldforce/internal/metrics"
	"fieldforce/internal/models"
	"fieldforce/internal/queue"
	"fieldforce/pkg/geo"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrStaleSample is returned when a sample is older than the user's last
// stored one; traces must stay time-ordered.
var ErrStaleSample = errors.New("sample older than last recorded position")

// Store interfaces are satisfied by the gorm repositories; tests substitute
// plain mocks.
type locationStore interface {
	AppendRecord(rec *models.LocationRecord) error
	UpsertLatest(loc *models.UserLocation) error
	GetLatest(userID uint) (*models.UserLocation, error)
	LatestRecord(userID uint) (*models.LocationRecord, error)
}

type geofenceStore interface {
	ListActive() ([]models.Geofence, error)
}

type eventStore interface {
	Create(e *models.GeofenceEvent) error
}

type geofenceNotifier interface {
	NotifyGeofence(recipientID uint, employeeName, fenceName, event string, geofenceID uint) error
}

type supervisorDirectory interface {
	GetByID(id uint) (*models.User, error)
	SupervisorsOf(userID uint) ([]models.User, error)
}

type liveHub interface {
	UpdateLocation(userID uint, lat, lng float64, isOnline bool)
}

// TrackingService ingests location samples: it persists the trace, keeps the
// latest-position table current, detects geofence transitions against the
// previous sample, and fans alerts out to notifications, the broker, and the
// live map.
type TrackingService struct {
	locations locationStore
	fences    geofenceStore
	events    eventStore
	users     supervisorDirectory
	notifier  geofenceNotifier
	publisher queue.AlertPublisher
	hub       liveHub
}

func NewTrackingService(
	locations locationStore,
	fences geofenceStore,
	events eventStore,
	users supervisorDirectory,
	notifier geofenceNotifier,
	publisher queue.AlertPublisher,
	hub liveHub,
) *TrackingService {
	return &TrackingService{
		locations: locations,
		fences:    fences,
		events:    events,
		users:     users,
		notifier:  notifier,
		publisher: publisher,
		hub:       hub,
	}
}

// SampleInput is one reading from the capture client.
type SampleInput struct {
	Latitude       float64
	Longitude      float64
	RecordedAt     time.Time
	AccuracyMeters *float64
	SpeedMps       *float64
	HeadingDeg     *float64
	BatteryPercent *float64
}

// Ingest validates and stores one sample and returns the geofence
// transitions it triggered.
func (s *TrackingService) Ingest(ctx context.Context, userID uint, in SampleInput) ([]geo.Transition, error) {
	sample := geo.Sample{Latitude: in.Latitude, Longitude: in.Longitude, RecordedAt: in.RecordedAt}
	if err := geo.ValidateTrace([]geo.Sample{sample}); err != nil {
		if invalid := (*geo.InvalidSampleError)(nil); errors.As(err, &invalid) {
			metrics.SamplesRejected.WithLabelValues(invalid.Kind).Inc()
		}
		return nil, err
	}

	prev, err := s.locations.LatestRecord(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if prev != nil && in.RecordedAt.Before(prev.RecordedAt) {
		metrics.SamplesRejected.WithLabelValues(geo.KindTimestampOrder).Inc()
		return nil, ErrStaleSample
	}

	rec := &models.LocationRecord{
		UserID:         userID,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		RecordedAt:     in.RecordedAt,
		AccuracyMeters: in.AccuracyMeters,
		SpeedMps:       in.SpeedMps,
		HeadingDeg:     in.HeadingDeg,
		BatteryPercent: in.BatteryPercent,
	}
	if err := s.locations.AppendRecord(rec); err != nil {
		return nil, err
	}
	if err := s.upsertLatest(userID, in); err != nil {
		return nil, err
	}
	metrics.SamplesIngested.Inc()

	transitions, err := s.detectTransitions(ctx, userID, prev, in)
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.UpdateLocation(userID, in.Latitude, in.Longitude, true)
	}
	return transitions, nil
}

func (s *TrackingService) upsertLatest(userID uint, in SampleInput) error {
	latest, err := s.locations.GetLatest(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if latest == nil {
		latest = &models.UserLocation{UserID: userID, IsLocationVisible: true}
	}
	latest.Latitude = in.Latitude
	latest.Longitude = in.Longitude
	if in.AccuracyMeters != nil {
		latest.AccuracyMeters = *in.AccuracyMeters
	}
	latest.BatteryPercent = in.BatteryPercent
	latest.LastUpdatedAt = in.RecordedAt
	return s.locations.UpsertLatest(latest)
}

// detectTransitions compares fence membership at the previous and current
// sample. With no previous sample there is no prior state and no edge.
func (s *TrackingService) detectTransitions(ctx context.Context, userID uint, prev *models.LocationRecord, in SampleInput) ([]geo.Transition, error) {
	if prev == nil {
		return nil, nil
	}
	stored, err := s.fences.ListActive()
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, nil
	}
	fences := make([]geo.Fence, 0, len(stored))
	byID := make(map[uint]models.Geofence, len(stored))
	for _, g := range stored {
		fences = append(fences, g.Fence())
		byID[g.ID] = g
	}

	before := geo.CheckAll(prev.Latitude, prev.Longitude, fences)
	now := geo.CheckAll(in.Latitude, in.Longitude, fences)
	transitions := geo.DetectTransitions(before, now)

	for _, tr := range transitions {
		fence := byID[tr.FenceID]
		event := &models.GeofenceEvent{
			UserID:         userID,
			GeofenceID:     tr.FenceID,
			EventType:      string(tr.Type),
			Latitude:       in.Latitude,
			Longitude:      in.Longitude,
			DistanceMeters: tr.DistanceMeters,
			OccurredAt:     in.RecordedAt,
		}
		if err := s.events.Create(event); err != nil {
			return nil, err
		}
		metrics.GeofenceAlerts.WithLabelValues(string(tr.Type)).Inc()
		s.alert(ctx, userID, fence, tr, in)
	}
	return transitions, nil
}

// alert fan-out is best effort: a down broker or push channel must not fail
// the ingest.
func (s *TrackingService) alert(ctx context.Context, userID uint, fence models.Geofence, tr geo.Transition, in SampleInput) {
	employeeName := ""
	if u, err := s.users.GetByID(userID); err == nil && u != nil {
		employeeName = u.Name
	}
	if s.notifier != nil {
		recipients, err := s.users.SupervisorsOf(userID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("geofence alert: resolve supervisors")
		}
		for _, rcpt := range recipients {
			if err := s.notifier.NotifyGeofence(rcpt.ID, employeeName, fence.Name, string(tr.Type), fence.ID); err != nil {
				logrus.WithError(err).WithField("recipient", rcpt.ID).Warn("geofence alert: notify")
			}
		}
	}
	if s.publisher != nil {
		alert := &queue.Alert{
			UserID:         userID,
			GeofenceID:     fence.ID,
			GeofenceName:   fence.Name,
			Event:          string(tr.Type),
			Latitude:       in.Latitude,
			Longitude:      in.Longitude,
			DistanceMeters: tr.DistanceMeters,
			OccurredAt:     in.RecordedAt,
		}
		if err := s.publisher.PublishAlert(ctx, alert); err != nil {
			logrus.WithError(err).WithField("geofence_id", fence.ID).Warn("geofence alert: publish")
		}
	}
}
