package service

import (
	"errors"
	"time"

	"fieldforce/internal/models"
	"fieldforce/internal/repository"
	"fieldforce/pkg/geo"
)

var ErrWindowTooLarge = errors.New("requested analytics window too large")

// AnalyticsService turns stored traces into movement statistics. All the
// arithmetic lives in pkg/geo; this layer only loads and converts.
type AnalyticsService struct {
	locations *repository.LocationRepository
	events    *repository.EventRepository
	maxWindow time.Duration
}

func NewAnalyticsService(locations *repository.LocationRepository, events *repository.EventRepository, maxWindow time.Duration) *AnalyticsService {
	return &AnalyticsService{locations: locations, events: events, maxWindow: maxWindow}
}

// MovementStats aggregates a user's trace over [from, to].
func (s *AnalyticsService) MovementStats(userID uint, from, to time.Time) (geo.MovementStats, error) {
	if s.maxWindow > 0 && to.Sub(from) > s.maxWindow {
		return geo.MovementStats{}, ErrWindowTooLarge
	}
	records, err := s.locations.Trace(userID, from, to)
	if err != nil {
		return geo.MovementStats{}, err
	}
	return geo.Aggregate(toSamples(records))
}

// Trace returns the raw ordered samples for map playback.
func (s *AnalyticsService) Trace(userID uint, from, to time.Time) ([]models.LocationRecord, error) {
	if s.maxWindow > 0 && to.Sub(from) > s.maxWindow {
		return nil, ErrWindowTooLarge
	}
	return s.locations.Trace(userID, from, to)
}

// GeofenceEvents returns the user's enter/exit history over the window.
func (s *AnalyticsService) GeofenceEvents(userID uint, from, to time.Time) ([]models.GeofenceEvent, error) {
	return s.events.ListByUser(userID, from, to)
}

func toSamples(records []models.LocationRecord) []geo.Sample {
	samples := make([]geo.Sample, len(records))
	for i, r := range records {
		samples[i] = geo.Sample{
			Latitude:   r.Latitude,
			Longitude:  r.Longitude,
			RecordedAt: r.RecordedAt,
			Accuracy:   r.AccuracyMeters,
			Speed:      r.SpeedMps,
			Heading:    r.HeadingDeg,
			Battery:    r.BatteryPercent,
		}
	}
	return samples
}
