package queue

import (
	"context"
	"time"
)

// Alert is the geofence enter/exit message fanned out to downstream
// consumers (dispatch dashboards, alerting workers).
type Alert struct {
	UserID         uint      `json:"user_id"`
	GeofenceID     uint      `json:"geofence_id"`
	GeofenceName   string    `json:"geofence_name"`
	Event          string    `json:"event"` // ENTER | EXIT
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	DistanceMeters float64   `json:"distance_meters"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *Alert) error
	Close() error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishAlert(context.Context, *Alert) error { return nil }
func (NopPublisher) Close() error                               { return nil }
