package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// EmployeeMarker is one employee position on the live dispatch map.
type EmployeeMarker struct {
	UserID    uint    `json:"user_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	IsOnline  bool    `json:"is_online"`
	UpdatedAt int64   `json:"updated_at"`
}

// TrackHub streams employee positions to supervisors and admins watching
// the live map. The tracking service pushes markers on every accepted
// sample.
type TrackHub struct {
	*Hub
	mu      sync.RWMutex
	markers map[uint]EmployeeMarker
}

func NewTrackHub() *TrackHub {
	return &TrackHub{
		Hub:     NewHub(),
		markers: make(map[uint]EmployeeMarker),
	}
}

// UpdateLocation is called when an employee's location is ingested.
func (t *TrackHub) UpdateLocation(userID uint, lat, lng float64, isOnline bool) {
	marker := EmployeeMarker{
		UserID:    userID,
		Lat:       lat,
		Lng:       lng,
		IsOnline:  isOnline,
		UpdatedAt: time.Now().Unix(),
	}
	t.mu.Lock()
	t.markers[userID] = marker
	t.mu.Unlock()
	t.BroadcastAll(marker)
}

// SetOffline flips a marker without moving it, e.g. when the capture
// client disconnects.
func (t *TrackHub) SetOffline(userID uint) {
	t.mu.Lock()
	marker, ok := t.markers[userID]
	if ok {
		marker.IsOnline = false
		marker.UpdatedAt = time.Now().Unix()
		t.markers[userID] = marker
	}
	t.mu.Unlock()
	if ok {
		t.BroadcastAll(marker)
	}
}

// GetMarkers returns current markers for all online employees (for initial map load).
func (t *TrackHub) GetMarkers() []EmployeeMarker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	list := make([]EmployeeMarker, 0, len(t.markers))
	for _, v := range t.markers {
		if v.IsOnline {
			list = append(list, v)
		}
	}
	return list
}

// SendMarkers pushes the snapshot to one client.
func SendMarkers(c *Client, markers []EmployeeMarker) {
	data, _ := json.Marshal(map[string]interface{}{"type": "markers", "markers": markers})
	select {
	case c.Send <- data:
	default:
	}
}
