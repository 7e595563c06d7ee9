package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldforce/internal/models"
	"fieldforce/internal/queue"
	"fieldforce/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockLocationStore struct {
	records []models.LocationRecord
	latest  *models.UserLocation
}

func (m *mockLocationStore) AppendRecord(rec *models.LocationRecord) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockLocationStore) UpsertLatest(loc *models.UserLocation) error {
	cp := *loc
	m.latest = &cp
	return nil
}

func (m *mockLocationStore) GetLatest(userID uint) (*models.UserLocation, error) {
	if m.latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.latest, nil
}

func (m *mockLocationStore) LatestRecord(userID uint) (*models.LocationRecord, error) {
	if len(m.records) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	rec := m.records[len(m.records)-1]
	return &rec, nil
}

type mockGeofenceStore struct {
	fences []models.Geofence
}

func (m *mockGeofenceStore) ListActive() ([]models.Geofence, error) { return m.fences, nil }

type mockEventStore struct {
	events []models.GeofenceEvent
}

func (m *mockEventStore) Create(e *models.GeofenceEvent) error {
	m.events = append(m.events, *e)
	return nil
}

type mockNotifier struct {
	calls []string
}

func (m *mockNotifier) NotifyGeofence(recipientID uint, employeeName, fenceName, event string, geofenceID uint) error {
	m.calls = append(m.calls, event)
	return nil
}

type mockDirectory struct{}

func (mockDirectory) GetByID(id uint) (*models.User, error) {
	return &models.User{ID: id, Name: "Niluka Perera"}, nil
}

func (mockDirectory) SupervisorsOf(userID uint) ([]models.User, error) {
	return []models.User{{ID: 99}}, nil
}

type mockPublisher struct {
	alerts []queue.Alert
	fail   error
}

func (m *mockPublisher) PublishAlert(_ context.Context, a *queue.Alert) error {
	if m.fail != nil {
		return m.fail
	}
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockHub struct {
	updates int
}

func (m *mockHub) UpdateLocation(userID uint, lat, lng float64, isOnline bool) { m.updates++ }

func newTrackingFixture(fences ...models.Geofence) (*TrackingService, *mockLocationStore, *mockEventStore, *mockNotifier, *mockPublisher, *mockHub) {
	loc := &mockLocationStore{}
	events := &mockEventStore{}
	notifier := &mockNotifier{}
	pub := &mockPublisher{}
	hub := &mockHub{}
	svc := NewTrackingService(loc, &mockGeofenceStore{fences: fences}, events, mockDirectory{}, notifier, pub, hub)
	return svc, loc, events, notifier, pub, hub
}

var t0 = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

// ~111.195 m per 0.001 degrees of latitude.
const siteLat, siteLng = 6.9271, 79.8612

func sampleAt(lat, lng float64, at time.Time) SampleInput {
	return SampleInput{Latitude: lat, Longitude: lng, RecordedAt: at}
}

func TestIngestStoresTraceAndLatest(t *testing.T) {
	svc, loc, _, _, _, hub := newTrackingFixture()

	trans, err := svc.Ingest(context.Background(), 1, sampleAt(siteLat, siteLng, t0))
	require.NoError(t, err)
	assert.Empty(t, trans) // first sample has no prior state
	assert.Len(t, loc.records, 1)
	require.NotNil(t, loc.latest)
	assert.Equal(t, siteLat, loc.latest.Latitude)
	assert.Equal(t, 1, hub.updates)
}

func TestIngestRejectsInvalidSample(t *testing.T) {
	svc, loc, _, _, _, _ := newTrackingFixture()

	_, err := svc.Ingest(context.Background(), 1, sampleAt(95, 0, t0))
	var invalid *geo.InvalidSampleError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, geo.KindCoordinateRange, invalid.Kind)
	assert.Empty(t, loc.records)
}

func TestIngestRejectsStaleSample(t *testing.T) {
	svc, loc, _, _, _, _ := newTrackingFixture()

	_, err := svc.Ingest(context.Background(), 1, sampleAt(siteLat, siteLng, t0))
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), 1, sampleAt(siteLat, siteLng, t0.Add(-time.Minute)))
	assert.ErrorIs(t, err, ErrStaleSample)
	assert.Len(t, loc.records, 1)
}

func TestIngestDetectsEnterAndExit(t *testing.T) {
	fence := models.Geofence{ID: 5, Name: "Colombo depot", CenterLat: siteLat, CenterLng: siteLng, RadiusMeters: 100, IsActive: true}
	svc, _, events, notifier, pub, _ := newTrackingFixture(fence)
	ctx := context.Background()

	// Start well outside, move inside, stay, then leave.
	_, err := svc.Ingest(ctx, 1, sampleAt(siteLat+0.01, siteLng, t0))
	require.NoError(t, err)

	trans, err := svc.Ingest(ctx, 1, sampleAt(siteLat, siteLng, t0.Add(time.Minute)))
	require.NoError(t, err)
	require.Len(t, trans, 1)
	assert.Equal(t, geo.TransitionEnter, trans[0].Type)

	trans, err = svc.Ingest(ctx, 1, sampleAt(siteLat, siteLng, t0.Add(2*time.Minute)))
	require.NoError(t, err)
	assert.Empty(t, trans) // unchanged membership

	trans, err = svc.Ingest(ctx, 1, sampleAt(siteLat+0.01, siteLng, t0.Add(3*time.Minute)))
	require.NoError(t, err)
	require.Len(t, trans, 1)
	assert.Equal(t, geo.TransitionExit, trans[0].Type)

	require.Len(t, events.events, 2)
	assert.Equal(t, "ENTER", events.events[0].EventType)
	assert.Equal(t, "EXIT", events.events[1].EventType)
	assert.Equal(t, uint(5), events.events[0].GeofenceID)

	assert.Equal(t, []string{"ENTER", "EXIT"}, notifier.calls)
	require.Len(t, pub.alerts, 2)
	assert.Equal(t, "Colombo depot", pub.alerts[0].GeofenceName)
}

func TestIngestInactiveFenceIgnored(t *testing.T) {
	svc, _, events, _, _, _ := newTrackingFixture() // ListActive returns nothing
	ctx := context.Background()

	_, err := svc.Ingest(ctx, 1, sampleAt(siteLat+0.01, siteLng, t0))
	require.NoError(t, err)
	trans, err := svc.Ingest(ctx, 1, sampleAt(siteLat, siteLng, t0.Add(time.Minute)))
	require.NoError(t, err)
	assert.Empty(t, trans)
	assert.Empty(t, events.events)
}

func TestIngestSurvivesPublisherFailure(t *testing.T) {
	fence := models.Geofence{ID: 5, Name: "Depot", CenterLat: siteLat, CenterLng: siteLng, RadiusMeters: 100, IsActive: true}
	svc, _, events, _, pub, _ := newTrackingFixture(fence)
	pub.fail = errors.New("rabbitmq down")
	ctx := context.Background()

	_, err := svc.Ingest(ctx, 1, sampleAt(siteLat+0.01, siteLng, t0))
	require.NoError(t, err)
	trans, err := svc.Ingest(ctx, 1, sampleAt(siteLat, siteLng, t0.Add(time.Minute)))
	require.NoError(t, err) // broker failure must not fail the ingest
	assert.Len(t, trans, 1)
	assert.Len(t, events.events, 1)
}
