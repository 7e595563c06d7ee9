package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SamplesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldforce_location_samples_ingested_total",
		Help: "Location samples accepted into traces.",
	})
	SamplesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldforce_location_samples_rejected_total",
		Help: "Location samples rejected by validation, by failure kind.",
	}, []string{"kind"})
	GeofenceAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldforce_geofence_alerts_total",
		Help: "Geofence enter/exit events emitted.",
	}, []string{"event"})
	TaskTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldforce_task_transitions_total",
		Help: "Task status transitions applied by the refresh pass.",
	}, []string{"change"})
	ReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldforce_reports_generated_total",
		Help: "PDF reports generated.",
	})
)
