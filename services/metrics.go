package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rfid_attendance",
		Subsystem: "scan",
		Name:      "total",
		Help:      "RFID scans broken down by outcome.",
	}, []string{"result"})

	marksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rfid_attendance",
		Subsystem: "ledger",
		Name:      "marks_total",
		Help:      "Ledger transitions broken down by created/updated and status.",
	}, []string{"transition", "status"})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rfid_attendance",
		Subsystem: "notifier",
		Name:      "events_total",
		Help:      "Attendance notifications broken down by result (sent, failed, dropped).",
	}, []string{"result"})

	notifierQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rfid_attendance",
		Subsystem: "notifier",
		Name:      "queue_depth",
		Help:      "Events waiting for the next daily batch.",
	})
)
