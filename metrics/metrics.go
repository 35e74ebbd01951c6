package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sayanchanda7290/roomradar/apperr"
)

var (
	once sync.Once

	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomradar",
			Name:      "registrations_total",
			Help:      "Count of registration attempts by result.",
		},
		[]string{"result"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomradar",
			Name:      "logins_total",
			Help:      "Count of login attempts by result or error kind.",
		},
		[]string{"result"},
	)

	placesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomradar",
			Name:      "place_writes_total",
			Help:      "Count of listing creates and updates by result.",
		},
		[]string{"op", "result"},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomradar",
			Name:      "bookings_total",
			Help:      "Count of booking attempts by result.",
		},
		[]string{"result"},
	)

	receiptChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomradar",
			Name:      "receipt_checks_total",
			Help:      "Count of receipt verifications by result.",
		},
		[]string{"result"},
	)

	photosIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomradar",
			Name:      "photos_ingested_total",
			Help:      "Count of photo ingestions by source and result.",
		},
		[]string{"source", "result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(registrations, logins, placesWritten, bookings, receiptChecks, photosIngested)
	})
}

// result labels an outcome with "ok" or the error kind.
func result(err error) string {
	if err != nil {
		return string(apperr.KindOf(err))
	}
	return "ok"
}

func ObserveRegistration(err error) { registrations.WithLabelValues(result(err)).Inc() }

func ObserveLogin(err error) { logins.WithLabelValues(result(err)).Inc() }

func ObservePlaceWrite(op string, err error) { placesWritten.WithLabelValues(op, result(err)).Inc() }

func ObserveBooking(err error) { bookings.WithLabelValues(result(err)).Inc() }

func ObserveReceiptCheck(err error) { receiptChecks.WithLabelValues(result(err)).Inc() }

func ObservePhoto(source string, err error) { photosIngested.WithLabelValues(source, result(err)).Inc() }
