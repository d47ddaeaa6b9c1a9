// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    // ReservationsTotal counts reservation attempts by outcome
    // (success, validation, window, capacity, database).
    ReservationsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "meal_reservations_total",
            Help: "Total number of meal reservation attempts",
        },
        []string{"meal_type", "outcome"},
    )

    TicketsBookedTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "meal_tickets_booked_total",
            Help: "Total number of meal tickets written to the bookings table",
        },
        []string{"hall", "meal_type"},
    )

    // PaymentsTotal counts payment page submissions by method
    // (Cancel, Pay with bKash, Pay with Rocket).
    PaymentsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "meal_payments_total",
            Help: "Total number of processed payment page actions",
        },
        []string{"method"},
    )

    BookingsResetTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "meal_bookings_reset_total",
            Help: "Total number of booking rows removed by date resets",
        },
        []string{"trigger"},
    )

    CountsCacheTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "meal_counts_cache_total",
            Help: "Counts cache lookups by result",
        },
        []string{"result"},
    )

    EventsPublishedTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "meal_events_published_total",
            Help: "Meal booking events published to the broker",
        },
        []string{"status", "result"},
    )

    HTTPRequestDuration = promauto.NewHistogramVec(
        prometheus.HistogramOpts{
            Name:    "http_request_duration_seconds",
            Help:    "HTTP request duration in seconds",
            Buckets: prometheus.DefBuckets,
        },
        []string{"path", "method", "status"},
    )
)
