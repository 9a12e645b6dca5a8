package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	OTPIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_otp_issued_total",
		Help: "One-time codes issued by channel.",
	}, []string{"channel"})

	PasswordResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_password_resets_total",
		Help: "Password reset attempts by result.",
	}, []string{"result"})

	NotificationsFannedOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_fanned_out_total",
		Help: "Notifications written by booking fan-out.",
	})

	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uploads_total",
		Help: "Stored uploads by media type.",
	}, []string{"type"})
)

// Handler - эндпоинт /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
