package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "condo_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Вход: result = success|invalid_credentials|no_role|error
	LoginCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_login_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	RegistrationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_registrations_total",
			Help: "Accounts created by role",
		},
		[]string{"role"},
	)

	// operation = create|update|delete
	ContractOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_contract_operations_total",
			Help: "Contract writes by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	PaymentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_payment_operations_total",
			Help: "Payment record writes by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	AccessDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_access_denied_total",
			Help: "Requests rejected by the authorization policy",
		},
		[]string{"route"},
	)
)

// Outcome — метка результата для счётчиков записи.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler — экспорт метрик для Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
