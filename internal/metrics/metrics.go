package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_client_requests_total",
			Help: "Outbound ERP API requests by method, endpoint and status code",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "erp_client_request_duration_seconds",
			Help:    "Outbound ERP API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RoundTripper observes every outbound request. Endpoint is the URL
// path; ids embedded in the path are not stripped, which matches how
// the backend shapes its routes (identifiers sit in the body except
// for the few :umi/:mpn routes, an accepted cardinality cost).
type RoundTripper struct {
	Next http.RoundTripper
}

func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	next := rt.Next
	if next == nil {
		next = http.DefaultTransport
	}

	start := time.Now()
	resp, err := next.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	APIRequestsTotal.WithLabelValues(req.Method, req.URL.Path, status).Inc()
	APIRequestDuration.WithLabelValues(req.Method, req.URL.Path).Observe(duration)

	return resp, err
}

// Serve exposes /metrics on addr. Blocks; callers run it in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
