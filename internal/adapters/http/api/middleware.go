package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/msi/pkg/metrics"
)

// Instrument records request count, latency and error class for one route.
func Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		began := time.Now()
		next(rec, r)
		elapsed := float64(time.Since(began).Microseconds()) / 1000

		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(route, r.Method, code)
		metrics.RecordHTTPRequestDuration(route, r.Method, code, elapsed)
		if class := errorClass(rec.status); class != "" {
			metrics.RecordHTTPError(route, r.Method, class)
		}
	}
}

// errorClass buckets failing statuses; it is empty for successes.
func errorClass(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return ""
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
