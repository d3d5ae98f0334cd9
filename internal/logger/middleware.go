package logger

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to each API request
const RequestIDHeader = "X-Request-ID"

// statusRecorder captures the status code and body size of a response
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// HTTPMiddleware logs one line per request, tagged with the request id and,
// for run routes, the run id
func HTTPMiddleware(log *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			fields := map[string]interface{}{
				"request_id": requestID,
				"status":     rec.status,
				"size":       rec.size,
			}
			if runID := r.PathValue("id"); runID != "" {
				fields["run_id"] = runID
			}

			var reqLog *Logger
			if log.zap != nil {
				reqLog = log.zap.WithHTTPRequest(r).WithDuration(elapsed).WithFields(fields)
			} else {
				fields["method"] = r.Method
				fields["path"] = r.URL.Path
				fields["duration_ms"] = float64(elapsed.Nanoseconds()) / 1e6
				reqLog = log.WithFields(fields)
			}

			switch {
			case rec.status >= http.StatusInternalServerError:
				reqLog.Error("Request failed with server error")
			case rec.status >= http.StatusBadRequest:
				reqLog.Warn("Request failed with client error")
			default:
				reqLog.Info("Request completed")
			}
		})
	}
}
