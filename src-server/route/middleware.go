package route

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type RequestIDCtxKeyType string

const (
	RequestIDCtxKey    RequestIDCtxKeyType = "request-id"
	RequestIDHeaderKey string              = "X-Request-ID"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LogMiddleware stamps every request with an ID, echoed back in the
// X-Request-ID header, and logs it once served.
func LogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set(RequestIDHeaderKey, requestID)

		startTimer := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), RequestIDCtxKey, requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		slog.Debug("http request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(startTimer),
		)
	})
}
