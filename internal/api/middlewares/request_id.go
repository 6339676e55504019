package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"spendtrack/pkg/utils"
)

// RequestID tags every request with a UUID, logs start and completion, and
// exposes the ID to handlers through the context and the X-Request-ID
// response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), utils.ContextKey("requestId"), requestID)

		utils.Logger.WithField("request_id", requestID).
			Infof("%s %s started", r.Method, r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))

		utils.Logger.WithField("request_id", requestID).
			Infof("%s %s completed in %dms", r.Method, r.URL.Path, time.Since(start).Milliseconds())
	})
}
