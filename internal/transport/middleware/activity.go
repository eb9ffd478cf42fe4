package middleware

import (
	"net/http"

	"github.com/mfirmanda/helpdesk-management/internal/auth"
)

// ActivityRecorder persists one request-level activity entry.
type ActivityRecorder interface {
	RecordActivity(userID, username, method, path string, status int, ip, userAgent string)
}

// ActivityMiddleware records mutating requests against the activity log.
// GET/HEAD traffic is skipped; the log tracks actions, not reads.
func ActivityMiddleware(recorder ActivityRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			ww := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			status := ww.statusCode
			if status == 0 {
				status = http.StatusOK
			}

			var userID, username string
			if user, ok := auth.UserFromContext(r.Context()); ok && user != nil {
				userID = user.ID
				username = user.Username
			}

			recorder.RecordActivity(userID, username, r.Method, r.URL.Path, status, r.RemoteAddr, r.UserAgent())
		})
	}
}
