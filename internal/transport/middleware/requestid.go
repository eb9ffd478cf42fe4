package middleware

import (
	"context"
	"net/http"

	"github.com/mfirmanda/helpdesk-management/pkg/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		// inject into context; chi's key keeps GetReqID working downstream
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, requestID)
		ctx = logger.With(ctx, "requestID", requestID)

		// propagate back to response
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
