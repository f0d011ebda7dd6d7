package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/logger"
	"go.uber.org/zap"
)

// Recovery turns a panicking handler into a 500 with a generic toast
func Recovery(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.WithRequest(log, r.Method, r.URL.Path, r.Header.Get(RequestIDHeader)).Error("panic recovered",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(domain.APIError{
					Type:   domain.ErrorTypeInternal,
					Title:  http.StatusText(http.StatusInternalServerError),
					Status: http.StatusInternalServerError,
					Toast:  domain.ErrorToast("Something went wrong, please try again"),
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
