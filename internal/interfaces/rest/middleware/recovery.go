package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest"
)

// Recovery converts handler panics into 500 responses. A panic mid-payment
// must not tear down the listener: other orders are still in flight and the
// recheck worker relies on the process staying up.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer recoverRequest(w, r, logger)
			next.ServeHTTP(w, r)
		})
	}
}

func recoverRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	rec := recover()
	if rec == nil {
		return
	}

	logger.Error("panic recovered",
		"panic", rec,
		"method", r.Method,
		"path", r.URL.Path,
		"stack", string(debug.Stack()),
	)

	rest.WriteError(w, application.NewInternalError(fmt.Errorf("panic: %v", rec)), logger)
}
