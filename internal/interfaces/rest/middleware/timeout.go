package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest"
)

// Timeout bounds each request: the context deadline stops downstream work
// (Amazon calls, database queries) and http.TimeoutHandler answers for
// handlers that overrun. The timeout body uses the standard error envelope
// so gateway clients can parse it like any other failure.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	body, _ := json.Marshal(rest.ErrorResponse{
		Error: rest.ErrorDetail{
			Code:    "TIMEOUT",
			Message: "request timed out",
		},
	})

	return func(next http.Handler) http.Handler {
		bounded := http.TimeoutHandler(next, timeout, string(body))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			bounded.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
