package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const requestIdKey key = 1

const RequestIdHeader = "X-Request-Id"

// RequestId tags each request with an id, honoring one supplied by an
// upstream proxy, and echoes it in the response.
func RequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIdHeader, id)
		ctx := context.WithValue(r.Context(), requestIdKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIdFromContext returns the request id, or "" outside a request.
func RequestIdFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey).(string)
	return id
}
