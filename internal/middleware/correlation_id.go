package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/logging"
)

const HeaderCorrelationID = "X-Correlation-Id"

type ctxKey string

const ctxCorrelationID ctxKey = "correlation_id"

// CorrelationID reuses the caller's X-Correlation-Id or generates one, echoes
// it on the response and stores it, together with a request logger carrying
// it, in the request context.
func CorrelationID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := r.Header.Get(HeaderCorrelationID)
			if cid == "" {
				cid = uuid.NewString()
			}

			// expose to client + propagate downstream
			w.Header().Set(HeaderCorrelationID, cid)

			ctx := WithCorrelationID(r.Context(), cid)
			ctx = logging.ContextWithLogger(ctx, logging.FromContext(ctx, logger).With(zap.String("correlation_id", cid)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, ctxCorrelationID, cid)
}

func GetCorrelationID(ctx context.Context) string {
	if v := ctx.Value(ctxCorrelationID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
