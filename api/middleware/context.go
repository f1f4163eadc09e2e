package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hospicare/hospicare-backend/pkg/logger"
)

type contextKey string

const (
	ctxActorID    contextKey = "actor_id"
	ctxHospitalID contextKey = "hospital_id"
)

const (
	actorIDHeader    = "X-Actor-Id"
	hospitalIDHeader = "X-Hospital-Id"
)

func ActorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorID).(string); ok {
		return v
	}
	return ""
}

func HospitalIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxHospitalID).(string); ok {
		return v
	}
	return ""
}

// WithActorID injects the acting staff member's identifier into the context.
func WithActorID(ctx context.Context, actorID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActorID, actorID)
}

// WithHospitalID injects the hospital identifier into the context for downstream handlers.
func WithHospitalID(ctx context.Context, hospitalID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxHospitalID, hospitalID)
}

// ActorContext lifts the caller identity headers into the request context so
// idempotency scoping and log correlation see them. The headers are optional;
// upstream gateways own authentication.
func ActorContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if actorID := strings.TrimSpace(r.Header.Get(actorIDHeader)); actorID != "" {
				ctx = WithActorID(ctx, actorID)
			}
			if hospitalID := strings.TrimSpace(r.Header.Get(hospitalIDHeader)); hospitalID != "" {
				ctx = WithHospitalID(ctx, hospitalID)
				if logg != nil {
					ctx = logg.WithHospitalID(ctx, hospitalID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
