package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	id "donorhub/pkg/domain"
	request "donorhub/pkg/platform/middleware/request"
	"donorhub/pkg/requestcontext"
)

const (
	// HeaderAdminToken carries the shared staff/admin token.
	HeaderAdminToken = "X-Admin-Token"
	// HeaderAdminActor names the staff member acting, as a UUID.
	HeaderAdminActor = "X-Admin-Actor"
)

// RequireAdminToken gates staff routes on the shared token. A well-formed
// X-Admin-Actor header is stored in the context as the acting ActorID.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(HeaderAdminToken)
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}
			if raw := r.Header.Get(HeaderAdminActor); raw != "" {
				actorID, err := id.ParseActorID(raw)
				if err != nil {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusBadRequest)
					_, _ = w.Write([]byte(`{"error":"bad_request","error_description":"X-Admin-Actor must be a UUID"}`))
					return
				}
				ctx = requestcontext.WithActorID(ctx, actorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
