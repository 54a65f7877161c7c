package testutil

import (
	"net/http"
	"time"

	id "donorhub/pkg/domain"
	adminmw "donorhub/pkg/platform/middleware/admin"
	"donorhub/pkg/requestcontext"
)

// WithSubject adds an authenticated subject (a DNR- or HSP- identifier) to the request context.
// This simulates what RequireSession does after validating a session token.
func WithSubject(req *http.Request, subject string) *http.Request {
	if subject == "" {
		return req
	}
	return req.WithContext(requestcontext.WithSubject(req.Context(), subject))
}

// WithActor adds the acting staff member to the request context.
// Invalid IDs are silently ignored.
func WithActor(req *http.Request, actorID string) *http.Request {
	if parsed, err := id.ParseActorID(actorID); err == nil {
		return req.WithContext(requestcontext.WithActorID(req.Context(), parsed))
	}
	return req
}

// WithAdminToken sets the admin header checked by RequireAdminToken.
func WithAdminToken(req *http.Request, token string) *http.Request {
	req.Header.Set(adminmw.HeaderAdminToken, token)
	return req
}

// WithRequestTime pins requestcontext.Now for the request.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
