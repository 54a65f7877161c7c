package models

import (
	"strings"
	"time"
)

// Record counts failed logins for one email and client address within a window.
type Record struct {
	Key            string     `json:"key"`
	FailureCount   int        `json:"failure_count"`
	FirstFailureAt time.Time  `json:"first_failure_at"`
	LastFailureAt  time.Time  `json:"last_failure_at"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
}

// Key joins the lowercased email and the client IP. An unknown IP still
// yields a per-email key.
func Key(email, ip string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "|" + strings.TrimSpace(ip)
}

func (r *Record) IsLockedAt(now time.Time) bool {
	return r.LockedUntil != nil && now.Before(*r.LockedUntil)
}

// WindowElapsedAt reports whether the counting window that began at the first
// failure has closed.
func (r *Record) WindowElapsedAt(now time.Time, window time.Duration) bool {
	return !r.FirstFailureAt.IsZero() && now.Sub(r.FirstFailureAt) > window
}

// Policy bounds failed logins.
type Policy struct {
	Attempts     int
	Window       time.Duration
	LockDuration time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Attempts: 5, Window: 15 * time.Minute, LockDuration: 15 * time.Minute}
}

// Enabled is false when Attempts is zero or negative.
func (p Policy) Enabled() bool {
	return p.Attempts > 0
}
