package models

import (
	"time"

	dErrors "donorhub/pkg/domain-errors"
)

// Window is the recurring prize-draw countdown. It is a plain value: every
// question about it is answered from the caller's clock.
type Window struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

func NewWindow(startedAt time.Time, duration time.Duration) (Window, error) {
	if duration <= 0 {
		return Window{}, dErrors.New(dErrors.CodeInvariantViolation, "draw window duration must be positive")
	}
	return Window{StartedAt: startedAt, Duration: duration}, nil
}

// EndsAt is the instant the window's remaining time reaches zero.
func (w Window) EndsAt() time.Time {
	return w.StartedAt.Add(w.Duration)
}

// Remaining is max(0, duration - (now - startedAt)).
func (w Window) Remaining(now time.Time) time.Duration {
	left := w.Duration - now.Sub(w.StartedAt)
	if left < 0 {
		return 0
	}
	return left
}

func (w Window) IsDue(now time.Time) bool {
	return w.Remaining(now) == 0
}

// Advance starts the next window at now with the same duration. It fails with
// CodePrematureAdvance while time remains.
func (w Window) Advance(now time.Time) (Window, error) {
	if !w.IsDue(now) {
		return Window{}, dErrors.New(dErrors.CodePrematureAdvance, "draw window has not elapsed")
	}
	return Window{StartedAt: now, Duration: w.Duration}, nil
}
