package audit

import (
	"context"
	"time"

	id "donorhub/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers decisions with record-keeping significance:
	// application approvals, rejections and deletions.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers authentication outcomes and admin changes to scoring rules.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity such as registrations and recorded donations.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        id.EventID
	Category  EventCategory
	Timestamp time.Time
	// Subject is the entity acted on: an application ID, a DNR-/HSP- identifier,
	// a blood type or a draw ID.
	Subject  string
	Action   string
	Decision string
	Reason   string
	// ActorID is the staff member who performed the action, when there is one.
	ActorID     string
	RequestID   string
	ClientAgent string
}

type AuditEvent string

const (
	// Registration events
	EventDonorRegistered    AuditEvent = "donor_registered"
	EventHospitalRegistered AuditEvent = "hospital_registered"

	// Approval events
	EventApplicationApproved AuditEvent = "application_approved"
	EventApplicationRejected AuditEvent = "application_rejected"
	EventApplicationEdited   AuditEvent = "application_edited"
	EventApplicationDeleted  AuditEvent = "application_deleted"

	// Session events
	EventLoginSucceeded AuditEvent = "login_succeeded"
	EventLoginFailed    AuditEvent = "login_failed"
	EventLoginLocked    AuditEvent = "login_locked"

	// Incentive events
	EventDonationRecorded AuditEvent = "donation_recorded"
	EventShortageFlagged  AuditEvent = "shortage_flagged"
	EventShortageCleared  AuditEvent = "shortage_cleared"

	// Draw events
	EventDrawCompleted AuditEvent = "draw_completed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventApplicationApproved: CategoryCompliance,
	EventApplicationRejected: CategoryCompliance,
	EventApplicationDeleted:  CategoryCompliance,
	EventDrawCompleted:       CategoryCompliance,

	EventLoginFailed:     CategorySecurity,
	EventLoginLocked:     CategorySecurity,
	EventShortageFlagged: CategorySecurity,
	EventShortageCleared: CategorySecurity,

	EventDonorRegistered:    CategoryOperations,
	EventHospitalRegistered: CategoryOperations,
	EventApplicationEdited:  CategoryOperations,
	EventLoginSucceeded:     CategoryOperations,
	EventDonationRecorded:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
