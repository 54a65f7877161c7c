// Package domain holds identifier types and value primitives shared by every
// bounded context. Parsing happens once at the trust boundary; after that the
// compiler keeps an ApplicationID from being passed where an ActorID belongs.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "donorhub/pkg/domain-errors"
)

// maxIDLength bounds input before it reaches uuid.Parse.
const maxIDLength = 64

type (
	// ApplicationID identifies a donor or hospital application record.
	ApplicationID uuid.UUID
	// ActorID identifies the staff member, admin or super-admin deciding on an application.
	ActorID uuid.UUID
	// DrawID identifies one executed prize draw.
	DrawID uuid.UUID
	// EventID identifies an emitted domain or audit event.
	EventID uuid.UUID
)

func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id ApplicationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ActorID) String() string { return uuid.UUID(id).String() }
func (id ActorID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id DrawID) String() string { return uuid.UUID(id).String() }
func (id DrawID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id EventID) String() string { return uuid.UUID(id).String() }
func (id EventID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ApplicationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ActorID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id DrawID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id EventID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }

func (id *ApplicationID) UnmarshalText(b []byte) error { return unmarshalUUID(b, (*uuid.UUID)(id)) }
func (id *ActorID) UnmarshalText(b []byte) error       { return unmarshalUUID(b, (*uuid.UUID)(id)) }
func (id *DrawID) UnmarshalText(b []byte) error        { return unmarshalUUID(b, (*uuid.UUID)(id)) }
func (id *EventID) UnmarshalText(b []byte) error       { return unmarshalUUID(b, (*uuid.UUID)(id)) }

func unmarshalUUID(b []byte, dst *uuid.UUID) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid UUID")
	}
	*dst = u
	return nil
}

// NewApplicationID returns a fresh random ApplicationID.
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }

// NewDrawID returns a fresh random DrawID.
func NewDrawID() DrawID { return DrawID(uuid.New()) }

// NewEventID returns a fresh random EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application_id")
	return ApplicationID(u), err
}

func ParseActorID(s string) (ActorID, error) {
	u, err := parseUUID(s, "actor_id")
	return ActorID(u), err
}

func ParseDrawID(s string) (DrawID, error) {
	u, err := parseUUID(s, "draw_id")
	return DrawID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be the nil UUID")
	}
	return u, nil
}
