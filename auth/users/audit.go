package users

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const ActionChangePassword AuditAction = "CHANGE_PASSWORD"

type EntityType string

const EntityUser EntityType = "USER"

// AuditLogEntry is an append-only record of a sensitive action.
type AuditLogEntry struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	Action     AuditAction
	Payload    string
	CreatedAt  time.Time
}
