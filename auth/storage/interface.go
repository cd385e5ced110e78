package storage

import (
	"context"
	"errors"

	"github.com/PeterRema/calendario-project/auth/users"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when an insert hits the unique email
	// constraint.
	ErrEmailTaken = errors.New("email already taken")
)

type AuthStorage interface {
	CreateUser(ctx context.Context, user users.User, secret users.Secret) error
	GetUser(ctx context.Context, id uuid.UUID) (users.User, error)
	GetUserByEmail(ctx context.Context, email string) (users.User, error)
	GetUserSecret(ctx context.Context, id uuid.UUID) (users.Secret, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, secret users.Secret, mustChange bool) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	ListUsers(ctx context.Context) ([]users.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	AppendAuditLog(ctx context.Context, entry users.AuditLogEntry) error
	ListAuditLog(ctx context.Context, actorID uuid.UUID) ([]users.AuditLogEntry, error)
}
