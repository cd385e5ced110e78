package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole maps anything that is not exactly "ADMIN" to RoleUser.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID                 uuid.UUID
	Name               string
	Email              string
	Role               Role
	MustChangePassword bool
	CreatedAt          time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SessionClaims is the identity snapshot embedded in a session token.
// It is issued at login and stays as-is until the token expires, even if
// the stored user changes in the meantime.
type SessionClaims struct {
	UserID             uuid.UUID
	Role               Role
	MustChangePassword bool
}

func (c SessionClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Secret holds the stored password hash. It never leaves the auth
// storage/service boundary.
type Secret struct {
	PasswordHash string
}
