package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PeterRema/calendario-project/auth/storage"
	"github.com/PeterRema/calendario-project/auth/users"
	"github.com/PeterRema/calendario-project/internal/normalize"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTempPassword is handed out when an admin creates or resets an
// account without supplying a temporary password. The recipient must
// replace it before using anything else.
const DefaultTempPassword = "CambioSubito!123"

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// malformed login input alike, so a caller cannot tell whether an
	// email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password incorrect")
	ErrSelfDelete         = errors.New("admins cannot delete their own account")
	// ErrValidation wraps field-level input problems.
	ErrValidation = errors.New("invalid input")
)

type Service struct {
	storage storage.AuthStorage
	cfg     Config
	log     *logrus.Entry
}

func New(ctx context.Context, cfg Config, authStorage storage.AuthStorage, l *logrus.Logger) (*Service, error) {
	s := Service{
		cfg:     cfg,
		storage: authStorage,
		log: l.WithFields(map[string]interface{}{
			"from": "auth-service",
		}),
	}
	if cfg.AdminEmail != "" {
		if err := s.bootstrapAdmin(ctx); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// bootstrapAdmin creates the configured admin account on first start,
// with the default temporary password and the forced-change flag armed.
func (s *Service) bootstrapAdmin(ctx context.Context) error {
	email := normalize.Email(s.cfg.AdminEmail)
	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	hash, err := hashPassword(DefaultTempPassword)
	if err != nil {
		return err
	}
	admin := users.User{
		ID:                 uuid.New(),
		Name:               s.cfg.AdminName,
		Email:              email,
		Role:               users.RoleAdmin,
		MustChangePassword: true,
		CreatedAt:          time.Now(),
	}
	if err := s.storage.CreateUser(ctx, admin, users.Secret{PasswordHash: hash}); err != nil {
		return err
	}
	s.log.WithField("email", email).Info("bootstrap admin created")
	return nil
}

// Login verifies an email/password pair. Input failing shape validation
// is rejected before any storage access. The outcome for unknown email
// and wrong password is identical, and nothing is mutated or logged.
func (s *Service) Login(ctx context.Context, email string, password string) (users.User, error) {
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password, validation.Required, validation.Length(minPasswordLength, 0)),
	}.Filter()
	if err != nil {
		return users.User{}, ErrInvalidCredentials
	}
	user, err := s.storage.GetUserByEmail(ctx, normalize.Email(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return users.User{}, ErrInvalidCredentials
		}
		return users.User{}, err
	}
	secret, err := s.storage.GetUserSecret(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return users.User{}, ErrInvalidCredentials
		}
		return users.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(secret.PasswordHash), []byte(password)) != nil {
		return users.User{}, ErrInvalidCredentials
	}
	return user, nil
}

type jwtClaims struct {
	jwt.StandardClaims
	Role               string `json:"role"`
	MustChangePassword bool   `json:"mcp"`
}

func (s *Service) GenerateJWTCookie(user users.User, host string) (*fiber.Cookie, error) {
	expiresIn, err := time.ParseDuration(s.cfg.Expiration)
	if err != nil {
		return nil, err
	}
	expirationTime := time.Now().Add(expiresIn)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			IssuedAt:  time.Now().Unix(),
			Subject:   user.ID.String(),
		},
		Role:               string(user.Role),
		MustChangePassword: user.MustChangePassword,
	})
	tokenString, err := token.SignedString([]byte(s.cfg.Token))
	if err != nil {
		return nil, err
	}
	return &fiber.Cookie{
		Name:     "token",
		Value:    tokenString,
		Path:     "/",
		Domain:   host,
		Expires:  expirationTime,
		Secure:   false,
		HTTPOnly: true,
	}, nil
}

// UserFromToken decodes the session cookie and fails closed: an empty,
// malformed, expired, tampered or badly shaped token all read as "no
// session".
func (s *Service) UserFromToken(cookie string) (users.SessionClaims, bool) {
	if cookie == "" {
		return users.SessionClaims{}, false
	}
	claims := jwtClaims{}
	token, err := jwt.ParseWithClaims(cookie, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.Token), nil
	})
	if err != nil || !token.Valid {
		return users.SessionClaims{}, false
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return users.SessionClaims{}, false
	}
	role := users.Role(claims.Role)
	if role != users.RoleAdmin && role != users.RoleUser {
		return users.SessionClaims{}, false
	}
	return users.SessionClaims{
		UserID:             id,
		Role:               role,
		MustChangePassword: claims.MustChangePassword,
	}, true
}

// ChangePassword is the self-service flow and the only transition of
// MustChangePassword to false. It verifies the current password, stores
// the new hash and appends an audit entry.
func (s *Service) ChangePassword(ctx context.Context, actorID uuid.UUID, currentPassword string, newPassword string) error {
	err := validation.Errors{
		"currentPassword": validation.Validate(currentPassword, validation.Required),
		"newPassword":     validation.Validate(newPassword, validation.Required, validation.Length(minPasswordLength, 0)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	secret, err := s.storage.GetUserSecret(ctx, actorID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(secret.PasswordHash), []byte(currentPassword)) != nil {
		return ErrWrongPassword
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	err = s.storage.UpdatePassword(ctx, actorID, users.Secret{PasswordHash: hash}, false)
	if err != nil {
		return err
	}
	err = s.storage.AppendAuditLog(ctx, users.AuditLogEntry{
		ID:         uuid.New(),
		ActorID:    actorID,
		EntityType: users.EntityUser,
		EntityID:   actorID,
		Action:     users.ActionChangePassword,
		Payload:    "{}",
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return err
	}
	s.log.WithField("user", actorID).Info("password changed")
	return nil
}

// ResetPassword is the administrative flow: no current-password check,
// and the forced-change flag is always re-armed. The temporary password
// is returned in plaintext exactly once.
func (s *Service) ResetPassword(ctx context.Context, targetID uuid.UUID, tempPassword string) (string, error) {
	if tempPassword == "" {
		tempPassword = DefaultTempPassword
	}
	hash, err := hashPassword(tempPassword)
	if err != nil {
		return "", err
	}
	err = s.storage.UpdatePassword(ctx, targetID, users.Secret{PasswordHash: hash}, true)
	if err != nil {
		return "", err
	}
	s.log.WithField("user", targetID).Info("password reset by admin")
	return tempPassword, nil
}

func (s *Service) CreateUser(ctx context.Context, name string, email string, role string, tempPassword string) (users.User, string, error) {
	name = normalize.Name(name)
	email = normalize.Email(email)
	err := validation.Errors{
		"name":  validation.Validate(name, validation.Required),
		"email": validation.Validate(email, validation.Required, is.Email),
	}.Filter()
	if err != nil {
		return users.User{}, "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if tempPassword == "" {
		tempPassword = DefaultTempPassword
	}
	hash, err := hashPassword(tempPassword)
	if err != nil {
		return users.User{}, "", err
	}
	user := users.User{
		ID:                 uuid.New(),
		Name:               name,
		Email:              email,
		Role:               users.ParseRole(role),
		MustChangePassword: true,
		CreatedAt:          time.Now(),
	}
	err = s.storage.CreateUser(ctx, user, users.Secret{PasswordHash: hash})
	if err != nil {
		return users.User{}, "", err
	}
	s.log.WithField("user", user.ID).Info("user created")
	return user, tempPassword, nil
}

func (s *Service) DeleteUser(ctx context.Context, actorID uuid.UUID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfDelete
	}
	err := s.storage.DeleteUser(ctx, targetID)
	if err != nil {
		return err
	}
	s.log.WithField("user", targetID).Info("user deleted")
	return nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (users.User, error) {
	return s.storage.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]users.User, error) {
	return s.storage.ListUsers(ctx)
}

func (s *Service) UpdateName(ctx context.Context, id uuid.UUID, name string) (users.User, error) {
	name = normalize.Name(name)
	if err := validation.Validate(name, validation.Required); err != nil {
		return users.User{}, fmt.Errorf("%w: name: %v", ErrValidation, err)
	}
	if err := s.storage.UpdateName(ctx, id, name); err != nil {
		return users.User{}, err
	}
	return s.storage.GetUser(ctx, id)
}

func (s *Service) AuditTrail(ctx context.Context, actorID uuid.UUID) ([]users.AuditLogEntry, error) {
	return s.storage.ListAuditLog(ctx, actorID)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
