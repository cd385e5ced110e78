package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PeterRema/calendario-project/auth/gen/model"
	"github.com/PeterRema/calendario-project/auth/gen/table"
	"github.com/PeterRema/calendario-project/auth/service"
	"github.com/PeterRema/calendario-project/auth/storage"
	"github.com/PeterRema/calendario-project/auth/users"
	migrations "github.com/PeterRema/calendario-project/internal/migrate"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.AuthStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg service.Config) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "auth-storage",
	})
	db, err := sql.Open("sqlite3", buildSource(cfg.SqliteFile))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = migrations.UpAuthDB(db)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}
	log.Info("auth storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func (s *Storage) CreateUser(ctx context.Context, user users.User, secret users.Secret) error {
	dbUser := model.Users{
		ID:                 user.ID.String(),
		Name:               user.Name,
		Email:              user.Email,
		PasswordHash:       secret.PasswordHash,
		Role:               string(user.Role),
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          user.CreatedAt,
	}
	_, err := table.Users.INSERT(table.Users.AllColumns).MODEL(dbUser).ExecContext(ctx, s.db)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return storage.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (users.User, error) {
	var dbUser model.Users
	err := table.Users.
		SELECT(table.Users.AllColumns.Except(table.Users.PasswordHash)).
		FROM(table.Users).
		WHERE(table.Users.ID.EQ(sqlite.UUID(id))).
		QueryContext(ctx, s.db, &dbUser)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return users.User{}, storage.ErrNotFound
		}
		return users.User{}, err
	}
	return convertUserToModel(dbUser)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	var dbUser model.Users
	err := table.Users.
		SELECT(table.Users.AllColumns.Except(table.Users.PasswordHash)).
		FROM(table.Users).
		WHERE(table.Users.Email.EQ(sqlite.String(email))).
		QueryContext(ctx, s.db, &dbUser)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return users.User{}, storage.ErrNotFound
		}
		return users.User{}, err
	}
	return convertUserToModel(dbUser)
}

func (s *Storage) GetUserSecret(ctx context.Context, id uuid.UUID) (users.Secret, error) {
	var dbUser model.Users
	err := table.Users.
		SELECT(table.Users.PasswordHash).
		FROM(table.Users).
		WHERE(table.Users.ID.EQ(sqlite.UUID(id))).
		QueryContext(ctx, s.db, &dbUser)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return users.Secret{}, storage.ErrNotFound
		}
		return users.Secret{}, err
	}
	return users.Secret{PasswordHash: dbUser.PasswordHash}, nil
}

func (s *Storage) UpdatePassword(ctx context.Context, id uuid.UUID, secret users.Secret, mustChange bool) error {
	res, err := table.Users.
		UPDATE(table.Users.PasswordHash, table.Users.MustChangePassword).
		SET(sqlite.String(secret.PasswordHash), sqlite.Bool(mustChange)).
		WHERE(table.Users.ID.EQ(sqlite.UUID(id))).
		ExecContext(ctx, s.db)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *Storage) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	res, err := table.Users.
		UPDATE(table.Users.Name).
		SET(sqlite.String(name)).
		WHERE(table.Users.ID.EQ(sqlite.UUID(id))).
		ExecContext(ctx, s.db)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *Storage) ListUsers(ctx context.Context) ([]users.User, error) {
	var dbUsers []model.Users
	err := table.Users.
		SELECT(table.Users.AllColumns.Except(table.Users.PasswordHash)).
		FROM(table.Users).
		ORDER_BY(table.Users.CreatedAt.DESC()).
		QueryContext(ctx, s.db, &dbUsers)
	if err != nil {
		return nil, err
	}
	list := make([]users.User, 0, len(dbUsers))
	for _, dbUser := range dbUsers {
		u, err := convertUserToModel(dbUser)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := table.Users.
		DELETE().
		WHERE(table.Users.ID.EQ(sqlite.UUID(id))).
		ExecContext(ctx, s.db)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *Storage) AppendAuditLog(ctx context.Context, entry users.AuditLogEntry) error {
	dbEntry := model.AuditLog{
		ID:         entry.ID.String(),
		ActorID:    entry.ActorID.String(),
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID.String(),
		Action:     string(entry.Action),
		Payload:    entry.Payload,
		CreatedAt:  entry.CreatedAt,
	}
	_, err := table.AuditLog.INSERT(table.AuditLog.AllColumns).MODEL(dbEntry).ExecContext(ctx, s.db)
	return err
}

func (s *Storage) ListAuditLog(ctx context.Context, actorID uuid.UUID) ([]users.AuditLogEntry, error) {
	var dbEntries []model.AuditLog
	err := table.AuditLog.
		SELECT(table.AuditLog.AllColumns).
		FROM(table.AuditLog).
		WHERE(table.AuditLog.ActorID.EQ(sqlite.UUID(actorID))).
		ORDER_BY(table.AuditLog.CreatedAt.ASC()).
		QueryContext(ctx, s.db, &dbEntries)
	if err != nil {
		return nil, err
	}
	entries := make([]users.AuditLogEntry, 0, len(dbEntries))
	for _, dbEntry := range dbEntries {
		e, err := convertAuditToModel(dbEntry)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func convertUserToModel(user model.Users) (users.User, error) {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return users.User{}, err
	}
	return users.User{
		ID:                 id,
		Name:               user.Name,
		Email:              user.Email,
		Role:               users.ParseRole(user.Role),
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          user.CreatedAt,
	}, nil
}

func convertAuditToModel(entry model.AuditLog) (users.AuditLogEntry, error) {
	id, err := uuid.Parse(entry.ID)
	if err != nil {
		return users.AuditLogEntry{}, err
	}
	actorID, err := uuid.Parse(entry.ActorID)
	if err != nil {
		return users.AuditLogEntry{}, err
	}
	entityID, err := uuid.Parse(entry.EntityID)
	if err != nil {
		return users.AuditLogEntry{}, err
	}
	return users.AuditLogEntry{
		ID:         id,
		ActorID:    actorID,
		EntityType: users.EntityType(entry.EntityType),
		EntityID:   entityID,
		Action:     users.AuditAction(entry.Action),
		Payload:    entry.Payload,
		CreatedAt:  entry.CreatedAt,
	}, nil
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared"
}
