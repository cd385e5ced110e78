package postgres

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strconv"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // postgresql driver

	"github.com/PeterRema/calendario-project/auth/service"
	"github.com/PeterRema/calendario-project/auth/storage"
	"github.com/PeterRema/calendario-project/auth/users"
	"github.com/PeterRema/calendario-project/gen/auth/public/model"
	"github.com/PeterRema/calendario-project/gen/auth/public/table"

	"github.com/google/uuid"
)

const uniqueViolation = "23505"

type Storage struct {
	db *sql.DB
}

var _ storage.AuthStorage = (*Storage)(nil)

func New(ctx context.Context, cfg service.Config) (*Storage, error) {
	db, err := sql.Open("pgx", NewURLConnectionString(
		"postgres",
		cfg.Storage.Host+":"+strconv.Itoa(cfg.Storage.Port),
		cfg.Storage.DBName,
		cfg.Storage.Username,
		cfg.Storage.Password,
	))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

func NewURLConnectionString(scheme string, host string, dbName string, user string, password string) string {
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(user, password),
		Host:   host,
		Path:   dbName,
	}
	return u.String()
}

func (s *Storage) CreateUser(ctx context.Context, user users.User, secret users.Secret) error {
	_, err := inTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		dbUser := model.Users{
			ID:                 user.ID.String(),
			Name:               user.Name,
			Email:              user.Email,
			PasswordHash:       secret.PasswordHash,
			Role:               string(user.Role),
			MustChangePassword: user.MustChangePassword,
			CreatedAt:          user.CreatedAt,
		}
		_, err := table.Users.INSERT(table.Users.AllColumns).MODEL(dbUser).ExecContext(ctx, tx)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return struct{}{}, storage.ErrEmailTaken
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	return err
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (users.User, error) {
	return inTx(ctx, s.db, func(tx *sql.Tx) (users.User, error) {
		var dbUser model.Users
		err := table.Users.
			SELECT(table.Users.AllColumns.Except(table.Users.PasswordHash)).
			FROM(table.Users).
			WHERE(table.Users.ID.EQ(postgres.UUID(id))).
			QueryContext(ctx, tx, &dbUser)
		if err != nil {
			if errors.Is(err, qrm.ErrNoRows) {
				return users.User{}, storage.ErrNotFound
			}
			return users.User{}, err
		}
		return convertUserToModel(dbUser)
	})
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	return inTx(ctx, s.db, func(tx *sql.Tx) (users.User, error) {
		var dbUser model.Users
		err := table.Users.
			SELECT(table.Users.AllColumns.Except(table.Users.PasswordHash)).
			FROM(table.Users).
			WHERE(table.Users.Email.EQ(postgres.String(email))).
			QueryContext(ctx, tx, &dbUser)
		if err != nil {
			if errors.Is(err, qrm.ErrNoRows) {
				return users.User{}, storage.ErrNotFound
			}
			return users.User{}, err
		}
		return convertUserToModel(dbUser)
	})
}

func (s *Storage) GetUserSecret(ctx context.Context, id uuid.UUID) (users.Secret, error) {
	return inTx(ctx, s.db, func(tx *sql.Tx) (users.Secret, error) {
		var dbUser model.Users
		err := table.Users.
			SELECT(table.Users.PasswordHash).
			FROM(table.Users).
			WHERE(table.Users.ID.EQ(postgres.UUID(id))).
			QueryContext(ctx, tx, &dbUser)
		if err != nil {
			if errors.Is(err, qrm.ErrNoRows) {
				return users.Secret{}, storage.ErrNotFound
			}
			return users.Secret{}, err
		}
		return users.Secret{PasswordHash: dbUser.PasswordHash}, nil
	})
}

func (s *Storage) UpdatePassword(ctx context.Context, id uuid.UUID, secret users.Secret, mustChange bool) error {
	_, err := inTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		res, err := table.Users.
			UPDATE(table.Users.PasswordHash, table.Users.MustChangePassword).
			SET(postgres.String(secret.PasswordHash), postgres.Bool(mustChange)).
			WHERE(table.Users.ID.EQ(postgres.UUID(id))).
			ExecContext(ctx, tx)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, checkAffected(res)
	})
	return err
}

func (s *Storage) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	_, err := inTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		res, err := table.Users.
			UPDATE(table.Users.Name).
			SET(postgres.String(name)).
			WHERE(table.Users.ID.EQ(postgres.UUID(id))).
			ExecContext(ctx, tx)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, checkAffected(res)
	})
	return err
}

func (s *Storage) ListUsers(ctx context.Context) ([]users.User, error) {
	return inTx(ctx, s.db, func(tx *sql.Tx) ([]users.User, error) {
		var dbUsers []model.Users
		err := table.Users.
			SELECT(table.Users.AllColumns.Except(table.Users.PasswordHash)).
			FROM(table.Users).
			ORDER_BY(table.Users.CreatedAt.DESC()).
			QueryContext(ctx, tx, &dbUsers)
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
	})
}

func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := inTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		res, err := table.Users.
			DELETE().
			WHERE(table.Users.ID.EQ(postgres.UUID(id))).
			ExecContext(ctx, tx)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, checkAffected(res)
	})
	return err
}

func (s *Storage) AppendAuditLog(ctx context.Context, entry users.AuditLogEntry) error {
	_, err := inTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		dbEntry := model.AuditLog{
			ID:         entry.ID.String(),
			ActorID:    entry.ActorID.String(),
			EntityType: string(entry.EntityType),
			EntityID:   entry.EntityID.String(),
			Action:     string(entry.Action),
			Payload:    entry.Payload,
			CreatedAt:  entry.CreatedAt,
		}
		_, err := table.AuditLog.INSERT(table.AuditLog.AllColumns).MODEL(dbEntry).ExecContext(ctx, tx)
		return struct{}{}, err
	})
	return err
}

func (s *Storage) ListAuditLog(ctx context.Context, actorID uuid.UUID) ([]users.AuditLogEntry, error) {
	return inTx(ctx, s.db, func(tx *sql.Tx) ([]users.AuditLogEntry, error) {
		var dbEntries []model.AuditLog
		err := table.AuditLog.
			SELECT(table.AuditLog.AllColumns).
			FROM(table.AuditLog).
			WHERE(table.AuditLog.ActorID.EQ(postgres.UUID(actorID))).
			ORDER_BY(table.AuditLog.CreatedAt.ASC()).
			QueryContext(ctx, tx, &dbEntries)
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
	})
}

func inTx[T any](ctx context.Context, db *sql.DB, f func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	v, err := f(tx)
	if err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return v, nil
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
