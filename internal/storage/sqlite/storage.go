package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PeterRema/calendario-project/gen/model"
	"github.com/PeterRema/calendario-project/gen/table"
	"github.com/PeterRema/calendario-project/internal/domain"
	migrations "github.com/PeterRema/calendario-project/internal/migrate"
	"github.com/PeterRema/calendario-project/internal/storage"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"
)

type Storage struct {
	db *sql.DB
}

var _ storage.ActivityStorage = (*Storage)(nil)

func New(fileName string) (*Storage, error) {
	db, err := sql.Open("sqlite3", "file:"+fileName+"?cache=shared")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	err = migrations.UpServerDB(db)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Create(ctx context.Context, activity domain.Activity) error {
	_, err := table.Activities.
		INSERT(table.Activities.AllColumns).
		MODEL(convertActivityToDB(activity)).
		ExecContext(ctx, s.db)
	return err
}

func (s *Storage) Get(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	var dbActivity model.Activities
	err := table.Activities.
		SELECT(table.Activities.AllColumns).
		FROM(table.Activities).
		WHERE(table.Activities.ID.EQ(sqlite.UUID(id))).
		QueryContext(ctx, s.db, &dbActivity)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return domain.Activity{}, storage.ErrNotFound
		}
		return domain.Activity{}, err
	}
	return convertActivityToDomain(dbActivity)
}

func (s *Storage) Update(ctx context.Context, activity domain.Activity) error {
	dbActivity := convertActivityToDB(activity)
	res, err := table.Activities.
		UPDATE(table.Activities.Type, table.Activities.StartDate, table.Activities.EndDate, table.Activities.Note).
		MODEL(dbActivity).
		WHERE(table.Activities.ID.EQ(sqlite.UUID(activity.ID))).
		ExecContext(ctx, s.db)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := table.Activities.
		DELETE().
		WHERE(table.Activities.ID.EQ(sqlite.UUID(id))).
		ExecContext(ctx, s.db)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) List(ctx context.Context, filter storage.Filter) ([]domain.Activity, error) {
	cond := sqlite.Bool(true)
	if filter.Type != "" {
		cond = cond.AND(table.Activities.Type.EQ(sqlite.String(string(filter.Type))))
	}
	if !filter.Start.IsZero() {
		cond = cond.AND(table.Activities.StartDate.GT_EQ(sqlite.DATETIME(filter.Start)))
	}
	if !filter.End.IsZero() {
		cond = cond.AND(table.Activities.StartDate.LT_EQ(sqlite.DATETIME(filter.End)))
	}

	var dbActivities []model.Activities
	err := table.Activities.
		SELECT(table.Activities.AllColumns).
		FROM(table.Activities).
		WHERE(cond).
		ORDER_BY(table.Activities.StartDate.DESC()).
		QueryContext(ctx, s.db, &dbActivities)
	if err != nil {
		return nil, err
	}
	activities := make([]domain.Activity, 0, len(dbActivities))
	for _, dbActivity := range dbActivities {
		a, err := convertActivityToDomain(dbActivity)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func convertActivityToDB(activity domain.Activity) model.Activities {
	return model.Activities{
		ID:        activity.ID.String(),
		UserID:    activity.Owner.ID.String(),
		Type:      string(activity.Type),
		StartDate: activity.StartDate,
		EndDate:   activity.EndDate,
		Note:      activity.Note,
		CreatedAt: activity.CreatedAt,
	}
}

func convertActivityToDomain(dbActivity model.Activities) (domain.Activity, error) {
	id, err := uuid.Parse(dbActivity.ID)
	if err != nil {
		return domain.Activity{}, err
	}
	userID, err := uuid.Parse(dbActivity.UserID)
	if err != nil {
		return domain.Activity{}, err
	}
	return domain.Activity{
		ID:        id,
		Owner:     domain.Owner{ID: userID},
		Type:      domain.ActivityType(dbActivity.Type),
		StartDate: dbActivity.StartDate,
		EndDate:   dbActivity.EndDate,
		Note:      dbActivity.Note,
		CreatedAt: dbActivity.CreatedAt,
	}, nil
}
