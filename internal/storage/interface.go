package storage

import (
	"context"
	"errors"
	"time"

	"github.com/PeterRema/calendario-project/internal/domain"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("activity not found")

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Type  domain.ActivityType
	Start time.Time
	End   time.Time
}

type ActivityStorage interface {
	Create(ctx context.Context, activity domain.Activity) error
	Get(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	Update(ctx context.Context, activity domain.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter) ([]domain.Activity, error)
}
