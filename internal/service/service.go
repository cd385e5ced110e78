package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	authstorage "github.com/PeterRema/calendario-project/auth/storage"
	"github.com/PeterRema/calendario-project/auth/users"
	"github.com/PeterRema/calendario-project/internal/domain"
	"github.com/PeterRema/calendario-project/internal/storage"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

var (
	ErrInvalidType = errors.New("invalid activity type")
	ErrValidation  = errors.New("invalid input")
)

// UserDirectory resolves activity owners. Satisfied by the auth service.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (users.User, error)
	ListUsers(ctx context.Context) ([]users.User, error)
}

type ActivityService struct {
	activityStorage storage.ActivityStorage
	userDirectory   UserDirectory
}

func New(activityStorage storage.ActivityStorage, userDirectory UserDirectory) *ActivityService {
	return &ActivityService{
		activityStorage: activityStorage,
		userDirectory:   userDirectory,
	}
}

// List returns activities of ALL users, newest start date first, with
// owner name and email stitched in. Activities and accounts live in
// separate databases, so the join happens here.
func (s *ActivityService) List(ctx context.Context, filter storage.Filter) ([]domain.Activity, error) {
	activities, err := s.activityStorage.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	owners, err := s.userDirectory.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	ownerMap := make(map[uuid.UUID]users.User, len(owners))
	for _, owner := range owners {
		ownerMap[owner.ID] = owner
	}
	for i := range activities {
		if owner, ok := ownerMap[activities[i].Owner.ID]; ok {
			activities[i].Owner.Name = owner.Name
			activities[i].Owner.Email = owner.Email
		}
	}
	return activities, nil
}

func (s *ActivityService) Create(ctx context.Context, userID uuid.UUID, activityType string, start time.Time, end time.Time, note *string) (domain.Activity, error) {
	err := validation.Errors{
		"type":      validation.Validate(activityType, validation.Required),
		"startDate": validation.Validate(start, validation.Required),
		"endDate":   validation.Validate(end, validation.Required),
	}.Filter()
	if err != nil {
		return domain.Activity{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	typ := domain.ActivityType(activityType)
	if !domain.AllowedActivityTypes().Contains(typ) {
		return domain.Activity{}, ErrInvalidType
	}
	owner, err := s.userDirectory.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, authstorage.ErrNotFound) {
			return domain.Activity{}, storage.ErrNotFound
		}
		return domain.Activity{}, err
	}
	activity := domain.Activity{
		ID: uuid.New(),
		Owner: domain.Owner{
			ID:    owner.ID,
			Name:  owner.Name,
			Email: owner.Email,
		},
		Type:      typ,
		StartDate: start,
		EndDate:   end,
		Note:      note,
		CreatedAt: time.Now(),
	}
	if err := s.activityStorage.Create(ctx, activity); err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

// Get is owner-scoped: another user's activity reads as not found.
func (s *ActivityService) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (domain.Activity, error) {
	activity, err := s.activityStorage.Get(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}
	if activity.Owner.ID != userID {
		return domain.Activity{}, storage.ErrNotFound
	}
	return activity, nil
}

// Update patches only the provided fields. A non-nil empty note clears
// the stored note; a nil note leaves it alone.
type Update struct {
	Type      *string
	StartDate *time.Time
	EndDate   *time.Time
	Note      *string
}

func (s *ActivityService) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, upd Update) (domain.Activity, error) {
	activity, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.Activity{}, err
	}
	if upd.Type != nil {
		typ := domain.ActivityType(*upd.Type)
		if !domain.AllowedActivityTypes().Contains(typ) {
			return domain.Activity{}, ErrInvalidType
		}
		activity.Type = typ
	}
	if upd.StartDate != nil {
		activity.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		activity.EndDate = *upd.EndDate
	}
	if upd.Note != nil {
		if *upd.Note == "" {
			activity.Note = nil
		} else {
			activity.Note = upd.Note
		}
	}
	if err := s.activityStorage.Update(ctx, activity); err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

func (s *ActivityService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	_, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.activityStorage.Delete(ctx, id)
}
