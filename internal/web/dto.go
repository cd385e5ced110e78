package web

import (
	"time"

	"github.com/PeterRema/calendario-project/auth/users"
	"github.com/PeterRema/calendario-project/internal/domain"
)

type userDTO struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	MustChangePassword bool      `json:"mustChangePassword"`
	CreatedAt          time.Time `json:"createdAt"`
}

func convertUserToDTO(user users.User) userDTO {
	return userDTO{
		ID:                 user.ID.String(),
		Name:               user.Name,
		Email:              user.Email,
		Role:               string(user.Role),
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          user.CreatedAt,
	}
}

func convertUsersToDTO(list []users.User) []userDTO {
	dtos := make([]userDTO, 0, len(list))
	for _, user := range list {
		dtos = append(dtos, convertUserToDTO(user))
	}
	return dtos
}

type ownerDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type activityDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	User      ownerDTO  `json:"user"`
}

func convertActivityToDTO(activity domain.Activity) activityDTO {
	return activityDTO{
		ID:        activity.ID.String(),
		Type:      string(activity.Type),
		StartDate: activity.StartDate,
		EndDate:   activity.EndDate,
		Note:      activity.Note,
		CreatedAt: activity.CreatedAt,
		User: ownerDTO{
			ID:    activity.Owner.ID.String(),
			Name:  activity.Owner.Name,
			Email: activity.Owner.Email,
		},
	}
}

func convertActivitiesToDTO(list []domain.Activity) []activityDTO {
	dtos := make([]activityDTO, 0, len(list))
	for _, activity := range list {
		dtos = append(dtos, convertActivityToDTO(activity))
	}
	return dtos
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type createUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TempPassword string `json:"tempPassword"`
}

type resetPasswordRequest struct {
	TempPassword string `json:"tempPassword"`
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

type createActivityRequest struct {
	Type      string  `json:"type"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Note      *string `json:"note"`
}

type updateActivityRequest struct {
	Type      *string `json:"type"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Note      *string `json:"note"`
}

// parseDate accepts RFC3339 timestamps and bare dates, the two formats
// the calendar UI sends.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
