package domain

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

type ActivityType string

const (
	TypeFerie    ActivityType = "FERIE"
	TypeUscita   ActivityType = "USCITA"
	TypeMalattia ActivityType = "MALATTIA"
	TypePermesso ActivityType = "PERMESSO"
	TypeRiunione ActivityType = "RIUNIONE"
)

// AllowedActivityTypes is the closed set accepted on create/update.
func AllowedActivityTypes() mapset.Set[ActivityType] {
	return mapset.NewSet[ActivityType](TypeFerie, TypeUscita, TypeMalattia, TypePermesso, TypeRiunione)
}

// Owner is the subset of the account record shown next to an activity.
type Owner struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type Activity struct {
	ID        uuid.UUID
	Owner     Owner
	Type      ActivityType
	StartDate time.Time
	EndDate   time.Time
	Note      *string
	CreatedAt time.Time
}
