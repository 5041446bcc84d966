package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Citizen is a registered citizen profile, keyed by phone.
type Citizen struct {
	ID                uuid.UUID
	Phone             string
	Name              string
	Email             *string
	Address           *string
	Age               *int
	Gender            *string
	State             *string
	District          *string
	VillageCity       *string
	Pincode           *string
	Occupation        *string
	AnnualIncome      *float64
	CasteCategory     *string
	EducationLevel    *string
	PreferredLanguage string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ListParams filters and pages the citizen listing.
type ListParams struct {
	State    *string
	District *string
	Search   *string
	Offset   int
	Limit    int
}

// Repository provides persistence for citizen profiles.
type Repository interface {
	GetByPhone(ctx context.Context, phone string) (Citizen, error)
	// Upsert inserts or updates by phone. Nil fields keep stored values.
	// inserted reports whether the row was created.
	Upsert(ctx context.Context, c Citizen) (saved Citizen, inserted bool, err error)
	List(ctx context.Context, params ListParams) ([]Citizen, int, error)
	DeleteByPhone(ctx context.Context, phone string) error
}
