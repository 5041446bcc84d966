package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Consultation is a booked advisory session with a citizen.
type Consultation struct {
	ID                uuid.UUID
	Phone             string
	CitizenName       string
	Email             *string
	ConsultationDate  string
	ConsultationTime  string
	ConsultationType  string
	QueryCategory     *string
	QueryDescription  string
	PreferredLanguage string
	District          *string
	Status            string
	AssignedAgent     *string
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ListParams filters the consultation listing. Nil fields are ignored.
type ListParams struct {
	Status *string
	Phone  *string
	Offset int
	Limit  int
}

// StatusUpdate changes the lifecycle state of a consultation.
type StatusUpdate struct {
	Status        string
	AssignedAgent *string
	Notes         *string
}

// Repository provides persistence for consultations.
type Repository interface {
	Create(ctx context.Context, c Consultation) (Consultation, error)
	GetByID(ctx context.Context, id uuid.UUID) (Consultation, error)
	List(ctx context.Context, params ListParams) ([]Consultation, int, error)
	ListByPhone(ctx context.Context, phone string) ([]Consultation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (Consultation, error)
	// ListBooked returns the consultations still holding a slot on dates
	// fromDate..toDate (inclusive, YYYY-MM-DD), skipping excludeID.
	ListBooked(ctx context.Context, fromDate, toDate string, excludeID uuid.UUID) ([]Consultation, error)
	// FindOpenByPhone returns the most recent scheduled or confirmed
	// consultation of phone, or a not-found error.
	FindOpenByPhone(ctx context.Context, phone string) (Consultation, error)
	// Reschedule rewrites the booking details of an existing consultation and
	// puts it back to scheduled.
	Reschedule(ctx context.Context, c Consultation) (Consultation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
