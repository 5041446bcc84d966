package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Application is a citizen's application for (and benefit record under) a scheme.
type Application struct {
	ID                  uuid.UUID
	ApplicationRef      string
	Phone               string
	CitizenName         string
	SchemeID            string
	SchemeName          string
	SchemeCategory      string
	Status              string
	BenefitAmount       *float64
	ValidUntil          *time.Time
	RecurringEnrollment bool
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ListParams filters the application listing. Nil fields are ignored.
type ListParams struct {
	Status   *string
	Phone    *string
	SchemeID *string
	Offset   int
	Limit    int
}

// StatusUpdate moves an application through review.
type StatusUpdate struct {
	Status        string
	BenefitAmount *float64
	ValidUntil    *time.Time
	Notes         *string
}

// PendingStatuses are the statuses of applications still awaiting a decision.
var PendingStatuses = []string{"submitted", "under_review", "documents_pending"}

// Repository provides persistence for applications.
type Repository interface {
	Create(ctx context.Context, a Application) (Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	List(ctx context.Context, params ListParams) ([]Application, int, error)
	ListByPhone(ctx context.Context, phone string) ([]Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (Application, error)
	// ListPending returns applications in a pending status created at or
	// before filedBefore, oldest first.
	ListPending(ctx context.Context, filedBefore time.Time) ([]Application, error)
	// Update rewrites the editable fields of a.
	Update(ctx context.Context, a Application) (Application, error)
	// Delete removes an application and returns the removed row.
	Delete(ctx context.Context, id uuid.UUID) (Application, error)
}
