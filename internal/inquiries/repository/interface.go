package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Inquiry lifecycle states.
const (
	StatusOpen      = "open"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusClosed    = "closed"
)

// Inquiry is a scheme inquiry (lead) with its latest qualification.
type Inquiry struct {
	ID                  uuid.UUID
	Phone               string
	CitizenName         string
	Email               *string
	Organization        *string
	SchemeInterest      *string
	BudgetRange         *string
	LeadType            *string
	Source              string
	CitizenID           *uuid.UUID
	LeadScore           int
	ICPMatchScore       int
	QualificationStatus string
	ScoreVersion        string
	EngagementScore     int
	PastBenefitCount    int
	TotalBenefit        float64
	LastInteractionAt   *time.Time
	QualifiedAt         *time.Time
	Status              string
	CallOutcome         *string
	CallCount           int
	LastCallAt          *time.Time
	FollowUpDate        *time.Time
	AssignedTo          *string
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Qualification is the engine output persisted on an inquiry.
type Qualification struct {
	CitizenID           *uuid.UUID
	LeadScore           int
	ICPMatchScore       int
	QualificationStatus string
	ScoreVersion        string
	EngagementScore     int
	PastBenefitCount    int
	TotalBenefit        float64
	LastInteractionAt   *time.Time
	QualifiedAt         time.Time
}

// ListParams filters and pages the inquiry listing. Nil fields are ignored.
type ListParams struct {
	Status              *string
	QualificationStatus *string
	Offset              int
	Limit               int
}

// UpdateParams carries a partial update. Nil fields keep their stored value;
// an empty string clears the optional text fields.
type UpdateParams struct {
	CitizenName    *string
	Email          *string
	Organization   *string
	SchemeInterest *string
	BudgetRange    *string
	LeadType       *string
	Source         *string
	Status         *string
	AssignedTo     *string
	Notes          *string
	FollowUpDate   *time.Time
}

// Apply returns inq with the update applied, mirroring the column rules of
// Repo.Update.
func (p UpdateParams) Apply(inq Inquiry) Inquiry {
	if p.CitizenName != nil {
		inq.CitizenName = *p.CitizenName
	}
	inq.Email = applyOptional(inq.Email, p.Email)
	inq.Organization = applyOptional(inq.Organization, p.Organization)
	inq.SchemeInterest = applyOptional(inq.SchemeInterest, p.SchemeInterest)
	inq.BudgetRange = applyOptional(inq.BudgetRange, p.BudgetRange)
	inq.LeadType = applyOptional(inq.LeadType, p.LeadType)
	if p.Source != nil {
		inq.Source = *p.Source
	}
	if p.Status != nil {
		inq.Status = *p.Status
	}
	inq.AssignedTo = applyOptional(inq.AssignedTo, p.AssignedTo)
	if p.Notes != nil {
		inq.Notes = *p.Notes
	}
	if p.FollowUpDate != nil {
		inq.FollowUpDate = p.FollowUpDate
	}
	return inq
}

func applyOptional(current, next *string) *string {
	switch {
	case next == nil:
		return current
	case *next == "":
		return nil
	default:
		v := *next
		return &v
	}
}

// FollowUp is the outcome of one outbound call. Nil status fields keep their
// stored value; the call counter always increments.
type FollowUp struct {
	CallOutcome         string
	Status              *string
	QualificationStatus *string
	Notes               *string
	FollowUpDate        *time.Time
	CalledAt            time.Time
	CalledBy            *string
}

// Stats summarises the inquiry pipeline.
type Stats struct {
	Total            int
	Qualified        int
	HighPriority     int
	Open             int
	Contacted        int
	Converted        int
	AvgLeadScore     float64
	AvgICPMatchScore float64
}

// InquiryReader provides read operations for inquiries.
type InquiryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Inquiry, error)
	List(ctx context.Context, params ListParams) ([]Inquiry, int, error)
	ListByPhone(ctx context.Context, phone string) ([]Inquiry, error)
	// ListActiveByPhone returns the open and contacted inquiries of phone.
	ListActiveByPhone(ctx context.Context, phone string) ([]Inquiry, error)
	// ListActiveIDs returns up to limit open and contacted inquiry IDs, oldest
	// qualification first.
	ListActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	// HighPriorityQueue returns qualified and high-priority inquiries that are
	// still open or contacted, best lead score first.
	HighPriorityQueue(ctx context.Context, limit int) ([]Inquiry, error)
	Stats(ctx context.Context) (Stats, error)
}

// InquiryWriter provides write operations for inquiries.
type InquiryWriter interface {
	Create(ctx context.Context, inq Inquiry) (Inquiry, error)
	// Update and ApplyQualification also return the qualification status the
	// write replaced.
	Update(ctx context.Context, id uuid.UUID, params UpdateParams, q Qualification) (Inquiry, string, error)
	ApplyQualification(ctx context.Context, id uuid.UUID, q Qualification) (Inquiry, string, error)
	RecordFollowUp(ctx context.Context, id uuid.UUID, f FollowUp) (Inquiry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all inquiry repository operations.
type Repository interface {
	InquiryReader
	InquiryWriter
}
