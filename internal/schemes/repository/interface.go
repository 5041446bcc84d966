package repository

import (
	"context"
	"time"

	"saarthi_backend/internal/eligibility"

	"github.com/google/uuid"
)

// Scheme is a welfare scheme in the catalog.
type Scheme struct {
	ID                  uuid.UUID
	SchemeID            string
	Name                string
	NameHindi           *string
	MinistryDepartment  string
	SchemeType          string
	Category            string
	Description         string
	BenefitAmount       *float64
	BenefitType         *string
	BenefitDescription  string
	Eligibility         eligibility.Rule
	RequiredDocuments   []string
	ApplicationProcess  string
	ApplicationURL      *string
	HelplineNumber      *string
	ApplicationDeadline *time.Time
	ProcessingTimeDays  int
	Tags                []string
	Active              bool
	PopularityScore     int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EligibilityRule implements eligibility.Candidate.
func (s Scheme) EligibilityRule() eligibility.Rule { return s.Eligibility }

// IsActive implements eligibility.Candidate.
func (s Scheme) IsActive() bool { return s.Active }

// ListParams filters the admin catalog listing. Nil fields are ignored.
type ListParams struct {
	Category *string
	IsActive *bool
}

// CatalogFilter narrows the active catalog before eligibility matching.
// Tags match when the scheme shares at least one tag.
type CatalogFilter struct {
	Category string
	Tags     []string
}

// UpdateParams carries a partial update. Nil fields keep their stored value.
type UpdateParams struct {
	Name               *string
	NameHindi          *string
	MinistryDepartment *string
	SchemeType         *string
	Category           *string
	Description        *string
	BenefitAmount      *float64
	BenefitType        *string
	BenefitDescription *string
	MinAge             *int
	MaxAge             *int
	Gender             *string
	IncomeLimit        *float64
	CasteCategory      []string
	Occupation         []string
	Location           []string
	RequiredDocuments  []string
	ApplicationProcess *string
	ApplicationURL     *string
	HelplineNumber     *string
	ProcessingTimeDays *int
	Tags               []string
	IsActive           *bool
	PopularityScore    *int
}

// SchemeReader provides read operations for the catalog.
type SchemeReader interface {
	GetBySchemeID(ctx context.Context, schemeID string) (Scheme, error)
	List(ctx context.Context, params ListParams) ([]Scheme, error)
	ListActive(ctx context.Context, filter CatalogFilter) ([]Scheme, error)
}

// SchemeWriter provides write operations for the catalog.
type SchemeWriter interface {
	Create(ctx context.Context, s Scheme) (Scheme, error)
	Update(ctx context.Context, schemeID string, params UpdateParams) (Scheme, error)
	Upsert(ctx context.Context, s Scheme) (Scheme, error)
	Delete(ctx context.Context, schemeID string) error
}

// Repository combines all scheme repository operations.
type Repository interface {
	SchemeReader
	SchemeWriter
}
