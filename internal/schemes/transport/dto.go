package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListSchemesRequest filters the catalog listing.
type ListSchemesRequest struct {
	Category *string `form:"category" validate:"omitempty,max=100"`
	IsActive *bool   `form:"is_active"`
}

// EligibilityCriteria is the eligibility block of a scheme.
type EligibilityCriteria struct {
	MinAge        *int     `json:"min_age,omitempty" yaml:"min_age" validate:"omitempty,min=0,max=150"`
	MaxAge        *int     `json:"max_age,omitempty" yaml:"max_age" validate:"omitempty,min=0,max=150"`
	Gender        string   `json:"gender,omitempty" yaml:"gender" validate:"omitempty,max=20"`
	IncomeLimit   *float64 `json:"income_limit,omitempty" yaml:"income_limit" validate:"omitempty,min=0"`
	CasteCategory []string `json:"caste_category,omitempty" yaml:"caste_category" validate:"omitempty,dive,max=50"`
	Occupation    []string `json:"occupation,omitempty" yaml:"occupation" validate:"omitempty,dive,max=100"`
	Location      []string `json:"location,omitempty" yaml:"location" validate:"omitempty,dive,max=200"`
}

// CreateSchemeRequest contains data for adding a scheme to the catalog.
type CreateSchemeRequest struct {
	SchemeID           string              `json:"scheme_id" yaml:"scheme_id" validate:"required,min=2,max=100"`
	Name               string              `json:"scheme_name" yaml:"scheme_name" validate:"required,min=2,max=300"`
	NameHindi          *string             `json:"scheme_name_hindi,omitempty" yaml:"scheme_name_hindi" validate:"omitempty,max=300"`
	MinistryDepartment string              `json:"ministry_department" yaml:"ministry_department" validate:"max=300"`
	SchemeType         string              `json:"scheme_type" yaml:"scheme_type" validate:"max=50"`
	Category           string              `json:"category" yaml:"category" validate:"required,max=100"`
	Description        string              `json:"description" yaml:"description" validate:"max=5000"`
	BenefitAmount      *float64            `json:"benefit_amount,omitempty" yaml:"benefit_amount" validate:"omitempty,min=0"`
	BenefitType        *string             `json:"benefit_type,omitempty" yaml:"benefit_type" validate:"omitempty,max=100"`
	BenefitDescription string              `json:"benefit_description" yaml:"benefit_description" validate:"max=2000"`
	Eligibility        EligibilityCriteria `json:"eligibility_criteria" yaml:"eligibility_criteria"`
	RequiredDocuments  []string            `json:"required_documents,omitempty" yaml:"required_documents" validate:"omitempty,dive,max=200"`
	ApplicationProcess string              `json:"application_process" yaml:"application_process" validate:"max=5000"`
	ApplicationURL     *string             `json:"application_url,omitempty" yaml:"application_url" validate:"omitempty,url"`
	HelplineNumber     *string             `json:"helpline_number,omitempty" yaml:"helpline_number" validate:"omitempty,max=30"`
	ProcessingTimeDays int                 `json:"processing_time_days" yaml:"processing_time_days" validate:"min=0"`
	Tags               []string            `json:"tags,omitempty" yaml:"tags" validate:"omitempty,dive,max=50"`
	IsActive           *bool               `json:"is_active,omitempty" yaml:"is_active"`
	PopularityScore    int                 `json:"popularity_score" yaml:"popularity_score" validate:"min=0"`
}

// UpdateSchemeRequest contains a partial update. Omitted fields are unchanged.
type UpdateSchemeRequest struct {
	Name               *string              `json:"scheme_name,omitempty" validate:"omitempty,min=2,max=300"`
	NameHindi          *string              `json:"scheme_name_hindi,omitempty" validate:"omitempty,max=300"`
	MinistryDepartment *string              `json:"ministry_department,omitempty" validate:"omitempty,max=300"`
	SchemeType         *string              `json:"scheme_type,omitempty" validate:"omitempty,max=50"`
	Category           *string              `json:"category,omitempty" validate:"omitempty,max=100"`
	Description        *string              `json:"description,omitempty" validate:"omitempty,max=5000"`
	BenefitAmount      *float64             `json:"benefit_amount,omitempty" validate:"omitempty,min=0"`
	BenefitType        *string              `json:"benefit_type,omitempty" validate:"omitempty,max=100"`
	BenefitDescription *string              `json:"benefit_description,omitempty" validate:"omitempty,max=2000"`
	Eligibility        *EligibilityCriteria `json:"eligibility_criteria,omitempty"`
	RequiredDocuments  []string             `json:"required_documents,omitempty" validate:"omitempty,dive,max=200"`
	ApplicationProcess *string              `json:"application_process,omitempty" validate:"omitempty,max=5000"`
	ApplicationURL     *string              `json:"application_url,omitempty" validate:"omitempty,url"`
	HelplineNumber     *string              `json:"helpline_number,omitempty" validate:"omitempty,max=30"`
	ProcessingTimeDays *int                 `json:"processing_time_days,omitempty" validate:"omitempty,min=0"`
	Tags               []string             `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
	IsActive           *bool                `json:"is_active,omitempty"`
	PopularityScore    *int                 `json:"popularity_score,omitempty" validate:"omitempty,min=0"`
}

// SearchSchemesRequest is a citizen profile plus optional catalog filters.
// Age sets both bounds; min_age and max_age override it individually.
type SearchSchemesRequest struct {
	Age           *int     `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	MinAge        *int     `json:"min_age,omitempty" validate:"omitempty,min=0,max=150"`
	MaxAge        *int     `json:"max_age,omitempty" validate:"omitempty,min=0,max=150"`
	Gender        string   `json:"gender,omitempty" validate:"omitempty,max=20"`
	AnnualIncome  *float64 `json:"annual_income,omitempty" validate:"omitempty,min=0"`
	CasteCategory string   `json:"caste_category,omitempty" validate:"omitempty,max=50"`
	Occupation    string   `json:"occupation,omitempty" validate:"omitempty,max=100"`
	Location      string   `json:"location,omitempty" validate:"omitempty,max=200"`
	Category      string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
}

// SchemeResponse represents a scheme in API responses.
type SchemeResponse struct {
	ID                  uuid.UUID           `json:"id"`
	SchemeID            string              `json:"scheme_id"`
	Name                string              `json:"scheme_name"`
	NameHindi           *string             `json:"scheme_name_hindi,omitempty"`
	MinistryDepartment  string              `json:"ministry_department"`
	SchemeType          string              `json:"scheme_type"`
	Category            string              `json:"category"`
	Description         string              `json:"description"`
	BenefitAmount       *float64            `json:"benefit_amount,omitempty"`
	BenefitType         *string             `json:"benefit_type,omitempty"`
	BenefitDescription  string              `json:"benefit_description"`
	Eligibility         EligibilityCriteria `json:"eligibility_criteria"`
	RequiredDocuments   []string            `json:"required_documents"`
	ApplicationProcess  string              `json:"application_process"`
	ApplicationURL      *string             `json:"application_url,omitempty"`
	HelplineNumber      *string             `json:"helpline_number,omitempty"`
	ApplicationDeadline *time.Time          `json:"application_deadline,omitempty"`
	ProcessingTimeDays  int                 `json:"processing_time_days"`
	Tags                []string            `json:"tags"`
	IsActive            bool                `json:"is_active"`
	PopularityScore     int                 `json:"popularity_score"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// SchemeListResponse wraps a list of schemes.
type SchemeListResponse struct {
	Items []SchemeResponse `json:"items"`
	Total int              `json:"total"`
}

// SearchSchemesResponse is the eligible subset of the active catalog.
type SearchSchemesResponse struct {
	Count   int              `json:"count"`
	Schemes []SchemeResponse `json:"schemes"`
}

// ImportCatalogResponse reports the outcome of a YAML catalog import.
type ImportCatalogResponse struct {
	Upserted int      `json:"upserted"`
	Failed   []string `json:"failed"`
}
