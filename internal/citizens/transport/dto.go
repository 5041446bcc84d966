package transport

import (
	"time"

	"github.com/google/uuid"
)

// UpsertCitizenRequest creates or updates a citizen by phone.
type UpsertCitizenRequest struct {
	Phone             string   `json:"phone" validate:"required,phone"`
	Name              string   `json:"name" validate:"required,min=1,max=200"`
	Email             *string  `json:"email,omitempty" validate:"omitempty,email"`
	Address           *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Age               *int     `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Gender            *string  `json:"gender,omitempty" validate:"omitempty,max=20"`
	State             *string  `json:"state,omitempty" validate:"omitempty,max=100"`
	District          *string  `json:"district,omitempty" validate:"omitempty,max=100"`
	VillageCity       *string  `json:"village_city,omitempty" validate:"omitempty,max=100"`
	Pincode           *string  `json:"pincode,omitempty" validate:"omitempty,numeric,len=6"`
	Occupation        *string  `json:"occupation,omitempty" validate:"omitempty,max=100"`
	AnnualIncome      *float64 `json:"annual_income,omitempty" validate:"omitempty,min=0"`
	CasteCategory     *string  `json:"caste_category,omitempty" validate:"omitempty,max=50"`
	EducationLevel    *string  `json:"education_level,omitempty" validate:"omitempty,max=100"`
	PreferredLanguage string   `json:"preferred_language,omitempty" validate:"omitempty,max=30"`
}

// ListCitizensRequest filters and pages the citizen listing.
type ListCitizensRequest struct {
	State    *string `form:"state" validate:"omitempty,max=100"`
	District *string `form:"district" validate:"omitempty,max=100"`
	Search   *string `form:"search" validate:"omitempty,max=100"`
	Page     int     `form:"page" validate:"omitempty,min=1"`
	PageSize int     `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// CitizenResponse represents a citizen in API responses.
type CitizenResponse struct {
	ID                uuid.UUID `json:"id"`
	Phone             string    `json:"phone"`
	Name              string    `json:"name"`
	Email             *string   `json:"email,omitempty"`
	Address           *string   `json:"address,omitempty"`
	Age               *int      `json:"age,omitempty"`
	Gender            *string   `json:"gender,omitempty"`
	State             *string   `json:"state,omitempty"`
	District          *string   `json:"district,omitempty"`
	VillageCity       *string   `json:"village_city,omitempty"`
	Pincode           *string   `json:"pincode,omitempty"`
	Occupation        *string   `json:"occupation,omitempty"`
	AnnualIncome      *float64  `json:"annual_income,omitempty"`
	CasteCategory     *string   `json:"caste_category,omitempty"`
	EducationLevel    *string   `json:"education_level,omitempty"`
	PreferredLanguage string    `json:"preferred_language"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CitizenListResponse is one page of citizens.
type CitizenListResponse struct {
	Items    []CitizenResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// EligibleScheme is the compact scheme view returned for a citizen.
type EligibleScheme struct {
	SchemeID           string   `json:"scheme_id"`
	Name               string   `json:"scheme_name"`
	Category           string   `json:"category"`
	BenefitAmount      *float64 `json:"benefit_amount,omitempty"`
	BenefitDescription string   `json:"benefit_description"`
	PopularityScore    int      `json:"popularity_score"`
}

// EligibleSchemesResponse lists the schemes a citizen qualifies for.
type EligibleSchemesResponse struct {
	Phone   string           `json:"phone"`
	Count   int              `json:"count"`
	Schemes []EligibleScheme `json:"schemes"`
}
