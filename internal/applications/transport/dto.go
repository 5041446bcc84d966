package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateApplicationRequest records an application for a scheme.
type CreateApplicationRequest struct {
	Phone               string     `json:"phone" validate:"required,phone"`
	CitizenName         string     `json:"citizen_name" validate:"required,min=1,max=200"`
	SchemeID            string     `json:"scheme_id" validate:"required,max=100"`
	Status              string     `json:"status,omitempty" validate:"omitempty,oneof=draft submitted under_review documents_pending approved rejected disbursed"`
	BenefitAmount       *float64   `json:"benefit_amount,omitempty" validate:"omitempty,min=0"`
	ValidUntil          *time.Time `json:"valid_until,omitempty"`
	RecurringEnrollment bool       `json:"recurring_enrollment"`
	Notes               string     `json:"notes,omitempty" validate:"max=5000"`
}

// ListApplicationsRequest filters and pages the application listing.
type ListApplicationsRequest struct {
	Status   *string `form:"status" validate:"omitempty,oneof=draft submitted under_review documents_pending approved rejected disbursed"`
	Phone    *string `form:"phone" validate:"omitempty,max=30"`
	SchemeID *string `form:"scheme_id" validate:"omitempty,max=100"`
	Page     int     `form:"page" validate:"omitempty,min=1"`
	PageSize int     `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest moves an application through review.
type UpdateStatusRequest struct {
	Status        string     `json:"status" validate:"required,oneof=draft submitted under_review documents_pending approved rejected disbursed"`
	BenefitAmount *float64   `json:"benefit_amount,omitempty" validate:"omitempty,min=0"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateApplicationRequest edits an application. Omitted fields are kept.
type UpdateApplicationRequest struct {
	CitizenName         *string    `json:"citizen_name,omitempty" validate:"omitempty,min=1,max=200"`
	SchemeID            *string    `json:"scheme_id,omitempty" validate:"omitempty,max=100"`
	Status              *string    `json:"status,omitempty" validate:"omitempty,oneof=draft submitted under_review documents_pending approved rejected disbursed"`
	BenefitAmount       *float64   `json:"benefit_amount,omitempty" validate:"omitempty,min=0"`
	ValidUntil          *time.Time `json:"valid_until,omitempty"`
	RecurringEnrollment *bool      `json:"recurring_enrollment,omitempty"`
	Notes               *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// CheckEligibilityRequest asks for the application history of a phone,
// optionally narrowed to one scheme.
type CheckEligibilityRequest struct {
	Phone    string  `json:"phone" validate:"required,phone"`
	SchemeID *string `json:"scheme_id,omitempty" validate:"omitempty,max=100"`
}

// HistoryItem is one past application in an eligibility check.
type HistoryItem struct {
	ApplicationRef      string    `json:"application_id"`
	SchemeID            string    `json:"scheme_id"`
	SchemeName          string    `json:"scheme_name"`
	SchemeCategory      string    `json:"scheme_category"`
	Status              string    `json:"status"`
	ApplicationDate     time.Time `json:"application_date"`
	EligibilityVerified bool      `json:"eligibility_verified"`
	BenefitAmount       *float64  `json:"benefit_amount,omitempty"`
}

// EligibilityResponse summarises the application history of a phone.
type EligibilityResponse struct {
	Eligible     bool          `json:"eligible"`
	Count        int           `json:"count"`
	Applications []HistoryItem `json:"applications"`
}

// ApplicationResponse represents an application in API responses.
type ApplicationResponse struct {
	ID                  uuid.UUID  `json:"id"`
	ApplicationRef      string     `json:"application_ref"`
	Phone               string     `json:"phone"`
	CitizenName         string     `json:"citizen_name"`
	SchemeID            string     `json:"scheme_id"`
	SchemeName          string     `json:"scheme_name"`
	SchemeCategory      string     `json:"scheme_category"`
	Status              string     `json:"status"`
	BenefitAmount       *float64   `json:"benefit_amount,omitempty"`
	ValidUntil          *time.Time `json:"valid_until,omitempty"`
	RecurringEnrollment bool       `json:"recurring_enrollment"`
	Notes               string     `json:"notes"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ApplicationListResponse is one page of applications.
type ApplicationListResponse struct {
	Items    []ApplicationResponse `json:"items"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}
