package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateInquiryRequest is the public intake payload.
type CreateInquiryRequest struct {
	Phone          string     `json:"phone" validate:"required,phone"`
	CitizenName    string     `json:"citizen_name" validate:"required,min=1,max=200"`
	Email          *string    `json:"email,omitempty" validate:"omitempty,email"`
	Organization   *string    `json:"organization,omitempty" validate:"omitempty,max=200"`
	SchemeInterest *string    `json:"scheme_interest,omitempty" validate:"omitempty,max=300"`
	BudgetRange    *string    `json:"budget_range,omitempty" validate:"omitempty,max=100"`
	LeadType       *string    `json:"lead_type,omitempty" validate:"omitempty,max=50"`
	Source         string     `json:"source,omitempty" validate:"omitempty,oneof=referral website phone outbound_call manual walk_in camp"`
	AssignedTo     *string    `json:"assigned_to,omitempty" validate:"omitempty,max=200"`
	Notes          string     `json:"notes,omitempty" validate:"max=5000"`
	FollowUpDate   *time.Time `json:"follow_up_date,omitempty"`
}

// UpdateInquiryRequest is a partial update; the inquiry is re-qualified with it.
// An empty string clears email, organization, scheme interest, budget range,
// lead type or assignee.
type UpdateInquiryRequest struct {
	CitizenName    *string    `json:"citizen_name,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string    `json:"email,omitempty" validate:"omitempty,email"`
	Organization   *string    `json:"organization,omitempty" validate:"omitempty,max=200"`
	SchemeInterest *string    `json:"scheme_interest,omitempty" validate:"omitempty,max=300"`
	BudgetRange    *string    `json:"budget_range,omitempty" validate:"omitempty,max=100"`
	LeadType       *string    `json:"lead_type,omitempty" validate:"omitempty,max=50"`
	Source         *string    `json:"source,omitempty" validate:"omitempty,oneof=referral website phone outbound_call manual walk_in camp"`
	Status         *string    `json:"status,omitempty" validate:"omitempty,oneof=open contacted qualified converted closed"`
	AssignedTo     *string    `json:"assigned_to,omitempty" validate:"omitempty,max=200"`
	Notes          *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	FollowUpDate   *time.Time `json:"follow_up_date,omitempty"`
}

// ListInquiriesRequest filters and pages the inquiry listing.
type ListInquiriesRequest struct {
	Status              *string `form:"status" validate:"omitempty,oneof=open contacted qualified converted closed"`
	QualificationStatus *string `form:"qualification_status" validate:"omitempty,oneof=unqualified qualified high_priority disqualified"`
	Page                int     `form:"page" validate:"omitempty,min=1"`
	PageSize            int     `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// HighPriorityRequest sizes the follow-up work queue.
type HighPriorityRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=50"`
}

// FollowUpRequest records the outcome of an outbound call.
type FollowUpRequest struct {
	Outcome      string     `json:"outcome" validate:"required,oneof=answered no_answer busy callback interested not_interested application_started"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
}

// QualificationSummary is the score block returned with every intake.
type QualificationSummary struct {
	LeadScore           int    `json:"lead_score"`
	ICPMatchScore       int    `json:"icp_match_score"`
	QualificationStatus string `json:"qualification_status"`
}

// InquiryResponse represents an inquiry in API responses.
type InquiryResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Phone               string     `json:"phone"`
	CitizenName         string     `json:"citizen_name"`
	Email               *string    `json:"email,omitempty"`
	Organization        *string    `json:"organization,omitempty"`
	SchemeInterest      *string    `json:"scheme_interest,omitempty"`
	BudgetRange         *string    `json:"budget_range,omitempty"`
	LeadType            *string    `json:"lead_type,omitempty"`
	Source              string     `json:"source"`
	CitizenID           *uuid.UUID `json:"citizen_id,omitempty"`
	LeadScore           int        `json:"lead_score"`
	ICPMatchScore       int        `json:"icp_match_score"`
	QualificationStatus string     `json:"qualification_status"`
	ScoreVersion        string     `json:"score_version"`
	EngagementScore     int        `json:"engagement_score"`
	PastBenefitCount    int        `json:"past_benefit_count"`
	TotalBenefit        float64    `json:"total_benefit"`
	LastInteractionAt   *time.Time `json:"last_interaction_at,omitempty"`
	QualifiedAt         *time.Time `json:"qualified_at,omitempty"`
	Status              string     `json:"status"`
	CallOutcome         *string    `json:"call_outcome,omitempty"`
	CallCount           int        `json:"call_count"`
	LastCallAt          *time.Time `json:"last_call_at,omitempty"`
	FollowUpDate        *time.Time `json:"follow_up_date,omitempty"`
	AssignedTo          *string    `json:"assigned_to,omitempty"`
	Notes               string     `json:"notes"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// CreateInquiryResponse is the intake result with its score summary.
type CreateInquiryResponse struct {
	Inquiry       InquiryResponse      `json:"inquiry"`
	Qualification QualificationSummary `json:"qualification"`
	Factors       map[string]int       `json:"factors"`
}

// InquiryListResponse is one page of inquiries.
type InquiryListResponse struct {
	Items    []InquiryResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// QueueResponse is the outbound follow-up work queue.
type QueueResponse struct {
	Items []InquiryResponse `json:"items"`
	Count int               `json:"count"`
}

// StatsResponse summarises the inquiry pipeline.
type StatsResponse struct {
	Total            int     `json:"total"`
	Qualified        int     `json:"qualified"`
	HighPriority     int     `json:"high_priority"`
	Open             int     `json:"open"`
	Contacted        int     `json:"contacted"`
	Converted        int     `json:"converted"`
	AvgLeadScore     int     `json:"avg_lead_score"`
	AvgICPMatchScore int     `json:"avg_icp_match_score"`
	ConversionRate   float64 `json:"conversion_rate"`
}

// RequalifyOpenResponse reports how many inquiries were scheduled for re-scoring.
type RequalifyOpenResponse struct {
	Enqueued int  `json:"enqueued"`
	Inline   bool `json:"inline"`
}
