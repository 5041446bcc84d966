package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateConsultationRequest books a consultation from the public site.
type CreateConsultationRequest struct {
	Phone             string  `json:"phone" validate:"required,phone"`
	CitizenName       string  `json:"citizen_name" validate:"required,min=1,max=200"`
	Email             *string `json:"email,omitempty" validate:"omitempty,email"`
	ConsultationDate  string  `json:"consultation_date" validate:"required,datetime=2006-01-02"`
	ConsultationTime  string  `json:"consultation_time" validate:"required,datetime=15:04"`
	ConsultationType  string  `json:"consultation_type,omitempty" validate:"omitempty,oneof=general scheme_guidance application_help grievance document_help"`
	QueryCategory     *string `json:"query_category,omitempty" validate:"omitempty,max=100"`
	QueryDescription  string  `json:"query_description,omitempty" validate:"max=2000"`
	PreferredLanguage string  `json:"preferred_language,omitempty" validate:"omitempty,max=30"`
	District          *string `json:"district,omitempty" validate:"omitempty,max=100"`
}

// CheckAvailabilityRequest asks whether a slot is free.
type CheckAvailabilityRequest struct {
	ConsultationDate string `json:"consultation_date" validate:"required,datetime=2006-01-02"`
	ConsultationTime string `json:"consultation_time" validate:"required,datetime=15:04"`
	WindowMinutes    int    `json:"window_minutes,omitempty" validate:"omitempty,min=15,max=720"`
}

// SlotConflict is a booking that overlaps the requested slot.
type SlotConflict struct {
	ConsultationDate string `json:"consultation_date"`
	ConsultationTime string `json:"consultation_time"`
	CitizenName      string `json:"citizen_name"`
}

// SuggestedSlot is a free start near the requested slot.
type SuggestedSlot struct {
	ConsultationDate string `json:"consultation_date"`
	ConsultationTime string `json:"consultation_time"`
}

// AvailabilityResponse is the result of an availability check.
type AvailabilityResponse struct {
	Available      bool            `json:"available"`
	Conflicts      []SlotConflict  `json:"conflicts"`
	SuggestedSlots []SuggestedSlot `json:"suggested_slots"`
	Message        string          `json:"message"`
}

// BookConsultationRequest books a slot after checking it is free. A phone
// with an open consultation has that consultation moved instead.
type BookConsultationRequest struct {
	Phone             string  `json:"phone" validate:"required,phone"`
	CitizenName       string  `json:"citizen_name" validate:"required,min=1,max=200"`
	Email             string  `json:"email" validate:"required,email"`
	ConsultationDate  string  `json:"consultation_date" validate:"required,datetime=2006-01-02"`
	ConsultationTime  string  `json:"consultation_time" validate:"required,datetime=15:04"`
	ConsultationType  string  `json:"consultation_type,omitempty" validate:"omitempty,oneof=general scheme_guidance application_help grievance document_help"`
	QueryCategory     *string `json:"query_category,omitempty" validate:"omitempty,max=100"`
	QueryDescription  string  `json:"query_description,omitempty" validate:"max=2000"`
	PreferredLanguage string  `json:"preferred_language,omitempty" validate:"omitempty,max=30"`
	District          *string `json:"district,omitempty" validate:"omitempty,max=100"`
	Notes             string  `json:"notes,omitempty" validate:"max=5000"`
}

// BookResponse is the booked consultation and whether an earlier booking moved.
type BookResponse struct {
	Consultation ConsultationResponse `json:"consultation"`
	Rescheduled  bool                 `json:"rescheduled"`
}

// ListConsultationsRequest filters and pages the consultation listing.
type ListConsultationsRequest struct {
	Status   *string `form:"status" validate:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	Phone    *string `form:"phone" validate:"omitempty,max=30"`
	Page     int     `form:"page" validate:"omitempty,min=1"`
	PageSize int     `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest moves a consultation through its lifecycle.
type UpdateStatusRequest struct {
	Status        string  `json:"status" validate:"required,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	AssignedAgent *string `json:"assigned_agent,omitempty" validate:"omitempty,max=200"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ConsultationResponse represents a consultation in API responses.
type ConsultationResponse struct {
	ID                uuid.UUID `json:"id"`
	Phone             string    `json:"phone"`
	CitizenName       string    `json:"citizen_name"`
	Email             *string   `json:"email,omitempty"`
	ConsultationDate  string    `json:"consultation_date"`
	ConsultationTime  string    `json:"consultation_time"`
	ConsultationType  string    `json:"consultation_type"`
	QueryCategory     *string   `json:"query_category,omitempty"`
	QueryDescription  string    `json:"query_description"`
	PreferredLanguage string    `json:"preferred_language"`
	District          *string   `json:"district,omitempty"`
	Status            string    `json:"status"`
	AssignedAgent     *string   `json:"assigned_agent,omitempty"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ConsultationListResponse is one page of consultations.
type ConsultationListResponse struct {
	Items    []ConsultationResponse `json:"items"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}
