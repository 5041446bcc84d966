// Package events defines the domain events exchanged between modules. The
// bus itself lives in platform/events and is aliased here so modules import
// a single package.
package events

import (
	"saarthi_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Citizen Domain Events
// =============================================================================

// CitizenRegistered is published when a phone gets its first citizen record.
// Inquiries for that phone stop being new leads, so they are re-qualified.
type CitizenRegistered struct {
	BaseEvent
	CitizenID uuid.UUID `json:"citizenId"`
	Phone     string    `json:"phone"`
}

func (e CitizenRegistered) EventName() string { return "citizens.citizen.registered" }

// CitizenRemoved is published when a citizen record is deleted. The phone's
// inquiries lose their registered-citizen standing and are re-qualified.
type CitizenRemoved struct {
	BaseEvent
	Phone string `json:"phone"`
}

func (e CitizenRemoved) EventName() string { return "citizens.citizen.removed" }

// =============================================================================
// Consultation Domain Events
// =============================================================================

// ConsultationCreated is published when a citizen books a consultation.
// Handlers send the confirmation email and re-qualify open inquiries for the phone.
type ConsultationCreated struct {
	BaseEvent
	ConsultationID   uuid.UUID `json:"consultationId"`
	Phone            string    `json:"phone"`
	CitizenName      string    `json:"citizenName"`
	Email            *string   `json:"email,omitempty"`
	ConsultationDate string    `json:"consultationDate"`
	ConsultationTime string    `json:"consultationTime"`
	ConsultationType string    `json:"consultationType"`
	QueryCategory    string    `json:"queryCategory"`
}

func (e ConsultationCreated) EventName() string { return "consultations.consultation.created" }

// =============================================================================
// Application Domain Events
// =============================================================================

// ApplicationCreated is published when a scheme application is recorded.
// It changes the phone's benefit history, so open inquiries are re-qualified.
type ApplicationCreated struct {
	BaseEvent
	ApplicationID  uuid.UUID `json:"applicationId"`
	ApplicationRef string    `json:"applicationRef"`
	Phone          string    `json:"phone"`
	SchemeID       string    `json:"schemeId"`
}

func (e ApplicationCreated) EventName() string { return "applications.application.created" }

// ApplicationChanged is published when an application is edited or deleted.
type ApplicationChanged struct {
	BaseEvent
	ApplicationID uuid.UUID `json:"applicationId"`
	Phone         string    `json:"phone"`
	Deleted       bool      `json:"deleted"`
}

func (e ApplicationChanged) EventName() string { return "applications.application.changed" }

// =============================================================================
// Inquiry Domain Events
// =============================================================================

// InquiryQualified is published after an inquiry's scores were (re)computed.
// PreviousStatus is the stored qualification status the write replaced.
type InquiryQualified struct {
	BaseEvent
	InquiryID           uuid.UUID `json:"inquiryId"`
	Phone               string    `json:"phone"`
	CitizenName         string    `json:"citizenName"`
	SchemeInterest      string    `json:"schemeInterest,omitempty"`
	LeadScore           int       `json:"leadScore"`
	ICPMatchScore       int       `json:"icpMatchScore"`
	QualificationStatus string    `json:"qualificationStatus"`
	PreviousStatus      string    `json:"previousStatus,omitempty"`
}

func (e InquiryQualified) EventName() string { return "inquiries.inquiry.qualified" }
