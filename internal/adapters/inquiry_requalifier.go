package adapters

import (
	"context"

	inquiryservice "saarthi_backend/internal/inquiries/service"

	"github.com/google/uuid"
)

// InquiryRequalifier lets the background worker re-score inquiries through
// the inquiries service.
type InquiryRequalifier struct {
	svc *inquiryservice.Service
}

// NewInquiryRequalifier creates the adapter.
func NewInquiryRequalifier(svc *inquiryservice.Service) *InquiryRequalifier {
	return &InquiryRequalifier{svc: svc}
}

// RequalifyInquiry re-scores one inquiry and discards the response body.
func (a *InquiryRequalifier) RequalifyInquiry(ctx context.Context, inquiryID uuid.UUID) error {
	_, err := a.svc.Requalify(ctx, inquiryID)
	return err
}
