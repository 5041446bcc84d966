package adapters

import (
	"context"

	appservice "saarthi_backend/internal/applications/service"
	schemeservice "saarthi_backend/internal/schemes/service"
)

// ApplicationSchemeLookup adapts the schemes service for the applications
// domain, satisfying applications/service.SchemeLookup.
type ApplicationSchemeLookup struct {
	schemes *schemeservice.Service
}

// NewApplicationSchemeLookup creates a new lookup adapter.
func NewApplicationSchemeLookup(schemes *schemeservice.Service) *ApplicationSchemeLookup {
	return &ApplicationSchemeLookup{schemes: schemes}
}

// LookupScheme returns the catalog fields an application copies.
func (a *ApplicationSchemeLookup) LookupScheme(ctx context.Context, schemeID string) (appservice.SchemeInfo, error) {
	s, err := a.schemes.GetBySchemeID(ctx, schemeID)
	if err != nil {
		return appservice.SchemeInfo{}, err
	}
	return appservice.SchemeInfo{
		SchemeID:      s.SchemeID,
		Name:          s.Name,
		Category:      s.Category,
		BenefitAmount: s.BenefitAmount,
	}, nil
}
