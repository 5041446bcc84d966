package adapters

import (
	"context"

	citizentransport "saarthi_backend/internal/citizens/transport"
	"saarthi_backend/internal/eligibility"
	schemerepo "saarthi_backend/internal/schemes/repository"
	schemeservice "saarthi_backend/internal/schemes/service"
)

// CitizenSchemeMatcher adapts the schemes service for the citizens domain,
// satisfying citizens/service.SchemeMatcher.
type CitizenSchemeMatcher struct {
	schemes *schemeservice.Service
}

// NewCitizenSchemeMatcher creates a new matcher adapter.
func NewCitizenSchemeMatcher(schemes *schemeservice.Service) *CitizenSchemeMatcher {
	return &CitizenSchemeMatcher{schemes: schemes}
}

// EligibleSchemes runs the matcher over the whole active catalog.
func (a *CitizenSchemeMatcher) EligibleSchemes(ctx context.Context, profile eligibility.Profile) ([]citizentransport.EligibleScheme, error) {
	schemes, err := a.schemes.Eligible(ctx, profile, schemerepo.CatalogFilter{})
	if err != nil {
		return nil, err
	}

	out := make([]citizentransport.EligibleScheme, 0, len(schemes))
	for _, s := range schemes {
		out = append(out, citizentransport.EligibleScheme{
			SchemeID:           s.SchemeID,
			Name:               s.Name,
			Category:           s.Category,
			BenefitAmount:      s.BenefitAmount,
			BenefitDescription: s.BenefitDescription,
			PopularityScore:    s.PopularityScore,
		})
	}
	return out, nil
}
