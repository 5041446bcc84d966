package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"saarthi_backend/internal/schemes/transport"
	"saarthi_backend/platform/apperr"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the YAML document accepted by the catalog import.
type CatalogFile struct {
	Schemes []transport.CreateSchemeRequest `yaml:"schemes"`
}

// StructValidator validates a decoded catalog entry.
type StructValidator interface {
	Struct(s interface{}) error
}

// ImportResult summarizes a catalog import.
type ImportResult struct {
	Upserted int
	Failed   []string
}

// ParseCatalog decodes a YAML catalog. Duplicate scheme ids are rejected.
func ParseCatalog(data []byte) ([]transport.CreateSchemeRequest, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperr.BadRequest("invalid scheme catalog").WithDetails(err.Error())
	}

	seen := make(map[string]struct{}, len(file.Schemes))
	for i, entry := range file.Schemes {
		id := strings.TrimSpace(entry.SchemeID)
		if id == "" {
			return nil, apperr.Validation(fmt.Sprintf("scheme #%d has no scheme_id", i+1))
		}
		if _, dup := seen[id]; dup {
			return nil, apperr.Conflict("duplicate scheme_id in catalog: " + id)
		}
		seen[id] = struct{}{}
	}
	return file.Schemes, nil
}

// Import upserts every entry by scheme_id. Invalid or failing entries are
// skipped and reported; the remaining entries are still written.
func (s *Service) Import(ctx context.Context, entries []transport.CreateSchemeRequest, val StructValidator) (ImportResult, error) {
	var (
		result ImportResult
		errs   []error
	)
	for _, entry := range entries {
		if val != nil {
			if err := val.Struct(entry); err != nil {
				result.Failed = append(result.Failed, entry.SchemeID)
				errs = append(errs, fmt.Errorf("%s: %w", entry.SchemeID, err))
				continue
			}
		}

		saved, err := s.repo.Upsert(ctx, toScheme(entry))
		if err != nil {
			result.Failed = append(result.Failed, entry.SchemeID)
			errs = append(errs, fmt.Errorf("%s: %w", entry.SchemeID, err))
			continue
		}
		result.Upserted++
		s.log.Info("scheme imported", "schemeId", saved.SchemeID, "category", saved.Category)
	}
	return result, errors.Join(errs...)
}
