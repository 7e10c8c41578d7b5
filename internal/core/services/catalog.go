package services

import (
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService exposes the rule catalog read-only.
type CatalogService struct {
	catalog *domain.Catalog
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog *domain.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Diseases returns every known disease, sorted.
func (s *CatalogService) Diseases() []string {
	return s.catalog.Diseases()
}

// Symptoms returns the symptom registry in declaration order.
func (s *CatalogService) Symptoms() []domain.Symptom {
	return s.catalog.Symptoms.Symptoms()
}

// Profiles returns the disease profiles.
func (s *CatalogService) Profiles() []domain.DiseaseProfile {
	return s.catalog.Profiles
}

// Rank runs the fallback ranker over the given tokens. Tokens are
// normalised first, so "Sore Throat" matches sore_throat.
func (s *CatalogService) Rank(tokens []string, topK int) ([]domain.BestMatch, error) {
	affirmed := domain.NewSymptomSet()
	for _, t := range tokens {
		token := domain.NormaliseToken(t)
		if err := s.catalog.Symptoms.Require(token); err != nil {
			return nil, err
		}
		affirmed.Add(token)
	}
	return RankBestMatches(affirmed, s.catalog.Profiles, topK), nil
}
