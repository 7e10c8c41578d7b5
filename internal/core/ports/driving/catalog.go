package driving

import "github.com/custodia-labs/medexpert-cli/internal/core/domain"

// CatalogService exposes the loaded rule catalog read-only.
type CatalogService interface {
	// Diseases returns every known disease, sorted.
	Diseases() []string

	// Symptoms returns the symptom registry in declaration order.
	Symptoms() []domain.Symptom

	// Profiles returns the disease profiles.
	Profiles() []domain.DiseaseProfile

	// Rank runs the fallback ranker over the given symptom tokens.
	// Unknown tokens return domain.ErrUnknownSymptom.
	Rank(tokens []string, topK int) ([]domain.BestMatch, error)
}
