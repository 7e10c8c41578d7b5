package services

import (
	"sort"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

// RankBestMatches scores every disease profile by how much of it the
// affirmed symptoms cover: |affirmed ∩ profile| / |profile|.
//
// Profiles with no symptoms and diseases with no overlap are excluded, so
// every returned score lies in (0, 1]. Results are sorted by score
// descending, then disease name ascending, and truncated to topK
// (domain.DefaultTopK when topK <= 0). An empty affirmed set yields an
// empty result. The function is pure.
func RankBestMatches(affirmed domain.SymptomSet, profiles []domain.DiseaseProfile, topK int) []domain.BestMatch {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	if len(affirmed) == 0 {
		return []domain.BestMatch{}
	}

	ranked := make([]domain.BestMatch, 0, len(profiles))
	for _, p := range profiles {
		profile := domain.NewSymptomSet(p.Symptoms...)
		if len(profile) == 0 {
			continue
		}

		matched := make([]string, 0, len(profile))
		for token := range profile {
			if affirmed.Has(token) {
				matched = append(matched, token)
			}
		}
		if len(matched) == 0 {
			continue
		}
		sort.Strings(matched)

		ranked = append(ranked, domain.BestMatch{
			Disease:     p.Disease,
			Score:       float64(len(matched)) / float64(len(profile)),
			Matched:     matched,
			Overlap:     len(matched),
			ProfileSize: len(profile),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		// Cross-multiply so equal ratios compare equal.
		lhs := a.Overlap * b.ProfileSize
		rhs := b.Overlap * a.ProfileSize
		if lhs != rhs {
			return lhs > rhs
		}
		return a.Disease < b.Disease
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
