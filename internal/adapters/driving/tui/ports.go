// Package tui provides an interactive terminal user interface for medexpert.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Interview runs symptom interviews.
	Interview driving.InterviewService

	// Treatment resolves and opens treatment information.
	Treatment driving.TreatmentService

	// History lists recorded sessions.
	History driving.HistoryService

	// Catalog exposes the loaded diseases and symptoms.
	Catalog driving.CatalogService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
// Optional services are set on the returned value.
func NewPorts(interview driving.InterviewService, treatment driving.TreatmentService) *Ports {
	return &Ports{
		Interview: interview,
		Treatment: treatment,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Interview == nil {
		return ErrMissingInterviewService
	}
	if p.Treatment == nil {
		return ErrMissingTreatmentService
	}
	return nil
}
