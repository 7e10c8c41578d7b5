package mcp

import (
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Interview runs symptom interviews.
	Interview driving.InterviewService

	// Treatment resolves treatment information links.
	Treatment driving.TreatmentService

	// Catalog exposes the loaded diseases and symptoms.
	Catalog driving.CatalogService

	// History lists recorded sessions.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Interview == nil {
		return ErrMissingInterviewService
	}
	// Treatment, Catalog and History are optional.
	return nil
}
