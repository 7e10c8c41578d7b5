package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for medexpert resources.
	uriScheme = "medexpert://"

	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Catalog != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "diseases",
			Name:        "diseases",
			Description: "Disease profiles used for best-match ranking",
			MIMEType:    "application/json",
		}, s.handleDiseasesResource)

		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "symptoms",
			Name:        "symptoms",
			Description: "Symptom tokens and their display labels",
			MIMEType:    "application/json",
		}, s.handleSymptomsResource)

		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "diseases/{disease}",
			Name:        "disease-profile",
			Description: "Canonical symptom set of one disease",
			MIMEType:    "application/json",
		}, s.handleDiseaseResource)
	}

	if s.ports.History != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "sessions",
			Name:        "sessions",
			Description: "Recently recorded interview sessions, newest first",
			MIMEType:    "application/json",
		}, s.handleSessionsResource)
	}
}

type profileInfo struct {
	Disease  string   `json:"disease"`
	Symptoms []string `json:"symptoms"`
}

// handleDiseasesResource returns every disease profile.
func (s *Server) handleDiseasesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	profiles := s.ports.Catalog.Profiles()
	infos := make([]profileInfo, len(profiles))
	for i, p := range profiles {
		infos[i] = profileInfo{Disease: p.Disease, Symptoms: p.Symptoms}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleSymptomsResource returns the symptom registry.
func (s *Server) handleSymptomsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type symptomInfo struct {
		Token string `json:"token"`
		Label string `json:"label"`
	}

	symptoms := s.ports.Catalog.Symptoms()
	infos := make([]symptomInfo, len(symptoms))
	for i, sym := range symptoms {
		infos[i] = symptomInfo{Token: sym.Token, Label: sym.Label}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleDiseaseResource returns a single disease profile.
func (s *Server) handleDiseaseResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	disease := extractDisease(req.Params.URI)
	if disease == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	for _, p := range s.ports.Catalog.Profiles() {
		if strings.EqualFold(p.Disease, disease) {
			return jsonResult(req.Params.URI, profileInfo{Disease: p.Disease, Symptoms: p.Symptoms})
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// handleSessionsResource returns recently recorded sessions.
func (s *Server) handleSessionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.History.List(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	type sessionInfo struct {
		ID         string   `json:"id,omitempty"`
		Timestamp  string   `json:"timestamp"`
		Name       string   `json:"name"`
		Gender     string   `json:"gender"`
		Diagnosis  string   `json:"diagnosis"`
		Provenance string   `json:"provenance"`
		Matched    []string `json:"matched"`
		Affirmed   []string `json:"affirmed"`
	}

	infos := make([]sessionInfo, len(records))
	for i, r := range records {
		infos[i] = sessionInfo{
			ID:         r.ID,
			Timestamp:  r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			Name:       r.Subject.Name,
			Gender:     r.Subject.Gender,
			Diagnosis:  r.Diagnosis,
			Provenance: r.Provenance.String(),
			Matched:    r.Matched,
			Affirmed:   r.Affirmed,
		}
	}
	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDisease extracts the disease name from a URI like medexpert://diseases/{disease}.
func extractDisease(uri string) string {
	const prefix = uriScheme + "diseases/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return name
}
