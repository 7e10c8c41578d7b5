package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractDisease(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "plain name", uri: "medexpert://diseases/Flu", expected: "Flu"},
		{name: "escaped name", uri: "medexpert://diseases/Common%20Cold", expected: "Common Cold"},
		{name: "invalid prefix", uri: "file://diseases/Flu", expected: ""},
		{name: "bad escape", uri: "medexpert://diseases/%zz", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDisease(tt.uri))
		})
	}
}

func TestServer_handleDiseasesResource(t *testing.T) {
	server := newTestServer(t, &Ports{Interview: scriptedInterview(), Catalog: &mockCatalogService{}})

	result, err := server.handleDiseasesResource(context.Background(), readRequest("medexpert://diseases"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"disease": "Common Cold"`)
	assert.Contains(t, result.Contents[0].Text, `"fever"`)
}

func TestServer_handleSymptomsResource(t *testing.T) {
	server := newTestServer(t, &Ports{Interview: scriptedInterview(), Catalog: &mockCatalogService{}})

	result, err := server.handleSymptomsResource(context.Background(), readRequest("medexpert://symptoms"))
	require.NoError(t, err)
	assert.Contains(t, result.Contents[0].Text, `"label": "Fever"`)
}

func TestServer_handleDiseaseResource(t *testing.T) {
	server := newTestServer(t, &Ports{Interview: scriptedInterview(), Catalog: &mockCatalogService{}})

	t.Run("found case-insensitively", func(t *testing.T) {
		result, err := server.handleDiseaseResource(context.Background(), readRequest("medexpert://diseases/common%20cold"))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "Common Cold")
	})

	t.Run("unknown disease", func(t *testing.T) {
		_, err := server.handleDiseaseResource(context.Background(), readRequest("medexpert://diseases/Gout"))
		require.Error(t, err)
	})
}

func TestServer_handleSessionsResource(t *testing.T) {
	t.Run("returns records", func(t *testing.T) {
		history := &mockHistoryService{records: []domain.SessionRecord{sampleRecord}}
		server := newTestServer(t, &Ports{Interview: scriptedInterview(), History: history})

		result, err := server.handleSessionsResource(context.Background(), readRequest("medexpert://sessions"))
		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"name": "Alex"`)
		assert.Contains(t, text, `"diagnosis": "Flu"`)
		assert.Contains(t, text, "2024-03-01T12:00:00Z")
	})

	t.Run("empty history", func(t *testing.T) {
		server := newTestServer(t, &Ports{Interview: scriptedInterview(), History: &mockHistoryService{}})

		result, err := server.handleSessionsResource(context.Background(), readRequest("medexpert://sessions"))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		history := &mockHistoryService{err: errors.New("disk gone")}
		server := newTestServer(t, &Ports{Interview: scriptedInterview(), History: history})

		_, err := server.handleSessionsResource(context.Background(), readRequest("medexpert://sessions"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk gone")
	})
}
