package mcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil interview service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingInterviewService)
	})

	t.Run("nil ports returns error", func(t *testing.T) {
		server, err := NewServer(nil)
		assert.ErrorIs(t, err, ErrMissingInterviewService)
		assert.Nil(t, server)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Interview: scriptedInterview()})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil interview service returns error", func(t *testing.T) {
		assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingInterviewService)
	})

	t.Run("interview only is valid", func(t *testing.T) {
		assert.NoError(t, (&Ports{Interview: scriptedInterview()}).Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Interview: scriptedInterview(),
			Treatment: &mockTreatmentService{},
			Catalog:   &mockCatalogService{},
			History:   &mockHistoryService{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_CloseAbandonsSessions(t *testing.T) {
	server, err := NewServer(&Ports{Interview: scriptedInterview()})
	require.NoError(t, err)

	_, out, err := server.handleStart(t.Context(), nil, StartInput{})
	require.NoError(t, err)
	require.NotNil(t, out.Question)
	assert.Equal(t, 1, server.sessions.len())

	server.Close()
	assert.Equal(t, 0, server.sessions.len())

	_, _, err = server.handleAnswer(t.Context(), nil, AnswerInput{SessionID: out.SessionID, Answer: "Alex"})
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestNewServer_WithIdleTimeout(t *testing.T) {
	server, err := NewServer(&Ports{Interview: scriptedInterview()}, WithIdleTimeout(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, server.idleTimeout)

	server, err = NewServer(&Ports{Interview: scriptedInterview()})
	require.NoError(t, err)
	assert.Equal(t, DefaultIdleTimeout, server.idleTimeout)
}

func TestRegistry_ReapIdleSessions(t *testing.T) {
	server, err := NewServer(&Ports{Interview: scriptedInterview()})
	require.NoError(t, err)
	defer server.Close()

	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	server.sessions.now = func() time.Time { return now }

	_, stale, err := server.handleStart(t.Context(), nil, StartInput{})
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, fresh, err := server.handleStart(t.Context(), nil, StartInput{})
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, server.sessions.reap(30*time.Minute))
	assert.Equal(t, 1, server.sessions.len())

	_, err = server.sessions.get(stale.SessionID)
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = server.sessions.get(fresh.SessionID)
	assert.NoError(t, err)
}
