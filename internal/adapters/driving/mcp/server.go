package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// DefaultIdleTimeout is how long an interview may wait for its next
// answer before it is abandoned.
const DefaultIdleTimeout = 30 * time.Minute

const instructions = `Runs a symptom interview. Call start_interview, then answer_question
with the returned session_id until the step reports finished. The
conclusion is informational and no substitute for a physician.`

// Server exposes interviews and the rule catalog over MCP.
type Server struct {
	ports       *Ports
	server      *mcp.Server
	sessions    *registry
	idleTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithIdleTimeout overrides DefaultIdleTimeout. Zero disables expiry.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idleTimeout = d }
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingInterviewService
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{Name: "medexpert", Version: Version}
	s := &Server{
		ports:       ports,
		server:      mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		sessions:    newRegistry(),
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()
	go s.expireIdle(ctx)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	defer s.Close()
	go s.expireIdle(ctx)

	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("mcp: listening on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close abandons every running interview.
func (s *Server) Close() {
	s.sessions.closeAll()
}

// expireIdle reaps idle interviews until ctx is done.
func (s *Server) expireIdle(ctx context.Context) {
	if s.idleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(s.idleTimeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.reap(s.idleTimeout); n > 0 {
				logger.Info("mcp: abandoned %d idle interview(s)", n)
			}
		}
	}
}
