package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "0.1.0"

const instructions = `proofcheck compares document proofs and finds leaflet terms.
Use compare_documents for two files (PDF or image), locate_terms for a rule
sheet against a PDF, then resolve_location with the returned run_id to get a
highlight rectangle. list_runs and proofcheck://runs show past results.`

// shutdownGrace bounds how long in-flight HTTP requests may finish.
const shutdownGrace = 5 * time.Second

// Server exposes the proofcheck services as MCP tools and resources.
type Server struct {
	ports    *Ports
	server   *mcp.Server
	sessions *sessionCache
}

// NewServer creates a server over ports. Only Compare is required.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "proofcheck", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
		sessions: newSessionCache(maxSessions),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves a single client over stdio until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP listens on addr and serves streamable HTTP until ctx is done.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles streamable HTTP on ln until ctx is done. Every client
// shares the same tool set and locate sessions.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()

	srv := &http.Server{
		Handler: mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.server
		}, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-stopped
		return nil
	}
	return err
}

// Close releases every open locate session.
func (s *Server) Close() error {
	return s.sessions.closeAll()
}
