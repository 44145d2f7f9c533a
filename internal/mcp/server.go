// ABOUTME: MCP server setup for the Pushover integration.
// ABOUTME: Wires tools, resources, and lazy credential resolution.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mlgill/pushover-mcp-server/internal/config"
	"github.com/mlgill/pushover-mcp-server/internal/db"
	"github.com/mlgill/pushover-mcp-server/internal/pushover"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP runtime and the Pushover integration.
type Server struct {
	mcp     *mcp.Server
	store   *db.Store
	logger  *slog.Logger
	cfgPath string
	dbPath  string

	resolve   func() config.Credentials
	newClient func(config.Credentials) *pushover.Client

	mu     sync.Mutex
	client *pushover.Client
}

// NewServer sets up the MCP server with all tools and resources.
// cfgPath may be empty to use the default config location.
func NewServer(cfgPath string, store *db.Store, dbPath string, logger *slog.Logger) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("database store is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	impl := &mcp.Implementation{Name: "pushover-mcp-server", Version: "1.0.0"}
	srv := mcp.NewServer(impl, nil)

	server := &Server{
		mcp:     srv,
		store:   store,
		logger:  logger,
		cfgPath: cfgPath,
		dbPath:  dbPath,
		resolve: func() config.Credentials { return config.Resolve(cfgPath) },
		newClient: func(creds config.Credentials) *pushover.Client {
			return pushover.NewClient(creds.Token, creds.UserKey)
		},
	}

	server.registerTools()
	server.registerResources()

	return server, nil
}

// Serve runs the MCP server over stdio until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns an http.Handler serving MCP over SSE.
func (s *Server) Handler() http.Handler {
	return mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	}, nil)
}

// Close releases the shared Pushover client, if one was created.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
}

var errNotConfigured = errors.New(
	"pushover credentials not configured: set PUSHOVER_TOKEN and PUSHOVER_USER_KEY, " +
		"or create config.json under the pushover-mcp config directory")

// pushoverClient returns the shared client, resolving credentials on
// first use. A failed resolution is not cached; the next call retries.
func (s *Server) pushoverClient() (*pushover.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}

	creds := s.resolve()
	if !creds.IsValid() {
		return nil, errNotConfigured
	}

	s.client = s.newClient(creds)
	return s.client, nil
}
