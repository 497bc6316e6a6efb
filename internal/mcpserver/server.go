package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/report"
)

// Intake is what the tools need from the report log.
type Intake interface {
	report.Submitter
	LoadFeed(ctx context.Context) (*intake.Feed, error)
	UpdateStatus(ctx context.Context, reference string, status intake.Status, outcome string) (intake.Entry, error)
	Evidence(ctx context.Context, object string) ([]byte, error)
}

// Options configures how submitted reports are staged and validated.
type Options struct {
	StagingDir         string
	MaxAttachments     int
	MaxAttachmentBytes int64
	SubmitTimeout      time.Duration
}

// Server exposes report intake to MCP clients over streamable HTTP. Every
// report_submit call runs its own wizard machine, so agents go through the
// same gates as the terminal wizard.
type Server struct {
	intake     Intake
	opts       Options
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates a new MCP server over the given intake.
// The server is not started until Start() is called.
func New(in Intake, opts Options) *Server {
	s := &Server{
		intake: in,
		opts:   opts,
	}
	s.mcpServer = server.NewMCPServer(
		"reportu",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Start listens on addr ("127.0.0.1:0" picks a free port) and serves the
// MCP endpoint at /mcp in the background. It returns the bound port.
func (s *Server) Start(ctx context.Context, addr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = mcpHandler

	// Capture stdServer for the goroutine to avoid racing with Stop()
	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP intake listening on port %d", s.port)
	return s.port, nil
}

// Stop stops the MCP HTTP server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.stdServer.Shutdown(ctx); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL for the MCP server endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
