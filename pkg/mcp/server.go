package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/dbtargets/pkg/version"
)

// Server implements the MCP server for dbtargets.
type Server struct {
	extractor Extractor
	server    *mcp.Server
	tracer    trace.Tracer
	address   string
}

// NewServer creates a new MCP server instance. An empty address serves over
// stdio; anything else is an HTTP listen address.
func NewServer(address string, extractor Extractor) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	opts := &mcp.ServerOptions{
		Instructions: instructions,
	}

	s := &Server{
		address:   address,
		extractor: extractor,
		server:    mcp.NewServer(impl, opts),
		tracer:    otel.Tracer("mcp"),
	}

	s.registerTools()

	return s
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, newListTargetsTool(), WithTracing(s.tracer, s.handleListTargets))
	mcp.AddTool(s.server, newListTargetDetailsTool(), WithTracing(s.tracer, s.handleListTargetDetails))
	mcp.AddTool(s.server, newGetProfilesTool(), WithTracing(s.tracer, s.handleGetProfiles))
	mcp.AddTool(s.server, newValidateProfilesTool(), WithTracing(s.tracer, s.handleValidateProfiles))
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server and blocks until ctx is canceled or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	if s.address == "" {
		slog.InfoContext(ctx, "starting MCP server", slog.String("transport", "stdio"))

		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	slog.InfoContext(ctx, "starting MCP server",
		slog.String("transport", "http"),
		slog.String("address", s.address),
	)

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("MCP server failed: %w", err)
		}

		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	}
}

func (s *Server) serveStdio(ctx context.Context) error {
	var t mcp.Transport = mcp.NewStdioTransport()
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		t = mcp.NewLoggingTransport(t, os.Stderr)
	}

	err := s.server.Run(ctx, t)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
