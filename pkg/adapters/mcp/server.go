// Package mcp exposes grid expansion as a tool server for agent-driven use.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jnothman/searchgrid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SizeResponse is the structured result of the grid_size tool.
type SizeResponse struct {
	Size int `json:"size" jsonschema_description:"Number of candidate settings"`
}

// ValidateResponse is the structured result of the validate_spec tool.
type ValidateResponse struct {
	Valid bool   `json:"valid" jsonschema_description:"Whether the document compiles"`
	Error string `json:"error,omitempty" jsonschema_description:"Compilation error when invalid"`
	Type  string `json:"type,omitempty" jsonschema_description:"Root estimator type"`
}

// Server wraps an Expander and exposes it as an MCP server.
type Server struct {
	expander  *searchgrid.Expander
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(expander *searchgrid.Expander) *Server {
	s := &Server{
		expander:  expander,
		mcpServer: server.NewMCPServer("searchgrid-mcp", strings.TrimSpace(searchgrid.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	// Start the SSE server
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: expand_grid
	expandTool := mcp.NewTool("expand_grid",
		mcp.WithDescription("Expand a YAML grid document into fully-qualified parameter grids with a candidate count."),
		mcp.WithString("document", mcp.Required(), mcp.Description("YAML grid document")),
		mcp.WithOutputSchema[searchgrid.Expansion](),
	)
	s.mcpServer.AddTool(expandTool, mcp.NewStructuredToolHandler(s.handleExpand))

	// TOOL: grid_size
	sizeTool := mcp.NewTool("grid_size",
		mcp.WithDescription("Count the candidate settings a YAML grid document expands to."),
		mcp.WithString("document", mcp.Required(), mcp.Description("YAML grid document")),
		mcp.WithOutputSchema[SizeResponse](),
	)
	s.mcpServer.AddTool(sizeTool, mcp.NewStructuredToolHandler(s.handleSize))

	// TOOL: validate_spec
	validateTool := mcp.NewTool("validate_spec",
		mcp.WithDescription("Check whether a YAML grid document parses and compiles against the component registry."),
		mcp.WithString("document", mcp.Required(), mcp.Description("YAML grid document")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))
}

// Handler methods for structured tools

func (s *Server) handleExpand(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (searchgrid.Expansion, error) {
	doc, _ := args["document"].(string)

	exp, err := s.expander.Expand(ctx, []byte(doc))
	if err != nil {
		return searchgrid.Expansion{}, fmt.Errorf("expand failed: %w", err)
	}
	return *exp, nil
}

func (s *Server) handleSize(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SizeResponse, error) {
	doc, _ := args["document"].(string)

	gs, err := s.expander.Search(ctx, []byte(doc))
	if err != nil {
		return SizeResponse{}, fmt.Errorf("size failed: %w", err)
	}
	return SizeResponse{Size: gs.Size()}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	doc, _ := args["document"].(string)

	// An invalid document is a result, not a tool failure.
	d, err := s.expander.Validate(ctx, []byte(doc))
	if err != nil {
		return ValidateResponse{Valid: false, Error: err.Error()}, nil
	}
	return ValidateResponse{Valid: true, Type: d.Estimator.Type}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: searchgrid://components
	s.mcpServer.AddResource(mcp.NewResource("searchgrid://components", "Registered Component Types",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names := s.expander.Registry().Names()
		jsonBytes, err := json.Marshal(names)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal component names: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "searchgrid://components",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
