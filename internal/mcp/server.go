package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/starhawk-ag/drone-pdf-extractor/internal/config"
	"github.com/starhawk-ag/drone-pdf-extractor/internal/report"
)

// Server exposes report extraction as MCP tools over standard I/O
type Server struct {
	config    *config.Config
	svc       *report.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, svc *report.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("report service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServiceName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		svc:       svc,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractReportTool := mcp.NewTool(
		"extract_report",
		mcp.WithDescription(extractReportDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the report PDF"),
		),
		mcp.WithBoolean("include_image_data",
			mcp.Description("Include the located map image as base64 in the result"),
		),
	)
	s.mcpServer.AddTool(extractReportTool, s.handleExtractReport)

	validateReportTool := mcp.NewTool(
		"validate_report",
		mcp.WithDescription(validateReportDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the report PDF"),
		),
	)
	s.mcpServer.AddTool(validateReportTool, s.handleValidateReport)
}

// Handler functions
func (s *Server) handleExtractReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	includeImageData := false
	if v, ok := args["include_image_data"].(bool); ok {
		includeImageData = v
	}

	record, err := s.svc.ExtractFile(ctx, path, report.Options{IncludeImageData: includeImageData})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode record: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleValidateReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.ValidateFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

// Run serves the MCP tools over standard I/O. The parent process
// controls the lifecycle; Run returns when stdin closes.
func (s *Server) Run(_ context.Context) error {
	log.Debug().Msg("starting MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
