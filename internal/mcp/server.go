package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-spark/internal/config"
	"github.com/brandon/mcp-spark/internal/pdf"
	"github.com/brandon/mcp-spark/internal/spark"
	"github.com/brandon/mcp-spark/internal/tools"
)

// Server represents the MCP server
type Server struct {
	config *config.Config
	logger *logrus.Logger
	tools  *tools.Registry
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, store *spark.Store, pdfOps *pdf.Operations, logger *logrus.Logger) (*Server, error) {
	toolRegistry, err := tools.NewRegistry(cfg, store, pdfOps, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool registry: %w", err)
	}

	return &Server{
		config: cfg,
		logger: logger,
		tools:  toolRegistry,
	}, nil
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server with stdio transport")

	decoder := json.NewDecoder(os.Stdin)
	encoder := json.NewEncoder(os.Stdout)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			var req map[string]interface{}
			if err := decoder.Decode(&req); err != nil {
				if err == io.EOF {
					return nil
				}
				s.logger.WithError(err).Error("Failed to decode request")
				continue
			}

			resp := s.handleRequest(ctx, req)
			if err := encoder.Encode(resp); err != nil {
				s.logger.WithError(err).Error("Failed to encode response")
				continue
			}
		}
	}
}

// textResponse wraps a string as MCP text content.
func textResponse(id interface{}, text string) map[string]interface{} {
	return map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// handleRequest processes an MCP request
func (s *Server) handleRequest(ctx context.Context, req map[string]interface{}) map[string]interface{} {
	method, _ := req["method"].(string)
	id := req["id"]

	// Handle initialize request
	if method == "initialize" {
		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      id,
			"result": map[string]interface{}{
				"protocolVersion": "2024-11-05",
				"capabilities": map[string]interface{}{
					"tools": map[string]interface{}{},
				},
				"serverInfo": map[string]interface{}{
					"name":    "mcp-spark",
					"version": "1.0.0",
				},
			},
		}
	}

	// Handle tools/list request
	if method == "tools/list" {
		toolDefs := s.tools.GetToolDefinitions()
		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      id,
			"result": map[string]interface{}{
				"tools": toolDefs,
			},
		}
	}

	// Handle tools/call request
	if method == "tools/call" {
		params, _ := req["params"].(map[string]interface{})
		toolName, _ := params["name"].(string)
		arguments, _ := params["arguments"].(map[string]interface{})

		tool, exists := s.tools.GetTool(toolName)
		if !exists {
			return map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      id,
				"error": map[string]interface{}{
					"code":    -32601,
					"message": fmt.Sprintf("Tool not found: %s", toolName),
				},
			}
		}

		result, err := tool.Execute(arguments)
		if err != nil {
			// Tool failures go back as text so the client can read and
			// recover from them, matching the rest of the tool surface.
			s.logger.WithError(err).WithField("tool", toolName).Warn("Tool call failed")
			return textResponse(id, "Error: "+err.Error())
		}

		// Short notices (lookup misses) are delivered verbatim.
		if text, ok := result.(tools.Text); ok {
			return textResponse(id, string(text))
		}

		resultJSON, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			resultJSON = []byte(fmt.Sprintf("%v", result))
		}
		return textResponse(id, string(resultJSON))
	}

	// Unknown method
	return map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method not found: %s", method),
		},
	}
}
