package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for proofcheck resources.
	uriScheme = "proofcheck://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Stored compare and locate runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Template for a single run.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "A stored run with its page or rule records",
		MIMEType:    "application/json",
	}, s.handleRunResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "capabilities",
		Name:        "capabilities",
		Description: "Optional backends and whether they are available",
		MIMEType:    "application/json",
	}, s.handleCapabilitiesResource)
}

// handleRunsResource returns the run history.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, []RunOutput{})
	}

	runs, err := s.ports.History.List(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]RunOutput, len(runs))
	for i := range runs {
		infos[i] = runOutput(&runs[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleRunResource returns one run.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract runId from URI: proofcheck://runs/{runId}
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.History.Get(ctx, runID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, run)
}

// handleCapabilitiesResource returns the capability list.
func (s *Server) handleCapabilitiesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Capabilities == nil {
		return jsonResult(req.Params.URI, []any{})
	}
	return jsonResult(req.Params.URI, s.ports.Capabilities.List())
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like proofcheck://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
