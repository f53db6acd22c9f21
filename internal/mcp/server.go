// Package mcp exposes dataset acquisition and validation as MCP tools over
// stdio, so agent frontends can drive data preparation directly.
package mcp

import (
	"context"
	"fmt"

	"dialogprep/internal/acquire"
	"dialogprep/internal/config"
	"dialogprep/internal/dataset"
	"dialogprep/internal/logging"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server around the acquisition pipeline.
type Server struct {
	MCPServer *sdkmcp.Server
	Settings  config.Settings
}

// NewServer creates an MCP server with acquisition and validation tools.
func NewServer(settings config.Settings) *Server {
	s := &Server{Settings: settings}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "dialogprep", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "acquire_dataset",
		Description: "Acquire the dialogue dataset: reuse a valid cached copy, download and extract the archive, or fall back to the hosted source. Returns the dataset root and the path taken.",
	}, s.handleAcquire)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "verify_dataset",
		Description: "Produce sampled statistics for a dataset root: per-split file and conversation counts, sidecar flags, and sampled service identifiers.",
	}, s.handleVerify)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "dataset_status",
		Description: "Cheap split-presence check for a dataset root. Reads no file contents.",
	}, s.handleStatus)
}

// --- Tool input/output types ---

type acquireInput struct {
	DataDir string `json:"data_dir,omitempty" jsonschema:"dataset root to acquire into (default: configured data dir)"`
}

type acquireOutput struct {
	Root    string `json:"root"`
	Outcome string `json:"outcome"`
}

type verifyInput struct {
	Root string `json:"root,omitempty" jsonschema:"dataset root to verify (default: configured data dir)"`
}

type verifyOutput struct {
	Report *dataset.Report `json:"report"`
}

type statusInput struct {
	Root string `json:"root,omitempty" jsonschema:"dataset root to check (default: configured data dir)"`
}

type statusOutput struct {
	Valid      bool           `json:"valid"`
	FileCounts map[string]int `json:"file_counts"`
}

// --- Tool handlers ---

func (s *Server) handleAcquire(ctx context.Context, _ *sdkmcp.CallToolRequest, input acquireInput) (*sdkmcp.CallToolResult, acquireOutput, error) {
	settings := s.Settings
	if input.DataDir != "" {
		settings.DataDir = input.DataDir
	}
	if err := settings.Validate(); err != nil {
		return nil, acquireOutput{}, err
	}

	logger := logging.New("mcp")
	a := acquire.New(settings, nil)
	result, err := a.Acquire(ctx)
	if err != nil {
		return nil, acquireOutput{}, fmt.Errorf("acquire_dataset: %w", err)
	}

	logger.Info("acquisition served over mcp", "root", result.Root, "outcome", result.Outcome.String())
	return nil, acquireOutput{Root: result.Root, Outcome: result.Outcome.String()}, nil
}

func (s *Server) handleVerify(_ context.Context, _ *sdkmcp.CallToolRequest, input verifyInput) (*sdkmcp.CallToolResult, verifyOutput, error) {
	root := input.Root
	if root == "" {
		root = s.Settings.DataDir
	}
	if root == "" {
		return nil, verifyOutput{}, fmt.Errorf("root is required")
	}
	return nil, verifyOutput{Report: dataset.Verify(root)}, nil
}

func (s *Server) handleStatus(_ context.Context, _ *sdkmcp.CallToolRequest, input statusInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	root := input.Root
	if root == "" {
		root = s.Settings.DataDir
	}
	if root == "" {
		return nil, statusOutput{}, fmt.Errorf("root is required")
	}
	return nil, statusOutput{
		Valid:      dataset.IsValid(root),
		FileCounts: dataset.FileCounts(root),
	}, nil
}
