// Package mcp provides an MCP (Model Context Protocol) server exposing
// the simulator and diagnostic evaluator as tools.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/neurokit/spikelab/internal/cases"
	"github.com/neurokit/spikelab/internal/store"
)

// Server wraps the MCP SDK server around the preset store and the
// optional run archive.
type Server struct {
	server *sdk.Server
	cases  *cases.Store
	runs   store.RunStore
	steps  int
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "spikelab")
	Version string // Server version
	Cases   *cases.Store
	Runs    store.RunStore // optional; nil disables run archiving
	Steps   int            // default step count for tool calls
}

// NewServer creates a new MCP server with the simulator tools.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.Cases == nil {
		return nil, fmt.Errorf("case store is required")
	}
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("default steps must be positive, got %d", cfg.Steps)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server: mcpServer,
		cases:  cfg.Cases,
		runs:   cfg.Runs,
		steps:  cfg.Steps,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	if err := s.registerResources(); err != nil {
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	if s.runs != nil {
		s.runs.Close()
	}

	return err
}

// registerResources registers the case catalog as an MCP resource so
// clients can load the available presets into context.
func (s *Server) registerResources() error {
	s.server.AddResource(&sdk.Resource{
		URI:         "spikelab://cases",
		Name:        "spikelab-cases",
		Description: "The available neuron investigation cases and their parameters.",
		MIMEType:    "text/markdown",
	}, s.handleCasesResource)

	return nil
}

// handleCasesResource renders the preset catalog as markdown.
func (s *Server) handleCasesResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	var sb strings.Builder
	sb.WriteString("# Neuron Cases\n\n")
	for _, cfg := range s.cases.All() {
		sb.WriteString(fmt.Sprintf("## %s\n\n", cfg.Name))
		sb.WriteString(fmt.Sprintf("- Threshold: %g mV\n", cfg.ThresholdVoltage))
		sb.WriteString(fmt.Sprintf("- Reset: %g mV\n", cfg.ResetVoltage))
		sb.WriteString(fmt.Sprintf("- Stimulus: %g mV/step\n", cfg.StimulusPerStep))
		sb.WriteString(fmt.Sprintf("- Initial: %g mV\n\n", cfg.InitialVoltage))
	}

	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      "spikelab://cases",
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}
