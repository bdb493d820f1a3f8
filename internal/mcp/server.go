// Package mcp exposes the admissibility gate over the Model Context
// Protocol on stdio, so agent hosts can query structural permission
// before committing an action.
package mcp

import (
	"context"
	"fmt"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pkarpov/structgate/internal/gate"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string
}

// Server wraps the MCP SDK server around the gate. Parameters are
// swapped atomically on hot reload; every tool call reads them under
// the lock.
type Server struct {
	mcpServer  *mcpsdk.Server
	configPath string

	mu         sync.RWMutex
	params     gate.Params
	configHash string
}

// New creates an MCP server with the gate configuration loaded from
// cfg.ConfigPath (empty means defaults).
func New(cfg Config) (*Server, error) {
	params, hash, err := gate.LoadParamsWithHash(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load gate config: %w", err)
	}

	s := &Server{
		configPath: cfg.ConfigPath,
		params:     params,
		configHash: hash,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "structgate",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Params returns the current gate parameters and their config hash.
func (s *Server) Params() (gate.Params, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params, s.configHash
}

// ReloadParams re-reads the gate configuration from disk. An invalid
// file leaves the running parameters untouched.
func (s *Server) ReloadParams() error {
	params, hash, err := gate.LoadParamsWithHash(s.configPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.params = params
	s.configHash = hash
	s.mu.Unlock()
	return nil
}

// registerTools adds all structgate tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "gate_check",
		Description: "Evaluate one (g, a, c) observable triple against the admissibility gate. Returns status, score, permission, risk, and reason.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "gate_sweep",
		Description: "Sweep the full observable cube at a given grid resolution and verify status monotonicity. Returns counts and any violations.",
	}, s.handleSweep)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "gate_sequence",
		Description: "Evaluate an ordered sequence of triples with resistance accumulation. Returns per-step records and final state.",
	}, s.handleSequence)
}
