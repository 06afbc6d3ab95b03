// Package mcp exposes a tool catalogue over the Model Context Protocol.
package mcp

import (
	"context"
	"io"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/utils"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
	mcphttp "github.com/metoro-io/mcp-golang/transport/http"
	mcpstdio "github.com/metoro-io/mcp-golang/transport/stdio"
)

// ToolRegistration holds a tool's registration info for the MCP server.
type ToolRegistration struct {
	Name        string
	Description string
	Handler     any // must be a func(ctx, args) (*mcp.ToolResponse, error)
}

// Options selects the transport.
type Options struct {
	Stdio bool
	Addr  string
	Debug bool
}

// Serve runs the MCP server until ctx is cancelled or the transport fails.
// Cancelling ctx closes the transport so callers can run their own shutdown.
func Serve(ctx context.Context, opts Options, tools []ToolRegistration) error {
	// stdout belongs to the protocol on stdio
	if opts.Stdio && !opts.Debug {
		utils.SetUserOutput(io.Discard)
	}

	var t transport.Transport
	if opts.Stdio {
		utils.Info("Starting MCP server on stdio...")
		t = mcpstdio.NewStdioServerTransport()
	} else {
		utils.Info("Starting MCP server on HTTP at %s%s...", opts.Addr, constants.PathMCP)
		t = mcphttp.NewHTTPTransport(constants.PathMCP).WithAddr(opts.Addr)
	}
	server := mcp.NewServer(t)
	if err := RegisterAllTools(server, tools); err != nil {
		return err
	}

	// The stdio transport returns from Serve at once while the HTTP one
	// blocks in its listener.
	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve() }()
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		if !opts.Stdio {
			return nil
		}
		<-ctx.Done()
	case <-ctx.Done():
	}
	utils.Info("Shutting down MCP server")
	if err := t.Close(); err != nil {
		utils.Warn("closing MCP transport: %v", err)
	}
	return nil
}

// RegisterAllTools registers all provided tools with the MCP server.
func RegisterAllTools(server *mcp.Server, tools []ToolRegistration) error {
	for _, t := range tools {
		if err := server.RegisterTool(t.Name, t.Description, t.Handler); err != nil {
			return utils.Errorf("register tool %s: %w", t.Name, err)
		}
	}
	return nil
}
