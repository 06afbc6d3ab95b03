package mcp

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/awantoch/trellis-mcp/utils"
	mcp "github.com/metoro-io/mcp-golang"
	mcpstdio "github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/stretchr/testify/require"
)

type emptyArgs struct{}

type echoArgs struct {
	Name string `json:"name" jsonschema:"required,description=Name to echo"`
}

// startTestServer launches an in-memory stdio MCP server with the given tool registrations and returns a client.
func startTestServer(t *testing.T, regs []ToolRegistration) *mcp.Client {
	t.Helper()
	serverReader, clientWriter := io.Pipe()
	clientReader, serverWriter := io.Pipe()
	server := mcp.NewServer(mcpstdio.NewStdioServerTransportWithIO(serverReader, serverWriter))
	require.NoError(t, RegisterAllTools(server, regs))
	go func() {
		if err := server.Serve(); err != nil {
			t.Errorf("MCP server Serve failed: %v", err)
		}
	}()
	client := mcp.NewClient(mcpstdio.NewStdioServerTransportWithIO(clientReader, clientWriter))
	_, err := client.Initialize(context.Background())
	require.NoError(t, err)
	return client
}

func echoTools() []ToolRegistration {
	return []ToolRegistration{
		{
			Name:        "echo",
			Description: "echo tool",
			Handler: func(ctx context.Context, args echoArgs) (*mcp.ToolResponse, error) {
				return mcp.NewToolResponse(mcp.NewTextContent("hello " + args.Name)), nil
			},
		},
		{
			Name:        "ping",
			Description: "ping tool",
			Handler: func(ctx context.Context, args emptyArgs) (*mcp.ToolResponse, error) {
				return mcp.NewToolResponse(mcp.NewTextContent("pong")), nil
			},
		},
	}
}

func TestListTools(t *testing.T) {
	regs := echoTools()
	client := startTestServer(t, regs)
	resp, err := client.ListTools(context.Background(), new(string))
	require.NoError(t, err)
	require.Len(t, resp.Tools, len(regs))
}

func TestCallTool(t *testing.T) {
	client := startTestServer(t, echoTools())
	resp, err := client.CallTool(context.Background(), "echo", echoArgs{Name: "trellis"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Content)
	require.Equal(t, "hello trellis", resp.Content[0].TextContent.Text)
}

func TestRegisterAllToolsRejectsBadHandler(t *testing.T) {
	server := mcp.NewServer(mcpstdio.NewStdioServerTransportWithIO(strings.NewReader(""), io.Discard))
	err := RegisterAllTools(server, []ToolRegistration{{Name: "bad", Description: "bad", Handler: 42}})
	require.Error(t, err)
}

func TestServeHTTPStopsOnCancel(t *testing.T) {
	var logs bytes.Buffer
	utils.SetInternalOutput(&logs)
	defer utils.SetInternalOutput(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, Options{Addr: "127.0.0.1:0"}, echoTools())
	}()
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after the context was cancelled")
	}
	require.Equal(t, 1, strings.Count(logs.String(), "127.0.0.1:0/mcp"), logs.String())
	require.Contains(t, logs.String(), "Shutting down MCP server")
}
