package api

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/awantoch/trellis-mcp/constants"
	mcpserver "github.com/awantoch/trellis-mcp/mcp"
	mcp "github.com/metoro-io/mcp-golang"
	mcpstdio "github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func startCatalogueServer(t *testing.T, svc *Service) *mcp.Client {
	t.Helper()
	serverReader, clientWriter := io.Pipe()
	clientReader, serverWriter := io.Pipe()
	server := mcp.NewServer(mcpstdio.NewStdioServerTransportWithIO(serverReader, serverWriter))
	require.NoError(t, mcpserver.RegisterAllTools(server, GenerateMCPTools(svc)))
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

func TestMCPCatalogue(t *testing.T) {
	svc, _ := newTestService(t, nil)
	client := startCatalogueServer(t, svc)

	resp, err := client.ListTools(context.Background(), new(string))
	require.NoError(t, err)
	names := make([]string, 0, len(resp.Tools))
	for _, tool := range resp.Tools {
		names = append(names, tool.Name)
	}
	assert.Len(t, names, 15)
	assert.Contains(t, names, constants.ToolCreateChildTransform)
}

func TestMCPCallTrigger(t *testing.T) {
	svc, up := newTestService(t, nil)
	client := startCatalogueServer(t, svc)

	resp, err := client.CallTool(context.Background(), constants.ToolCreateRowCreatedTrigger, CreateTriggerArgs{EntityName: "Referral"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Content)
	assert.Contains(t, resp.Content[0].TextContent.Text, `"was_created": true`)
	assert.Len(t, up.patches, 1)
}

// rawToolCall drives the stdio server with hand-written JSON-RPC so the
// wire-level result fields can be inspected.
func rawToolCall(t *testing.T, svc *Service, name, args string) gjson.Result {
	t.Helper()
	serverReader, clientWriter := io.Pipe()
	clientReader, serverWriter := io.Pipe()
	server := mcp.NewServer(mcpstdio.NewStdioServerTransportWithIO(serverReader, serverWriter))
	require.NoError(t, mcpserver.RegisterAllTools(server, GenerateMCPTools(svc)))
	go func() {
		if err := server.Serve(); err != nil {
			t.Errorf("MCP server Serve failed: %v", err)
		}
	}()

	lines := bufio.NewScanner(clientReader)
	lines.Buffer(make([]byte, 0, 64*1024), 4<<20)
	send := func(msg string) {
		_, err := io.WriteString(clientWriter, msg+"\n")
		require.NoError(t, err)
	}
	await := func(id int64) gjson.Result {
		for lines.Scan() {
			msg := gjson.ParseBytes(lines.Bytes())
			if msg.Get("id").Int() == id && (msg.Get("result").Exists() || msg.Get("error").Exists()) {
				return msg
			}
		}
		t.Fatalf("no response for request %d: %v", id, lines.Err())
		return gjson.Result{}
	}

	send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0.0.0"}}}`)
	await(1)
	send(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	send(fmt.Sprintf(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":%q,"arguments":%s}}`, name, args))
	return await(2)
}

func TestMCPCallErrorSetsFlag(t *testing.T) {
	svc, up := newTestService(t, nil)
	resp := rawToolCall(t, svc, constants.ToolCreateRowCreatedTrigger, `{"entity_name":"Nobody"}`)

	assert.True(t, resp.Get("result.isError").Bool(), resp.Raw)
	assert.Equal(t, `Error: creating row created trigger: no entity found with name "Nobody"`, resp.Get("result.content.0.text").String())
	assert.Empty(t, up.patches)
}

func TestMCPCallSuccessClearsFlag(t *testing.T) {
	svc, _ := newTestService(t, nil)
	resp := rawToolCall(t, svc, constants.ToolGetAvailableActionTypes, `{}`)

	assert.False(t, resp.Get("result.isError").Bool(), resp.Raw)
	assert.Contains(t, resp.Get("result.content.0.text").String(), "eval_code")
}
