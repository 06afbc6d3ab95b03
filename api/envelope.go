package api

import (
	"errors"
	"fmt"

	"github.com/awantoch/trellis-mcp/model"
	"github.com/awantoch/trellis-mcp/utils"
	mcp "github.com/metoro-io/mcp-golang"
)

// Envelope is the transport-neutral result of one tool call.
type Envelope struct {
	Text       string `json:"text"`
	Structured any    `json:"structured,omitempty"`
	IsError    bool   `json:"is_error"`
}

// textResult is rendered as-is instead of as indented JSON.
type textResult interface {
	Text() string
}

func success(result any) Envelope {
	if t, ok := result.(textResult); ok {
		return Envelope{Text: t.Text(), Structured: result}
	}
	return Envelope{Text: utils.MarshalIndent(result), Structured: result}
}

// failure renders err under the tool's action phrase. An upstream body, when
// present, replaces the Go error text.
func failure(action string, err error) Envelope {
	msg := err.Error()
	var up *model.UpstreamError
	if errors.As(err, &up) {
		if detail := up.Detail(); detail != "" {
			msg = detail
		}
	}
	return Envelope{Text: fmt.Sprintf("Error: %s: %s", action, msg), IsError: true}
}

// ToolResponse converts the envelope into an MCP tool response.
func (e Envelope) ToolResponse() *mcp.ToolResponse {
	return mcp.NewToolResponse(mcp.NewTextContent(e.Text))
}

// toolError carries an error envelope's text to MCP clients verbatim.
type toolError struct {
	text string
}

func (e toolError) Error() string { return e.text }
