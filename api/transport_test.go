package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpsHealth(t *testing.T) {
	svc, _ := newTestService(t, nil)
	rec := httptest.NewRecorder()
	NewOpsHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","server":"trellis-mcp-server","version":"1.0.0"}`, rec.Body.String())
}

func TestOpsToolList(t *testing.T) {
	svc, _ := newTestService(t, nil)
	rec := httptest.NewRecorder()
	NewOpsHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tools []struct {
		Name        string         `json:"name"`
		InputSchema map[string]any `json:"input_schema"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tools))
	require.Len(t, tools, 15)
	assert.Equal(t, "object", tools[0].InputSchema["type"])
}

func TestOpsToolCall(t *testing.T) {
	svc, _ := newTestService(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/tools/"+constants.ToolGetAvailableActionTypes, strings.NewReader(`{}`))
	req.Header.Set(constants.HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	NewOpsHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(constants.HeaderRequestID))
	var env struct {
		Text       string `json:"text"`
		Structured struct {
			ActionTypes []string `json:"action_types"`
		} `json:"structured"`
		IsError bool `json:"is_error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.IsError)
	assert.Equal(t, constants.ActionTypes, env.Structured.ActionTypes)
}

func TestOpsToolCallErrorEnvelope(t *testing.T) {
	svc, _ := newTestService(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/tools/"+constants.ToolGetEntityFields, strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	NewOpsHandler(svc).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_error":true`)
}

func TestOpsUnknownTool(t *testing.T) {
	svc, _ := newTestService(t, nil)
	rec := httptest.NewRecorder()
	NewOpsHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/nope", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
