package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/awantoch/trellis-mcp/config"
	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/ids"
	"github.com/awantoch/trellis-mcp/trellis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// upstream is a fake workflow API that records every request.
type upstream struct {
	mu      sync.Mutex
	calls   []string
	patches [][]byte
	graph   string
}

func (u *upstream) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		u.calls = append(u.calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/entities":
			_, _ = w.Write([]byte(`{"data":{"entities":[{"id":"ent_ref","name":"Referral"},{"id":"ent_doc","name":"Document"}]}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/entities/ent_ref/fields":
			_, _ = w.Write([]byte(`[{"id":"fld_status","name":"Status"}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/transforms":
			_, _ = w.Write([]byte(`{"data":[{"id":"tr_1","name":"Extract"}]}`))
		case r.Method == http.MethodGet && r.URL.Path == "/workflows/wf_1/config":
			_, _ = w.Write([]byte(u.graph))
		case r.Method == http.MethodPatch && r.URL.Path == "/workflows/wf_1/blocks":
			body, _ := io.ReadAll(r.Body)
			u.patches = append(u.patches, body)
			mapping := map[string]string{}
			for _, b := range gjson.GetBytes(body, "blocks").Array() {
				mapping[b.Get("id").String()] = "srv_" + b.Get("id").String()
			}
			out, _ := json.Marshal(map[string]any{"data": map[string]any{"id_mapping": mapping}})
			_, _ = w.Write(out)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/entities":
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "proj_1", gjson.GetBytes(body, "project_id").String())
			_, _ = w.Write([]byte(`{"data":{"id":"ent_new","name":"Invoice","entity_type":"table"}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"unknown route"}`))
		}
	}
}

func (u *upstream) count(prefix string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, c := range u.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T, mutate func(*config.Config)) (*Service, *upstream) {
	t.Helper()
	up := &upstream{graph: `{"nodes":[{"id":"blk_a","type":"action","position":{"x":0,"y":0}}],"edges":[]}`}
	srv := httptest.NewServer(up.handler(t))
	t.Cleanup(srv.Close)
	cfg := &config.Config{
		APIKey:     "key",
		APIBase:    srv.URL,
		APIVersion: constants.DefaultAPIVersion,
		ProjectID:  "proj_1",
		WorkflowID: "wf_1",
	}
	if mutate != nil {
		mutate(cfg)
	}
	return NewService(cfg, trellis.NewClient(cfg), ids.NewSequence()), up
}

func invoke(t *testing.T, svc *Service, name, args string) Envelope {
	t.Helper()
	env, err := svc.Invoke(context.Background(), name, []byte(args))
	require.NoError(t, err)
	return env
}

func TestCatalogueOrderAndSchemas(t *testing.T) {
	tools := Catalogue()
	require.Len(t, tools, 15)
	assert.Equal(t, constants.ToolGetWorkflowConfig, tools[0].Name)
	assert.Equal(t, constants.ToolSyncChildFieldToParent, tools[14].Name)

	byName := map[string]ToolInfo{}
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Title, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		require.NotNil(t, tool.InputSchema, tool.Name)
		byName[tool.Name] = tool
	}
	rec := byName[constants.ToolAddCreateRecordBlock].InputSchema
	assert.ElementsMatch(t, []string{"source_block_id", "entity_name", "field_mappings"}, rec.Required)
	_, ok := rec.Properties.Get("position_x")
	assert.True(t, ok)
}

func TestGetAvailableActionTypes(t *testing.T) {
	svc, up := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolGetAvailableActionTypes, "")
	require.False(t, env.IsError)

	var list []string
	require.NoError(t, json.Unmarshal([]byte(env.Text), &list))
	assert.Equal(t, constants.ActionTypes, list)
	assert.Equal(t, 0, up.count(""))
}

func TestGetEntitiesDefaults(t *testing.T) {
	var query string
	svc, _ := newTestService(t, nil)
	svc.client = trellis.NewClient(svc.cfg, trellis.WithHTTPClient(doerFunc(func(r *http.Request) (*http.Response, error) {
		query = r.URL.RawQuery
		return jsonResponse(`[{"id":"e1","name":"Referral"}]`), nil
	})))

	env := invoke(t, svc, constants.ToolGetEntities, `{"project_id":"proj_override"}`)
	require.False(t, env.IsError, env.Text)
	assert.Contains(t, query, "project_id=proj_override")
	assert.Contains(t, query, "limit=20")
	assert.Contains(t, query, "offset=0")
	assert.Contains(t, query, "order_by=updated_at")
	assert.Contains(t, query, "order=desc")
	assert.Contains(t, query, "primary_only=false")
	assert.Equal(t, "Referral", gjson.Get(env.Text, "0.name").String())
}

func TestMissingWorkflowID(t *testing.T) {
	svc, up := newTestService(t, func(c *config.Config) { c.WorkflowID = "" })
	env := invoke(t, svc, constants.ToolGetWorkflowConfig, "{}")
	assert.True(t, env.IsError)
	assert.Equal(t, "Error: retrieving workflow config: WORKFLOW_ID not found in environment variables", env.Text)
	assert.Equal(t, 0, up.count(""))
}

func TestMissingRequiredArgumentMakesNoCall(t *testing.T) {
	svc, up := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolGetEntityFields, `{}`)
	assert.True(t, env.IsError)
	assert.Equal(t, "Error: retrieving entity fields: required field 'entity_id' cannot be empty", env.Text)
	assert.Equal(t, 0, up.count(""))
}

func TestUpstreamErrorBodyIsSurfaced(t *testing.T) {
	svc, _ := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolGetEntityFields, `{"entity_id":"missing"}`)
	assert.True(t, env.IsError)
	assert.Equal(t, "Error: retrieving entity fields: {\n  \"detail\": \"unknown route\"\n}", env.Text)
}

func TestGetTransformsRejectsOrdering(t *testing.T) {
	svc, up := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolGetTransforms, `{"order_by":"name"}`)
	assert.True(t, env.IsError)
	assert.Contains(t, env.Text, "Error: retrieving transforms: field 'order_by' must be one of")
	assert.Equal(t, 0, up.count(""))
}

func TestCreateEntityUsesConfiguredProject(t *testing.T) {
	svc, _ := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolCreateEntity, `{"name":"Invoice","entity_type":"table"}`)
	require.False(t, env.IsError, env.Text)
	assert.Equal(t, "ent_new", gjson.Get(env.Text, "id").String())
}

func TestUpdateWorkflowBlocks(t *testing.T) {
	svc, up := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolUpdateWorkflowBlocks, `{
		"blocks": [{"id":"b1","type":"action","action":{"name":"eval_code"},"extra":1}],
		"edges": [{"source":"blk_a","target":"b1"}]
	}`)
	require.False(t, env.IsError, env.Text)
	require.Len(t, up.patches, 1)
	assert.Equal(t, int64(1), gjson.GetBytes(up.patches[0], "blocks.0.extra").Int())
	assert.Equal(t, "eval_code", gjson.GetBytes(up.patches[0], "blocks.0.action.name").String())
	assert.Equal(t, "b1", gjson.GetBytes(up.patches[0], "edges.0.target").String())
	assert.Equal(t, "srv_b1", gjson.Get(env.Text, "data.id_mapping.b1").String())
}

func TestUpdateWorkflowBlocksDeleteOnly(t *testing.T) {
	svc, up := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolUpdateWorkflowBlocks, `{"blocks":[],"deleted_block_ids":["b9"]}`)
	require.False(t, env.IsError, env.Text)
	require.Len(t, up.patches, 1)
	assert.Equal(t, "b9", gjson.GetBytes(up.patches[0], "deleted_block_ids.0").String())
	assert.True(t, gjson.GetBytes(up.patches[0], "edges").IsArray())
}

func TestUpdateWorkflowBlocksInvalidPayload(t *testing.T) {
	cases := map[string]string{
		"block missing id": `{"blocks":[{"type":"action"}]}`,
		"blocks as string": `{"blocks":"[{\"id\":\"b1\",\"type\":\"action\"}]"}`,
		"blocks missing":   `{"edges":[]}`,
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			svc, up := newTestService(t, nil)
			env := invoke(t, svc, constants.ToolUpdateWorkflowBlocks, args)
			assert.True(t, env.IsError)
			assert.Contains(t, env.Text, "Error: updating workflow blocks: ")
			assert.Equal(t, 0, up.count(""))
		})
	}
}

func TestUpdateWorkflowBlocksSchemaAdvertisesArrays(t *testing.T) {
	def, ok := GetTool(constants.ToolUpdateWorkflowBlocks)
	require.True(t, ok)
	schema := def.InputSchema()
	for _, key := range []string{"blocks", "edges", "deleted_block_ids"} {
		prop, ok := schema.Properties.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, "array", prop.Type, key)
	}
	assert.Contains(t, schema.Required, "blocks")
}

func TestCreateTriggerScenario(t *testing.T) {
	svc, up := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolCreateRowCreatedTrigger, `{"entity_name":"Referral"}`)
	require.False(t, env.IsError, env.Text)
	assert.True(t, gjson.Get(env.Text, "was_created").Bool())

	require.Len(t, up.patches, 1)
	blocks := gjson.GetBytes(up.patches[0], "blocks").Array()
	require.Len(t, blocks, 1)
	assert.Equal(t, "trigger", blocks[0].Get("type").String())
	assert.Equal(t, "ent_ref", blocks[0].Get("entity_id").String())
	assert.Equal(t, "srv_"+blocks[0].Get("id").String(), gjson.Get(env.Text, "trigger_block_id").String())
}

func TestCreateRecordMissingFieldScenario(t *testing.T) {
	svc, up := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolAddCreateRecordBlock, `{
		"source_block_id": "blk_a",
		"entity_name": "Referral",
		"field_mappings": {"First Name": "{{x.output}}"}
	}`)
	assert.True(t, env.IsError)
	assert.Equal(t, `Error: creating create_record block: fields not found on entity "Referral": "First Name"`, env.Text)
	assert.Equal(t, 0, up.count(http.MethodPatch))
}

func TestInvokeUnknownTool(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.Invoke(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestInvokeMalformedArgs(t *testing.T) {
	svc, _ := newTestService(t, nil)
	env := invoke(t, svc, constants.ToolGetEntities, `{"limit":"many"}`)
	assert.True(t, env.IsError)
	assert.True(t, strings.HasPrefix(env.Text, "Error: retrieving entities: invalid arguments for get_entities"))
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
