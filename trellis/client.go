// Package trellis is a thin client for the Trellis workflow REST API. It owns
// no state; every call is one request and one parsed response.
package trellis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/awantoch/trellis-mcp/config"
	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
	"github.com/awantoch/trellis-mcp/telemetry"
	"github.com/awantoch/trellis-mcp/utils"
)

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the workflow API with the configured credentials.
type Client struct {
	baseURL    string
	apiKey     string
	apiVersion string
	http       Doer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default timeout-bound, traced http.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// NewClient builds a client from cfg. Requests time out after
// cfg.RequestTimeout and are never retried.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = constants.DefaultAPIVersion
	}
	c := &Client{
		baseURL:    cfg.APIBase,
		apiKey:     cfg.APIKey,
		apiVersion: version,
		http: &http.Client{
			Timeout:   cfg.RequestTimeout(),
			Transport: telemetry.Transport(nil),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListEntities lists the entities of a project.
func (c *Client) ListEntities(ctx context.Context, projectID string, f model.EntityFilter) ([]model.Entity, error) {
	q := url.Values{}
	q.Set("project_id", projectID)
	setString(q, "entity_id", f.EntityID)
	setBool(q, "primary_only", f.PrimaryOnly)
	setBool(q, "exclude_playground", f.ExcludePlayground)
	setInt(q, "limit", f.Limit)
	setInt(q, "offset", f.Offset)
	setString(q, "order_by", f.OrderBy)
	setString(q, "order", f.Order)
	body, err := c.do(ctx, http.MethodGet, "entities", "/entities", q, nil)
	if err != nil {
		return nil, err
	}
	return parseList[model.Entity]("entities", "entities", body)
}

// ListEntityFields lists the fields of one entity, optionally filtered to one field id.
func (c *Client) ListEntityFields(ctx context.Context, entityID, fieldID string) ([]model.EntityField, error) {
	q := url.Values{}
	setString(q, "entity_field_id", fieldID)
	path := "/entities/" + url.PathEscape(entityID) + "/fields"
	body, err := c.do(ctx, http.MethodGet, "entity_fields", path, q, nil)
	if err != nil {
		return nil, err
	}
	return parseList[model.EntityField]("entity fields", "fields", body)
}

// ListTransforms searches transforms.
func (c *Client) ListTransforms(ctx context.Context, f model.TransformFilter) ([]model.Transform, error) {
	q := url.Values{}
	setString(q, "search_term", f.SearchTerm)
	for _, id := range f.TransformIDs {
		q.Add("transform_ids", id)
	}
	setBool(q, "include_transform_params", f.IncludeTransformParams)
	setInt(q, "limit", f.Limit)
	setInt(q, "offset", f.Offset)
	setString(q, "order_by", f.OrderBy)
	setString(q, "order", f.Order)
	body, err := c.do(ctx, http.MethodGet, "transforms", "/transforms", q, nil)
	if err != nil {
		return nil, err
	}
	return parseList[model.Transform]("transforms", "transforms", body)
}

// GetWorkflowConfig fetches the node and edge set of a workflow.
func (c *Client) GetWorkflowConfig(ctx context.Context, workflowID string) (*model.WorkflowGraph, error) {
	path := "/workflows/" + url.PathEscape(workflowID) + "/config"
	body, err := c.do(ctx, http.MethodGet, "workflow_config", path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parseGraph(body)
}

// PatchWorkflowBlocks writes blocks, deletions and the full edge list in one call.
func (c *Client) PatchWorkflowBlocks(ctx context.Context, workflowID string, req model.PatchRequest) (*model.PatchResult, error) {
	path := "/workflows/" + url.PathEscape(workflowID) + "/blocks"
	body, err := c.do(ctx, http.MethodPatch, "workflow_blocks", path, nil, req)
	if err != nil {
		return nil, err
	}
	return parsePatchResult(body)
}

// CreateEntity creates an entity in a project.
func (c *Client) CreateEntity(ctx context.Context, e model.NewEntity) (*model.Entity, error) {
	body, err := c.do(ctx, http.MethodPost, "create_entity", "/v1/entities", nil, e)
	if err != nil {
		return nil, err
	}
	return parseObject[model.Entity]("entity", "entity", body)
}

func (c *Client) do(ctx context.Context, method, resource, path string, q url.Values, payload any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", resource, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAPIVersion, c.apiVersion)
	req.Header.Set(constants.HeaderAuthorization, c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		telemetry.ObserveUpstream(method, resource, 0, time.Since(start))
		utils.WarnCtx(ctx, "upstream request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	telemetry.ObserveUpstream(method, resource, resp.StatusCode, time.Since(start))
	utils.DebugCtx(ctx, "upstream request", "method", method, "path", path, "status", resp.StatusCode,
		"duration", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", resource, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.UpstreamError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

func setBool(q url.Values, key string, v *bool) {
	if v != nil {
		q.Set(key, strconv.FormatBool(*v))
	}
}

func setInt(q url.Values, key string, v *int) {
	if v != nil {
		q.Set(key, strconv.Itoa(*v))
	}
}
