package trellis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/awantoch/trellis-mcp/model"
	"github.com/tidwall/gjson"
)

// The workflow API wraps payloads inconsistently. Every parser here accepts
// the shapes below, tried in this order, and fails with
// model.UnexpectedShapeError when none matches:
//
//	lists:   [...], {"data": [...]}, {"data": {"<key>": [...]}}, {"<key>": [...]}
//	objects: {"data": {"<key>": {...}}}, {"data": {...}}, {...}
//	graph:   {"data": {"nodes": [...], "edges": [...]}}, {"nodes": [...], "edges": [...]}

func parseRoot(resource string, body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, model.NewUnexpectedShapeError(resource, body)
	}
	return gjson.ParseBytes(body), nil
}

func listPayload(root gjson.Result, key string) (gjson.Result, bool) {
	candidates := []gjson.Result{root, root.Get("data"), root.Get("data." + key), root.Get(key)}
	for _, c := range candidates {
		if c.IsArray() {
			return c, true
		}
	}
	return gjson.Result{}, false
}

func parseList[T any](resource, key string, body []byte) ([]T, error) {
	root, err := parseRoot(resource, body)
	if err != nil {
		return nil, err
	}
	arr, ok := listPayload(root, key)
	if !ok {
		return nil, model.NewUnexpectedShapeError(resource, body)
	}
	out := []T{}
	if err := json.Unmarshal([]byte(arr.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", resource, err)
	}
	return out, nil
}

func parseObject[T any](resource, key string, body []byte) (*T, error) {
	root, err := parseRoot(resource, body)
	if err != nil {
		return nil, err
	}
	var obj gjson.Result
	switch {
	case root.Get("data." + key).IsObject():
		obj = root.Get("data." + key)
	case root.Get("data").IsObject():
		obj = root.Get("data")
	case root.IsObject():
		obj = root
	default:
		return nil, model.NewUnexpectedShapeError(resource, body)
	}
	var out T
	if err := json.Unmarshal([]byte(obj.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", resource, err)
	}
	return &out, nil
}

// graphObject finds the object that holds "nodes".
func graphObject(root gjson.Result) (gjson.Result, bool) {
	if data := root.Get("data"); data.IsObject() && data.Get("nodes").IsArray() {
		return data, true
	}
	if root.IsObject() && root.Get("nodes").IsArray() {
		return root, true
	}
	return gjson.Result{}, false
}

func parseGraph(body []byte) (*model.WorkflowGraph, error) {
	root, err := parseRoot("workflow config", body)
	if err != nil {
		return nil, err
	}
	obj, ok := graphObject(root)
	if !ok {
		return nil, model.NewUnexpectedShapeError("workflow config", body)
	}
	return graphFrom(obj)
}

func graphFrom(obj gjson.Result) (*model.WorkflowGraph, error) {
	nodes := []model.Node{}
	var shapeErr error
	obj.Get("nodes").ForEach(func(_, n gjson.Result) bool {
		if !n.IsObject() {
			shapeErr = model.NewUnexpectedShapeError("workflow node", []byte(n.Raw))
			return false
		}
		nodes = append(nodes, model.NodeFromResult(n))
		return true
	})
	if shapeErr != nil {
		return nil, shapeErr
	}
	edges := []model.Edge{}
	obj.Get("edges").ForEach(func(_, e gjson.Result) bool {
		edges = append(edges, model.Edge{Source: e.Get("source").String(), Target: e.Get("target").String()})
		return true
	})
	return model.NewWorkflowGraph(nodes, edges, []byte(obj.Raw)), nil
}

func parsePatchResult(body []byte) (*model.PatchResult, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return model.NewPatchResult(nil, nil, nil), nil
	}
	root, err := parseRoot("workflow blocks", body)
	if err != nil {
		return nil, err
	}
	mapping := map[string]string{}
	m := root.Get("data.id_mapping")
	if !m.IsObject() {
		m = root.Get("id_mapping")
	}
	m.ForEach(func(k, v gjson.Result) bool {
		mapping[k.String()] = v.String()
		return true
	})
	var graph *model.WorkflowGraph
	if obj, ok := graphObject(root); ok {
		if graph, err = graphFrom(obj); err != nil {
			return nil, err
		}
	}
	return model.NewPatchResult(mapping, graph, body), nil
}
