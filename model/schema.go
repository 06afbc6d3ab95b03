package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed patch.schema.json
var patchSchemaJSON string

var patchSchema = jsonschema.MustCompileString("patch.schema.json", patchSchemaJSON)

// ParsePatchPayload validates caller-supplied blocks, deletions and edges
// against the embedded schema and builds the patch. Blocks pass through with
// every field they carry.
func ParsePatchPayload(blocks []map[string]any, deletedIDs []string, edges []map[string]any) (PatchRequest, error) {
	if deletedIDs == nil {
		deletedIDs = []string{}
	}
	doc, err := patchDocument(blocks, deletedIDs, edges)
	if err != nil {
		return PatchRequest{}, err
	}
	if err := patchSchema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return PatchRequest{}, &ValidationError{Message: fmt.Sprintf("invalid patch payload: %s", ve.Error())}
		}
		return PatchRequest{}, err
	}

	req := PatchRequest{
		Blocks:          make([]json.RawMessage, 0, len(blocks)),
		DeletedBlockIDs: deletedIDs,
		Edges:           make([]Edge, 0, len(edges)),
	}
	for _, b := range blocks {
		raw, err := json.Marshal(b)
		if err != nil {
			return PatchRequest{}, err
		}
		req.Blocks = append(req.Blocks, raw)
	}
	for _, e := range edges {
		req.Edges = append(req.Edges, Edge{Source: e["source"].(string), Target: e["target"].(string)})
	}
	return req, nil
}

// patchDocument round-trips the payload through JSON so the validator sees
// plain JSON values.
func patchDocument(blocks []map[string]any, deletedIDs []string, edges []map[string]any) (any, error) {
	if blocks == nil {
		blocks = []map[string]any{}
	}
	if edges == nil {
		edges = []map[string]any{}
	}
	data, err := json.Marshal(map[string]any{
		"blocks":            blocks,
		"deleted_block_ids": deletedIDs,
		"edges":             edges,
	})
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid patch payload: %v", err)}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
