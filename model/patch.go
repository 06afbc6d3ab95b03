package model

import (
	"encoding/json"
)

// PatchRequest is the body of a workflow blocks patch. Blocks are kept as raw
// JSON so caller-supplied blocks pass through untouched.
type PatchRequest struct {
	Blocks          []json.RawMessage `json:"blocks"`
	DeletedBlockIDs []string          `json:"deleted_block_ids"`
	Edges           []Edge            `json:"edges"`
}

// NewPatchRequest encodes composed blocks with no deletions.
func NewPatchRequest(blocks []Block, edges []Edge) (PatchRequest, error) {
	req := PatchRequest{
		Blocks:          make([]json.RawMessage, 0, len(blocks)),
		DeletedBlockIDs: []string{},
		Edges:           edges,
	}
	for _, b := range blocks {
		raw, err := json.Marshal(b)
		if err != nil {
			return PatchRequest{}, err
		}
		req.Blocks = append(req.Blocks, raw)
	}
	if req.Edges == nil {
		req.Edges = []Edge{}
	}
	return req, nil
}

// PatchResult is the parsed response of a blocks patch.
type PatchResult struct {
	IDMapping map[string]string
	Graph     *WorkflowGraph
	raw       json.RawMessage
}

// NewPatchResult keeps the response payload for pass-through rendering.
func NewPatchResult(mapping map[string]string, graph *WorkflowGraph, raw []byte) *PatchResult {
	if mapping == nil {
		mapping = map[string]string{}
	}
	return &PatchResult{IDMapping: mapping, Graph: graph, raw: append(json.RawMessage(nil), raw...)}
}

// Resolve maps a client temp id to the server id, or returns it unchanged.
func (r *PatchResult) Resolve(tempID string) string {
	if r == nil {
		return tempID
	}
	if id, ok := r.IDMapping[tempID]; ok && id != "" {
		return id
	}
	return tempID
}

func (r PatchResult) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 && json.Valid(r.raw) {
		return r.raw, nil
	}
	return json.Marshal(map[string]any{"id_mapping": r.IDMapping})
}
