package compose

import (
	"context"
	"fmt"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
)

// extractChildFieldCode reads one field of the first child row in the event.
const extractChildFieldCode = `(() => {
  const list = event.children[{{ child_entity_id|js }}] || [];
  const first = list[0] || null;
  return first ? first[{{ child_field_id|js }}] : null;
})()`

type SyncChildRequest struct {
	SourceBlockID    string
	ParentEntityName string
	ChildEntityName  string
	ChildFieldName   string
	ParentFieldName  string
	Placement        Placement
}

type SyncChildResult struct {
	CodeEvalBlockID     string            `json:"code_eval_block_id"`
	UpdateRecordBlockID string            `json:"update_record_block_id"`
	TempIDs             map[string]string `json:"temp_ids"`
	IDMapping           map[string]string `json:"id_mapping"`
}

// SyncChildToParent copies a field of the first child row onto the parent row.
func (c *Composer) SyncChildToParent(ctx context.Context, req SyncChildRequest) (*SyncChildResult, error) {
	parent, child, err := c.resolveEntityPair(ctx, req.ParentEntityName, req.ChildEntityName)
	if err != nil {
		return nil, err
	}
	childField, err := c.resolveField(ctx, child, req.ChildFieldName)
	if err != nil {
		return nil, err
	}
	parentField, err := c.resolveField(ctx, parent, req.ParentFieldName)
	if err != nil {
		return nil, err
	}
	code, err := c.tpl.Render(extractChildFieldCode, map[string]any{
		"child_entity_id": child.ID,
		"child_field_id":  childField.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("render extraction code: %w", err)
	}
	g, err := c.loadGraph(ctx)
	if err != nil {
		return nil, err
	}
	anchor, err := c.anchor(g, req.SourceBlockID)
	if err != nil {
		return nil, err
	}

	evalPos := req.Placement.place(anchor.PositionOrOrigin(), offsetStep)
	eval := c.actionBlock(constants.PrefixCodeEval, "Extract Child Field", evalPos,
		model.NewEvalCode(model.CodeEvalConfig{ID: c.ids.NewID(constants.PrefixCodeEvalConfig), Code: code}))
	update := c.actionBlock(constants.PrefixUpdateRecord, "Update Parent From Child", evalPos.Offset(0, offsetStep),
		model.NewUpdateRecord(parent.ID, c.recordReference(), c.mapping(map[string]string{parentField.ID: ref(eval.ID)})))

	res, err := c.submit(ctx, "sync_child_to_parent", g, []model.Block{eval, update}, chain(anchor.ID, eval.ID, update.ID))
	if err != nil {
		return nil, err
	}
	temp := map[string]string{"code_eval": eval.ID, "update_record": update.ID}
	resolved := resolveAll(res, temp)
	return &SyncChildResult{
		CodeEvalBlockID:     resolved["code_eval"],
		UpdateRecordBlockID: resolved["update_record"],
		TempIDs:             temp,
		IDMapping:           res.IDMapping,
	}, nil
}
