package compose

import (
	"context"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
)

type ComputedFieldRequest struct {
	AfterBlockID    string
	EntityName      string
	TargetFieldName string
	Code            string
}

type ComputedFieldResult struct {
	CodeEvalBlockID         string             `json:"code_eval_block_id"`
	UpdateRecordBlockID     string             `json:"update_record_block_id"`
	TempCodeEvalBlockID     string             `json:"temp_code_eval_block_id"`
	TempUpdateRecordBlockID string             `json:"temp_update_record_block_id"`
	IDMapping               map[string]string  `json:"id_mapping"`
	PatchResult             *model.PatchResult `json:"patch_result"`
}

// InsertComputedField appends anchor -> eval_code -> update_record. The
// update writes the eval output into the target field of the triggering row.
func (c *Composer) InsertComputedField(ctx context.Context, req ComputedFieldRequest) (*ComputedFieldResult, error) {
	entity, err := c.resolveEntity(ctx, req.EntityName)
	if err != nil {
		return nil, err
	}
	field, err := c.resolveField(ctx, entity, req.TargetFieldName)
	if err != nil {
		return nil, err
	}
	g, err := c.loadGraph(ctx)
	if err != nil {
		return nil, err
	}
	anchor, err := c.anchor(g, req.AfterBlockID)
	if err != nil {
		return nil, err
	}
	base := anchor.PositionOrOrigin()

	eval := c.actionBlock(constants.PrefixCodeEval, "Code Evaluation", base.Offset(0, offsetCodeEval),
		model.NewEvalCode(model.CodeEvalConfig{ID: c.ids.NewID(constants.PrefixCodeEvalConfig), Code: req.Code}))
	update := c.actionBlock(constants.PrefixUpdateRecord, "Update Record", base.Offset(0, offsetUpdateAfter),
		model.NewUpdateRecord(entity.ID, c.recordReference(), c.mapping(map[string]string{field.ID: ref(eval.ID)})))

	res, err := c.submit(ctx, "insert_computed_field", g, []model.Block{eval, update}, chain(anchor.ID, eval.ID, update.ID))
	if err != nil {
		return nil, err
	}
	return &ComputedFieldResult{
		CodeEvalBlockID:         res.Resolve(eval.ID),
		UpdateRecordBlockID:     res.Resolve(update.ID),
		TempCodeEvalBlockID:     eval.ID,
		TempUpdateRecordBlockID: update.ID,
		IDMapping:               res.IDMapping,
		PatchResult:             res,
	}, nil
}
