package compose

import (
	"context"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
	"github.com/awantoch/trellis-mcp/resolver"
)

type RecordStepRequest struct {
	SourceBlockID string
	EntityName    string
	// FieldMappings maps field names to template expressions.
	FieldMappings map[string]string
	Placement     Placement
}

type RecordStepResult struct {
	CreateRecordBlockID string `json:"create_record_block_id"`
	SingleBlockResult
}

// CreateRecordStep appends a create_record block after the anchor. Every
// unknown field name is reported in one error before anything is written.
func (c *Composer) CreateRecordStep(ctx context.Context, req RecordStepRequest) (*RecordStepResult, error) {
	entity, err := c.resolveEntity(ctx, req.EntityName)
	if err != nil {
		return nil, err
	}
	fields, err := c.api.ListEntityFields(ctx, entity.ID, "")
	if err != nil {
		return nil, err
	}
	mapping, err := resolver.FieldMapping(fields, req.FieldMappings, entity.Name)
	if err != nil {
		return nil, err
	}
	g, err := c.loadGraph(ctx)
	if err != nil {
		return nil, err
	}
	anchor, err := c.anchor(g, req.SourceBlockID)
	if err != nil {
		return nil, err
	}

	pos := req.Placement.place(anchor.PositionOrOrigin(), offsetStep)
	block := c.actionBlock(constants.PrefixBlock, "Create Record", pos, model.NewCreateRecord(entity.ID, c.mapping(mapping)))
	res, err := c.submit(ctx, "create_record_step", g, []model.Block{block}, chain(anchor.ID, block.ID))
	if err != nil {
		return nil, err
	}
	return &RecordStepResult{
		CreateRecordBlockID: res.Resolve(block.ID),
		SingleBlockResult:   singleBlock(res, block),
	}, nil
}
