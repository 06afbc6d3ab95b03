package compose

import (
	"context"

	"github.com/awantoch/trellis-mcp/model"
)

type TriggerRequest struct {
	EntityName string
	Placement  Placement
}

type TriggerResult struct {
	TriggerBlockID string            `json:"trigger_block_id"`
	TempBlockID    string            `json:"temp_block_id,omitempty"`
	TriggerBlock   any               `json:"trigger_block"`
	WasCreated     bool              `json:"was_created"`
	IDMapping      map[string]string `json:"id_mapping,omitempty"`
}

// CreateOrGetTrigger returns the row-created trigger of an entity, creating
// it as a new entry point when the workflow has none.
func (c *Composer) CreateOrGetTrigger(ctx context.Context, req TriggerRequest) (*TriggerResult, error) {
	entity, err := c.resolveEntity(ctx, req.EntityName)
	if err != nil {
		return nil, err
	}
	g, err := c.loadGraph(ctx)
	if err != nil {
		return nil, err
	}
	if existing, ok := g.TriggerFor(entity.ID); ok {
		return &TriggerResult{TriggerBlockID: existing.ID, TriggerBlock: existing, WasCreated: false}, nil
	}

	trigger := c.newTrigger(entity.ID, req.Placement.triggerPosition())
	res, err := c.submit(ctx, "create_trigger", g, []model.Block{trigger}, nil)
	if err != nil {
		return nil, err
	}
	return &TriggerResult{
		TriggerBlockID: res.Resolve(trigger.ID),
		TempBlockID:    trigger.ID,
		TriggerBlock:   trigger,
		WasCreated:     true,
		IDMapping:      res.IDMapping,
	}, nil
}
