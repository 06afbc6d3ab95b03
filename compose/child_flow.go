package compose

import (
	"context"
	"fmt"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
)

type ChildFlowRequest struct {
	ParentEntityName string
	ChildEntityName  string
	TransformName    string
	// SourceBlockID is optional; without it the parent's trigger is used,
	// and created when missing.
	SourceBlockID string
	Placement     Placement
}

type ChildFlowResult struct {
	SourceBlockID       string            `json:"source_block_id"`
	StartLoopBlockID    string            `json:"start_loop_block_id"`
	RunTransformBlockID string            `json:"run_transform_block_id"`
	CreateRecordBlockID string            `json:"create_record_block_id"`
	EndLoopBlockID      string            `json:"end_loop_block_id"`
	WasTriggerCreated   bool              `json:"was_trigger_created"`
	TempIDs             map[string]string `json:"temp_ids"`
	IDMapping           map[string]string `json:"id_mapping"`
}

// CreateChildTransformFlow loops over the parent's child rows, runs a
// transform per child, and stores its output in the first field of a new
// child record.
func (c *Composer) CreateChildTransformFlow(ctx context.Context, req ChildFlowRequest) (*ChildFlowResult, error) {
	parent, child, err := c.resolveEntityPair(ctx, req.ParentEntityName, req.ChildEntityName)
	if err != nil {
		return nil, err
	}
	transform, err := c.resolveTransform(ctx, req.TransformName)
	if err != nil {
		return nil, err
	}
	childFields, err := c.api.ListEntityFields(ctx, child.ID, "")
	if err != nil {
		return nil, err
	}
	if len(childFields) == 0 {
		return nil, &model.ValidationError{Message: fmt.Sprintf("no fields found for child entity %q", child.Name)}
	}
	target := childFields[0]

	g, err := c.loadGraph(ctx)
	if err != nil {
		return nil, err
	}

	var blocks []model.Block
	var sourceID string
	var startPos model.Position
	triggerCreated := false
	switch {
	case req.SourceBlockID != "":
		anchor, err := c.anchor(g, req.SourceBlockID)
		if err != nil {
			return nil, err
		}
		sourceID = anchor.ID
		startPos = req.Placement.place(anchor.PositionOrOrigin(), offsetLoopStart)
	default:
		if existing, ok := g.TriggerFor(parent.ID); ok {
			sourceID = existing.ID
			startPos = req.Placement.place(existing.PositionOrOrigin(), offsetLoopStart)
		} else {
			trigger := c.newTrigger(parent.ID, req.Placement.triggerPosition())
			blocks = append(blocks, trigger)
			sourceID = trigger.ID
			startPos = trigger.Position.Offset(0, offsetLoopStart)
			triggerCreated = true
		}
	}

	start, end := c.loopPair(startPos, offsetChildEnd, constants.LoopVariable,
		ref(sourceID, "children", child.ID), constants.LoopConcurrent)
	run := c.actionBlock(constants.PrefixBlock, "Run Transform", startPos.Offset(0, offsetChildRun),
		model.NewRunTransform(transform.ID, model.AssetsConfig{ID: c.ids.NewID(constants.PrefixAssetsConfig), AssetsList: []string{}}))
	create := c.actionBlock(constants.PrefixBlock, "Create Record", startPos.Offset(0, offsetChildCreate),
		model.NewCreateRecord(child.ID, c.mapping(map[string]string{target.ID: ref(run.ID, "output")})))
	blocks = append(blocks, start, run, create, end)

	edges := append(chain(sourceID, start.ID, run.ID, create.ID, end.ID), model.Edge{Source: start.ID, Target: end.ID})
	res, err := c.submit(ctx, "child_transform_flow", g, blocks, edges)
	if err != nil {
		return nil, err
	}
	temp := map[string]string{
		"source":        sourceID,
		"start_loop":    start.ID,
		"run_transform": run.ID,
		"create_record": create.ID,
		"end_loop":      end.ID,
	}
	resolved := resolveAll(res, temp)
	return &ChildFlowResult{
		SourceBlockID:       resolved["source"],
		StartLoopBlockID:    resolved["start_loop"],
		RunTransformBlockID: resolved["run_transform"],
		CreateRecordBlockID: resolved["create_record"],
		EndLoopBlockID:      resolved["end_loop"],
		WasTriggerCreated:   triggerCreated,
		TempIDs:             temp,
		IDMapping:           res.IDMapping,
	}, nil
}
