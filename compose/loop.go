package compose

import (
	"context"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
	"github.com/awantoch/trellis-mcp/utils"
)

type LoopPairRequest struct {
	SourceBlockID string
	LoopVariable  string
	ListReference string
	// LoopType is "concurrent" (default) or "sequential".
	LoopType  string
	Placement Placement
}

type LoopPairResult struct {
	StartLoopBlockID     string            `json:"start_loop_block_id"`
	EndLoopBlockID       string            `json:"end_loop_block_id"`
	TempStartLoopBlockID string            `json:"temp_start_loop_block_id"`
	TempEndLoopBlockID   string            `json:"temp_end_loop_block_id"`
	Blocks               []model.Block     `json:"blocks"`
	WasCreated           bool              `json:"was_created"`
	IDMapping            map[string]string `json:"id_mapping"`
}

// CreateLoopPair appends start_loop and end_loop after the anchor.
func (c *Composer) CreateLoopPair(ctx context.Context, req LoopPairRequest) (*LoopPairResult, error) {
	loopType := req.LoopType
	if loopType == "" {
		loopType = constants.LoopConcurrent
	}
	if err := utils.ValidateOneOf("loop_type", loopType, []string{constants.LoopConcurrent, constants.LoopSequential}); err != nil {
		return nil, &model.ValidationError{Message: err.Error()}
	}
	if err := utils.ValidateRequired("loop_variable", req.LoopVariable); err != nil {
		return nil, &model.ValidationError{Message: err.Error()}
	}
	if err := utils.ValidateRequired("list_reference", req.ListReference); err != nil {
		return nil, &model.ValidationError{Message: err.Error()}
	}
	g, err := c.loadGraph(ctx)
	if err != nil {
		return nil, err
	}
	anchor, err := c.anchor(g, req.SourceBlockID)
	if err != nil {
		return nil, err
	}

	startPos := req.Placement.place(anchor.PositionOrOrigin(), offsetLoopStart)
	start, end := c.loopPair(startPos, offsetLoopEnd, req.LoopVariable, req.ListReference, loopType)
	edges := append(chain(anchor.ID, start.ID, end.ID), model.Edge{Source: start.ID, Target: end.ID})
	blocks := []model.Block{start, end}
	res, err := c.submit(ctx, "create_loop_pair", g, blocks, edges)
	if err != nil {
		return nil, err
	}
	return &LoopPairResult{
		StartLoopBlockID:     res.Resolve(start.ID),
		EndLoopBlockID:       res.Resolve(end.ID),
		TempStartLoopBlockID: start.ID,
		TempEndLoopBlockID:   end.ID,
		Blocks:               blocks,
		WasCreated:           true,
		IDMapping:            res.IDMapping,
	}, nil
}
