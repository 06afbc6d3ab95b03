package compose

import (
	"context"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
)

type TransformStepRequest struct {
	TriggerBlockID        string
	TransformName         string
	AssetReferenceBlockID string
	AssetIDs              []string
	Placement             Placement
}

type SingleBlockResult struct {
	TempBlockID string            `json:"temp_block_id"`
	Block       model.Block       `json:"block"`
	WasCreated  bool              `json:"was_created"`
	IDMapping   map[string]string `json:"id_mapping"`
}

type TransformStepResult struct {
	RunTransformBlockID string `json:"run_transform_block_id"`
	SingleBlockResult
}

// CreateTransformStep appends a run_transform block after the anchor. Assets
// come either from another block's output or from a fixed list, never both.
func (c *Composer) CreateTransformStep(ctx context.Context, req TransformStepRequest) (*TransformStepResult, error) {
	if req.AssetReferenceBlockID != "" && len(req.AssetIDs) > 0 {
		return nil, &model.ValidationError{Field: "asset_ids", Message: "cannot be combined with asset_reference_block_id"}
	}
	transform, err := c.resolveTransform(ctx, req.TransformName)
	if err != nil {
		return nil, err
	}
	g, err := c.loadGraph(ctx)
	if err != nil {
		return nil, err
	}
	anchor, err := c.anchor(g, req.TriggerBlockID)
	if err != nil {
		return nil, err
	}
	assets := model.AssetsConfig{ID: c.ids.NewID(constants.PrefixAssetsConfig), AssetsList: []string{}}
	if req.AssetReferenceBlockID != "" {
		if _, err := c.anchor(g, req.AssetReferenceBlockID); err != nil {
			return nil, err
		}
		expr := ref(req.AssetReferenceBlockID, "asset_ids")
		assets.AssetsListReference = &expr
	} else if len(req.AssetIDs) > 0 {
		assets.AssetsList = req.AssetIDs
	}

	pos := req.Placement.place(anchor.PositionOrOrigin(), offsetStep)
	block := c.actionBlock(constants.PrefixBlock, "Run Transform", pos, model.NewRunTransform(transform.ID, assets))
	res, err := c.submit(ctx, "create_transform_step", g, []model.Block{block}, chain(anchor.ID, block.ID))
	if err != nil {
		return nil, err
	}
	return &TransformStepResult{
		RunTransformBlockID: res.Resolve(block.ID),
		SingleBlockResult:   singleBlock(res, block),
	}, nil
}

func singleBlock(res *model.PatchResult, block model.Block) SingleBlockResult {
	return SingleBlockResult{
		TempBlockID: block.ID,
		Block:       block,
		WasCreated:  true,
		IDMapping:   res.IDMapping,
	}
}
