package compose

import (
	"context"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
	"github.com/awantoch/trellis-mcp/templater"
)

type RenameAssetsRequest struct {
	SourceBlockID string
	EntityName    string
	// NameTemplate is resolved per asset by the workflow engine.
	NameTemplate string
	Placement    Placement
}

type RenameAssetsResult struct {
	GetRecordAssetsBlockID string            `json:"get_record_assets_block_id"`
	StartLoopBlockID       string            `json:"start_loop_block_id"`
	UpdateAssetBlockID     string            `json:"update_asset_block_id"`
	EndLoopBlockID         string            `json:"end_loop_block_id"`
	TempIDs                map[string]string `json:"temp_ids"`
	IDMapping              map[string]string `json:"id_mapping"`
}

// RenameAssetsFlow fetches the triggering row's assets and renames each one.
func (c *Composer) RenameAssetsFlow(ctx context.Context, req RenameAssetsRequest) (*RenameAssetsResult, error) {
	if req.NameTemplate == "" {
		return nil, &model.ValidationError{Field: "name_template", Message: "must not be empty"}
	}
	if err := templater.CheckPlaceholders(req.NameTemplate); err != nil {
		return nil, &model.ValidationError{Field: "name_template", Message: err.Error()}
	}
	entity, err := c.resolveEntity(ctx, req.EntityName)
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

	origin := req.Placement.place(anchor.PositionOrOrigin(), offsetStep)
	get := c.actionBlock(constants.PrefixBlock, "Get Record Assets", origin,
		model.NewGetRecordAssets(entity.ID, c.recordReference()))
	start, end := c.loopPair(origin.Offset(0, offsetRenameLoop), offsetRenameLoopEnd-offsetRenameLoop,
		constants.LoopVariable, ref(get.ID, "asset_ids"), constants.LoopConcurrent)
	update := c.actionBlock(constants.PrefixBlock, "Rename Asset", origin.Offset(0, offsetRenameUpdate),
		model.NewUpdateAsset(model.UpdateAssetConfig{
			ID:      c.ids.NewID(constants.PrefixUpdateAssetCfg),
			AssetID: constants.RefLoopItem,
			NewName: req.NameTemplate,
		}))

	edges := append(chain(anchor.ID, get.ID, start.ID, update.ID, end.ID), model.Edge{Source: start.ID, Target: end.ID})
	res, err := c.submit(ctx, "rename_assets_flow", g, []model.Block{get, start, update, end}, edges)
	if err != nil {
		return nil, err
	}
	temp := map[string]string{
		"get_record_assets": get.ID,
		"start_loop":        start.ID,
		"update_asset":      update.ID,
		"end_loop":          end.ID,
	}
	resolved := resolveAll(res, temp)
	return &RenameAssetsResult{
		GetRecordAssetsBlockID: resolved["get_record_assets"],
		StartLoopBlockID:       resolved["start_loop"],
		UpdateAssetBlockID:     resolved["update_asset"],
		EndLoopBlockID:         resolved["end_loop"],
		TempIDs:                temp,
		IDMapping:              res.IDMapping,
	}, nil
}
