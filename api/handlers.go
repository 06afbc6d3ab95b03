package api

import (
	"context"

	"github.com/awantoch/trellis-mcp/compose"
	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
	"github.com/awantoch/trellis-mcp/utils"
)

// ============================================================================
// READ TOOLS
// ============================================================================

func getWorkflowConfig(ctx context.Context, svc *Service, _ *EmptyArgs) (any, error) {
	workflowID, err := svc.cfg.RequireWorkflowID()
	if err != nil {
		return nil, err
	}
	return svc.client.GetWorkflowConfig(ctx, workflowID)
}

func getTransforms(ctx context.Context, svc *Service, a *GetTransformsArgs) (any, error) {
	f := model.TransformFilter{
		SearchTerm:             a.SearchTerm,
		TransformIDs:           a.TransformIDs,
		IncludeTransformParams: boolOr(a.IncludeTransformParams, true),
		Limit:                  intOr(a.Limit, constants.DefaultListLimit),
		Offset:                 intOr(a.Offset, 0),
		OrderBy:                stringOr(a.OrderBy, constants.DefaultOrderBy),
		Order:                  stringOr(a.Order, constants.DefaultOrder),
	}
	if err := validateOrdering(f.OrderBy, f.Order, true); err != nil {
		return nil, err
	}
	return svc.client.ListTransforms(ctx, f)
}

func getEntities(ctx context.Context, svc *Service, a *GetEntitiesArgs) (any, error) {
	projectID, err := svc.cfg.RequireProjectID(a.ProjectID)
	if err != nil {
		return nil, err
	}
	f := model.EntityFilter{
		EntityID:          a.EntityID,
		PrimaryOnly:       boolOr(a.PrimaryOnly, false),
		ExcludePlayground: boolOr(a.ExcludePlayground, false),
		Limit:             intOr(a.Limit, constants.DefaultListLimit),
		Offset:            intOr(a.Offset, 0),
		OrderBy:           stringOr(a.OrderBy, constants.DefaultOrderBy),
		Order:             stringOr(a.Order, constants.DefaultOrder),
	}
	if err := validateOrdering(f.OrderBy, f.Order, false); err != nil {
		return nil, err
	}
	return svc.client.ListEntities(ctx, projectID, f)
}

func getEntityFields(ctx context.Context, svc *Service, a *GetEntityFieldsArgs) (any, error) {
	return svc.client.ListEntityFields(ctx, a.EntityID, a.EntityFieldID)
}

// actionTypes renders as the bare list and is structured as {action_types}.
type actionTypes struct {
	ActionTypes []string `json:"action_types"`
}

func (a actionTypes) Text() string { return utils.MarshalIndent(a.ActionTypes) }

func getAvailableActionTypes(context.Context, *Service, *EmptyArgs) (any, error) {
	return actionTypes{ActionTypes: append([]string(nil), constants.ActionTypes...)}, nil
}

// validateOrdering checks order always and order_by only where the upstream
// restricts it.
func validateOrdering(orderBy, order string, strictOrderBy bool) error {
	if strictOrderBy {
		if err := utils.ValidateOneOf("order_by", orderBy, constants.OrderByValues); err != nil {
			return &model.ValidationError{Message: err.Error()}
		}
	}
	if err := utils.ValidateOneOf("order", order, constants.OrderValues); err != nil {
		return &model.ValidationError{Message: err.Error()}
	}
	return nil
}

// ============================================================================
// WRITE TOOLS
// ============================================================================

func createEntity(ctx context.Context, svc *Service, a *CreateEntityArgs) (any, error) {
	projectID, err := svc.cfg.RequireProjectID(a.ProjectID)
	if err != nil {
		return nil, err
	}
	return svc.client.CreateEntity(ctx, model.NewEntity{Name: a.Name, EntityType: a.EntityType, ProjectID: projectID})
}

func updateWorkflowBlocks(ctx context.Context, svc *Service, a *UpdateWorkflowBlocksArgs) (any, error) {
	workflowID, err := svc.cfg.RequireWorkflowID()
	if err != nil {
		return nil, err
	}
	req, err := model.ParsePatchPayload(a.Blocks, a.DeletedBlockIDs, a.Edges)
	if err != nil {
		return nil, err
	}
	return svc.client.PatchWorkflowBlocks(ctx, workflowID, req)
}

// ============================================================================
// COMPOSITION TOOLS
// ============================================================================

func addCodeEvalAfterBlock(ctx context.Context, svc *Service, a *AddCodeEvalArgs) (any, error) {
	c, err := svc.composer(true)
	if err != nil {
		return nil, err
	}
	return c.InsertComputedField(ctx, compose.ComputedFieldRequest{
		AfterBlockID:    a.AfterBlockID,
		EntityName:      a.EntityName,
		TargetFieldName: a.TargetFieldName,
		Code:            a.Code,
	})
}

func createRowCreatedTrigger(ctx context.Context, svc *Service, a *CreateTriggerArgs) (any, error) {
	c, err := svc.composer(true)
	if err != nil {
		return nil, err
	}
	return c.CreateOrGetTrigger(ctx, compose.TriggerRequest{
		EntityName: a.EntityName,
		Placement:  placement(a.PositionX, a.PositionY),
	})
}

func createRunTransformBlock(ctx context.Context, svc *Service, a *CreateRunTransformArgs) (any, error) {
	c, err := svc.composer(false)
	if err != nil {
		return nil, err
	}
	return c.CreateTransformStep(ctx, compose.TransformStepRequest{
		TriggerBlockID:        a.TriggerBlockID,
		TransformName:         a.TransformName,
		AssetReferenceBlockID: a.AssetReferenceBlockID,
		AssetIDs:              a.AssetIDs,
		Placement:             placement(a.PositionX, a.PositionY),
	})
}

func addCreateRecordBlock(ctx context.Context, svc *Service, a *AddCreateRecordArgs) (any, error) {
	c, err := svc.composer(true)
	if err != nil {
		return nil, err
	}
	return c.CreateRecordStep(ctx, compose.RecordStepRequest{
		SourceBlockID: a.SourceBlockID,
		EntityName:    a.EntityName,
		FieldMappings: a.FieldMappings,
		Placement:     placement(a.PositionX, a.PositionY),
	})
}

func createLoopBlockPair(ctx context.Context, svc *Service, a *CreateLoopPairArgs) (any, error) {
	c, err := svc.composer(false)
	if err != nil {
		return nil, err
	}
	return c.CreateLoopPair(ctx, compose.LoopPairRequest{
		SourceBlockID: a.SourceBlockID,
		LoopVariable:  a.LoopVariable,
		ListReference: a.ListReference,
		LoopType:      a.LoopType,
		Placement:     placement(a.PositionX, a.PositionY),
	})
}

func createChildTransformFlow(ctx context.Context, svc *Service, a *CreateChildTransformFlowArgs) (any, error) {
	c, err := svc.composer(true)
	if err != nil {
		return nil, err
	}
	return c.CreateChildTransformFlow(ctx, compose.ChildFlowRequest{
		ParentEntityName: a.ParentEntityName,
		ChildEntityName:  a.ChildEntityName,
		TransformName:    a.TransformName,
		SourceBlockID:    a.SourceBlockID,
		Placement:        placement(a.PositionX, a.PositionY),
	})
}

func renameAssetsForRow(ctx context.Context, svc *Service, a *RenameAssetsArgs) (any, error) {
	c, err := svc.composer(true)
	if err != nil {
		return nil, err
	}
	return c.RenameAssetsFlow(ctx, compose.RenameAssetsRequest{
		SourceBlockID: a.SourceBlockID,
		EntityName:    a.EntityName,
		NameTemplate:  a.NameTemplate,
		Placement:     placement(a.PositionX, a.PositionY),
	})
}

func syncChildFieldToParent(ctx context.Context, svc *Service, a *SyncChildFieldArgs) (any, error) {
	c, err := svc.composer(true)
	if err != nil {
		return nil, err
	}
	return c.SyncChildToParent(ctx, compose.SyncChildRequest{
		SourceBlockID:    a.SourceBlockID,
		ParentEntityName: a.ParentEntityName,
		ChildEntityName:  a.ChildEntityName,
		ChildFieldName:   a.ChildFieldName,
		ParentFieldName:  a.ParentFieldName,
		Placement:        placement(a.PositionX, a.PositionY),
	})
}
