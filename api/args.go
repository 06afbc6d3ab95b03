package api

// Tool argument types. Descriptions feed the generated input schemas, so
// they avoid commas, which the schema tag syntax treats as separators.

type EmptyArgs struct{}

type GetEntitiesArgs struct {
	ProjectID         string `json:"project_id,omitempty" jsonschema:"description=Project ID (defaults to PROJECT_ID)"`
	EntityID          string `json:"entity_id,omitempty" jsonschema:"description=Entity ID to retrieve a specific entity"`
	PrimaryOnly       *bool  `json:"primary_only,omitempty" jsonschema:"description=Get only primary entities,default=false"`
	ExcludePlayground *bool  `json:"exclude_playground,omitempty" jsonschema:"description=Exclude playground entities,default=false"`
	Limit             *int   `json:"limit,omitempty" jsonschema:"description=Number of results to return,default=20"`
	Offset            *int   `json:"offset,omitempty" jsonschema:"description=Offset for pagination,default=0"`
	OrderBy           string `json:"order_by,omitempty" jsonschema:"description=Field to order by,default=updated_at"`
	Order             string `json:"order,omitempty" jsonschema:"description=Order direction,enum=asc,enum=desc,default=desc"`
}

type GetEntityFieldsArgs struct {
	EntityID      string `json:"entity_id" jsonschema:"required,description=Entity ID to retrieve fields for"`
	EntityFieldID string `json:"entity_field_id,omitempty" jsonschema:"description=Filter by a specific entity field ID"`
}

type GetTransformsArgs struct {
	SearchTerm             string   `json:"search_term,omitempty" jsonschema:"description=Search term matched against transform id and name"`
	TransformIDs           []string `json:"transform_ids,omitempty" jsonschema:"description=List of transform IDs to retrieve"`
	IncludeTransformParams *bool    `json:"include_transform_params,omitempty" jsonschema:"description=Include transform params,default=true"`
	Limit                  *int     `json:"limit,omitempty" jsonschema:"description=Number of results to return,default=20"`
	Offset                 *int     `json:"offset,omitempty" jsonschema:"description=Offset for pagination,default=0"`
	OrderBy                string   `json:"order_by,omitempty" jsonschema:"description=Field to order by,enum=updated_at,enum=created_at,enum=id,default=updated_at"`
	Order                  string   `json:"order,omitempty" jsonschema:"description=Order direction,enum=asc,enum=desc,default=desc"`
}

type CreateEntityArgs struct {
	Name       string `json:"name" jsonschema:"required,description=Name of the entity"`
	EntityType string `json:"entity_type" jsonschema:"required,description=Type of the entity"`
	ProjectID  string `json:"project_id,omitempty" jsonschema:"description=Project ID (defaults to PROJECT_ID)"`
}

type UpdateWorkflowBlocksArgs struct {
	Blocks          []map[string]any `json:"blocks" jsonschema:"required,description=Blocks to update or create"`
	DeletedBlockIDs []string         `json:"deleted_block_ids,omitempty" jsonschema:"description=Block IDs to delete"`
	Edges           []map[string]any `json:"edges,omitempty" jsonschema:"description=Edges connecting blocks (source and target block IDs)"`
}

type AddCodeEvalArgs struct {
	AfterBlockID    string `json:"after_block_id" jsonschema:"required,description=Existing block ID the new code-eval block attaches after"`
	EntityName      string `json:"entity_name" jsonschema:"required,description=Entity name for the update_record step (e.g. Referral)"`
	TargetFieldName string `json:"target_field_name" jsonschema:"required,description=Field name on that entity"`
	Code            string `json:"code" jsonschema:"required,description=JavaScript code that returns the final value (IIFE recommended)"`
}

type CreateTriggerArgs struct {
	EntityName string   `json:"entity_name" jsonschema:"required,description=Entity name (case-insensitive)"`
	PositionX  *float64 `json:"position_x,omitempty" jsonschema:"description=X position for the trigger block (default 300)"`
	PositionY  *float64 `json:"position_y,omitempty" jsonschema:"description=Y position for the trigger block (default 50)"`
}

type CreateRunTransformArgs struct {
	TriggerBlockID        string   `json:"trigger_block_id" jsonschema:"required,description=ID of an existing block to connect from"`
	TransformName         string   `json:"transform_name" jsonschema:"required,description=Transform name (case-insensitive)"`
	PositionX             *float64 `json:"position_x,omitempty" jsonschema:"description=X coordinate for the new block (defaults to the source block x)"`
	PositionY             *float64 `json:"position_y,omitempty" jsonschema:"description=Y coordinate for the new block (defaults to the source block y + 150)"`
	AssetReferenceBlockID string   `json:"asset_reference_block_id,omitempty" jsonschema:"description=Block whose asset_ids output feeds the transform"`
	AssetIDs              []string `json:"asset_ids,omitempty" jsonschema:"description=Fixed asset IDs for the transform"`
}

type AddCreateRecordArgs struct {
	SourceBlockID string            `json:"source_block_id" jsonschema:"required,description=ID of an existing block to connect from"`
	EntityName    string            `json:"entity_name" jsonschema:"required,description=Entity name (case-insensitive)"`
	FieldMappings map[string]string `json:"field_mappings" jsonschema:"required,description=Map of field names to template expressions"`
	PositionX     *float64          `json:"position_x,omitempty" jsonschema:"description=X coordinate for the new block (defaults to the source block x)"`
	PositionY     *float64          `json:"position_y,omitempty" jsonschema:"description=Y coordinate for the new block (defaults to the source block y + 150)"`
}

type CreateLoopPairArgs struct {
	SourceBlockID string   `json:"source_block_id" jsonschema:"required,description=ID of an existing block to connect from"`
	LoopVariable  string   `json:"loop_variable" jsonschema:"required,description=Name of the loop variable used inside the loop"`
	ListReference string   `json:"list_reference" jsonschema:"required,description=Template expression that evaluates to a list"`
	LoopType      string   `json:"loop_type,omitempty" jsonschema:"description=Loop execution type,enum=concurrent,enum=sequential,default=concurrent"`
	PositionX     *float64 `json:"position_x,omitempty" jsonschema:"description=X coordinate for the Start Loop block"`
	PositionY     *float64 `json:"position_y,omitempty" jsonschema:"description=Y coordinate for the Start Loop block (defaults to the source block y + 200)"`
}

type CreateChildTransformFlowArgs struct {
	ParentEntityName string   `json:"parent_entity_name" jsonschema:"required,description=Name of the parent entity"`
	ChildEntityName  string   `json:"child_entity_name" jsonschema:"required,description=Name of the child entity"`
	TransformName    string   `json:"transform_name" jsonschema:"required,description=Transform name (case-insensitive)"`
	SourceBlockID    string   `json:"source_block_id,omitempty" jsonschema:"description=Block to chain from. Without it the parent trigger is found or created"`
	PositionX        *float64 `json:"position_x,omitempty" jsonschema:"description=X coordinate for the flow"`
	PositionY        *float64 `json:"position_y,omitempty" jsonschema:"description=Y coordinate for the flow"`
}

type RenameAssetsArgs struct {
	SourceBlockID string   `json:"source_block_id" jsonschema:"required,description=ID of an existing block to connect from"`
	EntityName    string   `json:"entity_name" jsonschema:"required,description=Entity name of the triggering row"`
	NameTemplate  string   `json:"name_template" jsonschema:"required,description=Template for the new asset name"`
	PositionX     *float64 `json:"position_x,omitempty" jsonschema:"description=X coordinate for the flow"`
	PositionY     *float64 `json:"position_y,omitempty" jsonschema:"description=Y coordinate for the flow"`
}

type SyncChildFieldArgs struct {
	SourceBlockID    string   `json:"source_block_id" jsonschema:"required,description=ID of an existing block to connect from"`
	ParentEntityName string   `json:"parent_entity_name" jsonschema:"required,description=Name of the parent entity"`
	ChildEntityName  string   `json:"child_entity_name" jsonschema:"required,description=Name of the child entity"`
	ChildFieldName   string   `json:"child_field_name" jsonschema:"required,description=Field on the child entity to extract"`
	ParentFieldName  string   `json:"parent_field_name" jsonschema:"required,description=Field on the parent entity to update"`
	PositionX        *float64 `json:"position_x,omitempty" jsonschema:"description=X coordinate for the flow"`
	PositionY        *float64 `json:"position_y,omitempty" jsonschema:"description=Y coordinate for the flow"`
}
