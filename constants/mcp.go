package constants

// MCP Tool Names
const (
	ToolGetWorkflowConfig       = "get_workflow_config"
	ToolGetTransforms           = "get_transforms"
	ToolGetEntities             = "get_entities"
	ToolGetEntityFields         = "get_entity_fields"
	ToolGetAvailableActionTypes = "get_available_action_types"
	ToolCreateEntity            = "create_entity"
	ToolUpdateWorkflowBlocks    = "update_workflow_blocks"
	ToolAddCodeEvalAfterBlock   = "add_code_eval_after_block"
	ToolCreateRowCreatedTrigger = "create_row_created_trigger_for_entity"
	ToolCreateRunTransformBlock = "create_run_transform_block"
	ToolAddCreateRecordBlock    = "add_create_record_block"
	ToolCreateLoopBlockPair     = "create_loop_block_pair"
	ToolCreateChildTransform    = "create_child_transform_flow"
	ToolRenameAssetsForRow      = "rename_assets_for_row"
	ToolSyncChildFieldToParent  = "sync_child_field_to_parent"
)

// Tool listing defaults
const (
	DefaultListLimit = 20
	DefaultOrderBy   = "updated_at"
	DefaultOrder     = "desc"
)

// Allowed ordering values
var (
	OrderByValues = []string{"updated_at", "created_at", "id"}
	OrderValues   = []string{"asc", "desc"}
)
