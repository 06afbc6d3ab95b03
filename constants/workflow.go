package constants

// Block types
const (
	BlockTypeTrigger = "trigger"
	BlockTypeAction  = "action"
)

// Trigger events
const (
	EventRowCreated = "row_created"
)

// Identifier prefixes
const (
	PrefixBlock          = "wblock"
	PrefixTrigger        = "wtrig"
	PrefixCodeEval       = "code_eval"
	PrefixUpdateRecord   = "update_record"
	PrefixMappingConfig  = "map_cfg"
	PrefixRecordRefCfg   = "rec_cfg"
	PrefixLoopConfig     = "loop_cfg"
	PrefixCodeEvalConfig = "code_eval_cfg"
	PrefixAssetsConfig   = "wasset"
	PrefixUpdateAssetCfg = "upd_asset_cfg"
)

// Template references understood by the workflow engine
const (
	RefEventRowID = "{{event.row_id}}"
	RefLoopItem   = "{{loop.item}}"
)

// Loop modes
const (
	LoopConcurrent = "concurrent"
	LoopSequential = "sequential"
	LoopVariable   = "list"
)

// Asset sources for run_transform
const (
	AssetSourceList      = "list"
	AssetSourceReference = "reference"
)

// ActionTypes is every action name the workflow API accepts, in upstream order.
var ActionTypes = []string{
	"run_transform",
	"create_record",
	"delay",
	"run_if",
	"eval_code",
	"ai_block",
	"get_record",
	"update_record",
	"get_record_assets",
	"make_call",
	"get_call",
	"delete_record",
	"upload_asset",
	"assign_variables",
	"api_request",
	"update_asset",
	"run_pa",
	"run_benefits",
	"wait_for_parents",
	"fire_event",
	"computer_use",
	"get_patient",
	"create_patient",
	"start_loop",
	"end_loop",
	"get_workflow_output",
	"populate_row",
	"populate_child_entity",
	"chat_message",
}
