package model

import (
	"encoding/json"

	"github.com/awantoch/trellis-mcp/constants"
)

// Action is one of the closed set of action payloads a block can carry.
// The variant is selected by the action name.
type Action interface {
	ActionName() string
}

// Block is a new workflow block built client side and sent in a patch.
type Block struct {
	ID                  string          `json:"id"`
	WorkflowID          string          `json:"workflow_id"`
	Name                string          `json:"name"`
	Type                string          `json:"type"`
	Position            Position        `json:"position"`
	EventFilterMetadata json.RawMessage `json:"event_filter_metadata,omitempty"`
	*TriggerSpec
	Action Action `json:"action,omitempty"`
}

// TriggerSpec holds the attributes that only trigger blocks carry.
type TriggerSpec struct {
	EntityID    string        `json:"entity_id"`
	TransformID *string       `json:"transform_id"`
	RowID       *string       `json:"row_id"`
	Description *string       `json:"description"`
	Trigger     TriggerConfig `json:"trigger"`
}

type TriggerConfig struct {
	ID        string `json:"id"`
	EventName string `json:"event_name"`
	EntityID  string `json:"entity_id"`
}

var emptyObject = json.RawMessage(`{}`)

// NewActionBlock builds an action block around the given payload.
func NewActionBlock(id, workflowID, name string, pos Position, action Action) Block {
	return Block{
		ID:                  id,
		WorkflowID:          workflowID,
		Name:                name,
		Type:                constants.BlockTypeAction,
		Position:            pos,
		EventFilterMetadata: emptyObject,
		Action:              action,
	}
}

// NewTriggerBlock builds a trigger block for an entity event.
func NewTriggerBlock(id, workflowID, name string, pos Position, trigger TriggerConfig) Block {
	return Block{
		ID:         id,
		WorkflowID: workflowID,
		Name:       name,
		Type:       constants.BlockTypeTrigger,
		Position:   pos,
		TriggerSpec: &TriggerSpec{
			EntityID: trigger.EntityID,
			Trigger:  trigger,
		},
	}
}

// Action variants

type CodeEvalConfig struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type EvalCodeAction struct {
	Name           string         `json:"name"`
	CodeEvalConfig CodeEvalConfig `json:"code_eval_config"`
}

func (EvalCodeAction) ActionName() string { return "eval_code" }

func NewEvalCode(cfg CodeEvalConfig) EvalCodeAction {
	return EvalCodeAction{Name: "eval_code", CodeEvalConfig: cfg}
}

type RecordReferenceConfig struct {
	ID              string         `json:"id"`
	RecordReference string         `json:"record_reference"`
	Filters         map[string]any `json:"filters"`
}

// NewRecordReference points at a record by template expression with no filters.
func NewRecordReference(id, ref string) RecordReferenceConfig {
	return RecordReferenceConfig{ID: id, RecordReference: ref, Filters: map[string]any{}}
}

type MappingConfig struct {
	ID      string            `json:"id"`
	Mapping map[string]string `json:"mapping"`
}

type UpdateRecordAction struct {
	Name                  string                `json:"name"`
	EntityID              string                `json:"entity_id"`
	RecordReferenceConfig RecordReferenceConfig `json:"record_reference_config"`
	MappingConfig         MappingConfig         `json:"mapping_config"`
	ReferenceType         string                `json:"reference_type"`
}

func (UpdateRecordAction) ActionName() string { return "update_record" }

func NewUpdateRecord(entityID string, ref RecordReferenceConfig, mapping MappingConfig) UpdateRecordAction {
	return UpdateRecordAction{
		Name:                  "update_record",
		EntityID:              entityID,
		RecordReferenceConfig: ref,
		MappingConfig:         mapping,
		ReferenceType:         "record_reference",
	}
}

type CreateRecordAction struct {
	Name          string        `json:"name"`
	EntityID      string        `json:"entity_id"`
	MappingConfig MappingConfig `json:"mapping_config"`
}

func (CreateRecordAction) ActionName() string { return "create_record" }

func NewCreateRecord(entityID string, mapping MappingConfig) CreateRecordAction {
	return CreateRecordAction{Name: "create_record", EntityID: entityID, MappingConfig: mapping}
}

type AssetsConfig struct {
	ID                  string   `json:"id"`
	AssetsList          []string `json:"assets_list"`
	AssetsListReference *string  `json:"assets_list_reference"`
}

type RunTransformAction struct {
	Name         string       `json:"name"`
	TransformID  string       `json:"transform_id"`
	AssetsConfig AssetsConfig `json:"assets_config"`
	AssetSource  string       `json:"asset_source"`
}

func (RunTransformAction) ActionName() string { return "run_transform" }

// NewRunTransform picks the asset source from the assets config: a
// reference expression wins, otherwise the fixed list is used.
func NewRunTransform(transformID string, assets AssetsConfig) RunTransformAction {
	source := constants.AssetSourceList
	if assets.AssetsListReference != nil {
		source = constants.AssetSourceReference
	}
	return RunTransformAction{Name: "run_transform", TransformID: transformID, AssetsConfig: assets, AssetSource: source}
}

type LoopConfig struct {
	ID             string  `json:"id"`
	LoopType       string  `json:"loop_type"`
	LoopVariable   string  `json:"loop_variable"`
	TableReference *string `json:"table_reference"`
	ListReference  string  `json:"list_reference"`
}

type StartLoopAction struct {
	Name       string     `json:"name"`
	LoopConfig LoopConfig `json:"loop_config"`
}

func (StartLoopAction) ActionName() string { return "start_loop" }

func NewStartLoop(cfg LoopConfig) StartLoopAction {
	return StartLoopAction{Name: "start_loop", LoopConfig: cfg}
}

type EndLoopAction struct {
	Name string `json:"name"`
}

func (EndLoopAction) ActionName() string { return "end_loop" }

func NewEndLoop() EndLoopAction { return EndLoopAction{Name: "end_loop"} }

type GetRecordAssetsAction struct {
	Name                  string                `json:"name"`
	EntityID              string                `json:"entity_id"`
	RecordReferenceConfig RecordReferenceConfig `json:"record_reference_config"`
	ReferenceType         string                `json:"reference_type"`
}

func (GetRecordAssetsAction) ActionName() string { return "get_record_assets" }

func NewGetRecordAssets(entityID string, ref RecordReferenceConfig) GetRecordAssetsAction {
	return GetRecordAssetsAction{
		Name:                  "get_record_assets",
		EntityID:              entityID,
		RecordReferenceConfig: ref,
		ReferenceType:         "record_reference",
	}
}

type UpdateAssetConfig struct {
	ID      string `json:"id"`
	AssetID string `json:"asset_id"`
	NewName string `json:"new_name"`
}

type UpdateAssetAction struct {
	Name              string            `json:"name"`
	UpdateAssetConfig UpdateAssetConfig `json:"update_asset_config"`
}

func (UpdateAssetAction) ActionName() string { return "update_asset" }

func NewUpdateAsset(cfg UpdateAssetConfig) UpdateAssetAction {
	return UpdateAssetAction{Name: "update_asset", UpdateAssetConfig: cfg}
}
