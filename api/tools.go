package api

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/awantoch/trellis-mcp/constants"
	mcp "github.com/metoro-io/mcp-golang"
)

// ToolDefinition describes one catalogue entry and how to run it.
type ToolDefinition struct {
	Name        string       // Tool name, stable across transports
	Title       string       // Display name
	Description string       // Human readable description
	Action      string       // Phrase used in error envelopes
	ArgsType    reflect.Type // Type of the request arguments

	run func(ctx context.Context, svc *Service, args any) (any, error)
	// mcpHandler returns a handler typed on the args struct so the MCP
	// server can reflect its input schema.
	mcpHandler func(svc *Service) any
}

// newArgs allocates a zero value of the tool's argument type.
func (d *ToolDefinition) newArgs() any {
	return reflect.New(d.ArgsType).Interface()
}

// decodeArgs builds the argument value from a JSON object. An empty body
// means no arguments.
func (d *ToolDefinition) decodeArgs(raw []byte) (any, error) {
	args := d.newArgs()
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, args); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", d.Name, err)
	}
	return args, nil
}

func defineTool[A any](name, title, description, action string, run func(ctx context.Context, svc *Service, args *A) (any, error)) *ToolDefinition {
	def := &ToolDefinition{
		Name:        name,
		Title:       title,
		Description: description,
		Action:      action,
		ArgsType:    reflect.TypeOf((*A)(nil)).Elem(),
		run: func(ctx context.Context, svc *Service, args any) (any, error) {
			return run(ctx, svc, args.(*A))
		},
	}
	def.mcpHandler = func(svc *Service) any {
		return func(ctx context.Context, args A) (*mcp.ToolResponse, error) {
			env := svc.Execute(ctx, def, &args)
			if env.IsError {
				// mcp-golang flags the result with isError for a non-nil error
				return nil, toolError{text: env.Text}
			}
			return env.ToolResponse(), nil
		}
	}
	return def
}

var (
	toolOrder    []string
	toolRegistry = make(map[string]*ToolDefinition)
)

// RegisterTool adds a definition to the catalogue.
func RegisterTool(def *ToolDefinition) {
	if _, exists := toolRegistry[def.Name]; !exists {
		toolOrder = append(toolOrder, def.Name)
	}
	toolRegistry[def.Name] = def
}

// GetTool looks a tool up by name.
func GetTool(name string) (*ToolDefinition, bool) {
	def, ok := toolRegistry[name]
	return def, ok
}

// AllTools returns the catalogue in registration order.
func AllTools() []*ToolDefinition {
	out := make([]*ToolDefinition, 0, len(toolOrder))
	for _, name := range toolOrder {
		out = append(out, toolRegistry[name])
	}
	return out
}

func init() {
	RegisterTool(defineTool(constants.ToolGetWorkflowConfig,
		"Get Workflow Config",
		"Retrieve the configured workflow with all its blocks and edges fully populated with configuration details.",
		"retrieving workflow config",
		getWorkflowConfig))

	RegisterTool(defineTool(constants.ToolGetTransforms,
		"Get Transforms",
		"Retrieve transforms with optional filtering.",
		"retrieving transforms",
		getTransforms))

	RegisterTool(defineTool(constants.ToolGetEntities,
		"Get Entities",
		"Retrieve entities with optional filtering. Uses PROJECT_ID if project_id is not provided.",
		"retrieving entities",
		getEntities))

	RegisterTool(defineTool(constants.ToolGetEntityFields,
		"Get Entity Fields",
		"Retrieve all fields for a specific entity.",
		"retrieving entity fields",
		getEntityFields))

	RegisterTool(defineTool(constants.ToolGetAvailableActionTypes,
		"Get Available Action Types",
		"Get all available workflow action types.",
		"listing action types",
		getAvailableActionTypes))

	RegisterTool(defineTool(constants.ToolCreateEntity,
		"Create Entity",
		"Create a new entity in the configured project.",
		"creating entity",
		createEntity))

	RegisterTool(defineTool(constants.ToolUpdateWorkflowBlocks,
		"Update Workflow Blocks",
		"Update blocks, edges and deleted block IDs of the configured workflow.",
		"updating workflow blocks",
		updateWorkflowBlocks))

	RegisterTool(defineTool(constants.ToolAddCodeEvalAfterBlock,
		"Add Code Eval After Block",
		"Insert a code-evaluation step after an existing block and persist its returned value into a field of the triggering row.",
		"adding code eval after block",
		addCodeEvalAfterBlock))

	RegisterTool(defineTool(constants.ToolCreateRowCreatedTrigger,
		"Create Row Created Trigger For Entity",
		"Create (or return) the Row Created trigger block of an entity. This is the entry point of row-creation workflows.",
		"creating row created trigger",
		createRowCreatedTrigger))

	RegisterTool(defineTool(constants.ToolCreateRunTransformBlock,
		"Create Run Transform Block",
		"Create a run_transform block and wire it after an existing block.",
		"creating run transform block",
		createRunTransformBlock))

	RegisterTool(defineTool(constants.ToolAddCreateRecordBlock,
		"Add Create Record Block",
		"Create a create_record block after an existing block.",
		"creating create_record block",
		addCreateRecordBlock))

	RegisterTool(defineTool(constants.ToolCreateLoopBlockPair,
		"Create Loop Block Pair",
		"Create a Start Loop and End Loop block after an existing block that iterate over a list reference.",
		"creating loop block pair",
		createLoopBlockPair))

	RegisterTool(defineTool(constants.ToolCreateChildTransform,
		"Create Child Transform Flow",
		"Create loop, run_transform and create_record blocks for each child row of a parent. Chains after an existing block or the parent's trigger.",
		"creating child transform flow",
		createChildTransformFlow))

	RegisterTool(defineTool(constants.ToolRenameAssetsForRow,
		"Rename Assets For Row",
		"Fetch the assets of the triggering row and rename each one using a template string.",
		"creating rename assets flow",
		renameAssetsForRow))

	RegisterTool(defineTool(constants.ToolSyncChildFieldToParent,
		"Sync Child Field To Parent",
		"Extract a field of the first child row and write it to a field of the parent row.",
		"syncing child field to parent",
		syncChildFieldToParent))
}
