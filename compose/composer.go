// Package compose builds partial workflow graphs and writes them back in a
// single patch. Every pattern follows the same sequence: resolve names, read
// the graph, locate the anchor, lay out and build blocks, union the edges,
// patch once, and map temp ids to server ids.
package compose

import (
	"context"
	"fmt"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/ids"
	"github.com/awantoch/trellis-mcp/model"
	"github.com/awantoch/trellis-mcp/resolver"
	"github.com/awantoch/trellis-mcp/templater"
	"github.com/awantoch/trellis-mcp/utils"
)

// WorkflowAPI is the part of the workflow client the composer reads and writes through.
type WorkflowAPI interface {
	ListEntities(ctx context.Context, projectID string, f model.EntityFilter) ([]model.Entity, error)
	ListEntityFields(ctx context.Context, entityID, fieldID string) ([]model.EntityField, error)
	ListTransforms(ctx context.Context, f model.TransformFilter) ([]model.Transform, error)
	GetWorkflowConfig(ctx context.Context, workflowID string) (*model.WorkflowGraph, error)
	PatchWorkflowBlocks(ctx context.Context, workflowID string, req model.PatchRequest) (*model.PatchResult, error)
}

// Scope names the project used for name lookups and the workflow being edited.
type Scope struct {
	ProjectID  string
	WorkflowID string
}

// Composer holds no state between calls; two concurrent compositions on one
// workflow race and the last patch wins.
type Composer struct {
	api   WorkflowAPI
	ids   ids.Generator
	tpl   *templater.Templater
	scope Scope
}

func New(api WorkflowAPI, gen ids.Generator, scope Scope) *Composer {
	return &Composer{api: api, ids: gen, tpl: templater.New(), scope: scope}
}

func (c *Composer) entities(ctx context.Context) ([]model.Entity, error) {
	return c.api.ListEntities(ctx, c.scope.ProjectID, model.EntityFilter{})
}

func (c *Composer) resolveEntity(ctx context.Context, name string) (model.Entity, error) {
	all, err := c.entities(ctx)
	if err != nil {
		return model.Entity{}, err
	}
	return resolver.Entity(all, name)
}

// resolveEntityPair resolves two entity names against one listing.
func (c *Composer) resolveEntityPair(ctx context.Context, first, second string) (model.Entity, model.Entity, error) {
	all, err := c.entities(ctx)
	if err != nil {
		return model.Entity{}, model.Entity{}, err
	}
	a, err := resolver.Entity(all, first)
	if err != nil {
		return model.Entity{}, model.Entity{}, err
	}
	b, err := resolver.Entity(all, second)
	if err != nil {
		return model.Entity{}, model.Entity{}, err
	}
	return a, b, nil
}

func (c *Composer) resolveField(ctx context.Context, entity model.Entity, name string) (model.EntityField, error) {
	fields, err := c.api.ListEntityFields(ctx, entity.ID, "")
	if err != nil {
		return model.EntityField{}, err
	}
	return resolver.Field(fields, name, entity.Name)
}

// resolveTransform narrows the server-side search by name, then requires an exact match.
func (c *Composer) resolveTransform(ctx context.Context, name string) (model.Transform, error) {
	found, err := c.api.ListTransforms(ctx, model.TransformFilter{SearchTerm: name})
	if err != nil {
		return model.Transform{}, err
	}
	return resolver.Transform(found, name)
}

func (c *Composer) loadGraph(ctx context.Context) (*model.WorkflowGraph, error) {
	return c.api.GetWorkflowConfig(ctx, c.scope.WorkflowID)
}

func (c *Composer) anchor(g *model.WorkflowGraph, blockID string) (*model.Node, error) {
	n, ok := g.FindNode(blockID)
	if !ok {
		return nil, &model.BlockNotFoundError{BlockID: blockID, WorkflowID: c.scope.WorkflowID}
	}
	return n, nil
}

// submit writes blocks with the existing edges, normalized, followed by the
// added edges. Added edges are deduplicated among themselves only.
func (c *Composer) submit(ctx context.Context, pattern string, g *model.WorkflowGraph, blocks []model.Block, added []model.Edge) (*model.PatchResult, error) {
	edges := append(g.NormalizedEdges(), dedupe(added)...)
	req, err := model.NewPatchRequest(blocks, edges)
	if err != nil {
		return nil, fmt.Errorf("encode blocks: %w", err)
	}
	res, err := c.api.PatchWorkflowBlocks(ctx, c.scope.WorkflowID, req)
	if err != nil {
		return nil, err
	}
	utils.InfoCtx(ctx, "workflow patched",
		"pattern", pattern,
		"workflow_id", c.scope.WorkflowID,
		"blocks", len(blocks),
		"edges", len(edges),
	)
	return res, nil
}

func (c *Composer) actionBlock(prefix, name string, pos model.Position, action model.Action) model.Block {
	return model.NewActionBlock(c.ids.NewID(prefix), c.scope.WorkflowID, name, pos, action)
}

func (c *Composer) recordReference() model.RecordReferenceConfig {
	return model.NewRecordReference(c.ids.NewID(constants.PrefixRecordRefCfg), constants.RefEventRowID)
}

func (c *Composer) mapping(m map[string]string) model.MappingConfig {
	return model.MappingConfig{ID: c.ids.NewID(constants.PrefixMappingConfig), Mapping: m}
}

// loopPair builds a start_loop block at start and its end_loop below it.
func (c *Composer) loopPair(start model.Position, endOffset float64, variable, listRef, loopType string) (model.Block, model.Block) {
	startBlock := c.actionBlock(constants.PrefixBlock, "Start Loop", start, model.NewStartLoop(model.LoopConfig{
		ID:            c.ids.NewID(constants.PrefixLoopConfig),
		LoopType:      loopType,
		LoopVariable:  variable,
		ListReference: listRef,
	}))
	endBlock := c.actionBlock(constants.PrefixBlock, "End Loop", start.Offset(0, endOffset), model.NewEndLoop())
	return startBlock, endBlock
}

// newTrigger builds a row-created trigger block for entityID.
func (c *Composer) newTrigger(entityID string, pos model.Position) model.Block {
	return model.NewTriggerBlock(c.ids.NewID(constants.PrefixBlock), c.scope.WorkflowID, "Row Created", pos, model.TriggerConfig{
		ID:        c.ids.NewID(constants.PrefixTrigger),
		EventName: constants.EventRowCreated,
		EntityID:  entityID,
	})
}

// ref renders a template expression pointing at a block output.
func ref(blockID string, path ...string) string {
	expr := blockID
	for _, p := range path {
		expr += "." + p
	}
	return "{{" + expr + "}}"
}

// chain links consecutive ids.
func chain(blockIDs ...string) []model.Edge {
	var out []model.Edge
	for i := 1; i < len(blockIDs); i++ {
		out = append(out, model.Edge{Source: blockIDs[i-1], Target: blockIDs[i]})
	}
	return out
}

func dedupe(edges []model.Edge) []model.Edge {
	seen := make(map[model.Edge]struct{}, len(edges))
	out := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// resolveAll maps each temp id through the patch result.
func resolveAll(res *model.PatchResult, temp map[string]string) map[string]string {
	out := make(map[string]string, len(temp))
	for role, id := range temp {
		out[role] = res.Resolve(id)
	}
	return out
}
