package api

import (
	"context"

	"github.com/awantoch/trellis-mcp/compose"
	"github.com/awantoch/trellis-mcp/config"
	"github.com/awantoch/trellis-mcp/ids"
	"github.com/awantoch/trellis-mcp/model"
)

// WorkflowClient is the upstream surface the tools call.
type WorkflowClient interface {
	compose.WorkflowAPI
	CreateEntity(ctx context.Context, e model.NewEntity) (*model.Entity, error)
}

// Service carries the dependencies every tool handler needs. It holds no
// per-call state.
type Service struct {
	cfg    *config.Config
	client WorkflowClient
	ids    ids.Generator
}

func NewService(cfg *config.Config, client WorkflowClient, gen ids.Generator) *Service {
	if gen == nil {
		gen = ids.NewULIDGenerator()
	}
	return &Service{cfg: cfg, client: client, ids: gen}
}

// composer builds a Composer for the configured workflow. The project id is
// only demanded by patterns that look entities up by name.
func (s *Service) composer(needProject bool) (*compose.Composer, error) {
	workflowID, err := s.cfg.RequireWorkflowID()
	if err != nil {
		return nil, err
	}
	scope := compose.Scope{WorkflowID: workflowID}
	if needProject {
		if scope.ProjectID, err = s.cfg.RequireProjectID(""); err != nil {
			return nil, err
		}
	}
	return compose.New(s.client, s.ids, scope), nil
}

func placement(x, y *float64) compose.Placement {
	return compose.Placement{X: x, Y: y}
}

func boolOr(v *bool, def bool) *bool {
	if v != nil {
		return v
	}
	return &def
}

func intOr(v *int, def int) *int {
	if v != nil {
		return v
	}
	return &def
}

func stringOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
