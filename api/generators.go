package api

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/awantoch/trellis-mcp/model"
	mcpserver "github.com/awantoch/trellis-mcp/mcp"
	"github.com/awantoch/trellis-mcp/telemetry"
	"github.com/awantoch/trellis-mcp/utils"
	"github.com/invopop/jsonschema"
)

// Execute runs one tool call and converts its outcome into an envelope.
// Errors never escape: every failure becomes an error envelope.
func (s *Service) Execute(ctx context.Context, def *ToolDefinition, args any) Envelope {
	reqID, ok := utils.RequestIDFromContext(ctx)
	if !ok {
		reqID = utils.NewRequestID()
		ctx = utils.WithRequestID(ctx, reqID)
	}
	start := time.Now()
	utils.DebugCtx(ctx, "tool call started", "tool", def.Name)

	result, err := s.call(ctx, def, args)
	elapsed := time.Since(start)
	if err != nil {
		telemetry.ObserveToolCall(def.Name, telemetry.OutcomeError, elapsed)
		utils.WarnCtx(ctx, "tool call failed", "tool", def.Name, "duration", elapsed, "error", err)
		return failure(def.Action, err)
	}
	telemetry.ObserveToolCall(def.Name, telemetry.OutcomeSuccess, elapsed)
	utils.InfoCtx(ctx, "tool call finished", "tool", def.Name, "duration", elapsed)
	return success(result)
}

func (s *Service) call(ctx context.Context, def *ToolDefinition, args any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorCtx(ctx, "tool handler panicked", "tool", def.Name, "panic", r)
			err = fmt.Errorf("internal error in %s", def.Name)
		}
	}()
	if err := validateRequired(args); err != nil {
		return nil, err
	}
	return def.run(ctx, s, args)
}

// Invoke runs a tool by name with JSON-encoded arguments.
func (s *Service) Invoke(ctx context.Context, name string, rawArgs []byte) (Envelope, error) {
	def, ok := GetTool(name)
	if !ok {
		return Envelope{}, &model.NotFoundError{Kind: "tool", Name: name}
	}
	args, err := def.decodeArgs(rawArgs)
	if err != nil {
		return failure(def.Action, &model.ValidationError{Message: err.Error()}), nil
	}
	return s.Execute(ctx, def, args), nil
}

// GenerateMCPTools creates MCP tool registrations for the whole catalogue.
func GenerateMCPTools(svc *Service) []mcpserver.ToolRegistration {
	defs := AllTools()
	tools := make([]mcpserver.ToolRegistration, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, mcpserver.ToolRegistration{
			Name:        def.Name,
			Description: def.Description,
			Handler:     def.mcpHandler(svc),
		})
	}
	return tools
}

// InputSchema reflects the JSON Schema of the tool's arguments.
func (d *ToolDefinition) InputSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	return r.ReflectFromType(d.ArgsType)
}

// validateRequired rejects empty values in fields tagged as required,
// before any network call is made.
func validateRequired(args any) error {
	v := reflect.ValueOf(args)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		opts := strings.Split(field.Tag.Get("jsonschema"), ",")
		if opts[0] != "required" {
			continue
		}
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		fv := v.Field(i)
		empty := false
		switch fv.Kind() {
		case reflect.String:
			empty = strings.TrimSpace(fv.String()) == ""
		case reflect.Map:
			empty = fv.Len() == 0
		case reflect.Slice, reflect.Pointer:
			// an explicit empty list is a value
			empty = fv.IsNil()
		}
		if empty {
			return &model.ValidationError{Message: utils.ValidateRequired(name, "").Error()}
		}
	}
	return nil
}
