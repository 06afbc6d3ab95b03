package api

import (
	"io"
	"net/http"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
	"github.com/awantoch/trellis-mcp/telemetry"
	"github.com/awantoch/trellis-mcp/utils"
	"github.com/invopop/jsonschema"
)

// maxArgsBytes bounds a tool call body.
const maxArgsBytes = 4 << 20

// ToolInfo is the public description of one catalogue entry.
type ToolInfo struct {
	Name        string             `json:"name"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// Catalogue lists every tool with its input schema.
func Catalogue() []ToolInfo {
	defs := AllTools()
	out := make([]ToolInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, ToolInfo{Name: d.Name, Title: d.Title, Description: d.Description, InputSchema: d.InputSchema()})
	}
	return out
}

// AttachHTTPHandlers registers the ops endpoints and the REST form of the
// tool catalogue on mux.
func AttachHTTPHandlers(mux *http.ServeMux, svc *Service) {
	mux.HandleFunc("GET "+constants.PathHealth, func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteHTTPJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"server":  constants.ServerName,
			"version": constants.ServerVersion,
		})
	})
	mux.Handle("GET "+constants.PathMetrics, telemetry.MetricsHandler())
	mux.HandleFunc("GET "+constants.PathTools, func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteHTTPJSON(w, http.StatusOK, Catalogue())
	})
	mux.HandleFunc("POST "+constants.PathTools+"/{name}", func(w http.ResponseWriter, r *http.Request) {
		toolCallHandler(w, r, svc)
	})
}

// NewOpsHandler returns the instrumented ops handler.
func NewOpsHandler(svc *Service) http.Handler {
	mux := http.NewServeMux()
	AttachHTTPHandlers(mux, svc)
	return telemetry.WrapHandler("ops", mux)
}

func toolCallHandler(w http.ResponseWriter, r *http.Request, svc *Service) {
	reqID := r.Header.Get(constants.HeaderRequestID)
	if reqID == "" {
		reqID = utils.NewRequestID()
	}
	w.Header().Set(constants.HeaderRequestID, reqID)
	ctx := utils.WithRequestID(r.Context(), reqID)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxArgsBytes))
	if err != nil {
		utils.WriteHTTPError(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	env, err := svc.Invoke(ctx, r.PathValue("name"), body)
	if err != nil {
		code := http.StatusInternalServerError
		if model.IsNotFound(err) {
			code = http.StatusNotFound
		}
		utils.WriteHTTPError(w, err.Error(), code)
		return
	}
	_ = utils.WriteHTTPJSON(w, http.StatusOK, env)
}
