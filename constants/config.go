package constants

import "time"

// Environment Variables
const (
	EnvAPIKey         = "TRELLIS_API_KEY"
	EnvAPIBase        = "TRELLIS_API_BASE"
	EnvAPIVersion     = "TRELLIS_API_VERSION"
	EnvProjectID      = "PROJECT_ID"
	EnvWorkflowID     = "WORKFLOW_ID"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvPort           = "PORT"
	EnvOpsAddr        = "OPS_ADDR"
	EnvLogLevel       = "LOG_LEVEL"
	EnvDebug          = "TRELLIS_MCP_DEBUG"
	EnvTraceExporter  = "OTEL_TRACES_EXPORTER"
	EnvTraceEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvServiceName    = "OTEL_SERVICE_NAME"
)

// Defaults
const (
	DefaultAPIVersion     = "2025-03"
	DefaultRequestTimeout = 30 * time.Second
	DefaultPort           = 3000
	DefaultOpsAddr        = ":9464"
	DefaultServiceName    = "trellis-mcp"
	DefaultConfigPath     = "trellis-mcp.yaml"
)

// Trace exporters
const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
	TraceExporterOTLP   = "otlp"
)

// Server identity
const (
	ServerName    = "trellis-mcp-server"
	ServerVersion = "1.0.0"
)
