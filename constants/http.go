package constants

// HTTP Methods
const (
	HTTPMethodGET   = "GET"
	HTTPMethodPOST  = "POST"
	HTTPMethodPATCH = "PATCH"
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
	ContentTypeYAML = "application/yaml"
)

// HTTP Headers
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderAccept        = "accept"
	HeaderAPIVersion    = "API-Version"
	HeaderRequestID     = "X-Request-Id"
)

// Ops endpoints
const (
	PathHealth  = "/healthz"
	PathMetrics = "/metrics"
	PathTools   = "/tools"
	PathMCP     = "/mcp"
)

// JSON formatting
const (
	JSONIndent = "  "
)
