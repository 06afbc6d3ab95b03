package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/awantoch/trellis-mcp/constants"
)

// ============================================================================
// JSON HELPERS
// ============================================================================

// MarshalIndent renders v as indented JSON text. Failures are rendered as
// the error message so callers always get printable output.
func MarshalIndent(v any) string {
	data, err := json.MarshalIndent(v, "", constants.JSONIndent)
	if err != nil {
		return fmt.Sprintf("<unencodable: %v>", err)
	}
	return string(data)
}

// ============================================================================
// HTTP HELPERS
// ============================================================================

// HTTPErrorResponse represents a standardized HTTP error response
type HTTPErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// WriteHTTPError writes a standardized HTTP error response
func WriteHTTPError(w http.ResponseWriter, message string, code int) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)

	data, err := json.Marshal(HTTPErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %s", message)
		return
	}
	_, _ = w.Write(data)
}

// WriteHTTPJSON writes a JSON response with the given status.
func WriteHTTPJSON(w http.ResponseWriter, code int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		WriteHTTPError(w, "Failed to encode response", http.StatusInternalServerError)
		return err
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)
	_, err = w.Write(data)
	return err
}

// ============================================================================
// VALIDATION HELPERS
// ============================================================================

// ValidateRequired reports an empty required string argument.
func ValidateRequired(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("required field '%s' cannot be empty", fieldName)
	}
	return nil
}

// ValidateOneOf checks if value is one of the allowed values
func ValidateOneOf(fieldName string, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("field '%s' must be one of %v, got '%s'", fieldName, allowed, value)
}
