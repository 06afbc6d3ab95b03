package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ConfigurationError reports a missing or invalid setting.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// NotFoundError means a name lookup matched nothing.
type NotFoundError struct {
	Kind    string // entity, field, transform
	Name    string
	Context string // entity name for field lookups
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no %s found with name %q", e.Kind, e.Name)
	if e.Context != "" {
		msg += fmt.Sprintf(" on entity %q", e.Context)
	}
	return msg
}

// AmbiguousError means a name lookup matched more than one record.
type AmbiguousError struct {
	Kind    string
	Name    string
	Context string
	Count   int
}

func (e *AmbiguousError) Error() string {
	msg := fmt.Sprintf("multiple %s found with name %q", plural(e.Kind), e.Name)
	if e.Context != "" {
		msg += fmt.Sprintf(" on entity %q", e.Context)
	}
	return msg
}

// MissingFieldsError collects every field name that failed to resolve on one entity.
type MissingFieldsError struct {
	Entity string
	Names  []string
}

func (e *MissingFieldsError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("fields not found on entity %q: %s", e.Entity, strings.Join(quoted, ", "))
}

// BlockNotFoundError means an anchor block id is absent from the workflow graph.
type BlockNotFoundError struct {
	BlockID    string
	WorkflowID string
}

func (e *BlockNotFoundError) Error() string {
	if e.WorkflowID == "" {
		return fmt.Sprintf("block %q not found in workflow", e.BlockID)
	}
	return fmt.Sprintf("block %q not found in workflow %q", e.BlockID, e.WorkflowID)
}

// maxExcerpt bounds the payload excerpt carried by UnexpectedShapeError.
const maxExcerpt = 500

// UnexpectedShapeError means an upstream payload matched none of the tolerated shapes.
type UnexpectedShapeError struct {
	Resource string
	Excerpt  string
}

// NewUnexpectedShapeError truncates the payload to a readable excerpt.
func NewUnexpectedShapeError(resource string, payload []byte) *UnexpectedShapeError {
	s := string(payload)
	if len(s) > maxExcerpt {
		cut := maxExcerpt
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return &UnexpectedShapeError{Resource: resource, Excerpt: s}
}

func (e *UnexpectedShapeError) Error() string {
	return fmt.Sprintf("unexpected %s response shape: %s", e.Resource, e.Excerpt)
}

// UpstreamError is a non-2xx response from the workflow API.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// Detail returns the upstream body, indented when it is JSON. Empty when there is no body.
func (e *UpstreamError) Detail() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return ""
	}
	if json.Valid([]byte(body)) {
		var v any
		if err := json.Unmarshal([]byte(body), &v); err == nil {
			if out, err := json.MarshalIndent(v, "", "  "); err == nil {
				return string(out)
			}
		}
	}
	return body
}

// ValidationError is a local argument check that failed before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsNotFound reports whether err is a name or block lookup miss.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	var bnf *BlockNotFoundError
	var mf *MissingFieldsError
	return errors.As(err, &nf) || errors.As(err, &bnf) || errors.As(err, &mf)
}

func plural(kind string) string {
	switch kind {
	case "entity":
		return "entities"
	case "":
		return "records"
	default:
		return kind + "s"
	}
}
