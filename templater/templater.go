// Package templater renders the code snippets embedded in generated eval_code
// blocks and checks the placeholder syntax of caller-supplied templates.
package templater

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/awantoch/trellis-mcp/utils"
	pongo2 "github.com/flosch/pongo2/v6"
)

func init() {
	// js renders a value as a quoted JavaScript string literal.
	_ = pongo2.RegisterFilter("js", func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		b, err := json.Marshal(in.String())
		if err != nil {
			return nil, &pongo2.Error{OrigError: err}
		}
		return pongo2.AsSafeValue(string(b)), nil
	})
}

// Templater compiles each template once and renders it with pongo2.
type Templater struct {
	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

// New creates a Templater.
func New() *Templater {
	return &Templater{cache: make(map[string]*pongo2.Template)}
}

// Render renders tmpl with data.
func (t *Templater) Render(tmpl string, data map[string]any) (string, error) {
	if data == nil {
		return "", fmt.Errorf("template data is nil")
	}
	tpl, err := t.compile(tmpl)
	if err != nil {
		return "", err
	}
	ctx := make(pongo2.Context, len(data))
	maps.Copy(ctx, data)
	utils.Debug("templater: rendering with keys %v", keys(data))
	return tpl.Execute(ctx)
}

func (t *Templater) compile(tmpl string) (*pongo2.Template, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tpl, ok := t.cache[tmpl]; ok {
		return tpl, nil
	}
	tpl, err := pongo2.FromString(tmpl)
	if err != nil {
		return nil, err
	}
	t.cache[tmpl] = tpl
	return tpl, nil
}

// CheckPlaceholders verifies that every "{{" in s is closed by a "}}" and
// that no placeholder is empty. The placeholders themselves are resolved by
// the workflow engine at run time, not here.
func CheckPlaceholders(s string) error {
	rest := s
	for {
		open := strings.Index(rest, "{{")
		closeIdx := strings.Index(rest, "}}")
		if open < 0 {
			if closeIdx >= 0 {
				return fmt.Errorf("unmatched \"}}\" in template %q", s)
			}
			return nil
		}
		if closeIdx >= 0 && closeIdx < open {
			return fmt.Errorf("unmatched \"}}\" in template %q", s)
		}
		end := strings.Index(rest[open+2:], "}}")
		if end < 0 {
			return fmt.Errorf("unclosed \"{{\" in template %q", s)
		}
		inner := rest[open+2 : open+2+end]
		if strings.TrimSpace(inner) == "" {
			return fmt.Errorf("empty placeholder in template %q", s)
		}
		if strings.Contains(inner, "{{") {
			return fmt.Errorf("nested \"{{\" in template %q", s)
		}
		rest = rest[open+2+end+2:]
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
