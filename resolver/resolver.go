// Package resolver turns human-readable names into the single record they denote.
package resolver

import (
	"maps"
	"slices"
	"strings"

	"github.com/awantoch/trellis-mcp/model"
)

// Named is anything resolvable by name.
type Named interface {
	GetName() string
}

// Resolve returns the one record whose name equals name, ignoring case.
// kind labels the record type in errors ("entity", "field", "transform");
// context, when set, names the owning entity.
func Resolve[T Named](records []T, kind, name, context string) (T, error) {
	var zero T
	var match T
	count := 0
	for _, r := range records {
		if strings.EqualFold(r.GetName(), name) {
			if count == 0 {
				match = r
			}
			count++
		}
	}
	switch count {
	case 0:
		return zero, &model.NotFoundError{Kind: kind, Name: name, Context: context}
	case 1:
		return match, nil
	default:
		return zero, &model.AmbiguousError{Kind: kind, Name: name, Context: context, Count: count}
	}
}

// Entity resolves an entity by name.
func Entity(entities []model.Entity, name string) (model.Entity, error) {
	return Resolve(entities, "entity", name, "")
}

// Field resolves a field by name on the named entity.
func Field(fields []model.EntityField, name, entityName string) (model.EntityField, error) {
	return Resolve(fields, "field", name, entityName)
}

// Transform resolves a transform by name.
func Transform(transforms []model.Transform, name string) (model.Transform, error) {
	return Resolve(transforms, "transform", name, "")
}

// FieldMapping resolves every field name in mapping to its field id. All
// names that fail to resolve are reported together. An ambiguous name is
// reported on its own.
func FieldMapping(fields []model.EntityField, mapping map[string]string, entityName string) (map[string]string, error) {
	out := make(map[string]string, len(mapping))
	var missing []string
	for _, name := range slices.Sorted(maps.Keys(mapping)) {
		f, err := Field(fields, name, entityName)
		if err != nil {
			if _, ok := err.(*model.NotFoundError); ok {
				missing = append(missing, name)
				continue
			}
			return nil, err
		}
		out[f.ID] = mapping[name]
	}
	if len(missing) > 0 {
		return nil, &model.MissingFieldsError{Entity: entityName, Names: missing}
	}
	return out, nil
}
