package model

import "encoding/json"

// Entity is a table-like record type inside a project.
type Entity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EntityType string `json:"entity_type,omitempty"`
	raw        json.RawMessage
}

func (e Entity) GetName() string { return e.Name }

func (e *Entity) UnmarshalJSON(b []byte) error {
	type plain Entity
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*e = Entity(p)
	e.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (e Entity) MarshalJSON() ([]byte, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}
	type plain Entity
	return json.Marshal(plain(e))
}

// EntityField is a column of an entity.
type EntityField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	EntityID string `json:"entity_id,omitempty"`
	Type     string `json:"type,omitempty"`
	raw      json.RawMessage
}

func (f EntityField) GetName() string { return f.Name }

func (f *EntityField) UnmarshalJSON(b []byte) error {
	type plain EntityField
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*f = EntityField(p)
	f.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (f EntityField) MarshalJSON() ([]byte, error) {
	if len(f.raw) > 0 {
		return f.raw, nil
	}
	type plain EntityField
	return json.Marshal(plain(f))
}

// Transform is a server-side data transformation.
type Transform struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	raw  json.RawMessage
}

func (t Transform) GetName() string { return t.Name }

func (t *Transform) UnmarshalJSON(b []byte) error {
	type plain Transform
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = Transform(p)
	t.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (t Transform) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}
	type plain Transform
	return json.Marshal(plain(t))
}

// EntityFilter holds the optional query parameters of a list-entities call.
type EntityFilter struct {
	EntityID          string
	PrimaryOnly       *bool
	ExcludePlayground *bool
	Limit             *int
	Offset            *int
	OrderBy           string
	Order             string
}

// TransformFilter holds the optional query parameters of a list-transforms call.
type TransformFilter struct {
	SearchTerm             string
	TransformIDs           []string
	IncludeTransformParams *bool
	Limit                  *int
	Offset                 *int
	OrderBy                string
	Order                  string
}

// NewEntity is the body of a create-entity call.
type NewEntity struct {
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
	ProjectID  string `json:"project_id"`
}
