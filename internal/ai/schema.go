package ai

// SchemaType is a structured-output field type.
type SchemaType string

const (
	TypeObject  SchemaType = "OBJECT"
	TypeArray   SchemaType = "ARRAY"
	TypeString  SchemaType = "STRING"
	TypeInteger SchemaType = "INTEGER"
	TypeNumber  SchemaType = "NUMBER"
	TypeBoolean SchemaType = "BOOLEAN"
)

// Schema declares the shape a structured completion must return. Its JSON form
// is the Gemini responseSchema dialect; JSONSchema renders standard JSON Schema
// for other backends and for validation.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	// PropertyOrdering fixes the order in which the backend emits fields.
	PropertyOrdering []string `json:"propertyOrdering,omitempty"`
}

// JSONSchema converts the schema into a JSON Schema document fragment.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	out := map[string]any{"type": jsonSchemaType(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.JSONSchema()
		}
		out["properties"] = props
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Required) > 0 {
		req := make([]any, len(s.Required))
		for i, r := range s.Required {
			req[i] = r
		}
		out["required"] = req
	}
	return out
}

func jsonSchemaType(t SchemaType) string {
	switch t {
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	case TypeInteger:
		return "integer"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}
