package spec

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ModelRefPrefix prefixes references to models of the same declaration.
const ModelRefPrefix = "#/models/"

// Schema converts the model into an OpenAPI 3 schema. Properties keep document
// order in Required; references to other models point at ModelRefPrefix.
func (m *Model) Schema() *openapi3.Schema {
	s := &openapi3.Schema{
		Type:        "object",
		Title:       m.ID,
		Description: strings.TrimSpace(m.Description),
		Properties:  make(openapi3.Schemas, m.Properties.Len()),
	}
	required := make(map[string]struct{}, len(m.Required))
	for _, r := range m.Required {
		required[r] = struct{}{}
	}
	for _, prop := range m.Properties.Values() {
		s.Properties[prop.Name] = prop.SchemaRef()
		_, listed := required[prop.Name]
		if prop.Required || listed {
			s.Required = append(s.Required, prop.Name)
		}
	}
	return s
}

// SchemaRef converts the property into an OpenAPI 3 schema or reference.
func (p *Property) SchemaRef() *openapi3.SchemaRef {
	if p.Ref != "" {
		return openapi3.NewSchemaRef(ModelRefPrefix+p.Ref, nil)
	}
	ref := typeSchemaRef(p.Type, p.Format)
	if ref.Ref != "" {
		return ref
	}
	s := ref.Value
	s.Description = strings.TrimSpace(p.Description)
	if s.Type == "array" && s.Items == nil && p.Items != nil {
		if p.Items.Ref != "" {
			s.Items = openapi3.NewSchemaRef(ModelRefPrefix+p.Items.Ref, nil)
		} else {
			s.Items = typeSchemaRef(p.Items.Type, "")
		}
	}
	for _, e := range p.Enum {
		s.Enum = append(s.Enum, e)
	}
	return ref
}

// typeSchemaRef maps a Swagger 1.x type name to a schema. Swagger 1.1 names
// (int, long, Date, List[T]) are accepted alongside 1.2 ones; anything else is
// taken to be a model name.
func typeSchemaRef(typ, format string) *openapi3.SchemaRef {
	typ = strings.TrimSpace(typ)
	if inner, ok := listElement(typ); ok {
		s := &openapi3.Schema{Type: "array", Items: typeSchemaRef(inner, "")}
		return openapi3.NewSchemaRef("", s)
	}
	s := &openapi3.Schema{Format: format}
	switch strings.ToLower(typ) {
	case "", "object":
		s.Type = "object"
	case "string":
		s.Type = "string"
	case "boolean":
		s.Type = "boolean"
	case "int", "integer":
		s.Type = "integer"
		if s.Format == "" {
			s.Format = "int32"
		}
	case "long":
		s.Type = "integer"
		s.Format = "int64"
	case "float", "double", "number":
		s.Type = "number"
		if s.Format == "" && typ != "number" {
			s.Format = strings.ToLower(typ)
		}
	case "byte":
		s.Type = "string"
		s.Format = "byte"
	case "date":
		s.Type = "string"
		s.Format = "date"
	case "date-time":
		s.Type = "string"
		s.Format = "date-time"
	case "array", "list", "set":
		s.Type = "array"
	case "void":
		s.Type = ""
	default:
		return openapi3.NewSchemaRef(ModelRefPrefix+typ, nil)
	}
	// Swagger 1.1 "Date" carries a time, not just a day.
	if typ == "Date" {
		s.Format = "date-time"
	}
	return openapi3.NewSchemaRef("", s)
}

// listElement unwraps "List[T]", "Set[T]" and "Array[T]".
func listElement(typ string) (string, bool) {
	open := strings.IndexByte(typ, '[')
	if open <= 0 || !strings.HasSuffix(typ, "]") {
		return "", false
	}
	switch strings.ToLower(typ[:open]) {
	case "list", "set", "array":
		return typ[open+1 : len(typ)-1], true
	}
	return "", false
}
