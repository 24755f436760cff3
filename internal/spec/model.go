package spec

import (
	"strconv"
)

// Swagger 1.x document model. Fields marked derived are filled in by processors
// during Apply and are never read from the document.

// ParamType identifies where an operation parameter is sent.
type ParamType string

const (
	ParamPath  ParamType = "path"
	ParamQuery ParamType = "query"
	ParamBody  ParamType = "body"
)

// Node is a document node that can identify itself by one of its fields.
type Node interface {
	// Field returns the string form of the named field and whether it is set.
	Field(name string) (string, bool)
}

// ResourceListing is the root document.
type ResourceListing struct {
	// URL is where the listing was loaded from; empty for in-memory documents.
	URL            string        `yaml:"url,omitempty"`
	APIVersion     string        `yaml:"apiVersion,omitempty"`
	SwaggerVersion string        `yaml:"swaggerVersion,omitempty"`
	BasePath       string        `yaml:"basePath,omitempty"`
	APIs           []*ListingAPI `yaml:"apis"`
}

// ListingAPI references one API declaration from the listing.
type ListingAPI struct {
	Path        string `yaml:"path"`
	Description string `yaml:"description,omitempty"`
	// URL is the resolved location of the declaration, set by the Loader.
	URL string `yaml:"url,omitempty"`
	// Name is derived from Path.
	Name           string          `yaml:"name,omitempty"`
	APIDeclaration *APIDeclaration `yaml:"api_declaration,omitempty"`
}

func (l *ListingAPI) Field(name string) (string, bool) {
	switch name {
	case "path":
		return l.Path, l.Path != ""
	case "name":
		return l.Name, l.Name != ""
	case "url":
		return l.URL, l.URL != ""
	}
	return "", false
}

// APIDeclaration describes one resource: its endpoints and models.
type APIDeclaration struct {
	APIVersion     string  `yaml:"apiVersion,omitempty"`
	SwaggerVersion string  `yaml:"swaggerVersion,omitempty"`
	BasePath       string  `yaml:"basePath"`
	ResourcePath   string  `yaml:"resourcePath,omitempty"`
	APIs           []*API  `yaml:"apis"`
	Models         *Models `yaml:"models,omitempty"`

	// ModelList is Models flattened in document order (derived).
	ModelList []*Model `yaml:"-"`
}

// API is a URL path and the operations available on it.
type API struct {
	Path        string       `yaml:"path"`
	Description string       `yaml:"description,omitempty"`
	Operations  []*Operation `yaml:"operations"`

	// HasWebsocket is true when any operation upgrades to a websocket (derived).
	HasWebsocket bool `yaml:"-"`
}

func (a *API) Field(name string) (string, bool) {
	if name == "path" {
		return a.Path, a.Path != ""
	}
	return "", false
}

// Operation is one callable action on an API path.
type Operation struct {
	Nickname       string           `yaml:"nickname"`
	HTTPMethod     string           `yaml:"httpMethod"`
	Summary        string           `yaml:"summary,omitempty"`
	Notes          string           `yaml:"notes,omitempty"`
	ResponseClass  string           `yaml:"responseClass,omitempty"`
	Upgrade        string           `yaml:"upgrade,omitempty"`
	Parameters     []*Parameter     `yaml:"parameters,omitempty"`
	ErrorResponses []*ErrorResponse `yaml:"errorResponses,omitempty"`

	// IsWebsocket is true for "upgrade: websocket" operations (derived).
	IsWebsocket bool `yaml:"-"`
}

func (o *Operation) Field(name string) (string, bool) {
	switch name {
	case "nickname":
		return o.Nickname, o.Nickname != ""
	case "httpMethod":
		return o.HTTPMethod, o.HTTPMethod != ""
	}
	return "", false
}

// AllowableValues restricts a parameter to a list or a range.
type AllowableValues struct {
	ValueType string   `yaml:"valueType"`
	Values    []string `yaml:"values,omitempty"`
	Min       string   `yaml:"min,omitempty"`
	Max       string   `yaml:"max,omitempty"`
}

// Parameter is one declared operation argument.
type Parameter struct {
	Name            string           `yaml:"name"`
	ParamType       ParamType        `yaml:"paramType"`
	DataType        string           `yaml:"dataType,omitempty"`
	Description     string           `yaml:"description,omitempty"`
	Required        bool             `yaml:"required"`
	AllowMultiple   bool             `yaml:"allowMultiple,omitempty"`
	AllowableValues *AllowableValues `yaml:"allowableValues,omitempty"`
}

func (p *Parameter) Field(name string) (string, bool) {
	switch name {
	case "name":
		return p.Name, p.Name != ""
	case "paramType":
		return string(p.ParamType), p.ParamType != ""
	}
	return "", false
}

// ErrorResponse documents a non-success status of an operation.
type ErrorResponse struct {
	Code   int    `yaml:"code"`
	Reason string `yaml:"reason,omitempty"`
}

func (e *ErrorResponse) Field(name string) (string, bool) {
	switch name {
	case "code":
		return strconv.Itoa(e.Code), e.Code != 0
	case "reason":
		return e.Reason, e.Reason != ""
	}
	return "", false
}

// Model is a named schema definition.
type Model struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description,omitempty"`
	Required    []string    `yaml:"required,omitempty"`
	Properties  *Properties `yaml:"properties,omitempty"`

	// PropertyList is Properties flattened in document order (derived).
	PropertyList []*Property `yaml:"-"`
}

func (m *Model) Field(name string) (string, bool) {
	if name == "id" {
		return m.ID, m.ID != ""
	}
	return "", false
}

// Items describes the element type of an array property.
type Items struct {
	Type string `yaml:"type,omitempty"`
	Ref  string `yaml:"$ref,omitempty"`
}

// Property is one field of a Model.
type Property struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type,omitempty"`
	Format      string   `yaml:"format,omitempty"`
	Ref         string   `yaml:"$ref,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
	Items       *Items   `yaml:"items,omitempty"`
	Enum        []string `yaml:"enum,omitempty"`
}

func (p *Property) Field(name string) (string, bool) {
	switch name {
	case "name":
		return p.Name, p.Name != ""
	case "type":
		return p.Type, p.Type != ""
	}
	return "", false
}
