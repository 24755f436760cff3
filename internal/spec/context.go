package spec

import (
	"fmt"
	"strings"
)

// Kind names a node kind in the walk.
type Kind string

const (
	KindResources     Kind = "resources"
	KindListingAPI    Kind = "listing_api"
	KindResource      Kind = "resource"
	KindAPI           Kind = "api"
	KindOperation     Kind = "operation"
	KindParameter     Kind = "parameter"
	KindErrorResponse Kind = "error_response"
	KindModel         Kind = "model"
	KindProperty      Kind = "prop"
)

// ParsingContext tracks the path from the document root to the node being
// visited. Every Push must be matched by exactly one Pop.
type ParsingContext struct {
	types    []Kind
	ids      []string
	bindings map[Kind]any
}

// NewParsingContext returns an empty context.
func NewParsingContext() *ParsingContext {
	return &ParsingContext{bindings: make(map[Kind]any)}
}

// Push pushes a self-identifying node, using the value of idField as its id.
// An idField that is absent or holds its zero value ("" or 0) is a SchemaError
// and leaves the context unchanged.
func (c *ParsingContext) Push(kind Kind, node Node, idField string) error {
	id, ok := node.Field(idField)
	if !ok {
		crumb := c.Breadcrumb()
		return &SpecError{
			Code:    SchemaError,
			Message: fmt.Sprintf("missing id field %q on %s (context: %s)", idField, kind, crumb),
			Context: crumb,
			Field:   idField,
		}
	}
	c.PushNamed(kind, node, id)
	return nil
}

// PushNamed pushes node with an explicit id.
func (c *ParsingContext) PushNamed(kind Kind, node any, id string) {
	if c.bindings == nil {
		c.bindings = make(map[Kind]any)
	}
	c.types = append(c.types, kind)
	c.ids = append(c.ids, id)
	c.bindings[kind] = node
}

// Pop removes the most recently pushed node. Popping an empty context is a
// programming error and panics.
func (c *ParsingContext) Pop() {
	n := len(c.types)
	if n == 0 {
		panic("spec: pop on empty parsing context")
	}
	delete(c.bindings, c.types[n-1])
	c.types = c.types[:n-1]
	c.ids = c.ids[:n-1]
}

// IsEmpty reports whether nothing is pushed.
func (c *ParsingContext) IsEmpty() bool {
	return len(c.types) == 0 && len(c.ids) == 0
}

// Depth returns the number of pushed nodes.
func (c *ParsingContext) Depth() int { return len(c.types) }

// Breadcrumb renders the stack as "kind=id" pairs in push order.
func (c *ParsingContext) Breadcrumb() string {
	parts := make([]string, len(c.types))
	for i := range c.types {
		parts[i] = string(c.types[i]) + "=" + c.ids[i]
	}
	return strings.Join(parts, ", ")
}

func (c *ParsingContext) String() string {
	return "ParsingContext(stack=[" + c.Breadcrumb() + "])"
}

// Errorf returns a ValidationError carrying the current breadcrumb.
func (c *ParsingContext) Errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	crumb := c.Breadcrumb()
	return &SpecError{
		Code:    ValidationError,
		Message: fmt.Sprintf("%s (context: %s)", msg, crumb),
		Context: crumb,
	}
}

// Bound returns the node currently bound to kind.
func (c *ParsingContext) Bound(kind Kind) (any, bool) {
	n, ok := c.bindings[kind]
	return n, ok
}

// Typed accessors for the ancestors in scope. Each returns nil when no node of
// that kind is bound.

func (c *ParsingContext) Resources() *ResourceListing {
	n, _ := c.bindings[KindResources].(*ResourceListing)
	return n
}

func (c *ParsingContext) ListingAPI() *ListingAPI {
	n, _ := c.bindings[KindListingAPI].(*ListingAPI)
	return n
}

func (c *ParsingContext) Resource() *APIDeclaration {
	n, _ := c.bindings[KindResource].(*APIDeclaration)
	return n
}

func (c *ParsingContext) API() *API {
	n, _ := c.bindings[KindAPI].(*API)
	return n
}

func (c *ParsingContext) Operation() *Operation {
	n, _ := c.bindings[KindOperation].(*Operation)
	return n
}

func (c *ParsingContext) Parameter() *Parameter {
	n, _ := c.bindings[KindParameter].(*Parameter)
	return n
}

func (c *ParsingContext) ErrorResponse() *ErrorResponse {
	n, _ := c.bindings[KindErrorResponse].(*ErrorResponse)
	return n
}

func (c *ParsingContext) Model() *Model {
	n, _ := c.bindings[KindModel].(*Model)
	return n
}

func (c *ParsingContext) Property() *Property {
	n, _ := c.bindings[KindProperty].(*Property)
	return n
}
