package client

import (
	"fmt"

	"github.com/mark3labs/swaggerc/internal/logging"
	"github.com/mark3labs/swaggerc/internal/spec"
)

// Resource is one API declaration's operations, keyed by nickname.
type Resource struct {
	name       string
	listingAPI *spec.ListingAPI
	operations map[string]*Operation
	order      []string
}

func newResource(la *spec.ListingAPI, transport Transport, logger logging.Logger) (*Resource, error) {
	if la.Name == "" {
		return nil, &spec.SpecError{
			Code:    spec.SchemaError,
			Message: fmt.Sprintf("listing api %s has no name", la.Path),
			Field:   "name",
		}
	}
	decl := la.APIDeclaration
	if decl == nil {
		return nil, &spec.SpecError{
			Code:    spec.SchemaError,
			Message: fmt.Sprintf("resource %s has no api_declaration", la.Name),
			Field:   "api_declaration",
		}
	}
	if decl.BasePath == "" {
		return nil, &spec.SpecError{
			Code:     spec.SchemaError,
			Message:  fmt.Sprintf("resource %s has no basePath", la.Name),
			Location: la.URL,
			Field:    "basePath",
		}
	}

	logger = logger.With("resource", la.Name)
	logger.Debug("building resource", "apis", len(decl.APIs))
	r := &Resource{
		name:       la.Name,
		listingAPI: la,
		operations: make(map[string]*Operation),
	}
	for _, api := range decl.APIs {
		if api == nil {
			continue
		}
		uri := decl.BasePath + api.Path
		for _, op := range api.Operations {
			if op == nil {
				continue
			}
			if prev, dup := r.operations[op.Nickname]; dup {
				logger.Warn("duplicate operation nickname; keeping the later one",
					"nickname", op.Nickname, "previous", prev.URI(), "uri", uri)
			} else {
				r.order = append(r.order, op.Nickname)
			}
			logger.Debug("building operation", "nickname", op.Nickname, "method", op.HTTPMethod, "uri", uri)
			r.operations[op.Nickname] = newOperation(uri, op, transport, logger)
		}
	}
	return r, nil
}

// Name is the file stem of the declaration path, e.g. "pets".
func (r *Resource) Name() string { return r.name }

func (r *Resource) String() string { return "Resource(" + r.name + ")" }

// Description is the listing entry's description.
func (r *Resource) Description() string { return r.listingAPI.Description }

// Operation returns the operation with the given nickname.
func (r *Resource) Operation(nickname string) (*Operation, error) {
	op, ok := r.operations[nickname]
	if !ok {
		return nil, &NotFoundError{Kind: "operation", Name: nickname, Owner: r.name}
	}
	return op, nil
}

// Lookup is Operation without the error.
func (r *Resource) Lookup(nickname string) (*Operation, bool) {
	op, ok := r.operations[nickname]
	return op, ok
}

// OperationNames lists nicknames in declaration order.
func (r *Resource) OperationNames() []string {
	return append([]string(nil), r.order...)
}

// Models returns the declaration's models in document order.
func (r *Resource) Models() []*spec.Model {
	decl := r.listingAPI.APIDeclaration
	if decl.ModelList != nil {
		return decl.ModelList
	}
	return decl.Models.Values()
}
