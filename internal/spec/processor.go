package spec

// Processor enriches or validates a loaded document. Apply calls one hook per
// node, in document order, with the context holding every ancestor in scope.
// Returning an error aborts the walk.
type Processor interface {
	ProcessResourceListing(pc *ParsingContext, listing *ResourceListing) error
	ProcessResourceListingAPI(pc *ParsingContext, listingAPI *ListingAPI) error
	ProcessAPIDeclaration(pc *ParsingContext, decl *APIDeclaration) error
	ProcessResourceAPI(pc *ParsingContext, api *API) error
	ProcessOperation(pc *ParsingContext, op *Operation) error
	ProcessParameter(pc *ParsingContext, param *Parameter) error
	ProcessErrorResponse(pc *ParsingContext, resp *ErrorResponse) error
	ProcessModel(pc *ParsingContext, model *Model) error
	ProcessProperty(pc *ParsingContext, prop *Property) error
}

// BaseProcessor implements every hook as a no-op. Embed it and override the
// hooks you need.
type BaseProcessor struct{}

func (BaseProcessor) ProcessResourceListing(*ParsingContext, *ResourceListing) error { return nil }
func (BaseProcessor) ProcessResourceListingAPI(*ParsingContext, *ListingAPI) error    { return nil }
func (BaseProcessor) ProcessAPIDeclaration(*ParsingContext, *APIDeclaration) error    { return nil }
func (BaseProcessor) ProcessResourceAPI(*ParsingContext, *API) error                  { return nil }
func (BaseProcessor) ProcessOperation(*ParsingContext, *Operation) error              { return nil }
func (BaseProcessor) ProcessParameter(*ParsingContext, *Parameter) error              { return nil }
func (BaseProcessor) ProcessErrorResponse(*ParsingContext, *ErrorResponse) error      { return nil }
func (BaseProcessor) ProcessModel(*ParsingContext, *Model) error                      { return nil }
func (BaseProcessor) ProcessProperty(*ParsingContext, *Property) error                { return nil }

var _ Processor = BaseProcessor{}

const (
	defaultListingID     = "json:resource_listing"
	defaultDeclarationID = "json:api_declaration"
)

// Apply walks listing with p. Declarations must already be attached.
//
// The walk always leaves its context empty. A non-empty context afterwards
// means a push without a pop and panics.
func Apply(listing *ResourceListing, p Processor) error {
	pc := NewParsingContext()
	err := walkListing(pc, listing, p)
	if !pc.IsEmpty() {
		panic("spec: expected " + pc.String() + " to be empty")
	}
	return err
}

// Chain runs processors one after another, each over the whole document.
type Chain []Processor

// Apply runs every processor's walk in order and stops at the first error.
func (c Chain) Apply(listing *ResourceListing) error {
	for _, p := range c {
		if err := Apply(listing, p); err != nil {
			return err
		}
	}
	return nil
}

func walkListing(pc *ParsingContext, listing *ResourceListing, p Processor) error {
	id := listing.URL
	if id == "" {
		id = defaultListingID
	}
	pc.PushNamed(KindResources, listing, id)
	defer pc.Pop()

	if err := p.ProcessResourceListing(pc, listing); err != nil {
		return err
	}
	for _, la := range listing.APIs {
		if la == nil {
			continue
		}
		if err := walkListingAPI(pc, la, p); err != nil {
			return err
		}
		if err := walkDeclaration(pc, la, p); err != nil {
			return err
		}
	}
	return nil
}

func walkListingAPI(pc *ParsingContext, la *ListingAPI, p Processor) error {
	if err := pc.Push(KindListingAPI, la, "path"); err != nil {
		return err
	}
	defer pc.Pop()
	return p.ProcessResourceListingAPI(pc, la)
}

func walkDeclaration(pc *ParsingContext, la *ListingAPI, p Processor) error {
	decl := la.APIDeclaration
	if decl == nil {
		crumb := pc.Breadcrumb()
		return &SpecError{
			Code:    SchemaError,
			Message: "listing api " + la.Path + " has no api_declaration (context: " + crumb + ")",
			Context: crumb,
			Field:   "api_declaration",
		}
	}
	id := la.URL
	if id == "" {
		id = defaultDeclarationID
	}
	pc.PushNamed(KindResource, decl, id)
	defer pc.Pop()

	if err := p.ProcessAPIDeclaration(pc, decl); err != nil {
		return err
	}
	for _, api := range decl.APIs {
		if err := walkAPI(pc, api, p); err != nil {
			return err
		}
	}
	for _, model := range decl.Models.Values() {
		if err := walkModel(pc, model, p); err != nil {
			return err
		}
	}
	return nil
}

func walkAPI(pc *ParsingContext, api *API, p Processor) error {
	if err := pc.Push(KindAPI, api, "path"); err != nil {
		return err
	}
	defer pc.Pop()

	if err := p.ProcessResourceAPI(pc, api); err != nil {
		return err
	}
	for _, op := range api.Operations {
		if err := walkOperation(pc, op, p); err != nil {
			return err
		}
	}
	return nil
}

func walkOperation(pc *ParsingContext, op *Operation, p Processor) error {
	if err := pc.Push(KindOperation, op, "nickname"); err != nil {
		return err
	}
	defer pc.Pop()

	if err := p.ProcessOperation(pc, op); err != nil {
		return err
	}
	for _, param := range op.Parameters {
		if err := pc.Push(KindParameter, param, "name"); err != nil {
			return err
		}
		err := p.ProcessParameter(pc, param)
		pc.Pop()
		if err != nil {
			return err
		}
	}
	for _, resp := range op.ErrorResponses {
		if err := pc.Push(KindErrorResponse, resp, "code"); err != nil {
			return err
		}
		err := p.ProcessErrorResponse(pc, resp)
		pc.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func walkModel(pc *ParsingContext, model *Model, p Processor) error {
	if err := pc.Push(KindModel, model, "id"); err != nil {
		return err
	}
	defer pc.Pop()

	if err := p.ProcessModel(pc, model); err != nil {
		return err
	}
	for _, prop := range model.Properties.Values() {
		if err := pc.Push(KindProperty, prop, "name"); err != nil {
			return err
		}
		err := p.ProcessProperty(pc, prop)
		pc.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}
