package spec

import (
	"path"
	"strings"
)

// NameProcessor names each listing api after the file stem of its path, so
// "/api-docs/pets.{format}" becomes "pets".
type NameProcessor struct {
	BaseProcessor
}

func (NameProcessor) ProcessResourceListingAPI(_ *ParsingContext, la *ListingAPI) error {
	la.Name = fileStem(la.Path)
	return nil
}

func fileStem(p string) string {
	base := path.Base(strings.TrimRight(p, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// WebsocketProcessor handles the "upgrade: websocket" extension. Upgrade
// operations are flagged, their api is marked, and they must use GET.
type WebsocketProcessor struct {
	BaseProcessor
}

const upgradeWebsocket = "websocket"

// ProcessOperation flags upgrade operations and marks the enclosing api.
// API.HasWebsocket is false as its zero value, so no api hook is needed.
func (WebsocketProcessor) ProcessOperation(pc *ParsingContext, op *Operation) error {
	op.IsWebsocket = op.Upgrade == upgradeWebsocket
	if !op.IsWebsocket {
		return nil
	}
	if api := pc.API(); api != nil {
		api.HasWebsocket = true
	}
	if op.HTTPMethod != "GET" {
		return pc.Errorf("upgrade: websocket is only valid on GET operations")
	}
	return nil
}

// FlatteningProcessor exposes the models and properties mappings as ordered
// lists. The mappings are kept.
type FlatteningProcessor struct {
	BaseProcessor
}

func (FlatteningProcessor) ProcessAPIDeclaration(_ *ParsingContext, decl *APIDeclaration) error {
	decl.ModelList = decl.Models.Values()
	return nil
}

func (FlatteningProcessor) ProcessModel(_ *ParsingContext, model *Model) error {
	model.PropertyList = model.Properties.Values()
	return nil
}

// DefaultProcessors returns the chain used to build a client: websocket
// validation, resource naming and flattening.
func DefaultProcessors() []Processor {
	return []Processor{WebsocketProcessor{}, NameProcessor{}, FlatteningProcessor{}}
}
