package spec

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode parses a resource listing. JSON and YAML are both accepted. Inline
// api_declaration objects are decoded too, after Swagger 1.2 keys are
// rewritten to their 1.1 names.
func Decode(data []byte) (*ResourceListing, error) {
	listing, _, err := decodeListing(data)
	return listing, err
}

// DecodeAPIDeclaration parses a single API declaration.
func DecodeAPIDeclaration(data []byte) (*APIDeclaration, error) {
	decl, _, err := decodeDeclaration(data)
	return decl, err
}

// decodeListing is Decode that also reports whether 1.2 keys were rewritten.
func decodeListing(data []byte) (*ResourceListing, bool, error) {
	var listing ResourceListing
	changed, err := decodeDocument(data, &listing, func(root *yaml.Node) bool {
		modified := false
		for _, la := range sequenceOf(mappingValue(root, "apis")) {
			if decl := mappingValue(la, "api_declaration"); decl != nil && rewriteV12(decl) {
				modified = true
			}
		}
		return modified
	})
	if err != nil {
		return nil, false, err
	}
	return &listing, changed, nil
}

func decodeDeclaration(data []byte) (*APIDeclaration, bool, error) {
	var decl APIDeclaration
	changed, err := decodeDocument(data, &decl, rewriteV12)
	if err != nil {
		return nil, false, err
	}
	return &decl, changed, nil
}

func decodeDocument(data []byte, out any, rewrite func(root *yaml.Node) bool) (bool, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse document: %v", err), Cause: err}
	}
	root := documentRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		err := errors.New("document is not an object")
		return false, &SpecError{Code: ParseError, Message: "parse document: " + err.Error(), Cause: err}
	}
	changed := rewrite(root)
	if err := root.Decode(out); err != nil {
		return false, &SpecError{Code: ParseError, Message: fmt.Sprintf("decode document: %v", err), Cause: err}
	}
	return changed, nil
}
