package spec

import (
	"gopkg.in/yaml.v3"
)

// Swagger 1.2 renamed several 1.1 fields. The walk and the client only know the
// 1.1 names, so 1.2 declarations are rewritten before typed decoding.
var (
	operationRenames = map[string]string{
		"method":           "httpMethod",
		"responseMessages": "errorResponses",
	}
	parameterRenames = map[string]string{
		"type": "dataType",
	}
	responseRenames = map[string]string{
		"message": "reason",
	}
)

// rewriteV12 renames Swagger 1.2 keys inside an API declaration node to their
// 1.1 equivalents. A 1.1 key already present wins and the 1.2 key is left as is.
// It reports whether anything was renamed.
func rewriteV12(decl *yaml.Node) bool {
	decl = documentRoot(decl)
	modified := false
	for _, api := range sequenceOf(mappingValue(decl, "apis")) {
		for _, op := range sequenceOf(mappingValue(api, "operations")) {
			if renameKeys(op, operationRenames) {
				modified = true
			}
			for _, p := range sequenceOf(mappingValue(op, "parameters")) {
				if renameKeys(p, parameterRenames) {
					modified = true
				}
			}
			for _, r := range sequenceOf(mappingValue(op, "errorResponses")) {
				if renameKeys(r, responseRenames) {
					modified = true
				}
			}
		}
	}
	return modified
}

func documentRoot(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func sequenceOf(n *yaml.Node) []*yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	return n.Content
}

func renameKeys(n *yaml.Node, renames map[string]string) bool {
	if n == nil || n.Kind != yaml.MappingNode {
		return false
	}
	changed := false
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		to, ok := renames[key.Value]
		if !ok || mappingValue(n, to) != nil {
			continue
		}
		key.Value = to
		changed = true
	}
	return changed
}
