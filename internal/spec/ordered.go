package spec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Models is the models mapping of an API declaration. Keys keep document order.
type Models struct {
	keys   []string
	values map[string]*Model
}

// NewModels builds a Models mapping from models, keyed by their ID, in the given order.
func NewModels(models ...*Model) *Models {
	m := &Models{}
	for _, model := range models {
		m.Set(model.ID, model)
	}
	return m
}

// Set adds or replaces a model. Replacing keeps the original position.
func (m *Models) Set(name string, model *Model) {
	if m.values == nil {
		m.values = make(map[string]*Model)
	}
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = model
}

// Get returns the model stored under name.
func (m *Models) Get(name string) (*Model, bool) {
	if m == nil {
		return nil, false
	}
	model, ok := m.values[name]
	return model, ok
}

// Keys returns model names in document order.
func (m *Models) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Values returns the models in document order.
func (m *Models) Values() []*Model {
	if m == nil {
		return nil
	}
	out := make([]*Model, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// Len returns the number of models.
func (m *Models) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// UnmarshalYAML decodes a mapping, keeping key order. A model without an id
// takes its mapping key.
func (m *Models) UnmarshalYAML(node *yaml.Node) error {
	return decodeOrdered(node, "models", func(key string, value *yaml.Node) error {
		var model Model
		if err := value.Decode(&model); err != nil {
			return err
		}
		if model.ID == "" {
			model.ID = key
		}
		m.Set(key, &model)
		return nil
	})
}

// Properties is the properties mapping of a model. Keys keep document order.
type Properties struct {
	keys   []string
	values map[string]*Property
}

// NewProperties builds a Properties mapping keyed by property name.
func NewProperties(props ...*Property) *Properties {
	p := &Properties{}
	for _, prop := range props {
		p.Set(prop.Name, prop)
	}
	return p
}

// Set adds or replaces a property. Replacing keeps the original position.
func (p *Properties) Set(name string, prop *Property) {
	if p.values == nil {
		p.values = make(map[string]*Property)
	}
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = prop
}

// Get returns the property stored under name.
func (p *Properties) Get(name string) (*Property, bool) {
	if p == nil {
		return nil, false
	}
	prop, ok := p.values[name]
	return prop, ok
}

// Keys returns property names in document order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Values returns the properties in document order.
func (p *Properties) Values() []*Property {
	if p == nil {
		return nil
	}
	out := make([]*Property, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, p.values[k])
	}
	return out
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// UnmarshalYAML decodes a mapping, keeping key order. A property without a
// name takes its mapping key.
func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	return decodeOrdered(node, "properties", func(key string, value *yaml.Node) error {
		var prop Property
		if err := value.Decode(&prop); err != nil {
			return err
		}
		if prop.Name == "" {
			prop.Name = key
		}
		p.Set(key, &prop)
		return nil
	})
}

func decodeOrdered(node *yaml.Node, what string, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", node.Line, what)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return fmt.Errorf("%s[%s]: %w", what, node.Content[i].Value, err)
		}
	}
	return nil
}
