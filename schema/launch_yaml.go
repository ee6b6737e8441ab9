package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either a plain item sequence or a mapping with
// banner and items, so older documents keep working.
func (m *MenuDefinition) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		m.Banner = nil
		return value.Decode(&m.Items)
	case yaml.MappingNode:
		var full struct {
			Banner []string    `yaml:"banner"`
			Items  []MenuEntry `yaml:"items"`
		}
		if err := value.Decode(&full); err != nil {
			return err
		}
		m.Banner = full.Banner
		m.Items = full.Items
		return nil
	default:
		return fmt.Errorf("menu must be a sequence or mapping, got %s", value.Tag)
	}
}

// UnmarshalYAML accepts either a generator name (a bare string such as
// "blank" or "games") or a key/title/action mapping.
func (e *MenuEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		e.Generator = name
		e.Item = MenuItem{}
		return nil
	case yaml.MappingNode:
		e.Generator = ""
		return value.Decode(&e.Item)
	default:
		return fmt.Errorf("menu entry must be a string or mapping, got %s", value.Tag)
	}
}
