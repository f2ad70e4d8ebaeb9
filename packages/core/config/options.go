package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Recognized static option names.
const (
	OptionMode            = "mode"
	OptionCassettePath    = "cassettePath"
	OptionRequestMatchers = "requestMatchers"
	OptionWhiteList       = "whiteList"
	OptionBlackList       = "blackList"
)

// KnownOptions lists the recognized option names in documentation order.
var KnownOptions = []string{
	OptionMode,
	OptionCassettePath,
	OptionRequestMatchers,
	OptionWhiteList,
	OptionBlackList,
}

// Option is a single static recorder option.
type Option struct {
	Name  string
	Value any
}

// Options is an ordered list of static recorder options. Order is kept
// from the config file so that options are applied as written.
type Options []Option

// Get returns the value of the last option named name.
func (o Options) Get(name string) (any, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Name == name {
			return o[i].Value, true
		}
	}
	return nil, false
}

// Set replaces the value of name, or appends it if absent.
func (o Options) Set(name string, value any) Options {
	for i := range o {
		if o[i].Name == name {
			o[i].Value = value
			return o
		}
	}
	return append(o, Option{Name: name, Value: value})
}

// Map returns the options as a map. Order is lost.
func (o Options) Map() map[string]any {
	m := make(map[string]any, len(o))
	for _, opt := range o {
		m[opt.Name] = opt.Value
	}
	return m
}

// UnmarshalYAML decodes a mapping node keeping key order.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*o = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping", node.Line)
	}

	result := make(Options, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, valueNode := node.Content[i], node.Content[i+1]
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("line %d: option %q: %w", valueNode.Line, key.Value, err)
		}
		result = append(result, Option{Name: key.Value, Value: value})
	}
	*o = result
	return nil
}

// MarshalYAML encodes the options as a mapping in their current order.
func (o Options) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, opt := range o {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt.Name}
		value := &yaml.Node{}
		if err := value.Encode(opt.Value); err != nil {
			return nil, fmt.Errorf("option %q: %w", opt.Name, err)
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// MarshalJSON encodes the options as a JSON object in their current order.
func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(opt.Value)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", opt.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
