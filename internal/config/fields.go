package config

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is one configuration key with its YAML-rendered value.
type Field struct {
	Key   string
	Value string
}

// Fields lists the keys of cfg in declaration order.
func Fields(cfg Config) ([]Field, error) {
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return nil, err
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("unexpected yaml node kind %v", node.Kind)
	}
	fields := make([]Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		value := v.Value
		if v.Kind != yaml.ScalarNode {
			v.Style = yaml.FlowStyle
			out, err := yaml.Marshal(v)
			if err != nil {
				return nil, err
			}
			value = strings.TrimSpace(string(out))
		}
		fields = append(fields, Field{Key: k.Value, Value: value})
	}
	return fields, nil
}

// Keys lists every recognized configuration key.
func Keys() []string {
	fields, _ := Fields(Default())
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// Set parses value as YAML into the field named key and validates the result.
// cfg is returned unchanged on error.
func Set(cfg Config, key, value string) (Config, error) {
	if !slices.Contains(Keys(), key) {
		return cfg, fmt.Errorf("unknown setting %q", key)
	}
	out := cfg
	out.Extensions = slices.Clone(cfg.Extensions)
	v := valueNode(value)
	doc := yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &v},
	}
	if err := doc.Decode(&out); err != nil {
		return cfg, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := Validate(out); err != nil {
		return cfg, err
	}
	return out, nil
}

// valueNode parses value as a YAML fragment, falling back to a plain string.
func valueNode(value string) yaml.Node {
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(value), &n); err == nil && len(n.Content) == 1 {
		return *n.Content[0]
	}
	return yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
