package robotdoc

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// resolve follows alias nodes so callers only ever see concrete kinds.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return "null"
		case "!!bool":
			return "boolean"
		case "!!int", "!!float":
			return "number"
		case "!!str":
			return "string"
		}
		return "scalar " + n.ShortTag()
	}
	return fmt.Sprintf("YAML kind %d", n.Kind)
}

func isNull(n *yaml.Node) bool {
	n = resolve(n)
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// mappingFields indexes a mapping node by key. Duplicate keys are rejected
// rather than silently resolved to the last value.
func mappingFields(n *yaml.Node, path string) (map[string]*yaml.Node, error) {
	// MappingNode.Content is a flat list of alternating key / value nodes.
	if len(n.Content)%2 != 0 {
		return nil, schemaErr(path, "malformed mapping: odd number of content nodes")
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if _, dup := out[key]; dup {
			return nil, schemaErr(path, "duplicate key %q", key)
		}
		out[key] = n.Content[i+1]
	}
	return out, nil
}

func required(fields map[string]*yaml.Node, path, key string) (*yaml.Node, error) {
	n, ok := fields[key]
	if !ok {
		return nil, schemaErr(path+"."+key, "missing required field")
	}
	return resolve(n), nil
}

func scalarString(n *yaml.Node, path string) (string, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", schemaErr(path, "want string, got %s", kindName(n))
	}
	return n.Value, nil
}

func scalarBool(n *yaml.Node, path string) (bool, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return false, schemaErr(path, "want boolean, got %s", kindName(n))
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, schemaErr(path, "%v", err)
	}
	return b, nil
}

func scalarNumber(n *yaml.Node, path string) (float64, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode {
		return 0, schemaErr(path, "want number, got %s", kindName(n))
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, schemaErr(path, "number out of range: %s", n.Value)
		}
		if err == nil {
			return f, nil
		}
		// YAML-only spellings such as 0x1F or .inf.
		if err := n.Decode(&f); err != nil {
			return 0, schemaErr(path, "%v", err)
		}
		return f, nil
	case "!!str":
		// yaml.v3 resolves a plain float that overflows float64 to a string.
		if n.Style == 0 && floatSyntax.MatchString(n.Value) {
			if _, err := strconv.ParseFloat(n.Value, 64); errors.Is(err, strconv.ErrRange) {
				return 0, schemaErr(path, "number out of range: %s", n.Value)
			}
		}
	}
	return 0, schemaErr(path, "want number, got %s", kindName(n))
}

var floatSyntax = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)

func numberList(n *yaml.Node, path string) ([]float64, error) {
	n = resolve(n)
	if n.Kind != yaml.SequenceNode {
		return nil, schemaErr(path, "want sequence of numbers, got %s", kindName(n))
	}
	out := make([]float64, 0, len(n.Content))
	for i, item := range n.Content {
		v, err := scalarNumber(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func stringMap(n *yaml.Node, path string) (map[string]string, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, schemaErr(path, "want mapping, got %s", kindName(n))
	}
	fields, err := mappingFields(n, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		s, err := scalarString(v, path+"."+k)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}
