// Package robotdoc reads and writes records documents and builds registries
// from them.
package robotdoc

import (
	"fmt"

	"robo-tools/cmd/robolib/robots"

	"gopkg.in/yaml.v3"
)

// Document is the Go-level representation of a parsed records document.
//
// The persisted form is JSON. Hand-written YAML record files load the same
// way; both are checked against one node tree.
type Document struct {
	Description string
	Records     []robots.RawRobot
}

// SchemaError reports a document that is malformed or has a missing or
// mistyped field. It matches robots.ErrSchema with errors.Is.
type SchemaError struct {
	Path string
	Msg  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("phase=parse path=%s: %s", e.Path, e.Msg)
}

func (e *SchemaError) Unwrap() error { return robots.ErrSchema }

func schemaErr(path, format string, args ...any) error {
	return &SchemaError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// ---- Parse -----------------------------------------------------------------

// Parse parses a records document. Field presence and scalar types are checked
// here; semantic rules (key/name agreement, axes, bounds) are left to
// robots.Build.
func Parse(in []byte) (Document, error) {
	root, err := parseRoot(in)
	if err != nil {
		return Document{}, err
	}
	if root.Kind != yaml.MappingNode {
		return Document{}, schemaErr("<doc>", "document must be a mapping, got %s", kindName(root))
	}

	fields, err := mappingFields(root, "<doc>")
	if err != nil {
		return Document{}, err
	}

	var doc Document
	if n, ok := fields["description"]; ok && !isNull(n) {
		if doc.Description, err = scalarString(n, "description"); err != nil {
			return Document{}, err
		}
	}

	recordsNode, ok := fields["records"]
	if !ok {
		return Document{}, schemaErr("records", "missing required field")
	}
	recordsNode = resolve(recordsNode)
	if recordsNode.Kind != yaml.MappingNode {
		return Document{}, schemaErr("records", "must be a mapping, got %s", kindName(recordsNode))
	}

	for i := 0; i+1 < len(recordsNode.Content); i += 2 {
		key := recordsNode.Content[i].Value
		rec, err := decodeRecord(key, recordsNode.Content[i+1])
		if err != nil {
			return Document{}, err
		}
		doc.Records = append(doc.Records, rec)
	}
	return doc, nil
}

// parseRoot returns the top-level node of in. JSON input is read with
// encoding/json, since yaml.v3 rejects some legal JSON (the `\/` escape, keys
// over 1024 bytes). Anything else, including YAML flow mappings that are not
// valid JSON, goes through yaml.v3.
func parseRoot(in []byte) (*yaml.Node, error) {
	var jsonErr error
	if looksLikeJSON(in) {
		root, err := decodeJSON(in)
		if err == nil {
			return root, nil
		}
		jsonErr = err
	}

	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		if jsonErr != nil {
			err = jsonErr
		}
		return nil, schemaErr("<doc>", "malformed document: %v", err)
	}
	if len(docNode.Content) == 0 {
		return nil, schemaErr("<doc>", "empty document")
	}
	return resolve(docNode.Content[0]), nil
}

// decodeRecord converts one entry of the `records` mapping.
func decodeRecord(key string, node *yaml.Node) (robots.RawRobot, error) {
	path := "records." + key
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return robots.RawRobot{}, schemaErr(path, "record must be a mapping, got %s", kindName(node))
	}
	fields, err := mappingFields(node, path)
	if err != nil {
		return robots.RawRobot{}, err
	}

	r := robots.RawRobot{Key: key}

	nameNode, err := required(fields, path, "name")
	if err != nil {
		return robots.RawRobot{}, err
	}
	if r.Name, err = scalarString(nameNode, path+".name"); err != nil {
		return robots.RawRobot{}, err
	}

	immovableNode, err := required(fields, path, "immovable")
	if err != nil {
		return robots.RawRobot{}, err
	}
	if r.Immovable, err = scalarBool(immovableNode, path+".immovable"); err != nil {
		return robots.RawRobot{}, err
	}

	urlsNode, err := required(fields, path, "urls")
	if err != nil {
		return robots.RawRobot{}, err
	}
	if r.URLs, err = stringMap(urlsNode, path+".urls"); err != nil {
		return robots.RawRobot{}, err
	}

	if n, ok := fields["source"]; ok && !isNull(n) {
		if r.Source, err = scalarString(n, path+".source"); err != nil {
			return robots.RawRobot{}, err
		}
	}

	if n, ok := fields["targets"]; ok && !isNull(n) {
		if r.Targets, err = decodeTargets(n, path+".targets"); err != nil {
			return robots.RawRobot{}, err
		}
	}

	if n, ok := fields["ik"]; ok && !isNull(n) {
		if r.IK, err = decodeChains(n, path+".ik"); err != nil {
			return robots.RawRobot{}, err
		}
	}

	return r, nil
}

func decodeTargets(node *yaml.Node, path string) (map[string]robots.RawTarget, error) {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return nil, schemaErr(path, "must be a mapping, got %s", kindName(node))
	}
	out := make(map[string]robots.RawTarget, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		joint := node.Content[i].Value
		tpath := path + "." + joint
		tn := resolve(node.Content[i+1])
		if tn.Kind != yaml.MappingNode {
			return nil, schemaErr(tpath, "target must be a mapping, got %s", kindName(tn))
		}
		fields, err := mappingFields(tn, tpath)
		if err != nil {
			return nil, err
		}
		var t robots.RawTarget
		targetNode, err := required(fields, tpath, "target")
		if err != nil {
			return nil, err
		}
		if t.Target, err = scalarNumber(targetNode, tpath+".target"); err != nil {
			return nil, err
		}
		if n, ok := fields["type"]; ok && !isNull(n) {
			if t.Type, err = scalarString(n, tpath+".type"); err != nil {
				return nil, err
			}
		}
		out[joint] = t
	}
	return out, nil
}

// decodeChains keeps an explicit empty chain (`[]`) as a non-nil empty slice
// so that robots.Build can reject it.
func decodeChains(node *yaml.Node, path string) ([][]robots.RawJoint, error) {
	node = resolve(node)
	if node.Kind != yaml.SequenceNode {
		return nil, schemaErr(path, "must be a sequence of chains, got %s", kindName(node))
	}
	chains := make([][]robots.RawJoint, 0, len(node.Content))
	for ci, cn := range node.Content {
		cpath := fmt.Sprintf("%s[%d]", path, ci)
		cn = resolve(cn)
		if cn.Kind != yaml.SequenceNode {
			return nil, schemaErr(cpath, "chain must be a sequence of joints, got %s", kindName(cn))
		}
		chain := make([]robots.RawJoint, 0, len(cn.Content))
		for ji, jn := range cn.Content {
			j, err := decodeJoint(jn, fmt.Sprintf("%s[%d]", cpath, ji))
			if err != nil {
				return nil, err
			}
			chain = append(chain, j)
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

func decodeJoint(node *yaml.Node, path string) (robots.RawJoint, error) {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return robots.RawJoint{}, schemaErr(path, "joint must be a mapping, got %s", kindName(node))
	}
	fields, err := mappingFields(node, path)
	if err != nil {
		return robots.RawJoint{}, err
	}

	var j robots.RawJoint
	n, err := required(fields, path, "name")
	if err != nil {
		return robots.RawJoint{}, err
	}
	if j.Name, err = scalarString(n, path+".name"); err != nil {
		return robots.RawJoint{}, err
	}

	if n, err = required(fields, path, "bounds"); err != nil {
		return robots.RawJoint{}, err
	}
	if j.Bounds, err = decodeBounds(n, path+".bounds"); err != nil {
		return robots.RawJoint{}, err
	}

	if n, err = required(fields, path, "orientation"); err != nil {
		return robots.RawJoint{}, err
	}
	if j.Orientation, err = numberList(n, path+".orientation"); err != nil {
		return robots.RawJoint{}, err
	}

	if n, err = required(fields, path, "translation_vector"); err != nil {
		return robots.RawJoint{}, err
	}
	if j.Translation, err = numberList(n, path+".translation_vector"); err != nil {
		return robots.RawJoint{}, err
	}

	// rotation must be present; null marks a fixed link. numberList never
	// returns nil, so `[]` stays distinguishable from null.
	if n, err = required(fields, path, "rotation"); err != nil {
		return robots.RawJoint{}, err
	}
	if !isNull(n) {
		if j.Rotation, err = numberList(n, path+".rotation"); err != nil {
			return robots.RawJoint{}, err
		}
	}
	return j, nil
}

func decodeBounds(node *yaml.Node, path string) ([2]*float64, error) {
	var out [2]*float64
	node = resolve(node)
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return out, schemaErr(path, "must be a [min, max] pair")
	}
	for i, item := range node.Content {
		if isNull(item) {
			continue
		}
		v, err := scalarNumber(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return out, err
		}
		out[i] = &v
	}
	return out, nil
}
