package message

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Fixture loading errors.
var (
	ErrFileNotFound = errors.New("context file not found")
	ErrEmptyFile    = errors.New("context file is empty")
	ErrInvalidYAML  = errors.New("invalid context YAML")
)

// MarshalYAML encodes c as a mapping with an ordered "properties" mapping and
// an optional "payload" string. Booleans stay booleans; strings that look
// like other scalars are quoted.
func (c *Context) MarshalYAML() (any, error) {
	props := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range c.Properties() {
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Value.Str()}
		if p.Value.Kind() == KindBool {
			val.Tag = "!!bool"
			val.Value = strconv.FormatBool(p.Value.Bool())
		}
		props.Content = append(props.Content, strNode(p.Name), val)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, strNode("properties"), props)
	if len(c.Payload) > 0 {
		root.Content = append(root.Content, strNode("payload"), strNode(string(c.Payload)))
	}
	return root, nil
}

// UnmarshalYAML decodes the format written by MarshalYAML. Scalars tagged
// !!bool become boolean values; every other scalar is kept as its string form.
func (c *Context) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidYAML, node.Line)
	}

	*c = Context{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "properties":
			if err := c.decodeProperties(val); err != nil {
				return err
			}
		case "payload":
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: line %d: payload must be a string", ErrInvalidYAML, val.Line)
			}
			c.Payload = []byte(val.Value)
		default:
			return fmt.Errorf("%w: line %d: unknown field %q", ErrInvalidYAML, key.Line, key.Value)
		}
	}
	return nil
}

func (c *Context) decodeProperties(node *yaml.Node) error {
	if node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: properties must be a mapping", ErrInvalidYAML, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: line %d: property %q must be a scalar", ErrInvalidYAML, val.Line, key.Value)
		}
		switch val.Tag {
		case "!!bool":
			var b bool
			if err := val.Decode(&b); err != nil {
				return fmt.Errorf("%w: property %q: %v", ErrInvalidYAML, key.Value, err)
			}
			c.Set(key.Value, Bool(b))
		case "!!null":
			c.Set(key.Value, String(""))
		default:
			c.Set(key.Value, String(val.Value))
		}
	}
	return nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// ParseContext decodes a Context from YAML.
func ParseContext(data []byte) (*Context, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	c := &Context{}
	if err := yaml.Unmarshal(data, c); err != nil {
		if errors.Is(err, ErrInvalidYAML) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return c, nil
}

// LoadContext reads a Context from a YAML file.
func LoadContext(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return ParseContext(data)
}

// SaveContext writes c to path as YAML using atomic rename.
func SaveContext(path string, c *Context) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
