package config

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// LoadYAML loads rule entries from YAML. source names the document in
// positions and messages.
func LoadYAML(source string, data []byte) (*Result, []error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing YAML: %v", err)}}
	}

	result := &Result{Source: source}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return result, nil
	}

	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, []error{&LoadError{
			Code:    ErrCodeParse,
			Pos:     yamlPos(source, root),
			Message: "rule file must be a mapping with a \"recipes\" key",
		}}
	}

	recipes := lookupNode(root, "recipes")
	if recipes == nil {
		return result, nil
	}
	if recipes.Kind != yaml.MappingNode {
		return nil, []error{&LoadError{Code: ErrCodeParse, Pos: yamlPos(source, recipes), Message: "\"recipes\" must be a mapping"}}
	}

	var errs []error
	seen := make(map[string]bool)
	for i := 0; i+1 < len(recipes.Content); i += 2 {
		key, value := recipes.Content[i], resolve(recipes.Content[i+1])
		id := norm.NFC.String(key.Value)
		pos := yamlPos(source, key)

		if seen[id] {
			errs = append(errs, ruleError(id, pos, "duplicate rule id"))
			continue
		}
		seen[id] = true

		entry, err := yamlRule(source, id, pos, value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Rules = append(result.Rules, entry)
	}
	return result, errs
}

func yamlRule(source, id, pos string, node *yaml.Node) (RuleEntry, error) {
	entry := RuleEntry{ID: id, Pos: pos}
	if node.Kind != yaml.MappingNode {
		return entry, ruleError(id, pos, "rule must be a mapping")
	}

	hasDo := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], resolve(node.Content[i+1])
		keyPos := yamlPos(source, key)

		switch key.Value {
		case KeyWhen:
			block, err := yamlBlock(source, value)
			if err != nil {
				return entry, ruleError(id, keyPos, "when: %v", err)
			}
			entry.When = block
		case KeyExpr:
			if value.Kind != yaml.ScalarNode {
				return entry, ruleError(id, keyPos, "expr must be a string")
			}
			entry.Expr = norm.NFC.String(value.Value)
		case KeyIgnoreRemoved:
			b, err := strconv.ParseBool(value.Value)
			if value.Kind != yaml.ScalarNode || err != nil {
				return entry, ruleError(id, keyPos, "ignore-removed must be true or false, got %q", value.Value)
			}
			entry.IgnoreRemoved = b
		case KeyDo:
			block, err := yamlBlock(source, value)
			if err != nil {
				return entry, ruleError(id, keyPos, "do: %v", err)
			}
			entry.Do = block
			hasDo = true
		default:
			return entry, ruleError(id, keyPos, "unknown key %q", key.Value)
		}
	}
	if !hasDo {
		return entry, ruleError(id, pos, "rule requires a \"do\" block")
	}
	return entry, nil
}

func yamlBlock(source string, node *yaml.Node) (Block, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: expected a mapping", yamlPos(source, node))
	}
	block := make(Block, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], resolve(node.Content[i+1])
		entry := Entry{Key: norm.NFC.String(key.Value), Pos: yamlPos(source, key)}

		switch value.Kind {
		case yaml.ScalarNode:
			if value.Tag == "!!null" {
				entry.Null = true
			} else {
				entry.Text = norm.NFC.String(value.Value)
			}
		case yaml.MappingNode:
			nested, err := yamlBlock(source, value)
			if err != nil {
				return nil, err
			}
			entry.Nested = nested
		default:
			return nil, fmt.Errorf("%s: value of %q must be a scalar or a mapping", entry.Pos, entry.Key)
		}
		block = append(block, entry)
	}
	return block, nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func lookupNode(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return resolve(mapping.Content[i+1])
		}
	}
	return nil
}

func yamlPos(source string, node *yaml.Node) string {
	return fmt.Sprintf("%s:%d:%d", source, node.Line, node.Column)
}
