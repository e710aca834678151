package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the document version written by Encode.
const CurrentVersion = 1

var (
	// ErrEmptyDocument is returned by Decode when the blob holds no YAML document.
	ErrEmptyDocument = errors.New("empty document")

	// ErrUnsupportedVersion is returned by Decode for documents newer than CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// Encode serializes items as a versioned document.
// Items keep their collection order.
func Encode(items []Item) ([]byte, error) {
	node := buildDocumentNode(items)

	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	return data, nil
}

// Decode parses a stored blob.
// Both the versioned layout and the legacy bare list of items are accepted;
// the latter is reported as version 0. Decode does not check item invariants.
func Decode(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	body := root.Content[0]
	switch body.Kind {
	case yaml.SequenceNode:
		var items []Item
		if err := body.Decode(&items); err != nil {
			return nil, fmt.Errorf("failed to parse legacy item list: %w", err)
		}
		return &Document{Version: 0, Items: items}, nil

	case yaml.MappingNode:
		var doc Document
		if err := body.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
		if doc.Version < 1 {
			return nil, fmt.Errorf("failed to parse document: missing version")
		}
		if doc.Version > CurrentVersion {
			return nil, fmt.Errorf("%w: %d (newest known is %d)", ErrUnsupportedVersion, doc.Version, CurrentVersion)
		}
		return &doc, nil

	default:
		return nil, fmt.Errorf("failed to parse document: unexpected %s at top level", nodeKindName(body.Kind))
	}
}

// buildDocumentNode creates a yaml.Node tree for a versioned document.
func buildDocumentNode(items []Item) *yaml.Node {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	addIntField(doc, "version", CurrentVersion)

	itemsNode := &yaml.Node{Kind: yaml.SequenceNode}
	for _, item := range items {
		itemsNode.Content = append(itemsNode.Content, buildItemNode(&item))
	}
	if len(items) == 0 {
		itemsNode.Style = yaml.FlowStyle
	}
	doc.Content = append(doc.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "items"},
		itemsNode,
	)
	return doc
}

// buildItemNode creates a yaml.Node for an Item.
func buildItemNode(i *Item) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	addStringField(node, "id", i.ID)
	addStringField(node, "name", i.Name)
	addFloatField(node, "price", i.Price)
	addIntField(node, "quantity", i.Quantity)
	addBoolField(node, "purchased", i.Purchased)
	return node
}

// Helper functions for building yaml.Node

func addStringField(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!str"},
	)
}

func addIntField(node *yaml.Node, key string, value int) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.Itoa(value), Tag: "!!int"},
	)
}

// addFloatField writes the shortest decimal that parses back to the same float64.
func addFloatField(node *yaml.Node, key string, value float64) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: formatFloat(value), Tag: "!!float"},
	)
}

func addBoolField(node *yaml.Node, key string, value bool) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatBool(value), Tag: "!!bool"},
	)
}

// formatFloat keeps a decimal point on integral values so the scalar
// resolves as a float without an explicit tag.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "node"
	}
}
