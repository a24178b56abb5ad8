// Package ingest loads topology documents from JSON, YAML and TOML files.
//
// All three formats share one shape:
//
//	nodes: [{id, label, x, y, mass, anchor, properties}]
//	edges: [{source, target, label, properties}]
//
// Coordinates are optional, but x and y come together; nodes without them
// are left for the layout to place. Unknown keys are rejected in every format.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/TFMV/forcegraph/models"
)

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a graph representation
	ProcessData(data []byte) (*models.Graph, error)

	// GetName returns the name of the processor
	GetName() string
}

type document struct {
	Name   string         `json:"name" yaml:"name" toml:"name"`
	Width  float64        `json:"width" yaml:"width" toml:"width"`
	Height float64        `json:"height" yaml:"height" toml:"height"`
	Nodes  []nodeDocument `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges  []edgeDocument `json:"edges" yaml:"edges" toml:"edges"`
}

type nodeDocument struct {
	ID         string         `json:"id" yaml:"id" toml:"id"`
	Label      string         `json:"label" yaml:"label" toml:"label"`
	X          *float64       `json:"x" yaml:"x" toml:"x"`
	Y          *float64       `json:"y" yaml:"y" toml:"y"`
	Mass       float64        `json:"mass" yaml:"mass" toml:"mass"`
	Anchor     bool           `json:"anchor" yaml:"anchor" toml:"anchor"`
	Properties map[string]any `json:"properties" yaml:"properties" toml:"properties"`
}

type edgeDocument struct {
	Source     string         `json:"source" yaml:"source" toml:"source"`
	Target     string         `json:"target" yaml:"target" toml:"target"`
	Label      string         `json:"label" yaml:"label" toml:"label"`
	Properties map[string]any `json:"properties" yaml:"properties" toml:"properties"`
}

// JSONProcessor handles JSON data
type JSONProcessor struct{}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data
func (p *JSONProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return build(doc, "JSON Import")
}

// YAMLProcessor handles YAML data
type YAMLProcessor struct{}

// GetName returns the name of the processor
func (p *YAMLProcessor) GetName() string {
	return "YAML Processor"
}

// ProcessData processes YAML data
func (p *YAMLProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	return build(doc, "YAML Import")
}

// TOMLProcessor handles TOML data
type TOMLProcessor struct{}

// GetName returns the name of the processor
func (p *TOMLProcessor) GetName() string {
	return "TOML Processor"
}

// ProcessData processes TOML data
func (p *TOMLProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("error parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("error parsing TOML: unknown keys %v", undecoded)
	}
	return build(doc, "TOML Import")
}

// ProcessorFor returns the processor for a file extension.
func ProcessorFor(path string) (DataProcessor, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return &JSONProcessor{}, nil
	case ".yaml", ".yml":
		return &YAMLProcessor{}, nil
	case ".toml":
		return &TOMLProcessor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// LoadFile reads a topology file, choosing the processor by extension.
func LoadFile(path string) (*models.Graph, error) {
	processor, err := ProcessorFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	g, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return g, nil
}

func build(doc document, defaultName string) (*models.Graph, error) {
	name := doc.Name
	if name == "" {
		name = defaultName
	}
	g := models.NewGraph(name)
	if doc.Width > 0 && doc.Height > 0 {
		g.SetDimensions(doc.Width, doc.Height)
	}

	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d has no id", i)
		}
		if _, err := g.FindNodeByID(n.ID); err == nil {
			return nil, fmt.Errorf("duplicate node id: %s", n.ID)
		}
		if n.Mass < 0 {
			return nil, fmt.Errorf("node %s has negative mass", n.ID)
		}

		if (n.X == nil) != (n.Y == nil) {
			return nil, fmt.Errorf("node %s needs both x and y", n.ID)
		}

		node := models.NewNode(n.ID, n.Label)
		if n.X != nil {
			node.SetPosition(*n.X, *n.Y)
		}
		node.Mass = n.Mass
		node.Anchor = n.Anchor
		node.Properties = n.Properties
		if err := g.AddNode(node); err != nil {
			return nil, err
		}
	}

	for _, e := range doc.Edges {
		edge := models.NewEdge(e.Source, e.Target, e.Label)
		edge.Properties = e.Properties
		if err := g.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("edge references non-existent node: %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	return g, nil
}
