package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Document is a navigation definition as written in YAML:
//
//	routes:
//	  - kind: inbox
//	  - kind: message
//	    scope: mail
//	    params: {id: int}
//	root:
//	  stack:
//	    key: root
//	    children:
//	      - panes:
//	          key: mail
//	          scope: mail
//	          panes:
//	            primary:
//	              content:
//	                stack:
//	                  key: list
//	                  children:
//	                    - screen: {kind: inbox}
type Document struct {
	Routes []RouteDef `yaml:"routes"`
	Root   NodeDef    `yaml:"root"`
}

// RouteDef declares a destination kind.
type RouteDef struct {
	Kind   string `yaml:"kind"`
	Path   string `yaml:"path,omitempty"`
	Scope  string `yaml:"scope,omitempty"`
	Params Schema `yaml:"params,omitempty"`
}

// NodeDef holds exactly one node variant.
type NodeDef struct {
	Screen *ScreenDef `yaml:"screen,omitempty"`
	Stack  *StackDef  `yaml:"stack,omitempty"`
	Tabs   *TabsDef   `yaml:"tabs,omitempty"`
	Panes  *PanesDef  `yaml:"panes,omitempty"`
}

// ScreenDef is a leaf. An empty key is generated from the kind. The key names
// the screen within the definition; navigators built by the engine give each
// screen its own instance key (see navtree.Rekey).
type ScreenDef struct {
	Key        string             `yaml:"key,omitempty"`
	Kind       string             `yaml:"kind"`
	Data       map[string]any     `yaml:"data,omitempty"`
	Transition *domain.Transition `yaml:"transition,omitempty"`
}

type StackDef struct {
	Key      string    `yaml:"key"`
	Children []NodeDef `yaml:"children,omitempty"`
}

type TabsDef struct {
	Key     string   `yaml:"key"`
	Scope   string   `yaml:"scope,omitempty"`
	Active  string   `yaml:"active,omitempty"`
	Initial string   `yaml:"initial,omitempty"`
	Tabs    []TabDef `yaml:"tabs"`
}

type TabDef struct {
	ID   string  `yaml:"id"`
	Root NodeDef `yaml:"root"`
}

// PanesDef maps role names (primary, supporting, extra) to panes.
// Back takes the BackBehavior names, e.g. "pop_latest".
type PanesDef struct {
	Key    string             `yaml:"key"`
	Scope  string             `yaml:"scope,omitempty"`
	Active string             `yaml:"active,omitempty"`
	Back   string             `yaml:"back,omitempty"`
	Panes  map[string]PaneDef `yaml:"panes"`
}

type PaneDef struct {
	Adapt   string  `yaml:"adapt,omitempty"`
	Content NodeDef `yaml:"content"`
}

// ErrEmptyDocument is returned when a definition has no content.
var ErrEmptyDocument = errors.New("empty navigation definition")

// Parse decodes a YAML definition. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	return &doc, nil
}

// Load reads and parses a definition file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
