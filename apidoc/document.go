// Package apidoc holds the in-memory model of an API description document.
//
// Only the subset needed to generate client stubs is modelled: paths, their operations,
// JSON request bodies and the reusable schemas under components. Everything else in the
// source document is ignored. Values are read-only once Unmarshal returns.
package apidoc

import (
	"fmt"
	"slices"

	"github.com/speakeasy-api/openapi-stubgen/sequencedmap"
	"gopkg.in/yaml.v3"
)

// MediaTypeJSON is the only request body media type consulted when documenting bodies.
const MediaTypeJSON = "application/json"

// HTTP method names recognised as operations within a path item.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

var knownMethods = []string{MethodDelete, MethodGet, MethodHead, MethodOptions, MethodPatch, MethodPost, MethodPut, MethodTrace}

// IsMethod reports whether name is a lowercase HTTP method that can hold an operation.
func IsMethod(name string) bool {
	return slices.Contains(knownMethods, name)
}

// Document is the root of a parsed API description.
type Document struct {
	Paths      *sequencedmap.Map[string, *PathItem] `yaml:"paths"`
	Components *Components                          `yaml:"components,omitempty"`

	rootNode *yaml.Node
}

// GetRootNode returns the YAML document node the model was decoded from.
func (d *Document) GetRootNode() *yaml.Node {
	if d == nil {
		return nil
	}
	return d.rootNode
}

// GetComponents returns the component registry, which may be nil.
func (d *Document) GetComponents() *Components {
	if d == nil {
		return nil
	}
	return d.Components
}

// Components is the registry of reusable definitions.
type Components struct {
	Schemas *sequencedmap.Map[string, *Schema] `yaml:"schemas,omitempty"`
}

// LookupSchema returns the schema registered under name. nil safe.
func (c *Components) LookupSchema(name string) (*Schema, bool) {
	if c == nil || c.Schemas == nil {
		return nil, false
	}
	s, ok := c.Schemas.Get(name)
	return s, ok && s != nil
}

// PathItem maps lowercase HTTP method names to the operations defined for one path template.
type PathItem struct {
	operations map[string]*Operation
}

// NewPathItem builds a path item from method/operation pairs, mainly for tests and programmatic use.
func NewPathItem(ops map[string]*Operation) *PathItem {
	p := &PathItem{operations: make(map[string]*Operation, len(ops))}
	for m, op := range ops {
		p.operations[m] = op
	}
	return p
}

// Methods returns the defined method names in lexicographic order.
func (p *PathItem) Methods() []string {
	if p == nil {
		return nil
	}
	methods := make([]string, 0, len(p.operations))
	for m := range p.operations {
		methods = append(methods, m)
	}
	slices.Sort(methods)
	return methods
}

// GetOperation returns the operation for method, or nil.
func (p *PathItem) GetOperation(method string) *Operation {
	if p == nil {
		return nil
	}
	return p.operations[method]
}

// UnmarshalYAML decodes the HTTP method entries of a path item and skips every other key.
func (p *PathItem) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode && value.Alias != nil {
		value = value.Alias
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: path item must be a mapping", value.Line)
	}

	p.operations = make(map[string]*Operation)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		if !IsMethod(key) {
			continue
		}

		op := &Operation{}
		if err := value.Content[i+1].Decode(op); err != nil {
			return fmt.Errorf("operation %s: %w", key, err)
		}
		p.operations[key] = op
	}

	return nil
}

// Operation is one HTTP method's behaviour at a path.
type Operation struct {
	Summary     *string      `yaml:"summary,omitempty"`
	RequestBody *RequestBody `yaml:"requestBody,omitempty"`
}

// RequestBody maps media type names to their description.
type RequestBody struct {
	Content *sequencedmap.Map[string, *MediaType] `yaml:"content"`
}

// GetJSONSchema returns the schema of the application/json media type, or nil.
func (r *RequestBody) GetJSONSchema() *Schema {
	if r == nil {
		return nil
	}
	mt, ok := r.Content.Get(MediaTypeJSON)
	if !ok || mt == nil {
		return nil
	}
	return mt.Schema
}

// MediaType describes one representation of a request body.
type MediaType struct {
	Schema *Schema `yaml:"schema,omitempty"`
}

// Schema is a schema node. The same record is used at every depth: a request body schema,
// a registry entry, a property, an array item and a oneOf alternative.
// Well-formed input populates one of Type, Ref, Items or OneOf, but any combination is accepted.
type Schema struct {
	Type       *string                            `yaml:"type,omitempty"`
	Format     *string                            `yaml:"format,omitempty"`
	Ref        *string                            `yaml:"$ref,omitempty"`
	Properties *sequencedmap.Map[string, *Schema] `yaml:"properties,omitempty"`
	Items      *Schema                            `yaml:"items,omitempty"`
	OneOf      []*Schema                          `yaml:"oneOf,omitempty"`
	Enum       []any                              `yaml:"enum,omitempty"`
}

// IsReference reports whether the schema carries a $ref.
func (s *Schema) IsReference() bool {
	return s != nil && s.Ref != nil
}
