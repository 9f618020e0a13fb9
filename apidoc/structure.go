package apidoc

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"github.com/speakeasy-api/openapi-stubgen/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed document.schema.json
var documentSchemaJSON string

var (
	structureOnce      sync.Once
	structureValidator *jsValidator.Schema
	structureInitErr   error
	defaultPrinter     = message.NewPrinter(language.English)
)

func initStructureValidator() {
	structureOnce.Do(func() {
		schemaDoc, err := jsValidator.UnmarshalJSON(strings.NewReader(documentSchemaJSON))
		if err != nil {
			structureInitErr = fmt.Errorf("parsing document schema: %w", err)
			return
		}

		c := jsValidator.NewCompiler()
		if err := c.AddResource("document.schema.json", schemaDoc); err != nil {
			structureInitErr = fmt.Errorf("adding document schema: %w", err)
			return
		}
		structureValidator, structureInitErr = c.Compile("document.schema.json")
	})
}

// validateStructure checks the raw document against the shape the generator understands.
// It returns one error per violation, each naming the offending location.
func validateStructure(root *yaml.Node) ([]error, error) {
	initStructureValidator()
	if structureInitErr != nil {
		return nil, structureInitErr
	}

	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(nodeToJSONValue(root)); err != nil {
		return nil, fmt.Errorf("converting document to json: %w", err)
	}

	instance, err := jsValidator.UnmarshalJSON(buf)
	if err != nil {
		return nil, fmt.Errorf("converting document to json: %w", err)
	}

	err = structureValidator.Validate(instance)
	if err == nil {
		return nil, nil
	}

	var validationErr *jsValidator.ValidationError
	if !errors.As(err, &validationErr) {
		return []error{err}, nil
	}
	return rootCauses(validationErr), nil
}

func rootCauses(err *jsValidator.ValidationError) []error {
	if len(err.Causes) == 0 {
		return []error{newStructureError(err)}
	}

	var errs []error
	for _, cause := range err.Causes {
		errs = append(errs, rootCauses(cause)...)
	}
	return errs
}

// StructureError is a single violation of the accepted document shape.
type StructureError struct {
	// Location is the instance path of the offending value, e.g. ["paths", "/users", "get", "summary"].
	Location []string
	Kind     string
	Message  string
}

func newStructureError(err *jsValidator.ValidationError) *StructureError {
	k := "value"
	switch err.ErrorKind.(type) {
	case *kind.Type:
		k = "type mismatch"
	case *kind.Required:
		k = "missing field"
	}

	return &StructureError{
		Location: err.InstanceLocation,
		Kind:     k,
		Message:  err.ErrorKind.LocalizedString(defaultPrinter),
	}
}

func (e *StructureError) Error() string {
	loc := "document root"
	if len(e.Location) > 0 {
		loc = strings.Join(e.Location, ".")
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, loc, e.Message)
}

// nodeToJSONValue converts a YAML node into the generic values encoding/json understands.
// Mapping keys are always rendered as strings.
func nodeToJSONValue(n *yaml.Node) any {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return nodeToJSONValue(n.Content[0])
	case yaml.AliasNode:
		return nodeToJSONValue(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out[n.Content[i].Value] = nodeToJSONValue(n.Content[i+1])
		}
		return out
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			out = append(out, nodeToJSONValue(c))
		}
		return out
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return n.Value
		}
		switch tv := v.(type) {
		case float64:
			if math.IsNaN(tv) || math.IsInf(tv, 0) {
				return n.Value
			}
			return tv
		case nil, bool, string, int, int64, uint64:
			return v
		default:
			// timestamps, binary and other tagged scalars keep their source text
			return n.Value
		}
	default:
		return nil
	}
}
