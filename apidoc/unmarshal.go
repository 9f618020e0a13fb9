package apidoc

import (
	"context"
	"fmt"
	"io"

	"github.com/speakeasy-api/openapi-stubgen/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ErrEmptyDocument is returned when the input holds no YAML document.
	ErrEmptyDocument = errors.Error("document is empty")
	// ErrInvalidDocument is returned when the input does not have the expected structure.
	// The cause joins one *StructureError per violation.
	ErrInvalidDocument = errors.Error("document structure is invalid")
	// ErrDecode is returned when the input is not valid YAML or JSON.
	ErrDecode = errors.Error("failed to decode document")
)

// Unmarshal reads an API description in YAML (or JSON) form and returns its model.
//
// Any structural problem is fatal: missing paths, mistyped fields or malformed markup all
// produce an error and no document.
func Unmarshal(ctx context.Context, r io.Reader) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, ErrDecode.Wrap(err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	structureErrs, err := validateStructure(&root)
	if err != nil {
		return nil, err
	}
	if len(structureErrs) > 0 {
		return nil, ErrInvalidDocument.Wrap(errors.Join(structureErrs...))
	}

	doc := &Document{rootNode: &root}
	if err := root.Decode(doc); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	return doc, nil
}
