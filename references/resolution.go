package references

import (
	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"github.com/speakeasy-api/openapi-stubgen/errors"
)

const (
	// ErrEmptyReference is returned for a reference with no component name.
	ErrEmptyReference = errors.Error("reference is empty")
	// ErrNoRegistry is returned when the document has no components.schemas registry.
	ErrNoRegistry = errors.Error("no schema registry")
	// ErrSchemaNotFound is returned when the registry has no entry with the referenced name.
	ErrSchemaNotFound = errors.Error("schema not found")
	// ErrChainedReference is returned when the referenced schema is itself a reference.
	ErrChainedReference = errors.Error("schema resolves to another reference")
)

// ResolveSchema returns the registry entry named by ref.
//
// Resolution is a single hop: an entry that is itself a $ref (including one pointing back at
// itself) is not followed and ErrChainedReference is returned instead.
// Every error is recoverable; callers treat the schema as unknown.
func ResolveSchema(ref Reference, registry *apidoc.Components) (*apidoc.Schema, error) {
	name := ref.ComponentName()
	if name == "" {
		return nil, ErrEmptyReference.Wrapf("%q", ref)
	}
	if registry == nil || registry.Schemas == nil {
		return nil, ErrNoRegistry.Wrapf("resolving %q", ref)
	}

	schema, ok := registry.LookupSchema(name)
	if !ok {
		return nil, ErrSchemaNotFound.Wrapf("%q", name)
	}
	if schema.IsReference() {
		return nil, ErrChainedReference.Wrapf("%q -> %q", ref, *schema.Ref)
	}

	return schema, nil
}
