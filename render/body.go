package render

import (
	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"github.com/speakeasy-api/openapi-stubgen/references"
	"github.com/speakeasy-api/openapi-stubgen/sequencedmap"
	"github.com/speakeasy-api/openapi-stubgen/typesummary"
)

// PropertyDoc is one documented body property.
type PropertyDoc struct {
	Name string
	Type string
}

// BodyDoc documents the properties of the operation's JSON request body in key order.
//
// The effective schema is the JSON media type's schema, or the registry entry it references.
// A reference that cannot be resolved yields no properties; this is logged, never returned.
func (r *Renderer) BodyDoc(op Operation) []PropertyDoc {
	schema := r.effectiveSchema(op)
	if schema == nil {
		return nil
	}

	docs := make([]PropertyDoc, 0, schema.Properties.Len())
	for name, prop := range sequencedmap.AllSorted(schema.Properties) {
		docs = append(docs, PropertyDoc{
			Name: oneLine(name),
			Type: oneLine(typesummary.Summarize(prop)),
		})
	}
	return docs
}

func (r *Renderer) effectiveSchema(op Operation) *apidoc.Schema {
	if op.RequestBody == nil {
		return nil
	}

	schema := op.RequestBody.GetJSONSchema()
	if schema == nil {
		r.logger.Debug("request body has no application/json schema", "method", op.Method, "path", op.Path)
		return nil
	}
	if !schema.IsReference() {
		return schema
	}

	resolved, err := references.ResolveSchema(references.Reference(*schema.Ref), r.registry)
	if err != nil {
		r.logger.Debug("request body reference not resolved",
			"method", op.Method,
			"path", op.Path,
			"ref", *schema.Ref,
			"error", err)
		return nil
	}
	return resolved
}
