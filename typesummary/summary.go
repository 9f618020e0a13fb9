// Package typesummary derives the one-line type description used in body documentation.
package typesummary

import (
	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"github.com/speakeasy-api/openapi-stubgen/pointer"
)

const (
	// Unknown stands in for a missing primitive type.
	Unknown = "unknown"
	// OneOf is the summary of any union, whatever its alternatives.
	OneOf = "oneOf"
)

// Summarize describes the shape of a schema property. It never fails.
//
// The first matching rule wins:
//
//	format present     "<type> (<format>)", type defaulting to "unknown"
//	$ref present       "ref -> <raw reference>", not resolved
//	oneOf non-empty    "oneOf"
//	items present      "array<<item type>>", only the item's bare type is consulted
//	otherwise          "<type>", or "unknown"
func Summarize(s *apidoc.Schema) string {
	if s == nil {
		return Unknown
	}

	switch {
	case s.Format != nil:
		return primitive(s) + " (" + *s.Format + ")"
	case s.Ref != nil:
		return "ref -> " + *s.Ref
	case len(s.OneOf) > 0:
		return OneOf
	case s.Items != nil:
		return "array<" + primitive(s.Items) + ">"
	default:
		return primitive(s)
	}
}

func primitive(s *apidoc.Schema) string {
	return pointer.ValueOrDefault(s.Type, Unknown)
}
