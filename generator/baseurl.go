package generator

import (
	"fmt"

	"github.com/speakeasy-api/jsonpath/pkg/jsonpath"
	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"gopkg.in/yaml.v3"
)

// lookupBaseURL evaluates expr against the document and returns the first string scalar matched.
// ok is false when nothing usable matched.
func lookupBaseURL(doc *apidoc.Document, expr string) (url string, ok bool, err error) {
	p, err := jsonpath.NewPath(expr)
	if err != nil {
		return "", false, fmt.Errorf("invalid base URL expression %q: %w", expr, err)
	}

	root := doc.GetRootNode()
	if root == nil {
		return "", false, nil
	}

	for _, n := range p.Query(root) {
		if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" && n.Value != "" {
			return n.Value, true, nil
		}
	}
	return "", false, nil
}
