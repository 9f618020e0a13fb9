package tree

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/openapi-stubgen/render"
)

// Aggregator accumulates the root module's export statements in path order.
type Aggregator struct {
	statements []string
}

// Add exposes the module at the sanitized segments through a nested accessor,
// e.g. ["users", "_param_id"] gives module.exports['users']['_param_id'] = require('./users/_param_id');
//
// Keys and the location are escaped as JavaScript string contents.
// Statements are never deduplicated: two templates that sanitize alike both appear, and the later one wins.
func (g *Aggregator) Add(sanitized []string) {
	var accessor strings.Builder
	for _, s := range sanitized {
		accessor.WriteString("['")
		accessor.WriteString(render.EscapeJSString(s))
		accessor.WriteString("']")
	}
	location := render.EscapeJSString(strings.Join(sanitized, Separator))
	g.statements = append(g.statements, fmt.Sprintf("module.exports%s = require('./%s');\n", accessor.String(), location))
}

// Len returns the number of statements added.
func (g *Aggregator) Len() int {
	return len(g.statements)
}

// Artifact returns the root artifact holding every statement.
func (g *Aggregator) Artifact() *Artifact {
	a := NewArtifact("", nil)
	for _, s := range g.statements {
		a.Append(s)
	}
	return a
}
