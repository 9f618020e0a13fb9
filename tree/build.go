// Package tree maps the paths of a document onto a nested tree of generated modules.
package tree

import (
	"context"
	"log/slog"

	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"github.com/speakeasy-api/openapi-stubgen/render"
	"github.com/speakeasy-api/openapi-stubgen/sequencedmap"
)

// OperationRenderer renders one operation into stub text.
type OperationRenderer interface {
	Render(op render.Operation) (string, error)
}

// Tree is the result of Build: one artifact per path plus the root aggregator.
type Tree struct {
	// Artifacts holds one artifact per path, in path order.
	Artifacts []*Artifact
	// Index is the root aggregator.
	Index *Artifact
}

// All returns the per-path artifacts followed by the aggregator, the order they are written in.
func (t *Tree) All() []*Artifact {
	all := make([]*Artifact, 0, len(t.Artifacts)+1)
	all = append(all, t.Artifacts...)
	return append(all, t.Index)
}

// Build renders every operation of doc into the module tree.
//
// Paths are visited in ascending order and the methods of a path in ascending name order.
// A GET stub replaces whatever the path's artifact already holds while every other method
// is appended, so with "delete", "get" and "post" defined only the GET and POST stubs remain.
func Build(ctx context.Context, doc *apidoc.Document, r OperationRenderer, logger *slog.Logger) (*Tree, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := &Tree{}
	agg := &Aggregator{}

	for pathTemplate, item := range sequencedmap.AllSorted(doc.Paths) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sanitized := SanitizeAll(Split(pathTemplate))
		artifact := NewArtifact(pathTemplate, sanitized)

		for _, method := range item.Methods() {
			stub, err := r.Render(render.NewOperation(method, pathTemplate, item.GetOperation(method)))
			if err != nil {
				return nil, err
			}

			if method == apidoc.MethodGet {
				artifact.Replace(stub)
			} else {
				artifact.Append(stub)
			}
		}

		logger.Debug("rendered path", "path", pathTemplate, "location", artifact.Location(), "methods", item.Methods())

		t.Artifacts = append(t.Artifacts, artifact)
		agg.Add(sanitized)
	}

	t.Index = agg.Artifact()
	return t, nil
}
