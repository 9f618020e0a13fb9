// Package verify checks generated module trees: every artifact must parse as JavaScript and the
// whole tree must load as a CommonJS module.
package verify

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/speakeasy-api/openapi-stubgen/errors"
	"github.com/speakeasy-api/openapi-stubgen/tree"
	"golang.org/x/sync/errgroup"
)

const (
	// ErrSyntax is returned when an artifact does not parse. The cause joins one *SyntaxError per problem.
	ErrSyntax = errors.Error("generated module has syntax errors")
	// ErrLoad is returned when the module tree fails to load or a stub fails to run.
	ErrLoad = errors.Error("generated module failed to load")
)

// FileName is the name every artifact is reported under, relative to the module root.
func FileName(a *tree.Artifact) string {
	return path.Join(a.Location(), "index.js")
}

// SyntaxError is one parse problem reported by esbuild.
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Text   string
}

var _ error = (*SyntaxError)(nil)

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Text)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Text)
}

// Syntax parses every artifact concurrently and reports all problems found.
func Syntax(ctx context.Context, artifacts []*tree.Artifact) error {
	results := make([][]error, len(artifacts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, a := range artifacts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = parse(FileName(a), a.Content())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var errs []error
	for _, r := range results {
		errs = append(errs, r...)
	}
	if len(errs) > 0 {
		return ErrSyntax.Wrap(errors.Join(errs...))
	}
	return nil
}

func parse(file, code string) []error {
	result := api.Transform(code, api.TransformOptions{
		Loader:     api.LoaderJS,
		Format:     api.FormatCommonJS,
		Target:     api.ES2020,
		Sourcefile: file,
		LogLevel:   api.LogLevelSilent,
	})

	errs := make([]error, 0, len(result.Errors))
	for _, m := range result.Errors {
		se := &SyntaxError{File: file, Text: strings.TrimSpace(m.Text)}
		if m.Location != nil {
			se.Line = m.Location.Line
			se.Column = m.Location.Column
		}
		errs = append(errs, se)
	}
	return errs
}
