// Package generator runs a complete generation: it loads a document, builds the module tree
// and writes every artifact below <OutDir>/<ModuleName>.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"github.com/speakeasy-api/openapi-stubgen/errors"
	"github.com/speakeasy-api/openapi-stubgen/render"
	"github.com/speakeasy-api/openapi-stubgen/tree"
)

const (
	// ErrOutputDiffers is returned in check mode when any artifact is missing or changed.
	ErrOutputDiffers = errors.Error("generated output differs")
	// ErrMissingInput is returned when the input document cannot be opened.
	ErrMissingInput = errors.Error("input document not found")
	// ErrOutsideRoot is returned when a path template would place a module outside <OutDir>/<ModuleName>.
	ErrOutsideRoot = errors.Error("path escapes the module root")
)

// Result describes a finished run.
type Result struct {
	// Root is the directory holding the aggregator, i.e. <OutDir>/<ModuleName>.
	Root string
	// BaseURL is the origin the stubs were generated against.
	BaseURL string
	// Tree is the generated module tree.
	Tree *tree.Tree
	// Written lists the files written (empty in check mode).
	Written []string
	// Stale lists the files that differ from the generated output (check mode only).
	Stale []string
}

// Generate loads the document described by opts, builds its module tree and writes it out.
// The first failure aborts the run; files already written are left in place.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	doc, err := load(ctx, opts)
	if err != nil {
		return nil, err
	}

	baseURL := opts.defaultBaseURL()
	if opts.BaseURLExpr != "" && !opts.explicitBaseURL() {
		found, ok, err := lookupBaseURL(doc, opts.BaseURLExpr)
		if err != nil {
			return nil, err
		}
		if ok {
			baseURL = found
		} else {
			logger.Warn("base URL expression matched nothing, using default", "expr", opts.BaseURLExpr, "base_url", baseURL)
		}
	}

	renderer := render.NewRenderer(doc.GetComponents(), render.WithBaseURL(baseURL), render.WithLogger(logger))

	t, err := tree.Build(ctx, doc, renderer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build module tree: %w", err)
	}

	res := &Result{
		Root:    filepath.Join(opts.OutDir, opts.ModuleName),
		BaseURL: baseURL,
		Tree:    t,
	}

	files, err := targets(opts, res)
	if err != nil {
		return nil, err
	}

	if opts.Check {
		if err := check(ctx, res, files); err != nil {
			return res, err
		}
		return res, nil
	}

	if err := write(ctx, opts, res, files); err != nil {
		return res, err
	}

	logger.Info("module generated", "root", res.Root, "paths", len(t.Artifacts), "files", len(res.Written))
	return res, nil
}

func load(ctx context.Context, opts Options) (*apidoc.Document, error) {
	r := opts.Input
	if r == nil {
		f, err := opts.FS.Open(filepath.Clean(opts.InputFile))
		if err != nil {
			return nil, ErrMissingInput.Wrap(err)
		}
		defer f.Close()
		r = f
	}

	opts.Logger.Debug("loading document", "input", describeInput(opts))

	doc, err := apidoc.Unmarshal(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", describeInput(opts), err)
	}
	return doc, nil
}

func describeInput(opts Options) string {
	if opts.Input != nil {
		return "stdin"
	}
	return opts.InputFile
}

// target returns the file an artifact is written to.
func target(opts Options, a *tree.Artifact) string {
	return filepath.Join(opts.OutDir, opts.ModuleName, filepath.FromSlash(a.Location()), opts.ArtifactName)
}

// targets returns the file of every artifact, in write order. Nothing is written when any
// of them resolves outside the module root, e.g. for a template such as "/../escape".
func targets(opts Options, res *Result) ([]string, error) {
	all := res.Tree.All()
	files := make([]string, 0, len(all))

	for _, a := range all {
		file := target(opts, a)
		rel, err := filepath.Rel(res.Root, file)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, ErrOutsideRoot.Wrapf("%q resolves to %s", a.Path, file)
		}
		files = append(files, file)
	}

	return files, nil
}

func write(ctx context.Context, opts Options, res *Result, files []string) error {
	if err := opts.FS.MkdirAll(res.Root, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", res.Root, err)
	}

	for i, a := range res.Tree.All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		file := files[i]
		dir := filepath.Dir(file)
		if err := opts.FS.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := opts.FS.WriteFile(file, []byte(a.Content()), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}

		opts.Logger.Debug("artifact written", "location", path.Join(opts.ModuleName, a.Location()), "bytes", len(a.Content()))
		res.Written = append(res.Written, file)
	}

	return nil
}

func check(ctx context.Context, res *Result, files []string) error {
	for i, a := range res.Tree.All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		file := files[i]
		existing, err := opts.FS.ReadFile(file)
		if err != nil || !bytes.Equal(existing, []byte(a.Content())) {
			res.Stale = append(res.Stale, file)
		}
	}

	if len(res.Stale) > 0 {
		return ErrOutputDiffers.Wrapf("%d file(s): %s", len(res.Stale), strings.Join(res.Stale, ", "))
	}
	return nil
}
