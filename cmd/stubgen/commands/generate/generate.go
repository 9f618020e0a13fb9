package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"github.com/speakeasy-api/openapi-stubgen/cmd/stubgen/commands/cmdutil"
	"github.com/speakeasy-api/openapi-stubgen/errors"
	"github.com/speakeasy-api/openapi-stubgen/generator"
	"github.com/speakeasy-api/openapi-stubgen/render"
	"github.com/speakeasy-api/openapi-stubgen/system"
	"github.com/speakeasy-api/openapi-stubgen/verify"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate a Node.js client module from an API description",
	Long: `Generate a Node.js client module from an API description document.

Every path becomes a directory holding an index.js stub per HTTP method, and a root
index.js exposes all of them through nested properties. The document defaults to
docs.yaml; use '-' to read it from stdin:
  cat docs.yaml | stubgen generate -

With --check nothing is written and the command fails when the output on disk differs
from what would be generated. With --verify the generated module is parsed and loaded
before the command reports success.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGenerate,
}

func init() {
	generateCmd.Flags().StringP("out", "o", generator.DefaultOutDir, "directory the module is generated in")
	generateCmd.Flags().StringP("module", "m", generator.DefaultModuleName, "name of the generated module directory")
	generateCmd.Flags().String("base-url", "", fmt.Sprintf("origin prepended to every path (default %q)", render.DefaultBaseURL))
	generateCmd.Flags().String("base-url-from", "", "JSONPath selecting the base URL from the document, e.g. '$.servers[0].url'")
	generateCmd.Flags().Bool("check", false, "fail if the generated output differs from what is on disk instead of writing it")
	generateCmd.Flags().Bool("verify", false, "parse and load the generated module after generating it")
	generateCmd.Flags().String("log-format", logFormatText, "log output format: text or json")
}

func runGenerate(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	r := &Runner{InputFile: cmdutil.ArgAt(args, 0, generator.DefaultInputFile)}
	r.OutDir, _ = cmd.Flags().GetString("out")
	r.ModuleName, _ = cmd.Flags().GetString("module")
	r.BaseURL, _ = cmd.Flags().GetString("base-url")
	r.BaseURLExpr, _ = cmd.Flags().GetString("base-url-from")
	r.Check, _ = cmd.Flags().GetBool("check")
	r.Verify, _ = cmd.Flags().GetBool("verify")
	r.LogFormat, _ = cmd.Flags().GetString("log-format")
	r.Verbose, _ = cmd.Flags().GetBool("verbose")

	start := time.Now()
	err := r.Run(ctx)
	cmdutil.ReportElapsed(os.Stderr, "Generation", time.Since(start))

	if err != nil {
		cmdutil.Die(err)
	}
}

// Runner carries the settings of one generate invocation.
type Runner struct {
	InputFile   string
	OutDir      string
	ModuleName  string
	BaseURL     string
	BaseURLExpr string
	Check       bool
	Verify      bool
	LogFormat   string
	Verbose     bool

	// Optional overrides for testing; when nil os.Stdin, os.Stdout, os.Stderr and the OS file system are used.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	FS     system.WritableFS
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Run generates (or checks) the module and reports progress on stderr.
func (r *Runner) Run(ctx context.Context) error {
	logger, err := newLogger(r.stderr(), r.LogFormat, r.Verbose)
	if err != nil {
		return err
	}
	p := message.NewPrinter(language.English)

	opts := generator.Options{
		InputFile:   r.InputFile,
		OutDir:      r.OutDir,
		ModuleName:  r.ModuleName,
		BaseURL:     r.BaseURL,
		BaseURLExpr: r.BaseURLExpr,
		Check:       r.Check,
		FS:          r.FS,
		Logger:      logger,
	}

	if cmdutil.IsStdin(r.InputFile) {
		fmt.Fprintf(r.stderr(), "📋 Generating from stdin\n")
		opts.Input = r.stdin()
	} else {
		opts.InputFile = filepath.Clean(r.InputFile)
		fmt.Fprintf(r.stderr(), "📋 Generating from %s\n", opts.InputFile)
	}

	res, err := generator.Generate(ctx, opts)
	switch {
	case errors.Is(err, apidoc.ErrInvalidDocument):
		violations := errors.CollectAs[*apidoc.StructureError](err)
		p.Fprintf(r.stderr(), "❌ Document is invalid - %d errors:\n\n", len(violations))
		fmt.Fprint(r.stderr(), cmdutil.FormatErrors(asErrors(violations)))
		return err
	case errors.Is(err, generator.ErrOutputDiffers):
		p.Fprintf(r.stderr(), "❌ %d generated files are out of date:\n", len(res.Stale))
		for _, f := range res.Stale {
			fmt.Fprintf(r.stderr(), "  - %s\n", f)
		}
		return err
	case err != nil:
		return err
	}

	if r.Check {
		p.Fprintf(r.stderr(), "✅ Generated output is up to date - %d files\n", len(res.Tree.All()))
	} else {
		p.Fprintf(r.stderr(), "✅ Wrote %d files for %d paths\n", len(res.Written), len(res.Tree.Artifacts))
	}

	if r.Verify {
		if err := r.verify(ctx, res, logger, p); err != nil {
			return err
		}
	}

	if !r.Check {
		fmt.Fprintf(r.stdout(), "Node.js module generated in %s/%s\n", r.OutDir, r.ModuleName)
	}

	return nil
}

func (r *Runner) verify(ctx context.Context, res *generator.Result, logger *slog.Logger, p *message.Printer) error {
	if err := verify.Syntax(ctx, res.Tree.All()); err != nil {
		problems := errors.CollectAs[*verify.SyntaxError](err)
		if len(problems) > 0 {
			p.Fprintf(r.stderr(), "❌ Generated module has %d syntax errors:\n\n", len(problems))
			fmt.Fprint(r.stderr(), cmdutil.FormatErrors(asErrors(problems)))
		}
		return err
	}

	if _, err := verify.Load(ctx, res.Tree, verify.WithLogger(logger)); err != nil {
		return err
	}

	p.Fprintf(r.stderr(), "✅ Generated module parses and loads - %d modules\n", len(res.Tree.All()))
	return nil
}

func asErrors[T error](errs []T) []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch format {
	case "", logFormatText:
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case logFormatJSON:
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q: expected %s or %s", format, logFormatText, logFormatJSON)
	}
}
