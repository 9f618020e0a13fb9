// Package render turns a single operation into the text of a JavaScript client stub.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"github.com/speakeasy-api/openapi-stubgen/pointer"
)

const (
	// DefaultBaseURL is the origin prepended to every path template.
	DefaultBaseURL = "https://api.alice-snow.ru"
	// NoDescription is the header used when an operation has no summary.
	NoDescription = "No description"
)

//go:embed templates/*.js.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("stubs").ParseFS(templateFS, "templates/*.js.tmpl"))

// reservedWords are method names that cannot be used as a JavaScript function name.
var reservedWords = map[string]bool{
	"delete": true,
}

// Operation is everything needed to render one method at one path.
type Operation struct {
	// Method is the lowercase HTTP method name.
	Method string
	// Path is the raw path template, appended to the base URL verbatim.
	Path string
	// Summary is the optional human readable description.
	Summary *string
	// RequestBody is the optional request body.
	RequestBody *apidoc.RequestBody
}

// NewOperation builds an Operation from a document operation. op may be nil.
func NewOperation(method, path string, op *apidoc.Operation) Operation {
	o := Operation{Method: method, Path: path}
	if op != nil {
		o.Summary = op.Summary
		o.RequestBody = op.RequestBody
	}
	return o
}

// Renderer renders operations against one component registry.
type Renderer struct {
	baseURL  string
	registry *apidoc.Components
	logger   *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(r *Renderer) {
		r.baseURL = baseURL
	}
}

// WithLogger sets the logger used to report degraded documentation.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer creates a renderer resolving references against registry, which may be nil.
func NewRenderer(registry *apidoc.Components, opts ...Option) *Renderer {
	r := &Renderer{
		baseURL:  DefaultBaseURL,
		registry: registry,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseURL returns the origin used for generated requests.
func (r *Renderer) BaseURL() string {
	return r.baseURL
}

type getData struct {
	Summary string
	URL     string
}

type operationData struct {
	Summary    string
	URL        string
	Method     string
	HTTPMethod string
	Func       string
	HasBody    bool
	Properties []PropertyDoc
}

// Render produces the stub for op.
//
// A GET renders as a default export taking no arguments and never documents a body.
// Every other method renders its body documentation followed by a function named after the
// method, taking the body and exported under the method name.
func (r *Renderer) Render(op Operation) (string, error) {
	summary := oneLine(pointer.ValueOrDefault(op.Summary, NoDescription))
	url := EscapeJSString(r.baseURL + op.Path)

	var buf bytes.Buffer

	if op.Method == apidoc.MethodGet {
		if err := templates.ExecuteTemplate(&buf, "get.js.tmpl", getData{Summary: summary, URL: url}); err != nil {
			return "", fmt.Errorf("rendering %s %s: %w", op.Method, op.Path, err)
		}
		return buf.String(), nil
	}

	data := operationData{
		Summary:    summary,
		URL:        url,
		Method:     op.Method,
		HTTPMethod: strings.ToUpper(op.Method),
		Func:       FunctionName(op.Method),
		HasBody:    op.RequestBody != nil,
		Properties: r.BodyDoc(op),
	}
	if err := templates.ExecuteTemplate(&buf, "operation.js.tmpl", data); err != nil {
		return "", fmt.Errorf("rendering %s %s: %w", op.Method, op.Path, err)
	}

	return buf.String(), nil
}

// FunctionName returns the JavaScript identifier declared for method.
func FunctionName(method string) string {
	if reservedWords[method] {
		return method + "_"
	}
	return method
}

// oneLine folds line terminators so the text fits a single comment line.
// JavaScript also ends a line at U+2028 and U+2029.
func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n\u2028\u2029") {
		return s
	}
	return strings.Join(strings.FieldsFunc(s, isLineTerminator), " ")
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

var jsStringReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// EscapeJSString escapes s for use inside a single-quoted JavaScript string literal.
func EscapeJSString(s string) string {
	return jsStringReplacer.Replace(s)
}
