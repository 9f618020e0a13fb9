package render_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/speakeasy-api/openapi-stubgen/apidoc"
	"github.com/speakeasy-api/openapi-stubgen/pointer"
	"github.com/speakeasy-api/openapi-stubgen/render"
	"github.com/speakeasy-api/openapi-stubgen/sequencedmap"
	"github.com/speakeasy-api/openapi-stubgen/tree"
	"github.com/speakeasy-api/openapi-stubgen/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRegistry() *apidoc.Components {
	return &apidoc.Components{
		Schemas: sequencedmap.New(
			sequencedmap.NewElem("User", &apidoc.Schema{
				Type: pointer.From("object"),
				Properties: sequencedmap.New(
					sequencedmap.NewElem("name", &apidoc.Schema{Type: pointer.From("string")}),
					sequencedmap.NewElem("id", &apidoc.Schema{Type: pointer.From("integer")}),
				),
			}),
		),
	}
}

func jsonBody(schema *apidoc.Schema) *apidoc.RequestBody {
	return &apidoc.RequestBody{
		Content: sequencedmap.New(sequencedmap.NewElem("application/json", &apidoc.MediaType{Schema: schema})),
	}
}

func TestRender_Get(t *testing.T) {
	t.Parallel()

	r := render.NewRenderer(nil)
	out, err := r.Render(render.Operation{Method: "get", Path: "/ping", Summary: pointer.From("Health check")})
	require.NoError(t, err)

	expected := `/// Health check
var fetch = require('node-fetch');

async function main() {
    const response = await fetch('https://api.alice-snow.ru/ping', { method: 'GET' });
    return await response.json();
}

module.exports = main;
`
	assert.Equal(t, expected, out)
}

func TestRender_GetIgnoresRequestBody(t *testing.T) {
	t.Parallel()

	r := render.NewRenderer(userRegistry())
	out, err := r.Render(render.Operation{
		Method:      "get",
		Path:        "/users",
		RequestBody: jsonBody(&apidoc.Schema{Ref: pointer.From("#/components/schemas/User")}),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "/// No description\n"))
	assert.NotContains(t, out, "body:")
	assert.Contains(t, out, "module.exports = main;")
}

func TestRender_PostWithResolvedReference(t *testing.T) {
	t.Parallel()

	r := render.NewRenderer(userRegistry())
	out, err := r.Render(render.Operation{
		Method:      "post",
		Path:        "/users",
		Summary:     pointer.From("Create a user"),
		RequestBody: jsonBody(&apidoc.Schema{Ref: pointer.From("#/components/schemas/User")}),
	})
	require.NoError(t, err)

	expected := `/// Create a user
var fetch = require('node-fetch');

/// body:
///   "id": "integer"
///   "name": "string"
async function post(body) {
    const response = await fetch('https://api.alice-snow.ru/users', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify(body)
    });
    return await response.json();
}

module.exports.post = post;
`
	assert.Equal(t, expected, out)
}

func TestRender_UnresolvedReferenceDegrades(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := render.NewRenderer(userRegistry(), render.WithLogger(logger))
	out, err := r.Render(render.Operation{
		Method:      "put",
		Path:        "/users/{id}",
		RequestBody: jsonBody(&apidoc.Schema{Ref: pointer.From("#/components/schemas/Ghost")}),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "/// No description\n"))
	assert.Contains(t, out, "/// body:\nasync function put(body) {")
	assert.NotContains(t, out, `///   "`)
	assert.Contains(t, logs.String(), "request body reference not resolved")
	assert.Contains(t, logs.String(), "Ghost")
}

func TestRender_NoRequestBody(t *testing.T) {
	t.Parallel()

	r := render.NewRenderer(nil)
	out, err := r.Render(render.Operation{Method: "patch", Path: "/users"})
	require.NoError(t, err)

	assert.Contains(t, out, "var fetch = require('node-fetch');\n\nasync function patch(body) {")
	assert.NotContains(t, out, "body:")
	assert.Contains(t, out, "method: 'PATCH',")
	assert.True(t, strings.HasSuffix(out, "module.exports.patch = patch;\n"))
}

func TestRender_NonJSONBodyOnlyHasHeader(t *testing.T) {
	t.Parallel()

	body := &apidoc.RequestBody{
		Content: sequencedmap.New(sequencedmap.NewElem("text/plain", &apidoc.MediaType{Schema: &apidoc.Schema{Type: pointer.From("string")}})),
	}

	r := render.NewRenderer(nil)
	out, err := r.Render(render.Operation{Method: "post", Path: "/notes", RequestBody: body})
	require.NoError(t, err)

	assert.Contains(t, out, "/// body:\nasync function post(body) {")
}

func TestRender_InlineSchema(t *testing.T) {
	t.Parallel()

	schema := &apidoc.Schema{
		Type: pointer.From("object"),
		Properties: sequencedmap.New(
			sequencedmap.NewElem("tags", &apidoc.Schema{Items: &apidoc.Schema{Type: pointer.From("string")}}),
			sequencedmap.NewElem("age", &apidoc.Schema{Type: pointer.From("integer"), Format: pointer.From("int32")}),
			sequencedmap.NewElem("address", &apidoc.Schema{Ref: pointer.From("#/components/schemas/Address")}),
			sequencedmap.NewElem("contact", &apidoc.Schema{OneOf: []*apidoc.Schema{{Type: pointer.From("string")}}}),
			sequencedmap.NewElem("misc", &apidoc.Schema{}),
		),
	}

	r := render.NewRenderer(nil)
	docs := r.BodyDoc(render.Operation{Method: "post", Path: "/people", RequestBody: jsonBody(schema)})

	assert.Equal(t, []render.PropertyDoc{
		{Name: "address", Type: "ref -> #/components/schemas/Address"},
		{Name: "age", Type: "integer (int32)"},
		{Name: "contact", Type: "oneOf"},
		{Name: "misc", Type: "unknown"},
		{Name: "tags", Type: "array<string>"},
	}, docs)
}

func TestRender_DeleteUsesSafeIdentifier(t *testing.T) {
	t.Parallel()

	r := render.NewRenderer(nil)
	out, err := r.Render(render.Operation{Method: "delete", Path: "/users/{id}", Summary: pointer.From("Remove")})
	require.NoError(t, err)

	assert.Contains(t, out, "async function delete_(body) {")
	assert.Contains(t, out, "method: 'DELETE',")
	assert.True(t, strings.HasSuffix(out, "module.exports.delete = delete_;\n"))
}

func TestRender_BaseURLAndEscaping(t *testing.T) {
	t.Parallel()

	r := render.NewRenderer(nil, render.WithBaseURL("http://localhost:8080"))
	assert.Equal(t, "http://localhost:8080", r.BaseURL())

	out, err := r.Render(render.Operation{Method: "get", Path: "/it's/{id}", Summary: pointer.From("first\nsecond")})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "/// first second\n"), "summary should stay on one line")
	assert.Contains(t, out, `fetch('http://localhost:8080/it\'s/{id}', { method: 'GET' })`)
}

func TestRender_LineSeparatorsStayInComments(t *testing.T) {
	t.Parallel()

	schema := &apidoc.Schema{
		Type: pointer.From("object"),
		Properties: sequencedmap.New(
			sequencedmap.NewElem("na\u2029me", &apidoc.Schema{Type: pointer.From("string")}),
		),
	}

	tests := []struct {
		name   string
		method string
		body   *apidoc.RequestBody
	}{
		{name: "get", method: "get"},
		{name: "post with body", method: "post", body: jsonBody(schema)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := render.NewRenderer(nil)
			out, err := r.Render(render.Operation{
				Method:      tt.method,
				Path:        "/a\u2028b",
				Summary:     pointer.From("hi\u2028x = = 1\u2029y"),
				RequestBody: tt.body,
			})
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(out, "/// hi x = = 1 y\n"))
			assert.NotContains(t, out, "\u2028")
			assert.NotContains(t, out, "\u2029")
			assert.Contains(t, out, `/a\u2028b'`)
			if tt.body != nil {
				assert.Contains(t, out, `///   "na me": "string"`)
			}

			a := tree.NewArtifact("/a", []string{"a"})
			a.Replace(out)
			require.NoError(t, verify.Syntax(t.Context(), []*tree.Artifact{a}))
		})
	}
}

func TestEscapeJSString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "/users/{id}", expected: "/users/{id}"},
		{name: "quote", input: "o'clock", expected: `o\'clock`},
		{name: "backslash", input: `a\b`, expected: `a\\b`},
		{name: "newlines", input: "a\nb\rc", expected: `a\nb\rc`},
		{name: "line separators", input: "a\u2028b\u2029c", expected: `a\u2028b\u2029c`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, render.EscapeJSString(tt.input))
		})
	}
}

func TestFunctionName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "post", render.FunctionName("post"))
	assert.Equal(t, "delete_", render.FunctionName("delete"))
}

func TestNewOperation(t *testing.T) {
	t.Parallel()

	op := render.NewOperation("post", "/users", &apidoc.Operation{Summary: pointer.From("Create")})
	assert.Equal(t, "post", op.Method)
	assert.Equal(t, "/users", op.Path)
	assert.Equal(t, "Create", *op.Summary)

	empty := render.NewOperation("get", "/ping", nil)
	assert.Nil(t, empty.Summary)
	assert.Nil(t, empty.RequestBody)
}
