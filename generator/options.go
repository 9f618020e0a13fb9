package generator

import (
	"io"
	"log/slog"

	"github.com/speakeasy-api/openapi-stubgen/render"
	"github.com/speakeasy-api/openapi-stubgen/system"
)

const (
	DefaultInputFile    = "docs.yaml"
	DefaultOutDir       = "./output"
	DefaultModuleName   = "apiClient"
	DefaultArtifactName = "index.js"
)

// Options configures a generation run. Zero values fall back to the Default* constants.
type Options struct {
	// InputFile is the document to read from FS. Ignored when Input is set.
	InputFile string
	// Input, when set, is read instead of InputFile.
	Input io.Reader
	// OutDir and ModuleName together name the root of the generated module tree.
	OutDir     string
	ModuleName string
	// ArtifactName is the file name of every generated module.
	ArtifactName string
	// BaseURL is the origin prepended to every path. Defaults to render.DefaultBaseURL.
	BaseURL string
	// BaseURLExpr is a JSONPath evaluated against the document; the first string it matches
	// is used as the base URL unless BaseURL is set explicitly.
	BaseURLExpr string
	// Check compares the generated output with what FS already holds instead of writing it.
	Check bool
	// FS is where the input is read and the output written. Defaults to the OS file system.
	FS system.WritableFS
	// Logger receives progress and degradation events. Defaults to discarding them.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.InputFile == "" {
		o.InputFile = DefaultInputFile
	}
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if o.ModuleName == "" {
		o.ModuleName = DefaultModuleName
	}
	if o.ArtifactName == "" {
		o.ArtifactName = DefaultArtifactName
	}
	if o.FS == nil {
		o.FS = &system.FileSystem{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func (o Options) explicitBaseURL() bool {
	return o.BaseURL != ""
}

func (o Options) defaultBaseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	return render.DefaultBaseURL
}
