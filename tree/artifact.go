package tree

import (
	"path"
	"strings"
)

// Artifact is the generated text for one location in the module tree.
type Artifact struct {
	// Segments is the sanitized location, one directory per segment. Empty for the root.
	Segments []string
	// Path is the path template the artifact was generated for. Empty for the aggregator.
	Path string

	content strings.Builder
}

// NewArtifact returns an empty artifact at the given sanitized location.
func NewArtifact(pathTemplate string, segments []string) *Artifact {
	return &Artifact{Path: pathTemplate, Segments: segments}
}

// Replace discards the current content and stores s.
func (a *Artifact) Replace(s string) {
	a.content.Reset()
	a.content.WriteString(s)
}

// Append adds s after the current content.
func (a *Artifact) Append(s string) {
	a.content.WriteString(s)
}

// Content returns the accumulated text.
func (a *Artifact) Content() string {
	return a.content.String()
}

// Location returns the slash separated location, "" for the root.
func (a *Artifact) Location() string {
	return path.Join(a.Segments...)
}
