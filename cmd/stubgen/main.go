package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	generateCmd "github.com/speakeasy-api/openapi-stubgen/cmd/stubgen/commands/generate"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// getVersionInfo returns version information, prioritizing ldflags values over build info
func getVersionInfo() (string, string, string) {
	// If version/commit/date were set via ldflags (GoReleaser), use those
	if version != "dev" || commit != "none" || date != "unknown" {
		return version, commit, date
	}

	// Otherwise, try to get info from build info
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}

	// Use module version if available, otherwise fallback to "dev"
	moduleVersion := version
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		moduleVersion = buildInfo.Main.Version
	}

	// Extract VCS information
	vcsCommit := commit
	vcsTime := date

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) >= 7 {
				vcsCommit = setting.Value[:7] // Short commit hash
			} else {
				vcsCommit = setting.Value
			}
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	return moduleVersion, vcsCommit, vcsTime
}

var rootCmd = &cobra.Command{
	Use:   "stubgen",
	Short: "Generate Node.js client stubs from API descriptions",
	Long: `Generate a tree of Node.js client stubs from an API description document.

Each path of the document becomes a directory with an index.js holding one async
function per HTTP method, and a root index.js exposes the whole tree, e.g.
  require('./output/apiClient').users._param_id()

Request bodies are documented above each function with the type of every property.`,
	Version: version,
}

func init() {
	// Get version information (prioritizes ldflags, falls back to build info)
	currentVersion, currentCommit, currentDate := getVersionInfo()

	// Update root command version
	rootCmd.Version = currentVersion

	// Set version template with build info
	var versionTemplate strings.Builder
	versionTemplate.WriteString(`{{printf "%s" .Version}}`)

	if currentCommit != "none" && currentCommit != "" {
		versionTemplate.WriteString("\nBuild: " + currentCommit)
	}

	if currentDate != "unknown" && currentDate != "" {
		versionTemplate.WriteString("\nBuilt: " + currentDate)
	}

	rootCmd.SetVersionTemplate(versionTemplate.String())

	// Add the generate command
	generateCmd.Apply(rootCmd)

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
