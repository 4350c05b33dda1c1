// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdtodoc/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForFetch returns hints for remote fetch errors.
// Detects CI/Docker environments, where outbound traffic often needs a proxy.
func ForFetch() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("HTTPS_PROXY") == "" && os.Getenv("https_proxy") == "" {
		hints = append(hints, "set HTTPS_PROXY if the network requires a proxy")
	}
	hints = append(hints, "use a local file instead of a URL to work offline")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the fetch timeout.
func ForTimeout() string {
	return format("for slow servers, raise net.timeout in the config file")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/mdtodoc/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Suggest the first user config path
	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/mdtodoc/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for invalid destination errors.
func ForOutputDirectory() string {
	return format("create the directory first, or omit --dest to write beside the sources")
}

// ForStyleNotFound returns hints for unknown layouts, themes and highlight styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForExtension returns hints for extensions that cannot be loaded.
func ForExtension() string {
	return format(`extensions must be executable and print a JSON array of hooks for "<path> hooks"`)
}

// ForEmbedMode returns hints for unknown embed modes.
func ForEmbedMode() string {
	return format("use light, default, or full")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
