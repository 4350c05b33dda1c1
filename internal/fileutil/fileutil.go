// Package fileutil provides file and path utility functions.
package fileutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// remotePattern matches http(s) URLs and protocol-relative references.
var remotePattern = regexp.MustCompile(`^https?://|^//`)

// markdownExtensions lists the extensions accepted as Markdown sources.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsDir returns true if the path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsReadable returns true if the path is a regular file that can be opened for reading.
func IsReadable(path string) bool {
	if !FileExists(path) {
		return false
	}
	f, err := os.Open(path) // #nosec G304 -- probing a user-provided path
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "github" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/path.css" -> true (absolute)
//   - "C:\windows\path.css" -> true (Windows)
//   - "my-style" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsRemote returns true if the reference is an http(s) URL or a
// protocol-relative "//host/path" reference.
func IsRemote(s string) bool {
	return remotePattern.MatchString(s)
}

// IsMarkdown returns true if the path has a Markdown extension.
func IsMarkdown(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// ToURL projects a local path to a URL relative to base, using forward slashes.
// Remote references are returned unchanged.
//
//	ToURL("/path/assets/file.ext", "/path/") -> "assets/file.ext"
func ToURL(path, base string) string {
	if IsRemote(path) {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// TrimExt returns the base name of path without its extension.
func TrimExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
