package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdtodoc/internal/fileutil"
)

// Locator resolves asset references to concrete paths or URLs.
// When a custom directory is configured, names are looked up there first,
// then in the builtin directory.
type Locator struct {
	builtin *assetDir
	custom  *assetDir // nil if no custom directory configured
}

// DefaultCacheDir returns the per-version directory builtin assets are
// materialized into: {UserCacheDir}/mdtodoc/{version}.
func DefaultCacheDir(version string) string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "mdtodoc", version)
}

// NewLocator materializes builtin assets into cacheDir and returns a Locator.
// If customDir is set, it must be a readable directory.
func NewLocator(cacheDir, customDir string) (*Locator, error) {
	if cacheDir == "" {
		return nil, fmt.Errorf("%w: empty cache directory", ErrInvalidBasePath)
	}
	if err := os.MkdirAll(cacheDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	if err := Materialize(cacheDir); err != nil {
		return nil, err
	}

	builtinDir, err := newAssetDir(cacheDir)
	if err != nil {
		return nil, err
	}
	l := &Locator{builtin: builtinDir}

	if customDir != "" {
		custom, err := newAssetDir(customDir)
		if err != nil {
			return nil, err
		}
		l.custom = custom
	}
	return l, nil
}

// Dir returns the directory builtin assets live in.
func (l *Locator) Dir() string {
	return l.builtin.basePath
}

// HasCustomDir returns true if a custom asset directory is configured.
func (l *Locator) HasCustomDir() bool {
	return l.custom != nil
}

// Resolve turns ref into a concrete path or URL for kind.
//
// Remote references are returned unchanged without any check. A builtin
// name resolves to the matching asset file. Anything else must be a
// readable local file, returned as an absolute path. Failures are reported
// as a *ResourceError.
func (l *Locator) Resolve(ref string, kind Kind) (string, error) {
	if fileutil.IsRemote(ref) {
		return ref, nil
	}

	if kind.IsName(ref) {
		p, err := l.lookupName(kind, ref)
		if err == nil {
			return p, nil
		}
		// Only fall through for "not found", not traversal or write errors
		if !isNotFoundError(err) {
			return "", NewResourceError(kind.Name, ref, err)
		}
	}

	if ref != "" && fileutil.IsReadable(ref) {
		abs, err := filepath.Abs(ref)
		if err != nil {
			return "", NewResourceError(kind.Name, ref, err)
		}
		return abs, nil
	}
	return "", NewResourceError(kind.Name, ref, nil)
}

// Ext returns the path of a feature module file, e.g. CodeCopyJS.
func (l *Locator) Ext(file string) (string, error) {
	if l.custom != nil {
		p, err := l.custom.lookupExt(file)
		if err == nil {
			return p, nil
		}
		if !isNotFoundError(err) {
			return "", err
		}
	}
	return l.builtin.lookupExt(file)
}

// lookupName implements the custom-first, fallback-to-builtin lookup.
func (l *Locator) lookupName(kind Kind, name string) (string, error) {
	if l.custom != nil {
		p, err := l.custom.lookup(kind, name)
		if err == nil {
			return p, nil
		}
		if !isNotFoundError(err) {
			return "", err
		}
	}

	p, err := l.builtin.lookup(kind, name)
	if err == nil || kind.Dir != HighlightStyle.Dir || !isNotFoundError(err) {
		return p, err
	}
	// Highlight styles are generated on first use
	return materializeHighlightStyle(l.builtin.basePath, name)
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrAssetNotFound)
}
