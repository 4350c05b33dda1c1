package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdtodoc/internal/fileutil"
)

// assetDir is an asset root on disk laid out as layouts/, themes/,
// highlight-styles/ and ext/.
type assetDir struct {
	basePath string
}

// newAssetDir validates basePath as a readable directory.
// Returns ErrInvalidBasePath if it is not.
func newAssetDir(basePath string) (*assetDir, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks in base path so containment checks compare real paths
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &assetDir{basePath: absPath}, nil
}

// lookup returns the path of a named asset of kind.
// Returns ErrAssetNotFound if the file is missing or unreadable.
func (d *assetDir) lookup(kind Kind, name string) (string, error) {
	if err := ValidateAssetName(kind, name); err != nil {
		return "", err
	}
	return d.lookupFile(filepath.FromSlash(kind.file(name)))
}

// lookupExt returns the path of a feature module file under ext/.
func (d *assetDir) lookupExt(file string) (string, error) {
	if strings.ContainsAny(file, "/\\") {
		return "", fmt.Errorf("%w: %q", ErrAssetNotFound, file)
	}
	return d.lookupFile(filepath.Join(extDir, file))
}

func (d *assetDir) lookupFile(rel string) (string, error) {
	filePath := filepath.Join(d.basePath, rel)
	if err := d.verifyPathContainment(filePath); err != nil {
		return "", err
	}
	if !fileutil.IsReadable(filePath) {
		return "", fmt.Errorf("%w: %s", ErrAssetNotFound, rel)
	}
	return filePath, nil
}

// verifyPathContainment ensures the resolved file path is within basePath.
// Resolves symlinks to prevent escape via a link pointing outside basePath.
func (d *assetDir) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// If EvalSymlinks fails (file missing), the prefix check still applies
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	// Separator suffix prevents /base/path matching /base/pathevil
	if !strings.HasPrefix(absFilePath, d.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}
