package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrInvalidResource indicates a reference that is neither a builtin
	// name nor a readable local file.
	ErrInvalidResource = errors.New("invalid resource")

	// ErrAssetNotFound indicates the named asset does not exist in a directory.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetWrite indicates builtin assets could not be materialized.
	ErrAssetWrite = errors.New("failed to write builtin asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)

// notReadable is the reason reported when a reference cannot be resolved.
const notReadable = "file not found or not readable."

// ResourceError reports a reference that could not be resolved.
// Its message reads "Invalid <kind> '<name>': <reason>".
type ResourceError struct {
	Kind string // "layout", "theme", "highlight style", "extension", ...
	Name string // reference as given by the user
	Err  error  // cause; nil means the file was not found or not readable
}

// NewResourceError reports ref of the given kind as unresolvable.
func NewResourceError(kind, ref string, cause error) *ResourceError {
	return &ResourceError{Kind: kind, Name: ref, Err: cause}
}

func (e *ResourceError) Error() string {
	if e.Err == nil {
		return "Invalid " + e.Kind + " '" + e.Name + "': " + notReadable
	}
	return "Invalid " + e.Kind + " '" + e.Name + "': " + e.Err.Error()
}

// Unwrap exposes ErrInvalidResource and the cause to errors.Is.
func (e *ResourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidResource}
	}
	return []error{ErrInvalidResource, e.Err}
}
