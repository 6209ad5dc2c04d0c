package discovery

import "fmt"

// PathNotFoundError is returned when a supplied root path does not exist.
// It is reported before any traversal starts.
type PathNotFoundError struct {
	// Path is the offending path as supplied by the caller
	Path string
}

// Error implements the error interface.
func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path '%s' does not exist. If you're using a glob pattern like '*.go', "+
		"note that this tool expects actual file or directory paths. "+
		"Use the --exclude flag with glob patterns to filter files instead.", e.Path)
}

// WalkError is returned when traversal fails partway, for example on a
// permission error while enumerating a directory. A walk error aborts the
// whole discovery call; traversal never silently drops files.
type WalkError struct {
	// Path is the directory or file being enumerated when the failure occurred
	Path string
	// Err is the underlying filesystem error
	Err error
}

// Error implements the error interface.
func (e *WalkError) Error() string {
	return fmt.Sprintf("walking %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *WalkError) Unwrap() error {
	return e.Err
}
