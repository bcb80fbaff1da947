package trace

import "fmt"

// ReadError is the single fatal error kind a trace produces itself: an I/O
// failure reading a discovered module's source file. It decorates the
// underlying error with the module's resolved identifier and the filesystem
// path attempted; the wrapped cause carries the OS error code, so
// errors.Is(err, fs.ErrNotExist) and friends keep working.
//
// A ReadError aborts the whole trace. There is no retry and no partial
// graph.
type ReadError struct {
	ID   string // Resolved module identifier that failed to load
	Path string // Filesystem path attempted
	Err  error  // Underlying I/O error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read module %q at %s: %v", e.ID, e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *ReadError) Unwrap() error {
	return e.Err
}
