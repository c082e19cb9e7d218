package dataset

import (
	"errors"
	"fmt"
)

// Sentinel errors for dataset loading.
var (
	// ErrCleanedDataMissing indicates the persisted cleaned file has not
	// been produced yet. Callers present this to the user with guidance to
	// run the analysis step first.
	ErrCleanedDataMissing = errors.New("cleaned dataset not found")

	// ErrEmptyFile indicates a source file contains no header row.
	ErrEmptyFile = errors.New("empty file")
)

// LoadError indicates that an explicitly supplied source path exists but
// could not be parsed as tabular data. It is fatal to the loading step and is
// never silently substituted with sample data.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}
