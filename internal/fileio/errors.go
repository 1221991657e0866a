package fileio

import (
	"errors"
	"fmt"
)

// ErrUnsupported marks a file that is not a recognised spreadsheet container.
var ErrUnsupported = errors.New("unsupported spreadsheet format")

// LoadError reports a workbook that is missing, unreadable or not a spreadsheet.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }
