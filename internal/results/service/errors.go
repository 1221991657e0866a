package service

import (
	"errors"
	"fmt"
)

var (
	ErrStructural      = errors.New("structural error")
	ErrMalformedHeader = errors.New("malformed header")
	ErrLabelParse      = errors.New("label parse error")
	ErrCoercion        = errors.New("vote count coercion error")
)

// StructuralError means a sheet or block does not have the expected marker/totals layout.
// Block is -1 when the problem is sheet-wide.
type StructuralError struct {
	Sheet  string
	Block  int
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("sheet %q: %s", e.Sheet, e.Reason)
	}
	return fmt.Sprintf("sheet %q block %d: %s", e.Sheet, e.Block, e.Reason)
}

func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// MalformedHeaderError means a subdivision column header did not survive as a positive integer.
type MalformedHeaderError struct {
	Sheet  string
	Block  int
	Column int
	Header string
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("sheet %q block %d column %d: header %q: %s", e.Sheet, e.Block, e.Column, e.Header, e.Reason)
}

func (e *MalformedHeaderError) Is(target error) bool { return target == ErrMalformedHeader }

// LabelParseError means the unit label has no token where the office type expects the ward.
type LabelParseError struct {
	Office  string
	Label   string
	Context string
}

func (e *LabelParseError) Error() string {
	return fmt.Sprintf("%s: cannot read ward from unit label %q (sheet title %q)", e.Office, e.Label, e.Context)
}

func (e *LabelParseError) Is(target error) bool { return target == ErrLabelParse }

// CoercionError means a vote cell is neither blank nor a whole non-negative number.
type CoercionError struct {
	Office      string
	Candidate   string
	Subdivision int
	Value       string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s / %s / subdivision %d: vote count %q is not a whole number", e.Office, e.Candidate, e.Subdivision, e.Value)
}

func (e *CoercionError) Is(target error) bool { return target == ErrCoercion }
