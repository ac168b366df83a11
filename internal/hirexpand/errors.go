package hirexpand

import (
	"errors"
	"fmt"

	"mexpand/internal/name"
	"mexpand/internal/source"
)

// ErrUnexpectedToken is the only way a builtin expansion fails: the call has
// no delimited argument group.
var ErrUnexpectedToken = errors.New("unexpected token")

// ErrDeclarative is returned when expansion is requested for a macro_rules! definition.
var ErrDeclarative = errors.New("declarative macros are not expanded")

// ExpandError reports a failed builtin expansion at a call site.
type ExpandError struct {
	Macro name.Name
	Span  source.Span
	Err   error
}

func (e *ExpandError) Error() string {
	return fmt.Sprintf("%s!: %v", e.Macro, e.Err)
}

func (e *ExpandError) Unwrap() error { return e.Err }

func unexpectedToken(macro name.Name, sp source.Span) *ExpandError {
	return &ExpandError{Macro: macro, Span: sp, Err: ErrUnexpectedToken}
}
