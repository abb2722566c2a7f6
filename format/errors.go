package format

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling. Every typed error below
// matches exactly one of them with errors.Is.
var (
	ErrUnknownFormat   = errors.New("no such format")
	ErrIO              = errors.New("i/o error")
	ErrMalformedInput  = errors.New("malformed input")
	ErrUnrepresentable = errors.New("unrepresentable value")
	ErrUnresolved      = errors.New("unable to resolve format")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Side identifies the end of a conversion an error refers to.
type Side string

const (
	Source      Side = "source"
	Destination Side = "destination"
)

// UnknownFormatError reports a format name with no registered implementation.
type UnknownFormatError struct {
	Side Side
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("no such %s format: %q", e.Side, e.Name)
}

func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }

// IOError reports a path that could not be opened, created, read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// NewIOError wraps err with the operation and path it failed on.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// MalformedInputError reports source bytes that violate a format's grammar.
// Line and Column are zero when the codec cannot tell.
type MalformedInputError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *MalformedInputError) Error() string {
	msg := "malformed input in " + e.Path
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(", column %q", e.Column)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// UnrepresentableError reports a value or column type the destination format
// cannot encode.
type UnrepresentableError struct {
	Format string
	Column string
	Type   string
	Err    error
}

func (e *UnrepresentableError) Error() string {
	msg := fmt.Sprintf("%s cannot represent column %q", e.Format, e.Column)
	if e.Type != "" {
		msg += fmt.Sprintf(" of type %s", e.Type)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnrepresentableError) Unwrap() error { return e.Err }

func (e *UnrepresentableError) Is(target error) bool { return target == ErrUnrepresentable }

// ResolutionError reports that neither an explicit format nor a usable file
// extension was available for one side of a conversion.
type ResolutionError struct {
	Side Side
	Path string
}

func (e *ResolutionError) Error() string {
	switch e.Side {
	case Source:
		return fmt.Sprintf("unable to determine input format of %q: pass --from when the file has no extension or is read from stdin", e.Path)
	default:
		return fmt.Sprintf("unable to determine output format of %q: pass --to when the file has no extension or is written to stdout", e.Path)
	}
}

func (e *ResolutionError) Unwrap() error { return ErrUnresolved }

// InvalidArgumentError reports a recognized option key carrying a value the
// format cannot use.
type InvalidArgumentError struct {
	Key   string
	Value string
	Err   error
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid value %q for option %q: %v", e.Value, e.Key, e.Err)
}

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }
