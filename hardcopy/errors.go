package hardcopy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines hardcopy error kinds.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindConfiguration     ErrorKind = "configuration"
	KindRenderProcess     ErrorKind = "render_process"
	KindNotFound          ErrorKind = "not_found"
	KindTimeout           ErrorKind = "timeout"
	KindCanceled          ErrorKind = "canceled"
	KindInternal          ErrorKind = "internal"
)

// Error wraps errors with a kind.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new hardcopy error.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// ProcessError describes a renderer process that failed to start, was
// killed, or exited non-zero.
type ProcessError struct {
	Binary   string
	ExitCode int
	Signal   string
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	b.WriteString(e.Binary)
	switch {
	case e.Signal != "":
		fmt.Fprintf(&b, " terminated (%s)", e.Signal)
	case e.ExitCode > 0:
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	case e.Err != nil:
		fmt.Fprintf(&b, " failed: %v", e.Err)
	default:
		b.WriteString(" failed")
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	}
	return b.String()
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// KindFromError maps an error to its hardcopy error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var hcErr *Error
	if errors.As(err, &hcErr) {
		return hcErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var procErr *ProcessError
	if errors.As(err, &procErr) {
		return KindRenderProcess
	}

	return KindInternal
}

// IsKind reports whether err maps to kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindFromError(err) == kind
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()

	var hcErr *Error
	if errors.As(err, &hcErr) && hcErr.Msg != "" {
		msg = hcErr.Msg
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindUnsupportedFormat:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("unsupported_format")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindConfiguration:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("configuration")
	case KindRenderProcess:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("render_process")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}
