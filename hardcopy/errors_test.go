package hardcopy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	errorslib "github.com/goliatone/go-errors"
)

func TestAsGoErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		category errorslib.Category
		code     string
	}{
		{NewError(KindValidation, "bad input", nil), errorslib.CategoryValidation, "validation"},
		{NewError(KindUnsupportedFormat, "svg", nil), errorslib.CategoryValidation, "unsupported_format"},
		{NewError(KindNotFound, "missing", nil), errorslib.CategoryNotFound, "not_found"},
		{NewError(KindConfiguration, "no chrome", nil), errorslib.CategoryInternal, "configuration"},
		{NewError(KindRenderProcess, "exit 1", nil), errorslib.CategoryOperation, "render_process"},
		{&ProcessError{Binary: "chrome", ExitCode: 3}, errorslib.CategoryOperation, "render_process"},
		{context.DeadlineExceeded, errorslib.CategoryOperation, "timeout"},
		{context.Canceled, errorslib.CategoryOperation, "canceled"},
		{errors.New("boom"), errorslib.CategoryInternal, "internal"},
	}

	for _, tc := range cases {
		mapped := AsGoError(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapping for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("%v: expected category %s, got %s", tc.err, tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.code {
			t.Fatalf("%v: expected text code %s, got %s", tc.err, tc.code, mapped.TextCode)
		}
	}
}

func TestKindFromError_Wrapped(t *testing.T) {
	base := NewError(KindRenderProcess, "renderer failed", &ProcessError{Binary: "chrome", ExitCode: 21})
	wrapped := fmt.Errorf("convert: %w", base)

	if got := KindFromError(wrapped); got != KindRenderProcess {
		t.Fatalf("expected render_process, got %s", got)
	}
	var procErr *ProcessError
	if !errors.As(wrapped, &procErr) {
		t.Fatalf("expected process error in chain")
	}
	if procErr.ExitCode != 21 {
		t.Fatalf("expected exit code 21, got %d", procErr.ExitCode)
	}
	if KindFromError(nil) != "" {
		t.Fatalf("expected empty kind for nil error")
	}
}

func TestProcessErrorMessage(t *testing.T) {
	err := &ProcessError{Binary: "chromium", ExitCode: 1, Stderr: "bad flag\n"}
	if got := err.Error(); got != "chromium exited with status 1: bad flag" {
		t.Fatalf("unexpected message %q", got)
	}
	sig := &ProcessError{Binary: "chromium", ExitCode: -1, Signal: "signal: killed"}
	if !strings.Contains(sig.Error(), "signal: killed") {
		t.Fatalf("expected signal in message, got %q", sig.Error())
	}
}
