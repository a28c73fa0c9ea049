package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

func stubEngine(payload string, fail error) hardcopy.Engine {
	return hardcopy.EngineFunc(func(ctx context.Context, req hardcopy.Request, output *os.File) (hardcopy.Result, error) {
		_ = ctx
		if _, err := req.Validate(); err != nil {
			return hardcopy.Result{}, err
		}
		if fail != nil {
			return hardcopy.Result{}, fail
		}
		if _, err := output.WriteString(payload); err != nil {
			return hardcopy.Result{}, err
		}
		size, err := hardcopy.FinishOutput(output, "stub")
		if err != nil {
			return hardcopy.Result{}, err
		}
		return hardcopy.Result{File: output, Format: hardcopy.NormalizeFormat(req.Format), Size: size}, nil
	})
}

func TestRenderDocument_Validate(t *testing.T) {
	var out bytes.Buffer
	tests := []struct {
		name string
		msg  RenderDocument
		code string
	}{
		{name: "format", msg: RenderDocument{HTML: []byte("x"), Output: &out}, code: "FORMAT_REQUIRED"},
		{name: "unsupported", msg: RenderDocument{Format: "svg", HTML: []byte("x"), Output: &out}, code: "FORMAT_UNSUPPORTED"},
		{name: "no input", msg: RenderDocument{Format: hardcopy.FormatPDF, Output: &out}, code: "INPUT_REQUIRED"},
		{name: "two inputs", msg: RenderDocument{Format: hardcopy.FormatPDF, HTML: []byte("x"), InputPath: "in.html", Output: &out}, code: "INPUT_REQUIRED"},
		{name: "no output", msg: RenderDocument{Format: hardcopy.FormatPDF, HTML: []byte("x")}, code: "OUTPUT_REQUIRED"},
	}
	for _, tc := range tests {
		err := tc.msg.Validate()
		var ge *errors.Error
		if !stderrors.As(err, &ge) {
			t.Fatalf("%s: expected go-errors error, got %v", tc.name, err)
		}
		if ge.TextCode != tc.code || ge.Category != errors.CategoryValidation {
			t.Fatalf("%s: expected %s validation error, got %s/%s", tc.name, tc.code, ge.Category, ge.TextCode)
		}
	}

	ok := RenderDocument{Format: "PNG", HTML: []byte{}, OutputPath: "out.png"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if ok.Type() != "hardcopy:render" {
		t.Fatalf("unexpected message type %q", ok.Type())
	}
}

func TestRenderDocumentHandler_WritesOutputAndStoresResult(t *testing.T) {
	tempDir := t.TempDir()
	handler := NewRenderDocumentHandler(stubEngine("%PDF-1.7", nil))
	handler.TempDir = tempDir

	var out bytes.Buffer
	var got RenderOutcome
	result := gcmd.NewResult[RenderOutcome]()
	ctx := gcmd.ContextWithResult(context.Background(), result)

	err := handler.Execute(ctx, RenderDocument{
		Format: hardcopy.FormatPDF,
		HTML:   []byte("<p>x</p>"),
		Output: &out,
		Result: &got,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.String() != "%PDF-1.7" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if got.Size != 8 || got.Format != hardcopy.FormatPDF {
		t.Fatalf("unexpected outcome %+v", got)
	}
	stored, ok := result.Load()
	if !ok || stored != got {
		t.Fatalf("expected context result %+v, got %+v", got, stored)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected temp output removed, found %d entries", len(entries))
	}
}

func TestRenderDocumentHandler_OutputPath(t *testing.T) {
	handler := NewRenderDocumentHandler(stubEngine("png-bytes", nil))
	handler.TempDir = t.TempDir()
	path := filepath.Join(t.TempDir(), "shot.png")

	if err := handler.Execute(context.Background(), RenderDocument{
		Format:     hardcopy.FormatPNG,
		HTML:       []byte("x"),
		OutputPath: path,
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestRenderDocumentHandler_PropagatesRenderErrors(t *testing.T) {
	failure := hardcopy.NewError(hardcopy.KindRenderProcess, "renderer failed", &hardcopy.ProcessError{Binary: "chrome", ExitCode: 1})
	handler := NewRenderDocumentHandler(stubEngine("", failure))
	handler.TempDir = t.TempDir()
	path := filepath.Join(t.TempDir(), "out.pdf")

	err := handler.Execute(context.Background(), RenderDocument{Format: hardcopy.FormatPDF, HTML: []byte("x"), OutputPath: path})
	if !hardcopy.IsKind(err, hardcopy.KindRenderProcess) {
		t.Fatalf("expected render process error, got %v", err)
	}
	if _, statErr := os.Stat(path); !stderrors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no output file on failure")
	}
}

func TestRenderDocumentHandler_RequiresEngine(t *testing.T) {
	var handler *RenderDocumentHandler
	if err := handler.Execute(context.Background(), RenderDocument{}); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}

func TestRegisterHandlers_Dispatch(t *testing.T) {
	subs, err := RegisterHandlers(gcmd.NewRegistry(), stubEngine("%PDF", nil), t.TempDir())
	if err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	var out bytes.Buffer
	outcome, err := dispatcher.DispatchWithResult[RenderDocument, RenderOutcome](
		context.Background(),
		RenderDocument{Format: hardcopy.FormatPDF, HTML: []byte("x"), Output: &out},
	)
	if err != nil {
		t.Fatalf("dispatch render: %v", err)
	}
	if outcome.Size != 4 || out.String() != "%PDF" {
		t.Fatalf("unexpected dispatch outcome %+v (%q)", outcome, out.String())
	}

	if _, err := RegisterHandlers(nil, nil, ""); err == nil {
		t.Fatalf("expected error without engine")
	}
}
