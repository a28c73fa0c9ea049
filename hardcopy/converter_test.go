package hardcopy

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writingEngine(payload string, seen *Request) Engine {
	return EngineFunc(func(ctx context.Context, req Request, output *os.File) (Result, error) {
		_ = ctx
		if seen != nil {
			*seen = req
		}
		if _, err := output.WriteString(payload); err != nil {
			return Result{}, err
		}
		size, err := FinishOutput(output, "stub")
		if err != nil {
			return Result{}, err
		}
		return Result{File: output, Format: req.Format, Size: size}, nil
	})
}

func TestPDFConverter_Convert(t *testing.T) {
	var seen Request
	conv := PDFConverter{Engine: writingEngine("%PDF-1.4", &seen)}
	out, err := os.CreateTemp(t.TempDir(), "out-*.pdf")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer out.Close()

	result, err := conv.Convert(context.Background(), []byte("<html>ok</html>"), out, Options{"lang": "en"})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if seen.Format != FormatPDF || string(seen.HTML) != "<html>ok</html>" || seen.Options["lang"] != "en" {
		t.Fatalf("unexpected request %+v", seen)
	}
	data, err := io.ReadAll(result.File)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("expected result positioned at start, got %q", data)
	}
}

func TestPNGConverter_UsesViewport(t *testing.T) {
	var seen Request
	conv := NewPNGConverter(writingEngine("png", &seen))
	out, err := os.CreateTemp(t.TempDir(), "out-*.png")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer out.Close()

	if _, err := conv.Convert(context.Background(), nil, out, Options{}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if seen.WindowSize != (WindowSize{Width: 1920, Height: 1080}) {
		t.Fatalf("expected default png viewport, got %+v", seen.WindowSize)
	}
	if seen.HTML == nil {
		t.Fatalf("expected non-nil html for empty input")
	}
	if conv.ContentType() != "image/png" || conv.Extension() != "png" {
		t.Fatalf("unexpected png converter metadata")
	}
}

func TestConverterFor(t *testing.T) {
	engine := writingEngine("x", nil)
	conv, err := ConverterFor("PDF", engine)
	if err != nil || conv.Format() != FormatPDF {
		t.Fatalf("expected pdf converter, got %v (%v)", conv, err)
	}
	conv, err = ConverterFor("png", engine)
	if err != nil || conv.Format() != FormatPNG {
		t.Fatalf("expected png converter, got %v (%v)", conv, err)
	}
	if _, err := ConverterFor("svg", engine); !IsKind(err, KindUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestRenderToTemp_RemovesFile(t *testing.T) {
	dir := t.TempDir()
	result, err := RenderToTemp(context.Background(), writingEngine("%PDF", nil), Request{Format: FormatPDF, HTML: []byte("x")}, dir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	name := result.File.Name()
	if filepath.Dir(name) != dir {
		t.Fatalf("expected output in %s, got %s", dir, name)
	}
	if result.Size != 4 {
		t.Fatalf("expected size 4, got %d", result.Size)
	}
	if err := result.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(name); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected output removed, got %v", err)
	}
	if err := result.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestRenderToTemp_ErrorLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	failing := EngineFunc(func(ctx context.Context, req Request, output *os.File) (Result, error) {
		_, _ = output.WriteString("partial")
		return Result{}, NewError(KindRenderProcess, "boom", nil)
	})
	if _, err := RenderToTemp(context.Background(), failing, Request{Format: FormatPNG, HTML: []byte("x")}, dir); !IsKind(err, KindRenderProcess) {
		t.Fatalf("expected render process error, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files left, got %d", len(entries))
	}

	if _, err := RenderToTemp(context.Background(), failing, Request{Format: "svg"}, dir); !IsKind(err, KindUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestFinishOutput_EmptyIsFailure(t *testing.T) {
	out, err := os.CreateTemp(t.TempDir(), "empty-*")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer out.Close()
	if _, err := FinishOutput(out, "chrome"); !IsKind(err, KindRenderProcess) {
		t.Fatalf("expected render process error, got %v", err)
	}
}

func TestConvertToTemp(t *testing.T) {
	dir := t.TempDir()
	result, err := ConvertToTemp(context.Background(), NewPNGConverter(writingEngine("png-bytes", nil)), []byte("<p>x</p>"), nil, dir)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if filepath.Ext(result.File.Name()) != ".png" {
		t.Fatalf("expected png temp file, got %s", result.File.Name())
	}
	if err := result.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected temp output removed")
	}

	if _, err := ConvertToTemp(context.Background(), nil, nil, nil, dir); !IsKind(err, KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
