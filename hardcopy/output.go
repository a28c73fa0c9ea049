package hardcopy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// RenderToTemp renders into a new temporary file in dir. The returned
// result owns the file; Close removes it. On error nothing is left behind.
func RenderToTemp(ctx context.Context, engine Engine, req Request, dir string) (*Result, error) {
	if engine == nil {
		return nil, NewError(KindInternal, "render engine is nil", nil)
	}
	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}
	return intoTemp(dir, format.Extension(), func(output *os.File) (Result, error) {
		return engine.Render(ctx, req, output)
	})
}

// ConvertToTemp is RenderToTemp for a Converter.
func ConvertToTemp(ctx context.Context, conv Converter, html []byte, opts Options, dir string) (*Result, error) {
	if conv == nil {
		return nil, NewError(KindConfiguration, "converter is not configured", nil)
	}
	return intoTemp(dir, conv.Extension(), func(output *os.File) (Result, error) {
		return conv.Convert(ctx, html, output, opts)
	})
}

func intoTemp(dir, ext string, render func(*os.File) (Result, error)) (*Result, error) {
	output, err := os.CreateTemp(dir, "hardcopy-out-*."+ext)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	remove := func() error {
		closeErr := output.Close()
		removeErr := os.Remove(output.Name())
		if errors.Is(removeErr, os.ErrNotExist) {
			removeErr = nil
		}
		return errors.Join(closeErr, removeErr)
	}

	result, err := render(output)
	if err != nil {
		_ = remove()
		return nil, err
	}
	result.File = output
	result.cleanup = remove
	return &result, nil
}

// FinishOutput rewinds output and reports its size. A zero-byte output is a
// render failure.
func FinishOutput(output *os.File, binary string) (int64, error) {
	info, err := output.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat output file: %w", err)
	}
	if _, err := output.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind output file: %w", err)
	}
	if info.Size() == 0 {
		return 0, NewError(KindRenderProcess, "renderer produced no output", &ProcessError{Binary: binary})
	}
	return info.Size(), nil
}

// DiscardOutput truncates and rewinds output after a failed render so that
// partial content is never read as a valid document.
func DiscardOutput(output *os.File) {
	if output == nil {
		return
	}
	_ = output.Truncate(0)
	_, _ = output.Seek(0, io.SeekStart)
}
