package hardcopy

import (
	"context"
	"errors"
	"os"
	"time"
)

// RendererConfig locates the renderer binary and default viewport.
// It is resolved once and treated as read-only afterwards.
type RendererConfig struct {
	BinaryPath string
	WindowSize WindowSize
}

// Request describes a single render. Exactly one of HTML and InputPath is set.
type Request struct {
	Format     Format
	HTML       []byte
	InputPath  string
	Options    Options
	WindowSize WindowSize
}

// Validate checks the format before anything else, then input and options.
// It returns the request with a normalized format and options.
func (r Request) Validate() (Request, error) {
	format, err := ParseFormat(r.Format)
	if err != nil {
		return Request{}, err
	}
	r.Format = format

	if r.HTML == nil && r.InputPath == "" {
		return Request{}, NewError(KindValidation, "render input is required", nil)
	}
	if r.HTML != nil && r.InputPath != "" {
		return Request{}, NewError(KindValidation, "render input must be either html bytes or a file path", nil)
	}

	opts, err := r.Options.Normalize()
	if err != nil {
		return Request{}, err
	}
	r.Options = opts
	return r, nil
}

// EffectiveOptions returns the request options with the PNG window size
// applied. An explicit window-size option always wins over the request or
// default size.
func (r Request) EffectiveOptions(defaults WindowSize) Options {
	opts := r.Options.Clone()
	if r.Format != FormatPNG {
		return opts
	}
	size := r.WindowSize
	if size.IsZero() {
		size = defaults
	}
	if !size.IsZero() {
		opts.SetDefault(OptionWindowSize, size.String())
	}
	return opts
}

// Result is a rendered document positioned at offset zero.
type Result struct {
	File     *os.File
	Format   Format
	Size     int64
	Args     []string
	Duration time.Duration

	cleanup func() error
}

// Close releases the result file when it was created by RenderToTemp.
// Results backed by caller-owned files are left open.
func (r *Result) Close() error {
	if r == nil || r.cleanup == nil {
		return nil
	}
	cleanup := r.cleanup
	r.cleanup = nil
	return cleanup()
}

// Engine renders a request into output.
type Engine interface {
	Render(ctx context.Context, req Request, output *os.File) (Result, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, req Request, output *os.File) (Result, error)

func (f EngineFunc) Render(ctx context.Context, req Request, output *os.File) (Result, error) {
	if f == nil {
		return Result{}, errors.New("render engine func is nil")
	}
	return f(ctx, req, output)
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
