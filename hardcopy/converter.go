package hardcopy

import (
	"context"
	"os"
)

// Default PNG viewport used by NewPNGConverter.
const (
	DefaultPNGWidth  = 1920
	DefaultPNGHeight = 1080
)

// Converter turns HTML bytes into a typed rendered file.
type Converter interface {
	Format() Format
	ContentType() string
	Extension() string
	Convert(ctx context.Context, html []byte, output *os.File, opts Options) (Result, error)
}

// PDFConverter renders HTML to PDF.
type PDFConverter struct {
	Engine Engine
}

func (PDFConverter) Format() Format      { return FormatPDF }
func (PDFConverter) ContentType() string { return FormatPDF.ContentType() }
func (PDFConverter) Extension() string   { return FormatPDF.Extension() }

// Convert renders html into output as a PDF.
func (c PDFConverter) Convert(ctx context.Context, html []byte, output *os.File, opts Options) (Result, error) {
	if c.Engine == nil {
		return Result{}, NewError(KindInternal, "pdf converter requires engine", nil)
	}
	return c.Engine.Render(ctx, Request{
		Format:  FormatPDF,
		HTML:    nonNilHTML(html),
		Options: opts,
	}, output)
}

// PNGConverter renders HTML to PNG at Width x Height, unless opts already
// carries a window-size.
type PNGConverter struct {
	Engine Engine
	Width  int
	Height int
}

// NewPNGConverter returns a PNG converter with the default 1920x1080 viewport.
func NewPNGConverter(engine Engine) PNGConverter {
	return PNGConverter{Engine: engine, Width: DefaultPNGWidth, Height: DefaultPNGHeight}
}

func (PNGConverter) Format() Format      { return FormatPNG }
func (PNGConverter) ContentType() string { return FormatPNG.ContentType() }
func (PNGConverter) Extension() string   { return FormatPNG.Extension() }

// Convert renders html into output as a PNG.
func (c PNGConverter) Convert(ctx context.Context, html []byte, output *os.File, opts Options) (Result, error) {
	if c.Engine == nil {
		return Result{}, NewError(KindInternal, "png converter requires engine", nil)
	}
	return c.Engine.Render(ctx, Request{
		Format:     FormatPNG,
		HTML:       nonNilHTML(html),
		Options:    opts,
		WindowSize: WindowSize{Width: c.Width, Height: c.Height},
	}, output)
}

// ConverterFor returns the converter strategy for format.
func ConverterFor(format Format, engine Engine) (Converter, error) {
	parsed, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if parsed == FormatPNG {
		return NewPNGConverter(engine), nil
	}
	return PDFConverter{Engine: engine}, nil
}

func nonNilHTML(html []byte) []byte {
	if html == nil {
		return []byte{}
	}
	return html
}
