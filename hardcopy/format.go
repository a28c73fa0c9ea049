package hardcopy

import (
	"fmt"
	"strings"
)

// Format identifies a rendered document type.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// NormalizeFormat coerces format values into known aliases.
func NormalizeFormat(format Format) Format {
	normalized := strings.ToLower(strings.TrimSpace(string(format)))
	switch normalized {
	case "application/pdf":
		return FormatPDF
	case "image/png", "screenshot":
		return FormatPNG
	default:
		return Format(normalized)
	}
}

// ParseFormat normalizes format and rejects anything other than PDF or PNG.
func ParseFormat(format Format) (Format, error) {
	normalized := NormalizeFormat(format)
	if !normalized.Valid() {
		return "", NewError(KindUnsupportedFormat, fmt.Sprintf("unsupported output format %q", string(format)), nil)
	}
	return normalized, nil
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatPNG
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension, without a dot.
func (f Format) Extension() string {
	return string(f)
}

