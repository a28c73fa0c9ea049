package hardcopychrome

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-hardcopy/hardcopy"
)

// BaseFlags are always passed to the renderer, in this order.
var BaseFlags = []string{
	"--no-sandbox",
	"--headless",
	"--disable-extensions",
	"--disable-gpu",
}

// CommandArgs builds the renderer argument vector: binary, base flags, the
// format output flag, extra options, and the input file URL last. Every
// element is passed to the process as a discrete argument.
func CommandArgs(binary string, format hardcopy.Format, outputPath, inputPath string, opts hardcopy.Options) []string {
	args := make([]string, 0, len(BaseFlags)+len(opts)+3)
	args = append(args, binary)
	args = append(args, BaseFlags...)
	args = append(args, outputFlag(format)+"="+outputPath)
	args = append(args, opts.Args()...)
	args = append(args, FileURL(inputPath))
	return args
}

func outputFlag(format hardcopy.Format) string {
	if format == hardcopy.FormatPNG {
		return "--screenshot"
	}
	return "--print-to-pdf"
}

// FileURL returns the file:// URL for path, made absolute first.
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}
