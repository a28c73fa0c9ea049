package hardcopytemplate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// DefaultMaxBytes bounds buffered template output by default.
const DefaultMaxBytes = 32 << 20

// TemplateExecutor executes a named template with data.
type TemplateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// ExecutorFunc adapts a function to a TemplateExecutor.
type ExecutorFunc func(w io.Writer, name string, data any) error

func (f ExecutorFunc) ExecuteTemplate(w io.Writer, name string, data any) error {
	if f == nil {
		return errors.New("template executor func is nil")
	}
	return f(w, name, data)
}

// Pongo2Executor executes pongo2 templates located under Dir.
// Templates are cached after first use unless Debug is set.
type Pongo2Executor struct {
	Dir   string
	Debug bool

	set *pongo2.TemplateSet
}

var _ TemplateExecutor = (*Pongo2Executor)(nil)

// NewPongo2Executor returns an executor for the templates in dir.
func NewPongo2Executor(dir string) (*Pongo2Executor, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, hardcopy.NewError(hardcopy.KindConfiguration, "template directory is required", nil)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, hardcopy.NewError(hardcopy.KindConfiguration, fmt.Sprintf("template directory %s is not readable", dir), err)
	}
	if !info.IsDir() {
		return nil, hardcopy.NewError(hardcopy.KindConfiguration, fmt.Sprintf("template directory %s is not a directory", dir), nil)
	}
	loader, err := pongo2.NewLocalFileSystemLoader(dir)
	if err != nil {
		return nil, hardcopy.NewError(hardcopy.KindConfiguration, "template loader init failed", err)
	}
	return &Pongo2Executor{
		Dir: dir,
		set: pongo2.NewSet("hardcopy", loader),
	}, nil
}

// ExecuteTemplate renders name with data. Map data becomes the template
// context; any other value is exposed as "data".
func (e *Pongo2Executor) ExecuteTemplate(w io.Writer, name string, data any) error {
	if e == nil || e.set == nil {
		return hardcopy.NewError(hardcopy.KindInternal, "pongo2 executor is not initialized", nil)
	}
	if err := e.checkName(name); err != nil {
		return err
	}

	var (
		tpl *pongo2.Template
		err error
	)
	if e.Debug {
		tpl, err = e.set.FromFile(name)
	} else {
		tpl, err = e.set.FromCache(name)
	}
	if err != nil {
		return hardcopy.NewError(hardcopy.KindInternal, fmt.Sprintf("parse template %s", name), err)
	}
	if err := tpl.ExecuteWriter(contextFrom(data), w); err != nil {
		return hardcopy.NewError(hardcopy.KindInternal, fmt.Sprintf("execute template %s", name), err)
	}
	return nil
}

func (e *Pongo2Executor) checkName(name string) error {
	if name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return hardcopy.NewError(hardcopy.KindValidation, fmt.Sprintf("invalid template name %q", name), nil)
	}
	info, err := os.Stat(filepath.Join(e.Dir, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return hardcopy.NewError(hardcopy.KindNotFound, fmt.Sprintf("template %s not found", name), err)
		}
		return fmt.Errorf("stat template %s: %w", name, err)
	}
	if info.IsDir() {
		return hardcopy.NewError(hardcopy.KindNotFound, fmt.Sprintf("template %s not found", name), nil)
	}
	return nil
}

func contextFrom(data any) pongo2.Context {
	switch value := data.(type) {
	case nil:
		return pongo2.Context{}
	case pongo2.Context:
		return value
	case map[string]any:
		return pongo2.Context(value)
	default:
		return pongo2.Context{"data": value}
	}
}

// Render executes name into memory, refusing output larger than maxBytes.
// A non-positive maxBytes uses DefaultMaxBytes.
func Render(ctx context.Context, tmpl TemplateExecutor, name string, data any, maxBytes int64) ([]byte, error) {
	if tmpl == nil {
		return nil, hardcopy.NewError(hardcopy.KindConfiguration, "template executor is not configured", nil)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	var buf bytes.Buffer
	lw := &limitWriter{w: &buf, max: maxBytes}
	if err := tmpl.ExecuteTemplate(lw, name, data); err != nil {
		if errors.Is(err, errTooLarge) {
			return nil, hardcopy.NewError(hardcopy.KindValidation, fmt.Sprintf("template %s output exceeds %d bytes", name, maxBytes), nil)
		}
		return nil, err
	}
	if lw.exceeded {
		return nil, hardcopy.NewError(hardcopy.KindValidation, fmt.Sprintf("template %s output exceeds %d bytes", name, maxBytes), nil)
	}
	return buf.Bytes(), nil
}

var errTooLarge = errors.New("template output too large")

type limitWriter struct {
	w        io.Writer
	max      int64
	count    int64
	exceeded bool
}

func (lw *limitWriter) Write(p []byte) (int, error) {
	if lw.count+int64(len(p)) > lw.max {
		lw.exceeded = true
		return 0, errTooLarge
	}
	n, err := lw.w.Write(p)
	lw.count += int64(n)
	return n, err
}
