package hardcopyview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	hardcopytemplate "github.com/goliatone/go-hardcopy/adapters/template"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// HTMLQueryParam short-circuits conversion and returns the rendered HTML.
const HTMLQueryParam = "html"

// DefaultMaxBufferBytes bounds buffered responses when the transport cannot
// stream.
const DefaultMaxBufferBytes int64 = 64 << 20

// View renders a template and responds with the converted document.
type View struct {
	TemplateName     string
	TemplateResolver func(req Request) (string, error)
	Templates        hardcopytemplate.TemplateExecutor
	Converter        hardcopy.Converter

	DownloadAttachment bool
	// VirtualTimeBudget is passed to the renderer in milliseconds when set.
	VirtualTimeBudget int
	WindowSize        hardcopy.WindowSize
	Options           hardcopy.Options

	ContextData func(req Request) (map[string]any, error)
	ProcessHTML func(ctx context.Context, html []byte) ([]byte, error)

	Logger         hardcopy.Logger
	TempDir        string
	IDGenerator    func() string
	MaxBufferBytes int64
}

// Serve handles one request. Errors before the response starts are written
// as JSON.
func (v *View) Serve(req Request, res Response) {
	if res == nil {
		return
	}
	if v == nil || req == nil {
		WriteError(res, hardcopy.NewError(hardcopy.KindInternal, "view is not configured", nil))
		return
	}
	if err := v.serve(req, res); err != nil {
		v.logger().Errorf("hardcopy: %s %s failed: %v", req.Method(), req.Path(), err)
		WriteError(res, err)
	}
}

func (v *View) serve(req Request, res Response) error {
	ctx := req.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	name, err := v.templateName(req)
	if err != nil {
		return err
	}
	data, err := v.contextData(req, name)
	if err != nil {
		return err
	}
	html, err := hardcopytemplate.Render(ctx, v.Templates, name, data, v.maxBufferBytes())
	if err != nil {
		return err
	}

	if req.HasQuery(HTMLQueryParam) {
		res.SetHeader("Content-Type", "text/html; charset=utf-8")
		res.SetHeader("Content-Length", strconv.Itoa(len(html)))
		res.WriteHeader(http.StatusOK)
		_, err := res.Write(html)
		return v.afterStart(err)
	}

	if v.ProcessHTML != nil {
		html, err = v.ProcessHTML(ctx, html)
		if err != nil {
			return err
		}
	}
	if v.Converter == nil {
		return hardcopy.NewError(hardcopy.KindConfiguration, "view converter is not configured", nil)
	}
	opts, err := v.options()
	if err != nil {
		return err
	}

	id := v.newID()
	result, err := hardcopy.ConvertToTemp(ctx, v.Converter, html, opts, v.TempDir)
	if err != nil {
		return err
	}
	defer result.Close()

	writer, streaming := res.Writer()
	if !streaming && result.Size > v.maxBufferBytes() {
		return hardcopy.NewError(hardcopy.KindValidation, "rendered document exceeds buffer limit", nil)
	}

	filename := Filename(name, v.Converter.Extension())
	res.SetHeader("Content-Type", v.Converter.ContentType())
	res.SetHeader("Content-Length", strconv.FormatInt(result.Size, 10))
	res.SetHeader("Content-Disposition", Disposition(filename, v.DownloadAttachment))
	res.SetHeader("X-Render-Id", id)
	res.WriteHeader(http.StatusOK)

	if streaming && writer != nil {
		_, err = io.Copy(writer, result.File)
	} else {
		var buf bytes.Buffer
		if _, err = io.Copy(&buf, result.File); err == nil {
			_, err = res.Write(buf.Bytes())
		}
	}
	if err := v.afterStart(err); err != nil {
		return err
	}
	v.logger().Infof("hardcopy: served %s %s as %s (%d bytes, id %s)", req.Method(), req.Path(), filename, result.Size, id)
	return nil
}

// afterStart logs write failures once the response is committed; nothing
// more can be sent to the client at that point.
func (v *View) afterStart(err error) error {
	if err != nil {
		v.logger().Errorf("hardcopy: response write failed: %v", err)
	}
	return nil
}

func (v *View) templateName(req Request) (string, error) {
	if v.TemplateResolver != nil {
		name, err := v.TemplateResolver(req)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(name) != "" {
			return name, nil
		}
	}
	if name := strings.TrimSpace(v.TemplateName); name != "" {
		return name, nil
	}
	return "", hardcopy.NewError(hardcopy.KindConfiguration, "view template name is not configured", nil)
}

func (v *View) contextData(req Request, name string) (map[string]any, error) {
	data := map[string]any{
		"template_name": name,
		"request_path":  req.Path(),
	}
	if v.ContextData == nil {
		return data, nil
	}
	extra, err := v.ContextData(req)
	if err != nil {
		return nil, err
	}
	for key, value := range extra {
		data[key] = value
	}
	return data, nil
}

func (v *View) options() (hardcopy.Options, error) {
	opts, err := v.Options.Normalize()
	if err != nil {
		return nil, err
	}
	if v.VirtualTimeBudget > 0 {
		opts.SetDefault(hardcopy.OptionVirtualTimeBudget, strconv.Itoa(v.VirtualTimeBudget))
	}
	if !v.WindowSize.IsZero() {
		opts.SetDefault(hardcopy.OptionWindowSize, v.WindowSize.String())
	}
	return opts, nil
}

func (v *View) newID() string {
	if v.IDGenerator != nil {
		if id := v.IDGenerator(); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

func (v *View) maxBufferBytes() int64 {
	if v.MaxBufferBytes > 0 {
		return v.MaxBufferBytes
	}
	return DefaultMaxBufferBytes
}

func (v *View) logger() hardcopy.Logger {
	if v.Logger == nil {
		return hardcopy.NopLogger{}
	}
	return v.Logger
}

// TemplateFromParam resolves the template from a route parameter, adding
// ".html" when the parameter has no extension.
func TemplateFromParam(param string) func(req Request) (string, error) {
	return func(req Request) (string, error) {
		name := strings.TrimSpace(req.Param(param))
		if name == "" {
			return "", hardcopy.NewError(hardcopy.KindValidation, fmt.Sprintf("route parameter %q is required", param), nil)
		}
		if path.Ext(name) == "" {
			name += ".html"
		}
		return name, nil
	}
}
