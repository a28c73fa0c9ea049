package hardcopyrouter

import (
	"context"
	"io"
	"net/url"
	"strings"

	hardcopyview "github.com/goliatone/go-hardcopy/adapters/view"
	"github.com/goliatone/go-router"
)

var (
	_ hardcopyview.Request  = routerRequest{}
	_ hardcopyview.Response = routerResponse{}
)

type routerRequest struct {
	ctx router.Context
}

func (req routerRequest) Context() context.Context {
	if req.ctx == nil {
		return context.Background()
	}
	return req.ctx.Context()
}

func (req routerRequest) Method() string {
	if req.ctx == nil {
		return ""
	}
	return req.ctx.Method()
}

func (req routerRequest) Path() string {
	if req.ctx == nil {
		return ""
	}
	return req.ctx.Path()
}

func (req routerRequest) URL() *url.URL {
	if req.ctx == nil {
		return nil
	}
	if httpCtx, ok := router.AsHTTPContext(req.ctx); ok {
		if httpReq := httpCtx.Request(); httpReq != nil {
			return httpReq.URL
		}
	}
	raw := strings.TrimSpace(req.ctx.OriginalURL())
	if raw == "" {
		return nil
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil
	}
	return parsed
}

func (req routerRequest) Header(name string) string {
	if req.ctx == nil {
		return ""
	}
	return req.ctx.Header(name)
}

func (req routerRequest) Query(name string) string {
	if req.ctx == nil {
		return ""
	}
	return req.ctx.Query(name)
}

// HasQuery reports flag-style parameters such as "?html" that carry no value.
func (req routerRequest) HasQuery(name string) bool {
	if req.ctx == nil {
		return false
	}
	if _, ok := req.ctx.Queries()[name]; ok {
		return true
	}
	if u := req.URL(); u != nil {
		return u.Query().Has(name)
	}
	return false
}

func (req routerRequest) Param(name string) string {
	if req.ctx == nil {
		return ""
	}
	return req.ctx.Param(name)
}

type routerResponse struct {
	ctx router.Context
}

func (res routerResponse) SetHeader(name, value string) {
	if res.ctx == nil {
		return
	}
	res.ctx.SetHeader(name, value)
}

func (res routerResponse) WriteHeader(status int) {
	if res.ctx == nil {
		return
	}
	res.ctx.Status(status)
}

func (res routerResponse) Write(data []byte) (int, error) {
	if res.ctx == nil {
		return 0, nil
	}
	if err := res.ctx.Send(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (res routerResponse) WriteJSON(status int, payload any) error {
	if res.ctx == nil {
		return nil
	}
	return res.ctx.JSON(status, payload)
}

// Writer is only available on net/http backed contexts. Fiber contexts
// buffer, since the output file is removed once the handler returns.
func (res routerResponse) Writer() (io.Writer, bool) {
	if res.ctx == nil {
		return nil, false
	}
	httpCtx, ok := router.AsHTTPContext(res.ctx)
	if !ok || httpCtx.Response() == nil {
		return nil, false
	}
	return httpCtx.Response(), true
}
