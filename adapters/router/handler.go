package hardcopyrouter

import (
	hardcopyview "github.com/goliatone/go-hardcopy/adapters/view"
	"github.com/goliatone/go-hardcopy/hardcopy"
	"github.com/goliatone/go-router"
)

// Handler exposes a hardcopy view as a go-router handler.
type Handler struct {
	view *hardcopyview.View
}

// NewHandler creates a go-router handler for view.
func NewHandler(view *hardcopyview.View) *Handler {
	return &Handler{view: view}
}

// RegisterRoutes registers GET path on a compatible go-router router.
// Use a ":template" segment together with hardcopyview.TemplateFromParam.
func (h *Handler) RegisterRoutes(r any, path string, mw ...router.MiddlewareFunc) {
	registrar, ok := r.(routeRegistrar)
	if !ok {
		return
	}
	registrar.Get(path, h.Handle, mw...)
}

// Handle renders the view. Failures are written as JSON responses, so the
// returned error is always nil.
func (h *Handler) Handle(c router.Context) error {
	if c == nil {
		return nil
	}
	if h == nil || h.view == nil {
		hardcopyview.WriteError(routerResponse{ctx: c}, hardcopy.NewError(hardcopy.KindInternal, "handler is nil", nil))
		return nil
	}
	h.view.Serve(routerRequest{ctx: c}, routerResponse{ctx: c})
	return nil
}

type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}
