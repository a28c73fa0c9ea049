package hardcopyhttp

import (
	"net/http"

	hardcopyview "github.com/goliatone/go-hardcopy/adapters/view"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// Handler serves a hardcopy view over net/http.
type Handler struct {
	view *hardcopyview.View
}

// NewHandler creates a new HTTP handler for view.
func NewHandler(view *hardcopyview.View) *Handler {
	return &Handler{view: view}
}

// RegisterRoutes registers the handler for pattern on a compatible router,
// such as *http.ServeMux. Patterns with wildcards ("/pdf/{template}") feed
// hardcopyview.TemplateFromParam.
func (h *Handler) RegisterRoutes(router any, pattern string) {
	switch r := router.(type) {
	case interface{ Handle(string, http.Handler) }:
		r.Handle(pattern, h)
	case interface {
		HandleFunc(string, func(http.ResponseWriter, *http.Request))
	}:
		r.HandleFunc(pattern, h.ServeHTTP)
	}
}

// ServeHTTP renders the view for GET and HEAD requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	res := httpResponse{w: w}
	if h == nil || h.view == nil {
		hardcopyview.WriteError(res, hardcopy.NewError(hardcopy.KindInternal, "handler is nil", nil))
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		_ = res.WriteJSON(http.StatusMethodNotAllowed, hardcopyview.ErrorResponse{
			Error: hardcopyview.ErrorBody{Message: "method not allowed", Code: "method_not_allowed"},
		})
		return
	}
	h.view.Serve(httpRequest{r: r}, res)
}
