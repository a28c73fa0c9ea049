package hardcopyview

import (
	"net/http"

	errorslib "github.com/goliatone/go-errors"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// WriteError writes err as a JSON error response.
func WriteError(res Response, err error) {
	if res == nil {
		return
	}
	if err == nil {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	ge := hardcopy.AsGoError(err)
	_ = res.WriteJSON(StatusForError(err), ErrorResponse{
		Error: ErrorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
		},
	})
}

// StatusForError returns the HTTP status for err.
func StatusForError(err error) int {
	return statusForError(hardcopy.AsGoError(err))
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryAuthz:
		return http.StatusForbidden
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		switch err.TextCode {
		case "canceled":
			return http.StatusConflict
		case "timeout":
			return http.StatusGatewayTimeout
		default:
			return http.StatusBadGateway
		}
	default:
		return http.StatusInternalServerError
	}
}
