package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// ErrorBody is the JSON shape of every API failure.
type ErrorBody struct {
	Error  string                 `json:"error"`
	Fields []dashboard.FieldError `json:"fields,omitempty"`
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrInvalidForm), errors.Is(err, reports.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorBody extracts field details from validation failures.
func NewErrorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	var formErr *dashboard.FormError
	if errors.As(err, &formErr) {
		body.Fields = formErr.Fields
		return body
	}
	var cfgErr *reports.ValidationError
	if errors.As(err, &cfgErr) {
		body.Error = cfgErr.Message
		for _, f := range cfgErr.Fields {
			body.Fields = append(body.Fields, dashboard.FieldError{Field: f.Field, Message: f.Message})
		}
	}
	return body
}
