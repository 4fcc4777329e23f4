package handler

import (
	"github.com/medhq/hospital-api/internal/form"
	"github.com/medhq/hospital-api/internal/model"
)

// Response is the envelope every route returns. Page rendering is out of
// scope, so a browser client drives navigation from it: either a form
// state to re-render (with field errors and submitted values retained)
// or a redirect target with a categorized flash message.
type Response struct {
	Status   string            `json:"status"`
	Message  string            `json:"message,omitempty"`
	Data     interface{}       `json:"data,omitempty"`
	Form     *form.Form        `json:"form,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Flash    *model.Flash      `json:"flash,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// NewFormResponse renders a form, optionally alongside extra page data.
func NewFormResponse(f *form.Form, data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
		Form:   f,
	}
}

// NewInvalidFormResponse re-renders a form that failed validation.
func NewInvalidFormResponse(f *form.Form) *Response {
	return &Response{
		Status: "error",
		Form:   f,
		Errors: f.Errors,
	}
}

// NewRedirectResponse sends the client to target with a transient
// status message.
func NewRedirectResponse(target, category, message string) *Response {
	status := "success"
	if category == model.FlashDanger || category == model.FlashWarning {
		status = "error"
	}
	return &Response{
		Status:   status,
		Redirect: target,
		Flash:    &model.Flash{Category: category, Message: message},
	}
}

// WithFlash attaches a flash message to an existing response.
func (r *Response) WithFlash(category, message string) *Response {
	r.Flash = &model.Flash{Category: category, Message: message}
	return r
}
