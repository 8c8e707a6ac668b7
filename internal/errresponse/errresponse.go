package errresponse

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrResponse renderer type for handling all sorts of errors. Only ErrorText
// reaches the client; Err stays server side for logging.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	ErrorText string `json:"error"` // user-level message
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

// ErrInvalidRequest is returned when title or content is missing. The
// message is part of the public contract and must not be reworded.
func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		ErrorText:      "Category cannot be empty",
	}
}

func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		ErrorText:      "Internal Server Error",
	}
}

// ErrMethodNotAllowed answers a method/path combination the API does not
// serve. Mutating methods get a message naming the method.
func ErrMethodNotAllowed(method string) render.Renderer {
	text := "Method Not Allowed"

	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		text = "Invalid URL for " + method + " request"
	}

	return &ErrResponse{
		HTTPStatusCode: http.StatusMethodNotAllowed,
		ErrorText:      text,
	}
}

// nolint
var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, ErrorText: "Article not found"}
