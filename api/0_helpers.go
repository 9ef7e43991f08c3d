package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/itemclosure/service"
)

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func writeError(w http.ResponseWriter, status int, err error, description string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(PrettyError{
		Message:     err.Error(),
		Description: description,
	})
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		if err == box.ErrResourceNotFound {
			writeError(w, http.StatusNotFound, err, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()))
			return
		}

		if err == box.ErrMethodNotAllowed {
			writeError(w, http.StatusMethodNotAllowed, err, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method))
			return
		}

		if isMalformedJSON(err) {
			writeError(w, http.StatusBadRequest, err, "Malformed JSON")
			return
		}

		if errors.Is(err, service.ErrorInvalidRequest) {
			writeError(w, http.StatusBadRequest, err, "Invalid request")
			return
		}

		if errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, err, "Request canceled")
			return
		}

		writeError(w, http.StatusInternalServerError, err, "Unexpected error")
	}
}

func isMalformedJSON(err error) bool {
	syntaxErr := &json.SyntaxError{}
	typeErr := &json.UnmarshalTypeError{}
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
