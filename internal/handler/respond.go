package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("empty body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// errorWriter writes {message, error?} bodies. Internal detail is only
// included when exposeErrors is set.
type errorWriter struct {
	logger       *slog.Logger
	exposeErrors bool
	// envelope adds "success": false, matching the family endpoints.
	envelope bool
}

func (e errorWriter) write(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		e.logger.ErrorContext(r.Context(), message, "error", err, "path", r.URL.Path)
	}
	body := errorBody{Message: message}
	if e.envelope {
		f := false
		body.Success = &f
	}
	if err != nil && e.exposeErrors {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a JSON body keeping numbers as json.Number.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}
