package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/kneefig/pkg/errors"
)

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Error: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidFigure,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
