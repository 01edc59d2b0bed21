package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/rampboard/pkg/errors"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeSchema, errors.ErrCodeEmptyInput, errors.ErrCodeUnreadableFile:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeKeyNotFound, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSessionExpired:
		return http.StatusGone
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeError answers with the error's status and {code, message, hint}.
// Unclassified errors are logged and reported as INTERNAL_ERROR without
// their details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
		Hint:    errors.Hint(err),
	}
	switch {
	case status == http.StatusRequestEntityTooLarge:
		resp.Code = errors.ErrCodeInvalidInput
		resp.Message = "upload is larger than the server accepts"
	case status >= http.StatusInternalServerError:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		resp.Code = errors.ErrCodeInternal
		resp.Message = "internal error"
		resp.Hint = ""
	case errors.Recoverable(err):
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", resp.Code, "msg", resp.Message)
	default:
		s.logger.Warn("request rejected", "path", r.URL.Path, "code", resp.Code, "err", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
