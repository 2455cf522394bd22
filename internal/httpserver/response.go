package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketplace-be/internal/apperror"
	"marketplace-be/internal/logger"

	"go.uber.org/zap"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, apiResponse{Success: true, Message: message, Data: data})
}

// writeError maps the error kind to its HTTP status. Internal errors are
// logged with their cause but answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)

	resp := apiResponse{Success: false, Message: err.Error()}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		resp.Details = appErr.Details
	}

	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		resp.Message = "internal server error"
	}

	writeJSON(w, status, resp)
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}
