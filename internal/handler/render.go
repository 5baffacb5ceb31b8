package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/imagefolders/internal/ctxkeys"
	"github.com/templui/imagefolders/internal/service"
)

// errorResponse is the body of every failed API call
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var statusByCode = map[string]int{
	"not_found":                http.StatusNotFound,
	"parent_not_found":         http.StatusNotFound,
	"folder_not_found":         http.StatusNotFound,
	"duplicate_name":           http.StatusConflict,
	"not_empty":                http.StatusConflict,
	"invalid_name":             http.StatusBadRequest,
	"storage_unavailable":      http.StatusServiceUnavailable,
	"payload_too_large":        http.StatusRequestEntityTooLarge,
	"unsupported_payload_type": http.StatusUnsupportedMediaType,
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("render json failed", "error", err)
	}
}

func renderMessage(w http.ResponseWriter, message string) {
	renderJSON(w, http.StatusOK, messageResponse{Message: message})
}

func renderBadRequest(w http.ResponseWriter, message string) {
	renderJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: message})
}

// renderError maps a service error to its status and stable code. Unclassified errors become a 500 and are logged.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := service.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		renderJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal_error", Message: "Server error"})
		return
	}

	if errors.Is(err, service.ErrStorageUnavailable) {
		slog.Error("storage unavailable",
			"error", err,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		renderJSON(w, status, errorResponse{Code: code, Message: "Storage is temporarily unavailable"})
		return
	}

	renderJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}
