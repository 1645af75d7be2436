package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeServiceError maps a service error to its HTTP status and writes it.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var status int
	var code string
	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrNoDemand),
		errors.Is(err, apperrors.ErrNoQualifiedSupplier):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrMissingAnchor),
		errors.Is(err, apperrors.ErrUnknownAction),
		errors.Is(err, apperrors.ErrInvalidRequest):
		status, code = http.StatusBadRequest, "invalid_request"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
	}

	if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
		logger.Error("Failed to write error response", zap.Error(werr))
	}
}
